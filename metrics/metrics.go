// Package metrics exports registry activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zoobzio/xmlctx"
)

// Collector implements xmlctx.Recorder and prometheus.Collector.
type Collector struct {
	registrations *prometheus.CounterVec
	duration      prometheus.Histogram
	resolutions   *prometheus.CounterVec
}

// New creates a Collector and registers its metrics with reg.
// A nil reg leaves the metrics unregistered.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xmlctx_registrations_total",
			Help: "Base package registrations by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "xmlctx_registration_duration_seconds",
			Help:    "Time spent discovering types and building contexts.",
			Buckets: prometheus.DefBuckets,
		}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xmlctx_resolutions_total",
			Help: "Context resolutions by result (hit, cached, miss).",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(c)
	}
	return c
}

// ObserveRegister records one Register call.
func (c *Collector) ObserveRegister(_ string, elapsed time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.registrations.WithLabelValues(result).Inc()
	c.duration.Observe(elapsed.Seconds())
}

// ObserveResolve records one Resolve call.
func (c *Collector) ObserveResolve(result xmlctx.ResolveResult) {
	c.resolutions.WithLabelValues(string(result)).Inc()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.registrations.Describe(ch)
	c.duration.Describe(ch)
	c.resolutions.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.registrations.Collect(ch)
	c.duration.Collect(ch)
	c.resolutions.Collect(ch)
}

var (
	_ xmlctx.Recorder      = (*Collector)(nil)
	_ prometheus.Collector = (*Collector)(nil)
)
