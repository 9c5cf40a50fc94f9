package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zoobzio/xmlctx"
	"github.com/zoobzio/xmlctx/bson"
	"github.com/zoobzio/xmlctx/json"
	"github.com/zoobzio/xmlctx/msgpack"
	"github.com/zoobzio/xmlctx/xml"
	"github.com/zoobzio/xmlctx/yaml"
)

// SetupOption adjusts Setup wiring.
type SetupOption func(*setup)

type setup struct {
	logger   *slog.Logger
	recorder xmlctx.Recorder
}

// WithLogger overrides the logger derived from the configuration.
func WithLogger(logger *slog.Logger) SetupOption {
	return func(s *setup) {
		s.logger = logger
	}
}

// WithRecorder attaches a registry recorder, e.g. a metrics.Collector.
func WithRecorder(rec xmlctx.Recorder) SetupOption {
	return func(s *setup) {
		s.recorder = rec
	}
}

// Codec returns the codec provider selected by cfg.Format.
func (c Config) Codec() (xmlctx.Codec, error) {
	switch strings.ToLower(c.Format) {
	case FormatXML, "":
		var opts []xml.Option
		if c.Indent {
			opts = append(opts, xml.WithIndent("", "  "))
		}
		if c.Header {
			opts = append(opts, xml.WithHeader())
		}
		return xml.New(opts...), nil
	case FormatJSON:
		if c.Indent {
			return json.New(json.WithIndent("  ")), nil
		}
		return json.New(), nil
	case FormatYAML:
		if c.Indent {
			return yaml.New(yaml.WithIndent(2)), nil
		}
		return yaml.New(), nil
	case FormatMsgpack:
		return msgpack.New(), nil
	case FormatBSON:
		return bson.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
}

// Setup builds a Registry and Serializer from cfg and registers every
// configured base package. Registrations that fail are reported in the
// joined error; the others stay registered and the registry is still
// returned.
func Setup(cfg Config, src xmlctx.TypeSource, opts ...SetupOption) (*xmlctx.Registry, *xmlctx.Serializer, error) {
	s := setup{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = cfg.Logger()
	}

	codec, err := cfg.Codec()
	if err != nil {
		return nil, nil, err
	}
	builder := xmlctx.NewBuilder(codec)

	regOpts := []xmlctx.Option{xmlctx.WithLogger(s.logger)}
	if s.recorder != nil {
		regOpts = append(regOpts, xmlctx.WithRecorder(s.recorder))
	}
	reg := xmlctx.New(src, builder, regOpts...)

	var serOpts []xmlctx.SerializerOption
	if cfg.Standalone {
		serOpts = append(serOpts, xmlctx.WithStandalone(builder))
	}
	ser := xmlctx.NewSerializer(reg, serOpts...)

	var errs []error
	for _, r := range cfg.All() {
		if err := reg.Register(r.BasePackage, r.DependentPackages...); err != nil {
			errs = append(errs, err)
		}
	}
	return reg, ser, errors.Join(errs...)
}
