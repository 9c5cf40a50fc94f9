package xmlctx

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

// ResolveResult classifies a resolution for a Recorder.
type ResolveResult string

const (
	ResolveHit    ResolveResult = "hit"
	ResolveCached ResolveResult = "cached"
	ResolveMiss   ResolveResult = "miss"
)

// Recorder observes registry activity. See the metrics package for a
// Prometheus implementation.
type Recorder interface {
	ObserveRegister(base string, elapsed time.Duration, err error)
	ObserveResolve(result ResolveResult)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRegister(string, time.Duration, error) {}

func (nopRecorder) ObserveResolve(ResolveResult) {}

// Registry owns the contexts registered per base package and resolves types
// to them, falling back to the nearest registered ancestor package.
//
// Reads never lock: the base-package trie and the resolution cache are
// swapped atomically. Register publishes a fully built index or nothing.
// Registering the same base package again replaces the earlier index and
// drops every cached resolution.
type Registry struct {
	src      TypeSource
	builder  Builder
	marker   Marker
	logger   *slog.Logger
	recorder Recorder

	mu    sync.Mutex // serialises publication only
	root  atomic.Pointer[node]
	cache atomic.Pointer[sync.Map] // reflect.Type -> Context
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithRecorder sets the activity recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *Registry) {
		r.recorder = rec
	}
}

// WithMarker changes the marker used to discover types. Defaults to
// MarkRootElement.
func WithMarker(m Marker) Option {
	return func(r *Registry) {
		r.marker = m
	}
}

// New creates an empty registry discovering types from src and building
// contexts with b.
func New(src TypeSource, b Builder, opts ...Option) *Registry {
	r := &Registry{
		src:      src,
		builder:  b,
		marker:   MarkRootElement,
		logger:   slog.Default(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cache.Store(new(sync.Map))
	return r
}

// Register discovers every marked type under base and the dependent packages,
// builds the default context and one context per declared namespace, and
// publishes the resulting index under base.
//
// On failure an *InitializationError is returned and the registry is left as
// it was. Failures are not retried.
func (r *Registry) Register(base string, deps ...string) error {
	ctx := context.Background()
	start := time.Now()

	r.logger.Info("initializing contexts", "base_package", base, "dependent_packages", deps)
	emitRegisterStart(ctx, base)

	idx, err := r.build(ctx, base, deps)
	elapsed := time.Since(start)
	r.recorder.ObserveRegister(base, elapsed, err)
	if err != nil {
		r.logger.Error("could not initialize contexts", "base_package", base, "err", err)
		emitRegisterComplete(ctx, base, elapsed, 0, 0, err)
		return err
	}

	r.publish(idx)

	contexts := 1 + len(idx.namespaces)
	r.logger.Debug("contexts initialized", "base_package", base, "types", len(idx.types), "contexts", contexts, "duration", elapsed)
	emitRegisterComplete(ctx, base, elapsed, len(idx.types), contexts, nil)
	return nil
}

func (r *Registry) build(ctx context.Context, base string, deps []string) (*Index, error) {
	if err := validatePackage(base); err != nil {
		return nil, &InitializationError{BasePackage: base, Stage: StageScan, Cause: err}
	}
	for _, dep := range deps {
		if err := validatePackage(dep); err != nil {
			return nil, &InitializationError{BasePackage: base, Stage: StageScan, Cause: err}
		}
	}

	types, err := discover(r.src, r.marker, base, deps)
	if err != nil {
		return nil, &InitializationError{BasePackage: base, Stage: StageScan, Cause: err}
	}

	def, err := r.builder.Build(types)
	if err != nil {
		return nil, &InitializationError{BasePackage: base, Stage: StageBuild, Cause: err}
	}
	emitContextBuilt(ctx, base, "", len(types))

	idx := newIndex(base, def, types)
	classes, packages := partition(types, base, r.src.PackageNamespace)
	for _, ns := range sortedKeys(classes) {
		nsCtx, err := r.builder.Build(classes[ns])
		if err != nil {
			return nil, &InitializationError{BasePackage: base, Stage: StageBuild, Namespace: ns, Cause: err}
		}
		emitContextBuilt(ctx, base, ns, len(classes[ns]))
		idx.assign(ns, nsCtx, classes[ns], packages[ns])
	}
	return idx, nil
}

// publish stores idx and then resets the resolution cache. Readers load the
// cache before the trie, so a resolution against the new trie can only be
// cached in the new map.
func (r *Registry) publish(idx *Index) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.root.Store(r.root.Load().with(segments(idx.base), idx))
	r.cache.Store(new(sync.Map))
}

// Resolve returns the context for rt. Pointer types resolve like their
// element type. A *NotFoundError is returned when no registered ancestor
// package exists or its index does not contain the type.
func (r *Registry) Resolve(rt reflect.Type) (Context, error) {
	rt = indirect(rt)
	if rt == nil {
		r.recorder.ObserveResolve(ResolveMiss)
		return nil, &NotFoundError{Type: "<nil>"}
	}

	cache := r.cache.Load()
	if cached, ok := cache.Load(rt); ok {
		r.recorder.ObserveResolve(ResolveCached)
		return cached.(Context), nil
	}

	t := r.describe(rt)
	idx := r.root.Load().nearest(segments(t.Package))
	if idx == nil {
		r.miss(t, "")
		return nil, &NotFoundError{Type: t.FullName(), Package: t.Package}
	}
	ctx, ok := idx.Context(t.FullName())
	if !ok {
		r.miss(t, idx.base)
		return nil, &NotFoundError{Type: t.FullName(), Package: t.Package, BasePackage: idx.base}
	}

	cache.Store(rt, ctx)
	r.recorder.ObserveResolve(ResolveHit)
	return ctx, nil
}

// ResolveFor returns the context for T.
func ResolveFor[T any](r *Registry) (Context, error) {
	return r.Resolve(reflect.TypeFor[T]())
}

func (r *Registry) miss(t Type, base string) {
	r.recorder.ObserveResolve(ResolveMiss)
	r.logger.Debug("no context for type", "type", t.FullName(), "package", t.Package, "base_package", base)
	emitResolveMiss(context.Background(), t.FullName(), t.Package)
}

// describe returns the declaration of rt, or a derived description.
func (r *Registry) describe(rt reflect.Type) Type {
	if t, ok := r.src.Lookup(rt); ok {
		return t
	}
	return TypeOf(rt)
}

// Lookup returns the index of pkg or of its nearest registered ancestor.
func (r *Registry) Lookup(pkg string) (*Index, bool) {
	idx := r.root.Load().nearest(segments(pkg))
	return idx, idx != nil
}

// Exists reports whether pkg itself is a registered base package.
func (r *Registry) Exists(pkg string) bool {
	return r.root.Load().exact(segments(pkg)) != nil
}

// Bases returns every registered base package.
func (r *Registry) Bases() []string {
	return r.root.Load().walk(nil)
}
