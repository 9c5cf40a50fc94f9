package xmlctx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"sync"
	"time"
)

// Serializer marshals and unmarshals values through the context their type
// resolves to.
//
// With a standalone builder configured, types no registered context covers
// get a single-type context of their own. Concurrent first calls may each
// build one; the first stored wins and the others are discarded.
type Serializer struct {
	registry   *Registry
	standalone Builder
	contexts   sync.Map // reflect.Type -> Context, standalone contexts only
}

// SerializerOption configures a Serializer.
type SerializerOption func(*Serializer)

// WithStandalone enables single-type fallback contexts built with b.
func WithStandalone(b Builder) SerializerOption {
	return func(s *Serializer) {
		s.standalone = b
	}
}

// NewSerializer creates a Serializer over reg.
func NewSerializer(reg *Registry, opts ...SerializerOption) *Serializer {
	s := &Serializer{registry: reg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Context returns the context for rt, building a standalone context when the
// registry has none and a standalone builder is configured.
func (s *Serializer) Context(rt reflect.Type) (Context, error) {
	ctx, err := s.registry.Resolve(rt)
	if err == nil {
		return ctx, nil
	}
	if s.standalone == nil || !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	rt = indirect(rt)
	if cached, ok := s.contexts.Load(rt); ok {
		return cached.(Context), nil
	}

	t := s.registry.describe(rt)
	ctx, err = s.standalone.Build([]Type{t})
	if err != nil {
		return nil, err
	}
	actual, loaded := s.contexts.LoadOrStore(rt, ctx)
	if !loaded {
		emitStandaloneBuilt(context.Background(), t.FullName())
	}
	return actual.(Context), nil
}

// Marshal encodes v with the context of its type.
func (s *Serializer) Marshal(v any) ([]byte, error) {
	rt := reflect.TypeOf(v)
	if rt == nil {
		return nil, newCodecError(ErrMarshal, errors.New("nil value"))
	}
	ctx, err := s.Context(rt)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := ctx.Marshal(v)
	emitMarshalComplete(context.Background(), ctx.ContentType(), s.registry.describe(rt).FullName(), len(data), time.Since(start), err)
	return data, err
}

// Unmarshal decodes data into v, which must be a non-nil pointer.
func (s *Serializer) Unmarshal(data []byte, v any) error {
	return s.Decode(bytes.NewReader(data), v)
}

// Decode reads one document from r into v, which must be a non-nil pointer.
// Root element validation runs first when the codec decodes XML tokens.
func (s *Serializer) Decode(r io.Reader, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return newCodecError(ErrUnmarshal, errors.New("decode target must be a non-nil pointer"))
	}
	ctx, err := s.Context(rv.Type())
	if err != nil {
		return err
	}

	counter := &countingReader{r: r}
	start := time.Now()
	err = ctx.Decode(counter, v)
	emitUnmarshalComplete(context.Background(), ctx.ContentType(), s.registry.describe(rv.Type()).FullName(), counter.n, time.Since(start), err)
	return err
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}
