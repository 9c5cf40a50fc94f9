package xmlctx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
)

// Builder produces a Context for a set of types.
type Builder interface {
	Build(types []Type) (Context, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(types []Type) (Context, error)

// Build calls f(types).
func (f BuilderFunc) Build(types []Type) (Context, error) {
	return f(types)
}

// codecBuilder binds type sets to a codec.
type codecBuilder struct {
	codec Codec
}

// NewBuilder returns a Builder whose contexts delegate encoding to codec.
func NewBuilder(codec Codec) Builder {
	return &codecBuilder{codec: codec}
}

// Build validates the type set and returns a *Bound context.
// Two root types in one set may not share an element name.
func (b *codecBuilder) Build(types []Type) (Context, error) {
	if b.codec == nil {
		return nil, newBuildError(types, errors.New("no codec configured"))
	}

	bound := &Bound{
		codec: b.codec,
		types: make(map[reflect.Type]Type, len(types)),
	}
	roots := make(map[xml.Name]string)
	for _, t := range types {
		if t.Reflect == nil {
			return nil, newBuildError(types, fmt.Errorf("type %s has no reflect type", t.FullName()))
		}
		if t.Reflect.Kind() != reflect.Struct {
			return nil, newBuildError(types, fmt.Errorf("type %s is a %s, not a struct", t.FullName(), t.Reflect.Kind()))
		}
		if t.Has(MarkRootElement) {
			name := t.ElementName()
			if prev, dup := roots[name]; dup && prev != t.FullName() {
				return nil, newBuildError(types, fmt.Errorf("%s and %s both map to element {%s}%s", prev, t.FullName(), name.Space, name.Local))
			}
			roots[name] = t.FullName()
		}
		bound.types[t.Reflect] = t
	}
	return bound, nil
}

// Bound is the Context produced by NewBuilder.
type Bound struct {
	codec Codec
	types map[reflect.Type]Type
}

// ContentType returns the codec's MIME type.
func (b *Bound) ContentType() string {
	return b.codec.ContentType()
}

// Types returns the bound types ordered by full name.
func (b *Bound) Types() []Type {
	types := make([]Type, 0, len(b.types))
	for _, t := range b.types {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].FullName() < types[j].FullName()
	})
	return types
}

// Lookup reports the bound description of rt.
func (b *Bound) Lookup(rt reflect.Type) (Type, bool) {
	t, ok := b.types[indirect(rt)]
	return t, ok
}

func (b *Bound) bound(v any) (Type, error) {
	rt := indirect(reflect.TypeOf(v))
	if rt == nil {
		return Type{}, newCodecError(ErrUnboundType, errors.New("nil value"))
	}
	t, ok := b.types[rt]
	if !ok {
		return Type{}, newCodecError(ErrUnboundType, fmt.Errorf("%s", rt))
	}
	return t, nil
}

// Marshal encodes v. Declared CDATA elements are honored when the codec
// implements CDataMarshaler.
func (b *Bound) Marshal(v any) ([]byte, error) {
	t, err := b.bound(v)
	if err != nil {
		return nil, err
	}

	var data []byte
	if cm, ok := b.codec.(CDataMarshaler); ok && len(t.CData) > 0 {
		data, err = cm.MarshalCData(v, t.CData)
	} else {
		data, err = b.codec.Marshal(v)
	}
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return data, nil
}

// Unmarshal decodes data into v.
func (b *Bound) Unmarshal(data []byte, v any) error {
	t, err := b.target(v)
	if err != nil {
		return err
	}
	if td, ok := b.codec.(TokenDecoder); ok {
		return b.decodeTokens(td, NewTokenSource(bytes.NewReader(data)), t, v)
	}
	if err := b.codec.Unmarshal(data, v); err != nil {
		return newCodecError(ErrUnmarshal, err)
	}
	return nil
}

// Decode reads one document from r into v. Token-decoding codecs stream from
// r; other codecs read it fully first.
func (b *Bound) Decode(r io.Reader, v any) error {
	t, err := b.target(v)
	if err != nil {
		return err
	}
	if td, ok := b.codec.(TokenDecoder); ok {
		return b.decodeTokens(td, NewTokenSource(r), t, v)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return newCodecError(ErrUnmarshal, err)
	}
	if err := b.codec.Unmarshal(data, v); err != nil {
		return newCodecError(ErrUnmarshal, err)
	}
	return nil
}

func (b *Bound) target(v any) (Type, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return Type{}, newCodecError(ErrUnmarshal, fmt.Errorf("decode target must be a non-nil pointer, got %T", v))
	}
	return b.bound(v)
}

// decodeTokens validates the root element, then hands the replayed stream to
// the codec. Root validation errors are returned unwrapped.
func (b *Bound) decodeTokens(td TokenDecoder, src xml.TokenReader, t Type, v any) error {
	src, err := checkRoot(src, t)
	if errors.Is(err, ErrEmptyDocument) || errors.Is(err, ErrRootElementMismatch) {
		return err
	}
	if err != nil {
		return newCodecError(ErrUnmarshal, err)
	}
	if err := td.DecodeTokens(src, v); err != nil {
		return newCodecError(ErrUnmarshal, err)
	}
	return nil
}
