// Package json provides a JSON codec implementation.
package json

import (
	"encoding/json"

	"github.com/zoobzio/xmlctx"
)

// jsonCodec implements xmlctx.Codec for JSON.
type jsonCodec struct {
	indent string
}

// Option configures the JSON codec.
type Option func(*jsonCodec)

// WithIndent formats output with the given indent.
func WithIndent(indent string) Option {
	return func(c *jsonCodec) {
		c.indent = indent
	}
}

// New returns a JSON codec.
func New(opts ...Option) xmlctx.Codec {
	c := &jsonCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	if c.indent != "" {
		return json.MarshalIndent(v, "", c.indent)
	}
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
