// Package xml provides an XML codec implementation.
//
// Besides Codec it implements xmlctx.TokenDecoder, so contexts built over it
// validate root elements before decoding, and xmlctx.CDataMarshaler.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/xmlctx"
)

// xmlCodec implements xmlctx.Codec for XML.
type xmlCodec struct {
	prefix string
	indent string
	header bool
}

// Option configures the XML codec.
type Option func(*xmlCodec)

// WithIndent formats output with the given line prefix and indent.
func WithIndent(prefix, indent string) Option {
	return func(c *xmlCodec) {
		c.prefix = prefix
		c.indent = indent
	}
}

// WithHeader prepends the standard XML declaration to marshaled output.
func WithHeader() Option {
	return func(c *xmlCodec) {
		c.header = true
	}
}

// New returns an XML codec.
func New(opts ...Option) xmlctx.Codec {
	c := &xmlCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	data, err := c.encode(v)
	if err != nil {
		return nil, err
	}
	return c.withHeader(data), nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}

// DecodeTokens decodes the next element of src into v.
func (c *xmlCodec) DecodeTokens(src xml.TokenReader, v any) error {
	return xml.NewTokenDecoder(src).Decode(v)
}

// MarshalCData encodes v as XML, writing the text content of the named
// elements as CDATA sections.
func (c *xmlCodec) MarshalCData(v any, elements []string) ([]byte, error) {
	data, err := c.encode(v)
	if err != nil {
		return nil, err
	}
	data, err = wrapCData(data, elements)
	if err != nil {
		return nil, err
	}
	return c.withHeader(data), nil
}

func (c *xmlCodec) encode(v any) ([]byte, error) {
	if c.prefix != "" || c.indent != "" {
		return xml.MarshalIndent(v, c.prefix, c.indent)
	}
	return xml.Marshal(v)
}

func (c *xmlCodec) withHeader(data []byte) []byte {
	if !c.header || len(data) == 0 {
		return data
	}
	out := make([]byte, 0, len(xml.Header)+len(data))
	out = append(out, xml.Header...)
	return append(out, data...)
}
