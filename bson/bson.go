// Package bson provides a BSON codec for serialization contexts.
//
// Contexts bind struct types only, which matches BSON's requirement of a
// document at the top level. Nil slices are written as empty arrays and
// decoding zeroes struct fields before filling them, so a reused target does
// not keep values from an earlier document.
package bson

import (
	"bytes"

	"github.com/zoobzio/xmlctx"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
)

// bsonCodec implements xmlctx.Codec for BSON.
type bsonCodec struct {
	jsonTags bool
}

// Option configures the BSON codec.
type Option func(*bsonCodec)

// WithJSONTags falls back to `json` struct tags for fields without a `bson`
// tag.
func WithJSONTags() Option {
	return func(c *bsonCodec) {
		c.jsonTags = true
	}
}

// New returns a BSON codec.
func New(opts ...Option) xmlctx.Codec {
	c := &bsonCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	vw, err := bsonrw.NewBSONValueWriter(&buf)
	if err != nil {
		return nil, err
	}
	enc, err := bson.NewEncoder(vw)
	if err != nil {
		return nil, err
	}
	enc.NilSliceAsEmpty()
	if c.jsonTags {
		enc.UseJSONStructTags()
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a BSON document into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(data))
	if err != nil {
		return err
	}
	dec.ZeroStructs()
	if c.jsonTags {
		dec.UseJSONStructTags()
	}
	return dec.Decode(v)
}
