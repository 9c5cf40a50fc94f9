// Package yaml provides a YAML codec for serialization contexts.
//
// Field names follow the `yaml` struct tags. An empty document is an error
// rather than a no-op so that a context bound to YAML reports missing input the
// same way the XML provider does.
package yaml

import (
	"bytes"
	"errors"
	"io"

	"github.com/zoobzio/xmlctx"
	"gopkg.in/yaml.v3"
)

var errEmptyDocument = errors.New("yaml: empty document")

// yamlCodec implements xmlctx.Codec for YAML.
type yamlCodec struct {
	indent int
}

// Option configures the YAML codec.
type Option func(*yamlCodec)

// WithIndent sets the number of spaces used per nesting level. Values below
// two keep the encoder's default.
func WithIndent(spaces int) Option {
	return func(c *yamlCodec) {
		c.indent = spaces
	}
}

// New returns a YAML codec.
func New(opts ...Option) xmlctx.Codec {
	c := &yamlCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as a single YAML document.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	if c.indent < 2 {
		return yaml.Marshal(v)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(c.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes the first YAML document in data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	err := yaml.NewDecoder(bytes.NewReader(data)).Decode(v)
	if errors.Is(err, io.EOF) {
		return errEmptyDocument
	}
	return err
}
