// Package xmlctx builds and caches serialization contexts for large type
// hierarchies whose members are declared rather than statically wired.
//
// A context converts a fixed set of Go types to and from a wire format (XML by
// default). Types are declared in a Catalog under a dotted logical package, and
// packages may declare a namespace. Registering a base package builds one
// default context for every marked type under it plus one context per declared
// namespace, then indexes the result by type and by package.
//
// # Declaring Types
//
//	type Customer struct {
//	    XMLName xml.Name `xml:"customer"`
//	    ID      string   `xml:"id"`
//	}
//
//	catalog := xmlctx.NewCatalog()
//	xmlctx.MustDeclare[Customer](catalog, xmlctx.InPackage("com.acme.model"))
//	xmlctx.MustDeclare[Order](catalog, xmlctx.InPackage("com.acme.model.billing"))
//	catalog.SetNamespace("com.acme.model.billing", "urn:acme:billing")
//
// A struct carrying an XMLName field is marked MarkRootElement and is picked up
// by registration. Other types can opt in with WithMarkers.
//
// # Registering and Resolving
//
//	reg := xmlctx.New(catalog, xmlctx.NewBuilder(xml.New()))
//	if err := reg.Register("com.acme.model"); err != nil {
//	    // InitializationError; nothing was published
//	}
//
//	ctx, err := xmlctx.ResolveFor[Customer](reg)
//
// Resolution walks the type's package towards the root until a registered base
// package is found ("com.acme.model.billing.v2" finds "com.acme.model"), then
// looks the type up by full name in that index. Successful lookups are cached.
//
// # Root Element Validation
//
// When a type declares an explicit root name, decoding first peeks the
// document's first element and fails with ErrEmptyDocument or
// ErrRootElementMismatch before the codec sees the input. Peeked tokens are
// replayed to the decoder.
//
// # Codec Providers
//
// The following codec implementations are available as subpackages:
//
//   - xml - XML encoding (application/xml), supports root validation and CDATA
//   - json - JSON encoding (application/json)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package xmlctx

import (
	"encoding/xml"
	"io"
	"reflect"
)

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/xml").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// TokenDecoder is implemented by codecs that decode from an XML token stream.
// Contexts built over a TokenDecoder validate root elements before decoding.
type TokenDecoder interface {
	DecodeTokens(src xml.TokenReader, v any) error
}

// CDataMarshaler is implemented by codecs that can emit the text of the named
// elements as CDATA sections.
type CDataMarshaler interface {
	MarshalCData(v any, elements []string) ([]byte, error)
}

// Context converts the values of a fixed type set to and from a wire format.
// A Context is immutable once built and safe for concurrent use.
type Context interface {
	// ContentType returns the MIME type of the underlying codec.
	ContentType() string

	// Types returns the types bound to this context.
	Types() []Type

	// Lookup reports the bound description of rt, if any.
	Lookup(rt reflect.Type) (Type, bool)

	// Marshal encodes v, which must be a value of a bound type.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v, which must point to a bound type.
	Unmarshal(data []byte, v any) error

	// Decode reads one document from r into v.
	Decode(r io.Reader, v any) error
}

// TypeSource enumerates declared types. Catalog is the standard implementation.
type TypeSource interface {
	// FindAnnotated returns every type in pkg or its sub-packages carrying marker.
	FindAnnotated(marker Marker, pkg string) ([]Type, error)

	// PackageNamespace returns the namespace declared on pkg, or "".
	PackageNamespace(pkg string) string

	// Lookup returns the declaration for rt, if any.
	Lookup(rt reflect.Type) (Type, bool)
}
