package xmlctx

import (
	"encoding/xml"
	"reflect"
	"slices"
	"strings"
)

// Marker tags a declared type for discovery.
type Marker string

const (
	// MarkRootElement marks types that serialize as a document root.
	MarkRootElement Marker = "root-element"

	// MarkCData marks types that declare CDATA elements.
	MarkCData Marker = "cdata"
)

// Root describes a type's root element declaration.
//
// Explicit is false when the type relies on the codec's default element name;
// such types are not root-validated. An explicit empty Name still requires
// the document to contain an element.
type Root struct {
	Name     string
	Space    string
	Explicit bool
}

// Type describes a declared Go type.
type Type struct {
	Name      string       // simple type name
	Package   string       // dotted logical package
	Namespace string       // effective XML namespace, filled by the source
	Reflect   reflect.Type // underlying struct type
	Root      Root
	CData     []string
	markers   []Marker
}

// FullName returns the package-qualified name used as the index key.
func (t Type) FullName() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// Has reports whether t carries marker m.
func (t Type) Has(m Marker) bool {
	return slices.Contains(t.markers, m)
}

// Markers returns a copy of the markers carried by t.
func (t Type) Markers() []Marker {
	return slices.Clone(t.markers)
}

// ElementName returns the element name t is written as.
func (t Type) ElementName() xml.Name {
	local := t.Name
	if t.Root.Explicit && t.Root.Name != "" {
		local = t.Root.Name
	}
	space := t.Root.Space
	if space == "" {
		space = t.Namespace
	}
	return xml.Name{Space: space, Local: local}
}

var xmlNameType = reflect.TypeFor[xml.Name]()

// TypeOf describes rt without a declaration: the package is derived from the
// import path, the root element from an XMLName field, if present, and CDATA
// elements from fields tagged `xmlctx:"cdata"`.
func TypeOf(rt reflect.Type) Type {
	rt = indirect(rt)
	if rt == nil {
		return Type{}
	}
	t := Type{
		Name:    rt.Name(),
		Package: PackageOf(rt),
		Reflect: rt,
	}
	if rt.Kind() == reflect.Struct {
		if f, ok := rt.FieldByName("XMLName"); ok && f.Type == xmlNameType && len(f.Index) == 1 {
			t.Root = parseRoot(f.Tag.Get("xml"))
			t.markers = append(t.markers, MarkRootElement)
		}
		for i := range rt.NumField() {
			if f := rt.Field(i); f.IsExported() && hasCDataTag(f.Tag.Get("xmlctx")) {
				t.CData = append(t.CData, elementOf(rt, f.Name))
			}
		}
		if len(t.CData) > 0 {
			t.markers = append(t.markers, MarkCData)
		}
	}
	return t
}

// PackageOf converts rt's import path to a dotted package name.
func PackageOf(rt reflect.Type) string {
	rt = indirect(rt)
	if rt == nil {
		return ""
	}
	return strings.ReplaceAll(rt.PkgPath(), "/", ".")
}

// parseRoot reads the element name from an XMLName struct tag.
func parseRoot(tag string) Root {
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return Root{}
	}
	r := Root{Explicit: true, Name: name}
	if space, local, ok := strings.Cut(name, " "); ok {
		r.Space, r.Name = space, local
	}
	return r
}

// indirect strips pointer indirections.
func indirect(rt reflect.Type) reflect.Type {
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt
}

// within reports whether pkg is base or one of its sub-packages.
func within(pkg, base string) bool {
	return pkg == base || strings.HasPrefix(pkg, base+".")
}
