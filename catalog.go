package xmlctx

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

// cdataOption is the value of the xmlctx field tag that writes the field's
// element text as CDATA.
const cdataOption = "cdata"

func init() {
	sentinel.Tag("xmlctx")
}

// Catalog is an explicit registration list of serializable types.
// It stands in for class-path scanning: every type a context may bind must be
// declared here first, typically from init functions or generated code.
//
// Catalog is safe for concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	types      map[string]Type // keyed by full name
	byReflect  map[reflect.Type]string
	namespaces map[string]string
	rejected   map[reflect.Type]*DeclarationError
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types:      make(map[string]Type),
		byReflect:  make(map[reflect.Type]string),
		namespaces: make(map[string]string),
		rejected:   make(map[reflect.Type]*DeclarationError),
	}
}

// TypeOption customizes a type declaration.
type TypeOption func(*typeConfig)

type typeConfig struct {
	pkg     string
	root    *Root
	cdata   []string
	markers []Marker
}

// InPackage places the type in a dotted logical package instead of the one
// derived from its import path.
func InPackage(pkg string) TypeOption {
	return func(c *typeConfig) {
		c.pkg = pkg
	}
}

// WithRootName declares an explicit root element name, overriding the XMLName
// tag. An empty name is a valid override: any root element is accepted but the
// document must not be empty.
func WithRootName(name string) TypeOption {
	return func(c *typeConfig) {
		c.root = &Root{Name: name, Explicit: true}
	}
}

// WithCData lists child elements whose text is written as CDATA, in addition
// to fields tagged `xmlctx:"cdata"`.
func WithCData(elements ...string) TypeOption {
	return func(c *typeConfig) {
		c.cdata = append(c.cdata, elements...)
	}
}

// WithMarkers adds discovery markers to the type.
func WithMarkers(markers ...Marker) TypeOption {
	return func(c *typeConfig) {
		c.markers = append(c.markers, markers...)
	}
}

// Declare adds struct type T to the catalog.
//
// Re-declaring the same Go type replaces the earlier declaration. Declaring a
// different type under an already used full name, a non-struct type, or an
// invalid package is rejected; rejections also fail later scans of the
// affected package until the same Go type is declared successfully.
func Declare[T any](c *Catalog, opts ...TypeOption) error {
	cfg := typeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return c.reject(rt, &DeclarationError{Type: rt.String(), Package: cfg.pkg, Reason: "not a struct type"})
	}

	t := Type{
		Name:    rt.Name(),
		Package: PackageOf(rt),
		Reflect: rt,
	}
	if cfg.pkg != "" {
		t.Package = cfg.pkg
	}
	if err := validatePackage(t.Package); err != nil {
		return c.reject(rt, &DeclarationError{Type: rt.String(), Package: t.Package, Reason: err.Error()})
	}

	meta := sentinel.Scan[T]()
	if sf, ok := rootField(rt, meta); ok {
		t.Root = parseRoot(sf.Tag.Get("xml"))
		t.markers = append(t.markers, MarkRootElement)
	}
	if cfg.root != nil {
		t.Root = *cfg.root
		t.markers = appendMarker(t.markers, MarkRootElement)
	}
	for _, name := range slices.Concat(cdataFields(rt, meta), cfg.cdata) {
		if !slices.Contains(t.CData, name) {
			t.CData = append(t.CData, name)
		}
	}
	if len(t.CData) > 0 {
		t.markers = appendMarker(t.markers, MarkCData)
	}
	for _, m := range cfg.markers {
		t.markers = appendMarker(t.markers, m)
	}

	return c.add(t)
}

// MustDeclare is like Declare but panics on error.
func MustDeclare[T any](c *Catalog, opts ...TypeOption) {
	if err := Declare[T](c, opts...); err != nil {
		panic(err)
	}
}

func (c *Catalog) add(t Type) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := t.FullName()
	if existing, ok := c.types[name]; ok && existing.Reflect != t.Reflect {
		err := &DeclarationError{
			Type:    t.Reflect.String(),
			Package: t.Package,
			Reason:  fmt.Sprintf("full name %s already declared by %s", name, existing.Reflect),
		}
		c.rejected[t.Reflect] = err
		return err
	}
	if prev, ok := c.byReflect[t.Reflect]; ok && prev != name {
		delete(c.types, prev)
	}
	c.types[name] = t
	c.byReflect[t.Reflect] = name
	delete(c.rejected, t.Reflect)
	return nil
}

// reject records the latest failed declaration of rt.
func (c *Catalog) reject(rt reflect.Type, err *DeclarationError) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejected[rt] = err
	return err
}

// SetNamespace declares the XML namespace of a package. An empty namespace
// clears the declaration.
func (c *Catalog) SetNamespace(pkg, ns string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ns == "" {
		delete(c.namespaces, pkg)
		return
	}
	c.namespaces[pkg] = ns
}

// PackageNamespace returns the namespace declared on exactly pkg, or "".
func (c *Catalog) PackageNamespace(pkg string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.namespaces[pkg]
}

// Lookup returns the declaration for rt.
func (c *Catalog) Lookup(rt reflect.Type) (Type, bool) {
	rt = indirect(rt)
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.byReflect[rt]
	if !ok {
		return Type{}, false
	}
	return c.withNamespace(c.types[name]), true
}

// FindAnnotated returns every type declared in pkg or its sub-packages that
// carries marker, ordered by full name.
func (c *Catalog) FindAnnotated(marker Marker, pkg string) ([]Type, error) {
	if err := validatePackage(pkg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScan, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs []error
	for _, rej := range c.rejected {
		if within(rej.Package, pkg) {
			errs = append(errs, rej)
		}
	}
	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool {
			return errs[i].Error() < errs[j].Error()
		})
		return nil, fmt.Errorf("%w: package %q: %w", ErrScan, pkg, errors.Join(errs...))
	}

	var found []Type
	for _, t := range c.types {
		if within(t.Package, pkg) && t.Has(marker) {
			found = append(found, c.withNamespace(t))
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].FullName() < found[j].FullName()
	})
	return found, nil
}

// Len returns the number of declared types.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.types)
}

// withNamespace fills the effective namespace. Caller holds mu.
func (c *Catalog) withNamespace(t Type) Type {
	t.Namespace = c.namespaces[t.Package]
	return t
}

// rootField returns the XMLName field of rt. Sentinel metadata is consulted
// first; untagged fields it does not report are found by reflection.
func rootField(rt reflect.Type, meta sentinel.Metadata) (reflect.StructField, bool) {
	for _, f := range meta.Fields {
		if f.Name == "XMLName" && f.ReflectType == xmlNameType {
			return rt.FieldByName(f.Name)
		}
	}
	sf, ok := rt.FieldByName("XMLName")
	if !ok || sf.Type != xmlNameType || len(sf.Index) != 1 {
		return reflect.StructField{}, false
	}
	return sf, true
}

// cdataFields returns the element names of fields tagged `xmlctx:"cdata"`.
func cdataFields(rt reflect.Type, meta sentinel.Metadata) []string {
	var names []string
	for _, f := range meta.Fields {
		if !hasCDataTag(f.Tags["xmlctx"]) {
			continue
		}
		names = append(names, elementOf(rt, f.Name))
	}
	return names
}

func hasCDataTag(opts string) bool {
	return opts != "" && slices.Contains(strings.Split(opts, ","), cdataOption)
}

// elementOf returns the element name a field marshals to: the local part of
// its xml tag, or the field name.
func elementOf(rt reflect.Type, field string) string {
	sf, ok := rt.FieldByName(field)
	if !ok {
		return field
	}
	local, _, _ := strings.Cut(sf.Tag.Get("xml"), ",")
	if _, l, found := strings.Cut(local, " "); found {
		local = l
	}
	if local == "" || local == "-" {
		return field
	}
	return local
}

func appendMarker(markers []Marker, m Marker) []Marker {
	if slices.Contains(markers, m) {
		return markers
	}
	return append(markers, m)
}
