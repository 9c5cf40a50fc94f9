package xmlctx

import "slices"

// Index maps the types and packages of one registered base package to their
// contexts. It is fully built before publication and never mutated after.
type Index struct {
	base       string
	def        Context
	classes    map[string]Context // keyed by type full name
	packages   map[string]Context // keyed by dotted package
	namespaces map[string]Context
	types      []Type
}

func newIndex(base string, def Context, types []Type) *Index {
	idx := &Index{
		base:       base,
		def:        def,
		classes:    make(map[string]Context, len(types)),
		packages:   map[string]Context{base: def},
		namespaces: make(map[string]Context),
		types:      types,
	}
	for _, t := range types {
		idx.classes[t.FullName()] = def
	}
	return idx
}

// assign binds a namespace context to its types and packages, replacing the
// default mapping for them.
func (idx *Index) assign(ns string, ctx Context, types []Type, pkgs []string) {
	idx.namespaces[ns] = ctx
	for _, t := range types {
		idx.classes[t.FullName()] = ctx
	}
	for _, p := range pkgs {
		idx.packages[p] = ctx
	}
}

// Base returns the base package the index was registered under.
func (idx *Index) Base() string { return idx.base }

// Default returns the context covering every discovered type.
func (idx *Index) Default() Context { return idx.def }

// Context returns the context mapped to a type full name.
func (idx *Index) Context(fullName string) (Context, bool) {
	ctx, ok := idx.classes[fullName]
	return ctx, ok
}

// Package returns the context mapped to a package name.
func (idx *Index) Package(pkg string) (Context, bool) {
	ctx, ok := idx.packages[pkg]
	return ctx, ok
}

// Namespace returns the context built for namespace ns.
func (idx *Index) Namespace(ns string) (Context, bool) {
	ctx, ok := idx.namespaces[ns]
	return ctx, ok
}

// Namespaces returns the namespaces with their own context, sorted.
func (idx *Index) Namespaces() []string {
	return sortedKeys(idx.namespaces)
}

// Types returns the types discovered at registration.
func (idx *Index) Types() []Type {
	return slices.Clone(idx.types)
}
