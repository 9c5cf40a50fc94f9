package xmlctx

import (
	"slices"
	"sort"
	"strings"
)

// partition groups types by the namespace declared on their owning package.
// A type joins a namespace bucket only when its package is not the base
// package and declares a namespace; everything else stays in the default
// context. The second map lists the distinct packages behind each bucket.
func partition(types []Type, base string, nsOf func(pkg string) string) (map[string][]Type, map[string][]string) {
	classes := make(map[string][]Type)
	packages := make(map[string][]string)
	for _, t := range types {
		if strings.EqualFold(t.Package, base) {
			continue
		}
		ns := nsOf(t.Package)
		if ns == "" {
			continue
		}
		classes[ns] = append(classes[ns], t)
		if !slices.Contains(packages[ns], t.Package) {
			packages[ns] = append(packages[ns], t.Package)
		}
	}
	return classes, packages
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
