package xmlctx

// discover collects the types carrying marker from the dependent packages and
// the base package, de-duplicated by full name. Any source error aborts the
// whole scan; no partial result is returned.
func discover(src TypeSource, marker Marker, base string, deps []string) ([]Type, error) {
	pkgs := make([]string, 0, len(deps)+1)
	pkgs = append(pkgs, deps...)
	pkgs = append(pkgs, base)

	seen := make(map[string]struct{})
	var types []Type
	for _, pkg := range pkgs {
		found, err := src.FindAnnotated(marker, pkg)
		if err != nil {
			return nil, err
		}
		for _, t := range found {
			name := t.FullName()
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			types = append(types, t)
		}
	}
	return types, nil
}
