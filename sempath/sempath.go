// Package sempath implements a per-file semantic-path index used by the
// resolver's fallback step: "if per-file semantic paths are available,
// attempt LEGB-style resolution".
// It is an index from a bare name to the fully-qualified entity paths that name
// resolves to within one file, built from the nested-scope information
// the primary extractor already encodes in dotted entity names
// ("Class.method", "A.B.m"). Resolution then walks from the innermost
// enclosing scope outward to package scope (Local, Enclosing, Global —
// there is no Builtin tier here, since builtins are filtered upstream by
// the extractor).
package sempath

import "strings"

// Index maps a file's entity names, keyed by every dotted scope prefix
// that could plausibly resolve a bare or partially-qualified reference
// from within that file.
type Index struct {
	// byBareName maps the last dotted segment to every full scoped name
	// in the file sharing it (LEGB fallback when no enclosing-scope match
	// exists).
	byBareName map[string][]string
	// fullNames is the complete set of scoped names defined in the file,
	// used for exact enclosing-scope lookups.
	fullNames map[string]struct{}
}

// Build constructs a semantic-path index from one file's entity names.
func Build(names []string) *Index {
	idx := &Index{
		byBareName: make(map[string][]string),
		fullNames:  make(map[string]struct{}, len(names)),
	}
	for _, n := range names {
		idx.fullNames[n] = struct{}{}
		bare := n
		if i := strings.LastIndex(n, "."); i >= 0 {
			bare = n[i+1:]
		}
		idx.byBareName[bare] = append(idx.byBareName[bare], n)
	}
	return idx
}

// Resolve attempts LEGB-style resolution of name as referenced from
// within scope (the fully scoped name of the entity doing the
// referencing, e.g. "Class.method"): it first walks from scope's
// innermost enclosing prefix outward looking for "<prefix>.name", an
// exact top-level "name", and finally falls back to any same-file
// definition whose bare name matches — returning ok=false if nothing in
// this file's index resolves it, so the caller's general resolver takes
// over.
func (idx *Index) Resolve(scope, name string) (resolved string, ok bool) {
	if idx == nil {
		return "", false
	}
	prefixes := enclosingPrefixes(scope)
	for _, p := range prefixes {
		candidate := name
		if p != "" {
			candidate = p + "." + name
		}
		if _, exists := idx.fullNames[candidate]; exists {
			return candidate, true
		}
	}
	if candidates, exists := idx.byBareName[name]; exists && len(candidates) == 1 {
		return candidates[0], true
	}
	return "", false
}

// enclosingPrefixes returns scope's dotted prefixes from innermost to
// outermost, ending with the package-level "" prefix: "A.B.m" yields
// ["A.B", "A", ""].
func enclosingPrefixes(scope string) []string {
	var out []string
	for {
		i := strings.LastIndex(scope, ".")
		if i < 0 {
			break
		}
		scope = scope[:i]
		out = append(out, scope)
	}
	out = append(out, "")
	return out
}
