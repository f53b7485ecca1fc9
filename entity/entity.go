// Package entity defines the uniform code-entity record produced by every
// language extractor. It is a plain value type: extractors construct it,
// nothing downstream mutates shared state through it.
package entity

// Kind enumerates the entity categories a LanguageExtractor can emit.
type Kind string

const (
	KindFunction   Kind = "function"
	KindClass      Kind = "class"
	KindVariable   Kind = "variable"
	KindImport     Kind = "import"
	KindModuleCode Kind = "module_code"
)

// Import pairs a module path with the symbol imported from it.
type Import struct {
	Module string
	Name   string
}

// Entity is an extractor's output record for one code declaration or
// import. Scoped names reflect lexical nesting: methods appear as
// "Class.method", nested declarations as "A.B.m".
type Entity struct {
	Kind      Kind
	Name      string
	LineStart int
	LineEnd   int

	// SignatureHash is the first 12 hex chars of SHA-256 over the entity's
	// full text including body; changes iff behavior would change.
	SignatureHash string
	// StructureHash is the same hash computed after replacing the name
	// with a placeholder; used for rename detection.
	StructureHash string

	Calls       []string
	Uses        []string
	Inherits    []string
	Imports     []Import
	TypeRefs    []string
	TypeContext map[string]string
	Params      []string
	Decorators  []string

	// OldName is set only when the diff classifies this entity as a rename.
	OldName string

	// ShadowConfidence is set only on entities scavenged by the shadow
	// fallback; zero for every cleanly parsed entity.
	ShadowConfidence float64
}

// Clone returns a deep copy so extractors never share mutable slices or
// maps across entities.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	c := *e
	c.Calls = append([]string(nil), e.Calls...)
	c.Uses = append([]string(nil), e.Uses...)
	c.Inherits = append([]string(nil), e.Inherits...)
	c.Imports = append([]Import(nil), e.Imports...)
	c.TypeRefs = append([]string(nil), e.TypeRefs...)
	c.Params = append([]string(nil), e.Params...)
	c.Decorators = append([]string(nil), e.Decorators...)
	if e.TypeContext != nil {
		c.TypeContext = make(map[string]string, len(e.TypeContext))
		for k, v := range e.TypeContext {
			c.TypeContext[k] = v
		}
	}
	return &c
}

// Equal reports whether two entities are identical by (name, signature_hash)
// — the comparison the semantic gate performs between an old and a new
// extraction set.
func (e *Entity) Equal(o *Entity) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.Name == o.Name && e.SignatureHash == o.SignatureHash
}
