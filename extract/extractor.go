// Package extract defines the LanguageExtractor contract and the registry
// that dispatches a file path to the right implementation.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/Krrish109/codegraph/entity"
)

// LanguageExtractor turns source text into entities. Extract must return
// an empty slice on empty content, a parse failure, or any internal panic
// — it must never propagate an error to the caller.
type LanguageExtractor interface {
	LanguageID() string
	SupportedExtensions() []string
	CanHandle(path string) bool
	Extract(source, path string) []*entity.Entity
}

// StrictExtractor is an optional capability: an extractor whose Extract
// degrades to a best-effort scavenged result on a parse failure (golang's
// shadow fallback) also exposes ExtractStrict, which returns an empty
// result instead. Callers that need "did this even parse" rather than
// "give me whatever you can" — the semantic gate, chiefly — use this when
// an extractor implements it.
type StrictExtractor interface {
	ExtractStrict(source, path string) []*entity.Entity
}

// Registry dispatches by extension first, then by CanHandle fallback.
type Registry struct {
	byExt      map[string]LanguageExtractor
	extractors []LanguageExtractor
}

// NewRegistry builds an (initially empty) registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]LanguageExtractor)}
}

// Register adds an extractor, indexing it by every extension it declares.
func (r *Registry) Register(ex LanguageExtractor) {
	r.extractors = append(r.extractors, ex)
	for _, ext := range ex.SupportedExtensions() {
		r.byExt[ext] = ex
	}
}

// For resolves the extractor for a path: extension lookup first, then a
// CanHandle scan over every registered extractor.
func (r *Registry) For(path string) LanguageExtractor {
	ext := strings.ToLower(filepath.Ext(path))
	if ex, ok := r.byExt[ext]; ok {
		return ex
	}
	for _, ex := range r.extractors {
		if ex.CanHandle(path) {
			return ex
		}
	}
	return nil
}

// Extract safely runs the registered extractor for path, returning an
// empty slice (never panicking or erroring) when none is registered or
// the underlying extractor fails.
func (r *Registry) Extract(source, path string) (out []*entity.Entity) {
	ex := r.For(path)
	if ex == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return ex.Extract(source, path)
}

// ExtractStrict runs the registered extractor's ExtractStrict when it
// implements StrictExtractor, falling back to its ordinary Extract for
// extractors with no degraded-parse fallback of their own (every
// non-AST extractor is already "strict" — regex scanning either matches
// a declaration or it doesn't, there's no separate scavenging mode to
// bypass).
func (r *Registry) ExtractStrict(source, path string) (out []*entity.Entity) {
	ex := r.For(path)
	if ex == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	if se, ok := ex.(StrictExtractor); ok {
		return se.ExtractStrict(source, path)
	}
	return ex.Extract(source, path)
}
