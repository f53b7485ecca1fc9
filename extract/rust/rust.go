// Package rust is the regex-based Rust extractor, built on regexlang's
// shared pipeline with a per-language import-form table (simple, braced,
// glob, and rename forms; `impl T for U` becomes an inherits edge from
// U to T).
package rust

import (
	"regexp"
	"strings"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/extract/regexlang"
	"github.com/Krrish109/codegraph/langsets"
)

// Extractor implements extract.LanguageExtractor for .rs sources.
type Extractor struct {
	base *regexlang.Base
}

// New returns a ready-to-use Rust extractor.
func New() *Extractor {
	e := &Extractor{}
	e.base = &regexlang.Base{Hooks: e}
	return e
}

func (e *Extractor) LanguageID() string { return "rust" }

func (e *Extractor) SupportedExtensions() []string { return []string{".rs"} }

func (e *Extractor) CanHandle(path string) bool { return strings.HasSuffix(path, ".rs") }

func (e *Extractor) Extract(source, path string) []*entity.Entity {
	return e.base.Extract(source, path)
}

var (
	structPattern = regexp.MustCompile(`(?m)^\s*(?:pub(?:\([^)]*\))?\s+)?struct\s+(?P<name>[A-Za-z_][\w]*)(?:<[^>]*>)?\s*\{`)
	enumPattern   = regexp.MustCompile(`(?m)^\s*(?:pub(?:\([^)]*\))?\s+)?enum\s+(?P<name>[A-Za-z_][\w]*)(?:<[^>]*>)?\s*\{`)
	traitPattern  = regexp.MustCompile(`(?m)^\s*(?:pub(?:\([^)]*\))?\s+)?trait\s+(?P<name>[A-Za-z_][\w]*)(?:<[^>]*>)?(?:\s*:\s*(?P<inherits>[A-Za-z_][\w:, +]*))?\s*\{`)
	// implPattern captures the trait ("inherits") implemented for a type
	// ("name"); "impl T for U" produces an inherits edge U -> T, named the
	// entity after U since Rust has no class-body owner for the impl block
	// itself.
	implPattern = regexp.MustCompile(`(?m)^\s*impl(?:<[^>]*>)?\s+(?:(?P<inherits>[A-Za-z_][\w:<>, ]*)\s+for\s+)?(?P<name>[A-Za-z_][\w:]*)(?:<[^>]*>)?\s*\{`)
	fnPattern   = regexp.MustCompile(`(?m)^\s*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?fn\s+(?P<name>[A-Za-z_][\w]*)\s*[(<]`)

	importSimple = regexp.MustCompile(`use\s+((?:[A-Za-z_][\w]*::)*[A-Za-z_][\w]*)\s*;`)
	importBraced = regexp.MustCompile(`use\s+((?:[A-Za-z_][\w]*::)*)\{([^}]*)\}\s*;`)
	importGlob   = regexp.MustCompile(`use\s+((?:[A-Za-z_][\w]*::)*)\*\s*;`)
	importRename = regexp.MustCompile(`use\s+((?:[A-Za-z_][\w]*::)*[A-Za-z_][\w]*)\s+as\s+([A-Za-z_][\w]*)\s*;`)

	attrPattern = regexp.MustCompile(`^#!?\[[^\]]*\]`)
)

func (e *Extractor) DeclarationPatterns() []regexlang.DeclarationPattern {
	return []regexlang.DeclarationPattern{
		{Kind: entity.KindClass, Patterns: []*regexp.Regexp{structPattern, enumPattern, traitPattern, implPattern}},
		{Kind: entity.KindFunction, Patterns: []*regexp.Regexp{fnPattern}},
	}
}

func (e *Extractor) ImportPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{importRename, importBraced, importGlob, importSimple}
}

func (e *Extractor) ParseImportMatch(pattern *regexp.Regexp, match []string) []entity.Import {
	switch pattern {
	case importRename:
		path := match[1]
		return []entity.Import{{Module: modulePrefix(path), Name: match[2]}}
	case importBraced:
		prefix := strings.TrimSuffix(match[1], "::")
		var out []entity.Import
		for _, sym := range strings.Split(match[2], ",") {
			sym = strings.TrimSpace(sym)
			if sym == "" {
				continue
			}
			name := sym
			if idx := strings.Index(sym, " as "); idx >= 0 {
				name = strings.TrimSpace(sym[idx+4:])
			}
			out = append(out, entity.Import{Module: prefix, Name: name})
		}
		return out
	case importGlob:
		return []entity.Import{{Module: strings.TrimSuffix(match[1], "::"), Name: "*"}}
	case importSimple:
		path := match[1]
		name := path
		if idx := strings.LastIndex(path, "::"); idx >= 0 {
			name = path[idx+2:]
		}
		return []entity.Import{{Module: modulePrefix(path), Name: name}}
	}
	return nil
}

func modulePrefix(path string) string {
	idx := strings.LastIndex(path, "::")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

func (e *Extractor) BuiltinNames() langsets.StringSet  { return langsets.RustBuiltins }
func (e *Extractor) CommonMethods() langsets.StringSet { return langsets.RustCommonMethods }

// TypeRefsFromText returns nil: Rust type bounds are captured via
// Inherits on trait/impl declarations rather than a separate type_refs set.
func (e *Extractor) TypeRefsFromText(text string) []string { return nil }

func (e *Extractor) DecoratorPattern() *regexp.Regexp { return attrPattern }

func (e *Extractor) TrivialDecorators() langsets.StringSet { return nil }

func (e *Extractor) ExtractJSXComponents(body string) []string { return nil }
