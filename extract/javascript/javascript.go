// Package javascript is the regex-based JavaScript/JSX extractor. Like
// package typescript, it builds on regexlang's shared pipeline, but it
// omits interfaces, enums, and type aliases, and emits no type_refs.
package javascript

import (
	"regexp"
	"strings"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/extract/regexlang"
	"github.com/Krrish109/codegraph/langsets"
)

// Extractor implements extract.LanguageExtractor for .js/.jsx/.mjs/.cjs.
type Extractor struct {
	base *regexlang.Base
}

// New returns a ready-to-use JavaScript/JSX extractor.
func New() *Extractor {
	e := &Extractor{}
	e.base = &regexlang.Base{Hooks: e}
	return e
}

func (e *Extractor) LanguageID() string { return "javascript" }

func (e *Extractor) SupportedExtensions() []string {
	return []string{".js", ".jsx", ".mjs", ".cjs"}
}

func (e *Extractor) CanHandle(path string) bool {
	for _, ext := range e.SupportedExtensions() {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func (e *Extractor) Extract(source, path string) []*entity.Entity {
	return e.base.Extract(source, path)
}

var (
	classPattern    = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:default\s+)?class\s+(?P<name>[A-Za-z_$][\w$]*)(?:\s+extends\s+(?P<inherits>[A-Za-z_$][\w$.]*))?\s*\{`)
	functionPattern = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s+(?P<name>[A-Za-z_$][\w$]*)\s*\(`)
	methodPattern   = regexp.MustCompile(`(?m)^\s*(?:static\s+|async\s+|\*\s*)*(?P<name>[A-Za-z_$][\w$]*)\s*\([^)]*\)\s*\{`)
	arrowPattern    = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:const|let|var)\s+(?P<name>[A-Za-z_$][\w$]*)\s*=\s*(?:async\s*)?\([^)]*\)\s*=>\s*\{`)

	importBraced     = regexp.MustCompile(`import\s+\{([^}]*)\}\s*from\s*['"]([^'"]+)['"]`)
	importDefault    = regexp.MustCompile(`import\s+([A-Za-z_$][\w$]*)\s*from\s*['"]([^'"]+)['"]`)
	importNamespace  = regexp.MustCompile(`import\s+\*\s+as\s+([A-Za-z_$][\w$]*)\s*from\s*['"]([^'"]+)['"]`)
	importSideEffect = regexp.MustCompile(`import\s*['"]([^'"]+)['"]`)
	requirePattern   = regexp.MustCompile(`(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)`)

	jsxPattern = regexp.MustCompile(`<([A-Z][\w$.]*)[\s/>]`)
)

func (e *Extractor) DeclarationPatterns() []regexlang.DeclarationPattern {
	return []regexlang.DeclarationPattern{
		{Kind: entity.KindClass, Patterns: []*regexp.Regexp{classPattern}},
		{Kind: entity.KindFunction, Patterns: []*regexp.Regexp{functionPattern, methodPattern, arrowPattern}},
	}
}

func (e *Extractor) ImportPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{importBraced, importNamespace, importDefault, requirePattern, importSideEffect}
}

func (e *Extractor) ParseImportMatch(pattern *regexp.Regexp, match []string) []entity.Import {
	switch pattern {
	case importBraced:
		module := match[2]
		var out []entity.Import
		for _, sym := range strings.Split(match[1], ",") {
			sym = strings.TrimSpace(sym)
			if sym == "" {
				continue
			}
			name := sym
			if idx := strings.Index(sym, " as "); idx >= 0 {
				name = strings.TrimSpace(sym[idx+4:])
			}
			out = append(out, entity.Import{Module: module, Name: name})
		}
		return out
	case importNamespace, importDefault, requirePattern:
		return []entity.Import{{Module: match[2], Name: match[1]}}
	case importSideEffect:
		return []entity.Import{{Module: match[1], Name: "*"}}
	}
	return nil
}

func (e *Extractor) BuiltinNames() langsets.StringSet  { return langsets.TSBuiltins }
func (e *Extractor) CommonMethods() langsets.StringSet { return langsets.TSCommonMethods }

// TypeRefsFromText returns nil: the JS extractor never emits type_refs.
func (e *Extractor) TypeRefsFromText(text string) []string { return nil }

// DecoratorPattern is nil: plain JS has no decorator syntax.
func (e *Extractor) DecoratorPattern() *regexp.Regexp { return nil }

func (e *Extractor) TrivialDecorators() langsets.StringSet { return nil }

func (e *Extractor) ExtractJSXComponents(body string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range jsxPattern.FindAllStringSubmatch(body, -1) {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
