// Package typescript is the regex-based TypeScript/TSX extractor, the
// fullest secondary-language extractor in the registry.
package typescript

import (
	"regexp"
	"strings"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/extract/regexlang"
	"github.com/Krrish109/codegraph/langsets"
)

// Extractor implements extract.LanguageExtractor for .ts/.tsx sources.
type Extractor struct {
	base *regexlang.Base
}

// New returns a ready-to-use TypeScript/TSX extractor.
func New() *Extractor {
	e := &Extractor{}
	e.base = &regexlang.Base{Hooks: e}
	return e
}

func (e *Extractor) LanguageID() string { return "typescript" }

func (e *Extractor) SupportedExtensions() []string { return []string{".ts", ".tsx"} }

func (e *Extractor) CanHandle(path string) bool {
	return strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".tsx")
}

func (e *Extractor) Extract(source, path string) []*entity.Entity {
	return e.base.Extract(source, path)
}

var (
	classPattern = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+(?P<name>[A-Za-z_$][\w$]*)(?:<[^>]*>)?(?:\s+extends\s+(?P<inherits>[A-Za-z_$][\w$.<>, ]*))?(?:\s+implements\s+[A-Za-z_$][\w$.<>, ]*)?\s*\{`)
	interfacePattern = regexp.MustCompile(`(?m)^\s*(?:export\s+)?interface\s+(?P<name>[A-Za-z_$][\w$]*)(?:<[^>]*>)?(?:\s+extends\s+(?P<inherits>[A-Za-z_$][\w$.<>, ]*))?\s*\{`)
	functionPattern  = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s+(?P<name>[A-Za-z_$][\w$]*)\s*[(<]`)
	methodPattern    = regexp.MustCompile(`(?m)^\s*(?:public|private|protected|static|async|readonly|abstract|\s)*(?P<name>[A-Za-z_$][\w$]*)\s*\([^)]*\)\s*(?::\s*[^{;=]+)?\s*\{`)
	arrowPattern     = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:const|let)\s+(?P<name>[A-Za-z_$][\w$]*)\s*(?::[^=]+)?=\s*(?:async\s*)?\([^)]*\)\s*(?::[^=]+)?=>\s*\{`)

	importBraced    = regexp.MustCompile(`import\s+(?:type\s+)?\{([^}]*)\}\s*from\s*['"]([^'"]+)['"]`)
	importDefault   = regexp.MustCompile(`import\s+([A-Za-z_$][\w$]*)\s*from\s*['"]([^'"]+)['"]`)
	importNamespace = regexp.MustCompile(`import\s+\*\s+as\s+([A-Za-z_$][\w$]*)\s*from\s*['"]([^'"]+)['"]`)
	importSideEffect = regexp.MustCompile(`import\s*['"]([^'"]+)['"]`)
	requirePattern  = regexp.MustCompile(`(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*require\(\s*['"]([^'"]+)['"]\s*\)`)

	decoratorPattern = regexp.MustCompile(`^@[A-Za-z_$][\w$]*(?:\([^)]*\))?`)
	typeRefPattern   = regexp.MustCompile(`:\s*([A-Za-z_$][\w$]*)(?:<[^>]*>)?(?:\[\])?|<([A-Za-z_$][\w$]*)>`)
	jsxPattern       = regexp.MustCompile(`<([A-Z][\w$.]*)[\s/>]`)
)

func (e *Extractor) DeclarationPatterns() []regexlang.DeclarationPattern {
	return []regexlang.DeclarationPattern{
		{Kind: entity.KindClass, Patterns: []*regexp.Regexp{classPattern, interfacePattern}},
		{Kind: entity.KindFunction, Patterns: []*regexp.Regexp{functionPattern, methodPattern, arrowPattern}},
	}
}

func (e *Extractor) ImportPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{importBraced, importNamespace, importDefault, requirePattern, importSideEffect}
}

// ParseImportMatch handles `import {x as y}`, default, namespace, bare
// side-effect imports, and require(...) forms.
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

func (e *Extractor) TypeRefsFromText(text string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range typeRefPattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if name == "" || langsets.TSTypeBuiltins.Has(name) {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func (e *Extractor) DecoratorPattern() *regexp.Regexp { return decoratorPattern }

func (e *Extractor) TrivialDecorators() langsets.StringSet { return nil }

// ExtractJSXComponents emits component references (`<Name ...`) as
// additional calls, filtered through the type-builtin set so lower-case
// intrinsic elements never appear (the pattern already requires a
// leading capital).
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
