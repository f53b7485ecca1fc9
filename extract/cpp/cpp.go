// Package cpp is the regex-based C++ extractor: classes/structs with
// single and multiple inheritance, functions and methods, and the same
// "..." vs <...> include-module distinction as the C extractor.
package cpp

import (
	"regexp"
	"strings"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/extract/regexlang"
	"github.com/Krrish109/codegraph/langsets"
)

// Extractor implements extract.LanguageExtractor for .cpp/.cc/.cxx/.hpp/.hh/.hxx sources.
type Extractor struct {
	base *regexlang.Base
}

// New returns a ready-to-use C++ extractor.
func New() *Extractor {
	e := &Extractor{}
	e.base = &regexlang.Base{Hooks: e}
	return e
}

func (e *Extractor) LanguageID() string { return "cpp" }

func (e *Extractor) SupportedExtensions() []string {
	return []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx"}
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
	classPattern = regexp.MustCompile(`(?m)^\s*(?:template\s*<[^>]*>\s*)?class\s+(?P<name>[A-Za-z_][\w]*)(?:\s*:\s*(?P<inherits>(?:public|private|protected)\s+[A-Za-z_][\w:<>, ]*(?:,\s*(?:public|private|protected)\s+[A-Za-z_][\w:<>, ]*)*))?\s*\{`)
	structPattern = regexp.MustCompile(`(?m)^\s*struct\s+(?P<name>[A-Za-z_][\w]*)(?:\s*:\s*(?P<inherits>(?:public|private|protected)\s+[A-Za-z_][\w:<>, ]*))?\s*\{`)
	fnPattern     = regexp.MustCompile(`(?m)^[A-Za-z_][\w\s*&:<>,]*?\b(?P<name>[A-Za-z_~][\w]*)\s*\([^;{)]*\)\s*(?:const\s*)?\{`)

	includeQuoted = regexp.MustCompile(`#include\s*"([^"]+)"`)
	includeAngle  = regexp.MustCompile(`#include\s*<([^>]+)>`)
	usingPattern  = regexp.MustCompile(`using\s+([A-Za-z_][\w]*)\s*=\s*([A-Za-z_][\w:<>]*)\s*;`)
)

func (e *Extractor) DeclarationPatterns() []regexlang.DeclarationPattern {
	return []regexlang.DeclarationPattern{
		{Kind: entity.KindClass, Patterns: []*regexp.Regexp{classPattern, structPattern}},
		{Kind: entity.KindFunction, Patterns: []*regexp.Regexp{fnPattern}},
	}
}

func (e *Extractor) ImportPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{includeQuoted, includeAngle, usingPattern}
}

func (e *Extractor) ParseImportMatch(pattern *regexp.Regexp, match []string) []entity.Import {
	switch pattern {
	case includeQuoted:
		return []entity.Import{{Module: ".", Name: match[1]}}
	case includeAngle:
		return []entity.Import{{Module: "", Name: match[1]}}
	case usingPattern:
		return []entity.Import{{Module: match[2], Name: match[1]}}
	}
	return nil
}

func (e *Extractor) BuiltinNames() langsets.StringSet  { return langsets.CPPBuiltins }
func (e *Extractor) CommonMethods() langsets.StringSet { return langsets.CPPCommonMethods }

func (e *Extractor) TypeRefsFromText(text string) []string { return nil }

func (e *Extractor) DecoratorPattern() *regexp.Regexp { return nil }

func (e *Extractor) TrivialDecorators() langsets.StringSet { return nil }

func (e *Extractor) ExtractJSXComponents(body string) []string { return nil }
