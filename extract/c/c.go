// Package c is the regex-based C extractor, built on regexlang's shared
// pipeline; C has no classes, so only function declarations and
// struct declarations (mapped to KindClass for uniformity with other
// extractors' inherits/uses_type machinery, though C structs never
// populate Inherits) are emitted.
package c

import (
	"regexp"
	"strings"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/extract/regexlang"
	"github.com/Krrish109/codegraph/langsets"
)

// Extractor implements extract.LanguageExtractor for .c/.h sources.
type Extractor struct {
	base *regexlang.Base
}

// New returns a ready-to-use C extractor.
func New() *Extractor {
	e := &Extractor{}
	e.base = &regexlang.Base{Hooks: e}
	return e
}

func (e *Extractor) LanguageID() string { return "c" }

func (e *Extractor) SupportedExtensions() []string { return []string{".c", ".h"} }

func (e *Extractor) CanHandle(path string) bool {
	return strings.HasSuffix(path, ".c") || strings.HasSuffix(path, ".h")
}

func (e *Extractor) Extract(source, path string) []*entity.Entity {
	return e.base.Extract(source, path)
}

var (
	structPattern = regexp.MustCompile(`(?m)^\s*(?:typedef\s+)?struct\s+(?P<name>[A-Za-z_][\w]*)\s*\{`)
	fnPattern     = regexp.MustCompile(`(?m)^[A-Za-z_][\w\s*]*?\b(?P<name>[A-Za-z_][\w]*)\s*\([^;{)]*\)\s*\{`)

	includeQuoted = regexp.MustCompile(`#include\s*"([^"]+)"`)
	includeAngle  = regexp.MustCompile(`#include\s*<([^>]+)>`)
)

func (e *Extractor) DeclarationPatterns() []regexlang.DeclarationPattern {
	return []regexlang.DeclarationPattern{
		{Kind: entity.KindClass, Patterns: []*regexp.Regexp{structPattern}},
		{Kind: entity.KindFunction, Patterns: []*regexp.Regexp{fnPattern}},
	}
}

func (e *Extractor) ImportPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{includeQuoted, includeAngle}
}

// ParseImportMatch distinguishes "..." (module = ".") from <...> (module
// = "").
func (e *Extractor) ParseImportMatch(pattern *regexp.Regexp, match []string) []entity.Import {
	name := match[1]
	module := ""
	if pattern == includeQuoted {
		module = "."
	}
	return []entity.Import{{Module: module, Name: name}}
}

func (e *Extractor) BuiltinNames() langsets.StringSet  { return langsets.CBuiltins }
func (e *Extractor) CommonMethods() langsets.StringSet { return langsets.CCommonMethods }

func (e *Extractor) TypeRefsFromText(text string) []string { return nil }

func (e *Extractor) DecoratorPattern() *regexp.Regexp { return nil }

func (e *Extractor) TrivialDecorators() langsets.StringSet { return nil }

func (e *Extractor) ExtractJSXComponents(body string) []string { return nil }
