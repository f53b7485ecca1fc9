// Package java is the regex-based Java extractor: classes/interfaces with
// extends/implements, methods, annotations (filtering trivial ones like
// @Override), static and wildcard imports.
package java

import (
	"regexp"
	"strings"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/extract/regexlang"
	"github.com/Krrish109/codegraph/langsets"
)

// Extractor implements extract.LanguageExtractor for .java sources.
type Extractor struct {
	base *regexlang.Base
}

// New returns a ready-to-use Java extractor.
func New() *Extractor {
	e := &Extractor{}
	e.base = &regexlang.Base{Hooks: e}
	return e
}

func (e *Extractor) LanguageID() string { return "java" }

func (e *Extractor) SupportedExtensions() []string { return []string{".java"} }

func (e *Extractor) CanHandle(path string) bool { return strings.HasSuffix(path, ".java") }

func (e *Extractor) Extract(source, path string) []*entity.Entity {
	return e.base.Extract(source, path)
}

var (
	classPattern = regexp.MustCompile(`(?m)^\s*(?:public|private|protected|final|abstract|static|\s)*class\s+(?P<name>[A-Za-z_][\w]*)(?:<[^>]*>)?(?:\s+extends\s+(?P<inherits>[A-Za-z_][\w.<>]*))?(?:\s+implements\s+[A-Za-z_][\w.<>, ]*)?\s*\{`)
	interfacePattern = regexp.MustCompile(`(?m)^\s*(?:public|private|protected|\s)*interface\s+(?P<name>[A-Za-z_][\w]*)(?:<[^>]*>)?(?:\s+extends\s+(?P<inherits>[A-Za-z_][\w.<>, ]*))?\s*\{`)
	methodPattern = regexp.MustCompile(`(?m)^\s*(?:public|private|protected|static|final|abstract|synchronized|\s)*(?:<[^>]*>\s*)?[\w<>\[\],. ]+?\s+(?P<name>[A-Za-z_][\w]*)\s*\([^;]*\)\s*(?:throws\s+[\w., ]+)?\s*\{`)

	importStatic   = regexp.MustCompile(`import\s+static\s+([\w.]+)\.([A-Za-z_][\w]*|\*)\s*;`)
	importWildcard = regexp.MustCompile(`import\s+([\w.]+)\.\*\s*;`)
	importSimple   = regexp.MustCompile(`import\s+([\w.]+)\.([A-Za-z_][\w]*)\s*;`)

	annotationPattern = regexp.MustCompile(`^@[A-Za-z_][\w.]*(?:\([^)]*\))?`)
)

var trivialAnnotations = langsets.Of("@Override", "@SuppressWarnings")

func (e *Extractor) DeclarationPatterns() []regexlang.DeclarationPattern {
	return []regexlang.DeclarationPattern{
		{Kind: entity.KindClass, Patterns: []*regexp.Regexp{classPattern, interfacePattern}},
		{Kind: entity.KindFunction, Patterns: []*regexp.Regexp{methodPattern}},
	}
}

func (e *Extractor) ImportPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{importStatic, importWildcard, importSimple}
}

func (e *Extractor) ParseImportMatch(pattern *regexp.Regexp, match []string) []entity.Import {
	switch pattern {
	case importStatic:
		return []entity.Import{{Module: match[1], Name: match[2]}}
	case importWildcard:
		return []entity.Import{{Module: match[1], Name: "*"}}
	case importSimple:
		return []entity.Import{{Module: match[1], Name: match[2]}}
	}
	return nil
}

func (e *Extractor) BuiltinNames() langsets.StringSet  { return langsets.JavaBuiltins }
func (e *Extractor) CommonMethods() langsets.StringSet { return langsets.JavaCommonMethods }

func (e *Extractor) TypeRefsFromText(text string) []string { return nil }

func (e *Extractor) DecoratorPattern() *regexp.Regexp { return annotationPattern }

func (e *Extractor) TrivialDecorators() langsets.StringSet { return trivialAnnotations }

func (e *Extractor) ExtractJSXComponents(body string) []string { return nil }
