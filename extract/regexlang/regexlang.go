// Package regexlang is the shared regex-based extraction base every
// secondary-language extractor (TypeScript, JavaScript, Rust, C, C++,
// Java) builds on, using Go's regexp package since no third-party
// declarative regex-extraction framework fits this use case — see
// DESIGN.md for the stdlib justification.
package regexlang

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/langsets"
)

// DeclarationPattern pairs an entity kind with the regexes that locate it.
// Every pattern must expose a named capture group "name"; an optional
// "inherits" group supplies base/extends names.
type DeclarationPattern struct {
	Kind     entity.Kind
	Patterns []*regexp.Regexp
}

// Hooks is the set of language-specific behaviors a concrete extractor
// supplies; Base.Extract drives the shared pipeline around them.
type Hooks interface {
	LanguageID() string
	SupportedExtensions() []string
	DeclarationPatterns() []DeclarationPattern
	ImportPatterns() []*regexp.Regexp
	// ParseImportMatch returns (module, name) pairs for one import-pattern
	// match against the *original* (unstripped) source.
	ParseImportMatch(pattern *regexp.Regexp, match []string) []entity.Import
	BuiltinNames() langsets.StringSet
	CommonMethods() langsets.StringSet
	// TypeRefsFromText is optional; returning nil means the language emits
	// no type_refs (matches the JS extractor's behavior).
	TypeRefsFromText(text string) []string
	// DecoratorPattern is optional; nil means no decorator extraction.
	DecoratorPattern() *regexp.Regexp
	// TrivialDecorators names decorators/attributes to drop even though
	// they matched DecoratorPattern (Java's @Override, @SuppressWarnings);
	// a nil set means none are filtered.
	TrivialDecorators() langsets.StringSet
	// ExtractJSXComponents is optional; nil/empty means none (only TS/JSX
	// extractors populate this).
	ExtractJSXComponents(body string) []string
}

// Base implements the shared extraction pipeline: strip → imports →
// declarations (brace-counted bodies, call/decorator/type-ref/inherits
// extraction) → hierarchical scoping.
type Base struct {
	Hooks Hooks
}

var stripPattern = regexp.MustCompile(`(?s)//[^\n]*|/\*.*?\*/|"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'|` + "`" + `(?:\\.|[^` + "`" + `\\])*` + "`")

// StripCommentsAndStrings blanks comments and string/template/char
// literals to whitespace, preserving line numbers and column widths so
// downstream regex offsets stay meaningful.
func StripCommentsAndStrings(source string) string {
	return stripPattern.ReplaceAllStringFunc(source, func(m string) string {
		var b strings.Builder
		for _, r := range m {
			if r == '\n' {
				b.WriteRune('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		return b.String()
	})
}

// FindBodyEnd locates the closing brace matching the opening brace on or
// after declLine (1-indexed), by balanced brace counting over lines.
func FindBodyEnd(lines []string, declLine int) int {
	depth := 0
	foundOpen := false
	for i := declLine - 1; i < len(lines); i++ {
		for _, r := range lines[i] {
			switch r {
			case '{':
				depth++
				foundOpen = true
			case '}':
				depth--
				if foundOpen && depth <= 0 {
					return i + 1
				}
			}
		}
	}
	if len(lines) == 0 {
		return declLine
	}
	return len(lines)
}

var callPattern = regexp.MustCompile(`\b([A-Za-z_$][A-Za-z0-9_$]*)\s*\(`)
var qualifiedCallPattern = regexp.MustCompile(`\b([A-Za-z_$][A-Za-z0-9_$.]*)\.([A-Za-z_$][A-Za-z0-9_$]*)\s*\(`)

// ExtractCallsFromBody scans the (stripped) body for call expressions,
// filtering built-ins and common methods unless the call is qualified
// through a non-trivial receiver, and deduplicating.
func ExtractCallsFromBody(body string, builtins, common langsets.StringSet) []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, m := range qualifiedCallPattern.FindAllStringSubmatch(body, -1) {
		receiver, method := m[1], m[2]
		if common.Has(method) && !strings.Contains(receiver, ".") {
			continue
		}
		add(receiver + "." + method)
	}
	for _, m := range callPattern.FindAllStringSubmatch(body, -1) {
		name := m[1]
		if builtins.Has(name) || common.Has(name) {
			continue
		}
		add(name)
	}
	return out
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

func computeHashes(name, fullText string) (sig, structure string) {
	sig = sha256Hex(fullText)
	structure = sha256Hex(strings.Replace(fullText, name, "___", 1))
	return
}

type rawEntity struct {
	*entity.Entity
	span int
}

// Extract runs the full shared pipeline over source.
func (b *Base) Extract(source, path string) []*entity.Entity {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	defer func() { recover() }() //nolint:errcheck

	imports := b.extractImports(source)
	stripped := StripCommentsAndStrings(source)
	decls := b.extractDeclarations(stripped, source)
	scoped := applyScoping(decls)

	out := make([]*entity.Entity, 0, len(imports)+len(scoped))
	out = append(out, imports...)
	out = append(out, scoped...)
	return out
}

func (b *Base) extractImports(source string) []*entity.Entity {
	var out []*entity.Entity
	lineOf := newLineIndex(source)
	for _, pat := range b.Hooks.ImportPatterns() {
		for _, loc := range pat.FindAllStringSubmatchIndex(source, -1) {
			match := submatchStrings(source, loc)
			pairs := b.Hooks.ParseImportMatch(pat, match)
			line := lineOf(loc[0])
			for _, p := range pairs {
				sig, structure := computeHashes(p.Name, p.Module+":"+p.Name)
				out = append(out, &entity.Entity{
					Kind:          entity.KindImport,
					Name:          p.Name,
					LineStart:     line,
					LineEnd:       line,
					SignatureHash: sig,
					StructureHash: structure,
					Imports:       []entity.Import{p},
				})
			}
		}
	}
	return out
}

func submatchStrings(source string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		s, e := loc[2*i], loc[2*i+1]
		if s < 0 {
			continue
		}
		out[i] = source[s:e]
	}
	return out
}

func newLineIndex(source string) func(byteOffset int) int {
	offsets := []int{0}
	for i, r := range source {
		if r == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return func(byteOffset int) int {
		lo, hi := 0, len(offsets)-1
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if offsets[mid] <= byteOffset {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		return lo + 1
	}
}

var decoratorLinePatternDefault = regexp.MustCompile(`^\s*[@#\[].*$`)

func (b *Base) extractDeclarations(stripped, original string) []rawEntity {
	lines := strings.Split(original, "\n")
	strippedLines := strings.Split(stripped, "\n")
	lineOf := newLineIndex(stripped)

	var raw []rawEntity
	for _, dp := range b.Hooks.DeclarationPatterns() {
		for _, pat := range dp.Patterns {
			names := pat.SubexpNames()
			for _, loc := range pat.FindAllStringSubmatchIndex(stripped, -1) {
				match := submatchStrings(stripped, loc)
				name := namedGroup(names, match, "name")
				if name == "" {
					continue
				}
				declLine := lineOf(loc[0])
				bodyEnd := FindBodyEnd(strippedLines, declLine)
				if bodyEnd < declLine {
					bodyEnd = declLine
				}
				fullText := strings.Join(safeSlice(lines, declLine-1, bodyEnd), "\n")
				strippedBody := strings.Join(safeSlice(strippedLines, declLine-1, bodyEnd), "\n")

				sig, structure := computeHashes(name, fullText)

				e := &entity.Entity{
					Kind:          dp.Kind,
					Name:          name,
					LineStart:     declLine,
					LineEnd:       bodyEnd,
					SignatureHash: sig,
					StructureHash: structure,
				}
				if dp.Kind == entity.KindFunction {
					e.Calls = ExtractCallsFromBody(strippedBody, b.Hooks.BuiltinNames(), b.Hooks.CommonMethods())
				}
				if inh := namedGroup(names, match, "inherits"); inh != "" {
					e.Inherits = parseInheritsList(inh)
				}
				if refs := b.Hooks.TypeRefsFromText(fullText); len(refs) > 0 {
					e.TypeRefs = refs
				}
				if jsx := b.Hooks.ExtractJSXComponents(strippedBody); len(jsx) > 0 {
					e.Calls = append(e.Calls, jsx...)
				}
				e.Decorators = b.extractDecorators(lines, declLine)

				raw = append(raw, rawEntity{Entity: e, span: bodyEnd - declLine})
			}
		}
	}
	return raw
}

func safeSlice(lines []string, start, end int) []string {
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return nil
	}
	return lines[start:end]
}

func namedGroup(names, match []string, want string) string {
	for i, n := range names {
		if n == want && i < len(match) {
			return match[i]
		}
	}
	return ""
}

var genericStrip = regexp.MustCompile(`<[^>]*>`)

func parseInheritsList(raw string) []string {
	raw = genericStrip.ReplaceAllString(raw, "")
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		fields := strings.Fields(p)
		name := fields[len(fields)-1]
		if name == "" || !isUpperFirst(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func isUpperFirst(s string) bool {
	r := []rune(s)
	return len(r) > 0 && r[0] >= 'A' && r[0] <= 'Z'
}

func (b *Base) extractDecorators(lines []string, declLine int) []string {
	pat := b.Hooks.DecoratorPattern()
	if pat == nil {
		return nil
	}
	var out []string
	for i := declLine - 2; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if !pat.MatchString(line) {
			break
		}
		dec := strings.TrimSpace(pat.FindString(line))
		if !b.Hooks.TrivialDecorators().Has(dec) {
			out = append(out, dec)
		}
	}
	// reverse to source order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// applyScoping sorts declarations by (line_start, -span) and prefixes
// nested declaration names with their enclosing class name; imports are
// never scoped (they are not passed in here).
func applyScoping(decls []rawEntity) []*entity.Entity {
	sort.SliceStable(decls, func(i, j int) bool {
		if decls[i].LineStart != decls[j].LineStart {
			return decls[i].LineStart < decls[j].LineStart
		}
		return decls[i].span > decls[j].span
	})

	type scopeFrame struct {
		name    string
		lineEnd int
	}
	var stack []scopeFrame
	out := make([]*entity.Entity, 0, len(decls))

	for _, d := range decls {
		for len(stack) > 0 && d.LineStart > stack[len(stack)-1].lineEnd {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			d.Name = stack[len(stack)-1].name + "." + d.Name
		}
		if d.Kind == entity.KindClass {
			stack = append(stack, scopeFrame{name: d.Name, lineEnd: d.LineEnd})
		}
		out = append(out, d.Entity)
	}
	return out
}
