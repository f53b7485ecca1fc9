// Package shadow implements a degraded parse fallback: a binary search for
// the largest line prefix that parses, followed by regex scavenging of
// entities from that prefix and from the rest of the source, used when the
// primary extractor's real parser fails outright on non-empty source.
package shadow

import (
	"crypto/sha256"
	"encoding/hex"
	"go/parser"
	"go/token"
	"regexp"
	"strings"

	"github.com/Krrish109/codegraph/entity"
)

// Extract partitions source into lines, finds the largest line prefix
// that parses cleanly under go/parser (only meaningful for the ".go"
// language id; other ids go straight to regex scavenging), and
// regex-scavenges function and type declarations from that prefix and
// from the remainder separately. No valid region after the first parse
// failure is searched for, and the valid prefix is scavenged by regex
// rather than taken from the parsed AST.
// Every scavenged entity's SignatureHash is prefixed "shadow:" so a later
// clean parse always supersedes it (the semantic gate's (name,
// signature_hash) comparison never equates a shadow entity with a
// properly parsed one).
func Extract(source, path, languageID string) []*entity.Entity {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	lines := strings.Split(source, "\n")

	validUpTo := 0
	if languageID == ".go" {
		validUpTo = largestParsingPrefix(lines)
	}

	var out []*entity.Entity
	if validUpTo > 0 {
		out = append(out, scavenge(strings.Join(lines[:validUpTo], "\n"), 1)...)
	}
	out = append(out, scavenge(strings.Join(lines[validUpTo:], "\n"), validUpTo+1)...)
	return out
}

// largestParsingPrefix binary-searches for the largest line prefix of
// source that parses cleanly, as is, as a Go file.
func largestParsingPrefix(lines []string) int {
	lo, hi := 0, len(lines)
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if mid == 0 {
			lo = mid + 1
			continue
		}
		candidate := strings.Join(lines[:mid], "\n")
		if parses(candidate) {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}

func parses(src string) bool {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "shadow.go", src, 0)
	return err == nil
}

var declPattern = regexp.MustCompile(`(?m)^\s*func\s+(?:\([^)]*\)\s*)?([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
var typePattern = regexp.MustCompile(`(?m)^\s*type\s+([A-Za-z_][A-Za-z0-9_]*)\s+(struct|interface)\b`)

// scavenge regex-scans an invalid-parse region for function/type
// declarations, emitting low-confidence entities whose line numbers are
// offset by lineOffset (the region's position within the original file).
func scavenge(region string, lineOffset int) []*entity.Entity {
	var out []*entity.Entity
	lineOf := func(byteOffset int) int {
		return lineOffset + strings.Count(region[:byteOffset], "\n")
	}

	for _, m := range declPattern.FindAllStringSubmatchIndex(region, -1) {
		name := region[m[2]:m[3]]
		line := lineOf(m[0])
		out = append(out, &entity.Entity{
			Kind:             entity.KindFunction,
			Name:             name,
			LineStart:        line,
			LineEnd:          line,
			SignatureHash:    "shadow:" + shortHash(name),
			StructureHash:    "shadow:" + shortHash("___"),
			ShadowConfidence: 0.4,
		})
	}
	for _, m := range typePattern.FindAllStringSubmatchIndex(region, -1) {
		name := region[m[2]:m[3]]
		line := lineOf(m[0])
		out = append(out, &entity.Entity{
			Kind:             entity.KindClass,
			Name:             name,
			LineStart:        line,
			LineEnd:          line,
			SignatureHash:    "shadow:" + shortHash(name),
			StructureHash:    "shadow:" + shortHash("___"),
			ShadowConfidence: 0.4,
		})
	}
	return out
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}
