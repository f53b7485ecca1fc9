// Package testfile implements the multi-language test-file heuristic shared
// by the resolver, dead-code search, and cycle detection.
package testfile

import (
	"path"
	"strings"
)

var suffixes = []string{
	".test.ts", ".spec.ts", ".test.tsx", ".spec.tsx",
	".test.js", ".spec.js", ".test.jsx", ".spec.jsx",
	".test.mjs", ".spec.mjs",
	"_test.rs",
	"Test.java", "Tests.java",
	"_test.cpp", "_test.cc", "_test.cxx", "_test.c", "_test.hpp", "_test.h",
	"_test.go",
}

var dirs = map[string]struct{}{
	"tests": {}, "test": {}, "testing": {}, "__tests__": {}, "spec": {},
}

// Is reports whether p looks like a test file, by basename pattern or by
// living under a conventional test directory.
func Is(p string) bool {
	base := path.Base(filepathToSlash(p))

	if strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py") {
		return true
	}
	for _, suf := range suffixes {
		if strings.HasSuffix(base, suf) {
			return true
		}
	}
	for _, part := range strings.Split(filepathToSlash(p), "/") {
		if _, ok := dirs[part]; ok {
			return true
		}
	}
	return false
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
