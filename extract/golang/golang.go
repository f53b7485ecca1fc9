// Package golang is the primary, AST-backed language extractor. It is
// grounded on inspector/golang/inspector.go's parse-and-walk structure
// (go/parser, go/ast, go/printer, go/token), generalized to emit the
// uniform entity.Entity record instead of a language-specific
// document tree.
package golang

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"sort"
	"strings"

	"golang.org/x/mod/module"
	"golang.org/x/tools/go/ast/astutil"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/langsets"
	"github.com/Krrish109/codegraph/shadow"
)

// Extractor is the primary-language LanguageExtractor, satisfying
// extract.LanguageExtractor.
type Extractor struct{}

// New returns a ready-to-use Go extractor.
func New() *Extractor { return &Extractor{} }

func (e *Extractor) LanguageID() string { return "go" }

func (e *Extractor) SupportedExtensions() []string { return []string{".go"} }

func (e *Extractor) CanHandle(path string) bool {
	return strings.HasSuffix(path, ".go")
}

// Extract parses source with go/parser; on a hard parse failure over
// non-empty source it falls back to shadow.Extract so a
// syntax-broken file still yields best-effort, low-confidence entities
// instead of silently emptying the graph. Extract never panics: any
// internal failure degrades to an empty result rather than propagating
// a panic to the caller.
func (e *Extractor) Extract(source, path string) (out []*entity.Entity) {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()

	out, ok := e.parseAndWalk(source, path)
	if ok {
		return out
	}
	return shadow.Extract(source, path, ".go")
}

// ExtractStrict parses source with go/parser only: a hard parse failure
// over non-empty source returns an empty slice rather than degrading to
// shadow.Extract's scavenged stubs. The semantic gate needs this — it
// must see "nothing parses" as "no entities", not as a handful of
// shadow-confidence placeholders that would mask a real parse regression
// as an ordinary edit.
func (e *Extractor) ExtractStrict(source, path string) (out []*entity.Entity) {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()

	out, _ = e.parseAndWalk(source, path)
	return out
}

func (e *Extractor) parseAndWalk(source, path string) ([]*entity.Entity, bool) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, source, parser.ParseComments|parser.AllErrors)
	if err != nil || file == nil {
		return nil, false
	}

	w := &walker{
		fset:   fset,
		src:    []byte(source),
		path:   path,
		types:  collectTypeNames(file),
		vars:   make(map[string]string),
		consts: make(map[string]string),
	}
	w.collectPackageScope(file)
	w.walkFile(file)
	sort.SliceStable(w.out, func(i, j int) bool { return w.out[i].LineStart < w.out[j].LineStart })
	return w.out, true
}

type walker struct {
	fset *token.FileSet
	src  []byte
	path string

	// types records every package-level type name so receiver/base
	// resolution and type_refs filtering can recognize in-file types.
	types map[string]struct{}
	// vars/consts record module-level variable annotations, feeding
	// type_context for receiver resolution, keyed by variable name.
	vars   map[string]string
	consts map[string]string

	out []*entity.Entity
}

func collectTypeNames(file *ast.File) map[string]struct{} {
	names := make(map[string]struct{})
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			if ts, ok := spec.(*ast.TypeSpec); ok {
				names[ts.Name.Name] = struct{}{}
			}
		}
	}
	return names
}

func (w *walker) collectPackageScope(file *ast.File) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || (gd.Tok != token.VAR && gd.Tok != token.CONST) {
			continue
		}
		for _, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			typeName := ""
			if vs.Type != nil {
				typeName = exprString(vs.Type)
			}
			for i, name := range vs.Names {
				if typeName == "" && i < len(vs.Values) {
					typeName = exprString(vs.Values[i])
				}
				if gd.Tok == token.CONST {
					w.consts[name.Name] = typeName
				} else {
					w.vars[name.Name] = typeName
				}
			}
		}
	}
}

func (w *walker) walkFile(file *ast.File) {
	w.walkImports(file)

	var moduleCalls []string
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			w.walkFunc(d)
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				w.walkTypeDecl(d)
			case token.VAR, token.CONST:
				w.walkValueDecl(d)
				for _, spec := range d.Specs {
					if vs, ok := spec.(*ast.ValueSpec); ok {
						for _, v := range vs.Values {
							moduleCalls = append(moduleCalls, collectCalls(v, w.types)...)
						}
					}
				}
			}
		}
	}
	if len(moduleCalls) > 0 {
		pos := w.fset.Position(file.Package)
		w.out = append(w.out, &entity.Entity{
			Kind:          entity.KindModuleCode,
			Name:          "__module__",
			LineStart:     pos.Line,
			LineEnd:       pos.Line,
			SignatureHash: hashText(strings.Join(moduleCalls, ",")),
			StructureHash: hashText(strings.Join(moduleCalls, ",")),
			Calls:         dedupe(moduleCalls),
		})
	}
}

// inferredPackageName derives the conventional package identifier for an
// unaliased import: the last path element after stripping a semantic
// "/vN" major-version suffix (so "example.com/foo/bar/v2" infers "bar",
// not "v2").
func inferredPackageName(modulePath string) string {
	base, _, ok := module.SplitPathVersion(modulePath)
	if !ok {
		base = modulePath
	}
	base = strings.TrimSuffix(base, "/")
	return base[strings.LastIndex(base, "/")+1:]
}

func (w *walker) walkImports(file *ast.File) {
	for _, imp := range file.Imports {
		modulePath := strings.Trim(imp.Path.Value, `"`)
		name := inferredPackageName(modulePath)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		pos := w.fset.Position(imp.Pos())
		w.out = append(w.out, &entity.Entity{
			Kind:          entity.KindImport,
			Name:          name,
			LineStart:     pos.Line,
			LineEnd:       pos.Line,
			SignatureHash: hashText(modulePath + ":" + name),
			StructureHash: hashText(modulePath + ":___"),
			Imports:       []entity.Import{{Module: modulePath, Name: name}},
		})
	}
}

func (w *walker) walkValueDecl(d *ast.GenDecl) {
	for _, spec := range d.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		text := w.nodeText(d)
		for _, name := range vs.Names {
			if name.Name == "_" {
				continue
			}
			pos := w.fset.Position(name.Pos())
			endPos := w.fset.Position(d.End())
			w.out = append(w.out, &entity.Entity{
				Kind:          entity.KindVariable,
				Name:          name.Name,
				LineStart:     w.fset.Position(d.Pos()).Line,
				LineEnd:       endPos.Line,
				SignatureHash: hashText(text),
				StructureHash: hashText(strings.Replace(text, name.Name, "___", 1)),
			})
			_ = pos
		}
	}
}

func (w *walker) walkTypeDecl(d *ast.GenDecl) {
	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		text := w.nodeText(ts)
		start := w.fset.Position(ts.Pos())
		end := w.fset.Position(ts.End())

		e := &entity.Entity{
			Kind:          entity.KindClass,
			Name:          ts.Name.Name,
			LineStart:     start.Line,
			LineEnd:       end.Line,
			SignatureHash: hashText(text),
			StructureHash: hashText(strings.Replace(text, ts.Name.Name, "___", 1)),
		}

		switch t := ts.Type.(type) {
		case *ast.StructType:
			if t.Fields != nil {
				for _, f := range t.Fields.List {
					if len(f.Names) == 0 {
						// embedded field: a candidate inherits edge.
						if base := embeddedBaseName(f.Type); base != "" {
							e.Inherits = append(e.Inherits, base)
						}
					}
				}
			}
		case *ast.InterfaceType:
			if t.Methods != nil {
				for _, m := range t.Methods.List {
					if len(m.Names) == 0 {
						if base := embeddedBaseName(m.Type); base != "" {
							e.Inherits = append(e.Inherits, base)
						}
					}
				}
			}
		}
		w.out = append(w.out, e)
	}
}

func embeddedBaseName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedBaseName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	}
	return ""
}

func (w *walker) walkFunc(fn *ast.FuncDecl) {
	name := fn.Name.Name
	var recvType string
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		recvType = embeddedBaseName(fn.Recv.List[0].Type)
		if recvType != "" {
			name = recvType + "." + name
		}
	}

	start := w.fset.Position(fn.Pos())
	end := w.fset.Position(fn.End())
	text := w.nodeText(fn)

	e := &entity.Entity{
		Kind:          entity.KindFunction,
		Name:          name,
		LineStart:     start.Line,
		LineEnd:       end.Line,
		SignatureHash: hashText(text),
		StructureHash: hashText(strings.Replace(text, fn.Name.Name, "___", 1)),
	}

	localTypes := make(map[string]string)
	if fn.Recv != nil && len(fn.Recv.List) > 0 && len(fn.Recv.List[0].Names) > 0 {
		recvName := fn.Recv.List[0].Names[0].Name
		if recvName != "_" && recvType != "" {
			localTypes[recvName] = recvType
		}
	}
	if fn.Type.Params != nil {
		for _, f := range fn.Type.Params.List {
			typeName := embeddedBaseName(f.Type)
			for _, n := range f.Names {
				if n.Name == "self" || n.Name == "cls" {
					continue
				}
				e.Params = append(e.Params, n.Name)
				if typeName != "" {
					localTypes[n.Name] = typeName
				}
			}
		}
	}
	e.TypeContext = localTypes

	if fn.Body != nil {
		e.Calls = resolveCalls(fn.Body, recvType, localTypes, w.types, w.vars, w.consts)
		e.Uses = collectUses(fn.Body)
	}
	e.TypeRefs = collectTypeRefs(fn.Type, w.types)

	w.out = append(w.out, e)
}

func (w *walker) nodeText(n ast.Node) string {
	var buf bytes.Buffer
	_ = printer.Fprint(&buf, w.fset, n)
	return buf.String()
}

func hashText(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

func exprString(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.CallExpr:
		return exprString(t.Fun)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.StarExpr:
		return exprString(t.X)
	case *ast.CompositeLit:
		return exprString(t.Type)
	case *ast.UnaryExpr:
		return exprString(t.X)
	}
	return ""
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func collectCalls(n ast.Node, types map[string]struct{}) []string {
	var out []string
	ast.Inspect(n, func(node ast.Node) bool {
		call, ok := node.(*ast.CallExpr)
		if !ok {
			return true
		}
		if name := exprString(call.Fun); name != "" && !langsets.GoBuiltins.Has(name) {
			out = append(out, name)
		}
		return true
	})
	return out
}

func collectUses(n ast.Node) []string {
	var out []string
	seen := map[string]struct{}{}
	ast.Inspect(n, func(node ast.Node) bool {
		id, ok := node.(*ast.Ident)
		if !ok || id.Obj == nil {
			return true
		}
		if _, dup := seen[id.Name]; dup {
			return true
		}
		seen[id.Name] = struct{}{}
		out = append(out, id.Name)
		return true
	})
	return out
}

func collectTypeRefs(ft *ast.FuncType, types map[string]struct{}) []string {
	var out []string
	add := func(e ast.Expr) {
		if name := embeddedBaseName(e); name != "" {
			if _, ok := types[name]; ok || !langsets.GoBuiltins.Has(name) {
				out = append(out, name)
			}
		}
	}
	if ft.Params != nil {
		for _, f := range ft.Params.List {
			add(f.Type)
		}
	}
	if ft.Results != nil {
		for _, f := range ft.Results.List {
			add(f.Type)
		}
	}
	return dedupe(out)
}

// resolveCalls qualifies every call in body following the
// receiver-resolution rules: a self/cls-style receiver (the function's own
// receiver name) becomes "Recv.method"; a receiver bound to a known local
// type (from localTypes) becomes "Type.method". Builtins are dropped, and
// so are common method names on an unresolved receiver. Calls through an
// imported package are kept as "pkg.Func": no standard-library or
// external-package filtering is applied.
func resolveCalls(body ast.Node, recvType string, localTypes map[string]string, allTypes map[string]struct{}, modVars, modConsts map[string]string) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(name string) {
		if name == "" || langsets.GoBuiltins.Has(name) {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	ast.Inspect(body, func(node ast.Node) bool {
		call, ok := node.(*ast.CallExpr)
		if !ok {
			return true
		}
		switch fn := astutil.Unparen(call.Fun).(type) {
		case *ast.Ident:
			add(fn.Name)
		case *ast.SelectorExpr:
			recvIdent, ok := fn.X.(*ast.Ident)
			method := fn.Sel.Name
			if !ok {
				if name := exprString(fn.X); name != "" {
					add(name + "." + method)
				}
				return true
			}
			recvName := recvIdent.Name
			if recvType != "" && localTypes[recvName] == recvType {
				add(recvType + "." + method)
				return true
			}
			if t, ok := localTypes[recvName]; ok {
				add(t + "." + method)
				return true
			}
			if t, ok := modVars[recvName]; ok && t != "" {
				add(t + "." + method)
				return true
			}
			if _, ok := allTypes[recvName]; ok {
				add(recvName + "." + method)
				return true
			}
			if langsets.GoCommonMethods.Has(method) {
				return true
			}
			add(recvName + "." + method)
		}
		return true
	})
	return out
}
