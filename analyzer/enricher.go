// Package analyzer narrows a full tree-sitter dataflow walker down to a
// single enrichment pass over Go source: DataflowEnricher tracks
// local-variable constructor assignments through one function body and
// reports every struct type reached that way, so bridge.Bridge can add
// extra low-confidence uses_type edges the AST-based extractor's static
// type_refs pass does not see (a type only reached via
// `x := NewFoo(); x.M()` rather than a parameter or return annotation).
package analyzer

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// TypeHint is one dataflow-derived type usage: FnScope is the scoped
// entity name of the enclosing function/method ("Class.method" or a
// bare function name), TypeName is the struct/interface type reached
// through a local variable's constructor assignment.
type TypeHint struct {
	FnScope  string
	TypeName string
}

// DataflowEnricher walks one Go source file's function bodies tracking
// simple constructor-assignment dataflow, independent of and
// complementary to extract/golang's static type_refs.
type DataflowEnricher struct{}

// NewDataflowEnricher returns a ready-to-use enricher.
func NewDataflowEnricher() *DataflowEnricher { return &DataflowEnricher{} }

// Enrich parses source with tree-sitter's Go grammar and returns every
// dataflow-derived type hint found across its top-level functions and
// methods. A parse failure yields no hints: this pass is optional
// enrichment, never load-bearing.
func (d *DataflowEnricher) Enrich(source string) (hints []TypeHint) {
	defer func() {
		if recover() != nil {
			hints = nil
		}
	}()

	src := []byte(source)
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil || tree == nil {
		return nil
	}

	root := tree.RootNode()
	if root.HasError() {
		// Unlike go/parser, tree-sitter recovers from malformed input by
		// wrapping the bad region in an ERROR node rather than failing
		// outright; treat that the same as a hard parse failure so a
		// broken file never yields a hint built from garbage.
		return nil
	}

	funcQuery := sitter.NewQuery([]byte("(function_declaration) @func"), golang.GetLanguage())
	funcCursor := sitter.NewQueryCursor()
	funcCursor.Exec(funcQuery, root)
	for {
		match, ok := funcCursor.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			hints = append(hints, walkFunctionDecl(capture.Node, src)...)
		}
	}

	methodQuery := sitter.NewQuery([]byte("(method_declaration) @method"), golang.GetLanguage())
	methodCursor := sitter.NewQueryCursor()
	methodCursor.Exec(methodQuery, root)
	for {
		match, ok := methodCursor.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			hints = append(hints, walkFunctionDecl(capture.Node, src)...)
		}
	}
	return hints
}

func walkFunctionDecl(n *sitter.Node, src []byte) []TypeHint {
	scope := functionScope(n, src)
	body := n.ChildByFieldName("body")
	if scope == "" || body == nil {
		return nil
	}
	return walkFunctionBody(scope, body, src)
}

// functionScope builds the scoped entity name a method_declaration or
// function_declaration would produce in extract/golang: "Recv.name" for
// a method (receiver type, star-dereferenced), bare "name" otherwise —
// matching extract/golang.walkFunc's own naming so node IDs line up.
func functionScope(n *sitter.Node, src []byte) string {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	name := nameNode.Content(src)
	if n.Type() != "method_declaration" {
		return name
	}
	recv := n.ChildByFieldName("receiver")
	if recv == nil {
		return name
	}
	for i := 0; i < int(recv.NamedChildCount()); i++ {
		param := recv.NamedChild(i)
		if param.Type() != "parameter_declaration" {
			continue
		}
		if recvType := paramTypeName(param, src); recvType != "" {
			return recvType + "." + name
		}
	}
	return name
}

func paramTypeName(param *sitter.Node, src []byte) string {
	t := param.ChildByFieldName("type")
	if t == nil {
		return ""
	}
	if t.Type() == "pointer_type" {
		t = t.NamedChild(0)
		if t == nil {
			return ""
		}
	}
	return t.Content(src)
}

// walkFunctionBody tracks local-variable types assigned via a
// constructor call (`x := NewFoo(...)`) or an address-of composite
// literal (`x := &Foo{...}`), then reports every type reached by a
// later selector call on that variable within the same body.
func walkFunctionBody(scope string, body *sitter.Node, src []byte) []TypeHint {
	localTypes := make(map[string]string)
	seen := make(map[string]struct{})
	var hints []TypeHint

	record := func(typeName string) {
		if typeName == "" {
			return
		}
		key := scope + "\x00" + typeName
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		hints = append(hints, TypeHint{FnScope: scope, TypeName: typeName})
	}

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "short_var_declaration", "assignment_statement":
			left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
			if left != nil && right != nil {
				recordAssignment(left, right, localTypes, src)
			}
		case "call_expression":
			if sel := n.ChildByFieldName("function"); sel != nil && sel.Type() == "selector_expression" {
				recv := sel.ChildByFieldName("operand")
				if recv != nil && recv.Type() == "identifier" {
					if t, known := localTypes[recv.Content(src)]; known {
						record(t)
					}
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(body)
	return hints
}

func recordAssignment(left, right *sitter.Node, localTypes map[string]string, src []byte) {
	lhsNames := identifierList(left, src)
	rhsExprs := exprList(right)
	for i, name := range lhsNames {
		if name == "_" || i >= len(rhsExprs) {
			continue
		}
		if t := inferredConstructorType(rhsExprs[i], src); t != "" {
			localTypes[name] = t
		}
	}
}

// identifierList collects every top-level "identifier" child of an
// expression_list on the left-hand side of an assignment.
func identifierList(n *sitter.Node, src []byte) []string {
	if n.Type() == "identifier" {
		return []string{n.Content(src)}
	}
	var out []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "identifier" {
			out = append(out, c.Content(src))
		}
	}
	return out
}

// exprList collects the expression children of a right-hand-side
// expression_list; NamedChild already skips the "," separator tokens.
func exprList(n *sitter.Node) []*sitter.Node {
	if n.Type() != "expression_list" {
		return []*sitter.Node{n}
	}
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// inferredConstructorType recognizes the two constructor shapes this
// package treats as type-revealing: a `NewFoo(...)` call (the
// convention the rest of this corpus's Go code follows) or a
// `&Foo{...}` address-of composite literal.
func inferredConstructorType(expr *sitter.Node, src []byte) string {
	switch expr.Type() {
	case "call_expression":
		fn := expr.ChildByFieldName("function")
		if fn == nil || fn.Type() != "identifier" {
			return ""
		}
		name := fn.Content(src)
		if !strings.HasPrefix(name, "New") || len(name) <= 3 {
			return ""
		}
		return strings.TrimPrefix(name, "New")
	case "unary_expression":
		operand := expr.ChildByFieldName("operand")
		if operand == nil || operand.Type() != "composite_literal" {
			return ""
		}
		if t := operand.ChildByFieldName("type"); t != nil && t.Type() == "type_identifier" {
			return t.Content(src)
		}
	}
	return ""
}
