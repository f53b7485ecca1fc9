package extract

import (
	"github.com/Krrish109/codegraph/extract/c"
	"github.com/Krrish109/codegraph/extract/cpp"
	"github.com/Krrish109/codegraph/extract/golang"
	"github.com/Krrish109/codegraph/extract/java"
	"github.com/Krrish109/codegraph/extract/javascript"
	"github.com/Krrish109/codegraph/extract/rust"
	"github.com/Krrish109/codegraph/extract/typescript"
)

// DefaultRegistry returns a Registry with every language extractor this
// module ships registered: Go via go/ast, the rest via the shared
// regexlang base.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(golang.New())
	r.Register(typescript.New())
	r.Register(javascript.New())
	r.Register(rust.New())
	r.Register(c.New())
	r.Register(cpp.New())
	r.Register(java.New())
	return r
}
