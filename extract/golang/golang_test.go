package golang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/extract/golang"
)

func byName(entities []*entity.Entity, name string) *entity.Entity {
	for _, e := range entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func TestExtract_FunctionsAndCalls(t *testing.T) {
	src := `package a

func Foo() {
	Bar()
}

func Bar() {}
`
	out := golang.New().Extract(src, "a.go")

	foo := byName(out, "Foo")
	require.NotNil(t, foo)
	assert.Equal(t, entity.KindFunction, foo.Kind)
	assert.Contains(t, foo.Calls, "Bar")

	bar := byName(out, "Bar")
	require.NotNil(t, bar)
	assert.Empty(t, bar.Calls)
}

func TestExtract_MethodsAreReceiverQualified(t *testing.T) {
	src := `package a

type Widget struct{}

func (w *Widget) Spin() {}
`
	out := golang.New().Extract(src, "a.go")
	assert.NotNil(t, byName(out, "Widget"))
	assert.NotNil(t, byName(out, "Widget.Spin"))
}

func TestExtract_StructEmbeddingYieldsInheritsEdge(t *testing.T) {
	src := `package a

type Base struct{}

type Derived struct {
	Base
}
`
	out := golang.New().Extract(src, "a.go")
	derived := byName(out, "Derived")
	require.NotNil(t, derived)
	assert.Contains(t, derived.Inherits, "Base")
}

func TestExtract_Imports(t *testing.T) {
	src := `package a

import "fmt"

func Foo() {
	fmt.Println("hi")
}
`
	out := golang.New().Extract(src, "a.go")
	imp := byName(out, "fmt")
	require.NotNil(t, imp)
	assert.Equal(t, entity.KindImport, imp.Kind)
	require.Len(t, imp.Imports, 1)
	assert.Equal(t, "fmt", imp.Imports[0].Module)
}

func TestExtract_EmptySourceYieldsNoEntities(t *testing.T) {
	out := golang.New().Extract("", "a.go")
	assert.Empty(t, out)
}

func TestExtract_BrokenSourceFallsBackToShadow(t *testing.T) {
	src := "package a\nfunc Foo( {{{ not valid\n"
	out := golang.New().Extract(src, "a.go")
	require.NotEmpty(t, out)
	foo := byName(out, "Foo")
	require.NotNil(t, foo)
	assert.Greater(t, foo.ShadowConfidence, 0.0)
}

func TestExtract_ReformatOnlyChangeKeepsSignatureHashStable(t *testing.T) {
	a := `package a

func Foo() {
	Bar()
}


func Bar() {}
`
	b := `package a

func Foo() {
	Bar()
}

func Bar() {}
`
	outA := golang.New().Extract(a, "a.go")
	outB := golang.New().Extract(b, "a.go")

	fooA, fooB := byName(outA, "Foo"), byName(outB, "Foo")
	require.NotNil(t, fooA)
	require.NotNil(t, fooB)
	assert.Equal(t, fooA.SignatureHash, fooB.SignatureHash)
}
