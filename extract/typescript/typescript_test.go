package typescript_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/extract/typescript"
)

func byName(entities []*entity.Entity, name string) *entity.Entity {
	for _, e := range entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func TestExtract_ClassWithMethodIsScoped(t *testing.T) {
	src := `export class Widget {
  spin() {
    this.stop();
  }
  stop() {}
}
`
	out := typescript.New().Extract(src, "a.ts")
	require.NotNil(t, byName(out, "Widget"))
	require.NotNil(t, byName(out, "Widget.spin"))
	require.NotNil(t, byName(out, "Widget.stop"))
}

func TestExtract_ClassExtendsYieldsInherits(t *testing.T) {
	src := `export class Derived extends Base {
  run() {}
}
`
	out := typescript.New().Extract(src, "a.ts")
	derived := byName(out, "Derived")
	require.NotNil(t, derived)
	assert.Contains(t, derived.Inherits, "Base")
}

func TestExtract_BracedImport(t *testing.T) {
	src := `import { Foo, Bar as Baz } from "./helpers";

export function run() {}
`
	out := typescript.New().Extract(src, "a.ts")
	foo := byName(out, "Foo")
	baz := byName(out, "Baz")
	require.NotNil(t, foo)
	require.NotNil(t, baz)
	assert.Equal(t, "./helpers", foo.Imports[0].Module)
	assert.Equal(t, "./helpers", baz.Imports[0].Module)
}

func TestExtract_StringAndCommentContentIgnoredByDeclarationScan(t *testing.T) {
	src := `// class Fake {}
export function run() {
  const s = "class NotReal {}";
}
`
	out := typescript.New().Extract(src, "a.ts")
	assert.Nil(t, byName(out, "Fake"))
	assert.Nil(t, byName(out, "NotReal"))
	assert.NotNil(t, byName(out, "run"))
}

func TestExtract_EmptySourceYieldsNoEntities(t *testing.T) {
	out := typescript.New().Extract("", "a.ts")
	assert.Empty(t, out)
}
