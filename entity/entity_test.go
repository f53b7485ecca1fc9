package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krrish109/codegraph/entity"
)

func TestClone_DeepCopiesSlicesAndMaps(t *testing.T) {
	e := &entity.Entity{
		Name:          "Foo",
		Calls:         []string{"Bar"},
		TypeContext:   map[string]string{"x": "Widget"},
		SignatureHash: "abc",
	}
	c := e.Clone()
	c.Calls[0] = "Mutated"
	c.TypeContext["x"] = "Other"

	assert.Equal(t, "Bar", e.Calls[0])
	assert.Equal(t, "Widget", e.TypeContext["x"])
}

func TestClone_Nil(t *testing.T) {
	var e *entity.Entity
	assert.Nil(t, e.Clone())
}

func TestEqual_ComparesNameAndSignatureHash(t *testing.T) {
	a := &entity.Entity{Name: "Foo", SignatureHash: "abc"}
	b := &entity.Entity{Name: "Foo", SignatureHash: "abc"}
	c := &entity.Entity{Name: "Foo", SignatureHash: "def"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestEqual_NilHandling(t *testing.T) {
	var a, b *entity.Entity
	require.True(t, a.Equal(b))

	c := &entity.Entity{Name: "Foo"}
	assert.False(t, a.Equal(c))
	assert.False(t, c.Equal(a))
}
