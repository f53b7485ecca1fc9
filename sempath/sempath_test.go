package sempath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Krrish109/codegraph/sempath"
)

func TestResolve_ExactEnclosingMethod(t *testing.T) {
	idx := sempath.Build([]string{"Widget.Spin", "Widget.Stop", "Widget"})
	resolved, ok := idx.Resolve("Widget.Spin", "Stop")
	assert.True(t, ok)
	assert.Equal(t, "Widget.Stop", resolved)
}

func TestResolve_PackageLevelFallback(t *testing.T) {
	idx := sempath.Build([]string{"Widget.Spin", "helper"})
	resolved, ok := idx.Resolve("Widget.Spin", "helper")
	assert.True(t, ok)
	assert.Equal(t, "helper", resolved)
}

func TestResolve_BareNameFallbackWhenUnambiguous(t *testing.T) {
	idx := sempath.Build([]string{"Other.Stop"})
	resolved, ok := idx.Resolve("Widget.Spin", "Stop")
	assert.True(t, ok)
	assert.Equal(t, "Other.Stop", resolved)
}

func TestResolve_AmbiguousBareNameFails(t *testing.T) {
	idx := sempath.Build([]string{"A.Stop", "B.Stop"})
	_, ok := idx.Resolve("Widget.Spin", "Stop")
	assert.False(t, ok)
}

func TestResolve_NotFoundReturnsFalse(t *testing.T) {
	idx := sempath.Build([]string{"Widget.Spin"})
	_, ok := idx.Resolve("Widget.Spin", "NotHere")
	assert.False(t, ok)
}

func TestResolve_NilIndexReturnsFalse(t *testing.T) {
	var idx *sempath.Index
	_, ok := idx.Resolve("scope", "name")
	assert.False(t, ok)
}
