package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/store"
)

func node(file string, kind entity.Kind, name string) *store.Node {
	return &store.Node{
		ID:       store.NodeID(file, kind, name),
		Kind:     kind,
		Name:     name,
		FilePath: file,
	}
}

func TestGraph_AddRemoveNode_KeepsIndexesConsistent(t *testing.T) {
	g := store.New()
	n := node("a.go", entity.KindFunction, "Foo")
	g.AddNode(n)

	require.Len(t, g.GetNodesByFile("a.go"), 1)
	assert.Equal(t, n, g.GetNode(n.ID))
	assert.Equal(t, n, g.GetNodeByName("Foo"))

	removed := g.RemoveNode(n.ID)
	require.NotNil(t, removed)
	assert.Empty(t, g.GetNodesByFile("a.go"))
	assert.Nil(t, g.GetNode(n.ID))
}

func TestGraph_RemoveNode_CascadesEdges(t *testing.T) {
	g := store.New()
	a := node("a.go", entity.KindFunction, "A")
	b := node("b.go", entity.KindFunction, "B")
	g.AddNode(a)
	g.AddNode(b)
	g.AddEdge(&store.Edge{SourceID: a.ID, TargetID: b.ID, Type: store.EdgeCalls})

	require.Len(t, g.GetOutgoingEdges(a.ID), 1)
	require.Len(t, g.GetIncomingEdges(b.ID), 1)

	g.RemoveNode(a.ID)
	assert.Empty(t, g.GetIncomingEdges(b.ID))
}

func TestGraph_Query_IntersectsIndexes(t *testing.T) {
	g := store.New()
	a := node("a.go", entity.KindFunction, "Foo")
	b := node("b.go", entity.KindFunction, "Foo")
	g.AddNode(a)
	g.AddNode(b)

	file := "a.go"
	got := g.Query(&file, nil, nil)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
}

func TestGraph_Traverse_ExcludesStartAndDedupes(t *testing.T) {
	g := store.New()
	a := node("a.go", entity.KindFunction, "A")
	b := node("b.go", entity.KindFunction, "B")
	c := node("c.go", entity.KindFunction, "C")
	for _, n := range []*store.Node{a, b, c} {
		g.AddNode(n)
	}
	g.AddEdge(&store.Edge{SourceID: a.ID, TargetID: b.ID, Type: store.EdgeCalls})
	g.AddEdge(&store.Edge{SourceID: b.ID, TargetID: c.ID, Type: store.EdgeCalls})

	hops := g.Traverse(a.ID, nil, store.DirOut, 5)
	require.Len(t, hops, 2)
	assert.Equal(t, b.ID, hops[0].Node.ID)
	assert.Equal(t, 1, hops[0].Depth)
	assert.Equal(t, c.ID, hops[1].Node.ID)
	assert.Equal(t, 2, hops[1].Depth)
}

func TestGraph_FindDeadCode_ExcludesEntryPointsAndOverrides(t *testing.T) {
	g := store.New()
	base := node("base.go", entity.KindClass, "Base")
	child := node("child.go", entity.KindClass, "Child")
	baseMethod := node("base.go", entity.KindFunction, "Base.run")
	childMethod := node("child.go", entity.KindFunction, "Child.run")
	dead := node("child.go", entity.KindFunction, "Child.unused")
	main := node("main.go", entity.KindFunction, "main")

	for _, n := range []*store.Node{base, child, baseMethod, childMethod, dead, main} {
		g.AddNode(n)
	}
	g.AddEdge(&store.Edge{SourceID: child.ID, TargetID: base.ID, Type: store.EdgeInherits})
	// Base.run has a caller, so Child.run is a polymorphic override and is alive.
	caller := node("caller.go", entity.KindFunction, "caller")
	g.AddNode(caller)
	g.AddEdge(&store.Edge{SourceID: caller.ID, TargetID: baseMethod.ID, Type: store.EdgeCalls})

	names := map[string]bool{}
	for _, n := range g.FindDeadCode(false, false) {
		names[n.Name] = true
	}
	assert.True(t, names["Child.unused"])
	assert.False(t, names["Child.run"], "polymorphic override must not be dead")
	assert.False(t, names["main"], "main is a well-known entry point")
}

func TestGraph_FindCycles_FiltersSupersetsAndNormalizes(t *testing.T) {
	g := store.New()
	a := node("a.go", entity.KindFunction, "A")
	b := node("b.go", entity.KindFunction, "B")
	c := node("c.go", entity.KindFunction, "C")
	for _, n := range []*store.Node{a, b, c} {
		g.AddNode(n)
	}
	// A <-> B, plus B -> C -> A (a strict superset cycle that must be dropped).
	g.AddEdge(&store.Edge{SourceID: a.ID, TargetID: b.ID, Type: store.EdgeCalls})
	g.AddEdge(&store.Edge{SourceID: b.ID, TargetID: a.ID, Type: store.EdgeCalls})
	g.AddEdge(&store.Edge{SourceID: b.ID, TargetID: c.ID, Type: store.EdgeCalls})
	g.AddEdge(&store.Edge{SourceID: c.ID, TargetID: a.ID, Type: store.EdgeCalls})

	cycles := g.FindCycles(false)
	require.Len(t, cycles, 1)
	assert.Equal(t, cycles[0][0], cycles[0][len(cycles[0])-1])
	assert.ElementsMatch(t, []string{"a.go", "b.go"}, cycles[0][:len(cycles[0])-1])
}

func TestGraph_ComputeHash_DeterministicOverLogicallyEqualGraphs(t *testing.T) {
	build := func() *store.Graph {
		g := store.New()
		g.AddNode(node("a.go", entity.KindFunction, "A"))
		g.AddNode(node("b.go", entity.KindFunction, "B"))
		g.AddEdge(&store.Edge{
			SourceID: store.NodeID("a.go", entity.KindFunction, "A"),
			TargetID: store.NodeID("b.go", entity.KindFunction, "B"),
			Type:     store.EdgeCalls,
		})
		return g
	}
	assert.Equal(t, build().ComputeHash(), build().ComputeHash())
}

func TestGraph_Snapshot_IsIndependentDeepCopy(t *testing.T) {
	g := store.New()
	g.AddNode(node("a.go", entity.KindFunction, "A"))
	snap := g.Snapshot()

	snap.RemoveNode(store.NodeID("a.go", entity.KindFunction, "A"))
	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, 0, snap.NodeCount())
}
