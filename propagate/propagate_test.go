package propagate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krrish109/codegraph/propagate"
)

func clock(start int64) propagate.NowMS {
	t := start
	return func() int64 {
		t++
		return t
	}
}

// graph is a, b, c, d each depending on the next: a -> b -> c -> d, so a
// change starting at d ripples to c (depth 1), b (depth 2), a (depth 3).
func chainNeighbors(file string) []string {
	switch file {
	case "d.go":
		return []string{"c.go"}
	case "c.go":
		return []string{"b.go"}
	case "b.go":
		return []string{"a.go"}
	default:
		return nil
	}
}

func TestPropagate_BFSRespectsMaxDepth(t *testing.T) {
	cfg := propagate.DefaultConfig()
	cfg.MaxDepth = 2
	cfg.MaxSyncUpdates = 10
	p := propagate.New(cfg, chainNeighbors, clock(0))

	res := p.Propagate("d.go", nil)
	all := append(append([]string{}, res.SyncProcessed...), append(res.AsyncQueued, res.Deferred...)...)
	require.Len(t, all, 2)
	assert.Contains(t, all, "c.go")
	assert.Contains(t, all, "b.go")
	assert.NotContains(t, all, "a.go")
}

func TestPropagate_SyncPhaseRespectsMaxSyncUpdates(t *testing.T) {
	cfg := propagate.DefaultConfig()
	cfg.MaxDepth = 3
	cfg.MaxSyncUpdates = 1
	cfg.MaxAsyncUpdates = 10
	p := propagate.New(cfg, chainNeighbors, clock(0))

	var updated []string
	res := p.Propagate("d.go", func(path string) error {
		updated = append(updated, path)
		return nil
	})

	assert.Len(t, res.SyncProcessed, 1)
	assert.Len(t, updated, 1)
	assert.Len(t, res.AsyncQueued, 2)
}

func TestPropagate_OpenFileGetsPriorityBoost(t *testing.T) {
	cfg := propagate.DefaultConfig()
	cfg.MaxDepth = 3
	cfg.MaxSyncUpdates = 1
	p := propagate.New(cfg, chainNeighbors, clock(0))
	p.SetOpenFiles(map[string]struct{}{"a.go": {}})

	res := p.Propagate("d.go", nil)
	require.Len(t, res.SyncProcessed, 1)
	assert.Equal(t, "a.go", res.SyncProcessed[0])
}

func TestPropagate_DeferredBeyondAsyncBudget(t *testing.T) {
	cfg := propagate.DefaultConfig()
	cfg.MaxDepth = 3
	cfg.MaxSyncUpdates = 0
	cfg.MaxAsyncUpdates = 1
	p := propagate.New(cfg, chainNeighbors, clock(0))

	res := p.Propagate("d.go", nil)
	assert.Empty(t, res.SyncProcessed)
	assert.Len(t, res.AsyncQueued, 1)
	assert.Len(t, res.Deferred, 2)
}

func TestProcessAsyncQueue_DrainsInPriorityOrder(t *testing.T) {
	cfg := propagate.DefaultConfig()
	cfg.MaxDepth = 3
	cfg.MaxSyncUpdates = 0
	cfg.MaxAsyncUpdates = 10
	p := propagate.New(cfg, chainNeighbors, clock(0))
	p.Propagate("d.go", nil)

	out := p.ProcessAsyncQueue(10, nil)
	require.Len(t, out, 3)
	// c.go is depth 1 (lower priority score than b.go at depth 2), so it
	// drains first.
	assert.Equal(t, "c.go", out[0])
	assert.Equal(t, "b.go", out[1])
}

func TestPropagate_NoNeighborsYieldsEmptyResult(t *testing.T) {
	cfg := propagate.DefaultConfig()
	p := propagate.New(cfg, func(string) []string { return nil }, clock(0))

	res := p.Propagate("isolated.go", nil)
	assert.Empty(t, res.SyncProcessed)
	assert.Empty(t, res.AsyncQueued)
	assert.Empty(t, res.Deferred)
}
