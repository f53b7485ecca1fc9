package bridge

import (
	"time"

	"github.com/Krrish109/codegraph/analyzer"
	"github.com/Krrish109/codegraph/cache"
	"github.com/Krrish109/codegraph/extract"
	"github.com/Krrish109/codegraph/oplog"
	"github.com/Krrish109/codegraph/propagate"
)

// NewWithDefaults builds a Bridge with the bounded propagator, hierarchical
// cache, and versioned op log all wired in using real wall-clock time —
// the composition a long-running daemon wants, as opposed to the bare
// New used by tests that inject deterministic clocks for each collaborator
// individually.
func NewWithDefaults(registry *extract.Registry) *Bridge {
	b := New(registry)
	b.Oplog = oplog.New(oplog.DefaultMaxLogSize, func() int64 { return time.Now().UnixNano() })

	prop := propagate.New(propagate.DefaultConfig(), b.neighborsOf, func() int64 { return time.Now().UnixMilli() })
	b.AttachPropagator(func(file string, update func(path string) error) PropagateResult {
		res := prop.Propagate(file, update)
		return PropagateResult{
			SyncProcessed: res.SyncProcessed,
			AsyncQueued:   res.AsyncQueued,
			Deferred:      res.Deferred,
			ElapsedMS:     res.ElapsedMS,
		}
	})

	hc := cache.New(cache.DefaultConfig(), b.crossFileEdgeTargets)
	b.Cache = hc

	b.Dataflow = analyzer.NewDataflowEnricher()
	return b
}

// neighborsOf answers propagate.NeighborsFunc: every file with an
// incoming edge into one of file's nodes.
func (b *Bridge) neighborsOf(file string) []string {
	b.Graph.RLock()
	defer b.Graph.RUnlock()

	seen := map[string]struct{}{file: {}}
	var out []string
	for _, n := range b.Graph.GetNodesByFile(file) {
		for _, e := range b.Graph.GetIncomingEdges(n.ID) {
			src := b.Graph.GetNode(e.SourceID)
			if src == nil {
				continue
			}
			if _, ok := seen[src.FilePath]; !ok {
				seen[src.FilePath] = struct{}{}
				out = append(out, src.FilePath)
			}
		}
	}
	return out
}

// crossFileEdgeTargets answers cache's edgeTargets callback: every file a
// node in file points to via an outgoing edge, for WARM promotion on open.
func (b *Bridge) crossFileEdgeTargets(file string) []string {
	b.Graph.RLock()
	defer b.Graph.RUnlock()

	seen := map[string]struct{}{file: {}}
	var out []string
	for _, n := range b.Graph.GetNodesByFile(file) {
		for _, e := range b.Graph.GetOutgoingEdges(n.ID) {
			tgt := b.Graph.GetNode(e.TargetID)
			if tgt == nil {
				continue
			}
			if _, ok := seen[tgt.FilePath]; !ok {
				seen[tgt.FilePath] = struct{}{}
				out = append(out, tgt.FilePath)
			}
		}
	}
	return out
}
