package bridge

import (
	"github.com/Krrish109/codegraph/sempath"
	"github.com/Krrish109/codegraph/store"
)

// RemoveFile purges every node and edge belonging to path, plus every
// cache/index entry referencing it, and returns the emitted remove_node
// operations.
func (b *Bridge) RemoveFile(path string) []Operation {
	b.mu.Lock()
	b.Graph.Lock()
	defer b.Graph.Unlock()
	defer b.mu.Unlock()

	var ops []Operation
	for _, n := range b.Graph.GetNodesByFile(path) {
		removed := b.Graph.RemoveNode(n.ID)
		if removed == nil {
			continue
		}
		ops = append(ops, Operation{
			OpType: "remove_node", NodeID: n.ID, NodeType: string(removed.Kind),
			Properties: map[string]interface{}{"name": removed.Name},
		})
	}

	delete(b.fileContents, path)
	for i, p := range b.fcOrder {
		if p == path {
			b.fcOrder = append(b.fcOrder[:i], b.fcOrder[i+1:]...)
			break
		}
	}
	delete(b.trackedFiles, path)
	delete(b.semanticPaths, path)
	for name, files := range b.dependencyIndex {
		delete(files, path)
		if len(files) == 0 {
			delete(b.dependencyIndex, name)
		}
	}
	for suffix, f := range b.moduleFileIndex {
		if f == path {
			delete(b.moduleFileIndex, suffix)
			if rest := b.moduleFileCollisions[suffix]; len(rest) > 0 {
				b.moduleFileIndex[suffix] = rest[0]
				b.moduleFileCollisions[suffix] = rest[1:]
			}
		}
	}
	for suffix, files := range b.moduleFileCollisions {
		b.moduleFileCollisions[suffix] = removeString(files, path)
	}

	if b.Cache != nil {
		b.Cache.Remove(path)
	}
	return ops
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, e := range list {
		if e != v {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot deep-copies the bridge's graph and bookkeeping state, satisfying
// oplog.Snapshotter for AI-session conflict detection.
func (b *Bridge) Snapshot() interface{} {
	b.mu.Lock()
	b.Graph.RLock()
	defer b.Graph.RUnlock()
	defer b.mu.Unlock()

	cp := &Bridge{
		Graph:                b.Graph.Snapshot(),
		Registry:             b.Registry,
		fileContents:         cloneStringMap(b.fileContents),
		fcOrder:              append([]string(nil), b.fcOrder...),
		trackedFiles:         cloneSet(b.trackedFiles),
		dependencyIndex:      cloneSetMap(b.dependencyIndex),
		moduleFileIndex:      cloneStringMap(b.moduleFileIndex),
		moduleFileCollisions: cloneSliceMap(b.moduleFileCollisions),
		semanticPaths:        make(map[string]*sempath.Index, len(b.semanticPaths)),
		stats:                b.stats,
	}
	for k, v := range b.semanticPaths {
		cp.semanticPaths[k] = v
	}
	return cp
}

func cloneStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSet(m map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

func cloneSetMap(m map[string]map[string]struct{}) map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{}, len(m))
	for k, v := range m {
		out[k] = cloneSet(v)
	}
	return out
}

func cloneSliceMap(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// CheckNewCycles returns every cycle found in the file-level import graph
// that involves path, after the last applied change.
func (b *Bridge) CheckNewCycles(path string) [][]string {
	b.Graph.RLock()
	defer b.Graph.RUnlock()

	cycles := b.Graph.FindCycles(false)
	var out [][]string
	for _, c := range cycles {
		for _, f := range c {
			if f == path {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// CheckNewDeadCode returns the dead-code candidates newly reachable from
// path's current definitions.
func (b *Bridge) CheckNewDeadCode(path string) []*store.Node {
	b.Graph.RLock()
	defer b.Graph.RUnlock()

	var out []*store.Node
	inFile := make(map[string]struct{})
	for _, n := range b.Graph.GetNodesByFile(path) {
		inFile[n.ID] = struct{}{}
	}
	for _, n := range b.Graph.FindDeadCode(false, true) {
		if _, ok := inFile[n.ID]; ok {
			out = append(out, n)
		}
	}
	return out
}
