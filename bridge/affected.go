package bridge

import "github.com/Krrish109/codegraph/store"

// GetAffectedFiles seeds from the dependency index and
// from incoming-edge sources into file, then BFS over {calls, imports,
// inherits} incoming edges up to maxDepth, accumulating file paths.
func (b *Bridge) GetAffectedFiles(file, entityName string, maxDepth int) []string {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	b.mu.Lock()
	b.Graph.RLock()
	defer b.Graph.RUnlock()
	defer b.mu.Unlock()

	seen := map[string]struct{}{file: {}}
	var out []string
	add := func(f string) {
		if _, ok := seen[f]; !ok {
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}

	frontier := make(map[string]struct{})
	for f := range b.dependencyIndex[entityName] {
		if f != file {
			add(f)
			frontier[f] = struct{}{}
		}
	}
	for _, n := range b.Graph.GetNodesByFile(file) {
		for _, e := range b.Graph.GetIncomingEdges(n.ID) {
			src := b.Graph.GetNode(e.SourceID)
			if src != nil && src.FilePath != file {
				add(src.FilePath)
				frontier[src.FilePath] = struct{}{}
			}
		}
	}

	relevantTypes := map[store.EdgeType]struct{}{
		store.EdgeCalls: {}, store.EdgeImports: {}, store.EdgeInherits: {},
	}
	for depth := 1; depth < maxDepth && len(frontier) > 0; depth++ {
		next := make(map[string]struct{})
		for f := range frontier {
			for _, n := range b.Graph.GetNodesByFile(f) {
				for _, e := range b.Graph.GetIncomingEdges(n.ID) {
					if _, ok := relevantTypes[e.Type]; !ok {
						continue
					}
					src := b.Graph.GetNode(e.SourceID)
					if src == nil || src.FilePath == file {
						continue
					}
					if _, already := seen[src.FilePath]; !already {
						add(src.FilePath)
						next[src.FilePath] = struct{}{}
					}
				}
			}
		}
		frontier = next
	}
	return out
}
