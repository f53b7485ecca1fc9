package bridge

import (
	"github.com/Krrish109/codegraph/persist"
)

// SaveDocument renders the bridge's full state — graph plus every
// bookkeeping index — as the persistence document.
func (b *Bridge) SaveDocument() ([]byte, error) {
	b.mu.Lock()
	b.Graph.RLock()
	defer b.Graph.RUnlock()
	defer b.mu.Unlock()

	nodes, edges := persist.FromGraph(b.Graph)

	depIdx := make(map[string][]string, len(b.dependencyIndex))
	for name, files := range b.dependencyIndex {
		for f := range files {
			depIdx[name] = append(depIdx[name], f)
		}
	}

	doc := persist.Document{
		Nodes:                nodes,
		Edges:                edges,
		FileContentsKeys:     append([]string(nil), b.fcOrder...),
		DependencyIndex:      depIdx,
		ModuleFileIndex:      cloneStringMap(b.moduleFileIndex),
		ModuleFileCollisions: cloneSliceMap(b.moduleFileCollisions),
		ResolutionStats: persist.ResolutionStats{
			TotalAttempted:  b.stats.TotalAttempted,
			Resolved:        b.stats.Resolved,
			Ambiguous:       b.stats.Ambiguous,
			ToTestFile:      b.stats.ToTestFile,
			ExternalSkipped: b.stats.ExternalSkipped,
		},
	}
	if b.Oplog != nil {
		doc.GraphVersion = b.Oplog.CurrentVersion()
	}
	return persist.Save(doc)
}

// LoadDocument replaces the bridge's graph and indexes with a previously
// saved document. It refuses a document newer than this build understands.
func (b *Bridge) LoadDocument(data []byte) error {
	doc, err := persist.Load(data)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.Graph.Lock()
	defer b.Graph.Unlock()
	defer b.mu.Unlock()

	b.Graph = persist.ToGraph(doc)
	b.dependencyIndex = make(map[string]map[string]struct{}, len(doc.DependencyIndex))
	for name, files := range doc.DependencyIndex {
		set := make(map[string]struct{}, len(files))
		for _, f := range files {
			set[f] = struct{}{}
		}
		b.dependencyIndex[name] = set
	}
	b.moduleFileIndex = doc.ModuleFileIndex
	if b.moduleFileIndex == nil {
		b.moduleFileIndex = make(map[string]string)
	}
	b.moduleFileCollisions = doc.ModuleFileCollisions
	if b.moduleFileCollisions == nil {
		b.moduleFileCollisions = make(map[string][]string)
	}
	b.stats = ResolutionStats{
		TotalAttempted:  doc.ResolutionStats.TotalAttempted,
		Resolved:        doc.ResolutionStats.Resolved,
		Ambiguous:       doc.ResolutionStats.Ambiguous,
		ToTestFile:      doc.ResolutionStats.ToTestFile,
		ExternalSkipped: doc.ResolutionStats.ExternalSkipped,
	}
	b.trackedFiles = make(map[string]struct{}, len(doc.TrackedFiles)+len(doc.FileContentsKeys))
	for _, f := range doc.TrackedFiles {
		b.trackedFiles[f] = struct{}{}
	}
	for _, f := range doc.FileContentsKeys {
		b.trackedFiles[f] = struct{}{}
	}
	return nil
}
