// Package bridge implements the delta pipeline: the single
// entry point that turns a whole-file change event into graph mutations.
// It orchestrates the language-extraction registry, diffs the resulting
// entity sets, mutates the graph store, resolves edges in two passes,
// maintains the bridge's own lookup caches, appends to the versioned op
// log, and kicks off bounded propagation — all behind one write-gate
// (store.Graph's Lock/Unlock).
package bridge

import (
	"strings"
	"sync"

	"github.com/Krrish109/codegraph/analyzer"
	"github.com/Krrish109/codegraph/entity"
	"github.com/Krrish109/codegraph/extract"
	"github.com/Krrish109/codegraph/oplog"
	"github.com/Krrish109/codegraph/sempath"
	"github.com/Krrish109/codegraph/store"
)

// fileContentsCap bounds the FIFO file_contents cache .
const fileContentsCap = 500

// EdgeRef names one edge an operation created: the target node and the
// edge type linking it to the operation's subject node.
type EdgeRef struct {
	TargetID string
	EdgeType store.EdgeType
}

// Operation is the emitted record shape: one entry per mutating step
// of process_change.
type Operation struct {
	OpType     string // "add_node" | "remove_node" | "update_node"
	NodeID     string
	NodeType   string // kind, or "propagation" for informational entries
	Properties map[string]interface{}
	Edges      []EdgeRef
}

// ResolutionStats are the resolver's running counters.
type ResolutionStats struct {
	TotalAttempted int
	Resolved       int
	Ambiguous      int
	ToTestFile     int
	ExternalSkipped int
}

// PropagateResult mirrors propagate.Result's shape; the AttachPropagator
// callback returns this, and NewWithDefaults converts propagate.Result
// into it.
type PropagateResult struct {
	SyncProcessed []string
	AsyncQueued   []string
	Deferred      []string
	ElapsedMS     int64
}

// CacheHook is the subset of cache.HierarchicalCache the bridge drives.
type CacheHook interface {
	Promote(file string)
	Remove(file string)
	ContentChanged(file string, content []byte) bool
}

// Bridge owns the graph store plus every supporting cache and drives
// the full process_change pipeline.
type Bridge struct {
	mu sync.Mutex

	Graph    *store.Graph
	Registry *extract.Registry
	Oplog    *oplog.Log
	Cache    CacheHook

	// Dataflow is an optional post-resolution enrichment pass (DOMAIN
	// STACK, run over the primary language only, adding
	// dataflow-derived uses_type edges the static extractor's type_refs
	// pass cannot see (a type reached only through a local constructor
	// assignment rather than a parameter/return annotation).
	Dataflow *analyzer.DataflowEnricher

	// propagator is optional and typed loosely (func-shaped);
	// NewWithDefaults wires package propagate's Propagator in through
	// Bridge.AttachPropagator.
	propagator func(file string, update func(path string) error) PropagateResult
	// fileReader backs reParseFile and is set through AttachFileReader;
	// nil means propagation never actually re-reads files.
	fileReader func(path string) (string, error)

	fileContents map[string]string
	fcOrder      []string
	trackedFiles map[string]struct{}

	dependencyIndex map[string]map[string]struct{}

	moduleFileIndex      map[string]string
	moduleFileCollisions map[string][]string

	semanticPaths map[string]*sempath.Index

	stats ResolutionStats

	inPropagation bool
}

// New builds an empty Bridge around registry. The graph store, op log,
// and every optional collaborator are created lazily/attached by callers.
func New(registry *extract.Registry) *Bridge {
	return &Bridge{
		Graph:                store.New(),
		Registry:             registry,
		fileContents:         make(map[string]string),
		trackedFiles:         make(map[string]struct{}),
		dependencyIndex:      make(map[string]map[string]struct{}),
		moduleFileIndex:      make(map[string]string),
		moduleFileCollisions: make(map[string][]string),
		semanticPaths:        make(map[string]*sempath.Index),
	}
}

// AttachPropagator wires a bounded propagator's Propagate method in as a
// plain function; the bridge only ever needs the one method shaped
// (file, update) -> result.
func (b *Bridge) AttachPropagator(propagate func(file string, update func(path string) error) PropagateResult) {
	b.propagator = propagate
}

// AttachFileReader wires a content reader used by reParseFile when
// propagation asks the bridge to re-process a dependent file.
func (b *Bridge) AttachFileReader(reader func(path string) (string, error)) {
	b.fileReader = reader
}

// Stats returns a copy of the resolver's running counters.
func (b *Bridge) Stats() ResolutionStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

func (b *Bridge) cacheFileContent(path, content string) {
	if _, existed := b.fileContents[path]; !existed {
		b.fcOrder = append(b.fcOrder, path)
		if len(b.fcOrder) > fileContentsCap {
			evict := b.fcOrder[0]
			b.fcOrder = b.fcOrder[1:]
			delete(b.fileContents, evict)
		}
	}
	b.fileContents[path] = content
}

// ProcessChange runs the full ten-step delta pipeline over one
// whole-file change. oldContent/newContent are the complete before/after
// file bodies; a cache miss upstream should pass "" for oldContent
// ("correctness is unaffected because the semantic gate compares
// entity sets, not text").
func (b *Bridge) ProcessChange(path, oldContent, newContent string) []Operation {
	b.mu.Lock()

	if b.Cache != nil && !b.Cache.ContentChanged(path, []byte(newContent)) {
		b.cacheFileContent(path, newContent)
		b.mu.Unlock()
		return nil
	}

	b.Graph.Lock()

	// The gate compares strict (no shadow-fallback) extractions: a file
	// that no longer parses at all must present as zero entities, not as
	// the handful of scavenged stubs shadow.Extract would produce, or a
	// genuine parse regression would slip past the ghost-removal guard
	// below and get treated as an ordinary semantic edit.
	oldStrict := b.extractStrict(oldContent, path)
	newStrict := b.extractStrict(newContent, path)

	// Step 1: semantic gate.
	if isSemanticEqual(oldStrict, newStrict) {
		b.cacheFileContent(path, newContent)
		b.Graph.Unlock()
		b.mu.Unlock()
		return nil
	}
	if strings.TrimSpace(newContent) != "" && len(newStrict) == 0 && len(oldStrict) > 0 {
		// Non-semantic: a parse regression must never manufacture ghost
		// removals ( step 1, scenario 6).
		b.cacheFileContent(path, newContent)
		b.Graph.Unlock()
		b.mu.Unlock()
		return nil
	}

	// The delta itself still uses the shadow-enabled extraction, so a
	// broken file that only partially fails to parse keeps contributing
	// its best-effort, low-confidence entities to the graph.
	oldEntities := b.extract(oldContent, path)
	newEntities := b.extract(newContent, path)

	// Step 2: compute delta.
	d := computeDelta(oldEntities, newEntities)

	var ops []Operation

	// Step 3: removals first.
	for _, name := range sortedKeys(d.removed) {
		ops = append(ops, b.applyRemoval(path, name)...)
	}

	// Step 4: additions, imports first then by name.
	added := sortAdditions(d.added)
	for _, e := range added {
		ops = append(ops, b.applyAddition(path, e)...)
	}

	// Step 5: modifications (rename split, or in-place update).
	for _, name := range sortedKeys(d.modified) {
		e := d.modified[name]
		ops = append(ops, b.applyModification(path, e)...)
	}

	// Step 6: two-pass edge resolution — re-run for everything just
	// touched, since pass one may predate sibling additions.
	touched := append(append([]*entity.Entity{}, added...), modifiedValues(d.modified)...)
	for _, e := range touched {
		b.resolveAllEdges(path, e)
	}

	// Dataflow enrichment (DOMAIN STACK): primary-language only, runs
	// after resolution so it can see every node the two passes just
	// created.
	if b.Dataflow != nil && strings.HasSuffix(path, ".go") {
		b.applyDataflowHints(path, newContent, ops)
	}

	// Step 7: cache maintenance.
	b.cacheFileContent(path, newContent)
	b.trackedFiles[path] = struct{}{}
	for _, e := range newEntities {
		b.updateDependencyIndex(path, e)
	}
	b.updateModuleFileIndex(path)

	if len(newEntities) > 0 {
		var names []string
		for _, e := range newEntities {
			names = append(names, e.Name)
		}
		b.semanticPaths[path] = sempath.Build(names)
	}

	// Step 8: versioning.
	if b.Oplog != nil {
		for i := range ops {
			ops[i].Properties["__version"] = b.Oplog.RecordOperation(toLogOp(ops[i]), path)
		}
	}

	runPropagation := b.propagator != nil && !b.inPropagation
	if runPropagation {
		b.inPropagation = true
	}

	// Both locks must be released before propagation: update_fn may
	// re-enter ProcessChange for a dependent file, which needs to take
	// them itself.
	b.Graph.Unlock()
	b.mu.Unlock()

	// Step 9: propagation, guarded against reentrancy.
	if runPropagation {
		res := b.propagator(path, b.reParseFile)
		b.mu.Lock()
		b.inPropagation = false
		b.mu.Unlock()
		for _, f := range res.SyncProcessed {
			ops = append(ops, Operation{OpType: "propagation", NodeType: "propagation", Properties: map[string]interface{}{"file": f}})
		}
	}

	// Step 10: hierarchy update.
	if b.Cache != nil {
		b.Cache.Promote(path)
	}

	return ops
}

func toLogOp(op Operation) oplog.Op {
	renamedFrom, _ := op.Properties["renamed_from"].(string)
	calls, _ := op.Properties["calls"].([]string)
	uses, _ := op.Properties["uses"].([]string)
	return oplog.Op{Type: op.OpType, NodeID: op.NodeID, RenamedFrom: renamedFrom, Calls: calls, Uses: uses}
}

// reParseFile is the propagator's update_fn: it re-runs process_change
// for a dependent file using its last-cached content as "old" and
// whatever the injected file reader returns as "new". Without a reader
// attached, reParseFile is a no-op, matching propagation's "best effort"
// contract. Since ProcessChange re-acquires both locks itself, this
// method must run with neither held — the propagator callback invokes it
// outside of ProcessChange's own critical section (see the step 9
// comment in ProcessChange).
func (b *Bridge) reParseFile(path string) error {
	if b.fileReader == nil {
		return nil
	}
	content, err := b.fileReader(path)
	if err != nil {
		return err
	}
	old := b.fileContents[path]
	b.ProcessChange(path, old, content)
	return nil
}

func (b *Bridge) extract(content, path string) []*entity.Entity {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return b.Registry.Extract(content, path)
}

func (b *Bridge) extractStrict(content, path string) []*entity.Entity {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return b.Registry.ExtractStrict(content, path)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	insertionSortStrings(out)
	return out
}

func insertionSortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		j := i
		for j > 0 && s[j] < s[j-1] {
			s[j], s[j-1] = s[j-1], s[j]
			j--
		}
	}
}

func modifiedValues(m map[string]*entity.Entity) []*entity.Entity {
	out := make([]*entity.Entity, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, m[k])
	}
	return out
}

func sortAdditions(added map[string]*entity.Entity) []*entity.Entity {
	names := sortedKeys(added)
	// imports first, then by name — both are already satisfied by a
	// stable sort keyed on (is-import?, name).
	imports := make([]*entity.Entity, 0)
	rest := make([]*entity.Entity, 0)
	for _, n := range names {
		e := added[n]
		if e.Kind == entity.KindImport {
			imports = append(imports, e)
		} else {
			rest = append(rest, e)
		}
	}
	return append(imports, rest...)
}
