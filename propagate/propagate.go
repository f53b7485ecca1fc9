// Package propagate implements the bounded, prioritized change-ripple:
// a BFS over reverse dependencies bounded by
// depth and counted against sync/async/deferred budgets. It is consulted
// by bridge.Bridge at the end of process_change and itself
// consults the graph store (via the Neighbors callback the bridge wires
// in); pending work is ranked from the propagator's own open-file set and
// edit times, and the hierarchical cache is not consulted.
package propagate

import (
	"container/heap"
	"strings"
	"sync"
)

// Config holds the propagator's tunables, defaulted by DefaultConfig.
type Config struct {
	MaxSyncUpdates  int
	MaxAsyncUpdates int
	MaxDepth        int
	SyncTimeoutMS   int64

	OpenBoost       int
	RecentBoost     int
	TestPenalty     int
	DepthPenalty    int
	GeneratedPenalty int
}

// DefaultConfig holds the default tuning constants.
func DefaultConfig() Config {
	return Config{
		MaxSyncUpdates:   5,
		MaxAsyncUpdates:  50,
		MaxDepth:         3,
		SyncTimeoutMS:    50,
		OpenBoost:        100,
		RecentBoost:      50,
		TestPenalty:      30,
		DepthPenalty:     20,
		GeneratedPenalty: 50,
	}
}

// NeighborsFunc returns the set of files with an edge incoming to the
// given file (i.e. files that depend on it), used to seed the BFS
// frontier one hop at a time. The bridge supplies this over its graph
// store's incoming-edge index.
type NeighborsFunc func(file string) []string

// UpdateFunc re-parses one file; the bridge wires this to its own
// re_parse_file. It may perform file I/O and is therefore the one
// suspension point inside an otherwise synchronous pipeline.
type UpdateFunc func(path string) error

// NowMS returns the current time in milliseconds for deadline checks;
// callers inject their own monotonic clock since the core may not call
// wall-clock time directly (kept swappable for deterministic tests).
type NowMS func() int64

// Propagator ripples a change outward from a file, bounded by depth and
// per-phase item counts, honoring the sync-phase wall-clock deadline.
type Propagator struct {
	mu   sync.Mutex
	cfg  Config
	now  NowMS
	Neighbors NeighborsFunc

	openFiles map[string]struct{}
	editTimes map[string]int64

	asyncQueue *priorityQueue
}

// New builds a Propagator. now must be non-nil; callers typically inject
// a monotonically increasing logical clock for deterministic tests.
func New(cfg Config, neighbors NeighborsFunc, now NowMS) *Propagator {
	return &Propagator{
		cfg:        cfg,
		now:        now,
		Neighbors:  neighbors,
		openFiles:  make(map[string]struct{}),
		editTimes:  make(map[string]int64),
		asyncQueue: newPriorityQueue(),
	}
}

// RecordEdit stamps file with the propagator's current logical time,
// feeding the recent_boost priority term.
func (p *Propagator) RecordEdit(file string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.editTimes[file] = p.now()
}

// SetOpenFiles replaces the open-file set wholesale.
func (p *Propagator) SetOpenFiles(files map[string]struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.openFiles = files
}

type pendingItem struct {
	file     string
	depth    int
	priority int
}

// Result reports what a single Propagate call did.
type Result struct {
	SyncProcessed []string
	AsyncQueued   []string
	Deferred      []string
	ElapsedMS     int64
}

// Propagate performs the node-level BFS over incoming edges (collapsed
// to unique files at their minimum discovery depth), computes a priority
// per file, then splits the sorted backlog into sync/async/deferred
// phases.
func (p *Propagator) Propagate(file string, update UpdateFunc) Result {
	p.mu.Lock()
	open := p.openFiles
	edits := p.editTimes
	cfg := p.cfg
	p.mu.Unlock()

	depths := p.bfsDepths(file, cfg.MaxDepth)
	delete(depths, file)

	now := p.now()
	items := make([]pendingItem, 0, len(depths))
	for f, d := range depths {
		items = append(items, pendingItem{file: f, depth: d, priority: priority(f, d, open, edits, now, cfg)})
	}
	// Stable, deterministic ascending sort by priority then path.
	sortItems(items)

	var res Result
	start := p.now()
	syncCount := 0
	idx := 0
	for ; idx < len(items); idx++ {
		if syncCount >= cfg.MaxSyncUpdates {
			break
		}
		if p.now()-start >= cfg.SyncTimeoutMS {
			break
		}
		it := items[idx]
		if update != nil {
			_ = update(it.file)
		}
		res.SyncProcessed = append(res.SyncProcessed, it.file)
		syncCount++
	}
	res.ElapsedMS = p.now() - start

	asyncEnd := idx + cfg.MaxAsyncUpdates
	if asyncEnd > len(items) {
		asyncEnd = len(items)
	}
	p.mu.Lock()
	for ; idx < asyncEnd; idx++ {
		heap.Push(p.asyncQueue, &pqItem{file: items[idx].file, priority: items[idx].priority})
		res.AsyncQueued = append(res.AsyncQueued, items[idx].file)
	}
	for ; idx < len(items); idx++ {
		res.Deferred = append(res.Deferred, items[idx].file)
	}
	p.mu.Unlock()

	return res
}

// ProcessAsyncQueue drains up to maxItems from the async priority heap, in
// priority order. The heap holds every item queued by earlier Propagate
// calls that has not yet been drained.
func (p *Propagator) ProcessAsyncQueue(maxItems int, update UpdateFunc) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for i := 0; i < maxItems && p.asyncQueue.Len() > 0; i++ {
		it := heap.Pop(p.asyncQueue).(*pqItem)
		if update != nil {
			_ = update(it.file)
		}
		out = append(out, it.file)
	}
	return out
}

func (p *Propagator) bfsDepths(start string, maxDepth int) map[string]int {
	depths := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 && maxDepth > 0 {
		var next []string
		for _, f := range queue {
			d := depths[f]
			if d >= maxDepth {
				continue
			}
			for _, nb := range p.Neighbors(f) {
				if _, seen := depths[nb]; seen {
					continue
				}
				depths[nb] = d + 1
				next = append(next, nb)
			}
		}
		queue = next
	}
	return depths
}

func priority(file string, depth int, open map[string]struct{}, edits map[string]int64, nowMS int64, cfg Config) int {
	score := depth * cfg.DepthPenalty
	if _, ok := open[file]; ok {
		score -= cfg.OpenBoost
	}
	if t, ok := edits[file]; ok && nowMS-t < 300_000 {
		score -= cfg.RecentBoost
	}
	if strings.Contains(file, "test") {
		score += cfg.TestPenalty
	}
	if strings.Contains(file, "generated") || strings.Contains(file, "build") {
		score += cfg.GeneratedPenalty
	}
	return score
}

func sortItems(items []pendingItem) {
	// insertion sort keeps this deterministic and avoids importing sort
	// for a handful of comparisons per change; backlog sizes are small
	// by construction (bounded by max_depth fan-out).
	for i := 1; i < len(items); i++ {
		j := i
		for j > 0 && less(items[j], items[j-1]) {
			items[j], items[j-1] = items[j-1], items[j]
			j--
		}
	}
}

func less(a, b pendingItem) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.file < b.file
}

type pqItem struct {
	file     string
	priority int
}

type priorityQueue struct {
	items []*pqItem
}

func newPriorityQueue() *priorityQueue { return &priorityQueue{} }

func (q *priorityQueue) Len() int { return len(q.items) }
func (q *priorityQueue) Less(i, j int) bool {
	if q.items[i].priority != q.items[j].priority {
		return q.items[i].priority < q.items[j].priority
	}
	return q.items[i].file < q.items[j].file
}
func (q *priorityQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }
func (q *priorityQueue) Push(x interface{}) {
	q.items = append(q.items, x.(*pqItem))
}
func (q *priorityQueue) Pop() interface{} {
	old := q.items
	n := len(old)
	it := old[n-1]
	q.items = old[:n-1]
	return it
}
