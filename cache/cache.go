// Package cache implements a hierarchical HOT/WARM/COLD file cache: open
// files and their direct dependencies stay hot, everything else cools
// down to warm or cold, and a bounded LRU eviction keeps the hot set
// small. It cooperates with bridge.Bridge, which promotes a file to HOT
// after every processed change. GetUpdatePriority scores a file from its
// open/last-access state; propagate.Propagator does not call it and
// computes its own priorities.
package cache

import (
	"strings"
	"sync"

	"github.com/minio/highwayhash"
)

// fingerprintKey is a fixed, arbitrary 32-byte HighwayHash key. The cache
// only ever compares fingerprints against earlier fingerprints of its own
// making, never against another process's, so a shared well-known key is
// fine — there is no adversarial input here, just change detection.
var fingerprintKey = make([]byte, 32)

// Zone is a file's hierarchy tier.
type Zone int

const (
	Cold Zone = iota
	Warm
	Hot
)

type entry struct {
	zone        Zone
	isOpen      bool
	lastAccess  int64
	fingerprint uint64
	hasFP       bool
}

// HierarchicalCache tracks per-file zone membership and access recency.
// It takes no dependency on wall-clock time: it keeps its own logical
// clock, advanced by one on every OpenFile, AccessFile and Promote call.
type HierarchicalCache struct {
	mu          sync.Mutex
	maxHotFiles int
	clock       int64
	files       map[string]*entry
	// edgeTargets supplies, for a given file, every file a cross-file
	// outgoing edge from that file points to; open_file uses it to
	// promote COLD dependencies to WARM. Supplied by the bridge so the
	// cache never imports store directly.
	edgeTargets func(file string) []string
}

// Config holds the single tunable: the HOT-zone capacity.
type Config struct {
	MaxHotFiles int
}

// DefaultConfig is the standard hot-zone budget.
func DefaultConfig() Config { return Config{MaxHotFiles: 20} }

// New builds an empty cache. edgeTargets may be nil if the caller never
// intends to call OpenFile with promotion semantics.
func New(cfg Config, edgeTargets func(file string) []string) *HierarchicalCache {
	if cfg.MaxHotFiles <= 0 {
		cfg.MaxHotFiles = DefaultConfig().MaxHotFiles
	}
	return &HierarchicalCache{
		maxHotFiles: cfg.MaxHotFiles,
		files:       make(map[string]*entry),
		edgeTargets: edgeTargets,
	}
}

func (c *HierarchicalCache) tick() int64 {
	c.clock++
	return c.clock
}

func (c *HierarchicalCache) get(file string) *entry {
	e, ok := c.files[file]
	if !ok {
		e = &entry{zone: Cold}
		c.files[file] = e
	}
	return e
}

// OpenFile marks a file open, promotes it to HOT, promotes every COLD
// file it cross-file-references to WARM, then runs HOT eviction.
func (c *HierarchicalCache) OpenFile(file string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.get(file)
	e.isOpen = true
	e.zone = Hot
	e.lastAccess = c.tick()

	if c.edgeTargets != nil {
		for _, dep := range c.edgeTargets(file) {
			d := c.get(dep)
			if d.zone == Cold {
				d.zone = Warm
			}
		}
	}
	c.evictHot()
}

// CloseFile marks a file closed and demotes it to WARM — never straight
// to COLD.
func (c *HierarchicalCache) CloseFile(file string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.get(file)
	e.isOpen = false
	if e.zone == Hot {
		e.zone = Warm
	}
}

// AccessFile updates last-access without changing zone membership.
func (c *HierarchicalCache) AccessFile(file string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.get(file).lastAccess = c.tick()
}

// Promote moves a file straight to HOT (used by the bridge after every
// processed change) without the dependency-promotion or open-marking
// behavior of OpenFile.
func (c *HierarchicalCache) Promote(file string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.get(file)
	e.zone = Hot
	e.lastAccess = c.tick()
	c.evictHot()
}

// evictHot repeatedly demotes the oldest non-open HOT file to WARM while
// the HOT set exceeds maxHotFiles. Caller must hold mu.
func (c *HierarchicalCache) evictHot() {
	for {
		hotCount := 0
		var oldestFile string
		var oldestAccess int64 = -1
		for f, e := range c.files {
			if e.zone != Hot {
				continue
			}
			hotCount++
			if e.isOpen {
				continue
			}
			if oldestAccess == -1 || e.lastAccess < oldestAccess {
				oldestAccess = e.lastAccess
				oldestFile = f
			}
		}
		if hotCount <= c.maxHotFiles || oldestFile == "" {
			return
		}
		c.files[oldestFile].zone = Warm
	}
}

// ContentChanged fingerprints content with HighwayHash and reports whether
// it differs from the fingerprint recorded for file on a previous call,
// updating the stored fingerprint either way. The bridge uses this as a
// cheap pre-check before running the full semantic gate: identical bytes
// can never produce a semantic change, so a fingerprint hit skips parsing
// both file bodies entirely.
func (c *HierarchicalCache) ContentChanged(file string, content []byte) bool {
	sum := highwayhash.Sum64(content, fingerprintKey)

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.get(file)
	changed := !e.hasFP || e.fingerprint != sum
	e.fingerprint = sum
	e.hasFP = true
	return changed
}

// Zone reports a file's current tier (COLD for files never seen).
func (c *HierarchicalCache) Zone(file string) Zone {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.files[file]; ok {
		return e.zone
	}
	return Cold
}

// GetUpdatePriority returns the propagation priority base for a file:
// 100, minus 50 if open, minus 30 if accessed within the last 60 logical
// ticks, plus 20 if the path contains "test".
func (c *HierarchicalCache) GetUpdatePriority(file string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	score := 100
	if e, ok := c.files[file]; ok {
		if e.isOpen {
			score -= 50
		}
		if c.clock-e.lastAccess < 60 {
			score -= 30
		}
	}
	if strings.Contains(file, "test") {
		score += 20
	}
	return score
}

// Remove drops all cache state for a file, used by Bridge.RemoveFile to
// scrub every index/cache referencing the removed file.
func (c *HierarchicalCache) Remove(file string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, file)
}
