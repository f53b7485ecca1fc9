// Package oplog implements the versioned operation log: a
// thread-safe, strictly serial append log that assigns a monotonically
// increasing version to every applied graph operation, retains a bounded
// tail, tracks a per-file version vector, and detects conflicts between a
// proposed batch of operations (taken from a snapshot at some base
// version) and everything recorded since. SessionManager wraps the log with
// snapshot-based AI-editing sessions.
package oplog

import (
	"sync"
)

// Severity classifies a detected conflict.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ConflictKind names the three conflict categories detected below.
type ConflictKind string

const (
	ConflictDeletion  ConflictKind = "deletion"
	ConflictRename    ConflictKind = "rename"
	ConflictConcurrent ConflictKind = "concurrent_edit"
)

// Conflict is one detected collision between a proposed operation and the
// recorded log.
type Conflict struct {
	Kind     ConflictKind
	Severity Severity
	NodeID   string
	Message  string
}

// Op is the minimal shape the op log needs from a graph operation: enough
// to detect deletion/rename/concurrent-edit conflicts against it. The
// bridge converts each of its operations to this shape (bridge.toLogOp)
// before recording it.
type Op struct {
	Type        string // "add_node" | "remove_node" | "update_node"
	NodeID      string
	RenamedFrom string
	Calls       []string
	Uses        []string
}

// Entry is one recorded log entry.
type Entry struct {
	Version   int
	Timestamp int64
	File      string
	Op        Op
}

// NowFunc supplies the log's logical clock; tests inject a deterministic
// counter since the core never calls wall-clock time directly.
type NowFunc func() int64

// Log is the thread-safe, bounded, strictly serial op log.
type Log struct {
	mu          sync.Mutex
	now         NowFunc
	maxLogSize  int
	version     int
	entries     []Entry
	fileVersion map[string]int
}

// DefaultMaxLogSize is the default retained-tail size.
const DefaultMaxLogSize = 1000

// New builds an empty log. maxLogSize <= 0 uses DefaultMaxLogSize.
func New(maxLogSize int, now NowFunc) *Log {
	if maxLogSize <= 0 {
		maxLogSize = DefaultMaxLogSize
	}
	return &Log{
		now:         now,
		maxLogSize:  maxLogSize,
		fileVersion: make(map[string]int),
	}
}

// RecordOperation appends op (optionally scoped to file), assigns it the
// next monotonic version, evicts the oldest entry if the retained tail
// would overflow, and returns the assigned version.
func (l *Log) RecordOperation(op Op, file string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.version++
	e := Entry{Version: l.version, Timestamp: l.now(), File: file, Op: op}
	l.entries = append(l.entries, e)
	if len(l.entries) > l.maxLogSize {
		l.entries = l.entries[len(l.entries)-l.maxLogSize:]
	}
	if file != "" {
		l.fileVersion[file] = l.version
	}
	return l.version
}

// GetOperationsSince returns every retained entry with Version > baseVersion.
func (l *Log) GetOperationsSince(baseVersion int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Entry
	for _, e := range l.entries {
		if e.Version > baseVersion {
			out = append(out, e)
		}
	}
	return out
}

// GetFileVersion returns the highest log version touching file, or 0.
func (l *Log) GetFileVersion(file string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fileVersion[file]
}

// CurrentVersion returns the log's current (highest-assigned) version.
func (l *Log) CurrentVersion() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

// DetectConflicts compares proposed (taken against a snapshot at
// baseVersion) with every operation recorded since baseVersion,
// classifying each collision:
//   - deletion (error): a recorded op removed a node a proposed op updates.
//   - rename (warning): a recorded op set RenamedFrom on the same node, or
//     a proposed op's Calls/Uses references a name that was renamed away.
//   - concurrent edit (warning): both recorded and proposed ops update the
//     same node.
func (l *Log) DetectConflicts(baseVersion int, proposed []Op) []Conflict {
	recorded := l.GetOperationsSince(baseVersion)

	removedNodes := map[string]struct{}{}
	renamedNodes := map[string]string{} // nodeID -> old name
	updatedNodes := map[string]struct{}{}
	for _, e := range recorded {
		switch e.Op.Type {
		case "remove_node":
			removedNodes[e.Op.NodeID] = struct{}{}
		case "update_node":
			updatedNodes[e.Op.NodeID] = struct{}{}
			if e.Op.RenamedFrom != "" {
				renamedNodes[e.Op.NodeID] = e.Op.RenamedFrom
			}
		}
	}

	var conflicts []Conflict
	for _, p := range proposed {
		if p.Type == "update_node" {
			if _, gone := removedNodes[p.NodeID]; gone {
				conflicts = append(conflicts, Conflict{
					Kind: ConflictDeletion, Severity: SeverityError, NodeID: p.NodeID,
					Message: "node was deleted by a concurrent operation",
				})
			}
			if old, renamed := renamedNodes[p.NodeID]; renamed {
				conflicts = append(conflicts, Conflict{
					Kind: ConflictRename, Severity: SeverityWarning, NodeID: p.NodeID,
					Message: "node was renamed from " + old + " by a concurrent operation",
				})
			}
			if _, edited := updatedNodes[p.NodeID]; edited {
				conflicts = append(conflicts, Conflict{
					Kind: ConflictConcurrent, Severity: SeverityWarning, NodeID: p.NodeID,
					Message: "node was concurrently updated",
				})
			}
		}
		for name, old := range renamedNodes {
			_ = name
			if containsName(p.Calls, old) || containsName(p.Uses, old) {
				conflicts = append(conflicts, Conflict{
					Kind: ConflictRename, Severity: SeverityWarning, NodeID: p.NodeID,
					Message: "references a name that was renamed away: " + old,
				})
			}
		}
	}
	return conflicts
}

func containsName(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
