package oplog

import "sync"

const (
	// SessionTTLSeconds is how long an AI session stays valid before
	// expiring.
	SessionTTLSeconds = 300
	// MaxActiveSessions caps concurrently open sessions; the oldest is
	// evicted to make room for a new one.
	MaxActiveSessions = 10
)

// Outcome classifies CompleteSession's result.
type Outcome string

const (
	OutcomeClean           Outcome = "clean"
	OutcomeCleanWithDrift  Outcome = "clean_with_drift"
	OutcomeConflicts       Outcome = "conflicts"
)

// Snapshotter is whatever the session manager snapshots at session start;
// bridge.Bridge (and, transitively, store.Graph) satisfies this without
// oplog importing either package.
type Snapshotter interface {
	Snapshot() interface{}
}

type session struct {
	id          string
	baseVersion int
	snapshot    interface{}
	startedAt   int64
}

// SessionManager wraps a Log with bounded, expiring AI-editing sessions:
// StartSession captures a deep-copy snapshot and the log's current
// version; CompleteSession replays a proposed op batch against
// everything recorded since, returning a clean/clean_with_drift/conflicts
// verdict.
type SessionManager struct {
	mu       sync.Mutex
	log      *Log
	now      NowFunc
	nextID   int
	sessions map[string]*session
	order    []string // insertion order, oldest first, for eviction
}

// NewSessionManager wraps log with session bookkeeping driven by now.
func NewSessionManager(log *Log, now NowFunc) *SessionManager {
	return &SessionManager{log: log, now: now, sessions: make(map[string]*session)}
}

// StartSession evicts expired sessions, evicts the oldest if at capacity,
// then opens a new session against source's current snapshot.
func (m *SessionManager) StartSession(source Snapshotter) (id string, baseVersion int, snapshot interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictExpiredLocked()
	for len(m.order) >= MaxActiveSessions {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.sessions, oldest)
	}

	m.nextID++
	id = sessionIDFromCounter(m.nextID)
	s := &session{
		id:          id,
		baseVersion: m.log.CurrentVersion(),
		snapshot:    source.Snapshot(),
		startedAt:   m.now(),
	}
	m.sessions[id] = s
	m.order = append(m.order, id)
	return s.id, s.baseVersion, s.snapshot
}

func (m *SessionManager) evictExpiredLocked() {
	now := m.now()
	var kept []string
	for _, id := range m.order {
		s := m.sessions[id]
		if now-s.startedAt >= SessionTTLSeconds {
			delete(m.sessions, id)
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
}

// CompleteSession looks up the session, detects conflicts between
// proposedOps and everything recorded since the session's base version,
// and returns a verdict. A missing/expired session is treated as
// OutcomeConflicts with a single synthetic conflict so callers never
// silently apply work against a gone snapshot.
func (m *SessionManager) CompleteSession(id string, proposedOps []Op) (Outcome, []Conflict) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
		for i, oid := range m.order {
			if oid == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	m.mu.Unlock()

	if !ok {
		return OutcomeConflicts, []Conflict{{
			Kind: ConflictConcurrent, Severity: SeverityError,
			Message: "session expired or unknown",
		}}
	}

	conflicts := m.log.DetectConflicts(s.baseVersion, proposedOps)
	if len(conflicts) == 0 {
		if m.log.CurrentVersion() != s.baseVersion {
			return OutcomeCleanWithDrift, nil
		}
		return OutcomeClean, nil
	}
	return OutcomeConflicts, conflicts
}

func sessionIDFromCounter(n int) string {
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	if n == 0 {
		return "session-0"
	}
	buf := make([]byte, 0, 8)
	for n > 0 {
		buf = append([]byte{digits[n%36]}, buf...)
		n /= 36
	}
	return "session-" + string(buf)
}

// ResolveRenameConflicts filters conflicts to just the rename ones, a
// convenience for callers that want to surface/ack renames separately
// from other conflict kinds.
func ResolveRenameConflicts(conflicts []Conflict) []Conflict {
	var out []Conflict
	for _, c := range conflicts {
		if c.Kind == ConflictRename {
			out = append(out, c)
		}
	}
	return out
}

// ResolveDeletionConflicts filters conflicts to just the deletion ones.
func ResolveDeletionConflicts(conflicts []Conflict) []Conflict {
	var out []Conflict
	for _, c := range conflicts {
		if c.Kind == ConflictDeletion {
			out = append(out, c)
		}
	}
	return out
}
