package oplog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krrish109/codegraph/oplog"
)

func clock(start int64) oplog.NowFunc {
	t := start
	return func() int64 {
		t++
		return t
	}
}

func TestLog_RecordOperation_AssignsMonotonicVersions(t *testing.T) {
	l := oplog.New(0, clock(0))
	v1 := l.RecordOperation(oplog.Op{Type: "add_node", NodeID: "a"}, "a.go")
	v2 := l.RecordOperation(oplog.Op{Type: "add_node", NodeID: "b"}, "b.go")
	assert.Equal(t, 1, v1)
	assert.Equal(t, 2, v2)
	assert.Equal(t, 2, l.CurrentVersion())
}

func TestLog_RecordOperation_TracksFileVersion(t *testing.T) {
	l := oplog.New(0, clock(0))
	l.RecordOperation(oplog.Op{Type: "add_node", NodeID: "a"}, "a.go")
	l.RecordOperation(oplog.Op{Type: "update_node", NodeID: "b"}, "b.go")
	l.RecordOperation(oplog.Op{Type: "update_node", NodeID: "a"}, "a.go")
	assert.Equal(t, 3, l.GetFileVersion("a.go"))
	assert.Equal(t, 2, l.GetFileVersion("b.go"))
	assert.Equal(t, 0, l.GetFileVersion("unknown.go"))
}

func TestLog_RecordOperation_EvictsOldestPastMaxSize(t *testing.T) {
	l := oplog.New(2, clock(0))
	l.RecordOperation(oplog.Op{Type: "add_node", NodeID: "a"}, "a.go")
	l.RecordOperation(oplog.Op{Type: "add_node", NodeID: "b"}, "b.go")
	l.RecordOperation(oplog.Op{Type: "add_node", NodeID: "c"}, "c.go")

	entries := l.GetOperationsSince(0)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Op.NodeID)
	assert.Equal(t, "c", entries[1].Op.NodeID)
}

func TestLog_DetectConflicts_Deletion(t *testing.T) {
	l := oplog.New(0, clock(0))
	base := l.CurrentVersion()
	l.RecordOperation(oplog.Op{Type: "remove_node", NodeID: "a"}, "a.go")

	conflicts := l.DetectConflicts(base, []oplog.Op{{Type: "update_node", NodeID: "a"}})
	require.Len(t, conflicts, 1)
	assert.Equal(t, oplog.ConflictDeletion, conflicts[0].Kind)
	assert.Equal(t, oplog.SeverityError, conflicts[0].Severity)
}

func TestLog_DetectConflicts_Rename(t *testing.T) {
	l := oplog.New(0, clock(0))
	base := l.CurrentVersion()
	l.RecordOperation(oplog.Op{Type: "update_node", NodeID: "a", RenamedFrom: "OldA"}, "a.go")

	conflicts := l.DetectConflicts(base, []oplog.Op{{Type: "update_node", NodeID: "a"}})
	require.NotEmpty(t, conflicts)
	found := false
	for _, c := range conflicts {
		if c.Kind == oplog.ConflictRename {
			found = true
		}
	}
	assert.True(t, found)
}

func TestLog_DetectConflicts_ConcurrentEdit(t *testing.T) {
	l := oplog.New(0, clock(0))
	base := l.CurrentVersion()
	l.RecordOperation(oplog.Op{Type: "update_node", NodeID: "a"}, "a.go")

	conflicts := l.DetectConflicts(base, []oplog.Op{{Type: "update_node", NodeID: "a"}})
	require.Len(t, conflicts, 1)
	assert.Equal(t, oplog.ConflictConcurrent, conflicts[0].Kind)
}

func TestLog_DetectConflicts_RenameReferencedByCall(t *testing.T) {
	l := oplog.New(0, clock(0))
	base := l.CurrentVersion()
	l.RecordOperation(oplog.Op{Type: "update_node", NodeID: "a", RenamedFrom: "OldA"}, "a.go")

	conflicts := l.DetectConflicts(base, []oplog.Op{{Type: "update_node", NodeID: "b", Calls: []string{"OldA"}}})
	require.NotEmpty(t, conflicts)
	assert.Equal(t, oplog.ConflictRename, conflicts[0].Kind)
}

func TestLog_DetectConflicts_NoConflictWhenUnrelated(t *testing.T) {
	l := oplog.New(0, clock(0))
	base := l.CurrentVersion()
	l.RecordOperation(oplog.Op{Type: "update_node", NodeID: "a"}, "a.go")

	conflicts := l.DetectConflicts(base, []oplog.Op{{Type: "update_node", NodeID: "b"}})
	assert.Empty(t, conflicts)
}

type fakeSnapshotter struct{ val int }

func (f fakeSnapshotter) Snapshot() interface{} { return f.val }

func TestSessionManager_StartAndCompleteClean(t *testing.T) {
	l := oplog.New(0, clock(0))
	m := oplog.NewSessionManager(l, clock(0))

	id, base, snap := m.StartSession(fakeSnapshotter{val: 7})
	require.NotEmpty(t, id)
	assert.Equal(t, 0, base)
	assert.Equal(t, 7, snap)

	outcome, conflicts := m.CompleteSession(id, []oplog.Op{{Type: "update_node", NodeID: "a"}})
	assert.Equal(t, oplog.OutcomeClean, outcome)
	assert.Empty(t, conflicts)
}

func TestSessionManager_CompleteSession_CleanWithDrift(t *testing.T) {
	l := oplog.New(0, clock(0))
	m := oplog.NewSessionManager(l, clock(0))

	id, _, _ := m.StartSession(fakeSnapshotter{val: 1})
	l.RecordOperation(oplog.Op{Type: "add_node", NodeID: "unrelated"}, "u.go")

	outcome, conflicts := m.CompleteSession(id, []oplog.Op{{Type: "update_node", NodeID: "a"}})
	assert.Equal(t, oplog.OutcomeCleanWithDrift, outcome)
	assert.Empty(t, conflicts)
}

func TestSessionManager_CompleteSession_Conflicts(t *testing.T) {
	l := oplog.New(0, clock(0))
	m := oplog.NewSessionManager(l, clock(0))

	id, _, _ := m.StartSession(fakeSnapshotter{val: 1})
	l.RecordOperation(oplog.Op{Type: "remove_node", NodeID: "a"}, "a.go")

	outcome, conflicts := m.CompleteSession(id, []oplog.Op{{Type: "update_node", NodeID: "a"}})
	assert.Equal(t, oplog.OutcomeConflicts, outcome)
	require.Len(t, conflicts, 1)
	assert.Equal(t, oplog.ConflictDeletion, conflicts[0].Kind)
}

func TestSessionManager_CompleteSession_UnknownSession(t *testing.T) {
	l := oplog.New(0, clock(0))
	m := oplog.NewSessionManager(l, clock(0))

	outcome, conflicts := m.CompleteSession("nonexistent", nil)
	assert.Equal(t, oplog.OutcomeConflicts, outcome)
	require.Len(t, conflicts, 1)
	assert.Equal(t, oplog.ConflictConcurrent, conflicts[0].Kind)
}

func TestSessionManager_StartSession_EvictsOldestAtCapacity(t *testing.T) {
	l := oplog.New(0, clock(0))
	m := oplog.NewSessionManager(l, clock(0))

	var first string
	for i := 0; i < oplog.MaxActiveSessions; i++ {
		id, _, _ := m.StartSession(fakeSnapshotter{val: i})
		if i == 0 {
			first = id
		}
	}
	m.StartSession(fakeSnapshotter{val: 999})

	outcome, conflicts := m.CompleteSession(first, nil)
	assert.Equal(t, oplog.OutcomeConflicts, outcome)
	require.Len(t, conflicts, 1)
}

func TestResolveRenameAndDeletionConflicts_Filter(t *testing.T) {
	conflicts := []oplog.Conflict{
		{Kind: oplog.ConflictRename, NodeID: "a"},
		{Kind: oplog.ConflictDeletion, NodeID: "b"},
		{Kind: oplog.ConflictConcurrent, NodeID: "c"},
	}
	renames := oplog.ResolveRenameConflicts(conflicts)
	deletions := oplog.ResolveDeletionConflicts(conflicts)
	require.Len(t, renames, 1)
	require.Len(t, deletions, 1)
	assert.Equal(t, "a", renames[0].NodeID)
	assert.Equal(t, "b", deletions[0].NodeID)
}
