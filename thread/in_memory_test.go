package thread

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcomm/core"
)

// Interface compliance (compile-time assertion)
var _ core.ThreadTracker = (*InMemoryTracker)(nil)

func TestCreateOrUpdate_NewThread(t *testing.T) {
	tr := NewInMemoryTracker()
	th, err := tr.CreateOrUpdate(core.ThreadRequest{From: "a", To: []string{"b"}, Subject: "sync"})
	require.NoError(t, err)
	assert.NotEmpty(t, th.ID)
	assert.Equal(t, []string{"a", "b"}, th.Participants)
	assert.Equal(t, "a", th.LastAuthor)
	assert.False(t, th.Updated.Before(th.Created))
}

func TestCreateOrUpdate_MatchPrecedence(t *testing.T) {
	tr := NewInMemoryTracker()
	byID, err := tr.CreateOrUpdate(core.ThreadRequest{From: "a", To: []string{"b"}, Location: "notes/one.md"})
	require.NoError(t, err)
	other, err := tr.CreateOrUpdate(core.ThreadRequest{From: "a", To: []string{"c"}, Location: "notes/two.md"})
	require.NoError(t, err)

	// both hints supplied: the resolving thread id wins over the location
	got, err := tr.CreateOrUpdate(core.ThreadRequest{From: "b", To: []string{"a"}, ThreadID: byID.ID, Location: "notes/two.md"})
	require.NoError(t, err)
	assert.Equal(t, byID.ID, got.ID)
	assert.NotEqual(t, other.ID, got.ID)

	// location-only hint resolves the second thread
	got2, err := tr.CreateOrUpdate(core.ThreadRequest{From: "c", To: []string{"a"}, Location: "notes/two.md"})
	require.NoError(t, err)
	assert.Equal(t, other.ID, got2.ID)
}

func TestCreateOrUpdate_ParticipantsAppendOnly(t *testing.T) {
	tr := NewInMemoryTracker()
	th, _ := tr.CreateOrUpdate(core.ThreadRequest{From: "a", To: []string{"b"}})
	th2, _ := tr.CreateOrUpdate(core.ThreadRequest{From: "c", To: []string{"a", "b"}, ThreadID: th.ID})
	if diff := cmp.Diff([]string{"a", "b", "c"}, th2.Participants, cmpopts.SortSlices(func(x, y string) bool { return x < y })); diff != "" {
		t.Fatalf("participants mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "c", th2.LastAuthor)
}

func TestTrackExternal_MergesByIDThenLocation(t *testing.T) {
	tr := NewInMemoryTracker()
	created, _ := tr.CreateOrUpdate(core.ThreadRequest{From: "a", To: []string{"b"}, Location: "shared/plan.md"})

	// detected metadata carrying the same id merges regardless of location
	th, err := tr.TrackExternal("elsewhere/plan.md", core.ThreadRequest{From: "b", To: []string{"a"}, ThreadID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.ID, th.ID)

	// detection without tracked id registers a fresh thread under its location
	ext, err := tr.TrackExternal("shared/other.md", core.ThreadRequest{From: "b", To: []string{"c"}, Subject: "handoff"})
	require.NoError(t, err)
	found, ok := tr.ByLocation("shared/other.md")
	require.True(t, ok)
	assert.Equal(t, ext.ID, found.ID)
}

func TestQueueUpdate_Coalescing(t *testing.T) {
	tr := NewInMemoryTracker()
	th, _ := tr.CreateOrUpdate(core.ThreadRequest{From: "a", To: []string{"b"}, Location: "notes/sync.md"})

	require.NoError(t, tr.QueueUpdate(th.ID, "a", "agent1"))
	first := tr.PendingFor("b")
	require.Len(t, first, 1)

	// a second unconsumed update replaces the first in place, latest wins
	_, err := tr.CreateOrUpdate(core.ThreadRequest{From: "c", To: []string{"b"}, ThreadID: th.ID})
	require.NoError(t, err)
	require.NoError(t, tr.QueueUpdate(th.ID, "c", "agent3"))

	second := tr.PendingFor("b")
	require.Len(t, second, 1)
	assert.Equal(t, "agent3", second[0].From)
	assert.False(t, second[0].Timestamp.Before(first[0].Timestamp))
}

func TestQueueUpdate_SkipsAuthorAndUnknownThread(t *testing.T) {
	tr := NewInMemoryTracker()
	th, _ := tr.CreateOrUpdate(core.ThreadRequest{From: "a", To: []string{"b", "c"}})
	require.NoError(t, tr.QueueUpdate(th.ID, "a", "agent1"))
	assert.Empty(t, tr.PendingFor("a"))
	assert.Len(t, tr.PendingFor("b"), 1)
	assert.Len(t, tr.PendingFor("c"), 1)
	assert.Len(t, tr.AllPending(), 2)

	assert.ErrorIs(t, tr.QueueUpdate("no-such-thread", "a", "agent1"), ErrUnknownThread)
}

func TestMarkRead_LocationVariants(t *testing.T) {
	tr := NewInMemoryTracker()
	th, _ := tr.CreateOrUpdate(core.ThreadRequest{From: "a", To: []string{"b"}, Location: "/work/notes/sync.md"})
	queue := func() {
		_ = tr.QueueUpdate(th.ID, "a", "agent1")
	}

	// exact match
	queue()
	tr.MarkRead("b", "/work/notes/sync.md")
	assert.Empty(t, tr.PendingFor("b"))

	// relative form of an absolute stored location
	queue()
	tr.MarkRead("b", "notes/sync.md")
	assert.Empty(t, tr.PendingFor("b"))

	// absolute form of a relative stored location
	rel, _ := tr.CreateOrUpdate(core.ThreadRequest{From: "a", To: []string{"b"}, Location: "notes/rel.md"})
	_ = tr.QueueUpdate(rel.ID, "a", "agent1")
	tr.MarkRead("b", "/work/notes/rel.md")
	assert.Empty(t, tr.PendingFor("b"))

	// non-matching ref leaves the update pending
	queue()
	tr.MarkRead("b", "notes/unrelated.md")
	assert.Len(t, tr.PendingFor("b"), 1)
}

func TestMarkRead_ThreadIDForInMemoryThreads(t *testing.T) {
	tr := NewInMemoryTracker()
	th, _ := tr.CreateOrUpdate(core.ThreadRequest{From: "a", To: []string{"b"}})
	require.Empty(t, th.Location)
	_ = tr.QueueUpdate(th.ID, "a", "agent1")
	tr.MarkRead("b", th.ID)
	assert.Empty(t, tr.PendingFor("b"))
}

func TestLookups(t *testing.T) {
	tr := NewInMemoryTracker()
	th, _ := tr.CreateOrUpdate(core.ThreadRequest{From: "a", To: []string{"b"}, Location: "notes/x.md"})

	byID, ok := tr.ByID(th.ID)
	require.True(t, ok)
	byLoc, ok2 := tr.ByLocation("notes/x.md")
	require.True(t, ok2)
	if diff := cmp.Diff(byID, byLoc); diff != "" {
		t.Fatalf("lookup mismatch (-byID +byLocation):\n%s", diff)
	}

	// returned copies are isolated from tracker state
	byID.Participants[0] = "mutated"
	fresh, _ := tr.ByID(th.ID)
	assert.Equal(t, "a", fresh.Participants[0])

	_, ok = tr.ByID("missing")
	assert.False(t, ok)
	_, ok = tr.ByLocation("missing")
	assert.False(t, ok)
}

func TestLateLocationAdoption(t *testing.T) {
	tr := NewInMemoryTracker()
	th, _ := tr.CreateOrUpdate(core.ThreadRequest{From: "a", To: []string{"b"}})
	merged, err := tr.CreateOrUpdate(core.ThreadRequest{From: "b", To: []string{"a"}, ThreadID: th.ID, Location: "notes/found.md"})
	require.NoError(t, err)
	assert.Equal(t, "notes/found.md", merged.Location)
	found, ok := tr.ByLocation("notes/found.md")
	require.True(t, ok)
	assert.Equal(t, th.ID, found.ID)
}
