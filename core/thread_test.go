package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/agentcomm/core"
	"github.com/hupe1980/agentcomm/internal/testutil"
)

func TestThreadClone_Isolation(t *testing.T) {
	th := testutil.NewThreadBuilder("t-1").
		Location("notes/sync.md").
		Subject("sync").
		Participants("id-a", "id-b").
		LastAuthor("id-a").
		Build()

	clone := th.Clone()
	clone.Participants[0] = "mutated"
	clone.Participants = append(clone.Participants, "id-c")

	assert.Equal(t, []string{"id-a", "id-b"}, th.Participants)
	assert.Equal(t, th.ID, clone.ID)
	assert.Equal(t, th.Location, clone.Location)
}

func TestThreadHasParticipant(t *testing.T) {
	th := testutil.NewThreadBuilder("t-2").Participants("id-a", "id-b").Build()
	assert.True(t, th.HasParticipant("id-a"))
	assert.False(t, th.HasParticipant("id-z"))
}

func TestShortIDShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := core.NewShortID()
		assert.Len(t, id, 16)
		assert.False(t, seen[id], "short id collision")
		seen[id] = true
	}
	assert.NotEqual(t, core.NewID(), core.NewID())
}
