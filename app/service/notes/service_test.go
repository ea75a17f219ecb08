package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	svc, err := New(nil)
	require.NoError(t, err)

	return svc
}

func TestAddAndShow(t *testing.T) {
	svc := setupService(t)

	reply, handled := svc.Handle("user-1", "add note   buy milk  ")
	require.True(t, handled)
	assert.Equal(t, `📝 Note added: "buy milk"`, reply)

	reply, handled = svc.Handle("user-1", "show notes")
	require.True(t, handled)
	assert.Equal(t, "📒 Your notes:\n1. ❌ buy milk", reply)
}

func TestShowIsIdempotent(t *testing.T) {
	svc := setupService(t)

	svc.Handle("user-1", "add note one")
	svc.Handle("user-1", "add note two")

	first, _ := svc.Handle("user-1", "show notes")
	second, _ := svc.Handle("user-1", "show notes")

	assert.Equal(t, first, second)
}

func TestStrikeMarksDone(t *testing.T) {
	svc := setupService(t)

	svc.Handle("user-1", "add note one")
	svc.Handle("user-1", "add note two")

	reply, handled := svc.Handle("user-1", "strike note 2")
	require.True(t, handled)
	assert.Equal(t, "✔️ Marked note 2 as done.", reply)

	listing, _ := svc.Handle("user-1", "show notes")
	assert.Equal(t, "📒 Your notes:\n1. ❌ one\n2. ✔️ two", listing)
}

func TestStrikeInvalidIndexLeavesStateUnchanged(t *testing.T) {
	svc := setupService(t)
	svc.Handle("user-1", "add note one")

	for _, raw := range []string{"strike note 0", "strike note 99", "strike note abc"} {
		t.Run(raw, func(t *testing.T) {
			reply, handled := svc.Handle("user-1", raw)
			require.True(t, handled)
			assert.Equal(t, notFoundReply, reply)
		})
	}

	notes := svc.List("user-1")
	require.Len(t, notes, 1)
	assert.False(t, notes[0].Done)
}

func TestRemoveRenumbersRemainingNotes(t *testing.T) {
	svc := setupService(t)

	svc.Handle("user-1", "add note one")
	svc.Handle("user-1", "add note two")
	svc.Handle("user-1", "add note three")

	reply, handled := svc.Handle("user-1", "remove note 2")
	require.True(t, handled)
	assert.Equal(t, `🗑️ Removed note: "two"`, reply)

	listing, _ := svc.Handle("user-1", "show notes")
	assert.Equal(t, "📒 Your notes:\n1. ❌ one\n2. ❌ three", listing)
}

func TestRemoveInvalidIndex(t *testing.T) {
	svc := setupService(t)

	reply, handled := svc.Handle("user-1", "remove note 1")
	require.True(t, handled)
	assert.Equal(t, notFoundReply, reply)
}

func TestShowEmpty(t *testing.T) {
	svc := setupService(t)

	reply, handled := svc.Handle("user-1", "show notes")
	require.True(t, handled)
	assert.Equal(t, noNotesReply, reply)
}

func TestUnrecognizedSubCommandIsNotHandled(t *testing.T) {
	svc := setupService(t)

	_, handled := svc.Handle("user-1", "I should note that down someday")
	assert.False(t, handled)
}

func TestUsersAreIsolated(t *testing.T) {
	svc := setupService(t)

	svc.Handle("user-1", "add note mine")

	assert.Len(t, svc.List("user-1"), 1)
	assert.Empty(t, svc.List("user-2"))
}
