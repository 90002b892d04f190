package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestToggles_DefaultDisabled(t *testing.T) {
	s := newTestStorage(t)

	enabled, err := s.IsToggleEnabled("g1", "live_session")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestToggles_SetAndRead(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.SetToggle("g1", "live_session", true))
	enabled, err := s.IsToggleEnabled("g1", "live_session")
	require.NoError(t, err)
	assert.True(t, enabled)

	// Other guilds and other toggles are unaffected.
	enabled, err = s.IsToggleEnabled("g2", "live_session")
	require.NoError(t, err)
	assert.False(t, enabled)
	enabled, err = s.IsToggleEnabled("g1", "other_feature")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, s.SetToggle("g1", "live_session", false))
	enabled, err = s.IsToggleEnabled("g1", "live_session")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestKnownGuildIDs_SortedAndDeduped(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.EnsureGuildRecord("zulu"))
	require.NoError(t, s.EnsureGuildRecord("alpha"))
	require.NoError(t, s.EnsureGuildRecord("alpha")) // repeat join
	require.NoError(t, s.SetToggle("mike", "live_session", true))

	ids, err := s.KnownGuildIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mike", "zulu"}, ids)
}

func TestKnownGuildIDs_EmptyStore(t *testing.T) {
	s := newTestStorage(t)

	ids, err := s.KnownGuildIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCommandHistory_AppendAndFetch(t *testing.T) {
	s := newTestStorage(t)

	rec := CommandHistoryRecord{
		ChannelID: "c1",
		UserID:    "u1",
		Username:  "alice",
		Command:   "ping",
		Datetime:  time.Now(),
	}
	require.NoError(t, s.AppendCommandToHistory("g1", rec))

	history, err := s.FetchCommandHistory("g1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "ping", history[0].Command)
	assert.Equal(t, "alice", history[0].Username)
}

func TestCommandHistory_Bounded(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < 35; i++ {
		rec := CommandHistoryRecord{
			Command:  fmt.Sprintf("cmd-%d", i),
			Datetime: time.Now(),
		}
		require.NoError(t, s.AppendCommandToHistory("g1", rec))
	}

	history, err := s.FetchCommandHistory("g1")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(history), commandHistoryLimit)
	assert.Equal(t, "cmd-34", history[len(history)-1].Command, "most recent entry kept")
}

func TestStorage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datastore.json")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SetToggle("g1", "live_session", true))
	require.NoError(t, s.EnsureGuildRecord("g2"))
	require.NoError(t, s.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	enabled, err := reopened.IsToggleEnabled("g1", "live_session")
	require.NoError(t, err)
	assert.True(t, enabled)

	ids, err := reopened.KnownGuildIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"g1", "g2"}, ids)
}
