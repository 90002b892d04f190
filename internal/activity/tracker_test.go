package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userMsg(content, channel string, at time.Time, mentioned bool) Message {
	return Message{
		Role:      "user",
		UserID:    "u1",
		Username:  "alice",
		Content:   content,
		ChannelID: channel,
		At:        at,
		Mentioned: mentioned,
	}
}

func TestTracker_UnknownGuildDefaults(t *testing.T) {
	tr := NewTracker()
	assert.Zero(t, tr.Level("nope"))
	assert.Equal(t, 1.0, tr.EngagementMultiplier("nope"))
	assert.Empty(t, tr.ContextMessages("nope", 10))
	assert.False(t, tr.HasRecentMention("nope", 5))
	assert.Empty(t, tr.LastChannelID("nope"))
}

func TestTracker_LevelRisesWithMessages(t *testing.T) {
	tr := NewTracker()
	now := time.Now()
	for i := 0; i < 5; i++ {
		tr.RecordMessage(userMsg("hi", "c1", now, false), "g1")
	}
	level := tr.Level("g1")
	assert.Greater(t, level, 0.5)
	assert.LessOrEqual(t, level, ScoreCap)
}

func TestTracker_ScoreCapped(t *testing.T) {
	tr := NewTracker()
	now := time.Now()
	for i := 0; i < 100; i++ {
		tr.RecordMessage(userMsg("spam", "c1", now, false), "g1")
	}
	assert.LessOrEqual(t, tr.Level("g1"), ScoreCap)
}

func TestTracker_LevelDecays(t *testing.T) {
	tr := NewTracker()
	// One message a minute ago: 0.2 * exp(-0.02*60) ≈ 0.06
	tr.RecordMessage(userMsg("old", "c1", time.Now().Add(-time.Minute), false), "g1")
	level := tr.Level("g1")
	assert.Greater(t, level, 0.0)
	assert.Less(t, level, 0.1)
}

func TestTracker_ContextMessagesMostRecentLast(t *testing.T) {
	tr := NewTracker()
	now := time.Now()
	for i := 0; i < 5; i++ {
		tr.RecordMessage(userMsg(fmt.Sprintf("msg-%d", i), "c1", now, false), "g1")
	}

	got := tr.ContextMessages("g1", 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"msg-2", "msg-3", "msg-4"}, got)
}

func TestTracker_BufferBounded(t *testing.T) {
	tr := NewTracker()
	now := time.Now()
	for i := 0; i < 200; i++ {
		tr.RecordMessage(userMsg(fmt.Sprintf("m%d", i), "c1", now, false), "g1")
	}
	got := tr.RecentMessages("g1", 1000)
	assert.LessOrEqual(t, len(got), 40)
	assert.Equal(t, "m199", got[len(got)-1].Content)
}

func TestTracker_HasRecentMentionWindow(t *testing.T) {
	tr := NewTracker()
	now := time.Now()
	tr.RecordMessage(userMsg("hey bot", "c1", now, true), "g1")
	for i := 0; i < 3; i++ {
		tr.RecordMessage(userMsg("chatter", "c1", now, false), "g1")
	}

	// Mention is 4 messages back: inside a window of 5, outside one of 3.
	assert.True(t, tr.HasRecentMention("g1", 5))
	assert.False(t, tr.HasRecentMention("g1", 3))
}

func TestTracker_Multiplier(t *testing.T) {
	tr := NewTracker()
	tr.SetEngagementMultiplier("g1", 2.5)
	assert.Equal(t, 2.5, tr.EngagementMultiplier("g1"))

	// Non-positive values reset to the default.
	tr.SetEngagementMultiplier("g1", -1)
	assert.Equal(t, 1.0, tr.EngagementMultiplier("g1"))
}

func TestTracker_LastChannelFollowsMessages(t *testing.T) {
	tr := NewTracker()
	now := time.Now()
	tr.RecordMessage(userMsg("a", "c1", now, false), "g1")
	tr.RecordMessage(userMsg("b", "c2", now, false), "g1")
	assert.Equal(t, "c2", tr.LastChannelID("g1"))
}

func TestTracker_GuildsIsolated(t *testing.T) {
	tr := NewTracker()
	now := time.Now()
	tr.RecordMessage(userMsg("a", "c1", now, true), "g1")

	assert.Zero(t, tr.Level("g2"))
	assert.False(t, tr.HasRecentMention("g2", 5))
}
