// Package activity tracks per-guild chat activity: a decaying scalar level,
// a short buffer of recent messages with mention flags, and a per-guild
// engagement multiplier. It is the signal source the live session jobs poll.
package activity

import (
	"math"
	"sync"
	"time"
)

const (
	// ScoreBump is added per observed message; DecayPerSecond is the
	// exponential decay rate applied to the score between observations.
	ScoreBump      = 0.2
	DecayPerSecond = 0.02
	ScoreCap       = 3.0

	maxBuffer = 40
)

// Tracker holds activity meters for all guilds. Safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	guilds map[string]*guildMeter
}

func NewTracker() *Tracker {
	return &Tracker{guilds: make(map[string]*guildMeter)}
}

// guild returns the meter for guildID, creating it if needed. Caller holds
// the write lock.
func (t *Tracker) guild(guildID string) *guildMeter {
	g := t.guilds[guildID]
	if g == nil {
		g = &guildMeter{multiplier: 1.0}
		t.guilds[guildID] = g
	}
	return g
}

// RecordMessage ingests one chat message into the guild's meter and buffer.
func (t *Tracker) RecordMessage(msg Message, guildID string) {
	now := msg.At
	if now.IsZero() {
		now = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	g := t.guild(guildID)
	g.decayTo(now)
	g.score += ScoreBump
	if g.score > ScoreCap {
		g.score = ScoreCap
	}
	g.lastMsgAt = now
	if msg.ChannelID != "" {
		g.lastChannel = msg.ChannelID
	}

	g.buffer = append(g.buffer, msg)
	if len(g.buffer) > maxBuffer {
		g.buffer = g.buffer[len(g.buffer)-maxBuffer:]
	}
}

// Level returns the guild's current activity level (>= 0), decayed to now.
func (t *Tracker) Level(guildID string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	g := t.guilds[guildID]
	if g == nil {
		return 0
	}
	g.decayTo(time.Now())
	return g.score
}

// EngagementMultiplier returns the guild's tuning multiplier (default 1.0).
func (t *Tracker) EngagementMultiplier(guildID string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	g := t.guilds[guildID]
	if g == nil {
		return 1.0
	}
	return g.multiplier
}

// SetEngagementMultiplier sets the guild's tuning multiplier. Values <= 0
// reset to 1.0.
func (t *Tracker) SetEngagementMultiplier(guildID string, m float64) {
	if m <= 0 {
		m = 1.0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.guild(guildID).multiplier = m
}

// ContextMessages returns up to n recent message contents, most-recent-last.
func (t *Tracker) ContextMessages(guildID string, n int) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	g := t.guilds[guildID]
	if g == nil || n <= 0 {
		return nil
	}
	buf := g.buffer
	if len(buf) > n {
		buf = buf[len(buf)-n:]
	}
	out := make([]string, 0, len(buf))
	for _, m := range buf {
		out = append(out, m.Content)
	}
	return out
}

// RecentMessages returns up to n recent buffer entries, most-recent-last.
func (t *Tracker) RecentMessages(guildID string, n int) []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	g := t.guilds[guildID]
	if g == nil || n <= 0 {
		return nil
	}
	buf := g.buffer
	if len(buf) > n {
		buf = buf[len(buf)-n:]
	}
	out := make([]Message, len(buf))
	copy(out, buf)
	return out
}

// HasRecentMention reports whether the bot was mentioned within the last n
// buffered messages.
func (t *Tracker) HasRecentMention(guildID string, n int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	g := t.guilds[guildID]
	if g == nil {
		return false
	}
	buf := g.buffer
	start := len(buf) - n
	if start < 0 {
		start = 0
	}
	for i := len(buf) - 1; i >= start; i-- {
		if buf[i].Mentioned {
			return true
		}
	}
	return false
}

// LastChannelID returns the channel the guild last chatted in, where
// proactive messages go.
func (t *Tracker) LastChannelID(guildID string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	g := t.guilds[guildID]
	if g == nil {
		return ""
	}
	return g.lastChannel
}

// decayTo applies exponential decay to the score for the time elapsed since
// the last decay. Caller holds the write lock.
func (g *guildMeter) decayTo(now time.Time) {
	if g.lastDecayAt.IsZero() {
		g.lastDecayAt = now
		return
	}
	elapsed := now.Sub(g.lastDecayAt).Seconds()
	if elapsed <= 0 {
		return
	}
	g.score *= math.Exp(-DecayPerSecond * elapsed)
	if g.score < 0.001 {
		g.score = 0
	}
	g.lastDecayAt = now
}
