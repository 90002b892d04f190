// Package live keeps one adaptive engagement session per enabled guild: a
// coordinator reconciles session jobs against per-guild feature toggles, and
// each session polls the guild's activity signal, retunes its own cadence and
// occasionally has the bot speak.
package live

import (
	"context"
	"time"
)

// ToggleLiveSession is the per-guild feature flag the coordinator and
// sessions consult.
const ToggleLiveSession = "live_session"

// SessionJobPrefix prefixes scheduler job ids for per-guild sessions.
const SessionJobPrefix = "ActivitySession_"

// SyncJobName is the coordinator's own job id in the scheduler.
const SyncJobName = "live-sync"

// SessionJobID returns the deterministic scheduler id for a guild's session.
func SessionJobID(guildID string) string {
	return SessionJobPrefix + guildID
}

// ToggleSource reads per-guild feature flags. Read failures are treated as
// disabled by all callers.
type ToggleSource interface {
	IsToggleEnabled(guildID, name string) (bool, error)
}

// GuildLister enumerates every guild the bot knows about.
type GuildLister interface {
	KnownGuildIDs() ([]string, error)
}

// Scheduler is the generic job registry sessions are registered against.
type Scheduler interface {
	StartDynamic(name string, next func() time.Duration, runner func(ctx context.Context) error) error
	Stop(name string) error
}

// ActivitySource is the per-guild activity signal a session polls.
type ActivitySource interface {
	Level(guildID string) float64
	EngagementMultiplier(guildID string) float64
	ContextMessages(guildID string, n int) []string
	HasRecentMention(guildID string, n int) bool
	LastChannelID(guildID string) string
}

// ActionExecutor performs one engagement action for a guild. An empty reply
// with a nil error means nothing was generated.
type ActionExecutor interface {
	Execute(ctx context.Context, action Action, guildID string) (string, error)
}
