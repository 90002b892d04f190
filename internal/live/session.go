package live

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"math/rand"
	"sync"
	"time"
)

// CycleTimeout bounds one session execution cycle, including the LLM call.
const CycleTimeout = 30 * time.Second

// SessionJob owns one guild's adaptive polling state. The scheduler invokes
// RunCycle strictly serially on the job's own timer, so cycles for a guild
// never overlap; the mutex only protects reads from other goroutines
// (status command, Interval).
type SessionJob struct {
	guildID   string
	createdAt time.Time

	mu                      sync.Mutex
	lastExecutedAt          time.Time
	executionCount          int64
	lastActivityLevel       float64
	currentFrequencySeconds int
	rng                     *rand.Rand

	toggles ToggleSource
	signals ActivitySource
	exec    ActionExecutor
}

// SessionStats is a point-in-time snapshot for status reporting.
type SessionStats struct {
	GuildID                 string
	CreatedAt               time.Time
	LastExecutedAt          time.Time
	ExecutionCount          int64
	LastActivityLevel       float64
	CurrentFrequencySeconds int
}

// NewSessionJob creates a session for a guild with the fixed starting
// frequency.
func NewSessionJob(guildID string, toggles ToggleSource, signals ActivitySource, exec ActionExecutor) *SessionJob {
	h := fnv.New64a()
	h.Write([]byte(guildID))
	return &SessionJob{
		guildID:                 guildID,
		createdAt:               time.Now(),
		currentFrequencySeconds: StartingFrequencySeconds,
		rng:                     rand.New(rand.NewSource(time.Now().UnixNano() ^ int64(h.Sum64()))),
		toggles:                 toggles,
		signals:                 signals,
		exec:                    exec,
	}
}

// Interval returns the current reschedule interval; the scheduler re-reads
// it after every cycle.
func (j *SessionJob) Interval() time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	return time.Duration(j.currentFrequencySeconds) * time.Second
}

// Stats returns a snapshot of the session's counters.
func (j *SessionJob) Stats() SessionStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	return SessionStats{
		GuildID:                 j.guildID,
		CreatedAt:               j.createdAt,
		LastExecutedAt:          j.lastExecutedAt,
		ExecutionCount:          j.executionCount,
		LastActivityLevel:       j.lastActivityLevel,
		CurrentFrequencySeconds: j.currentFrequencySeconds,
	}
}

// RunCycle runs one execution cycle. It never returns an error: a guild's
// failure must not stop its own future cycles or affect any other guild, so
// everything is logged and contained here.
func (j *SessionJob) RunCycle(ctx context.Context) error {
	j.mu.Lock()
	j.executionCount++
	j.lastExecutedAt = time.Now()
	j.mu.Unlock()

	cctx, cancel := context.WithTimeout(ctx, CycleTimeout)
	defer cancel()

	if err := j.cycle(cctx); err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			log.Printf("[WARN] [LIVE] cycle timed out guild=%s", j.guildID)
		case errors.Is(err, context.Canceled):
			// shutdown in flight, nothing to report
		default:
			log.Printf("[ERR] [LIVE] cycle failed guild=%s: %v", j.guildID, err)
		}
	}
	return nil
}

func (j *SessionJob) cycle(ctx context.Context) error {
	// Re-verify the toggle: the coordinator reconciles only once a minute,
	// so a very recent disable would otherwise keep us talking until it
	// catches up.
	enabled, err := j.toggles.IsToggleEnabled(j.guildID, ToggleLiveSession)
	if err != nil {
		return fmt.Errorf("toggle check: %w", err)
	}
	if !enabled {
		return nil
	}

	level := j.signals.Level(j.guildID)
	j.mu.Lock()
	j.lastActivityLevel = level
	j.mu.Unlock()

	recent := j.signals.ContextMessages(j.guildID, contextWindow)
	if len(recent) == 0 {
		// Nothing to react to: back off to the idle cadence and stay quiet.
		j.setFrequency(FrequencyIdle)
		return nil
	}

	j.setFrequency(FrequencyForLevel(level))

	if level <= 0 {
		return nil
	}

	mentioned := j.signals.HasRecentMention(j.guildID, MentionWindow)
	chance := EngagementChance(level, j.signals.EngagementMultiplier(j.guildID), mentioned)

	j.mu.Lock()
	roll := j.rng.Float64()
	j.mu.Unlock()
	if roll >= chance {
		return nil
	}

	j.mu.Lock()
	action := PickAction(TierForLevel(level), j.rng)
	j.mu.Unlock()

	reply, err := j.exec.Execute(ctx, action, j.guildID)
	if err != nil {
		return err
	}
	if reply == "" {
		return nil
	}
	log.Printf("[INFO] [LIVE] action=%s guild=%s level=%.2f chance=%.2f", action, j.guildID, level, chance)
	return nil
}

func (j *SessionJob) setFrequency(seconds int) {
	j.mu.Lock()
	j.currentFrequencySeconds = seconds
	j.mu.Unlock()
}
