package live

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"amiquin/pkg/util"
)

const (
	// BatchSize bounds how many toggle checks run concurrently: checks may
	// hit the datastore, and a full fan-out across every guild at once
	// would swamp it.
	BatchSize = 10

	checkTimeout = 2 * time.Second
	batchTimeout = 15 * time.Second
)

// Coordinator keeps the set of running per-guild session jobs in sync with
// each guild's live toggle. The registry is in-memory only and is rebuilt
// from the toggle store on the first pass after a restart.
type Coordinator struct {
	toggles    ToggleSource
	guilds     GuildLister
	sched      Scheduler
	newSession func(guildID string) *SessionJob

	checkTimeout time.Duration
	batchTimeout time.Duration

	mu       sync.Mutex
	handles  map[string]string // guildID -> scheduler job id
	sessions map[string]*SessionJob
}

// NewCoordinator creates a coordinator. newSession builds a session job for
// a guild; it is called once per enable.
func NewCoordinator(toggles ToggleSource, guilds GuildLister, sched Scheduler, newSession func(guildID string) *SessionJob) *Coordinator {
	return &Coordinator{
		toggles:      toggles,
		guilds:       guilds,
		sched:        sched,
		newSession:   newSession,
		checkTimeout: checkTimeout,
		batchTimeout: batchTimeout,
		handles:      make(map[string]string),
		sessions:     make(map[string]*SessionJob),
	}
}

// RunPass runs one coordination pass: list guilds, check toggles in bounded
// batches, and create or cancel session jobs where toggle state and registry
// presence disagree. Only listing failures and cancellation escalate; the
// scheduler retries the pass on its next tick.
func (c *Coordinator) RunPass(ctx context.Context) error {
	ids, err := c.guilds.KnownGuildIDs()
	if err != nil {
		return fmt.Errorf("list guilds: %w", err)
	}

	for _, batch := range PartitionBatches(ids, BatchSize) {
		c.runBatch(ctx, batch)
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// runBatch reconciles one batch of guilds concurrently. A batch that
// overruns its timeout is abandoned; the pass moves on to the next batch.
func (c *Coordinator) runBatch(ctx context.Context, batch []string) {
	bctx, cancel := context.WithTimeout(ctx, c.batchTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = util.Parallel(bctx, batch, BatchSize, func(ctx context.Context, guildID string) error {
			c.reconcileGuild(ctx, guildID)
			return nil // one guild's failure never aborts the batch
		})
	}()

	select {
	case <-done:
	case <-bctx.Done():
		if errors.Is(bctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			log.Printf("[WARN] [LIVE] batch of %d guilds timed out, continuing with next batch", len(batch))
		}
	}
}

// reconcileGuild compares the guild's toggle with registry presence and
// applies the difference. A timed-out check abandons the guild for this
// round: no job is created or cancelled on a mere timeout.
func (c *Coordinator) reconcileGuild(ctx context.Context, guildID string) {
	cctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	enabled, ok := c.toggleEnabled(cctx, guildID)
	if !ok {
		return
	}

	c.mu.Lock()
	handle, exists := c.handles[guildID]
	c.mu.Unlock()

	switch {
	case enabled && !exists:
		c.startSession(guildID)
	case !enabled && exists:
		c.stopSession(guildID, handle)
	}
}

// toggleEnabled reads the guild's live toggle under the per-check timeout.
// Read errors are fail-closed and report disabled. A timeout reports
// ok=false instead: the store's answer is unknown, so the caller must leave
// the guild untouched until the next pass.
func (c *Coordinator) toggleEnabled(ctx context.Context, guildID string) (enabled, ok bool) {
	type result struct {
		enabled bool
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		on, err := c.toggles.IsToggleEnabled(guildID, ToggleLiveSession)
		ch <- result{on, err}
	}()

	select {
	case <-ctx.Done():
		log.Printf("[WARN] [LIVE] toggle check timed out guild=%s, skipping this round", guildID)
		return false, false
	case r := <-ch:
		if r.err != nil {
			log.Printf("[ERR] [LIVE] toggle check failed guild=%s: %v", guildID, r.err)
			return false, true
		}
		return r.enabled, true
	}
}

func (c *Coordinator) startSession(guildID string) {
	job := c.newSession(guildID)
	id := SessionJobID(guildID)
	if err := c.sched.StartDynamic(id, job.Interval, job.RunCycle); err != nil {
		log.Printf("[ERR] [LIVE] failed to start session guild=%s: %v", guildID, err)
		return
	}

	c.mu.Lock()
	c.handles[guildID] = id
	c.sessions[guildID] = job
	c.mu.Unlock()
	log.Printf("[INFO] [LIVE] session started guild=%s job=%s", guildID, id)
}

func (c *Coordinator) stopSession(guildID, handle string) {
	if err := c.sched.Stop(handle); err != nil {
		log.Printf("[WARN] [LIVE] cancel job=%s: %v", handle, err)
	}

	// Remove the registry entry even if the scheduler had already lost the
	// job; the registry must converge on the toggle state.
	c.mu.Lock()
	delete(c.handles, guildID)
	delete(c.sessions, guildID)
	c.mu.Unlock()
	log.Printf("[INFO] [LIVE] session stopped guild=%s", guildID)
}

// Session returns the running session for a guild, if any.
func (c *Coordinator) Session(guildID string) (*SessionJob, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	job, ok := c.sessions[guildID]
	return job, ok
}

// ActiveGuilds returns the guild ids with a running session.
func (c *Coordinator) ActiveGuilds() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.handles))
	for id := range c.handles {
		ids = append(ids, id)
	}
	return ids
}

// PartitionBatches splits ids into consecutive batches of at most size.
// Every id appears in exactly one batch.
func PartitionBatches(ids []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	var batches [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
