package live

import (
	"fmt"
	"sync"
	"time"

	"amiquin/internal/activity"
	"amiquin/internal/ai"
	"amiquin/pkg/jobmgr"
)

// Runner wires the coordinator into the job manager once the Discord session
// exists. Construct it at startup and call Start from the bot after the
// session is open.
type Runner struct {
	manager  *jobmgr.Manager
	toggles  ToggleSource
	guilds   GuildLister
	tracker  *activity.Tracker
	provider ai.Provider
	persona  string
	interval time.Duration

	mu    sync.Mutex
	coord *Coordinator
}

// Deps bundles the runner's collaborators.
type Deps struct {
	Manager  *jobmgr.Manager
	Toggles  ToggleSource
	Guilds   GuildLister
	Tracker  *activity.Tracker
	Provider ai.Provider
	Persona  string
	Interval time.Duration
}

func NewRunner(d Deps) *Runner {
	if d.Interval <= 0 {
		d.Interval = time.Minute
	}
	return &Runner{
		manager:  d.Manager,
		toggles:  d.Toggles,
		guilds:   d.Guilds,
		tracker:  d.Tracker,
		provider: d.Provider,
		persona:  d.Persona,
		interval: d.Interval,
	}
}

// Start builds the executor and coordinator around the live Discord session
// and registers the coordination pass with the job manager. Safe to call
// once; later calls are no-ops.
func (r *Runner) Start(sender MessageSender) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.coord != nil {
		return nil
	}

	exec := NewExecutor(r.provider, r.tracker, r.tracker, sender, r.persona)
	coord := NewCoordinator(r.toggles, r.guilds, r.manager, func(guildID string) *SessionJob {
		return NewSessionJob(guildID, r.toggles, r.tracker, exec)
	})

	if err := r.manager.StartInterval(SyncJobName, r.interval, coord.RunPass); err != nil {
		return fmt.Errorf("start %s: %w", SyncJobName, err)
	}
	r.coord = coord
	return nil
}

// Coordinator returns the running coordinator, or nil before Start.
func (r *Runner) Coordinator() *Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.coord
}
