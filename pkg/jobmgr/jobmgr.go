// Package jobmgr provides simple synchronous, asynchronous and interval job
// execution with cancellation, status callbacks, and in-memory tracking of
// running jobs.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(ctx, func(msg string) {
//	    log.Println("JOB:", msg)
//	})
//
//	err := jm.StartInterval("live-sync", time.Minute, func(ctx context.Context) error {
//	    // do one round of work
//	    return nil
//	})
//
//	// later...
//	_ = jm.Stop("live-sync")
//
// The package is intentionally minimal: no retry logic, no workers, no
// persistence. Jobs run in separate goroutines; one-shot jobs are removed on
// completion, interval jobs stay registered until stopped.
package jobmgr

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Job represents a running unit of work.
// Jobs are added and removed by Manager automatically.
type Job struct {
	Name   string
	Cancel context.CancelFunc
}

// StatusReporter receives lifecycle events for jobs.
// Example messages:
//
//	running:live-sync
//	error:live-sync:toggle store unreachable
//	done:live-sync
type StatusReporter func(string)

// Manager orchestrates starting, stopping and tracking jobs.
// It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	root     context.Context
	Reporter StatusReporter
}

// NewManager creates a new Manager. All jobs derive their context from root,
// so cancelling root stops every job. The reporter callback may be nil.
func NewManager(root context.Context, reporter StatusReporter) *Manager {
	if root == nil {
		root = context.Background()
	}
	return &Manager{
		jobs:     make(map[string]*Job),
		root:     root,
		Reporter: reporter,
	}
}

// StartSync runs a job in the current goroutine and blocks until completion.
// Use this for tasks that must run synchronously.
func (m *Manager) StartSync(name string, runner func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(m.root)
	defer cancel()
	return runner(ctx)
}

// StartAsync runs a one-shot job in a separate goroutine and returns
// immediately. If a job with the same name is already running, an error is
// returned. The job is removed automatically after completion.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	ctx, cancel, err := m.register(name)
	if err != nil {
		return err
	}

	go func() {
		defer cancel()
		m.report("running:" + name)

		if err := runner(ctx); err != nil {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}
		m.remove(name)
	}()

	return nil
}

// StartInterval runs a repeating job: runner executes once per interval until
// the job is stopped or the root context is cancelled. Runs are strictly
// serial; the next wait starts after the previous run returns.
func (m *Manager) StartInterval(name string, interval time.Duration, runner func(ctx context.Context) error) error {
	return m.StartDynamic(name, func() time.Duration { return interval }, runner)
}

// StartDynamic runs a repeating job whose interval is re-read after every
// run. This lets a job retune its own cadence between executions: whatever
// next() returns at the end of one run decides when the following run fires.
func (m *Manager) StartDynamic(name string, next func() time.Duration, runner func(ctx context.Context) error) error {
	ctx, cancel, err := m.register(name)
	if err != nil {
		return err
	}

	go func() {
		defer cancel()
		m.report("running:" + name)

		timer := time.NewTimer(next())
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				m.report("done:" + name)
				m.remove(name)
				return
			case <-timer.C:
			}

			if err := runner(ctx); err != nil {
				m.report("error:" + name + ":" + err.Error())
			}

			d := next()
			if d <= 0 {
				d = time.Second
			}
			timer.Reset(d)
		}
	}()

	return nil
}

// Stop cancels a running job by name.
// If the job is not running, an error is returned.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job '%s' not running", name)
	}

	job.Cancel()
	delete(m.jobs, name)
	return nil
}

// IsRunning reports whether a job with the given name is registered.
func (m *Manager) IsRunning(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jobs[name]
	return ok
}

// List returns the sorted list of active job names.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status returns a human-readable summary of active jobs.
// Example:
//
//	"Running jobs: ActivitySession_123, live-sync"
//
// If none are running: "No jobs are running."
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

func (m *Manager) register(name string) (context.Context, context.CancelFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[name]; exists {
		return nil, nil, fmt.Errorf("job '%s' is already running", name)
	}

	ctx, cancel := context.WithCancel(m.root)
	m.jobs[name] = &Job{Name: name, Cancel: cancel}
	return ctx, cancel, nil
}

func (m *Manager) remove(name string) {
	m.mu.Lock()
	delete(m.jobs, name)
	m.mu.Unlock()
}

// report delivers lifecycle messages to the reporter if present.
func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
