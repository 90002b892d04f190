package live

import (
	"context"
	"sync"
	"time"
)

type fakeToggles struct {
	mu    sync.Mutex
	state map[string]bool
	err   error
	calls int
	delay time.Duration
}

func newFakeToggles() *fakeToggles {
	return &fakeToggles{state: make(map[string]bool)}
}

func (f *fakeToggles) set(guildID string, enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state[guildID] = enabled
}

func (f *fakeToggles) IsToggleEnabled(guildID, name string) (bool, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.state[guildID], nil
}

type fakeSignals struct {
	level      float64
	multiplier float64
	ctxMsgs    []string
	mention    bool
	channel    string
}

func (f *fakeSignals) Level(string) float64                { return f.level }
func (f *fakeSignals) EngagementMultiplier(string) float64 { return f.multiplier }
func (f *fakeSignals) ContextMessages(string, int) []string {
	return f.ctxMsgs
}
func (f *fakeSignals) HasRecentMention(string, int) bool { return f.mention }
func (f *fakeSignals) LastChannelID(string) string       { return f.channel }

type fakeExec struct {
	mu      sync.Mutex
	calls   int
	reply   string
	err     error
	actions []Action
}

func (f *fakeExec) Execute(ctx context.Context, action Action, guildID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.actions = append(f.actions, action)
	return f.reply, f.err
}

func (f *fakeExec) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeScheduler struct {
	mu       sync.Mutex
	started  []string
	stopped  []string
	running  map[string]bool
	startErr error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{running: make(map[string]bool)}
}

func (f *fakeScheduler) StartDynamic(name string, next func() time.Duration, runner func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, name)
	f.running[name] = true
	return nil
}

func (f *fakeScheduler) Stop(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, name)
	delete(f.running, name)
	return nil
}

func (f *fakeScheduler) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.started)
}

func (f *fakeScheduler) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stopped)
}

type fakeLister struct {
	ids []string
	err error
}

func (f *fakeLister) KnownGuildIDs() ([]string, error) {
	return f.ids, f.err
}
