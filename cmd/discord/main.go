// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amiquin/internal/activity"
	"amiquin/internal/ai"
	"amiquin/internal/command"
	"amiquin/internal/config"
	"amiquin/internal/discord"
	"amiquin/internal/live"
	"amiquin/internal/storage"
	v "amiquin/internal/version"
	"amiquin/pkg/jobmgr"
)

func main() {
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.New()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	provider, err := ai.NewProvider(cfg.AIProvider)
	if err != nil {
		log.Fatal(err)
	}

	tracker := activity.NewTracker()

	jobs := jobmgr.NewManager(ctx, func(msg string) {
		log.Println("[INFO] JOB:", msg)
	})

	liveRun := live.NewRunner(live.Deps{
		Manager:  jobs,
		Toggles:  store,
		Guilds:   store,
		Tracker:  tracker,
		Provider: provider,
		Persona:  cfg.Persona,
		Interval: time.Duration(cfg.LiveSyncIntervalSec) * time.Second,
	})

	command.Register(command.ApplyMiddlewares(
		&command.LiveCommand{Runner: liveRun, Tracker: tracker},
		command.WithCommandLogger(),
		command.WithAdminCheck(),
		command.WithGuildOnly(),
	))
	command.Register(&command.ChatCommand{
		Provider: provider,
		Tracker:  tracker,
		Persona:  cfg.Persona,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := discord.StartBot(ctx, cfg, store, tracker, liveRun); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
