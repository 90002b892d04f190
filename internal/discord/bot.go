package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"amiquin/internal/activity"
	"amiquin/internal/command"
	"amiquin/internal/config"
	"amiquin/internal/live"
	"amiquin/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// Bot is the Discord bot shell: it owns the gateway session, feeds the
// activity tracker from message events and dispatches commands.
type Bot struct {
	dg        *discordgo.Session
	storage   *storage.Storage
	cfg       *config.Config
	tracker   *activity.Tracker
	liveRun   *live.Runner
	mu        sync.RWMutex
	liveOnce  sync.Once
	slashCmds map[string][]*discordgo.ApplicationCommand
}

// StartBot starts the Discord bot and blocks until ctx is cancelled.
func StartBot(ctx context.Context, cfg *config.Config, store *storage.Storage, tracker *activity.Tracker, liveRun *live.Runner) error {
	b := &Bot{
		cfg:       cfg,
		storage:   store,
		tracker:   tracker,
		liveRun:   liveRun,
		slashCmds: make(map[string][]*discordgo.ApplicationCommand),
	}
	if err := b.run(ctx, cfg.DiscordToken); err != nil {
		return fmt.Errorf("bot run error: %w", err)
	}
	return nil
}

// run starts the Discord bot
func (b *Bot) run(ctx context.Context, token string) error {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	b.dg = dg

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onGuildCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	return nil
}

// configureIntents configures the Discord intents
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[INFO] Logged in as %s, %d guild(s)", r.User.Username, len(r.Guilds))

	for _, g := range r.Guilds {
		if err := b.storage.EnsureGuildRecord(g.ID); err != nil {
			log.Printf("[ERR] Failed to seed guild record %s: %v", g.ID, err)
		}

		if b.cfg.InitSlashCommands {
			if err := b.registerCommands(g.ID); err != nil {
				log.Println("[ERR] Error registering slash commands for guild", g.ID, ":", err)
			}
		}
	}
	if !b.cfg.InitSlashCommands {
		log.Println("[INFO] Registering slash commands skipped")
	}

	b.liveOnce.Do(func() {
		log.Println("[INFO] Starting live engagement service...")
		if err := b.liveRun.Start(s); err != nil {
			log.Println("[ERR] Failed to start live engagement:", err)
		}
	})
}

// onGuildCreate seeds a record when the bot joins a new guild.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if err := b.storage.EnsureGuildRecord(g.ID); err != nil {
		log.Printf("[ERR] Failed to seed guild record %s: %v", g.ID, err)
	}
}

// onMessageCreate feeds the activity tracker and dispatches mention chat.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}
	if m.GuildID == "" {
		return
	}

	mentioned := false
	for _, user := range m.Mentions {
		if user.ID == s.State.User.ID {
			mentioned = true
			break
		}
	}

	b.tracker.RecordMessage(activity.Message{
		Role:      "user",
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		Content:   m.Content,
		ChannelID: m.ChannelID,
		At:        time.Now(),
		Mentioned: mentioned,
	}, m.GuildID)

	if !mentioned {
		return
	}

	for _, cmd := range command.All() {
		mh, ok := cmd.(command.MessageHandler)
		if !ok {
			continue
		}
		ctx := &command.MessageContext{
			Session: s,
			Event:   m,
			Storage: b.storage,
		}
		if err := mh.Message(ctx); err != nil {
			log.Println("[ERR] Error running message command:", err)
		}
	}
}

// onInteractionCreate dispatches slash commands.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	cmd, ok := command.Get(name)
	if !ok {
		log.Printf("[WARN] Unknown command: %s", name)
		return
	}

	ctx := &command.SlashContext{
		Session: s,
		Event:   i,
		Storage: b.storage,
	}
	if err := cmd.Run(ctx); err != nil {
		log.Printf("[ERR] Error running /%s: %v", name, err)
	}
}

// registerCommands overwrites the guild's slash commands with the current
// registry.
func (b *Bot) registerCommands(guildID string) error {
	var defs []*discordgo.ApplicationCommand
	for _, cmd := range command.All() {
		sp, ok := cmd.(command.SlashProvider)
		if !ok {
			continue
		}
		def := sp.SlashDefinition()
		if def == nil {
			continue
		}
		defs = append(defs, def)
	}

	created, err := b.dg.ApplicationCommandBulkOverwrite(b.dg.State.User.ID, guildID, defs)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.slashCmds[guildID] = created
	b.mu.Unlock()

	names := make([]string, 0, len(created))
	for _, c := range created {
		names = append(names, c.Name)
	}
	log.Printf("[INFO] Registered %d command(s) for guild %s: %s", len(created), guildID, strings.Join(names, ", "))
	return nil
}
