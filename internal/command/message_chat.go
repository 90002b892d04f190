package command

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"amiquin/internal/activity"
	"amiquin/internal/ai"
	"amiquin/internal/live"
)

// ChatCommand answers when the bot is mentioned, using the guild's recent
// context as conversation history. Registered from main with the provider
// and tracker injected.
type ChatCommand struct {
	Provider ai.Provider
	Tracker  *activity.Tracker
	Persona  string
}

func (c *ChatCommand) Name() string              { return "chat" }
func (c *ChatCommand) Description() string       { return "Responds when the bot is mentioned" }
func (c *ChatCommand) Aliases() []string         { return []string{} }
func (c *ChatCommand) Group() string             { return "chat" }
func (c *ChatCommand) Category() string          { return "💬 Chat" }
func (c *ChatCommand) RequireAdmin() bool        { return false }
func (c *ChatCommand) RequireDev() bool          { return false }
func (c *ChatCommand) Run(ctx interface{}) error { return nil } // message-driven only

func (c *ChatCommand) Message(ctx *MessageContext) error {
	guildID := ctx.Event.GuildID
	if guildID == "" {
		return nil
	}

	persona := c.Persona
	if persona == "" {
		persona = live.DefaultPersona
	}

	messages := []ai.Message{{Role: "system", Content: persona}}
	recent := c.Tracker.RecentMessages(guildID, 15)
	for _, m := range recent {
		role := "user"
		content := m.Content
		if m.Role == "assistant" {
			role = "assistant"
		} else if m.Username != "" {
			content = m.Username + ": " + m.Content
		}
		messages = append(messages, ai.Message{Role: role, Content: content})
	}

	cctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reply, err := c.Provider.Generate(cctx, messages)
	if err != nil {
		return fmt.Errorf("chat generate: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil
	}

	channelID := ctx.Event.ChannelID
	for _, chunk := range live.SplitMessage(reply, 2000) {
		if _, err := ctx.Session.ChannelMessageSend(channelID, chunk); err != nil {
			log.Println("[ERR] failed to send chat reply:", err)
			return err
		}
	}

	c.Tracker.RecordMessage(activity.Message{
		Role:      "assistant",
		Content:   reply,
		ChannelID: channelID,
		At:        time.Now(),
	}, guildID)
	return nil
}
