package live

import (
	"context"
	"fmt"
	"strings"
	"time"

	"amiquin/internal/activity"
	"amiquin/internal/ai"

	"github.com/bwmarrin/discordgo"
)

// DefaultPersona is the identity used for engagement prompts when no
// override is configured.
const DefaultPersona = "You are Amiquin, a friendly and curious chat companion. " +
	"You speak casually, keep replies short (one or two sentences), and never mention being an AI."

const contextWindow = 15

// MessageSender sends a message to a channel. *discordgo.Session satisfies
// it.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ReplyRecorder pushes the bot's own replies back into the activity buffer
// so later cycles see them as context.
type ReplyRecorder interface {
	RecordMessage(msg activity.Message, guildID string)
}

// actionPrompts are the per-action task instructions appended to the
// persona.
var actionPrompts = map[Action]string{
	ActionAskQuestion:      "Ask the chat one short, open question related to the recent conversation. If there is no clear topic, ask something light and general.",
	ActionShareFact:        "Share one short, interesting fact loosely related to the recent conversation.",
	ActionTellJoke:         "Tell one short joke or witty one-liner that fits the mood of the recent conversation.",
	ActionStartTopic:       "The chat is quiet. Start a fresh, low-effort conversation topic with a single short message.",
	ActionShareThought:     "Share one short spontaneous thought, as if thinking out loud.",
	ActionGiveOpinion:      "Give a brief, friendly opinion on what people are currently discussing.",
	ActionJoinConversation: "Join the ongoing conversation naturally with one short message that adds to it.",
	ActionCheckIn:          "Casually check in on the chat with one short, warm message.",
}

// Executor turns an engagement action into a generated message in the
// guild's last active channel.
type Executor struct {
	provider ai.Provider
	signals  ActivitySource
	recorder ReplyRecorder
	sender   MessageSender
	persona  string
}

func NewExecutor(provider ai.Provider, signals ActivitySource, recorder ReplyRecorder, sender MessageSender, persona string) *Executor {
	if persona == "" {
		persona = DefaultPersona
	}
	return &Executor{
		provider: provider,
		signals:  signals,
		recorder: recorder,
		sender:   sender,
		persona:  persona,
	}
}

// Execute performs one engagement action. Returns the sent text, or "" when
// nothing was generated (not an error).
func (e *Executor) Execute(ctx context.Context, action Action, guildID string) (string, error) {
	channelID := e.signals.LastChannelID(guildID)
	if channelID == "" {
		return "", nil
	}

	task, ok := actionPrompts[action]
	if !ok {
		return "", fmt.Errorf("unknown engagement action %d", int(action))
	}

	system := e.persona + "\n\nTask: " + task + " One message only. No preamble, no quotes."
	messages := []ai.Message{{Role: "system", Content: system}}

	recent := e.signals.ContextMessages(guildID, contextWindow)
	if len(recent) > 0 {
		messages = append(messages, ai.Message{
			Role:    "user",
			Content: "Recent chat, oldest first:\n" + strings.Join(recent, "\n"),
		})
	} else {
		messages = append(messages, ai.Message{Role: "user", Content: "Now."})
	}

	reply, err := e.provider.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", action, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", nil
	}

	for _, chunk := range SplitMessage(reply, 2000) {
		if _, err := e.sender.ChannelMessageSend(channelID, chunk); err != nil {
			return "", fmt.Errorf("send %s: %w", action, err)
		}
		time.Sleep(200 * time.Millisecond)
	}

	if e.recorder != nil {
		e.recorder.RecordMessage(activity.Message{
			Role:      "assistant",
			Content:   reply,
			ChannelID: channelID,
			At:        time.Now(),
		}, guildID)
	}

	return reply, nil
}

// SplitMessage splits msg into chunks of at most limit bytes, preferring
// newline boundaries. Empty chunks are dropped; Discord rejects empty sends.
func SplitMessage(msg string, limit int) []string {
	var result []string
	for len(msg) > limit {
		cut := strings.LastIndex(msg[:limit], "\n")
		if cut <= 0 {
			cut = limit
		}
		chunk := strings.TrimSpace(msg[:cut])
		if chunk != "" {
			result = append(result, chunk)
		}
		msg = strings.TrimSpace(msg[cut:])
	}
	if msg != "" {
		result = append(result, msg)
	}
	return result
}
