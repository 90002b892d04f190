package command

import (
	"fmt"
	"strings"

	"amiquin/internal/activity"
	"amiquin/internal/live"

	"github.com/bwmarrin/discordgo"
)

// LiveCommand toggles and inspects a guild's live engagement session.
// Registered from main with the runner and tracker injected, like other
// service-backed commands.
type LiveCommand struct {
	Runner  *live.Runner
	Tracker *activity.Tracker
}

func (c *LiveCommand) Name() string        { return "live" }
func (c *LiveCommand) Description() string { return "Manage the live engagement session" }
func (c *LiveCommand) Aliases() []string   { return []string{} }

func (c *LiveCommand) Group() string    { return "live" }
func (c *LiveCommand) Category() string { return "💬 Chat" }

func (c *LiveCommand) RequireAdmin() bool { return true }
func (c *LiveCommand) RequireDev() bool   { return false }

func (c *LiveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minMult := 0.1
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "state",
				Description: "Enable, disable or inspect the session",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Enable", Value: "enable"},
					{Name: "Disable", Value: "disable"},
					{Name: "Status", Value: "status"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "multiplier",
				Description: "Engagement multiplier (default 1.0)",
				Required:    false,
				MinValue:    &minMult,
				MaxValue:    5.0,
			},
		},
	}
}

func (c *LiveCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	guildID := slash.Event.GuildID
	data := slash.Event.ApplicationCommandData()
	state := data.Options[0].StringValue()

	for _, opt := range data.Options {
		if opt.Name == "multiplier" {
			c.Tracker.SetEngagementMultiplier(guildID, opt.FloatValue())
		}
	}

	switch state {
	case "enable":
		if err := slash.Storage.SetToggle(guildID, live.ToggleLiveSession, true); err != nil {
			return respondEphemeral(slash.Session, slash.Event, "Failed to enable the live session.")
		}
		return respondEphemeral(slash.Session, slash.Event, "Live session enabled. It starts within a minute.")

	case "disable":
		if err := slash.Storage.SetToggle(guildID, live.ToggleLiveSession, false); err != nil {
			return respondEphemeral(slash.Session, slash.Event, "Failed to disable the live session.")
		}
		return respondEphemeral(slash.Session, slash.Event, "Live session disabled.")

	case "status":
		return respondEphemeral(slash.Session, slash.Event, c.statusText(guildID))

	default:
		return respondEphemeral(slash.Session, slash.Event, "Unknown state.")
	}
}

func (c *LiveCommand) statusText(guildID string) string {
	coord := c.Runner.Coordinator()
	if coord == nil {
		return "Live engagement is not running yet."
	}
	job, ok := coord.Session(guildID)
	if !ok {
		return "No live session for this server."
	}

	st := job.Stats()
	var b strings.Builder
	fmt.Fprintf(&b, "Live session for this server:\n")
	fmt.Fprintf(&b, "• executions: %d\n", st.ExecutionCount)
	fmt.Fprintf(&b, "• current frequency: %ds\n", st.CurrentFrequencySeconds)
	fmt.Fprintf(&b, "• last activity level: %.2f\n", st.LastActivityLevel)
	fmt.Fprintf(&b, "• engagement multiplier: %.2f", c.Tracker.EngagementMultiplier(guildID))
	return b.String()
}
