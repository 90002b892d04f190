package command

import (
	"fmt"

	"amiquin/internal/version"
	"amiquin/pkg/util"

	"github.com/bwmarrin/discordgo"
)

type AboutCommand struct{}

func (c *AboutCommand) Name() string        { return "about" }
func (c *AboutCommand) Description() string { return "Show bot info and version" }
func (c *AboutCommand) Aliases() []string   { return []string{} }

func (c *AboutCommand) Group() string    { return "core" }
func (c *AboutCommand) Category() string { return "🕯️ Information" }

func (c *AboutCommand) RequireAdmin() bool { return false }
func (c *AboutCommand) RequireDev() bool   { return false }

func (c *AboutCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *AboutCommand) Run(ctx interface{}) error {
	slash, ok := ctx.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	built := util.FormatDateTpl(version.BuildDateMs(), "YYYY-MM-DD hh:mm")
	if built == "" {
		built = "unknown"
	}

	msg := fmt.Sprintf("**%s** `%s`\nBuilt: %s\nSource: %s",
		version.AppFullName, version.AppVersion, built, version.SourceCodeURL)
	return respond(slash.Session, slash.Event, msg)
}

func init() {
	Register(ApplyMiddlewares(&AboutCommand{}, WithCommandLogger()))
}
