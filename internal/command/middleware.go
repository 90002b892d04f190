package command

import (
	"log"
	"time"

	"amiquin/internal/storage"

	"github.com/bwmarrin/discordgo"
)

type Middleware func(Command) Command

type WrappedCommand struct {
	Command
	Wrap func(ctx interface{}) error
}

func (w *WrappedCommand) Run(ctx interface{}) error {
	if w.Wrap != nil {
		return w.Wrap(ctx)
	}
	return w.Command.Run(ctx)
}

func (w *WrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

func (w *WrappedCommand) Message(ctx *MessageContext) error {
	if mh, ok := w.Command.(MessageHandler); ok {
		return mh.Message(ctx)
	}
	return nil
}

func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// WithGuildOnly rejects invocations outside a guild.
func WithGuildOnly() Middleware {
	return func(next Command) Command {
		return &WrappedCommand{
			Command: next,
			Wrap: func(ctx interface{}) error {
				slash, ok := ctx.(*SlashContext)
				if !ok {
					return next.Run(ctx)
				}
				if slash.Event.GuildID == "" {
					return respondEphemeral(slash.Session, slash.Event, "This command only works in a server.")
				}
				return next.Run(ctx)
			},
		}
	}
}

// WithAdminCheck rejects non-administrators for commands that require it.
func WithAdminCheck() Middleware {
	return func(next Command) Command {
		return &WrappedCommand{
			Command: next,
			Wrap: func(ctx interface{}) error {
				slash, ok := ctx.(*SlashContext)
				if !ok || !next.RequireAdmin() {
					return next.Run(ctx)
				}
				member := slash.Event.Member
				if member == nil || member.Permissions&discordgo.PermissionAdministrator == 0 {
					return respondEphemeral(slash.Session, slash.Event, "You need administrator permission for this.")
				}
				return next.Run(ctx)
			},
		}
	}
}

// WithCommandLogger records the invocation in the guild's command history.
func WithCommandLogger() Middleware {
	return func(next Command) Command {
		return &WrappedCommand{
			Command: next,
			Wrap: func(ctx interface{}) error {
				slash, ok := ctx.(*SlashContext)
				if ok && slash.Storage != nil && slash.Event.GuildID != "" && slash.Event.Member != nil {
					rec := storage.CommandHistoryRecord{
						ChannelID: slash.Event.ChannelID,
						UserID:    slash.Event.Member.User.ID,
						Username:  slash.Event.Member.User.Username,
						Command:   next.Name(),
						Datetime:  time.Now(),
					}
					if err := slash.Storage.AppendCommandToHistory(slash.Event.GuildID, rec); err != nil {
						log.Println("[WARN] Failed to log command:", err)
					}
				}
				return next.Run(ctx)
			},
		}
	}
}
