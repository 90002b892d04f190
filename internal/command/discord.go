package command

import (
	"github.com/bwmarrin/discordgo"
)

// respondEphemeral answers an interaction with a message only the invoker
// sees.
func respondEphemeral(s *discordgo.Session, event *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// respond answers an interaction with a normal channel message.
func respond(s *discordgo.Session, event *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}
