package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Version is the bot version reported by /help version.
const Version = "0.4.0"

const nightreignHelp = `Nightreign commands:
- /nightreign create [session_id] [privacy] - Create a new session and channel.
- /nightreign join [session_id] - Join a session that was created, can not join private sessions.
- /nightreign add [user] - Add a user to a session, only way to add others to private sessions.
- /nightreign leave - Leave a session.
- /nightreign remove [user] - Remove a user from a session.
- /nightreign list - List the public sessions.
- /nightreign start [day] - Start the run timer.
- /nightreign boss [boss] - Set the nightlord for the run.
- /nightreign close - Close a session and delete its channel.
`

// HelpCommand handles the /help command group
type HelpCommand struct {
	BaseCommand
}

// NewHelpCommand creates a new help command handler
func NewHelpCommand() *HelpCommand {
	return &HelpCommand{
		BaseCommand: BaseCommand{
			Name:        "help",
			Description: "Commands for help.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "version",
					Description: "Get the version of the bot",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "nightreign",
					Description: "Help for the nightreign commands",
				},
			},
		},
	}
}

// Handle processes a /help interaction
func (c *HelpCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return RespondWithMessage(s, i, nightreignHelp)
	}

	switch data.Options[0].Name {
	case "version":
		return RespondWithMessage(s, i, fmt.Sprintf(
			"Version %s\nDisclaimer: Fromcord is still in early development.", Version,
		))
	case "nightreign":
		return RespondWithMessage(s, i, nightreignHelp)
	default:
		return RespondWithMessage(s, i, nightreignHelp)
	}
}
