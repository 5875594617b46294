package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	guildconfigService "github.com/fromcord/fromcord/internal/services/guildconfig"
)

// ConfigCommandConfig holds the configuration for the config command
type ConfigCommandConfig struct {
	// GuildConfigs is the guild config service
	GuildConfigs guildconfigService.Service
}

// ConfigCommand handles the /config command group
type ConfigCommand struct {
	BaseCommand
	guildConfigs guildconfigService.Service
}

// NewConfigCommand creates a new config command handler
func NewConfigCommand(cfg *ConfigCommandConfig) *ConfigCommand {
	return &ConfigCommand{
		BaseCommand: BaseCommand{
			Name:        "config",
			Description: "Configuration commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "nightreign",
					Description: "Set the nightreign channel category",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "nightreign_category",
							Description:  "Category to create session channels under",
							Required:     true,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
						},
					},
				},
			},
		},
		guildConfigs: cfg.GuildConfigs,
	}
}

// Handle processes a /config interaction
func (c *ConfigCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.GuildID == "" {
		return RespondWithMessage(s, i, guildFailureMessage)
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 || data.Options[0].Name != "nightreign" {
		return RespondWithMessage(s, i, genericFailureMessage)
	}

	slog.Info("setting nightreign category", "guild", i.GuildID, "user", interactionUserID(i))

	opts := optionMap(data.Options[0].Options)
	categoryID := opts.String("nightreign_category")

	category, err := s.State.Channel(categoryID)
	if err != nil {
		category, err = s.Channel(categoryID)
	}
	if err != nil || category.Type != discordgo.ChannelTypeGuildCategory {
		slog.Error("category not found", "guild", i.GuildID, "category", categoryID)
		return RespondWithMessage(s, i, "FAILURE: Category not found.")
	}

	c.guildConfigs.Set(i.GuildID, category.ID)
	return RespondWithMessage(s, i, fmt.Sprintf("Nightreign category set to <#%s>.", category.ID))
}
