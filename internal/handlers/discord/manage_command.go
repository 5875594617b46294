package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	guildconfigService "github.com/fromcord/fromcord/internal/services/guildconfig"
	sessionService "github.com/fromcord/fromcord/internal/services/session"
)

// ManageCommandConfig holds the configuration for the manage command
type ManageCommandConfig struct {
	// Sessions is the session service
	Sessions sessionService.Service

	// GuildConfigs is the guild config service
	GuildConfigs guildconfigService.Service

	// OwnerID is the only user allowed to run management commands
	OwnerID string

	// Shutdown stops the process once state is flushed
	Shutdown func()
}

// ManageCommand handles the owner-only /manage command group
type ManageCommand struct {
	BaseCommand
	sessions     sessionService.Service
	guildConfigs guildconfigService.Service
	ownerID      string
	shutdown     func()
}

// NewManageCommand creates a new manage command handler
func NewManageCommand(cfg *ManageCommandConfig) *ManageCommand {
	return &ManageCommand{
		BaseCommand: BaseCommand{
			Name:        "manage",
			Description: "Management commands.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "save",
					Description: "Save the data",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "shutdown",
					Description: "Safely shutdown the bot",
				},
			},
		},
		sessions:     cfg.Sessions,
		guildConfigs: cfg.GuildConfigs,
		ownerID:      cfg.OwnerID,
		shutdown:     cfg.Shutdown,
	}
}

// Handle processes a /manage interaction
func (c *ManageCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if c.ownerID == "" || interactionUserID(i) != c.ownerID {
		return RespondWithMessage(s, i, "You are not authorized to use this command.")
	}

	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return RespondWithMessage(s, i, genericFailureMessage)
	}

	ctx := context.Background()
	switch data.Options[0].Name {
	case "save":
		return c.handleSave(ctx, s, i)
	case "shutdown":
		return c.handleShutdown(ctx, s, i)
	default:
		return RespondWithMessage(s, i, genericFailureMessage)
	}
}

func (c *ManageCommand) handleSave(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if err := RespondWithMessage(s, i, "Saving data..."); err != nil {
		return err
	}
	if err := c.sessions.Save(ctx); err != nil {
		slog.Error("failed to save sessions", "error", err)
		return FollowUpMessage(s, i, genericFailureMessage)
	}
	if err := c.guildConfigs.Save(ctx); err != nil {
		slog.Error("failed to save guild configs", "error", err)
		return FollowUpMessage(s, i, genericFailureMessage)
	}
	return FollowUpMessage(s, i, "Data saved.")
}

func (c *ManageCommand) handleShutdown(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if err := RespondWithMessage(s, i, "Cleaning up..."); err != nil {
		return err
	}
	c.sessions.Reconcile(ctx)

	if err := FollowUpMessage(s, i, "Saving data..."); err != nil {
		return err
	}
	if err := c.sessions.Save(ctx); err != nil {
		slog.Error("failed to save sessions", "error", err)
	}
	if err := c.guildConfigs.Save(ctx); err != nil {
		slog.Error("failed to save guild configs", "error", err)
	}

	if err := FollowUpMessage(s, i, "Shutting down..."); err != nil {
		return err
	}
	if c.shutdown != nil {
		c.shutdown()
	}
	return nil
}
