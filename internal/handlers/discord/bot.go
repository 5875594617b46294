package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	guildconfigService "github.com/fromcord/fromcord/internal/services/guildconfig"
	sessionService "github.com/fromcord/fromcord/internal/services/session"
)

// Config holds the configuration for the Discord bot
type Config struct {
	// Session is the discordgo session, not yet opened
	Session *discordgo.Session

	// ApplicationID is the Discord application ID; when empty the logged-in
	// user's ID is used after the connection opens
	ApplicationID string

	// GuildID restricts command registration to a single guild when set
	GuildID string

	// OwnerID is the Discord user allowed to run management commands
	OwnerID string

	// SessionService manages nightreign sessions
	SessionService sessionService.Service

	// GuildConfigService manages per-guild settings
	GuildConfigService guildconfigService.Service

	// Shutdown is invoked when the owner requests a shutdown
	Shutdown func()
}

// Bot represents the Discord bot
type Bot struct {
	session            *discordgo.Session
	applicationID      string
	guildID            string
	handlers           map[string]CommandHandler
	registeredCommands []*discordgo.ApplicationCommand
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("session is required")
	}
	if cfg.SessionService == nil {
		return nil, fmt.Errorf("session service is required")
	}
	if cfg.GuildConfigService == nil {
		return nil, fmt.Errorf("guild config service is required")
	}

	bot := &Bot{
		session:       cfg.Session,
		applicationID: cfg.ApplicationID,
		guildID:       cfg.GuildID,
		handlers:      make(map[string]CommandHandler),
	}

	bot.registerHandler(NewNightreignCommand(&NightreignCommandConfig{
		Sessions: cfg.SessionService,
	}))
	bot.registerHandler(NewConfigCommand(&ConfigCommandConfig{
		GuildConfigs: cfg.GuildConfigService,
	}))
	bot.registerHandler(NewManageCommand(&ManageCommandConfig{
		Sessions:     cfg.SessionService,
		GuildConfigs: cfg.GuildConfigService,
		OwnerID:      cfg.OwnerID,
		Shutdown:     cfg.Shutdown,
	}))
	bot.registerHandler(NewHelpCommand())

	cfg.Session.AddHandler(bot.handleInteraction)
	cfg.Session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	return bot, nil
}

func (b *Bot) registerHandler(handler CommandHandler) {
	b.handlers[handler.GetName()] = handler
}

// Start opens the Discord connection and registers the slash commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	if b.applicationID == "" {
		b.applicationID = b.session.State.User.ID
	}

	for name, handler := range b.handlers {
		cmd, err := b.session.ApplicationCommandCreate(b.applicationID, b.guildID, handler.GetCommand())
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", name, err)
		}
		b.registeredCommands = append(b.registeredCommands, cmd)
		slog.Info("registered command", "name", name)
	}

	slog.Info("bot is running", "user", b.session.State.User.Username)
	return nil
}

// Stop unregisters the commands and closes the Discord connection
func (b *Bot) Stop() error {
	for _, cmd := range b.registeredCommands {
		if err := b.session.ApplicationCommandDelete(b.applicationID, b.guildID, cmd.ID); err != nil {
			slog.Warn("failed to unregister command", "name", cmd.Name, "error", err)
		}
	}
	return b.session.Close()
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	handler, ok := b.handlers[name]
	if !ok {
		slog.Warn("no handler for command", "name", name)
		return
	}

	if err := handler.Handle(s, i); err != nil {
		slog.Error("command failed", "name", name, "error", err)
	}
}
