// Package config resolves the bot's environment configuration. Missing
// required values are reported together as one error; the process must not
// start serving commands without them.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds every environment-derived setting.
type Config struct {
	// DiscordToken authenticates the gateway connection (DISCORD_TOKEN)
	DiscordToken string

	// ApplicationID is the bot's application ID (APPLICATION_ID); when
	// empty the session user ID is used instead
	ApplicationID string

	// PrimaryGuildID is the guild commands are registered against
	// (GUILD_ID)
	PrimaryGuildID string

	// PrimaryCategoryID seeds the primary guild's nightreign category
	// (NIGHTREIGN_CATEGORY_ID)
	PrimaryCategoryID string

	// OwnerID may run the management commands (BOT_OWNER_ID)
	OwnerID string

	// DataDir holds the sessions and guilds JSON documents (DATA_DIR,
	// default "data")
	DataDir string

	// MetricsPort serves the prometheus endpoint (METRICS_PORT, default
	// "9090")
	MetricsPort string
}

// New reads the environment. Every missing required key is named in the
// returned error.
func New() (*Config, error) {
	cfg := &Config{
		DiscordToken:      os.Getenv("DISCORD_TOKEN"),
		ApplicationID:     os.Getenv("APPLICATION_ID"),
		PrimaryGuildID:    os.Getenv("GUILD_ID"),
		PrimaryCategoryID: os.Getenv("NIGHTREIGN_CATEGORY_ID"),
		OwnerID:           os.Getenv("BOT_OWNER_ID"),
		DataDir:           os.Getenv("DATA_DIR"),
		MetricsPort:       os.Getenv("METRICS_PORT"),
	}

	missing := make([]string, 0)
	if cfg.DiscordToken == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	if cfg.PrimaryGuildID == "" {
		missing = append(missing, "GUILD_ID")
	}
	if cfg.PrimaryCategoryID == "" {
		missing = append(missing, "NIGHTREIGN_CATEGORY_ID")
	}
	if len(missing) > 0 {
		return nil, errors.New("missing required environment values: " + strings.Join(missing, ", "))
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
		slog.Warn("DATA_DIR is not set", "default", cfg.DataDir)
	}
	if cfg.MetricsPort == "" {
		cfg.MetricsPort = "9090"
	}
	if cfg.OwnerID == "" {
		slog.Warn("BOT_OWNER_ID is not set, management commands are disabled")
	}

	slog.Debug("env", "GUILD_ID", cfg.PrimaryGuildID)
	slog.Debug("env", "NIGHTREIGN_CATEGORY_ID", cfg.PrimaryCategoryID)
	slog.Debug("env", "DATA_DIR", cfg.DataDir)
	if len(cfg.DiscordToken) > 3 {
		slog.Debug("env", "DISCORD_TOKEN", fmt.Sprintf("%s...", cfg.DiscordToken[0:3]))
	}

	return cfg, nil
}
