// Package guildconfig keeps the per-guild nightreign settings in memory and
// persists them to the guilds JSON document.
package guildconfig

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/fromcord/fromcord/internal/services/guildconfig Service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fromcord/fromcord/internal/models"
	guildRepo "github.com/fromcord/fromcord/internal/repositories/guildconfig"
)

// ErrNotConfigured is returned when a guild has no nightreign category set.
var ErrNotConfigured = errors.New("guild has no nightreign configuration")

// Config holds the configuration for the guild config service
type Config struct {
	// Repo persists the guild configuration map
	Repo guildRepo.Repository

	// PrimaryGuildID seeds a default configuration at load time
	PrimaryGuildID string

	// PrimaryCategoryID is the category for the primary guild
	PrimaryCategoryID string
}

// service implements the Service interface
type service struct {
	repo              guildRepo.Repository
	primaryGuildID    string
	primaryCategoryID string

	mu      sync.Mutex
	configs map[string]*models.GuildConfig
}

// Service manages guild configurations.
type Service interface {
	// Load reads the store into memory and seeds the primary guild default
	Load(ctx context.Context) error

	// Save flushes the in-memory map to the store
	Save(ctx context.Context) error

	// Get returns the configuration for a guild
	Get(guildID string) (*models.GuildConfig, error)

	// Set replaces the configuration for a guild
	Set(guildID, categoryID string)
}

// New creates a new guild config service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Repo == nil {
		return nil, errors.New("repository cannot be nil")
	}
	if cfg.PrimaryGuildID == "" || cfg.PrimaryCategoryID == "" {
		return nil, errors.New("primary guild and category cannot be empty")
	}
	return &service{
		repo:              cfg.Repo,
		primaryGuildID:    cfg.PrimaryGuildID,
		primaryCategoryID: cfg.PrimaryCategoryID,
		configs:           make(map[string]*models.GuildConfig),
	}, nil
}

// Load reads the guild configuration map into memory. A malformed store is
// degraded to an empty one; the primary guild's configuration is then
// seeded from the app configuration and flushed back.
func (s *service) Load(ctx context.Context) error {
	output, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, guildRepo.ErrBadFormat) {
			return fmt.Errorf("failed to load guild configs: %w", err)
		}
		slog.Error("guild config store is malformed, starting from an empty map; the next save will overwrite it", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs = output.Configs
	s.configs[s.primaryGuildID] = &models.GuildConfig{
		GuildID:              s.primaryGuildID,
		NightreignCategoryID: s.primaryCategoryID,
	}
	slog.Info("guild configs loaded", "guilds", len(s.configs))
	return nil
}

// Save flushes the in-memory map to the store.
func (s *service) Save(ctx context.Context) error {
	s.mu.Lock()
	snapshot := make(map[string]*models.GuildConfig, len(s.configs))
	for guildID, config := range s.configs {
		clone := *config
		snapshot[guildID] = &clone
	}
	s.mu.Unlock()

	if err := s.repo.Save(ctx, &guildRepo.SaveInput{Configs: snapshot}); err != nil {
		return fmt.Errorf("failed to save guild configs: %w", err)
	}
	return nil
}

// Get returns the configuration for a guild.
func (s *service) Get(guildID string) (*models.GuildConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	config, ok := s.configs[guildID]
	if !ok {
		return nil, ErrNotConfigured
	}
	clone := *config
	return &clone, nil
}

// Set replaces the configuration for a guild.
func (s *service) Set(guildID, categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[guildID] = &models.GuildConfig{
		GuildID:              guildID,
		NightreignCategoryID: categoryID,
	}
}
