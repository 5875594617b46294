package guildconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fromcord/fromcord/internal/models"
)

// ErrBadFormat is returned when the guilds file exists but does not hold the
// expected document shape.
var ErrBadFormat = errors.New("guild config file is not in the expected format")

// Config holds configuration for the file-backed guild config repository
type Config struct {
	// Path of the guilds JSON document
	Path string
}

// fileRepository implements the Repository interface on a single JSON file
type fileRepository struct {
	path string
}

// NewFile creates a new file-backed guild config repository
func NewFile(cfg *Config) (*fileRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Path == "" {
		return nil, errors.New("path cannot be empty")
	}
	return &fileRepository{path: cfg.Path}, nil
}

// Load reads the full guild configuration map. A missing file is an empty
// store; a malformed file yields an empty map alongside an
// ErrBadFormat-wrapped error.
func (r *fileRepository) Load(_ context.Context) (*LoadOutput, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &LoadOutput{Configs: make(map[string]*models.GuildConfig)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read guild config file: %w", err)
	}

	configs := make(map[string]*models.GuildConfig)
	if err := json.Unmarshal(data, &configs); err != nil {
		return &LoadOutput{Configs: make(map[string]*models.GuildConfig)},
			fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	return &LoadOutput{Configs: configs}, nil
}

// Save rewrites the store wholesale, temp-file-and-rename like the session
// store.
func (r *fileRepository) Save(_ context.Context, input *SaveInput) error {
	if input == nil || input.Configs == nil {
		return errors.New("input and configs cannot be nil")
	}

	data, err := json.MarshalIndent(input.Configs, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal guild configs: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write guild config file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace guild config file: %w", err)
	}
	return nil
}
