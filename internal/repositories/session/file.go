package session

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

// ErrBadFormat is returned when the sessions file exists but does not hold
// the expected document shape. Callers fall back to an empty store but
// should log loudly, since overwriting the file will lose whatever is there.
var ErrBadFormat = errors.New("sessions file is not in the expected format")

// Config holds configuration for the file-backed session repository
type Config struct {
	// Path of the sessions JSON document
	Path string
}

// fileRepository implements the Repository interface on a single JSON file
type fileRepository struct {
	path string
}

// NewFile creates a new file-backed session repository
func NewFile(cfg *Config) (*fileRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Path == "" {
		return nil, errors.New("path cannot be empty")
	}
	return &fileRepository{path: cfg.Path}, nil
}

// Load reads the full session map. A missing file is an empty store; a
// malformed file yields an empty map alongside an ErrBadFormat-wrapped
// error.
func (r *fileRepository) Load(_ context.Context) (*LoadOutput, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &LoadOutput{Sessions: make(map[string]*models.Session)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions file: %w", err)
	}

	sessions := make(map[string]*models.Session)
	if err := json.Unmarshal(data, &sessions); err != nil {
		return &LoadOutput{Sessions: make(map[string]*models.Session)},
			fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	return &LoadOutput{Sessions: sessions}, nil
}

// Save rewrites the store wholesale. The document is written to a sibling
// temp file and renamed over the old one so a crash mid-write never leaves
// a torn file behind.
func (r *fileRepository) Save(_ context.Context, input *SaveInput) error {
	if input == nil || input.Sessions == nil {
		return errors.New("input and sessions cannot be nil")
	}

	data, err := json.MarshalIndent(input.Sessions, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sessions file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace sessions file: %w", err)
	}
	return nil
}
