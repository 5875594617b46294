package guildconfig

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/fromcord/fromcord/internal/repositories/guildconfig Repository

import (
	"context"
)

// Repository defines the interface for guild configuration persistence.
type Repository interface {
	// Load reads the full guild configuration map from the store
	Load(ctx context.Context) (*LoadOutput, error)

	// Save rewrites the store with the full guild configuration map
	Save(ctx context.Context, input *SaveInput) error
}
