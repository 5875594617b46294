package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/fromcord/fromcord/internal/repositories/session Repository

import (
	"context"
)

// Repository defines the interface for session persistence. The whole
// session map is read and written as one document; there is no incremental
// update.
type Repository interface {
	// Load reads the full session map from the store
	Load(ctx context.Context) (*LoadOutput, error)

	// Save rewrites the store with the full session map
	Save(ctx context.Context, input *SaveInput) error
}
