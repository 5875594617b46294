package session

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/fromcord/fromcord/internal/services/session Service

import (
	"context"

	"github.com/fromcord/fromcord/internal/models"
)

// Service coordinates nightreign sessions: lifecycle operations invoked by
// command handlers, the periodic evaluator sweep, the reconciliation sweep,
// and persistence.
type Service interface {
	// Load reads the session store into memory
	Load(ctx context.Context) error

	// Save flushes the in-memory session map to the store
	Save(ctx context.Context) error

	// Get returns a session by ID
	Get(sessionID string) (*models.Session, error)

	// Create allocates a session and its restricted channel
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)

	// Join adds the caller to a public session by ID
	Join(ctx context.Context, input *JoinInput) (*JoinOutput, error)

	// Add invites a user into the session bound to the invoking channel,
	// bypassing the privacy gate
	Add(ctx context.Context, input *AddInput) (*AddOutput, error)

	// Leave removes the caller from the session bound to the invoking
	// channel; the channel itself survives until reconciliation
	Leave(ctx context.Context, input *LeaveInput) (*LeaveOutput, error)

	// Remove kicks a user from the session bound to the invoking channel
	Remove(ctx context.Context, input *RemoveInput) (*RemoveOutput, error)

	// Close deletes the session and its channel outright
	Close(ctx context.Context, input *CloseInput) (*CloseOutput, error)

	// Start timestamps a run and begins the event schedule
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)

	// SetBoss records the nightlord for the run, gating boss lore events
	SetBoss(ctx context.Context, input *SetBossInput) error

	// List renders the guild's public sessions as a table
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// Sweep evaluates every active session once, concurrently, and retires
	// runs whose eligible events have all fired
	Sweep(ctx context.Context)

	// Reconcile prunes sessions whose backing chat resources are gone or
	// whose membership is empty
	Reconcile(ctx context.Context)
}
