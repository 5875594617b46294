package uuid

import (
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/fromcord/fromcord/internal/common/uuid UUID

type UUID interface {
	NewUUID() string
}

// DefaultUUID implements the UUID interface using the uuid package

type DefaultUUID struct{}

func New() *DefaultUUID {
	return &DefaultUUID{}
}

// NewUUID returns a new UUID as a bare hex string, the format session IDs
// and passwords have always used.
func (d *DefaultUUID) NewUUID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
