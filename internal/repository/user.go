package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// User defines the interface for user persistence. Balance mutations live on
// the transaction interfaces; only the level, which is derived from lifetime
// points, is written here.
type User interface {
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// PromoteUserLevel raises the user's level to newLevel. Returns false when
	// the stored level is already >= newLevel (a concurrent promotion won).
	PromoteUserLevel(ctx context.Context, id uuid.UUID, newLevel int) (bool, error)
}
