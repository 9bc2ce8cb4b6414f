package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// Prize defines the interface for prize persistence. Prizes are created and
// edited by admin tooling outside this service; the engine only reads them
// and decrements quantity inside a capture transaction.
type Prize interface {
	GetPrize(ctx context.Context, id uuid.UUID) (*domain.Prize, error)
}
