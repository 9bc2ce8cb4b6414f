package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// RewardInventory defines the storage operations behind the two-phase stock
// reservation protocol. The stock counters are mutated only by single
// conditional UPDATEs so concurrent requests race on the guard predicate,
// never on a read-then-write. Each hold is journaled in a reservation row so
// holds abandoned by a crash can be swept back.
type RewardInventory interface {
	GetReward(ctx context.Context, id uuid.UUID) (*domain.Reward, error)
	ListActiveRewards(ctx context.Context) ([]domain.Reward, error)

	// ReserveStock atomically moves qty from available to reserved and
	// journals the hold. Returns (uuid.Nil, false, nil) when
	// stock_available < qty; no mutation happened in that case.
	ReserveStock(ctx context.Context, rewardID uuid.UUID, qty int) (uuid.UUID, bool, error)
	// ConfirmStock burns the held quantity after a successful commit.
	ConfirmStock(ctx context.Context, reservationID uuid.UUID) error
	// ReleaseStock returns the held quantity to available after an abort.
	ReleaseStock(ctx context.Context, reservationID uuid.UUID) error
	// ReleaseStaleReservations sweeps holds older than cutoff back to
	// available. Reconciliation for crashes between reserve and confirm/release.
	ReleaseStaleReservations(ctx context.Context, cutoff time.Time) (int64, error)
}
