package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// Purchase defines the persistence contract for the marketplace flow.
type Purchase interface {
	// GetRedemptionByKey returns the redemption recorded under an idempotency
	// key, or nil when no such redemption exists.
	GetRedemptionByKey(ctx context.Context, key string) (*domain.Redemption, error)
	GetRedemption(ctx context.Context, id uuid.UUID) (*domain.Redemption, error)
	// CountUserRedemptions counts non-cancelled redemptions of a reward by a
	// user, for the per-user purchase cap.
	CountUserRedemptions(ctx context.Context, userID, rewardID uuid.UUID) (int, error)
	BeginTx(ctx context.Context) (PurchaseTx, error)

	// TransitionRedemption moves a pending redemption to next. Returns false
	// when the redemption was not pending (the state machine guard lost).
	TransitionRedemption(ctx context.Context, id uuid.UUID, next domain.RedemptionStatus) (bool, error)
	// ExpireStaleRedemptions cancels pending redemptions past their expiry.
	ExpireStaleRedemptions(ctx context.Context, now time.Time) ([]domain.Redemption, error)
}

// PurchaseTx is the all-or-nothing unit behind a purchase: the conditional
// balance debit and the redemption insert commit or roll back together.
type PurchaseTx interface {
	Tx
	// DebitPoints subtracts cost from points.available and adds it to
	// points.spent, guarded by points.available >= cost. Returns false when
	// the guard lost; no mutation happened in that case.
	DebitPoints(ctx context.Context, userID uuid.UUID, cost int) (bool, error)
	InsertRedemption(ctx context.Context, redemption *domain.Redemption) error
	BumpPurchaseStats(ctx context.Context, userID uuid.UUID) error
}
