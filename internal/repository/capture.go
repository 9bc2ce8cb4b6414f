package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// Capture defines the persistence contract for the capture commit.
type Capture interface {
	// GetClaimByKey returns the claim recorded under an idempotency key,
	// or nil when no such claim exists.
	GetClaimByKey(ctx context.Context, key string) (*domain.Claim, error)
	GetRedemption(ctx context.Context, id uuid.UUID) (*domain.Redemption, error)
	BeginTx(ctx context.Context) (CaptureTx, error)
}

// CaptureTx is the all-or-nothing unit behind a capture: balance credit,
// claim and optional redemption insert, and the prize counter decrement
// commit or roll back together.
type CaptureTx interface {
	Tx
	// CreditPoints adds amount to points.available and points.total via
	// atomic increment.
	CreditPoints(ctx context.Context, userID uuid.UUID, amount int) error
	// DecrementPrizeQuantity consumes one unit of a finite prize. Returns
	// false when the prize is already exhausted (the guard predicate lost).
	// Unlimited prizes succeed without mutation.
	DecrementPrizeQuantity(ctx context.Context, prizeID uuid.UUID) (bool, error)
	InsertClaim(ctx context.Context, claim *domain.Claim) error
	InsertRedemption(ctx context.Context, redemption *domain.Redemption) error
	// BumpCaptureStats updates the user's denormalized capture counters.
	BumpCaptureStats(ctx context.Context, userID uuid.UUID, rewardGranted bool) error
}
