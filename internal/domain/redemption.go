package domain

import (
	"time"

	"github.com/google/uuid"
)

// RedemptionStatus is the redemption state machine:
// pending -> fulfilled (partner confirms / QR scanned) or
// pending -> cancelled (expiry or admin override). No other transitions.
type RedemptionStatus string

const (
	RedemptionPending   RedemptionStatus = "pending"
	RedemptionFulfilled RedemptionStatus = "fulfilled"
	RedemptionCancelled RedemptionStatus = "cancelled"
)

// RedemptionSource records which flow created the redemption.
type RedemptionSource string

const (
	SourcePurchase RedemptionSource = "purchase"
	SourceCapture  RedemptionSource = "capture"
)

// Redemption records points spent (or a capture-granted reward). The
// idempotency key is unique: a replayed request finds the existing row and
// does not double-apply.
type Redemption struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	RewardID       uuid.UUID        `json:"reward_id"`
	PointsSpent    int              `json:"points_spent"`
	Quantity       int              `json:"quantity"`
	Status         RedemptionStatus `json:"status"`
	IdempotencyKey string           `json:"idempotency_key"`
	Code           string           `json:"code,omitempty"` // opaque redemption code from the external allocator
	Source         RedemptionSource `json:"source"`
	CreatedAt      time.Time        `json:"created_at"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
}

// CanTransitionTo reports whether the state machine permits moving to next.
func (r *Redemption) CanTransitionTo(next RedemptionStatus) bool {
	if r.Status != RedemptionPending {
		return false
	}
	return next == RedemptionFulfilled || next == RedemptionCancelled
}
