package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClaimStatus is the outcome recorded on a claim. Rejected attempts never
// persist a claim row, so stored claims are "verified" unless moderation
// later corrects them.
type ClaimStatus string

const (
	ClaimVerified ClaimStatus = "verified"
	ClaimRejected ClaimStatus = "rejected"
)

// Claim is the immutable record of a successful capture. Created exactly once
// per capture; the idempotency key guards replays.
type Claim struct {
	ID                uuid.UUID   `json:"id"`
	UserID            uuid.UUID   `json:"user_id"`
	PrizeID           uuid.UUID   `json:"prize_id"`
	Location          GeoPoint    `json:"location"`
	DistanceMeters    float64     `json:"distance_meters"`
	ValidationScore   float64     `json:"validation_score"`
	PointsAwarded     int         `json:"points_awarded"`
	Status            ClaimStatus `json:"status"`
	RedemptionID      *uuid.UUID  `json:"redemption_id,omitempty"`
	FulfillmentFailed bool        `json:"fulfillment_failed"`
	IdempotencyKey    string      `json:"idempotency_key"`
	CreatedAt         time.Time   `json:"created_at"`
}
