package domain

import (
	"github.com/google/uuid"
)

// CaptureMethod is how the player performed the capture in the AR client.
type CaptureMethod string

const (
	MethodTap     CaptureMethod = "tap"
	MethodGesture CaptureMethod = "gesture"
)

// DeviceInfo is the client-reported device identity used by anti-cheat.
type DeviceInfo struct {
	Fingerprint string `json:"fingerprint"`
	Model       string `json:"model,omitempty"`
}

// ARData is the client-reported AR session state at capture time.
type ARData struct {
	Tracking      bool    `json:"tracking"`
	LightEstimate float64 `json:"light_estimate"` // lumens estimate from the AR framework
}

// CaptureAttempt is a validated inbound capture request.
type CaptureAttempt struct {
	UserID         uuid.UUID     `json:"user_id"`
	PrizeID        uuid.UUID     `json:"prize_id"`
	Location       GeoPoint      `json:"location"`
	AccuracyMeters float64       `json:"accuracy_m"` // GPS accuracy; 0 means unreported
	Device         DeviceInfo    `json:"device"`
	AR             *ARData       `json:"ar,omitempty"`
	Method         CaptureMethod `json:"method"`
	IdempotencyKey string        `json:"idempotency_key,omitempty"` // optional client token
}

// CaptureResult is the outcome of a committed capture.
type CaptureResult struct {
	Claim               *Claim      `json:"claim"`
	PointsAwarded       int         `json:"points_awarded"`
	RewardGranted       bool        `json:"reward_granted"`
	Redemption          *Redemption `json:"redemption,omitempty"`
	ValidationScore     float64     `json:"validation_score"`
	FulfillmentFailed   bool        `json:"fulfillment_failed"`
	NeedsReconciliation bool        `json:"-"` // operator signal, not exposed to clients
	Replayed            bool        `json:"replayed,omitempty"`
}

// PurchaseResult is the outcome of a committed marketplace purchase.
type PurchaseResult struct {
	Redemption      *Redemption `json:"redemption"`
	PointsRemaining int         `json:"points_remaining"`
	Replayed        bool        `json:"replayed,omitempty"`
}
