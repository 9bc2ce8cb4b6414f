package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UnlimitedStock is the sentinel quantity for prizes and rewards that never deplete.
const UnlimitedStock = -1

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PayoutPolicy is the closed set of payout compositions a prize can carry.
// There is deliberately no fallback for unknown values: ParsePayoutPolicy
// rejects anything outside the set.
type PayoutPolicy string

const (
	PolicyPoints PayoutPolicy = "points"
	PolicyReward PayoutPolicy = "reward"
	PolicyHybrid PayoutPolicy = "hybrid"
)

// Valid reports whether the policy is a member of the closed set.
func (p PayoutPolicy) Valid() bool {
	switch p {
	case PolicyPoints, PolicyReward, PolicyHybrid:
		return true
	}
	return false
}

// ParsePayoutPolicy converts a stored string to a PayoutPolicy.
func ParsePayoutPolicy(s string) (PayoutPolicy, error) {
	p := PayoutPolicy(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown payout policy %q", ErrInvalidInput, s)
	}
	return p, nil
}

// PrizeStatus is the admin-controlled lifecycle state of a prize.
type PrizeStatus string

const (
	PrizeActive   PrizeStatus = "active"
	PrizeInactive PrizeStatus = "inactive"
)

// PointsPayout is the guaranteed points component of a prize.
type PointsPayout struct {
	Amount          int     `json:"amount"`
	BonusMultiplier float64 `json:"bonus_multiplier"`
}

// DirectReward configures the optional reserved-item component of a prize.
type DirectReward struct {
	RewardID    uuid.UUID `json:"reward_id"`
	Probability float64   `json:"probability"` // [0,1]; 1.0 for PolicyReward
}

// Prize is a geofenced capture target placed by admin tooling.
// Quantity is decremented exactly once per successful capture and never goes
// negative; UnlimitedStock disables depletion.
type Prize struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Location     *GeoPoint     `json:"location,omitempty"` // nil means unbounded (no proximity check)
	CaptureRadius float64      `json:"capture_radius_m"`
	Quantity     int           `json:"quantity"`
	Policy       PayoutPolicy  `json:"policy"`
	Points       PointsPayout  `json:"points"`
	Reward       *DirectReward `json:"reward,omitempty"`
	Status       PrizeStatus   `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Capturable reports whether the prize can currently be captured at all,
// independent of the caller's location.
func (p *Prize) Capturable() error {
	if p.Status != PrizeActive {
		return ErrPrizeNotActive
	}
	if p.Quantity != UnlimitedStock && p.Quantity <= 0 {
		return ErrPrizeExhausted
	}
	return nil
}
