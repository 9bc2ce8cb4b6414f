package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reward is a marketplace item purchasable with points, or granted directly by
// a prize capture. Stock obeys the two-phase reservation invariant:
// stock_available + stock_reserved <= stock_quantity (when finite), and
// stock_available never goes negative.
type Reward struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	PointsCost     int       `json:"points_cost"`
	StockQuantity  int       `json:"stock_quantity"` // UnlimitedStock for no cap
	StockAvailable int       `json:"stock_available"`
	StockReserved  int       `json:"stock_reserved"`
	MaxPerUser     int       `json:"max_per_user"` // 0 means no per-user cap
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Unlimited reports whether the reward ignores stock accounting.
func (r *Reward) Unlimited() bool {
	return r.StockQuantity == UnlimitedStock
}
