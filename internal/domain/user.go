package domain

import (
	"time"

	"github.com/google/uuid"
)

// PointsBalance tracks a user's points. At steady state
// Available = Total - Spent; all three are non-negative. Mutated only through
// the repository's atomic increment operations, never read-modify-write.
type PointsBalance struct {
	Available int `json:"available"`
	Total     int `json:"total"`
	Spent     int `json:"spent"`
}

// UserStats are denormalized gameplay counters, updated post-commit.
type UserStats struct {
	Captures       int `json:"captures"`
	RewardsGranted int `json:"rewards_granted"`
	Purchases      int `json:"purchases"`
}

// User is a registered player. Identity and authentication live upstream;
// here the ID is an already-authenticated opaque UUID.
type User struct {
	ID         uuid.UUID     `json:"id"`
	Username   string        `json:"username"`
	Points     PointsBalance `json:"points"`
	Level      int           `json:"level"`
	LastActive time.Time     `json:"last_active"`
	Stats      UserStats     `json:"stats"`
}
