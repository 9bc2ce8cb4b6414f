package domain

// Event type names shared between publishers and subscribers.
const (
	EventTypePrizeCaptured    = "prize.captured"
	EventTypeRewardGranted    = "reward.granted"
	EventTypeItemPurchased    = "item.purchased"
	EventTypeRedemptionClosed = "redemption.closed"
	EventTypeUserLevelUp      = "user.level_up"
)

// PrizeCapturedPayload is published after a capture commits.
type PrizeCapturedPayload struct {
	UserID          string  `json:"user_id"`
	PrizeID         string  `json:"prize_id"`
	ClaimID         string  `json:"claim_id"`
	PointsAwarded   int     `json:"points_awarded"`
	RewardGranted   bool    `json:"reward_granted"`
	ValidationScore float64 `json:"validation_score"`
	DistanceMeters  float64 `json:"distance_meters"`
	Timestamp       int64   `json:"timestamp"`
}

// RewardGrantedPayload is published when a capture grants a direct reward.
type RewardGrantedPayload struct {
	UserID       string `json:"user_id"`
	PrizeID      string `json:"prize_id"`
	RewardID     string `json:"reward_id"`
	RedemptionID string `json:"redemption_id"`
	Timestamp    int64  `json:"timestamp"`
}

// ItemPurchasedPayload is published after a marketplace purchase commits.
type ItemPurchasedPayload struct {
	UserID       string `json:"user_id"`
	RewardID     string `json:"reward_id"`
	RedemptionID string `json:"redemption_id"`
	PointsSpent  int    `json:"points_spent"`
	Quantity     int    `json:"quantity"`
	Timestamp    int64  `json:"timestamp"`
}

// RedemptionClosedPayload is published when a redemption leaves pending.
type RedemptionClosedPayload struct {
	RedemptionID string `json:"redemption_id"`
	UserID       string `json:"user_id"`
	Status       string `json:"status"`
	Timestamp    int64  `json:"timestamp"`
}

// UserLevelUpPayload is published when the post-commit progression check levels a user.
type UserLevelUpPayload struct {
	UserID    string `json:"user_id"`
	OldLevel  int    `json:"old_level"`
	NewLevel  int    `json:"new_level"`
	Timestamp int64  `json:"timestamp"`
}
