package reward

// Bonus factors multiply into the points payout. Factors are independent and
// combine by multiplication, never addition.
const (
	// Proximity tiers are exclusive; only the closest matching tier applies.
	ProximityBonusUnder1m = 1.5
	ProximityBonusUnder2m = 1.25

	// Gesture capture takes more effort than a tap.
	GestureBonus = 1.2

	// Clean anti-cheat score above this threshold earns a trust bonus.
	HighScoreThreshold = 0.9
	HighScoreBonus     = 1.1
)
