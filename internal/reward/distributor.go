// Package reward decides the payout composition of a successful capture.
// The decision is pure; stock reservation and persistence happen in the
// capture flow based on the decision.
package reward

import (
	"math"

	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/utils"
)

// Decision is the computed payout for a capture.
type Decision struct {
	// Points to credit. Zero for PolicyReward.
	Points int
	// AttemptReward is set when the direct reward should be reserved. For
	// PolicyReward it is always set; for PolicyHybrid it depends on the
	// probability roll. The caller handles a failed reservation as a
	// fulfillment failure, never a capture failure.
	AttemptReward bool
}

// Context carries the capture attributes that feed the bonus factors.
type Context struct {
	DistanceMeters  float64
	Method          domain.CaptureMethod
	ValidationScore float64
	// Unbounded prizes have no distance; proximity bonuses do not apply.
	Unbounded bool
}

// Distributor computes payout decisions. The random source is injected so
// probability rolls are deterministic in tests.
type Distributor struct {
	rnd func() float64
}

// NewDistributor creates a Distributor using the default random source.
func NewDistributor() *Distributor {
	return &Distributor{rnd: utils.RandomFloat}
}

// NewDistributorWithRand creates a Distributor with an injected random source
// returning values in [0, 1).
func NewDistributorWithRand(rnd func() float64) *Distributor {
	return &Distributor{rnd: rnd}
}

// Decide computes the payout for a prize under its policy.
func (d *Distributor) Decide(prize *domain.Prize, cctx Context) Decision {
	switch prize.Policy {
	case domain.PolicyReward:
		return Decision{AttemptReward: prize.Reward != nil}
	case domain.PolicyHybrid:
		dec := Decision{Points: d.pointsPayout(prize, cctx)}
		if prize.Reward != nil && d.rnd() < prize.Reward.Probability {
			dec.AttemptReward = true
		}
		return dec
	default: // domain.PolicyPoints
		return Decision{Points: d.pointsPayout(prize, cctx)}
	}
}

// pointsPayout applies the stored prize multiplier and the capture bonus
// factors to the base amount. Factors multiply; the result is floored.
func (d *Distributor) pointsPayout(prize *domain.Prize, cctx Context) int {
	mult := prize.Points.BonusMultiplier
	if mult <= 0 {
		mult = 1.0
	}

	if !cctx.Unbounded {
		switch {
		case cctx.DistanceMeters < 1.0:
			mult *= ProximityBonusUnder1m
		case cctx.DistanceMeters < 2.0:
			mult *= ProximityBonusUnder2m
		}
	}
	if cctx.Method == domain.MethodGesture {
		mult *= GestureBonus
	}
	if cctx.ValidationScore > HighScoreThreshold {
		mult *= HighScoreBonus
	}

	return int(math.Floor(float64(prize.Points.Amount) * mult))
}
