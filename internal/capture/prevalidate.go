package capture

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/geo"
	"github.com/waypointlabs/prizehunt/internal/logger"
)

// PreValidation is the read-only answer to "would a capture here succeed the
// proximity checks". The AR client uses it to decide whether to show the
// capture UI before the player commits to an attempt.
type PreValidation struct {
	Eligible       bool    `json:"eligible"`
	DistanceMeters float64 `json:"distance_meters"`
	Unbounded      bool    `json:"unbounded,omitempty"`
	ReasonCode     string  `json:"reason_code,omitempty"`
}

// PreValidate checks prize eligibility and proximity without touching
// anti-cheat state or inventory. It must stay free of side effects: clients
// poll it while walking toward a prize.
func (s *Service) PreValidate(ctx context.Context, userID, prizeID uuid.UUID, loc domain.GeoPoint) (*PreValidation, error) {
	logger.FromContext(ctx).Debug(LogMsgPreValidateCalled, "user_id", userID, "prize_id", prizeID)

	prize, err := s.prizes.GetPrize(ctx, prizeID)
	if err != nil {
		return nil, err
	}

	if err := prize.Capturable(); err != nil {
		return &PreValidation{Eligible: false, ReasonCode: domain.ReasonCode(err)}, nil
	}

	geoResult, err := geo.CanCapture(loc, prize.Location, s.effectiveRadius(prize))
	if err != nil {
		return nil, fmt.Errorf("proximity check failed: %w", err)
	}

	pv := &PreValidation{
		Eligible:       geoResult.OK,
		DistanceMeters: geoResult.DistanceMeters,
		Unbounded:      geoResult.Unbounded,
	}
	if !geoResult.OK {
		pv.ReasonCode = domain.CodeTooFarFromPrize
	}
	return pv, nil
}
