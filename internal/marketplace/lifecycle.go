package marketplace

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/logger"
)

// GetRedemption retrieves a redemption by ID
func (s *Service) GetRedemption(ctx context.Context, id uuid.UUID) (*domain.Redemption, error) {
	return s.repo.GetRedemption(ctx, id)
}

// Fulfill moves a pending redemption to fulfilled. Called when the partner
// confirms the code or the QR is scanned.
func (s *Service) Fulfill(ctx context.Context, id uuid.UUID) (*domain.Redemption, error) {
	return s.transition(ctx, id, domain.RedemptionFulfilled)
}

// Cancel moves a pending redemption to cancelled (admin override). Points and
// stock are not automatically restored; that stays an explicit operator action.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*domain.Redemption, error) {
	return s.transition(ctx, id, domain.RedemptionCancelled)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, next domain.RedemptionStatus) (*domain.Redemption, error) {
	red, err := s.repo.GetRedemption(ctx, id)
	if err != nil {
		return nil, err
	}
	if !red.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, red.Status, next)
	}

	// The status guard in the repository makes this race-safe; losing the
	// race means someone else transitioned first.
	ok, err := s.repo.TransitionRedemption(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("failed to transition redemption: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: redemption no longer pending", domain.ErrInvalidTransition)
	}

	red.Status = next
	logger.FromContext(ctx).Info(LogMsgRedemptionClosed, "redemption_id", id, "status", next)
	s.effects.RedemptionClosed(ctx, red)
	return red, nil
}

// ExpireStale cancels pending redemptions past their expiry. Run periodically
// by the sweep worker; idempotent across replicas.
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	expired, err := s.repo.ExpireStaleRedemptions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire redemptions: %w", err)
	}

	for i := range expired {
		s.effects.RedemptionClosed(ctx, &expired[i])
	}

	if len(expired) > 0 {
		logger.FromContext(ctx).Info(LogMsgExpiredRedemptions, "count", len(expired))
	}
	return len(expired), nil
}
