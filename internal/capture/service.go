// Package capture implements the prize capture flow: proximity validation,
// anti-cheat scoring, payout decision, and the atomic commit of the claim.
package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/anticheat"
	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/repository"
	"github.com/waypointlabs/prizehunt/internal/reward"
)

// PrizeGetter serves prize definitions, normally through the PrizeCache.
type PrizeGetter interface {
	GetPrize(ctx context.Context, id uuid.UUID) (*domain.Prize, error)
}

// Checker is the anti-cheat surface the capture flow depends on.
type Checker interface {
	Check(ctx context.Context, attempt anticheat.Attempt) (anticheat.Verdict, error)
}

// StockLedger is the inventory surface used for direct reward grants.
type StockLedger interface {
	Reserve(ctx context.Context, rewardID uuid.UUID, qty int) (uuid.UUID, error)
	Confirm(ctx context.Context, reservationID uuid.UUID) error
	Release(ctx context.Context, reservationID uuid.UUID) error
}

// Distributor decides the payout composition for a passing attempt.
type Distributor interface {
	Decide(prize *domain.Prize, cctx reward.Context) reward.Decision
}

// CodeIssuer allocates opaque redemption codes.
type CodeIssuer interface {
	IssueCode(ctx context.Context) (string, error)
}

// Effects receives committed captures for post-commit dispatch.
type Effects interface {
	CaptureCommitted(ctx context.Context, result *domain.CaptureResult)
}

// Options are the capture flow tunables.
type Options struct {
	// DefaultCaptureRadius applies when a prize has no radius configured.
	DefaultCaptureRadius float64
	// RedemptionTTL bounds how long a capture-granted redemption stays pending.
	RedemptionTTL time.Duration
}

// Service is the capture transaction coordinator.
type Service struct {
	prizes      PrizeGetter
	repo        repository.Capture
	anticheat   Checker
	ledger      StockLedger
	distributor Distributor
	codes       CodeIssuer
	effects     Effects
	opts        Options
	now         func() time.Time
}

// NewService creates a capture Service.
func NewService(prizes PrizeGetter, repo repository.Capture, ac Checker, ledger StockLedger, dist Distributor, codes CodeIssuer, effects Effects, opts Options) *Service {
	return &Service{
		prizes:      prizes,
		repo:        repo,
		anticheat:   ac,
		ledger:      ledger,
		distributor: dist,
		codes:       codes,
		effects:     effects,
		opts:        opts,
		now:         time.Now,
	}
}

// deriveIdempotencyKey builds the replay key for attempts without a client
// token: same user, same prize, same minute means the same logical capture.
func deriveIdempotencyKey(userID, prizeID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("capture:%s:%s:%d", userID, prizeID, at.Unix()/60)
}

// effectiveRadius returns the prize radius or the configured default.
func (s *Service) effectiveRadius(prize *domain.Prize) float64 {
	if prize.CaptureRadius > 0 {
		return prize.CaptureRadius
	}
	return s.opts.DefaultCaptureRadius
}

// resultFromClaim rebuilds a CaptureResult from a previously committed claim.
func (s *Service) resultFromClaim(ctx context.Context, claim *domain.Claim) (*domain.CaptureResult, error) {
	result := &domain.CaptureResult{
		Claim:             claim,
		PointsAwarded:     claim.PointsAwarded,
		ValidationScore:   claim.ValidationScore,
		FulfillmentFailed: claim.FulfillmentFailed,
		Replayed:          true,
	}
	if claim.RedemptionID != nil {
		red, err := s.repo.GetRedemption(ctx, *claim.RedemptionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load redemption for replayed claim: %w", err)
		}
		result.Redemption = red
		result.RewardGranted = true
	}
	return result, nil
}
