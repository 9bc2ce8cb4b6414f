package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/anticheat"
	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/geo"
	"github.com/waypointlabs/prizehunt/internal/logger"
	"github.com/waypointlabs/prizehunt/internal/metrics"
	"github.com/waypointlabs/prizehunt/internal/repository"
	"github.com/waypointlabs/prizehunt/internal/reward"
)

// Attempt runs the full capture pipeline. Validation failures return before
// any durable mutation; once the commit succeeds the capture is final and
// side effects are dispatched asynchronously.
func (s *Service) Attempt(ctx context.Context, req domain.CaptureAttempt) (*domain.CaptureResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgAttemptCalled, "user_id", req.UserID, "prize_id", req.PrizeID, "method", req.Method)

	now := s.now()

	// 1. Resolve the idempotency key and short-circuit replays
	key := req.IdempotencyKey
	if key == "" {
		key = deriveIdempotencyKey(req.UserID, req.PrizeID, now)
	}
	if existing, err := s.repo.GetClaimByKey(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	} else if existing != nil {
		log.Info(LogMsgAttemptReplayed, "user_id", req.UserID, "claim_id", existing.ID)
		return s.resultFromClaim(ctx, existing)
	}

	// 2. Load the prize and check eligibility
	prize, err := s.prizes.GetPrize(ctx, req.PrizeID)
	if err != nil {
		return nil, s.reject(err)
	}
	if err := prize.Capturable(); err != nil {
		return nil, s.reject(err)
	}

	// 3. Proximity validation
	geoResult, err := geo.CanCapture(req.Location, prize.Location, s.effectiveRadius(prize))
	if err != nil {
		return nil, s.reject(err)
	}
	if geoResult.Unbounded {
		log.Info(LogMsgUnboundedPrize, "prize_id", prize.ID)
	}
	if !geoResult.OK {
		return nil, s.reject(fmt.Errorf("%w: %.1f m away (radius %.1f m)",
			domain.ErrTooFarFromPrize, geoResult.DistanceMeters, s.effectiveRadius(prize)))
	}

	// 4. Anti-cheat scoring
	verdict, err := s.anticheat.Check(ctx, anticheat.Attempt{
		UserID:            req.UserID.String(),
		Location:          req.Location,
		AccuracyMeters:    req.AccuracyMeters,
		DeviceFingerprint: req.Device.Fingerprint,
		AR:                req.AR,
		At:                now,
	})
	if err != nil {
		return nil, s.reject(err)
	}

	// 5. Payout decision
	decision := s.distributor.Decide(prize, reward.Context{
		DistanceMeters:  geoResult.DistanceMeters,
		Method:          req.Method,
		ValidationScore: verdict.Score,
		Unbounded:       geoResult.Unbounded,
	})

	// 6. Reserve the direct reward before entering the commit. Out-of-stock is
	// a fulfillment failure, never a capture failure: the player found the
	// prize and the record says so.
	var (
		reservationID     uuid.UUID
		rewardGranted     bool
		fulfillmentFailed bool
	)
	if decision.AttemptReward {
		reservationID, err = s.ledger.Reserve(ctx, prize.Reward.RewardID, 1)
		switch {
		case err == nil:
			rewardGranted = true
		case errors.Is(err, domain.ErrOutOfStock):
			fulfillmentFailed = true
			log.Warn(LogMsgFulfillmentFailed, "prize_id", prize.ID, "reward_id", prize.Reward.RewardID)
		default:
			fulfillmentFailed = true
			log.Error(LogMsgFulfillmentFailed, "prize_id", prize.ID, "reward_id", prize.Reward.RewardID, "error", err)
		}
	}

	// 7. Atomic commit
	result, err := s.commit(ctx, req, prize, key, verdict, decision, rewardGranted, fulfillmentFailed)
	if err != nil {
		if rewardGranted {
			s.releaseHold(ctx, reservationID)
		}
		if errors.Is(err, domain.ErrCommitConflict) {
			// A concurrent request with the same key won the insert race.
			if existing, lookupErr := s.repo.GetClaimByKey(ctx, key); lookupErr == nil && existing != nil {
				log.Info(LogMsgAttemptReplayed, "user_id", req.UserID, "claim_id", existing.ID)
				return s.resultFromClaim(ctx, existing)
			}
		}
		return nil, s.reject(err)
	}

	// 8. Burn the reservation now that the claim is durable
	if rewardGranted {
		if err := s.ledger.Confirm(ctx, reservationID); err != nil {
			result.NeedsReconciliation = true
			log.Error(LogMsgConfirmFailed,
				"reason_code", domain.CodeRedemptionCreationFailedAfterClaim,
				"reservation_id", reservationID, "claim_id", result.Claim.ID, "error", err)
		}
	}

	// 9. Metrics and side effects
	metrics.CapturesVerified.Inc()
	if result.PointsAwarded > 0 {
		metrics.PointsAwarded.Add(float64(result.PointsAwarded))
	}
	s.effects.CaptureCommitted(ctx, result)

	log.Info(LogMsgCaptureCommitted,
		"user_id", req.UserID,
		"prize_id", prize.ID,
		"claim_id", result.Claim.ID,
		"points", result.PointsAwarded,
		"reward_granted", result.RewardGranted,
		"score", verdict.Score,
		"failed_open", verdict.FailedOpen)
	return result, nil
}

// commit performs the all-or-nothing transaction: prize counter decrement,
// points credit, claim insert, optional redemption insert, stats bump.
func (s *Service) commit(ctx context.Context, req domain.CaptureAttempt, prize *domain.Prize, key string,
	verdict anticheat.Verdict, decision reward.Decision, rewardGranted, fulfillmentFailed bool) (*domain.CaptureResult, error) {

	now := s.now()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	// The guard predicate loses for exactly one of two racing captures of the
	// final unit.
	decremented, err := tx.DecrementPrizeQuantity(ctx, prize.ID)
	if err != nil {
		return nil, err
	}
	if !decremented {
		return nil, domain.ErrPrizeExhausted
	}

	if decision.Points > 0 {
		if err := tx.CreditPoints(ctx, req.UserID, decision.Points); err != nil {
			return nil, err
		}
	}

	claim := &domain.Claim{
		ID:                uuid.New(),
		UserID:            req.UserID,
		PrizeID:           prize.ID,
		Location:          req.Location,
		DistanceMeters:    0,
		ValidationScore:   verdict.Score,
		PointsAwarded:     decision.Points,
		Status:            domain.ClaimVerified,
		FulfillmentFailed: fulfillmentFailed,
		IdempotencyKey:    key,
		CreatedAt:         now,
	}
	if prize.Location != nil {
		claim.DistanceMeters = geo.Distance(req.Location, *prize.Location)
	}

	var redemption *domain.Redemption
	if rewardGranted {
		code, err := s.codes.IssueCode(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to issue redemption code: %w", err)
		}
		expires := now.Add(s.opts.RedemptionTTL)
		redemption = &domain.Redemption{
			ID:             uuid.New(),
			UserID:         req.UserID,
			RewardID:       prize.Reward.RewardID,
			PointsSpent:    0,
			Quantity:       1,
			Status:         domain.RedemptionPending,
			IdempotencyKey: "capture:" + claim.ID.String(),
			Code:           code,
			Source:         domain.SourceCapture,
			CreatedAt:      now,
			ExpiresAt:      &expires,
		}
		claim.RedemptionID = &redemption.ID
	}

	if err := tx.InsertClaim(ctx, claim); err != nil {
		return nil, err
	}
	if redemption != nil {
		if err := tx.InsertRedemption(ctx, redemption); err != nil {
			return nil, err
		}
	}
	if err := tx.BumpCaptureStats(ctx, req.UserID, rewardGranted); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}

	return &domain.CaptureResult{
		Claim:             claim,
		PointsAwarded:     decision.Points,
		RewardGranted:     rewardGranted,
		Redemption:        redemption,
		ValidationScore:   verdict.Score,
		FulfillmentFailed: fulfillmentFailed,
	}, nil
}

// reject counts the rejection by reason code before returning it.
func (s *Service) reject(err error) error {
	code := domain.ReasonCode(err)
	if code == "" {
		code = "INTERNAL"
	}
	metrics.CapturesRejected.WithLabelValues(code).Inc()
	return err
}

// releaseHold returns reserved stock after an aborted commit, logging rather
// than propagating: the capture error is what the caller needs to see.
func (s *Service) releaseHold(ctx context.Context, reservationID uuid.UUID) {
	if err := s.ledger.Release(ctx, reservationID); err != nil {
		logger.FromContext(ctx).Error("Failed to release reservation after abort",
			"reservation_id", reservationID, "error", err)
	}
}
