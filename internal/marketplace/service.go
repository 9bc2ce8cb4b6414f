// Package marketplace implements the points-for-rewards purchase flow and the
// redemption lifecycle. It shares the two-phase stock protocol with the
// capture flow: reserve before the commit, confirm or release after.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/logger"
	"github.com/waypointlabs/prizehunt/internal/metrics"
	"github.com/waypointlabs/prizehunt/internal/repository"
)

// StockLedger is the inventory surface the purchase flow depends on.
type StockLedger interface {
	GetReward(ctx context.Context, id uuid.UUID) (*domain.Reward, error)
	ListActive(ctx context.Context) ([]domain.Reward, error)
	Reserve(ctx context.Context, rewardID uuid.UUID, qty int) (uuid.UUID, error)
	Confirm(ctx context.Context, reservationID uuid.UUID) error
	Release(ctx context.Context, reservationID uuid.UUID) error
}

// CodeIssuer allocates opaque redemption codes.
type CodeIssuer interface {
	IssueCode(ctx context.Context) (string, error)
}

// Effects receives committed purchases and closed redemptions.
type Effects interface {
	PurchaseCommitted(ctx context.Context, redemption *domain.Redemption)
	RedemptionClosed(ctx context.Context, redemption *domain.Redemption)
}

// Options are the marketplace tunables.
type Options struct {
	// RedemptionTTL bounds how long a purchased redemption stays pending.
	RedemptionTTL time.Duration
}

// Service is the marketplace transaction coordinator.
type Service struct {
	repo    repository.Purchase
	users   repository.User
	ledger  StockLedger
	codes   CodeIssuer
	effects Effects
	opts    Options
	now     func() time.Time
}

// NewService creates a marketplace Service.
func NewService(repo repository.Purchase, users repository.User, ledger StockLedger, codes CodeIssuer, effects Effects, opts Options) *Service {
	return &Service{
		repo:    repo,
		users:   users,
		ledger:  ledger,
		codes:   codes,
		effects: effects,
		opts:    opts,
		now:     time.Now,
	}
}

// ListItems returns the purchasable rewards.
func (s *Service) ListItems(ctx context.Context) ([]domain.Reward, error) {
	return s.ledger.ListActive(ctx)
}

// deriveIdempotencyKey builds the replay key for purchases without a client
// token.
func deriveIdempotencyKey(userID, rewardID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("purchase:%s:%s:%d", userID, rewardID, at.Unix()/60)
}

// Purchase spends points on a reward. The debit, the redemption insert, and
// the stats bump commit atomically; stock is held before the transaction and
// confirmed or released after.
func (s *Service) Purchase(ctx context.Context, userID, rewardID uuid.UUID, quantity int, idempotencyKey string) (*domain.PurchaseResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgPurchaseCalled, "user_id", userID, "reward_id", rewardID, "quantity", quantity)

	// 1. Validate request
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	now := s.now()
	key := idempotencyKey
	if key == "" {
		key = deriveIdempotencyKey(userID, rewardID, now)
	}

	// 2. Short-circuit replays
	if existing, err := s.repo.GetRedemptionByKey(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	} else if existing != nil {
		log.Info(LogMsgPurchaseReplayed, "user_id", userID, "redemption_id", existing.ID)
		return s.replayResult(ctx, existing)
	}

	// 3. Load the reward and check eligibility
	reward, err := s.ledger.GetReward(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	if !reward.IsActive {
		return nil, domain.ErrItemNotAvailable
	}

	// 4. Per-user cap
	if reward.MaxPerUser > 0 {
		owned, err := s.repo.CountUserRedemptions(ctx, userID, rewardID)
		if err != nil {
			return nil, fmt.Errorf("failed to count redemptions: %w", err)
		}
		if owned+quantity > reward.MaxPerUser {
			return nil, fmt.Errorf("%w: %d owned, %d requested (max %d)",
				domain.ErrMaxPurchasesExceeded, owned, quantity, reward.MaxPerUser)
		}
	}

	// 5. Hold the stock before entering the commit
	reservationID, err := s.ledger.Reserve(ctx, rewardID, quantity)
	if err != nil {
		return nil, err
	}

	// 6. Atomic commit
	cost := reward.PointsCost * quantity
	redemption, err := s.commit(ctx, userID, reward, quantity, cost, key, now)
	if err != nil {
		s.releaseHold(ctx, reservationID)
		if errors.Is(err, domain.ErrCommitConflict) {
			// A concurrent request with the same key won the insert race.
			if existing, lookupErr := s.repo.GetRedemptionByKey(ctx, key); lookupErr == nil && existing != nil {
				log.Info(LogMsgPurchaseReplayed, "user_id", userID, "redemption_id", existing.ID)
				return s.replayResult(ctx, existing)
			}
		}
		return nil, err
	}

	// 7. Burn the reservation now that the redemption is durable
	if err := s.ledger.Confirm(ctx, reservationID); err != nil {
		log.Error(LogMsgConfirmFailed, "reservation_id", reservationID, "redemption_id", redemption.ID, "error", err)
	}

	// 8. Metrics and side effects
	metrics.PurchasesCompleted.Inc()
	metrics.PointsSpent.Add(float64(cost))
	s.effects.PurchaseCommitted(ctx, redemption)

	remaining, err := s.pointsRemaining(ctx, userID)
	if err != nil {
		// The purchase is committed; a failed balance read only degrades the response.
		log.Warn("Failed to read balance after purchase", "user_id", userID, "error", err)
	}

	log.Info(LogMsgPurchaseCommitted,
		"user_id", userID, "reward_id", rewardID, "redemption_id", redemption.ID, "cost", cost)
	return &domain.PurchaseResult{Redemption: redemption, PointsRemaining: remaining}, nil
}

// commit performs the all-or-nothing purchase transaction.
func (s *Service) commit(ctx context.Context, userID uuid.UUID, reward *domain.Reward, quantity, cost int, key string, now time.Time) (*domain.Redemption, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTransactionFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	// The balance guard makes concurrent spends race deterministically: two
	// purchases that together exceed the balance cannot both debit.
	debited, err := tx.DebitPoints(ctx, userID, cost)
	if err != nil {
		return nil, err
	}
	if !debited {
		return nil, fmt.Errorf("%w: cost %d", domain.ErrInsufficientPoints, cost)
	}

	code, err := s.codes.IssueCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to issue redemption code: %w", err)
	}

	expires := now.Add(s.opts.RedemptionTTL)
	redemption := &domain.Redemption{
		ID:             uuid.New(),
		UserID:         userID,
		RewardID:       reward.ID,
		PointsSpent:    cost,
		Quantity:       quantity,
		Status:         domain.RedemptionPending,
		IdempotencyKey: key,
		Code:           code,
		Source:         domain.SourcePurchase,
		CreatedAt:      now,
		ExpiresAt:      &expires,
	}

	if err := tx.InsertRedemption(ctx, redemption); err != nil {
		return nil, err
	}
	if err := tx.BumpPurchaseStats(ctx, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitTransactionFailed, err)
	}
	return redemption, nil
}

func (s *Service) replayResult(ctx context.Context, red *domain.Redemption) (*domain.PurchaseResult, error) {
	remaining, err := s.pointsRemaining(ctx, red.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.PurchaseResult{Redemption: red, PointsRemaining: remaining, Replayed: true}, nil
}

func (s *Service) pointsRemaining(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Points.Available, nil
}

// releaseHold returns reserved stock after an aborted commit.
func (s *Service) releaseHold(ctx context.Context, reservationID uuid.UUID) {
	if err := s.ledger.Release(ctx, reservationID); err != nil {
		logger.FromContext(ctx).Error("Failed to release reservation after abort",
			"reservation_id", reservationID, "error", err)
	}
}
