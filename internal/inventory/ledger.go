// Package inventory implements the two-phase stock ledger for marketplace
// rewards. A reserve places a hold, and the hold is later confirmed (stock
// burned) or released (stock returned). Holds abandoned by a crash are swept
// back by the stale-hold reconciler.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/logger"
	"github.com/waypointlabs/prizehunt/internal/metrics"
	"github.com/waypointlabs/prizehunt/internal/repository"
)

// Ledger coordinates stock reservations over the inventory repository.
type Ledger struct {
	repo repository.RewardInventory
}

// NewLedger creates a new Ledger
func NewLedger(repo repository.RewardInventory) *Ledger {
	return &Ledger{repo: repo}
}

// GetReward retrieves a reward by ID
func (l *Ledger) GetReward(ctx context.Context, id uuid.UUID) (*domain.Reward, error) {
	return l.repo.GetReward(ctx, id)
}

// ListActive retrieves all active rewards
func (l *Ledger) ListActive(ctx context.Context) ([]domain.Reward, error) {
	return l.repo.ListActiveRewards(ctx)
}

// Reserve places a hold on qty units of a reward. Returns ErrOutOfStock when
// available stock cannot cover the hold; nothing was mutated in that case.
func (l *Ledger) Reserve(ctx context.Context, rewardID uuid.UUID, qty int) (uuid.UUID, error) {
	if qty <= 0 {
		return uuid.Nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	reservationID, ok, err := l.repo.ReserveStock(ctx, rewardID, qty)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to reserve stock: %w", err)
	}
	if !ok {
		metrics.ReservationConflicts.Inc()
		return uuid.Nil, domain.ErrOutOfStock
	}
	return reservationID, nil
}

// Confirm burns a held reservation after the owning transaction committed.
// Idempotent: confirming an already closed reservation is a no-op.
func (l *Ledger) Confirm(ctx context.Context, reservationID uuid.UUID) error {
	if err := l.repo.ConfirmStock(ctx, reservationID); err != nil {
		return fmt.Errorf("failed to confirm reservation %s: %w", reservationID, err)
	}
	return nil
}

// Release returns a held reservation to available stock after an abort.
// Idempotent: releasing an already closed reservation is a no-op.
func (l *Ledger) Release(ctx context.Context, reservationID uuid.UUID) error {
	if err := l.repo.ReleaseStock(ctx, reservationID); err != nil {
		return fmt.Errorf("failed to release reservation %s: %w", reservationID, err)
	}
	return nil
}

// SweepStaleHolds releases holds older than ttl. Run periodically; covers
// processes that crashed between reserve and confirm/release.
func (l *Ledger) SweepStaleHolds(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := time.Now().Add(-ttl)
	swept, err := l.repo.ReleaseStaleReservations(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale holds: %w", err)
	}
	if swept > 0 {
		logger.FromContext(ctx).Warn("Released stale stock reservations", "count", swept, "cutoff", cutoff)
	}
	return swept, nil
}
