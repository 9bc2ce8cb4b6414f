package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/repository"
)

// PurchaseRepository implements the marketplace persistence contract for PostgreSQL
type PurchaseRepository struct {
	db *pgxpool.Pool
}

// NewPurchaseRepository creates a new PurchaseRepository
func NewPurchaseRepository(db *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

const redemptionColumns = `redemption_id, user_id, reward_id, points_spent, quantity,
	       status, idempotency_key, code, source, created_at, expires_at`

// GetRedemptionByKey returns the redemption stored under an idempotency key,
// or nil when no redemption exists for it.
func (r *PurchaseRepository) GetRedemptionByKey(ctx context.Context, key string) (*domain.Redemption, error) {
	query := `SELECT ` + redemptionColumns + ` FROM redemptions WHERE idempotency_key = $1`

	red, err := scanRedemption(r.db.QueryRow(ctx, query, key))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get redemption by key: %w", err)
	}
	return red, nil
}

// GetRedemption retrieves a redemption by ID
func (r *PurchaseRepository) GetRedemption(ctx context.Context, id uuid.UUID) (*domain.Redemption, error) {
	return getRedemption(ctx, r.db, id)
}

// CountUserRedemptions counts non-cancelled redemptions of a reward by a user.
// Cancelled redemptions returned their stock and do not count against the cap.
func (r *PurchaseRepository) CountUserRedemptions(ctx context.Context, userID, rewardID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM redemptions
		WHERE user_id = $1 AND reward_id = $2 AND status != 'cancelled'
	`, userID, rewardID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count redemptions: %w", err)
	}
	return count, nil
}

// BeginTx starts a purchase commit transaction
func (r *PurchaseRepository) BeginTx(ctx context.Context) (repository.PurchaseTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &purchaseTx{tx: tx}, nil
}

// TransitionRedemption moves a pending redemption to next. The status guard
// in the WHERE clause enforces the state machine under concurrency.
func (r *PurchaseRepository) TransitionRedemption(ctx context.Context, id uuid.UUID, next domain.RedemptionStatus) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE redemptions
		SET status = $2
		WHERE redemption_id = $1 AND status = 'pending'
	`, id, next)
	if err != nil {
		return false, fmt.Errorf("failed to transition redemption: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ExpireStaleRedemptions cancels pending redemptions past their expiry and
// returns them so the caller can release the held stock.
func (r *PurchaseRepository) ExpireStaleRedemptions(ctx context.Context, now time.Time) ([]domain.Redemption, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE redemptions
		SET status = 'cancelled'
		WHERE status = 'pending' AND expires_at IS NOT NULL AND expires_at < $1
		RETURNING `+redemptionColumns,
		now)
	if err != nil {
		return nil, fmt.Errorf("failed to expire redemptions: %w", err)
	}
	defer rows.Close()

	var expired []domain.Redemption
	for rows.Next() {
		red, err := scanRedemption(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *red)
	}
	return expired, rows.Err()
}

type purchaseTx struct {
	tx pgx.Tx
}

func (t *purchaseTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *purchaseTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// DebitPoints subtracts cost from available and adds it to spent, guarded by
// the balance check. A losing guard means insufficient points with no mutation.
func (t *purchaseTx) DebitPoints(ctx context.Context, userID uuid.UUID, cost int) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE users
		SET points_available = points_available - $2,
		    points_spent = points_spent + $2,
		    last_active = NOW()
		WHERE user_id = $1 AND points_available >= $2
	`, userID, cost)
	if err != nil {
		return false, fmt.Errorf("failed to debit points: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (t *purchaseTx) InsertRedemption(ctx context.Context, redemption *domain.Redemption) error {
	return insertRedemption(ctx, t.tx, redemption)
}

func (t *purchaseTx) BumpPurchaseStats(ctx context.Context, userID uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `UPDATE users SET purchases = purchases + 1 WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to bump purchase stats: %w", err)
	}
	return nil
}

// rowQuerier covers both the pool and a transaction for shared lookups.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getRedemption(ctx context.Context, db rowQuerier, id uuid.UUID) (*domain.Redemption, error) {
	query := `SELECT ` + redemptionColumns + ` FROM redemptions WHERE redemption_id = $1`

	red, err := scanRedemption(db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrItemNotAvailable
		}
		return nil, fmt.Errorf("failed to get redemption: %w", err)
	}
	return red, nil
}

func insertRedemption(ctx context.Context, tx pgx.Tx, red *domain.Redemption) error {
	var code *string
	if red.Code != "" {
		code = &red.Code
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO redemptions (redemption_id, user_id, reward_id, points_spent,
		                         quantity, status, idempotency_key, code, source,
		                         created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		red.ID, red.UserID, red.RewardID, red.PointsSpent, red.Quantity,
		red.Status, red.IdempotencyKey, code, red.Source,
		red.CreatedAt, red.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err, "redemptions_idempotency_key_unique") {
			return domain.ErrCommitConflict
		}
		return fmt.Errorf("failed to insert redemption: %w", err)
	}
	return nil
}

func scanRedemption(row rowScanner) (*domain.Redemption, error) {
	var (
		red  domain.Redemption
		code *string
	)
	err := row.Scan(
		&red.ID,
		&red.UserID,
		&red.RewardID,
		&red.PointsSpent,
		&red.Quantity,
		&red.Status,
		&red.IdempotencyKey,
		&code,
		&red.Source,
		&red.CreatedAt,
		&red.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	if code != nil {
		red.Code = *code
	}
	return &red, nil
}
