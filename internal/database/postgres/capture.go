package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/repository"
)

// CaptureRepository implements the capture persistence contract for PostgreSQL
type CaptureRepository struct {
	db *pgxpool.Pool
}

// NewCaptureRepository creates a new CaptureRepository
func NewCaptureRepository(db *pgxpool.Pool) *CaptureRepository {
	return &CaptureRepository{db: db}
}

// GetClaimByKey returns the claim stored under an idempotency key, or nil
// when no claim exists for it.
func (r *CaptureRepository) GetClaimByKey(ctx context.Context, key string) (*domain.Claim, error) {
	query := `
		SELECT claim_id, user_id, prize_id, lat, lng, distance_m, validation_score,
		       points_awarded, status, redemption_id, fulfillment_failed,
		       idempotency_key, created_at
		FROM claims
		WHERE idempotency_key = $1
	`

	claim, err := scanClaim(r.db.QueryRow(ctx, query, key))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get claim by key: %w", err)
	}
	return claim, nil
}

// GetRedemption retrieves a redemption by ID
func (r *CaptureRepository) GetRedemption(ctx context.Context, id uuid.UUID) (*domain.Redemption, error) {
	return getRedemption(ctx, r.db, id)
}

// BeginTx starts a capture commit transaction
func (r *CaptureRepository) BeginTx(ctx context.Context) (repository.CaptureTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &captureTx{tx: tx}, nil
}

type captureTx struct {
	tx pgx.Tx
}

func (t *captureTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *captureTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// CreditPoints adds amount to the user's available and lifetime totals.
func (t *captureTx) CreditPoints(ctx context.Context, userID uuid.UUID, amount int) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE users
		SET points_available = points_available + $2,
		    points_total = points_total + $2,
		    last_active = NOW()
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DecrementPrizeQuantity consumes one unit of a finite prize. The guard
// predicate makes the final-unit race deterministic: exactly one committer
// wins, the other sees false.
func (t *captureTx) DecrementPrizeQuantity(ctx context.Context, prizeID uuid.UUID) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
		UPDATE prizes
		SET quantity = CASE WHEN quantity = -1 THEN -1 ELSE quantity - 1 END
		WHERE prize_id = $1
		  AND (quantity = -1 OR quantity > 0)
	`, prizeID)
	if err != nil {
		return false, fmt.Errorf("failed to decrement prize quantity: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// InsertClaim records the capture. A unique violation on the idempotency key
// means a concurrent request committed first and surfaces as a commit conflict.
func (t *captureTx) InsertClaim(ctx context.Context, claim *domain.Claim) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO claims (claim_id, user_id, prize_id, lat, lng, distance_m,
		                    validation_score, points_awarded, status, redemption_id,
		                    fulfillment_failed, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		claim.ID, claim.UserID, claim.PrizeID,
		claim.Location.Lat, claim.Location.Lng,
		claim.DistanceMeters, claim.ValidationScore, claim.PointsAwarded,
		claim.Status, claim.RedemptionID, claim.FulfillmentFailed,
		claim.IdempotencyKey, claim.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "claims_idempotency_key_unique") {
			return domain.ErrCommitConflict
		}
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

func (t *captureTx) InsertRedemption(ctx context.Context, redemption *domain.Redemption) error {
	return insertRedemption(ctx, t.tx, redemption)
}

// BumpCaptureStats updates the denormalized user counters.
func (t *captureTx) BumpCaptureStats(ctx context.Context, userID uuid.UUID, rewardGranted bool) error {
	rewardInc := 0
	if rewardGranted {
		rewardInc = 1
	}
	_, err := t.tx.Exec(ctx, `
		UPDATE users
		SET captures = captures + 1,
		    rewards_granted = rewards_granted + $2
		WHERE user_id = $1
	`, userID, rewardInc)
	if err != nil {
		return fmt.Errorf("failed to bump capture stats: %w", err)
	}
	return nil
}

// rowScanner covers both pgx.Row and pgx.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanClaim(row rowScanner) (*domain.Claim, error) {
	var c domain.Claim
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.PrizeID,
		&c.Location.Lat,
		&c.Location.Lng,
		&c.DistanceMeters,
		&c.ValidationScore,
		&c.PointsAwarded,
		&c.Status,
		&c.RedemptionID,
		&c.FulfillmentFailed,
		&c.IdempotencyKey,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
