package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// RewardRepository implements the reward inventory repository for PostgreSQL.
// Stock counters only ever move through single conditional UPDATEs; the
// guard predicate in the WHERE clause is what makes concurrent reservations
// race safely.
type RewardRepository struct {
	db *pgxpool.Pool
}

// NewRewardRepository creates a new RewardRepository
func NewRewardRepository(db *pgxpool.Pool) *RewardRepository {
	return &RewardRepository{db: db}
}

// GetReward retrieves a reward by ID
func (r *RewardRepository) GetReward(ctx context.Context, id uuid.UUID) (*domain.Reward, error) {
	query := `
		SELECT reward_id, name, points_cost, stock_quantity, stock_available,
		       stock_reserved, max_per_user, is_active, created_at
		FROM rewards
		WHERE reward_id = $1
	`

	var rw domain.Reward
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rw.ID,
		&rw.Name,
		&rw.PointsCost,
		&rw.StockQuantity,
		&rw.StockAvailable,
		&rw.StockReserved,
		&rw.MaxPerUser,
		&rw.IsActive,
		&rw.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrItemNotAvailable
		}
		return nil, fmt.Errorf("failed to get reward: %w", err)
	}
	return &rw, nil
}

// ListActiveRewards retrieves all active rewards
func (r *RewardRepository) ListActiveRewards(ctx context.Context) ([]domain.Reward, error) {
	query := `
		SELECT reward_id, name, points_cost, stock_quantity, stock_available,
		       stock_reserved, max_per_user, is_active, created_at
		FROM rewards
		WHERE is_active = TRUE
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []domain.Reward
	for rows.Next() {
		var rw domain.Reward
		if err := rows.Scan(
			&rw.ID,
			&rw.Name,
			&rw.PointsCost,
			&rw.StockQuantity,
			&rw.StockAvailable,
			&rw.StockReserved,
			&rw.MaxPerUser,
			&rw.IsActive,
			&rw.CreatedAt,
		); err != nil {
			return nil, err
		}
		rewards = append(rewards, rw)
	}
	return rewards, rows.Err()
}

// ReserveStock atomically holds qty units of a reward. The availability check
// and the decrement are one statement, so two concurrent reservations against
// the last unit cannot both win.
func (r *RewardRepository) ReserveStock(ctx context.Context, rewardID uuid.UUID, qty int) (uuid.UUID, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer SafeRollback(ctx, tx)

	// Unlimited rewards pass without touching counters.
	moveQuery := `
		UPDATE rewards
		SET stock_available = stock_available - $2,
		    stock_reserved = stock_reserved + $2
		WHERE reward_id = $1
		  AND stock_quantity != -1
		  AND stock_available >= $2
	`
	tag, err := tx.Exec(ctx, moveQuery, rewardID, qty)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to reserve stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either unlimited (no counters to move) or out of stock. Disambiguate.
		var unlimited bool
		err := tx.QueryRow(ctx,
			`SELECT stock_quantity = -1 FROM rewards WHERE reward_id = $1`,
			rewardID,
		).Scan(&unlimited)
		if err != nil {
			if err == pgx.ErrNoRows {
				return uuid.Nil, false, domain.ErrItemNotAvailable
			}
			return uuid.Nil, false, fmt.Errorf("failed to check stock mode: %w", err)
		}
		if !unlimited {
			return uuid.Nil, false, nil
		}
	}

	reservationID := uuid.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO stock_reservations (reservation_id, reward_id, qty, state) VALUES ($1, $2, $3, 'held')`,
		reservationID, rewardID, qty,
	)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to journal reservation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to commit reservation: %w", err)
	}
	return reservationID, true, nil
}

// ConfirmStock burns a held reservation: reserved is decremented, available
// stays where the reservation already put it.
func (r *RewardRepository) ConfirmStock(ctx context.Context, reservationID uuid.UUID) error {
	return r.closeReservation(ctx, reservationID, "confirmed", `
		UPDATE rewards
		SET stock_reserved = stock_reserved - $2
		WHERE reward_id = $1 AND stock_quantity != -1
	`)
}

// ReleaseStock reverses a held reservation after an abort.
func (r *RewardRepository) ReleaseStock(ctx context.Context, reservationID uuid.UUID) error {
	return r.closeReservation(ctx, reservationID, "released", `
		UPDATE rewards
		SET stock_reserved = stock_reserved - $2,
		    stock_available = stock_available + $2
		WHERE reward_id = $1 AND stock_quantity != -1
	`)
}

func (r *RewardRepository) closeReservation(ctx context.Context, reservationID uuid.UUID, state, counterQuery string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer SafeRollback(ctx, tx)

	var (
		rewardID uuid.UUID
		qty      int
	)
	// Guard on state = 'held' so a double confirm/release is a no-op.
	err = tx.QueryRow(ctx, `
		UPDATE stock_reservations
		SET state = $2
		WHERE reservation_id = $1 AND state = 'held'
		RETURNING reward_id, qty
	`, reservationID, state).Scan(&rewardID, &qty)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil
		}
		return fmt.Errorf("failed to close reservation: %w", err)
	}

	if _, err := tx.Exec(ctx, counterQuery, rewardID, qty); err != nil {
		return fmt.Errorf("failed to update stock counters: %w", err)
	}

	return tx.Commit(ctx)
}

// ReleaseStaleReservations sweeps held reservations older than cutoff back to
// available stock. Covers crashes between reserve and confirm/release.
func (r *RewardRepository) ReleaseStaleReservations(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer SafeRollback(ctx, tx)

	rows, err := tx.Query(ctx, `
		UPDATE stock_reservations
		SET state = 'released'
		WHERE state = 'held' AND created_at < $1
		RETURNING reward_id, qty
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep reservations: %w", err)
	}

	type hold struct {
		rewardID uuid.UUID
		qty      int
	}
	var holds []hold
	for rows.Next() {
		var h hold
		if err := rows.Scan(&h.rewardID, &h.qty); err != nil {
			rows.Close()
			return 0, err
		}
		holds = append(holds, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, h := range holds {
		_, err := tx.Exec(ctx, `
			UPDATE rewards
			SET stock_reserved = stock_reserved - $2,
			    stock_available = stock_available + $2
			WHERE reward_id = $1 AND stock_quantity != -1
		`, h.rewardID, h.qty)
		if err != nil {
			return 0, fmt.Errorf("failed to return swept stock: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int64(len(holds)), nil
}
