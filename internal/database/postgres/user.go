package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetUser retrieves a user by ID
func (r *UserRepository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT user_id, username, points_available, points_total, points_spent,
		       level, captures, rewards_granted, purchases, last_active
		FROM users
		WHERE user_id = $1
	`

	var u domain.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Username,
		&u.Points.Available,
		&u.Points.Total,
		&u.Points.Spent,
		&u.Level,
		&u.Stats.Captures,
		&u.Stats.RewardsGranted,
		&u.Stats.Purchases,
		&u.LastActive,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// PromoteUserLevel raises the user's level. The level guard makes concurrent
// promotions monotonic: a level never decreases.
func (r *UserRepository) PromoteUserLevel(ctx context.Context, id uuid.UUID, newLevel int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET level = $2
		WHERE user_id = $1 AND level < $2
	`, id, newLevel)
	if err != nil {
		return false, fmt.Errorf("failed to promote user level: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
