package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// PrizeRepository implements the prize repository for PostgreSQL
type PrizeRepository struct {
	db *pgxpool.Pool
}

// NewPrizeRepository creates a new PrizeRepository
func NewPrizeRepository(db *pgxpool.Pool) *PrizeRepository {
	return &PrizeRepository{db: db}
}

// GetPrize retrieves a prize by ID
func (r *PrizeRepository) GetPrize(ctx context.Context, id uuid.UUID) (*domain.Prize, error) {
	query := `
		SELECT prize_id, name, lat, lng, capture_radius_m, quantity, policy,
		       points_amount, bonus_multiplier, reward_id, reward_probability,
		       status, created_at
		FROM prizes
		WHERE prize_id = $1
	`

	var (
		p           domain.Prize
		lat, lng    *float64
		policyRaw   string
		rewardID    *uuid.UUID
		probability float64
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&lat,
		&lng,
		&p.CaptureRadius,
		&p.Quantity,
		&policyRaw,
		&p.Points.Amount,
		&p.Points.BonusMultiplier,
		&rewardID,
		&probability,
		&p.Status,
		&p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrPrizeNotFound
		}
		return nil, fmt.Errorf("failed to get prize: %w", err)
	}

	// The closed policy enum is enforced here: bad stored data fails loudly
	// instead of silently falling back to a points payout.
	p.Policy, err = domain.ParsePayoutPolicy(policyRaw)
	if err != nil {
		return nil, fmt.Errorf("prize %s: %w", id, err)
	}

	if lat != nil && lng != nil {
		p.Location = &domain.GeoPoint{Lat: *lat, Lng: *lng}
	}
	if rewardID != nil {
		p.Reward = &domain.DirectReward{RewardID: *rewardID, Probability: probability}
	}
	return &p, nil
}
