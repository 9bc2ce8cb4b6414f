// Package progression derives player levels from lifetime points. The check
// runs post-commit as a side effect; a missed check self-heals on the next
// capture because levels are derived, not accumulated.
package progression

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/event"
	"github.com/waypointlabs/prizehunt/internal/logger"
	"github.com/waypointlabs/prizehunt/internal/repository"
)

// Service checks and applies level promotions.
type Service struct {
	users     repository.User
	publisher event.Bus
}

// NewService creates a new progression Service
func NewService(users repository.User, publisher event.Bus) *Service {
	return &Service{users: users, publisher: publisher}
}

// CheckLevelUp promotes the user if their lifetime points have crossed a
// level threshold, and publishes a level-up event on promotion.
func (s *Service) CheckLevelUp(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user for level check: %w", err)
	}

	earned := LevelForPoints(user.Points.Total)
	if earned <= user.Level {
		return nil
	}

	promoted, err := s.users.PromoteUserLevel(ctx, userID, earned)
	if err != nil {
		return fmt.Errorf("failed to promote user: %w", err)
	}
	if !promoted {
		// A concurrent check already applied this promotion.
		return nil
	}

	logger.FromContext(ctx).Info("User leveled up",
		"user_id", userID,
		"old_level", user.Level,
		"new_level", earned)

	return s.publisher.Publish(ctx, event.NewUserLevelUpEvent(userID.String(), user.Level, earned))
}
