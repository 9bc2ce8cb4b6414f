package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/waypointlabs/prizehunt/internal/config"
	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/event"
	"github.com/waypointlabs/prizehunt/internal/logger"
)

// InitializeEventSystem creates the in-memory event bus and wraps it in the
// resilient publisher with a file-backed dead letter. Services publish through
// the resilient publisher; subscribers register on the returned bus.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	eventBus := event.NewMemoryBus()

	deadLetterPath := cfg.DeadLetterPath
	if err := os.MkdirAll(filepath.Dir(deadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	deadLetter, err := event.NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetter, err)
	}

	resilientPublisher := event.NewResilientPublisher(eventBus, event.ResilientConfig{
		DeadLetter: deadLetter,
	})

	slog.Info(LogMsgEventSystemInitialized, "deadletter_path", deadLetterPath)
	return eventBus, resilientPublisher, nil
}

// RegisterEventLogging subscribes logging handlers so each committed gameplay
// fact shows up in the structured logs. Gameplay-relevant payload fields are
// decoded and logged as attributes; the rest of the event types get a generic
// line.
func RegisterEventLogging(bus event.Bus) {
	bus.Subscribe(event.PrizeCaptured, func(ctx context.Context, e event.Event) error {
		payload, err := event.DecodePayload[domain.PrizeCapturedPayload](e.Payload)
		if err != nil {
			return fmt.Errorf("decode %s payload: %w", e.Type, err)
		}
		logger.FromContext(ctx).Info("Event published",
			"event_type", e.Type, "version", e.Version,
			"user_id", payload.UserID, "prize_id", payload.PrizeID,
			"points_awarded", payload.PointsAwarded, "reward_granted", payload.RewardGranted)
		return nil
	})

	bus.Subscribe(event.ItemPurchased, func(ctx context.Context, e event.Event) error {
		payload, err := event.DecodePayload[domain.ItemPurchasedPayload](e.Payload)
		if err != nil {
			return fmt.Errorf("decode %s payload: %w", e.Type, err)
		}
		logger.FromContext(ctx).Info("Event published",
			"event_type", e.Type, "version", e.Version,
			"user_id", payload.UserID, "reward_id", payload.RewardID,
			"points_spent", payload.PointsSpent, "quantity", payload.Quantity)
		return nil
	})

	bus.Subscribe(event.UserLevelUp, func(ctx context.Context, e event.Event) error {
		payload, err := event.DecodePayload[domain.UserLevelUpPayload](e.Payload)
		if err != nil {
			return fmt.Errorf("decode %s payload: %w", e.Type, err)
		}
		logger.FromContext(ctx).Info("Event published",
			"event_type", e.Type, "version", e.Version,
			"user_id", payload.UserID,
			"old_level", payload.OldLevel, "new_level", payload.NewLevel)
		return nil
	})

	for _, t := range []event.Type{event.RewardGranted, event.RedemptionClosed} {
		bus.Subscribe(t, func(ctx context.Context, e event.Event) error {
			logger.FromContext(ctx).Info("Event published",
				"event_type", e.Type, "version", e.Version)
			return nil
		})
	}
}
