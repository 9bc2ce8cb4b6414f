package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// Type represents the type of an event
type Type string

// Event types published by the capture and marketplace flows.
const (
	PrizeCaptured    Type = Type(domain.EventTypePrizeCaptured)
	RewardGranted    Type = Type(domain.EventTypeRewardGranted)
	ItemPurchased    Type = Type(domain.EventTypeItemPurchased)
	RedemptionClosed Type = Type(domain.EventTypeRedemptionClosed)
	UserLevelUp      Type = Type(domain.EventTypeUserLevelUp)
)

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Type-safe event constructors

// NewPrizeCapturedEvent creates a prize captured event
func NewPrizeCapturedEvent(claim *domain.Claim, rewardGranted bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PrizeCaptured,
		Payload: domain.PrizeCapturedPayload{
			UserID:          claim.UserID.String(),
			PrizeID:         claim.PrizeID.String(),
			ClaimID:         claim.ID.String(),
			PointsAwarded:   claim.PointsAwarded,
			RewardGranted:   rewardGranted,
			ValidationScore: claim.ValidationScore,
			DistanceMeters:  claim.DistanceMeters,
			Timestamp:       time.Now().Unix(),
		},
	}
}

// NewRewardGrantedEvent creates a reward granted event
func NewRewardGrantedEvent(userID, prizeID, rewardID, redemptionID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RewardGranted,
		Payload: domain.RewardGrantedPayload{
			UserID:       userID,
			PrizeID:      prizeID,
			RewardID:     rewardID,
			RedemptionID: redemptionID,
			Timestamp:    time.Now().Unix(),
		},
	}
}

// NewItemPurchasedEvent creates an item purchased event
func NewItemPurchasedEvent(red *domain.Redemption) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ItemPurchased,
		Payload: domain.ItemPurchasedPayload{
			UserID:       red.UserID.String(),
			RewardID:     red.RewardID.String(),
			RedemptionID: red.ID.String(),
			PointsSpent:  red.PointsSpent,
			Quantity:     red.Quantity,
			Timestamp:    time.Now().Unix(),
		},
	}
}

// NewRedemptionClosedEvent creates a redemption closed event
func NewRedemptionClosedEvent(red *domain.Redemption) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RedemptionClosed,
		Payload: domain.RedemptionClosedPayload{
			RedemptionID: red.ID.String(),
			UserID:       red.UserID.String(),
			Status:       string(red.Status),
			Timestamp:    time.Now().Unix(),
		},
	}
}

// NewUserLevelUpEvent creates a user level up event
func NewUserLevelUpEvent(userID string, oldLevel, newLevel int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    UserLevelUp,
		Payload: domain.UserLevelUpPayload{
			UserID:    userID,
			OldLevel:  oldLevel,
			NewLevel:  newLevel,
			Timestamp: time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously. Callers that
// must not block dispatch through the side-effect worker pool instead.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
