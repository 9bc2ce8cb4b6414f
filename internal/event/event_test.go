package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

func TestNewPrizeCapturedEvent(t *testing.T) {
	claim := &domain.Claim{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		PrizeID:         uuid.New(),
		PointsAwarded:   150,
		ValidationScore: 0.95,
		DistanceMeters:  3.2,
	}

	evt := NewPrizeCapturedEvent(claim, true)

	if evt.Type != PrizeCaptured {
		t.Errorf("Expected type %s, got %s", PrizeCaptured, evt.Type)
	}
	if evt.Version != EventSchemaVersion {
		t.Errorf("Expected version %s, got %s", EventSchemaVersion, evt.Version)
	}
	payload, ok := evt.Payload.(domain.PrizeCapturedPayload)
	if !ok {
		t.Fatalf("Expected PrizeCapturedPayload, got %T", evt.Payload)
	}
	if payload.PointsAwarded != 150 || !payload.RewardGranted {
		t.Errorf("Payload fields not carried over: %+v", payload)
	}
}

func TestDecodePayload_RoundTrip(t *testing.T) {
	evt := NewUserLevelUpEvent(uuid.New().String(), 1, 2)

	decoded, err := DecodePayload[domain.UserLevelUpPayload](evt.Payload)
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if decoded.NewLevel != 2 {
		t.Errorf("Expected new level 2, got %d", decoded.NewLevel)
	}
}

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	handled := false

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		if event.Type != eventType {
			t.Errorf("Expected event type %s, got %s", eventType, event.Type)
		}
		if event.Payload.(string) != "payload" {
			t.Errorf("Expected payload 'payload', got %v", event.Payload)
		}
		handled = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{
		Version: "1.0",
		Type:    eventType,
		Payload: "payload",
	})

	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if !handled {
		t.Error("Handler was not called")
	}
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	count := 0

	handler := func(ctx context.Context, event Event) error {
		count++
		return nil
	}

	bus.Subscribe(eventType, handler)
	bus.Subscribe(eventType, handler)

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 handlers to be called, got %d", count)
	}
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		return errors.New("handler error")
	})

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err == nil {
		t.Error("Expected error from Publish, got nil")
	}
}
