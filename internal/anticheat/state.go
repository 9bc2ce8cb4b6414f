package anticheat

import (
	"context"
	"time"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// State is the ephemeral per-user record the heuristics compare against.
// It is weakly consistent by design: losing it degrades precision, never
// correctness of the financial/inventory state.
type State struct {
	DeviceFingerprint string
	LastLocation      *domain.GeoPoint
	LastAttemptAt     *time.Time
}

// Observation is what gets persisted after every attempt, accepted or not,
// so a rejected or erroring attempt still anchors future velocity checks.
type Observation struct {
	DeviceFingerprint string
	Location          domain.GeoPoint
	At                time.Time
}

// StateStore is the ephemeral anti-cheat state backend. All entries are
// TTL-bounded; implementations must treat missing state as empty, not an error.
type StateStore interface {
	// IncrementAttempts bumps the user's sliding one-minute attempt counter
	// and returns the new count.
	IncrementAttempts(ctx context.Context, userID string, now time.Time) (int64, error)
	// GetState fetches the user's last observation; zero State when absent.
	GetState(ctx context.Context, userID string) (State, error)
	// RecordObservation overwrites the user's last observation with a bounded TTL.
	RecordObservation(ctx context.Context, userID string, obs Observation) error
}
