// Package anticheat scores capture attempts against plausibility heuristics.
//
// Two hard gates (attempt frequency, implied travel speed) short-circuit to
// rejection; soft signals only lower the attempt's validation score. A failed
// check fails closed. An unreachable state store fails open when configured
// to, because losing anti-cheat precision must never block legitimate play.
package anticheat

import (
	"context"
	"fmt"
	"time"

	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/geo"
	"github.com/waypointlabs/prizehunt/internal/logger"
	"github.com/waypointlabs/prizehunt/internal/metrics"
)

// velocityExemption: elapsed times at or below this are exempt from the speed
// gate to avoid false positives from clock skew and rapid retries.
const velocityExemption = time.Second

// Signal names attached to verdicts for audit/moderation review.
const (
	SignalDeviceChange = "device_fingerprint_changed"
	SignalNotTracking  = "ar_not_tracking"
	SignalLowLight     = "low_light"
	SignalPoorAccuracy = "poor_gps_accuracy"
)

// Attempt is the anti-cheat view of a capture attempt.
type Attempt struct {
	UserID            string
	Location          domain.GeoPoint
	AccuracyMeters    float64 // 0 means unreported
	DeviceFingerprint string
	AR                *domain.ARData
	At                time.Time
}

// Verdict is the engine's decision for an accepted attempt.
type Verdict struct {
	Score      float64
	Signals    []string
	FailedOpen bool // state store was unreachable; score is the degraded default
}

// Engine evaluates attempts against the configured heuristics.
type Engine struct {
	store StateStore
	cfgs  ConfigProvider
}

// NewEngine creates an anti-cheat engine.
func NewEngine(store StateStore, cfgs ConfigProvider) *Engine {
	return &Engine{store: store, cfgs: cfgs}
}

// Check evaluates one attempt. A nil error means the attempt passed and the
// verdict carries the score to persist on the claim. Rejections return the
// fail-closed sentinel errors from the domain package.
//
// State writes happen on every outcome so an attacker cannot evade future
// velocity checks by forcing rejections or errors.
func (e *Engine) Check(ctx context.Context, attempt Attempt) (Verdict, error) {
	log := logger.FromContext(ctx)
	cfg := e.cfgs.Get()

	obs := Observation{
		DeviceFingerprint: attempt.DeviceFingerprint,
		Location:          attempt.Location,
		At:                attempt.At,
	}

	// Frequency gate first: cheapest check, and it must run before anything
	// else so a flood of requests can't reach the expensive paths.
	count, err := e.store.IncrementAttempts(ctx, attempt.UserID, attempt.At)
	if err != nil {
		return e.failOpen(ctx, cfg, attempt, obs, fmt.Errorf("increment attempts: %w", err))
	}
	if count > int64(cfg.MaxAttemptsPerMinute) {
		e.record(ctx, attempt.UserID, obs)
		return Verdict{}, fmt.Errorf("%w: %d attempts in the last minute (max %d)",
			domain.ErrTooManyCaptures, count, cfg.MaxAttemptsPerMinute)
	}

	state, err := e.store.GetState(ctx, attempt.UserID)
	if err != nil {
		return e.failOpen(ctx, cfg, attempt, obs, fmt.Errorf("get state: %w", err))
	}

	// Velocity gate: implied speed since the last recorded attempt.
	if state.LastLocation != nil && state.LastAttemptAt != nil {
		elapsed := attempt.At.Sub(*state.LastAttemptAt)
		if elapsed > velocityExemption {
			dist := geo.Distance(*state.LastLocation, attempt.Location)
			speed := dist / elapsed.Seconds()
			if speed > cfg.MaxSpeedMS {
				e.record(ctx, attempt.UserID, obs)
				log.Info("Velocity gate rejected attempt",
					"user_id", attempt.UserID, "speed_ms", speed, "distance_m", dist, "elapsed", elapsed)
				return Verdict{}, fmt.Errorf("%w: %.0f m/s over %.0f m",
					domain.ErrImpossibleTravelSpeed, speed, dist)
			}
		}
	}

	verdict := e.applySoftSignals(cfg, state, attempt)

	e.record(ctx, attempt.UserID, obs)

	if verdict.Score < cfg.ScoreFloor {
		log.Info("Validation score below floor",
			"user_id", attempt.UserID, "score", verdict.Score, "floor", cfg.ScoreFloor, "signals", verdict.Signals)
		return Verdict{}, fmt.Errorf("%w: %.2f (floor %.2f)",
			domain.ErrLowValidationScore, verdict.Score, cfg.ScoreFloor)
	}

	return verdict, nil
}

// applySoftSignals starts at 1.0 and deducts the configured penalty per anomaly.
func (e *Engine) applySoftSignals(cfg Config, state State, attempt Attempt) Verdict {
	verdict := Verdict{Score: 1.0}

	if state.DeviceFingerprint != "" && attempt.DeviceFingerprint != "" &&
		state.DeviceFingerprint != attempt.DeviceFingerprint {
		verdict.Score -= cfg.Weights.DeviceChange
		verdict.Signals = append(verdict.Signals, SignalDeviceChange)
	}

	if attempt.AR != nil {
		if !attempt.AR.Tracking {
			verdict.Score -= cfg.Weights.NotTracking
			verdict.Signals = append(verdict.Signals, SignalNotTracking)
		}
		if attempt.AR.LightEstimate > 0 && attempt.AR.LightEstimate < cfg.LightFloorLumens {
			verdict.Score -= cfg.Weights.LowLight
			verdict.Signals = append(verdict.Signals, SignalLowLight)
		}
	}

	if attempt.AccuracyMeters > cfg.AccuracyCeilingM {
		verdict.Score -= cfg.Weights.PoorAccuracy
		verdict.Signals = append(verdict.Signals, SignalPoorAccuracy)
	}

	if verdict.Score < 0 {
		verdict.Score = 0
	}
	return verdict
}

// failOpen handles state-store infrastructure errors. With FailOpen set the
// attempt proceeds at the degraded score and the condition is logged, not
// swallowed; otherwise it fails closed as suspicious.
func (e *Engine) failOpen(ctx context.Context, cfg Config, attempt Attempt, obs Observation, cause error) (Verdict, error) {
	log := logger.FromContext(ctx)

	// Best-effort write so a recovered store still sees this attempt.
	e.record(ctx, attempt.UserID, obs)

	if !cfg.FailOpen {
		log.Warn("Anti-cheat state store unavailable, failing closed",
			"user_id", attempt.UserID, "error", cause)
		return Verdict{}, fmt.Errorf("%w: state store unavailable", domain.ErrSuspiciousActivity)
	}

	metrics.AntiCheatFailOpen.Inc()
	log.Warn("Anti-cheat state store unavailable, failing open with degraded score",
		"user_id", attempt.UserID, "degraded_score", cfg.DegradedScore, "error", cause)
	return Verdict{Score: cfg.DegradedScore, FailedOpen: true}, nil
}

// record persists the observation, logging failures instead of propagating:
// by the time we record, the decision has been made.
func (e *Engine) record(ctx context.Context, userID string, obs Observation) {
	if err := e.store.RecordObservation(ctx, userID, obs); err != nil {
		logger.FromContext(ctx).Warn("Failed to record anti-cheat observation",
			"user_id", userID, "error", err)
	}
}
