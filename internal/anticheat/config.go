package anticheat

import (
	"sync"
	"time"
)

// PenaltyWeights are the per-signal deductions applied to the validation score.
type PenaltyWeights struct {
	DeviceChange float64
	NotTracking  float64
	LowLight     float64
	PoorAccuracy float64
}

// Config is the full set of anti-cheat tunables. It is provided through a
// ConfigProvider so deployments can refresh it without process-wide mutable state.
type Config struct {
	MaxAttemptsPerMinute int
	MaxSpeedMS           float64
	ScoreFloor           float64
	Weights              PenaltyWeights
	AccuracyCeilingM     float64
	LightFloorLumens     float64

	// FailOpen controls behavior when the ephemeral state store is unreachable:
	// true lets the attempt through with DegradedScore (availability of gameplay
	// over strict enforcement), false rejects it. This is a per-deployment risk
	// decision, not an accidental default.
	FailOpen      bool
	DegradedScore float64
}

// DefaultConfig returns the documented production defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttemptsPerMinute: 10,
		MaxSpeedMS:           50,
		ScoreFloor:           0.3,
		Weights: PenaltyWeights{
			DeviceChange: 0.3,
			NotTracking:  0.25,
			LowLight:     0.1,
			PoorAccuracy: 0.2,
		},
		AccuracyCeilingM: 50,
		LightFloorLumens: 20,
		FailOpen:         true,
		DegradedScore:    0.5,
	}
}

// ConfigProvider serves the current anti-cheat configuration.
type ConfigProvider interface {
	Get() Config
}

// StaticProvider serves a fixed configuration. Used in tests and in
// deployments that configure the engine purely from the environment.
type StaticProvider struct {
	cfg Config
}

// NewStaticProvider creates a provider that always returns cfg.
func NewStaticProvider(cfg Config) *StaticProvider {
	return &StaticProvider{cfg: cfg}
}

// Get returns the fixed configuration.
func (p *StaticProvider) Get() Config {
	return p.cfg
}

// RefreshingProvider reloads configuration through a loader func on a TTL.
// Load failures keep serving the last good config and are surfaced to the
// caller through the OnError hook, never by blocking a capture.
type RefreshingProvider struct {
	load    func() (Config, error)
	ttl     time.Duration
	OnError func(error)

	mu        sync.RWMutex
	current   Config
	fetchedAt time.Time
}

// NewRefreshingProvider creates a provider seeded with initial that refreshes
// via load at most once per ttl.
func NewRefreshingProvider(initial Config, ttl time.Duration, load func() (Config, error)) *RefreshingProvider {
	return &RefreshingProvider{
		load:      load,
		ttl:       ttl,
		current:   initial,
		fetchedAt: time.Now(),
	}
}

// Get returns the current configuration, refreshing it when stale.
func (p *RefreshingProvider) Get() Config {
	p.mu.RLock()
	fresh := time.Since(p.fetchedAt) < p.ttl
	cfg := p.current
	p.mu.RUnlock()
	if fresh {
		return cfg
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Another goroutine may have refreshed while we waited for the lock.
	if time.Since(p.fetchedAt) < p.ttl {
		return p.current
	}

	next, err := p.load()
	if err != nil {
		// Keep serving the last good config; push the stale window forward so
		// a broken loader is not hammered on every attempt.
		p.fetchedAt = time.Now()
		if p.OnError != nil {
			p.OnError(err)
		}
		return p.current
	}

	p.current = next
	p.fetchedAt = time.Now()
	return p.current
}
