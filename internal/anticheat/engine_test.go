package anticheat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// MockStateStore implements StateStore for testing
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) IncrementAttempts(ctx context.Context, userID string, now time.Time) (int64, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStateStore) GetState(ctx context.Context, userID string) (State, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(State), args.Error(1)
}

func (m *MockStateStore) RecordObservation(ctx context.Context, userID string, obs Observation) error {
	args := m.Called(ctx, userID, obs)
	return args.Error(0)
}

var (
	baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	baseLoc  = domain.GeoPoint{Lat: 35.658034, Lng: 139.701636}
)

func testAttempt() Attempt {
	return Attempt{
		UserID:            "user-1",
		Location:          baseLoc,
		DeviceFingerprint: "device-a",
		At:                baseTime,
	}
}

func newTestEngine(store StateStore, cfg Config) *Engine {
	return NewEngine(store, NewStaticProvider(cfg))
}

func TestCheck_CleanAttempt(t *testing.T) {
	store := &MockStateStore{}
	engine := newTestEngine(store, DefaultConfig())
	ctx := context.Background()

	store.On("IncrementAttempts", ctx, "user-1", baseTime).Return(int64(1), nil)
	store.On("GetState", ctx, "user-1").Return(State{}, nil)
	store.On("RecordObservation", ctx, "user-1", mock.Anything).Return(nil)

	verdict, err := engine.Check(ctx, testAttempt())

	require.NoError(t, err)
	assert.Equal(t, 1.0, verdict.Score)
	assert.Empty(t, verdict.Signals)
	assert.False(t, verdict.FailedOpen)
	store.AssertExpectations(t)
}

func TestCheck_FrequencyGate(t *testing.T) {
	store := &MockStateStore{}
	engine := newTestEngine(store, DefaultConfig())
	ctx := context.Background()

	// 11th attempt inside the minute window
	store.On("IncrementAttempts", ctx, "user-1", baseTime).Return(int64(11), nil)
	store.On("RecordObservation", ctx, "user-1", mock.Anything).Return(nil)

	_, err := engine.Check(ctx, testAttempt())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTooManyCaptures)
	// The gate runs before GetState so floods stay cheap
	store.AssertNotCalled(t, "GetState", mock.Anything, mock.Anything)
	// State still written on rejection
	store.AssertCalled(t, "RecordObservation", ctx, "user-1", mock.Anything)
}

func TestCheck_VelocityGate(t *testing.T) {
	store := &MockStateStore{}
	engine := newTestEngine(store, DefaultConfig())
	ctx := context.Background()

	// 100km away, observed 1000ms ago: implied 100,000 m/s
	lastAt := baseTime.Add(-1000 * time.Millisecond)
	farAway := domain.GeoPoint{Lat: baseLoc.Lat + 0.9, Lng: baseLoc.Lng}
	store.On("IncrementAttempts", ctx, "user-1", baseTime).Return(int64(1), nil)
	store.On("GetState", ctx, "user-1").Return(State{
		DeviceFingerprint: "device-a",
		LastLocation:      &farAway,
		LastAttemptAt:     &lastAt,
	}, nil)
	store.On("RecordObservation", ctx, "user-1", mock.Anything).Return(nil)

	_, err := engine.Check(ctx, testAttempt())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrImpossibleTravelSpeed)
	store.AssertCalled(t, "RecordObservation", ctx, "user-1", mock.Anything)
}

func TestCheck_VelocityGate_SlowTravelAccepted(t *testing.T) {
	store := &MockStateStore{}
	engine := newTestEngine(store, DefaultConfig())
	ctx := context.Background()

	// Same 100km displacement over an hour: ~28 m/s, under the 50 m/s ceiling
	lastAt := baseTime.Add(-time.Hour)
	farAway := domain.GeoPoint{Lat: baseLoc.Lat + 0.9, Lng: baseLoc.Lng}
	store.On("IncrementAttempts", ctx, "user-1", baseTime).Return(int64(1), nil)
	store.On("GetState", ctx, "user-1").Return(State{
		DeviceFingerprint: "device-a",
		LastLocation:      &farAway,
		LastAttemptAt:     &lastAt,
	}, nil)
	store.On("RecordObservation", ctx, "user-1", mock.Anything).Return(nil)

	verdict, err := engine.Check(ctx, testAttempt())

	require.NoError(t, err)
	assert.Equal(t, 1.0, verdict.Score)
}

func TestCheck_VelocityGate_SubSecondExempt(t *testing.T) {
	store := &MockStateStore{}
	engine := newTestEngine(store, DefaultConfig())
	ctx := context.Background()

	// Huge displacement but only 500ms elapsed: exempt (clock skew / rapid retry)
	lastAt := baseTime.Add(-500 * time.Millisecond)
	farAway := domain.GeoPoint{Lat: baseLoc.Lat + 0.9, Lng: baseLoc.Lng}
	store.On("IncrementAttempts", ctx, "user-1", baseTime).Return(int64(1), nil)
	store.On("GetState", ctx, "user-1").Return(State{
		LastLocation:  &farAway,
		LastAttemptAt: &lastAt,
	}, nil)
	store.On("RecordObservation", ctx, "user-1", mock.Anything).Return(nil)

	_, err := engine.Check(ctx, testAttempt())

	require.NoError(t, err)
}

func TestCheck_SoftSignals_Accumulate(t *testing.T) {
	store := &MockStateStore{}
	cfg := DefaultConfig()
	engine := newTestEngine(store, cfg)
	ctx := context.Background()

	store.On("IncrementAttempts", ctx, "user-1", baseTime).Return(int64(1), nil)
	store.On("GetState", ctx, "user-1").Return(State{DeviceFingerprint: "device-old"}, nil)
	store.On("RecordObservation", ctx, "user-1", mock.Anything).Return(nil)

	attempt := testAttempt()
	attempt.AccuracyMeters = 120 // above the 50m ceiling

	verdict, err := engine.Check(ctx, attempt)

	require.NoError(t, err)
	assert.InDelta(t, 1.0-cfg.Weights.DeviceChange-cfg.Weights.PoorAccuracy, verdict.Score, 1e-9)
	assert.Contains(t, verdict.Signals, SignalDeviceChange)
	assert.Contains(t, verdict.Signals, SignalPoorAccuracy)
}

func TestCheck_ScoreFloor_Rejects(t *testing.T) {
	store := &MockStateStore{}
	cfg := DefaultConfig()
	cfg.ScoreFloor = 0.6
	engine := newTestEngine(store, cfg)
	ctx := context.Background()

	store.On("IncrementAttempts", ctx, "user-1", baseTime).Return(int64(1), nil)
	store.On("GetState", ctx, "user-1").Return(State{DeviceFingerprint: "device-old"}, nil)
	store.On("RecordObservation", ctx, "user-1", mock.Anything).Return(nil)

	attempt := testAttempt()
	attempt.AccuracyMeters = 120
	attempt.AR = &domain.ARData{Tracking: false}

	_, err := engine.Check(ctx, attempt)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLowValidationScore)
	// Observation still recorded on rejection
	store.AssertCalled(t, "RecordObservation", ctx, "user-1", mock.Anything)
}

func TestCheck_StoreDown_FailsOpen(t *testing.T) {
	store := &MockStateStore{}
	cfg := DefaultConfig()
	engine := newTestEngine(store, cfg)
	ctx := context.Background()

	infraErr := errors.New("connection refused")
	store.On("IncrementAttempts", ctx, "user-1", baseTime).Return(int64(0), infraErr)
	store.On("RecordObservation", ctx, "user-1", mock.Anything).Return(infraErr)

	verdict, err := engine.Check(ctx, testAttempt())

	require.NoError(t, err, "infrastructure errors must not block gameplay when fail-open")
	assert.True(t, verdict.FailedOpen)
	assert.Equal(t, cfg.DegradedScore, verdict.Score)
}

func TestCheck_StoreDown_FailClosedWhenConfigured(t *testing.T) {
	store := &MockStateStore{}
	cfg := DefaultConfig()
	cfg.FailOpen = false
	engine := newTestEngine(store, cfg)
	ctx := context.Background()

	store.On("IncrementAttempts", ctx, "user-1", baseTime).Return(int64(0), errors.New("connection refused"))
	store.On("RecordObservation", ctx, "user-1", mock.Anything).Return(nil)

	_, err := engine.Check(ctx, testAttempt())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSuspiciousActivity)
}

func TestRefreshingProvider_KeepsLastGoodConfigOnError(t *testing.T) {
	initial := DefaultConfig()
	loadErr := errors.New("config backend down")
	var sawErr error

	p := NewRefreshingProvider(initial, 0, func() (Config, error) {
		return Config{}, loadErr
	})
	p.OnError = func(err error) { sawErr = err }

	got := p.Get()
	assert.Equal(t, initial.MaxAttemptsPerMinute, got.MaxAttemptsPerMinute)
	assert.ErrorIs(t, sawErr, loadErr)
}

func TestRefreshingProvider_Refreshes(t *testing.T) {
	initial := DefaultConfig()
	updated := DefaultConfig()
	updated.MaxAttemptsPerMinute = 3

	p := NewRefreshingProvider(initial, 0, func() (Config, error) {
		return updated, nil
	})

	got := p.Get()
	assert.Equal(t, 3, got.MaxAttemptsPerMinute)
}
