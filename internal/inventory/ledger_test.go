package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// MockRewardInventory is a mock implementation of repository.RewardInventory
type MockRewardInventory struct {
	mock.Mock
}

func (m *MockRewardInventory) GetReward(ctx context.Context, id uuid.UUID) (*domain.Reward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reward), args.Error(1)
}

func (m *MockRewardInventory) ListActiveRewards(ctx context.Context) ([]domain.Reward, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reward), args.Error(1)
}

func (m *MockRewardInventory) ReserveStock(ctx context.Context, rewardID uuid.UUID, qty int) (uuid.UUID, bool, error) {
	args := m.Called(ctx, rewardID, qty)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockRewardInventory) ConfirmStock(ctx context.Context, reservationID uuid.UUID) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}

func (m *MockRewardInventory) ReleaseStock(ctx context.Context, reservationID uuid.UUID) error {
	args := m.Called(ctx, reservationID)
	return args.Error(0)
}

func (m *MockRewardInventory) ReleaseStaleReservations(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func TestLedger_Reserve_Success(t *testing.T) {
	repo := new(MockRewardInventory)
	ledger := NewLedger(repo)

	rewardID := uuid.New()
	reservationID := uuid.New()
	repo.On("ReserveStock", mock.Anything, rewardID, 1).Return(reservationID, true, nil)

	got, err := ledger.Reserve(context.Background(), rewardID, 1)

	require.NoError(t, err)
	assert.Equal(t, reservationID, got)
	repo.AssertExpectations(t)
}

func TestLedger_Reserve_OutOfStock(t *testing.T) {
	repo := new(MockRewardInventory)
	ledger := NewLedger(repo)

	rewardID := uuid.New()
	repo.On("ReserveStock", mock.Anything, rewardID, 1).Return(uuid.Nil, false, nil)

	_, err := ledger.Reserve(context.Background(), rewardID, 1)

	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	repo.AssertExpectations(t)
}

func TestLedger_Reserve_InvalidQuantity(t *testing.T) {
	repo := new(MockRewardInventory)
	ledger := NewLedger(repo)

	_, err := ledger.Reserve(context.Background(), uuid.New(), 0)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "ReserveStock")
}

func TestLedger_ConfirmAndRelease(t *testing.T) {
	repo := new(MockRewardInventory)
	ledger := NewLedger(repo)

	reservationID := uuid.New()
	repo.On("ConfirmStock", mock.Anything, reservationID).Return(nil)
	repo.On("ReleaseStock", mock.Anything, reservationID).Return(nil)

	require.NoError(t, ledger.Confirm(context.Background(), reservationID))
	require.NoError(t, ledger.Release(context.Background(), reservationID))
	repo.AssertExpectations(t)
}

func TestLedger_SweepStaleHolds(t *testing.T) {
	repo := new(MockRewardInventory)
	ledger := NewLedger(repo)

	repo.On("ReleaseStaleReservations", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		return time.Since(cutoff) > 9*time.Minute
	})).Return(int64(3), nil)

	swept, err := ledger.SweepStaleHolds(context.Background(), 10*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, int64(3), swept)
	repo.AssertExpectations(t)
}
