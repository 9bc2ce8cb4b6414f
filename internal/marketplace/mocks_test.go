package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/repository"
)

// MockPurchaseRepo is a mock implementation of repository.Purchase
type MockPurchaseRepo struct {
	mock.Mock
}

func (m *MockPurchaseRepo) GetRedemptionByKey(ctx context.Context, key string) (*domain.Redemption, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Redemption), args.Error(1)
}

func (m *MockPurchaseRepo) GetRedemption(ctx context.Context, id uuid.UUID) (*domain.Redemption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Redemption), args.Error(1)
}

func (m *MockPurchaseRepo) CountUserRedemptions(ctx context.Context, userID, rewardID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID, rewardID)
	return args.Int(0), args.Error(1)
}

func (m *MockPurchaseRepo) BeginTx(ctx context.Context) (repository.PurchaseTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.PurchaseTx), args.Error(1)
}

func (m *MockPurchaseRepo) TransitionRedemption(ctx context.Context, id uuid.UUID, next domain.RedemptionStatus) (bool, error) {
	args := m.Called(ctx, id, next)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepo) ExpireStaleRedemptions(ctx context.Context, now time.Time) ([]domain.Redemption, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Redemption), args.Error(1)
}

// MockPurchaseTx is a mock implementation of repository.PurchaseTx
type MockPurchaseTx struct {
	mock.Mock
}

func (m *MockPurchaseTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockPurchaseTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockPurchaseTx) DebitPoints(ctx context.Context, userID uuid.UUID, cost int) (bool, error) {
	args := m.Called(ctx, userID, cost)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseTx) InsertRedemption(ctx context.Context, redemption *domain.Redemption) error {
	return m.Called(ctx, redemption).Error(0)
}

func (m *MockPurchaseTx) BumpPurchaseStats(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockUserRepo is a mock implementation of repository.User
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) PromoteUserLevel(ctx context.Context, id uuid.UUID, newLevel int) (bool, error) {
	args := m.Called(ctx, id, newLevel)
	return args.Bool(0), args.Error(1)
}

// MockLedger is a mock implementation of StockLedger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) GetReward(ctx context.Context, id uuid.UUID) (*domain.Reward, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reward), args.Error(1)
}

func (m *MockLedger) ListActive(ctx context.Context) ([]domain.Reward, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reward), args.Error(1)
}

func (m *MockLedger) Reserve(ctx context.Context, rewardID uuid.UUID, qty int) (uuid.UUID, error) {
	args := m.Called(ctx, rewardID, qty)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockLedger) Confirm(ctx context.Context, reservationID uuid.UUID) error {
	return m.Called(ctx, reservationID).Error(0)
}

func (m *MockLedger) Release(ctx context.Context, reservationID uuid.UUID) error {
	return m.Called(ctx, reservationID).Error(0)
}

// staticCodes issues a fixed redemption code
type staticCodes struct{ code string }

func (c staticCodes) IssueCode(ctx context.Context) (string, error) {
	return c.code, nil
}

// recordingEffects captures dispatched side effects
type recordingEffects struct {
	purchases []*domain.Redemption
	closed    []*domain.Redemption
}

func (r *recordingEffects) PurchaseCommitted(ctx context.Context, red *domain.Redemption) {
	r.purchases = append(r.purchases, red)
}

func (r *recordingEffects) RedemptionClosed(ctx context.Context, red *domain.Redemption) {
	r.closed = append(r.closed, red)
}
