package capture

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/waypointlabs/prizehunt/internal/anticheat"
	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/repository"
)

// MockPrizeGetter is a mock implementation of PrizeGetter
type MockPrizeGetter struct {
	mock.Mock
}

func (m *MockPrizeGetter) GetPrize(ctx context.Context, id uuid.UUID) (*domain.Prize, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prize), args.Error(1)
}

// MockCaptureRepo is a mock implementation of repository.Capture
type MockCaptureRepo struct {
	mock.Mock
}

func (m *MockCaptureRepo) GetClaimByKey(ctx context.Context, key string) (*domain.Claim, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Claim), args.Error(1)
}

func (m *MockCaptureRepo) GetRedemption(ctx context.Context, id uuid.UUID) (*domain.Redemption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Redemption), args.Error(1)
}

func (m *MockCaptureRepo) BeginTx(ctx context.Context) (repository.CaptureTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.CaptureTx), args.Error(1)
}

// MockCaptureTx is a mock implementation of repository.CaptureTx
type MockCaptureTx struct {
	mock.Mock
}

func (m *MockCaptureTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCaptureTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCaptureTx) CreditPoints(ctx context.Context, userID uuid.UUID, amount int) error {
	return m.Called(ctx, userID, amount).Error(0)
}

func (m *MockCaptureTx) DecrementPrizeQuantity(ctx context.Context, prizeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, prizeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCaptureTx) InsertClaim(ctx context.Context, claim *domain.Claim) error {
	return m.Called(ctx, claim).Error(0)
}

func (m *MockCaptureTx) InsertRedemption(ctx context.Context, redemption *domain.Redemption) error {
	return m.Called(ctx, redemption).Error(0)
}

func (m *MockCaptureTx) BumpCaptureStats(ctx context.Context, userID uuid.UUID, rewardGranted bool) error {
	return m.Called(ctx, userID, rewardGranted).Error(0)
}

// MockChecker is a mock implementation of Checker
type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) Check(ctx context.Context, attempt anticheat.Attempt) (anticheat.Verdict, error) {
	args := m.Called(ctx, attempt)
	return args.Get(0).(anticheat.Verdict), args.Error(1)
}

// MockStockLedger is a mock implementation of StockLedger
type MockStockLedger struct {
	mock.Mock
}

func (m *MockStockLedger) Reserve(ctx context.Context, rewardID uuid.UUID, qty int) (uuid.UUID, error) {
	args := m.Called(ctx, rewardID, qty)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockStockLedger) Confirm(ctx context.Context, reservationID uuid.UUID) error {
	return m.Called(ctx, reservationID).Error(0)
}

func (m *MockStockLedger) Release(ctx context.Context, reservationID uuid.UUID) error {
	return m.Called(ctx, reservationID).Error(0)
}

// staticCodes issues a fixed redemption code
type staticCodes struct{ code string }

func (c staticCodes) IssueCode(ctx context.Context) (string, error) {
	return c.code, nil
}

// recordingEffects captures dispatched results
type recordingEffects struct {
	results []*domain.CaptureResult
}

func (r *recordingEffects) CaptureCommitted(ctx context.Context, result *domain.CaptureResult) {
	r.results = append(r.results, result)
}
