package marketplace

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

type fixture struct {
	repo    *MockPurchaseRepo
	users   *MockUserRepo
	tx      *MockPurchaseTx
	ledger  *MockLedger
	effects *recordingEffects
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:    new(MockPurchaseRepo),
		users:   new(MockUserRepo),
		tx:      new(MockPurchaseTx),
		ledger:  new(MockLedger),
		effects: &recordingEffects{},
	}
	f.svc = NewService(f.repo, f.users, f.ledger, staticCodes{code: "K7MR-3XWP"}, f.effects, Options{
		RedemptionTTL: 72 * time.Hour,
	})
	return f
}

func activeReward(cost int) *domain.Reward {
	return &domain.Reward{
		ID:             uuid.New(),
		Name:           "Coffee Voucher",
		PointsCost:     cost,
		StockQuantity:  100,
		StockAvailable: 40,
		IsActive:       true,
	}
}

func (f *fixture) expectUserBalance(userID uuid.UUID, available int) {
	f.users.On("GetUser", mock.Anything, userID).Return(&domain.User{
		ID:     userID,
		Points: domain.PointsBalance{Available: available},
	}, nil)
}

func TestPurchase_Succeeds(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	reward := activeReward(60)
	reservationID := uuid.New()

	f.repo.On("GetRedemptionByKey", mock.Anything, mock.Anything).Return(nil, nil)
	f.ledger.On("GetReward", mock.Anything, reward.ID).Return(reward, nil)
	f.ledger.On("Reserve", mock.Anything, reward.ID, 1).Return(reservationID, nil)
	f.ledger.On("Confirm", mock.Anything, reservationID).Return(nil)
	f.repo.On("BeginTx", mock.Anything).Return(f.tx, nil)
	f.tx.On("DebitPoints", mock.Anything, userID, 60).Return(true, nil)
	f.tx.On("InsertRedemption", mock.Anything, mock.Anything).Return(nil)
	f.tx.On("BumpPurchaseStats", mock.Anything, userID).Return(nil)
	f.tx.On("Commit", mock.Anything).Return(nil)
	f.tx.On("Rollback", mock.Anything).Return(nil)
	f.expectUserBalance(userID, 40)

	result, err := f.svc.Purchase(context.Background(), userID, reward.ID, 1, "")

	require.NoError(t, err)
	assert.Equal(t, 40, result.PointsRemaining)
	assert.Equal(t, 60, result.Redemption.PointsSpent)
	assert.Equal(t, "K7MR-3XWP", result.Redemption.Code)
	assert.Equal(t, domain.RedemptionPending, result.Redemption.Status)
	assert.Equal(t, domain.SourcePurchase, result.Redemption.Source)
	require.NotNil(t, result.Redemption.ExpiresAt)
	require.Len(t, f.effects.purchases, 1)
	f.ledger.AssertExpectations(t)
}

// A 100-point balance and a 100-point item: the purchase drains the balance
// exactly, and a second concurrent spend loses the debit guard.
func TestPurchase_ExactBalanceThenGuardLoses(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	reward := activeReward(100)
	reservationID := uuid.New()

	f.repo.On("GetRedemptionByKey", mock.Anything, mock.Anything).Return(nil, nil)
	f.ledger.On("GetReward", mock.Anything, reward.ID).Return(reward, nil)
	f.ledger.On("Reserve", mock.Anything, reward.ID, 1).Return(reservationID, nil)
	f.ledger.On("Confirm", mock.Anything, reservationID).Return(nil)
	f.ledger.On("Release", mock.Anything, reservationID).Return(nil)
	f.repo.On("BeginTx", mock.Anything).Return(f.tx, nil)
	// First debit wins, second loses the balance guard.
	f.tx.On("DebitPoints", mock.Anything, userID, 100).Return(true, nil).Once()
	f.tx.On("DebitPoints", mock.Anything, userID, 100).Return(false, nil).Once()
	f.tx.On("InsertRedemption", mock.Anything, mock.Anything).Return(nil)
	f.tx.On("BumpPurchaseStats", mock.Anything, userID).Return(nil)
	f.tx.On("Commit", mock.Anything).Return(nil)
	f.tx.On("Rollback", mock.Anything).Return(nil)
	f.expectUserBalance(userID, 0)

	first, err := f.svc.Purchase(context.Background(), userID, reward.ID, 1, "token-1")
	require.NoError(t, err)
	assert.Equal(t, 0, first.PointsRemaining)

	_, err = f.svc.Purchase(context.Background(), userID, reward.ID, 1, "token-2")
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	// The losing attempt must return its stock hold.
	f.ledger.AssertCalled(t, "Release", mock.Anything, reservationID)
	assert.Len(t, f.effects.purchases, 1)
}

func TestPurchase_OutOfStock(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	reward := activeReward(60)

	f.repo.On("GetRedemptionByKey", mock.Anything, mock.Anything).Return(nil, nil)
	f.ledger.On("GetReward", mock.Anything, reward.ID).Return(reward, nil)
	f.ledger.On("Reserve", mock.Anything, reward.ID, 1).Return(uuid.Nil, domain.ErrOutOfStock)

	_, err := f.svc.Purchase(context.Background(), userID, reward.ID, 1, "")

	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	f.repo.AssertNotCalled(t, "BeginTx")
}

func TestPurchase_MaxPerUserExceeded(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	reward := activeReward(60)
	reward.MaxPerUser = 2

	f.repo.On("GetRedemptionByKey", mock.Anything, mock.Anything).Return(nil, nil)
	f.ledger.On("GetReward", mock.Anything, reward.ID).Return(reward, nil)
	f.repo.On("CountUserRedemptions", mock.Anything, userID, reward.ID).Return(2, nil)

	_, err := f.svc.Purchase(context.Background(), userID, reward.ID, 1, "")

	assert.ErrorIs(t, err, domain.ErrMaxPurchasesExceeded)
	f.ledger.AssertNotCalled(t, "Reserve")
}

func TestPurchase_InactiveReward(t *testing.T) {
	f := newFixture(t)
	reward := activeReward(60)
	reward.IsActive = false

	f.repo.On("GetRedemptionByKey", mock.Anything, mock.Anything).Return(nil, nil)
	f.ledger.On("GetReward", mock.Anything, reward.ID).Return(reward, nil)

	_, err := f.svc.Purchase(context.Background(), uuid.New(), reward.ID, 1, "")

	assert.ErrorIs(t, err, domain.ErrItemNotAvailable)
}

func TestPurchase_InvalidQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Purchase(context.Background(), uuid.New(), uuid.New(), 0, "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	f.repo.AssertNotCalled(t, "GetRedemptionByKey")
}

func TestPurchase_ReplayDoesNotDoubleApply(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	existing := &domain.Redemption{
		ID:          uuid.New(),
		UserID:      userID,
		PointsSpent: 60,
		Status:      domain.RedemptionPending,
	}

	f.repo.On("GetRedemptionByKey", mock.Anything, "token-9").Return(existing, nil)
	f.expectUserBalance(userID, 40)

	result, err := f.svc.Purchase(context.Background(), userID, uuid.New(), 1, "token-9")

	require.NoError(t, err)
	assert.True(t, result.Replayed)
	assert.Equal(t, existing.ID, result.Redemption.ID)
	f.ledger.AssertNotCalled(t, "Reserve")
	f.repo.AssertNotCalled(t, "BeginTx")
	assert.Empty(t, f.effects.purchases)
}

func TestFulfill_PendingRedemption(t *testing.T) {
	f := newFixture(t)
	red := &domain.Redemption{ID: uuid.New(), UserID: uuid.New(), Status: domain.RedemptionPending}

	f.repo.On("GetRedemption", mock.Anything, red.ID).Return(red, nil)
	f.repo.On("TransitionRedemption", mock.Anything, red.ID, domain.RedemptionFulfilled).Return(true, nil)

	got, err := f.svc.Fulfill(context.Background(), red.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionFulfilled, got.Status)
	require.Len(t, f.effects.closed, 1)
}

func TestFulfill_AlreadyFulfilled(t *testing.T) {
	f := newFixture(t)
	red := &domain.Redemption{ID: uuid.New(), Status: domain.RedemptionFulfilled}

	f.repo.On("GetRedemption", mock.Anything, red.ID).Return(red, nil)

	_, err := f.svc.Fulfill(context.Background(), red.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	f.repo.AssertNotCalled(t, "TransitionRedemption")
}

func TestFulfill_LostTransitionRace(t *testing.T) {
	f := newFixture(t)
	red := &domain.Redemption{ID: uuid.New(), Status: domain.RedemptionPending}

	f.repo.On("GetRedemption", mock.Anything, red.ID).Return(red, nil)
	f.repo.On("TransitionRedemption", mock.Anything, red.ID, domain.RedemptionFulfilled).Return(false, nil)

	_, err := f.svc.Fulfill(context.Background(), red.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, f.effects.closed)
}

func TestCancel_PendingRedemption(t *testing.T) {
	f := newFixture(t)
	red := &domain.Redemption{ID: uuid.New(), Status: domain.RedemptionPending}

	f.repo.On("GetRedemption", mock.Anything, red.ID).Return(red, nil)
	f.repo.On("TransitionRedemption", mock.Anything, red.ID, domain.RedemptionCancelled).Return(true, nil)

	got, err := f.svc.Cancel(context.Background(), red.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionCancelled, got.Status)
}

func TestExpireStale_NotifiesPerRedemption(t *testing.T) {
	f := newFixture(t)
	expired := []domain.Redemption{
		{ID: uuid.New(), Status: domain.RedemptionCancelled},
		{ID: uuid.New(), Status: domain.RedemptionCancelled},
	}

	f.repo.On("ExpireStaleRedemptions", mock.Anything, mock.Anything).Return(expired, nil)

	count, err := f.svc.ExpireStale(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, f.effects.closed, 2)
}

func TestCodeService_Format(t *testing.T) {
	codes := NewCodeService()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := codes.IssueCode(context.Background())
		require.NoError(t, err)
		assert.Regexp(t, `^[A-HJ-NP-TV-Z2-9]{4}-[A-HJ-NP-TV-Z2-9]{4}$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45, "codes should be effectively unique")
}
