package progression

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/event"
)

// MockUserRepository is a mock implementation of repository.User
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) PromoteUserLevel(ctx context.Context, id uuid.UUID, newLevel int) (bool, error) {
	args := m.Called(ctx, id, newLevel)
	return args.Bool(0), args.Error(1)
}

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points int
		level  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{900, 4},
		{1600, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelForPoints(tt.points), "points=%d", tt.points)
	}
}

func TestPointsForLevel_RoundTrip(t *testing.T) {
	for level := 1; level <= 10; level++ {
		assert.Equal(t, level, LevelForPoints(PointsForLevel(level)))
	}
}

func TestCheckLevelUp_Promotes(t *testing.T) {
	users := new(MockUserRepository)
	bus := event.NewMemoryBus()
	svc := NewService(users, bus)

	var published []event.Event
	bus.Subscribe(event.UserLevelUp, func(ctx context.Context, e event.Event) error {
		published = append(published, e)
		return nil
	})

	userID := uuid.New()
	users.On("GetUser", mock.Anything, userID).Return(&domain.User{
		ID:     userID,
		Level:  1,
		Points: domain.PointsBalance{Total: 450},
	}, nil)
	users.On("PromoteUserLevel", mock.Anything, userID, 3).Return(true, nil)

	require.NoError(t, svc.CheckLevelUp(context.Background(), userID))

	require.Len(t, published, 1)
	payload := published[0].Payload.(domain.UserLevelUpPayload)
	assert.Equal(t, 1, payload.OldLevel)
	assert.Equal(t, 3, payload.NewLevel)
	users.AssertExpectations(t)
}

func TestCheckLevelUp_NoPromotionBelowThreshold(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewService(users, event.NewMemoryBus())

	userID := uuid.New()
	users.On("GetUser", mock.Anything, userID).Return(&domain.User{
		ID:     userID,
		Level:  2,
		Points: domain.PointsBalance{Total: 150},
	}, nil)

	require.NoError(t, svc.CheckLevelUp(context.Background(), userID))

	users.AssertNotCalled(t, "PromoteUserLevel")
}

func TestCheckLevelUp_ConcurrentPromotionLost(t *testing.T) {
	users := new(MockUserRepository)
	bus := event.NewMemoryBus()
	svc := NewService(users, bus)

	var published int
	bus.Subscribe(event.UserLevelUp, func(ctx context.Context, e event.Event) error {
		published++
		return nil
	})

	userID := uuid.New()
	users.On("GetUser", mock.Anything, userID).Return(&domain.User{
		ID:     userID,
		Level:  1,
		Points: domain.PointsBalance{Total: 100},
	}, nil)
	users.On("PromoteUserLevel", mock.Anything, userID, 2).Return(false, nil)

	require.NoError(t, svc.CheckLevelUp(context.Background(), userID))

	assert.Zero(t, published, "no event when another replica already promoted")
}
