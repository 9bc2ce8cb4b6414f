package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

type mockMarketplaceService struct {
	mock.Mock
}

func (m *mockMarketplaceService) ListItems(ctx context.Context) ([]domain.Reward, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reward), args.Error(1)
}

func (m *mockMarketplaceService) Purchase(ctx context.Context, userID, rewardID uuid.UUID, quantity int, idempotencyKey string) (*domain.PurchaseResult, error) {
	args := m.Called(ctx, userID, rewardID, quantity, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseResult), args.Error(1)
}

func (m *mockMarketplaceService) GetRedemption(ctx context.Context, id uuid.UUID) (*domain.Redemption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Redemption), args.Error(1)
}

func (m *mockMarketplaceService) Fulfill(ctx context.Context, id uuid.UUID) (*domain.Redemption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Redemption), args.Error(1)
}

func (m *mockMarketplaceService) Cancel(ctx context.Context, id uuid.UUID) (*domain.Redemption, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Redemption), args.Error(1)
}

// marketplaceRouter mounts the handler the way the server does so path
// parameters resolve in tests.
func marketplaceRouter(h *MarketplaceHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/marketplace/items", h.HandleListItems)
	r.Post("/marketplace/purchase", h.HandlePurchase)
	r.Get("/marketplace/redemptions/{id}", h.HandleGetRedemption)
	r.Post("/marketplace/redemptions/{id}/fulfill", h.HandleFulfill)
	r.Post("/marketplace/redemptions/{id}/cancel", h.HandleCancel)
	return r
}

func TestHandleListItems(t *testing.T) {
	svc := new(mockMarketplaceService)
	router := marketplaceRouter(NewMarketplaceHandler(svc))

	svc.On("ListItems", mock.Anything).Return([]domain.Reward{
		{ID: uuid.New(), Name: "Coffee Voucher", PointsCost: 60},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/marketplace/items", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []domain.Reward `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Coffee Voucher", resp.Data[0].Name)
}

func TestHandlePurchase_Success(t *testing.T) {
	svc := new(mockMarketplaceService)
	h := NewMarketplaceHandler(svc)
	userID, rewardID := uuid.New(), uuid.New()

	svc.On("Purchase", mock.Anything, userID, rewardID, 1, "").Return(&domain.PurchaseResult{
		Redemption:      &domain.Redemption{ID: uuid.New(), Code: "K7MR-3XWP"},
		PointsRemaining: 40,
	}, nil)

	rec := postJSON(t, h.HandlePurchase, "/marketplace/purchase", map[string]interface{}{
		"user_id":   userID.String(),
		"reward_id": rewardID.String(),
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var result domain.PurchaseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 40, result.PointsRemaining)
	svc.AssertExpectations(t)
}

func TestHandlePurchase_ReplayedReturnsOK(t *testing.T) {
	svc := new(mockMarketplaceService)
	h := NewMarketplaceHandler(svc)

	svc.On("Purchase", mock.Anything, mock.Anything, mock.Anything, 1, "token-1").
		Return(&domain.PurchaseResult{
			Redemption: &domain.Redemption{ID: uuid.New()},
			Replayed:   true,
		}, nil)

	rec := postJSON(t, h.HandlePurchase, "/marketplace/purchase", map[string]interface{}{
		"user_id":         uuid.New().String(),
		"reward_id":       uuid.New().String(),
		"idempotency_key": "token-1",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePurchase_InsufficientPoints(t *testing.T) {
	svc := new(mockMarketplaceService)
	h := NewMarketplaceHandler(svc)

	svc.On("Purchase", mock.Anything, mock.Anything, mock.Anything, 1, "").
		Return(nil, domain.ErrInsufficientPoints)

	rec := postJSON(t, h.HandlePurchase, "/marketplace/purchase", map[string]interface{}{
		"user_id":   uuid.New().String(),
		"reward_id": uuid.New().String(),
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.CodeInsufficientPoints, resp.Code)
}

func TestHandlePurchase_InvalidUserID(t *testing.T) {
	svc := new(mockMarketplaceService)
	h := NewMarketplaceHandler(svc)

	rec := postJSON(t, h.HandlePurchase, "/marketplace/purchase", map[string]interface{}{
		"user_id":   "not-a-uuid",
		"reward_id": uuid.New().String(),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Purchase")
}

func TestHandleFulfill_Success(t *testing.T) {
	svc := new(mockMarketplaceService)
	router := marketplaceRouter(NewMarketplaceHandler(svc))
	id := uuid.New()

	svc.On("Fulfill", mock.Anything, id).Return(&domain.Redemption{
		ID:     id,
		Status: domain.RedemptionFulfilled,
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/marketplace/redemptions/"+id.String()+"/fulfill", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var red domain.Redemption
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &red))
	assert.Equal(t, domain.RedemptionFulfilled, red.Status)
}

func TestHandleFulfill_InvalidID(t *testing.T) {
	svc := new(mockMarketplaceService)
	router := marketplaceRouter(NewMarketplaceHandler(svc))

	req := httptest.NewRequest(http.MethodPost, "/marketplace/redemptions/nope/fulfill", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Fulfill")
}

func TestHandleCancel_AlreadyClosed(t *testing.T) {
	svc := new(mockMarketplaceService)
	router := marketplaceRouter(NewMarketplaceHandler(svc))
	id := uuid.New()

	svc.On("Cancel", mock.Anything, id).Return(nil, domain.ErrInvalidTransition)

	req := httptest.NewRequest(http.MethodPost, "/marketplace/redemptions/"+id.String()+"/cancel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleGetRedemption_NotFound(t *testing.T) {
	svc := new(mockMarketplaceService)
	router := marketplaceRouter(NewMarketplaceHandler(svc))
	id := uuid.New()

	svc.On("GetRedemption", mock.Anything, id).Return(nil, domain.ErrItemNotAvailable)

	req := httptest.NewRequest(http.MethodGet, "/marketplace/redemptions/"+id.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
