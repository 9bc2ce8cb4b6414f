package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// MarketplaceService is the marketplace surface the HTTP layer depends on.
type MarketplaceService interface {
	ListItems(ctx context.Context) ([]domain.Reward, error)
	Purchase(ctx context.Context, userID, rewardID uuid.UUID, quantity int, idempotencyKey string) (*domain.PurchaseResult, error)
	GetRedemption(ctx context.Context, id uuid.UUID) (*domain.Redemption, error)
	Fulfill(ctx context.Context, id uuid.UUID) (*domain.Redemption, error)
	Cancel(ctx context.Context, id uuid.UUID) (*domain.Redemption, error)
}

type MarketplaceHandler struct {
	service MarketplaceService
}

func NewMarketplaceHandler(service MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{service: service}
}

// HandleListItems returns the active marketplace catalog
// @Summary List purchasable rewards
// @Tags marketplace
// @Produce json
// @Success 200 {object} DataResponse
// @Router /marketplace/items [get]
func (h *MarketplaceHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		respondServiceError(w, r, "List items", err)
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Data: items})
}

type PurchaseRequest struct {
	UserID         string `json:"user_id" validate:"required,uuid"`
	RewardID       string `json:"reward_id" validate:"required,uuid"`
	Quantity       int    `json:"quantity" validate:"gte=0,lte=100"`
	IdempotencyKey string `json:"idempotency_key" validate:"max=128"`
}

// HandlePurchase spends points on a reward
// @Summary Purchase a reward with points
// @Tags marketplace
// @Accept json
// @Produce json
// @Param request body PurchaseRequest true "Purchase request"
// @Success 201 {object} domain.PurchaseResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /marketplace/purchase [post]
func (h *MarketplaceHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Purchase"); err != nil {
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	result, err := h.service.Purchase(r.Context(),
		uuid.MustParse(req.UserID), uuid.MustParse(req.RewardID), quantity, req.IdempotencyKey)
	if err != nil {
		respondServiceError(w, r, "Purchase", err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	respondJSON(w, status, result)
}

// HandleGetRedemption returns a redemption by ID
// @Summary Get a redemption
// @Tags marketplace
// @Produce json
// @Param id path string true "Redemption ID"
// @Success 200 {object} domain.Redemption
// @Failure 404 {object} ErrorResponse
// @Router /marketplace/redemptions/{id} [get]
func (h *MarketplaceHandler) HandleGetRedemption(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathUUID(r, w, "id")
	if !ok {
		return
	}

	redemption, err := h.service.GetRedemption(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Get redemption", err)
		return
	}

	respondJSON(w, http.StatusOK, redemption)
}

// HandleFulfill marks a pending redemption as fulfilled
// @Summary Fulfill a redemption
// @Description Called by partner integrations when the code is honored
// @Tags marketplace
// @Produce json
// @Param id path string true "Redemption ID"
// @Success 200 {object} domain.Redemption
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /marketplace/redemptions/{id}/fulfill [post]
func (h *MarketplaceHandler) HandleFulfill(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Fulfill, "Fulfill redemption")
}

// HandleCancel cancels a pending redemption
// @Summary Cancel a redemption
// @Description Operator action; points and stock are not automatically restored
// @Tags marketplace
// @Produce json
// @Param id path string true "Redemption ID"
// @Success 200 {object} domain.Redemption
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /marketplace/redemptions/{id}/cancel [post]
func (h *MarketplaceHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel, "Cancel redemption")
}

func (h *MarketplaceHandler) transition(w http.ResponseWriter, r *http.Request,
	op func(context.Context, uuid.UUID) (*domain.Redemption, error), opName string) {
	id, ok := GetPathUUID(r, w, "id")
	if !ok {
		return
	}

	redemption, err := op(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, opName, err)
		return
	}

	respondJSON(w, http.StatusOK, redemption)
}
