package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/waypointlabs/prizehunt/internal/capture"
	"github.com/waypointlabs/prizehunt/internal/domain"
	"github.com/waypointlabs/prizehunt/internal/logger"
)

// CaptureService is the capture surface the HTTP layer depends on.
type CaptureService interface {
	Attempt(ctx context.Context, req domain.CaptureAttempt) (*domain.CaptureResult, error)
	PreValidate(ctx context.Context, userID, prizeID uuid.UUID, loc domain.GeoPoint) (*capture.PreValidation, error)
}

type CaptureHandler struct {
	service CaptureService
}

func NewCaptureHandler(service CaptureService) *CaptureHandler {
	return &CaptureHandler{service: service}
}

// GeoPointRequest is a client-supplied coordinate pair.
type GeoPointRequest struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// DeviceInfoRequest identifies the client device for anti-cheat.
type DeviceInfoRequest struct {
	Fingerprint string `json:"fingerprint" validate:"required,max=128"`
	Model       string `json:"model" validate:"max=64"`
}

// ARDataRequest is the optional AR session state at capture time.
type ARDataRequest struct {
	Tracking      bool    `json:"tracking"`
	LightEstimate float64 `json:"light_estimate" validate:"gte=0"`
}

type AttemptCaptureRequest struct {
	UserID         string            `json:"user_id" validate:"required,uuid"`
	PrizeID        string            `json:"prize_id" validate:"required,uuid"`
	Location       GeoPointRequest   `json:"location"`
	AccuracyMeters float64           `json:"accuracy_m" validate:"gte=0"`
	Device         DeviceInfoRequest `json:"device"`
	AR             *ARDataRequest    `json:"ar,omitempty"`
	Method         string            `json:"method" validate:"capture_method"`
	IdempotencyKey string            `json:"idempotency_key" validate:"max=128"`
}

// toDomain converts the validated request to a domain attempt. The UUID
// parses cannot fail after validation.
func (req *AttemptCaptureRequest) toDomain() domain.CaptureAttempt {
	method := domain.CaptureMethod(req.Method)
	if method == "" {
		method = domain.MethodTap
	}

	attempt := domain.CaptureAttempt{
		UserID:         uuid.MustParse(req.UserID),
		PrizeID:        uuid.MustParse(req.PrizeID),
		Location:       domain.GeoPoint{Lat: req.Location.Lat, Lng: req.Location.Lng},
		AccuracyMeters: req.AccuracyMeters,
		Device: domain.DeviceInfo{
			Fingerprint: req.Device.Fingerprint,
			Model:       req.Device.Model,
		},
		Method:         method,
		IdempotencyKey: req.IdempotencyKey,
	}
	if req.AR != nil {
		attempt.AR = &domain.ARData{
			Tracking:      req.AR.Tracking,
			LightEstimate: req.AR.LightEstimate,
		}
	}
	return attempt
}

// HandleAttempt processes a capture attempt
// @Summary Attempt a prize capture
// @Description Validates proximity and anti-cheat signals, then atomically commits the claim and payout
// @Tags capture
// @Accept json
// @Produce json
// @Param request body AttemptCaptureRequest true "Capture attempt"
// @Success 200 {object} domain.CaptureResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /capture/attempt [post]
func (h *CaptureHandler) HandleAttempt(w http.ResponseWriter, r *http.Request) {
	var req AttemptCaptureRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Attempt capture"); err != nil {
		return
	}

	result, err := h.service.Attempt(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, r, "Attempt capture", err)
		return
	}

	if result.NeedsReconciliation {
		// Already flagged on the claim; log so operators see it near the request
		logger.FromContext(r.Context()).Warn("Capture committed with unconfirmed stock hold",
			"reason_code", domain.CodeRedemptionCreationFailedAfterClaim,
			"claim_id", result.Claim.ID)
	}

	respondJSON(w, http.StatusOK, result)
}

type PreValidateRequest struct {
	UserID   string          `json:"user_id" validate:"required,uuid"`
	PrizeID  string          `json:"prize_id" validate:"required,uuid"`
	Location GeoPointRequest `json:"location"`
}

// HandlePreValidate answers whether a capture at the given location would pass
// the proximity checks. Side-effect free; clients poll it while approaching.
// @Summary Pre-validate a capture location
// @Tags capture
// @Accept json
// @Produce json
// @Param request body PreValidateRequest true "Pre-validation query"
// @Success 200 {object} capture.PreValidation
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /capture/prevalidate [post]
func (h *CaptureHandler) HandlePreValidate(w http.ResponseWriter, r *http.Request) {
	var req PreValidateRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Pre-validate capture"); err != nil {
		return
	}

	result, err := h.service.PreValidate(r.Context(),
		uuid.MustParse(req.UserID),
		uuid.MustParse(req.PrizeID),
		domain.GeoPoint{Lat: req.Location.Lat, Lng: req.Location.Lng})
	if err != nil {
		respondServiceError(w, r, "Pre-validate capture", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
