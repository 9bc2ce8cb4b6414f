package handler

import (
	"errors"
	"net/http"

	"github.com/waypointlabs/prizehunt/internal/domain"
)

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidID             = "Invalid id"
	ErrMsgGenericServerError    = "Something went wrong"

	// User-facing messages derived from domain errors
	ErrMsgPrizeNotFoundHTTP    = "Prize not found"
	ErrMsgUserNotFoundHTTP     = "User not found"
	ErrMsgItemNotAvailableHTTP = "That item is not available"
	ErrMsgRedemptionNotFound   = "Redemption not found"
	ErrMsgPrizeNotActiveHTTP   = "Prize is not active right now"
	ErrMsgPrizeExhaustedHTTP   = "Prize has already been claimed"
	ErrMsgTooFarHTTP           = "You are too far from the prize"
	ErrMsgCaptureRejectedHTTP  = "Capture attempt rejected"
	ErrMsgInsufficientHTTP     = "Not enough points"
	ErrMsgOutOfStockHTTP       = "Out of stock"
	ErrMsgMaxPurchasesHTTP     = "Purchase limit reached for this item"
	ErrMsgLocationHTTP         = "Location not supported"
	ErrMsgConflictHTTP         = "Conflicting request in flight. Try again"
	ErrMsgBadTransitionHTTP    = "Redemption is no longer in a state that allows this"
)

// mapServiceError converts a domain error to an HTTP status and response body.
// The pairing with the wire reason code lives here rather than in individual
// handlers so every endpoint rejects the same way.
func mapServiceError(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgGenericServerError}
	}

	code := domain.ReasonCode(err)

	switch {
	case errors.Is(err, domain.ErrPrizeNotFound):
		return http.StatusNotFound, ErrorResponse{Error: ErrMsgPrizeNotFoundHTTP, Code: code}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrorResponse{Error: ErrMsgUserNotFoundHTTP, Code: code}
	case errors.Is(err, domain.ErrItemNotAvailable):
		return http.StatusNotFound, ErrorResponse{Error: ErrMsgItemNotAvailableHTTP, Code: code}

	case errors.Is(err, domain.ErrPrizeNotActive):
		return http.StatusConflict, ErrorResponse{Error: ErrMsgPrizeNotActiveHTTP, Code: code}
	case errors.Is(err, domain.ErrPrizeExhausted):
		return http.StatusConflict, ErrorResponse{Error: ErrMsgPrizeExhaustedHTTP, Code: code}
	case errors.Is(err, domain.ErrTooFarFromPrize):
		return http.StatusForbidden, ErrorResponse{Error: ErrMsgTooFarHTTP, Code: code}

	// Anti-cheat rejections share one client message; the reason code still
	// distinguishes them for clients that want finer-grained UI.
	case errors.Is(err, domain.ErrTooManyCaptures),
		errors.Is(err, domain.ErrImpossibleTravelSpeed),
		errors.Is(err, domain.ErrLowValidationScore),
		errors.Is(err, domain.ErrSuspiciousActivity):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: ErrMsgCaptureRejectedHTTP, Code: code}

	case errors.Is(err, domain.ErrInsufficientPoints):
		return http.StatusConflict, ErrorResponse{Error: ErrMsgInsufficientHTTP, Code: code}
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict, ErrorResponse{Error: ErrMsgOutOfStockHTTP, Code: code}
	case errors.Is(err, domain.ErrMaxPurchasesExceeded):
		return http.StatusConflict, ErrorResponse{Error: ErrMsgMaxPurchasesHTTP, Code: code}
	case errors.Is(err, domain.ErrLocationNotSupported):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgLocationHTTP, Code: code}

	case errors.Is(err, domain.ErrCommitConflict):
		return http.StatusConflict, ErrorResponse{Error: ErrMsgConflictHTTP, Code: code, Retryable: true}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, ErrorResponse{Error: ErrMsgBadTransitionHTTP, Code: domain.CodeInvalidInput}

	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidCoordinate):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgInvalidRequestSummary, Code: code}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgGenericServerError}
}
