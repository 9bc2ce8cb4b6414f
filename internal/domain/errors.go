package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Lookup errors
	ErrMsgPrizeNotFound    = "prize not found"
	ErrMsgUserNotFound     = "user not found"
	ErrMsgItemNotAvailable = "item not available"

	// Eligibility errors
	ErrMsgPrizeNotActive = "prize is not active"
	ErrMsgPrizeExhausted = "prize is exhausted"
	ErrMsgTooFarFromPrize = "too far from prize"

	// Anti-cheat errors (fail closed)
	ErrMsgTooManyCaptures      = "too many capture attempts"
	ErrMsgImpossibleTravelSpeed = "impossible travel speed"
	ErrMsgLowValidationScore   = "validation score below floor"
	ErrMsgSuspiciousActivity   = "suspicious activity"

	// Economic errors
	ErrMsgInsufficientPoints   = "insufficient points"
	ErrMsgOutOfStock           = "out of stock"
	ErrMsgMaxPurchasesExceeded = "max purchases exceeded"
	ErrMsgLocationNotSupported = "location not supported"

	// Transactional errors
	ErrMsgCommitConflict    = "commit conflict"
	ErrMsgInvalidTransition = "invalid redemption state transition"

	// Input errors
	ErrMsgInvalidInput      = "invalid input"
	ErrMsgInvalidCoordinate = "coordinate out of range"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Lookup errors
	ErrPrizeNotFound    = errors.New(ErrMsgPrizeNotFound)
	ErrUserNotFound     = errors.New(ErrMsgUserNotFound)
	ErrItemNotAvailable = errors.New(ErrMsgItemNotAvailable)

	// Eligibility errors
	ErrPrizeNotActive  = errors.New(ErrMsgPrizeNotActive)
	ErrPrizeExhausted  = errors.New(ErrMsgPrizeExhausted)
	ErrTooFarFromPrize = errors.New(ErrMsgTooFarFromPrize)

	// Anti-cheat errors
	ErrTooManyCaptures       = errors.New(ErrMsgTooManyCaptures)
	ErrImpossibleTravelSpeed = errors.New(ErrMsgImpossibleTravelSpeed)
	ErrLowValidationScore    = errors.New(ErrMsgLowValidationScore)
	ErrSuspiciousActivity    = errors.New(ErrMsgSuspiciousActivity)

	// Economic errors
	ErrInsufficientPoints   = errors.New(ErrMsgInsufficientPoints)
	ErrOutOfStock           = errors.New(ErrMsgOutOfStock)
	ErrMaxPurchasesExceeded = errors.New(ErrMsgMaxPurchasesExceeded)
	ErrLocationNotSupported = errors.New(ErrMsgLocationNotSupported)

	// Transactional errors
	ErrCommitConflict    = errors.New(ErrMsgCommitConflict)
	ErrInvalidTransition = errors.New(ErrMsgInvalidTransition)

	// Input errors
	ErrInvalidInput      = errors.New(ErrMsgInvalidInput)
	ErrInvalidCoordinate = errors.New(ErrMsgInvalidCoordinate)
)

// Wire reason codes returned to clients. The client maps these to UI messages;
// server-side detail stays in the logs.
const (
	CodePrizeNotFound    = "PRIZE_NOT_FOUND"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeItemNotAvailable = "ITEM_NOT_AVAILABLE"

	CodePrizeNotActive  = "PRIZE_NOT_ACTIVE"
	CodePrizeExhausted  = "PRIZE_EXHAUSTED"
	CodeTooFarFromPrize = "TOO_FAR_FROM_PRIZE"

	CodeTooManyCaptures       = "TOO_MANY_CAPTURES"
	CodeImpossibleTravelSpeed = "IMPOSSIBLE_TRAVEL_SPEED"
	CodeLowValidationScore    = "LOW_VALIDATION_SCORE"
	CodeSuspiciousActivity    = "SUSPICIOUS_ACTIVITY"

	CodeInsufficientPoints   = "INSUFFICIENT_POINTS"
	CodeOutOfStock           = "OUT_OF_STOCK"
	CodeMaxPurchasesExceeded = "MAX_PURCHASES_EXCEEDED"
	CodeLocationNotSupported = "LOCATION_NOT_SUPPORTED"

	CodeCommitConflict = "COMMIT_CONFLICT"
	CodeRedemptionCreationFailedAfterClaim = "REDEMPTION_CREATION_FAILED_AFTER_CLAIM"

	CodeInvalidInput = "INVALID_INPUT"
)

// ReasonCode maps a domain error to its wire reason code.
// Unknown errors map to an empty string so callers can fall back to a 500.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrPrizeNotFound):
		return CodePrizeNotFound
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrItemNotAvailable):
		return CodeItemNotAvailable
	case errors.Is(err, ErrPrizeNotActive):
		return CodePrizeNotActive
	case errors.Is(err, ErrPrizeExhausted):
		return CodePrizeExhausted
	case errors.Is(err, ErrTooFarFromPrize):
		return CodeTooFarFromPrize
	case errors.Is(err, ErrTooManyCaptures):
		return CodeTooManyCaptures
	case errors.Is(err, ErrImpossibleTravelSpeed):
		return CodeImpossibleTravelSpeed
	case errors.Is(err, ErrLowValidationScore):
		return CodeLowValidationScore
	case errors.Is(err, ErrSuspiciousActivity):
		return CodeSuspiciousActivity
	case errors.Is(err, ErrInsufficientPoints):
		return CodeInsufficientPoints
	case errors.Is(err, ErrOutOfStock):
		return CodeOutOfStock
	case errors.Is(err, ErrMaxPurchasesExceeded):
		return CodeMaxPurchasesExceeded
	case errors.Is(err, ErrLocationNotSupported):
		return CodeLocationNotSupported
	case errors.Is(err, ErrCommitConflict):
		return CodeCommitConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidCoordinate):
		return CodeInvalidInput
	default:
		return ""
	}
}

// IsRetryable reports whether the caller may safely retry the request.
// Only commit conflicts qualify; the caller must not assume any side effect occurred.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrCommitConflict)
}
