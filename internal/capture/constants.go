package capture

// Log messages
const (
	LogMsgAttemptCalled      = "Capture attempt called"
	LogMsgAttemptReplayed    = "Capture attempt replayed, returning existing claim"
	LogMsgUnboundedPrize     = "Prize has no stored location, proximity check skipped"
	LogMsgCaptureCommitted   = "Capture committed"
	LogMsgFulfillmentFailed  = "Direct reward fulfillment failed, capture recorded without payout"
	LogMsgConfirmFailed      = "Stock confirm failed after commit, reservation left for reconciliation"
	LogMsgPreValidateCalled  = "Capture pre-validation called"
)

// Error message formats
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
)
