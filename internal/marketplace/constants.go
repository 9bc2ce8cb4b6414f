package marketplace

// Log messages
const (
	LogMsgPurchaseCalled     = "Marketplace purchase called"
	LogMsgPurchaseReplayed   = "Purchase replayed, returning existing redemption"
	LogMsgPurchaseCommitted  = "Purchase committed"
	LogMsgRedemptionClosed   = "Redemption closed"
	LogMsgConfirmFailed      = "Stock confirm failed after commit, reservation left for reconciliation"
	LogMsgExpiredRedemptions = "Expired stale redemptions"
)

// Error message formats
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction: %w"
	ErrMsgCommitTransactionFailed = "failed to commit transaction: %w"
)
