package repository

import (
	"context"

	"github.com/waypointlabs/prizehunt/internal/logger"
)

// ErrMsgTxClosed matches the driver's "transaction already closed" message so
// rollback-after-commit noise stays out of the logs.
const ErrMsgTxClosed = "tx is closed"

// SafeRollback rolls back a transaction and logs any error
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil {
		// Check for common "closed" errors to avoid noise
		if err.Error() != ErrMsgTxClosed {
			logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
		}
	}
}
