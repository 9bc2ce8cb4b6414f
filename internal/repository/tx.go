package repository

import "context"

// Tx is the base contract for transactional operations.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
