package engine

import (
	"context"

	"github.com/kosatnkn/txservices"
)

// transactionManager locates the engine transaction bound to a context.
type transactionManager struct{}

var _ txservices.TransactionManagerInterface = (*transactionManager)(nil)

// Transaction returns the transaction bound to the context, or nil when there
// is none or it has already completed.
func (m *transactionManager) Transaction(ctx context.Context) (txservices.TransactionInterface, error) {

	tx := current(ctx)
	if tx == nil {
		return nil, nil
	}

	return tx, nil
}
