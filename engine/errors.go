package engine

import (
	"fmt"

	"github.com/kosatnkn/txservices"
)

var (
	errNested        = fmt.Errorf("engine: %w", txservices.ErrNestedTransaction)
	errNoTransaction = fmt.Errorf("engine: no transaction bound to context: %w", txservices.ErrIllegalState)
)

// systemError wraps a driver error so that it matches both txservices.ErrSystem and the driver error.
func systemError(msg string, err error) error {
	return fmt.Errorf("engine: %s: %w: %w", msg, txservices.ErrSystem, err)
}

func rollbackError(tx *Transaction, cause error) error {

	if cause != nil {
		return fmt.Errorf("engine: transaction %s rolled back: %w: %w", tx.id, txservices.ErrRollback, cause)
	}

	return fmt.Errorf("engine: transaction %s was marked for rollback: %w", tx.id, txservices.ErrRollback)
}
