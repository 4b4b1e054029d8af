package txservices

import "errors"

var (
	// ErrSystem is an engine failure that prevents an operation from being
	// performed or a status from being determined.
	ErrSystem = errors.New("system failure")

	// ErrRollback is returned when the transaction has progressed past the point
	// where the requested operation is valid, for example when it is marked for rollback.
	ErrRollback = errors.New("transaction rolled back")

	// ErrIllegalState is returned when an operation is attempted on a
	// transaction in a status that does not allow it.
	ErrIllegalState = errors.New("illegal transaction state")

	// ErrNestedTransaction is returned when a transaction is begun on a context
	// that already carries one.
	ErrNestedTransaction = errors.New("nested transactions are not supported")

	// ErrNilSynchronization is returned when a nil completion listener is registered.
	ErrNilSynchronization = errors.New("synchronization is nil")
)

// RuntimeError is the single failure type surfaced by TransactionServices.
//
// It carries the message of the engine error that caused it and unwraps to
// that error so callers can still match ErrSystem or ErrRollback.
type RuntimeError struct {
	Op      string
	Message string
	Err     error
}

func newRuntimeError(op string, err error) *RuntimeError {

	return &RuntimeError{
		Op:      op,
		Message: err.Error(),
		Err:     err,
	}
}

// Error returns the message of the underlying error.
func (e *RuntimeError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}
