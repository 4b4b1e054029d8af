package txservices

import "context"

// Synchronization is a completion listener attached to a transaction.
//
// BeforeCompletion is called before the transaction starts to commit. Returning
// an error forces the transaction to roll back. AfterCompletion is called once
// the transaction has committed or rolled back and receives the final status.
type Synchronization interface {

	// BeforeCompletion is called before the commit process starts.
	BeforeCompletion(ctx context.Context) error

	// AfterCompletion is called after the transaction completes.
	AfterCompletion(ctx context.Context, status Status)
}

// SynchronizationFuncs adapts a pair of functions to a Synchronization.
// Either function may be nil.
type SynchronizationFuncs struct {
	Before func(ctx context.Context) error
	After  func(ctx context.Context, status Status)
}

// BeforeCompletion calls Before if set.
func (f SynchronizationFuncs) BeforeCompletion(ctx context.Context) error {

	if f.Before == nil {
		return nil
	}

	return f.Before(ctx)
}

// AfterCompletion calls After if set.
func (f SynchronizationFuncs) AfterCompletion(ctx context.Context, status Status) {

	if f.After != nil {
		f.After(ctx, status)
	}
}

// UserTransactionInterface is the transaction-control handle application code
// uses to demarcate a transaction bound to a context.
type UserTransactionInterface interface {

	// Begin starts a transaction and returns a context carrying it.
	Begin(ctx context.Context) (context.Context, error)

	// Commit completes the transaction carried by the context.
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction carried by the context.
	Rollback(ctx context.Context) error

	// SetRollbackOnly marks the transaction so that its only possible outcome is a rollback.
	SetRollbackOnly(ctx context.Context) error

	// Status returns the status of the transaction carried by the context,
	// or StatusNoTransaction when there is none.
	Status(ctx context.Context) (Status, error)
}

// TransactionInterface is a single transaction owned by an engine.
type TransactionInterface interface {

	// ID returns the engine assigned identifier of the transaction.
	ID() string

	// Status returns the current status of the transaction.
	Status() (Status, error)

	// RegisterSynchronization attaches a completion listener to the transaction.
	RegisterSynchronization(s Synchronization) error
}

// TransactionManagerInterface locates the transaction bound to a context.
type TransactionManagerInterface interface {

	// Transaction returns the transaction bound to the context.
	// A nil transaction and a nil error are returned when there is none.
	Transaction(ctx context.Context) (TransactionInterface, error)
}

// EngineInterface is the process wide entry point of a transaction engine.
type EngineInterface interface {

	// UserTransaction returns the transaction-control handle of the engine.
	UserTransaction() UserTransactionInterface

	// TransactionManager returns the transaction manager of the engine.
	TransactionManager() TransactionManagerInterface
}

// RegistryInterface is implemented by dependency-injection registries that can
// supply container managed transaction collaborators.
//
// Each lookup reports false when the registry holds no such instance.
type RegistryInterface interface {

	// UserTransaction returns a container managed transaction-control handle.
	UserTransaction() (UserTransactionInterface, bool)

	// TransactionManager returns a container managed transaction manager.
	TransactionManager() (TransactionManagerInterface, bool)

	// Transaction returns a container managed transaction for the context.
	Transaction(ctx context.Context) (TransactionInterface, bool)
}
