package txservices

import "context"

// TransactionServicesInterface is the contract a dependency-injection runtime
// uses to expose transaction control and to decide when transactional
// observer notifications are delivered.
type TransactionServicesInterface interface {

	// UserTransaction returns the transaction-control handle of the engine.
	UserTransaction() UserTransactionInterface

	// IsTransactionActive reports whether a transaction is active for the context.
	IsTransactionActive(ctx context.Context) (bool, error)

	// RegisterSynchronization attaches a completion listener to the transaction
	// bound to the context, if there is one.
	RegisterSynchronization(ctx context.Context, s Synchronization) error

	// Cleanup releases any reference held by the implementation.
	Cleanup()
}
