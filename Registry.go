package txservices

import (
	"context"
	"reflect"
	"sync"
)

// Registry is an in-process RegistryInterface implementation.
//
// A container populates it with the collaborators it manages. Tests use it to
// substitute doubles for the engine's own instances.
type Registry struct {
	mu                 sync.RWMutex
	userTransaction    UserTransactionInterface
	transactionManager TransactionManagerInterface
	transaction        func(ctx context.Context) TransactionInterface
}

var _ RegistryInterface = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// ProvideUserTransaction registers a transaction-control handle.
// A nil handle, typed or not, clears the registration.
func (r *Registry) ProvideUserTransaction(ut UserTransactionInterface) {

	if isNil(ut) {
		ut = nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.userTransaction = ut
}

// ProvideTransactionManager registers a transaction manager.
// A nil manager, typed or not, clears the registration.
func (r *Registry) ProvideTransactionManager(tm TransactionManagerInterface) {

	if isNil(tm) {
		tm = nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactionManager = tm
}

// ProvideTransaction registers a producer of the transaction bound to a
// context. The producer returns nil when it has none.
func (r *Registry) ProvideTransaction(fn func(ctx context.Context) TransactionInterface) {

	r.mu.Lock()
	defer r.mu.Unlock()

	r.transaction = fn
}

// UserTransaction returns the registered transaction-control handle.
func (r *Registry) UserTransaction() (UserTransactionInterface, bool) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.userTransaction, r.userTransaction != nil
}

// TransactionManager returns the registered transaction manager.
func (r *Registry) TransactionManager() (TransactionManagerInterface, bool) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.transactionManager, r.transactionManager != nil
}

// Transaction returns the transaction produced for the context.
func (r *Registry) Transaction(ctx context.Context) (TransactionInterface, bool) {

	r.mu.RLock()
	fn := r.transaction
	r.mu.RUnlock()

	if fn == nil {
		return nil, false
	}

	tx := fn(ctx)
	if isNil(tx) {
		return nil, false
	}

	return tx, true
}

// isNil reports whether v is nil or an interface holding a nil pointer.
func isNil(v interface{}) bool {

	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}

	return false
}
