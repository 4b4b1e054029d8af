package txservices

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// TransactionServices implements TransactionServicesInterface by forwarding
// to a transaction engine. No naming or directory service is involved.
//
// When a registry is configured, container managed collaborators found in it
// are preferred over the ones exposed by the engine.
type TransactionServices struct {
	engine   EngineInterface
	registry RegistryInterface
	logger   *zap.Logger

	mu              sync.Mutex
	userTransaction UserTransactionInterface
}

var _ TransactionServicesInterface = (*TransactionServices)(nil)

// Option configures a TransactionServices instance.
type Option func(*TransactionServices)

// WithRegistry makes the transaction services consult the registry before
// falling back to the engine.
func WithRegistry(r RegistryInterface) Option {
	return func(s *TransactionServices) {
		s.registry = r
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(s *TransactionServices) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewTransactionServices creates a new transaction services adapter over the engine.
func NewTransactionServices(engine EngineInterface, opts ...Option) *TransactionServices {

	s := &TransactionServices{
		engine: engine,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.Named("txservices")

	return s
}

// UserTransaction returns the transaction-control handle exposed by the engine.
//
// The handle is obtained from the engine on every call.
func (s *TransactionServices) UserTransaction() UserTransactionInterface {

	if s.engine == nil {
		return nil
	}

	return s.engine.UserTransaction()
}

// IsTransactionActive reports whether the status of the transaction bound to
// the context is one of ACTIVE, COMMITTING, MARKED_ROLLBACK, PREPARED,
// PREPARING or ROLLING_BACK.
//
// False is returned when no transaction-control handle can be resolved.
// A failure to read the status is returned as a *RuntimeError.
func (s *TransactionServices) IsTransactionActive(ctx context.Context) (bool, error) {

	ut := s.cachedUserTransaction()
	if ut == nil {
		s.logger.Debug("no transaction-control handle available")
		return false, nil
	}

	status, err := ut.Status(ctx)
	if err != nil {
		s.logger.Error("cannot read transaction status", zap.Error(err))
		return false, newRuntimeError("status", err)
	}

	return status.IsActive(), nil
}

// RegisterSynchronization registers the listener with the transaction bound
// to the context.
//
// It does nothing when no transaction manager can be resolved or when no
// transaction is bound to the context. Failures while locating the
// transaction or registering the listener are returned as a *RuntimeError.
func (s *TransactionServices) RegisterSynchronization(ctx context.Context, listener Synchronization) error {

	if listener == nil {
		return newRuntimeError("register synchronization", ErrNilSynchronization)
	}

	tx, err := s.currentTransaction(ctx)
	if err != nil {
		s.logger.Error("cannot obtain current transaction", zap.Error(err))
		return newRuntimeError("transaction", err)
	}

	if tx == nil {
		s.logger.Debug("no transaction to register synchronization with")
		return nil
	}

	err = tx.RegisterSynchronization(listener)
	if err != nil {
		s.logger.Error("cannot register synchronization",
			zap.String("transaction_id", tx.ID()),
			zap.Error(err))
		return newRuntimeError("register synchronization", err)
	}

	s.logger.Debug("synchronization registered", zap.String("transaction_id", tx.ID()))

	return nil
}

// Cleanup releases the cached transaction-control handle so that it is
// resolved again on next use.
func (s *TransactionServices) Cleanup() {

	s.mu.Lock()
	defer s.mu.Unlock()

	s.userTransaction = nil
}

// cachedUserTransaction returns the cached transaction-control handle,
// resolving it first if needed.
func (s *TransactionServices) cachedUserTransaction() UserTransactionInterface {

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userTransaction == nil {
		s.userTransaction = s.resolveUserTransaction()
	}

	return s.userTransaction
}

func (s *TransactionServices) resolveUserTransaction() UserTransactionInterface {

	if s.registry != nil {
		if ut, ok := s.registry.UserTransaction(); ok && ut != nil {
			return ut
		}
	}

	return s.UserTransaction()
}

func (s *TransactionServices) resolveTransactionManager() TransactionManagerInterface {

	if s.registry != nil {
		if tm, ok := s.registry.TransactionManager(); ok && tm != nil {
			return tm
		}
	}

	if s.engine == nil {
		return nil
	}

	return s.engine.TransactionManager()
}

// currentTransaction locates the transaction bound to the context.
//
// A transaction supplied directly by the registry wins, then the transaction
// manager is asked.
func (s *TransactionServices) currentTransaction(ctx context.Context) (TransactionInterface, error) {

	if s.registry != nil {
		if tx, ok := s.registry.Transaction(ctx); ok && tx != nil {
			return tx, nil
		}
	}

	tm := s.resolveTransactionManager()
	if tm == nil {
		return nil, nil
	}

	return tm.Transaction(ctx)
}
