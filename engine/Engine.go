package engine

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/kosatnkn/txservices"
	"github.com/kosatnkn/txservices/internal"
)

// Engine binds database/sql transactions to contexts and exposes them through
// the transaction engine contracts of txservices.
type Engine struct {
	pool    *sql.DB
	dialect Dialect
	logger  *zap.Logger
	metrics *Metrics

	ut *userTransaction
	tm *transactionManager
}

var _ txservices.EngineInterface = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger of the engine. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics makes the engine record transaction outcomes.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates a new engine over the connection pool.
func New(pool *sql.DB, dialect Dialect, opts ...Option) *Engine {

	e := &Engine{
		pool:    pool,
		dialect: dialect,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.Named("engine").With(zap.String("dialect", dialect.Name))
	e.ut = &userTransaction{engine: e}
	e.tm = &transactionManager{}

	return e
}

// UserTransaction returns the transaction-control handle of the engine.
func (e *Engine) UserTransaction() txservices.UserTransactionInterface {
	return e.ut
}

// TransactionManager returns the transaction manager of the engine.
func (e *Engine) TransactionManager() txservices.TransactionManagerInterface {
	return e.tm
}

// Pool returns the underlying connection pool.
func (e *Engine) Pool() *sql.DB {
	return e.pool
}

// Dialect returns the SQL dialect of the engine.
func (e *Engine) Dialect() Dialect {
	return e.dialect
}

// Ping checks whether the database is accessible.
func (e *Engine) Ping() error {
	return e.pool.Ping()
}

// Close closes the connection pool.
func (e *Engine) Close() error {
	return e.pool.Close()
}

// begin starts a database transaction and attaches it to the context.
func (e *Engine) begin(ctx context.Context) (context.Context, error) {

	if current(ctx) != nil {
		return nil, errNested
	}

	sqlTx, err := e.pool.BeginTx(ctx, nil)
	if err != nil {
		return nil, systemError("cannot begin transaction", err)
	}

	tx := newTransaction(sqlTx, e.logger, e.metrics)
	e.metrics.begun()
	tx.logger.Debug("transaction begun")

	return context.WithValue(ctx, internal.TxKey, tx), nil
}

// commit completes the transaction.
//
// A transaction marked rollback-only is rolled back without running before
// completion listeners. Those run while the transaction is still active. A
// failing listener or a rollback-only mark turns the commit into a rollback.
func (e *Engine) commit(ctx context.Context, tx *Transaction) error {

	if tx.currentStatus() == txservices.StatusMarkedRollback {
		_ = e.rollback(ctx, tx)
		return rollbackError(tx, nil)
	}

	if err := tx.beforeCompletion(ctx); err != nil {
		tx.setStatus(txservices.StatusMarkedRollback)
		_ = e.rollback(ctx, tx)
		return rollbackError(tx, err)
	}

	// a listener may have marked the transaction rollback-only
	if tx.currentStatus() == txservices.StatusMarkedRollback {
		_ = e.rollback(ctx, tx)
		return rollbackError(tx, nil)
	}

	if err := tx.transition(txservices.StatusPreparing, txservices.StatusActive); err != nil {
		return err
	}
	tx.setStatus(txservices.StatusPrepared)
	tx.setStatus(txservices.StatusCommitting)

	if err := tx.tx.Commit(); err != nil {
		tx.setStatus(txservices.StatusRolledBack)
		e.metrics.rolledBack()
		tx.logger.Error("commit failed", zap.Error(err))
		tx.afterCompletion(ctx, txservices.StatusRolledBack)
		return systemError("cannot commit transaction "+tx.id, err)
	}

	tx.setStatus(txservices.StatusCommitted)
	e.metrics.committed()
	tx.logger.Debug("transaction committed")
	tx.afterCompletion(ctx, txservices.StatusCommitted)

	return nil
}

// rollback rolls the transaction back.
func (e *Engine) rollback(ctx context.Context, tx *Transaction) error {

	err := tx.transition(txservices.StatusRollingBack,
		txservices.StatusActive,
		txservices.StatusMarkedRollback,
		txservices.StatusPreparing,
		txservices.StatusPrepared)
	if err != nil {
		return err
	}

	sqlErr := tx.tx.Rollback()

	tx.setStatus(txservices.StatusRolledBack)
	e.metrics.rolledBack()
	tx.logger.Debug("transaction rolled back")
	tx.afterCompletion(ctx, txservices.StatusRolledBack)

	if sqlErr != nil && sqlErr != sql.ErrTxDone {
		return systemError("cannot roll back transaction "+tx.id, sqlErr)
	}

	return nil
}
