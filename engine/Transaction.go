package engine

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kosatnkn/txservices"
	"github.com/kosatnkn/txservices/internal"
)

// Transaction is a database transaction together with its status and the
// completion listeners registered on it.
type Transaction struct {
	id      string
	tx      *sql.Tx
	logger  *zap.Logger
	metrics *Metrics

	mu     sync.Mutex
	status txservices.Status
	syncs  []txservices.Synchronization
}

var _ txservices.TransactionInterface = (*Transaction)(nil)

func newTransaction(tx *sql.Tx, logger *zap.Logger, metrics *Metrics) *Transaction {

	id := uuid.NewString()

	return &Transaction{
		id:      id,
		tx:      tx,
		logger:  logger.With(zap.String("transaction_id", id)),
		metrics: metrics,
		status:  txservices.StatusActive,
	}
}

// FromContext returns the transaction attached to the context, or nil.
func FromContext(ctx context.Context) *Transaction {

	tx, _ := ctx.Value(internal.TxKey).(*Transaction)

	return tx
}

// current returns the transaction attached to the context when it has not completed yet.
func current(ctx context.Context) *Transaction {

	tx := FromContext(ctx)
	if tx == nil || tx.currentStatus().IsCompleted() {
		return nil
	}

	return tx
}

// ID returns the identifier of the transaction.
func (t *Transaction) ID() string {
	return t.id
}

// Tx returns the underlying database transaction.
func (t *Transaction) Tx() *sql.Tx {
	return t.tx
}

// Status returns the current status of the transaction.
func (t *Transaction) Status() (txservices.Status, error) {
	return t.currentStatus(), nil
}

// RegisterSynchronization attaches a completion listener.
//
// Listeners are accepted only while the transaction is active.
func (t *Transaction) RegisterSynchronization(s txservices.Synchronization) error {

	if s == nil {
		return txservices.ErrNilSynchronization
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.status {
	case txservices.StatusActive:
		t.syncs = append(t.syncs, s)
		t.metrics.synchronized()
		return nil
	case txservices.StatusMarkedRollback:
		return fmt.Errorf("engine: transaction %s is marked for rollback: %w", t.id, txservices.ErrRollback)
	default:
		return fmt.Errorf("engine: transaction %s is %s: %w", t.id, t.status, txservices.ErrIllegalState)
	}
}

func (t *Transaction) currentStatus() txservices.Status {

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.status
}

func (t *Transaction) setStatus(s txservices.Status) {

	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = s
}

// transition moves the transaction to the next status when it is in one of the allowed ones.
func (t *Transaction) transition(next txservices.Status, allowed ...txservices.Status) error {

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range allowed {
		if t.status == s {
			t.status = next
			return nil
		}
	}

	return fmt.Errorf("engine: transaction %s is %s: %w", t.id, t.status, txservices.ErrIllegalState)
}

// synchronizations returns a snapshot of the registered listeners.
func (t *Transaction) synchronizations() []txservices.Synchronization {

	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]txservices.Synchronization, len(t.syncs))
	copy(out, t.syncs)

	return out
}

// beforeCompletion runs the BeforeCompletion callbacks, stopping at the first failure.
//
// Listeners registered by a callback are run too.
func (t *Transaction) beforeCompletion(ctx context.Context) error {

	for i := 0; ; i++ {

		s, ok := t.synchronizationAt(i)
		if !ok {
			return nil
		}

		if err := s.BeforeCompletion(ctx); err != nil {
			t.logger.Warn("before completion failed", zap.Error(err))
			return err
		}
	}
}

// synchronizationAt returns the i-th registered listener.
func (t *Transaction) synchronizationAt(i int) (txservices.Synchronization, bool) {

	t.mu.Lock()
	defer t.mu.Unlock()

	if i >= len(t.syncs) {
		return nil, false
	}

	return t.syncs[i], true
}

// afterCompletion runs the AfterCompletion callbacks with the final status.
//
// A panicking listener does not prevent the others from being notified.
func (t *Transaction) afterCompletion(ctx context.Context, status txservices.Status) {

	for _, s := range t.synchronizations() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.logger.Error("after completion panicked", zap.Any("panic", r))
				}
			}()
			s.AfterCompletion(ctx, status)
		}()
	}
}
