package txservices_test

import (
	"context"
	"sync"

	"github.com/kosatnkn/txservices"
)

// fakeUserTransaction reports a fixed status.
type fakeUserTransaction struct {
	status txservices.Status
	err    error
}

func (f *fakeUserTransaction) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (f *fakeUserTransaction) Commit(context.Context) error                       { return nil }
func (f *fakeUserTransaction) Rollback(context.Context) error                     { return nil }
func (f *fakeUserTransaction) SetRollbackOnly(context.Context) error              { return nil }

func (f *fakeUserTransaction) Status(context.Context) (txservices.Status, error) {
	return f.status, f.err
}

// fakeTransaction records the listeners registered on it.
type fakeTransaction struct {
	id  string
	err error

	mu    sync.Mutex
	syncs []txservices.Synchronization
}

func (f *fakeTransaction) ID() string { return f.id }

func (f *fakeTransaction) Status() (txservices.Status, error) {
	return txservices.StatusActive, nil
}

func (f *fakeTransaction) RegisterSynchronization(s txservices.Synchronization) error {

	if f.err != nil {
		return f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.syncs = append(f.syncs, s)

	return nil
}

func (f *fakeTransaction) registered() int {

	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.syncs)
}

type fakeTransactionManager struct {
	tx  txservices.TransactionInterface
	err error
}

func (f *fakeTransactionManager) Transaction(context.Context) (txservices.TransactionInterface, error) {
	return f.tx, f.err
}

// fakeEngine counts how often its handle is requested.
type fakeEngine struct {
	ut txservices.UserTransactionInterface
	tm txservices.TransactionManagerInterface

	mu      sync.Mutex
	utCalls int
}

func (f *fakeEngine) UserTransaction() txservices.UserTransactionInterface {

	f.mu.Lock()
	defer f.mu.Unlock()

	f.utCalls++

	return f.ut
}

func (f *fakeEngine) TransactionManager() txservices.TransactionManagerInterface {
	return f.tm
}

func (f *fakeEngine) calls() int {

	f.mu.Lock()
	defer f.mu.Unlock()

	return f.utCalls
}

// recordingSync counts callback invocations.
type recordingSync struct {
	before int
	after  int
}

func (r *recordingSync) BeforeCompletion(context.Context) error {
	r.before++
	return nil
}

func (r *recordingSync) AfterCompletion(context.Context, txservices.Status) {
	r.after++
}
