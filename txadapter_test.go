package txservices_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kosatnkn/txservices"
)

type boundTxKey struct{}

type boundTx struct {
	status txservices.Status
}

// bindingUserTransaction binds a fake transaction to the context and counts outcomes.
type bindingUserTransaction struct {
	begun     int
	committed int
	rolled    int
}

func (b *bindingUserTransaction) Begin(ctx context.Context) (context.Context, error) {
	b.begun++
	return context.WithValue(ctx, boundTxKey{}, &boundTx{status: txservices.StatusActive}), nil
}

func (b *bindingUserTransaction) bound(ctx context.Context) *boundTx {
	tx, _ := ctx.Value(boundTxKey{}).(*boundTx)
	return tx
}

func (b *bindingUserTransaction) Commit(ctx context.Context) error {

	tx := b.bound(ctx)
	if tx == nil || tx.status.IsCompleted() {
		return txservices.ErrIllegalState
	}

	if tx.status == txservices.StatusMarkedRollback {
		tx.status = txservices.StatusRolledBack
		b.rolled++
		return txservices.ErrRollback
	}

	tx.status = txservices.StatusCommitted
	b.committed++

	return nil
}

func (b *bindingUserTransaction) Rollback(ctx context.Context) error {

	tx := b.bound(ctx)
	if tx == nil || tx.status.IsCompleted() {
		return txservices.ErrIllegalState
	}

	tx.status = txservices.StatusRolledBack
	b.rolled++

	return nil
}

func (b *bindingUserTransaction) SetRollbackOnly(ctx context.Context) error {

	tx := b.bound(ctx)
	if tx == nil {
		return txservices.ErrIllegalState
	}

	tx.status = txservices.StatusMarkedRollback

	return nil
}

func (b *bindingUserTransaction) Status(ctx context.Context) (txservices.Status, error) {

	tx := b.bound(ctx)
	if tx == nil || tx.status.IsCompleted() {
		return txservices.StatusNoTransaction, nil
	}

	return tx.status, nil
}

// TestWrapCommits tests that a successful function commits its transaction.
func TestWrapCommits(t *testing.T) {

	ut := &bindingUserTransaction{}
	tx := txservices.NewTxAdapter(ut)

	r, err := tx.Wrap(context.Background(), func(ctx context.Context) (interface{}, error) {

		status, err := ut.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, txservices.StatusActive, status)

		return "done", nil
	})
	require.NoError(t, err)

	assert.Equal(t, "done", r)
	assert.Equal(t, 1, ut.begun)
	assert.Equal(t, 1, ut.committed)
	assert.Equal(t, 0, ut.rolled)
}

// TestWrapRollsBack tests that a failing function rolls its transaction back.
func TestWrapRollsBack(t *testing.T) {

	ut := &bindingUserTransaction{}
	tx := txservices.NewTxAdapter(ut)
	need := errors.New("query failed")

	r, err := tx.Wrap(context.Background(), func(ctx context.Context) (interface{}, error) {
		return "partial", need
	})

	assert.ErrorIs(t, err, need)
	assert.Nil(t, r)
	assert.Equal(t, 0, ut.committed)
	assert.Equal(t, 1, ut.rolled)
}

// TestWrapRollsBackOnPanic tests that a panic rolls back and propagates.
func TestWrapRollsBackOnPanic(t *testing.T) {

	ut := &bindingUserTransaction{}
	tx := txservices.NewTxAdapter(ut)

	assert.Panics(t, func() {
		_, _ = tx.Wrap(context.Background(), func(ctx context.Context) (interface{}, error) {
			panic("boom")
		})
	})

	assert.Equal(t, 1, ut.rolled)
}

// TestNestedWrapJoins tests that an inner Wrap joins the outer transaction.
func TestNestedWrapJoins(t *testing.T) {

	ut := &bindingUserTransaction{}
	tx := txservices.NewTxAdapter(ut)

	r, err := tx.Wrap(context.Background(), func(ctx context.Context) (interface{}, error) {

		r2, err2 := tx.Wrap(ctx, func(ctx context.Context) (interface{}, error) {
			return 2, nil
		})
		require.NoError(t, err2)
		assert.Equal(t, 2, r2)

		// the inner wrap must not complete the transaction
		status, _ := ut.Status(ctx)
		assert.Equal(t, txservices.StatusActive, status)

		return 1, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, r)
	assert.Equal(t, 1, ut.begun)
	assert.Equal(t, 1, ut.committed)
}

// TestNestedWrapInnerFail tests that a failing inner Wrap dooms the outer transaction.
func TestNestedWrapInnerFail(t *testing.T) {

	ut := &bindingUserTransaction{}
	tx := txservices.NewTxAdapter(ut)
	need := errors.New("inner failed")

	_, err := tx.Wrap(context.Background(), func(ctx context.Context) (interface{}, error) {

		_, err2 := tx.Wrap(ctx, func(ctx context.Context) (interface{}, error) {
			return nil, need
		})
		assert.ErrorIs(t, err2, need)

		// the outer function carries on as if nothing happened
		return 1, nil
	})

	assert.ErrorIs(t, err, txservices.ErrRollback)
	assert.Equal(t, 0, ut.committed)
	assert.Equal(t, 1, ut.rolled)
}
