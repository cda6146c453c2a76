package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxBudget_RunsWithDeadline(t *testing.T) {
	b := NewTxBudget(1, time.Second, time.Minute)

	err := b.Run(context.Background(), func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	})
	assert.NoError(t, err)
}

func TestTxBudget_SlotWaitTimesOut(t *testing.T) {
	b := NewTxBudget(1, 20*time.Millisecond, time.Minute)

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Run(context.Background(), func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := b.Run(context.Background(), func(context.Context) error {
		t.Fatal("must not run without a slot")
		return nil
	})
	assert.ErrorIs(t, err, ErrTransactionTimeout)

	close(release)
	require.NoError(t, <-done)
}

func TestTxBudget_NilRunsDirectly(t *testing.T) {
	var b *TxBudget
	want := errors.New("boom")
	assert.ErrorIs(t, b.Run(context.Background(), func(context.Context) error { return want }), want)
}
