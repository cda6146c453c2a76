package repository

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// TxBudget bounds order transactions: how many may run at once, how long a
// caller waits for a slot and how long a transaction may run.
type TxBudget struct {
	slots   *semaphore.Weighted
	maxWait time.Duration
	timeout time.Duration
}

func NewTxBudget(maxConcurrent int64, maxWait, timeout time.Duration) *TxBudget {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &TxBudget{
		slots:   semaphore.NewWeighted(maxConcurrent),
		maxWait: maxWait,
		timeout: timeout,
	}
}

// Run waits for a slot and calls fn with a context bounded by the execution
// timeout. A nil budget runs fn directly.
func (b *TxBudget) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if b == nil {
		return fn(ctx)
	}

	waitCtx := ctx
	if b.maxWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, b.maxWait)
		defer cancel()
	}
	if err := b.slots.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTransactionTimeout
	}
	defer b.slots.Release(1)

	txCtx := ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	return fn(txCtx)
}
