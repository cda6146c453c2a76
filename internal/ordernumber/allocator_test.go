package ordernumber

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cake-order-service/internal/domain"
	"cake-order-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCounter struct {
	mu    sync.Mutex
	count int64
	err   error
	calls int
	froms []time.Time
}

func (s *stubCounter) CountCreatedBetween(_ context.Context, from, _ time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.froms = append(s.froms, from)
	return s.count, s.err
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
}

func noSleep(context.Context, time.Duration) error { return nil }

func newTestAllocator(counter DayCounter) *Allocator {
	return NewAllocator(counter, Config{Clock: fixedClock, Sleep: noSleep}, nil)
}

func collision(column string) error {
	return &repository.UniqueViolationError{Constraint: "uk_orders_order_number", Column: column}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		outcome Outcome
		want    State
	}{
		{name: "success", state: State{Phase: Attempting, Retry: 2}, outcome: OutcomeSuccess, want: State{Phase: Succeeded, Retry: 2}},
		{name: "collision retries", state: State{Phase: Attempting, Retry: 0}, outcome: OutcomeCollision, want: State{Phase: Attempting, Retry: 1}},
		{name: "last collision exhausts", state: State{Phase: Attempting, Retry: 9}, outcome: OutcomeCollision, want: State{Phase: FailedPermanently, Retry: 10, Exhausted: true}},
		{name: "other failure stops", state: State{Phase: Attempting, Retry: 3}, outcome: OutcomeFailure, want: State{Phase: FailedPermanently, Retry: 3}},
		{name: "succeeded is terminal", state: State{Phase: Succeeded}, outcome: OutcomeCollision, want: State{Phase: Succeeded}},
		{name: "failed is terminal", state: State{Phase: FailedPermanently}, outcome: OutcomeSuccess, want: State{Phase: FailedPermanently}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.state, tt.outcome, 10))
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Classify(nil))
	assert.Equal(t, OutcomeCollision, Classify(collision(OrderNumberColumn)))
	assert.Equal(t, OutcomeCollision, Classify(collision("")))
	assert.Equal(t, OutcomeFailure, Classify(collision("email")))
	assert.Equal(t, OutcomeFailure, Classify(errors.New("connection reset")))
}

func TestFormat(t *testing.T) {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD-20260105-001", Format(day, 1))
	assert.Equal(t, "ORD-20260105-042", Format(day, 42))
	assert.Equal(t, "ORD-20260105-1000", Format(day, 1000))
}

func TestDayBounds(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	at := time.Date(2026, 10, 15, 16, 0, 0, 0, time.UTC)

	from, to := DayBounds(at, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, 24*time.Hour, to.Sub(from))

	from, _ = DayBounds(at, seoul)
	assert.Equal(t, "20261016", from.Format("20060102"))
}

func TestAllocate_FirstAttempt(t *testing.T) {
	counter := &stubCounter{count: 4}
	a := newTestAllocator(counter)

	var got []string
	number, err := a.Allocate(context.Background(), func(_ context.Context, n string) error {
		got = append(got, n)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ORD-20261015-005", number)
	assert.Equal(t, []string{"ORD-20261015-005"}, got)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), counter.froms[0])
}

func TestAllocate_RetriesWithOffset(t *testing.T) {
	counter := &stubCounter{count: 4}
	a := newTestAllocator(counter)

	var got []string
	number, err := a.Allocate(context.Background(), func(_ context.Context, n string) error {
		got = append(got, n)
		if len(got) < 3 {
			return collision(OrderNumberColumn)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ORD-20261015-007", number)
	assert.Equal(t, []string{"ORD-20261015-005", "ORD-20261015-006", "ORD-20261015-007"}, got)
	assert.Equal(t, 3, counter.calls, "day count is re-read on every attempt")
}

func TestAllocate_ExhaustsBudget(t *testing.T) {
	counter := &stubCounter{}
	a := newTestAllocator(counter)

	attempts := 0
	_, err := a.Allocate(context.Background(), func(context.Context, string) error {
		attempts++
		return collision("")
	})

	require.Error(t, err)
	assert.True(t, IsExhausted(err))
	assert.Equal(t, DefaultMaxAttempts, attempts)

	code, _ := domain.CodeOf(err)
	assert.Equal(t, domain.CodeOrderCreateFailed, code)
	assert.ErrorIs(t, err, domain.NewError(domain.CodeOrderNumberConflict, ""))
	_, isCollision := repository.AsUniqueViolation(err)
	assert.True(t, isCollision)
}

func TestAllocate_OtherFailureIsNotRetried(t *testing.T) {
	a := newTestAllocator(&stubCounter{})
	dbErr := errors.New("deadlock")

	attempts := 0
	_, err := a.Allocate(context.Background(), func(context.Context, string) error {
		attempts++
		return dbErr
	})

	assert.ErrorIs(t, err, dbErr)
	assert.False(t, IsExhausted(err))
	assert.Equal(t, 1, attempts)
}

func TestAllocate_CountFailure(t *testing.T) {
	countErr := errors.New("count failed")
	a := newTestAllocator(&stubCounter{err: countErr})

	_, err := a.Allocate(context.Background(), func(context.Context, string) error {
		t.Fatal("persist must not run")
		return nil
	})
	assert.ErrorIs(t, err, countErr)
}

func TestAllocate_CanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := NewAllocator(&stubCounter{}, Config{Clock: fixedClock, Backoff: time.Hour}, nil)

	_, err := a.Allocate(ctx, func(context.Context, string) error {
		cancel()
		return collision(OrderNumberColumn)
	})
	assert.ErrorIs(t, err, context.Canceled)
}
