// Package ordernumber allocates human readable order numbers of the form
// ORD-YYYYMMDD-NNN without a dedicated sequence table. Candidates are derived
// from the number of orders created today; collisions under concurrent
// creation are absorbed by a bounded retry loop.
package ordernumber

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cake-order-service/internal/domain"
	"cake-order-service/internal/repository"

	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 10
	DefaultBackoff     = 50 * time.Millisecond

	// OrderNumberColumn is the column the unique order number lives in.
	OrderNumberColumn = "order_number"
)

// DayCounter counts orders created within a time range.
type DayCounter interface {
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// PersistFunc persists the order under the given number.
type PersistFunc func(ctx context.Context, orderNumber string) error

// Config tunes the allocator. Zero values fall back to defaults.
type Config struct {
	MaxAttempts int
	Backoff     time.Duration
	Location    *time.Location
	Clock       func() time.Time
	Sleep       func(ctx context.Context, d time.Duration) error
}

type Allocator struct {
	counter     DayCounter
	maxAttempts int
	backoff     time.Duration
	location    *time.Location
	clock       func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *zap.Logger
}

func NewAllocator(counter DayCounter, cfg Config, logger *zap.Logger) *Allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Allocator{
		counter:     counter,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		location:    cfg.Location,
		clock:       cfg.Clock,
		sleep:       cfg.Sleep,
		logger:      logger,
	}
	if a.maxAttempts <= 0 {
		a.maxAttempts = DefaultMaxAttempts
	}
	if a.backoff <= 0 {
		a.backoff = DefaultBackoff
	}
	if a.location == nil {
		a.location = time.UTC
	}
	if a.clock == nil {
		a.clock = time.Now
	}
	if a.sleep == nil {
		a.sleep = sleepContext
	}
	return a
}

// Format renders an order number for the given day and sequence.
func Format(day time.Time, seq int64) string {
	return fmt.Sprintf("ORD-%s-%03d", day.Format("20060102"), seq)
}

// Classify maps a persistence error to a retry outcome. Unique violations on
// the order number column, or on a column that cannot be determined, are
// collisions.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if uv, ok := repository.AsUniqueViolation(err); ok {
		if uv.Column == "" || uv.Column == OrderNumberColumn {
			return OutcomeCollision
		}
	}
	return OutcomeFailure
}

// DayBounds returns the start and end of the calendar day containing t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// Allocate runs persist with successive candidate numbers until one sticks.
// The day count is re-read on every attempt. It returns the number that was
// persisted.
func (a *Allocator) Allocate(ctx context.Context, persist PersistFunc) (string, error) {
	state := Start()
	for {
		number, err := a.candidate(ctx, state.Retry)
		if err != nil {
			return "", err
		}

		err = persist(ctx, number)
		outcome := Classify(err)
		state = Next(state, outcome, a.maxAttempts)

		switch state.Phase {
		case Succeeded:
			if state.Retry > 0 {
				a.logger.Info("order number allocated after retries",
					zap.String("orderNumber", number), zap.Int("retries", state.Retry))
			}
			return number, nil
		case FailedPermanently:
			if state.Exhausted {
				a.logger.Error("order number allocation exhausted",
					zap.Int("attempts", state.Retry), zap.Error(err))
				return "", &domain.Error{
					Kind:    domain.KindResourceExhausted,
					Code:    domain.CodeOrderCreateFailed,
					Message: "could not allocate an order number",
					Err: domain.WrapError(domain.CodeOrderNumberConflict, domain.KindConflict,
						"order number already taken", err),
				}
			}
			return "", err
		}

		a.logger.Warn("order number collision, retrying",
			zap.String("orderNumber", number), zap.Int("retry", state.Retry))
		if err := a.sleep(ctx, a.backoff); err != nil {
			return "", err
		}
	}
}

func (a *Allocator) candidate(ctx context.Context, retry int) (string, error) {
	now := a.clock()
	from, to := DayBounds(now, a.location)
	count, err := a.counter.CountCreatedBetween(ctx, from, to)
	if err != nil {
		return "", fmt.Errorf("count today's orders: %w", err)
	}
	return Format(from, count+1+int64(retry)), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsExhausted reports whether err is the allocator giving up after its budget.
func IsExhausted(err error) bool {
	var de *domain.Error
	return errors.As(err, &de) && de.Code == domain.CodeOrderCreateFailed && de.Kind == domain.KindResourceExhausted
}
