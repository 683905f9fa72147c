package internal

import (
	"context"
	"time"
)

// Clock is the time source of the polling loop
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
	// WithDeadline derives a context that is done once the clock reaches t
	WithDeadline(ctx context.Context, t time.Time) (context.Context, context.CancelFunc)
}

// SystemClock is the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sleep blocks for d or until ctx is done
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (SystemClock) WithDeadline(ctx context.Context, t time.Time) (context.Context, context.CancelFunc) {
	return context.WithDeadline(ctx, t)
}
