package core

import (
	"context"
	"time"
)

// Clock is the time source of the measurements.
type Clock interface {
	Now() time.Time

	// Sleep for the given duration, return early with an error if the
	// context ends.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// elapsedMs converts a duration into fractional milliseconds.
func elapsedMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
