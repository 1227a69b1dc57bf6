// Package cpu provides system-wide CPU utilization samplers.
package cpu

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danpilch/cpulog/pkg/collectors"
)

// ErrInvalidWindow is returned when the measurement window is not positive.
var ErrInvalidWindow = errors.New("measurement window must be positive")

// begin validates the window and context before a measurement starts.
func begin(ctx context.Context, source string, window time.Duration) error {
	if window <= 0 {
		return &collectors.MeasurementError{Source: source, Err: fmt.Errorf("%w: %v", ErrInvalidWindow, window)}
	}
	if err := ctx.Err(); err != nil {
		return &collectors.MeasurementError{Source: source, Err: err}
	}
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
