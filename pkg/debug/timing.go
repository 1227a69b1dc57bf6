package debug

import (
	"context"
	"time"

	"github.com/danpilch/cpulog/pkg/collectors"
)

// MeasurementTiming records the duration of a sampler's Measure call.
type MeasurementTiming struct {
	Name     string
	Window   time.Duration
	Duration time.Duration
	Err      error
}

// TimedSampler wraps a collectors.Sampler to record measurement duration.
type TimedSampler struct {
	inner   collectors.Sampler
	observe func(MeasurementTiming)
	Timing  MeasurementTiming
}

// NewTimedSampler wraps a sampler with timing instrumentation. observe, if
// non-nil, is called after every measurement.
func NewTimedSampler(s collectors.Sampler, observe func(MeasurementTiming)) *TimedSampler {
	return &TimedSampler{
		inner:   s,
		observe: observe,
	}
}

// Name returns the wrapped sampler's name.
func (t *TimedSampler) Name() string {
	return t.inner.Name()
}

// Measure runs the wrapped sampler and records duration.
func (t *TimedSampler) Measure(ctx context.Context, window time.Duration) (float64, error) {
	start := time.Now()
	percent, err := t.inner.Measure(ctx, window)
	t.Timing = MeasurementTiming{
		Name:     t.inner.Name(),
		Window:   window,
		Duration: time.Since(start),
		Err:      err,
	}
	if t.observe != nil {
		t.observe(t.Timing)
	}
	return percent, err
}
