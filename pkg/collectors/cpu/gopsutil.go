package cpu

import (
	"context"
	"errors"
	"time"

	"github.com/danpilch/cpulog/pkg/collectors"
	"github.com/danpilch/cpulog/pkg/sample"
	gocpu "github.com/shirou/gopsutil/v4/cpu"
)

// Gopsutil samples CPU utilization through gopsutil, which supports Linux, macOS,
// Windows and the BSDs.
type Gopsutil struct {
	percent func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
}

// NewGopsutil creates a gopsutil-backed sampler.
func NewGopsutil() *Gopsutil {
	return &Gopsutil{percent: gocpu.PercentWithContext}
}

// Name returns the sampler name.
func (g *Gopsutil) Name() string {
	return "gopsutil"
}

// Measure blocks for window and returns the aggregate CPU busy percentage.
func (g *Gopsutil) Measure(ctx context.Context, window time.Duration) (float64, error) {
	if err := begin(ctx, g.Name(), window); err != nil {
		return 0, err
	}

	values, err := g.percent(ctx, window, false)
	if err != nil {
		return 0, &collectors.MeasurementError{Source: g.Name(), Err: err}
	}
	if err := ctx.Err(); err != nil {
		return 0, &collectors.MeasurementError{Source: g.Name(), Err: err}
	}
	if len(values) == 0 {
		return 0, &collectors.MeasurementError{Source: g.Name(), Err: errors.New("no cpu values returned")}
	}

	return sample.Clamp(values[0]), nil
}
