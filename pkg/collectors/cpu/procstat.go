package cpu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/danpilch/cpulog/pkg/collectors"
	"github.com/danpilch/cpulog/pkg/sample"
)

// CPUStats holds raw aggregate CPU statistics from /proc/stat, in clock ticks.
type CPUStats struct {
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	IOWait  uint64
	IRQ     uint64
	SoftIRQ uint64
	Steal   uint64
}

// Total returns the total CPU time.
func (s CPUStats) Total() uint64 {
	return s.User + s.Nice + s.System + s.Idle + s.IOWait + s.IRQ + s.SoftIRQ + s.Steal
}

// Busy returns the busy CPU time (non-idle).
func (s CPUStats) Busy() uint64 {
	return s.User + s.Nice + s.System + s.IRQ + s.SoftIRQ + s.Steal
}

// Utilization returns the busy percentage between two readings.
func Utilization(before, after CPUStats) float64 {
	if after.Total() <= before.Total() {
		return 0
	}
	totalDelta := float64(after.Total() - before.Total())

	var busyDelta float64
	if after.Busy() > before.Busy() {
		busyDelta = float64(after.Busy() - before.Busy())
	}
	return sample.Clamp((busyDelta / totalDelta) * 100)
}

// ProcStat samples CPU utilization by reading /proc/stat before and after the window.
type ProcStat struct {
	read func() (CPUStats, error)
}

// NewProcStat creates a /proc/stat sampler.
func NewProcStat() *ProcStat {
	return &ProcStat{read: readCPUStats}
}

// Name returns the sampler name.
func (p *ProcStat) Name() string {
	return "procstat"
}

// Measure blocks for window and returns the aggregate CPU busy percentage.
func (p *ProcStat) Measure(ctx context.Context, window time.Duration) (float64, error) {
	if err := begin(ctx, p.Name(), window); err != nil {
		return 0, err
	}

	stats1, err := p.read()
	if err != nil {
		return 0, &collectors.MeasurementError{Source: p.Name(), Err: err}
	}

	if err := sleep(ctx, window); err != nil {
		return 0, &collectors.MeasurementError{Source: p.Name(), Err: err}
	}

	stats2, err := p.read()
	if err != nil {
		return 0, &collectors.MeasurementError{Source: p.Name(), Err: err}
	}

	return Utilization(stats1, stats2), nil
}

// parseCPUStats finds the aggregate "cpu " line in /proc/stat content.
func parseCPUStats(r io.Reader) (CPUStats, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 8 {
			return CPUStats{}, fmt.Errorf("unexpected /proc/stat format: %d fields", len(fields))
		}

		values := make([]uint64, 8)
		for i := 1; i < len(fields) && i <= 8; i++ {
			v, err := strconv.ParseUint(fields[i], 10, 64)
			if err != nil {
				return CPUStats{}, fmt.Errorf("parse /proc/stat field %d: %w", i, err)
			}
			values[i-1] = v
		}

		return CPUStats{
			User:    values[0],
			Nice:    values[1],
			System:  values[2],
			Idle:    values[3],
			IOWait:  values[4],
			IRQ:     values[5],
			SoftIRQ: values[6],
			Steal:   values[7],
		}, nil
	}
	if err := scanner.Err(); err != nil {
		return CPUStats{}, err
	}

	return CPUStats{}, fmt.Errorf("cpu line not found in /proc/stat")
}
