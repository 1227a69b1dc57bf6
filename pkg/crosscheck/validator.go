// Package crosscheck compares CPU utilization readings taken by several samplers
// over the same window.
package crosscheck

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/danpilch/cpulog/pkg/collectors"
)

// ValidationStatus indicates the confidence level of a cross-checked reading.
type ValidationStatus string

const (
	StatusValid    ValidationStatus = "valid"
	StatusSuspect  ValidationStatus = "suspect"
	StatusConflict ValidationStatus = "conflict"
	StatusNoData   ValidationStatus = "no_data"
)

// Reading is a single measurement from one sampler.
type Reading struct {
	Source string  `json:"source"`
	Value  float64 `json:"value"`
	Error  string  `json:"error,omitempty"`
}

// ValidationResult holds the cross-check outcome.
type ValidationResult struct {
	Window       time.Duration    `json:"window"`
	Readings     []Reading        `json:"readings"`
	Consensus    float64          `json:"consensus"`
	MaxDeviation float64          `json:"max_deviation"`
	Status       ValidationStatus `json:"status"`
}

// Validator cross-checks readings from multiple samplers.
type Validator struct {
	SuspectThreshold  float64 // deviation in percentage points to mark suspect (default 5)
	ConflictThreshold float64 // deviation in percentage points to mark conflict (default 20)
}

// NewValidator creates a validator with default thresholds.
func NewValidator() *Validator {
	return &Validator{
		SuspectThreshold:  5.0,
		ConflictThreshold: 20.0,
	}
}

// Measure runs every sampler concurrently over the same window and cross-checks
// the results.
func (v *Validator) Measure(ctx context.Context, samplers []collectors.Sampler, window time.Duration) ValidationResult {
	var (
		readings = make([]Reading, len(samplers))
		wg       sync.WaitGroup
	)

	for i, s := range samplers {
		wg.Add(1)
		go func(i int, s collectors.Sampler) {
			defer wg.Done()

			r := Reading{Source: s.Name()}
			value, err := s.Measure(ctx, window)
			if err != nil {
				r.Error = err.Error()
			} else {
				r.Value = value
			}
			readings[i] = r
		}(i, s)
	}

	wg.Wait()

	result := v.CrossCheck(readings)
	result.Window = window
	return result
}

// CrossCheck compares readings, ignoring failed ones. The consensus is the
// median; deviation is measured in percentage points from it.
func (v *Validator) CrossCheck(readings []Reading) ValidationResult {
	result := ValidationResult{
		Readings: readings,
		Status:   StatusValid,
	}

	values := make([]float64, 0, len(readings))
	for _, r := range readings {
		if r.Error == "" {
			values = append(values, r.Value)
		}
	}

	if len(values) == 0 {
		result.Status = StatusNoData
		return result
	}

	if len(values) == 1 {
		result.Consensus = values[0]
		return result
	}

	sort.Float64s(values)

	if len(values)%2 == 0 {
		result.Consensus = (values[len(values)/2-1] + values[len(values)/2]) / 2
	} else {
		result.Consensus = values[len(values)/2]
	}

	for _, val := range values {
		dev := math.Abs(val - result.Consensus)
		if dev > result.MaxDeviation {
			result.MaxDeviation = dev
		}
	}

	if result.MaxDeviation >= v.ConflictThreshold {
		result.Status = StatusConflict
	} else if result.MaxDeviation >= v.SuspectThreshold {
		result.Status = StatusSuspect
	}

	return result
}
