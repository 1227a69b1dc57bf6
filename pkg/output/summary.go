package output

import (
	"math"
	"sort"
	"time"

	"github.com/danpilch/cpulog/pkg/health"
	"github.com/danpilch/cpulog/pkg/sample"
)

// Summary holds aggregate statistics over a set of samples.
type Summary struct {
	Count    int       `json:"count"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Mean     float64   `json:"mean"`
	P95      float64   `json:"p95"`
	StdDev   float64   `json:"stddev"`
	First    time.Time `json:"first"`
	Last     time.Time `json:"last"`
	Warnings int       `json:"warnings"`
	Critical int       `json:"critical"`
}

// Summarize calculates summary statistics from samples.
func Summarize(samples []sample.Sample, thresholds health.Thresholds) Summary {
	s := Summary{Count: len(samples)}
	if len(samples) == 0 {
		return s
	}

	values := make([]float64, len(samples))
	s.Min, s.Max = samples[0].CPUPercent, samples[0].CPUPercent
	s.First, s.Last = samples[0].Timestamp, samples[0].Timestamp
	var sum float64
	for i, smp := range samples {
		v := smp.CPUPercent
		values[i] = v
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		if smp.Timestamp.Before(s.First) {
			s.First = smp.Timestamp
		}
		if smp.Timestamp.After(s.Last) {
			s.Last = smp.Timestamp
		}
		switch thresholds.Evaluate(v) {
		case health.StatusWarning:
			s.Warnings++
		case health.StatusCritical:
			s.Critical++
		}
	}
	s.Mean = sum / float64(len(values))
	s.StdDev = stddev(values)

	sort.Float64s(values)
	s.P95 = percentile(values, 0.95)

	return s
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum, sumSq float64
	for _, v := range values {
		sum += v
		sumSq += v * v
	}
	n := float64(len(values))
	mean := sum / n
	variance := (sumSq / n) - (mean * mean)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
