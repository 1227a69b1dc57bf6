// Package health classifies CPU usage samples against warning and critical thresholds.
package health

import "fmt"

// Status represents the health status of a sample.
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Thresholds defines warning and critical thresholds for CPU utilization.
type Thresholds struct {
	Warn float64 `yaml:"warn" json:"warn"`
	Crit float64 `yaml:"crit" json:"crit"`
}

// DefaultThresholds returns the default threshold values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Warn: 70.0,
		Crit: 90.0,
	}
}

// Evaluate returns the appropriate status based on utilization percentage.
func (t Thresholds) Evaluate(percent float64) Status {
	if percent >= t.Crit {
		return StatusCritical
	}
	if percent >= t.Warn {
		return StatusWarning
	}
	return StatusOK
}

// Validate checks that 0 <= Warn <= Crit <= 100.
func (t Thresholds) Validate() error {
	if t.Warn < 0 || t.Warn > 100 {
		return fmt.Errorf("warn threshold %.1f must be between 0 and 100", t.Warn)
	}
	if t.Crit < 0 || t.Crit > 100 {
		return fmt.Errorf("crit threshold %.1f must be between 0 and 100", t.Crit)
	}
	if t.Warn > t.Crit {
		return fmt.Errorf("warn threshold %.1f exceeds crit threshold %.1f", t.Warn, t.Crit)
	}
	return nil
}
