// Package sample defines the CPU usage sample and its log record format.
package sample

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the timestamp layout used in log records.
const TimeLayout = "2006-01-02 15:04:05"

// Pattern matches a single well-formed log record (without the trailing newline).
var Pattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - CPU Usage: \d+(\.\d+)?%$`)

var recordRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) - CPU Usage: (\d+(?:\.\d+)?)%$`)

// Sample is a single CPU utilization measurement.
type Sample struct {
	Timestamp  time.Time `json:"timestamp"`
	CPUPercent float64   `json:"cpu_percent"`
}

// New builds a sample with second resolution and a percentage clamped to [0, 100].
func New(ts time.Time, percent float64) Sample {
	return Sample{
		Timestamp:  ts.Truncate(time.Second),
		CPUPercent: Clamp(percent),
	}
}

// Clamp bounds a percentage to [0, 100]. NaN and -Inf become 0, +Inf becomes 100.
func Clamp(percent float64) float64 {
	switch {
	case math.IsNaN(percent) || percent < 0:
		return 0
	case percent > 100:
		return 100
	}
	return percent
}

// Format renders the sample as a log record, e.g.
// "2024-01-02 15:04:05 - CPU Usage: 12.5%".
func Format(s Sample) string {
	return fmt.Sprintf("%s - CPU Usage: %s%%",
		s.Timestamp.Format(TimeLayout),
		strconv.FormatFloat(s.CPUPercent, 'f', 1, 64))
}

// String implements fmt.Stringer.
func (s Sample) String() string {
	return Format(s)
}

// Parse reads a log record back into a sample. Timestamps are interpreted in local time.
func Parse(line string) (Sample, error) {
	line = strings.TrimRight(line, "\r\n")

	m := recordRe.FindStringSubmatch(line)
	if m == nil {
		return Sample{}, fmt.Errorf("malformed record %q", line)
	}

	ts, err := time.ParseInLocation(TimeLayout, m[1], time.Local)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid timestamp %q: %w", m[1], err)
	}

	percent, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid cpu value %q: %w", m[2], err)
	}
	if percent > 100 {
		return Sample{}, fmt.Errorf("cpu value %q out of range [0, 100]", m[2])
	}

	return Sample{Timestamp: ts, CPUPercent: percent}, nil
}
