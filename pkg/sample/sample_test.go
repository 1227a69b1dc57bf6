package sample

import (
	"math"
	"testing"
	"time"
)

func TestFormatMatchesPattern(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 2, 0, time.Local)

	tests := []struct {
		percent float64
		want    string
	}{
		{0, "2024-03-09 07:05:02 - CPU Usage: 0.0%"},
		{100, "2024-03-09 07:05:02 - CPU Usage: 100.0%"},
		{12.5, "2024-03-09 07:05:02 - CPU Usage: 12.5%"},
		{33.333, "2024-03-09 07:05:02 - CPU Usage: 33.3%"},
	}

	for _, tt := range tests {
		got := Format(New(ts, tt.percent))
		if got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.percent, got, tt.want)
		}
		if !Pattern.MatchString(got) {
			t.Errorf("Format(%v) = %q does not match record pattern", tt.percent, got)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	ts := time.Date(2023, 12, 31, 23, 59, 59, 0, time.Local)

	for _, percent := range []float64{0, 0.1, 42.7, 99.9, 100} {
		in := New(ts, percent)
		out, err := Parse(Format(in) + "\n")
		if err != nil {
			t.Fatalf("Parse(%q): %v", Format(in), err)
		}
		if !out.Timestamp.Equal(in.Timestamp) {
			t.Fatalf("timestamp mismatch: got %v, want %v", out.Timestamp, in.Timestamp)
		}
		if out.CPUPercent != percent {
			t.Fatalf("percent mismatch: got %v, want %v", out.CPUPercent, percent)
		}
	}
}

func TestParseAcceptsIntegerAndLongDecimals(t *testing.T) {
	s, err := Parse("2024-01-01 00:00:00 - CPU Usage: 7%")
	if err != nil {
		t.Fatalf("parse integer value: %v", err)
	}
	if s.CPUPercent != 7 {
		t.Fatalf("expected 7, got %v", s.CPUPercent)
	}

	s, err = Parse("2024-01-01 00:00:00 - CPU Usage: 12.345%")
	if err != nil {
		t.Fatalf("parse long decimal: %v", err)
	}
	if s.CPUPercent != 12.345 {
		t.Fatalf("expected 12.345, got %v", s.CPUPercent)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	lines := []string{
		"",
		"garbage",
		"2024-01-01 00:00:00 - CPU Usage: %",
		"2024-01-01 00:00:00 - CPU Usage: -1.0%",
		"2024-01-01 00:00:00 - CPU Usage: 100.1%",
		"2024-13-01 00:00:00 - CPU Usage: 1.0%",
		"2024-01-01T00:00:00 - CPU Usage: 1.0%",
		"2024-01-01 00:00:00 - CPU Usage: 1.0",
	}
	for _, line := range lines {
		if _, err := Parse(line); err == nil {
			t.Errorf("Parse(%q) expected error", line)
		}
	}
}

func TestNewTruncatesAndClamps(t *testing.T) {
	ts := time.Date(2024, 1, 1, 10, 0, 0, 999_000_000, time.Local)

	s := New(ts, 150)
	if s.CPUPercent != 100 {
		t.Fatalf("expected clamp to 100, got %v", s.CPUPercent)
	}
	if s.Timestamp.Nanosecond() != 0 {
		t.Fatalf("expected second resolution, got %v", s.Timestamp)
	}

	if got := New(ts, -3).CPUPercent; got != 0 {
		t.Fatalf("expected clamp to 0, got %v", got)
	}
	if got := New(ts, math.NaN()).CPUPercent; got != 0 {
		t.Fatalf("expected NaN to become 0, got %v", got)
	}
	if got := New(ts, math.Inf(1)).CPUPercent; got != 100 {
		t.Fatalf("expected +Inf to become 100, got %v", got)
	}
	if got := New(ts, math.Inf(-1)).CPUPercent; got != 0 {
		t.Fatalf("expected -Inf to become 0, got %v", got)
	}
}
