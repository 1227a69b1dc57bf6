package crosscheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danpilch/cpulog/pkg/collectors"
)

type constSampler struct {
	name  string
	value float64
	err   error
}

func (c constSampler) Name() string { return c.name }

func (c constSampler) Measure(ctx context.Context, window time.Duration) (float64, error) {
	return c.value, c.err
}

func TestCrossCheck(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		readings  []Reading
		consensus float64
		status    ValidationStatus
	}{
		{"empty", nil, 0, StatusNoData},
		{"single", []Reading{{Source: "a", Value: 42}}, 42, StatusValid},
		{"agree", []Reading{{Source: "a", Value: 10}, {Source: "b", Value: 12}}, 11, StatusValid},
		{"suspect", []Reading{{Source: "a", Value: 10}, {Source: "b", Value: 22}}, 16, StatusSuspect},
		{"conflict", []Reading{{Source: "a", Value: 5}, {Source: "b", Value: 50}, {Source: "c", Value: 90}}, 50, StatusConflict},
		{"failed ignored", []Reading{{Source: "a", Value: 30}, {Source: "b", Error: "boom"}}, 30, StatusValid},
		{"all failed", []Reading{{Source: "a", Error: "boom"}}, 0, StatusNoData},
	}

	for _, tt := range tests {
		got := v.CrossCheck(tt.readings)
		if got.Consensus != tt.consensus || got.Status != tt.status {
			t.Errorf("%s: got consensus %v status %s, want %v %s",
				tt.name, got.Consensus, got.Status, tt.consensus, tt.status)
		}
	}
}

func TestMeasureRunsAllSamplers(t *testing.T) {
	samplers := []collectors.Sampler{
		constSampler{name: "gopsutil", value: 20},
		constSampler{name: "procstat", value: 21},
		constSampler{name: "broken", err: errors.New("unsupported platform")},
	}

	result := NewValidator().Measure(context.Background(), samplers, 10*time.Millisecond)

	if len(result.Readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(result.Readings))
	}
	if result.Readings[2].Error == "" {
		t.Fatal("expected the failing sampler to report its error")
	}
	if result.Consensus != 20.5 || result.Status != StatusValid {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Window != 10*time.Millisecond {
		t.Fatalf("expected window to be recorded, got %s", result.Window)
	}
}

func TestReport(t *testing.T) {
	result := NewValidator().CrossCheck([]Reading{
		{Source: "gopsutil", Value: 10},
		{Source: "procstat", Error: "not supported"},
	})

	var buf bytes.Buffer
	Report(&buf, result)
	out := buf.String()
	for _, want := range []string{"gopsutil", "10.0%", "not supported", "VALID"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := ReportJSON(&buf, result); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded ValidationResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Status != StatusValid || len(decoded.Readings) != 2 {
		t.Fatalf("unexpected decoded result %+v", decoded)
	}
}
