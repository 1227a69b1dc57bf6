package collectors

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"
	"time"
)

type stubSampler struct {
	name string
}

func (s stubSampler) Name() string { return s.name }

func (s stubSampler) Measure(context.Context, time.Duration) (float64, error) {
	return 0, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(stubSampler{name: "procstat"})
	r.Register(stubSampler{name: "gopsutil"})

	if got := len(r.Samplers()); got != 2 {
		t.Fatalf("expected 2 samplers, got %d", got)
	}
	if s := r.GetByName("procstat"); s == nil || s.Name() != "procstat" {
		t.Fatalf("expected procstat sampler, got %v", s)
	}
	if s := r.GetByName("missing"); s != nil {
		t.Fatalf("expected nil for unknown sampler, got %v", s)
	}
	if got, want := r.Names(), []string{"gopsutil", "procstat"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestMeasurementErrorUnwraps(t *testing.T) {
	err := error(&MeasurementError{Source: "procstat", Err: os.ErrPermission})

	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected errors.Is to find the cause")
	}

	var me *MeasurementError
	if !errors.As(err, &me) || me.Source != "procstat" {
		t.Fatalf("expected errors.As to return the measurement error, got %v", err)
	}
	if got := err.Error(); got != "measure cpu (procstat): permission denied" {
		t.Fatalf("unexpected message %q", got)
	}
}
