// Package collectors provides the sampler interface and registry for CPU utilization sources.
package collectors

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Sampler is the interface that all CPU utilization sources must implement.
type Sampler interface {
	// Name returns the name of the source (e.g., "gopsutil", "procstat").
	Name() string

	// Measure blocks for window and returns the non-idle share of CPU time in [0, 100].
	Measure(ctx context.Context, window time.Duration) (float64, error)
}

// MeasurementError reports that a sampler could not read CPU utilization.
type MeasurementError struct {
	Source string
	Err    error
}

func (e *MeasurementError) Error() string {
	return fmt.Sprintf("measure cpu (%s): %v", e.Source, e.Err)
}

func (e *MeasurementError) Unwrap() error {
	return e.Err
}

// Registry holds all registered samplers.
type Registry struct {
	samplers []Sampler
}

// NewRegistry creates a new sampler registry.
func NewRegistry() *Registry {
	return &Registry{
		samplers: make([]Sampler, 0),
	}
}

// Register adds a sampler to the registry.
func (r *Registry) Register(s Sampler) {
	r.samplers = append(r.samplers, s)
}

// Samplers returns all registered samplers.
func (r *Registry) Samplers() []Sampler {
	return r.samplers
}

// GetByName returns a sampler by name, or nil if not found.
func (r *Registry) GetByName(name string) Sampler {
	for _, s := range r.samplers {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Names returns the sorted names of all registered samplers.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.samplers))
	for _, s := range r.samplers {
		names = append(names, s.Name())
	}
	sort.Strings(names)
	return names
}
