// Package recorder runs the measure → format → append sequence, once or on a loop.
package recorder

import (
	"context"
	"errors"
	"time"

	"github.com/danpilch/cpulog/pkg/collectors"
	"github.com/danpilch/cpulog/pkg/health"
	"github.com/danpilch/cpulog/pkg/logfile"
	"github.com/danpilch/cpulog/pkg/sample"
	"github.com/sirupsen/logrus"
)

// Failure kinds reported to observers and logs.
const (
	KindMeasurement = "measurement"
	KindIO          = "io"
	KindUnknown     = "unknown"
)

// DefaultRetryDelay is the minimum pause after a failed tick in Loop.
const DefaultRetryDelay = time.Second

// Sink receives recorded samples.
type Sink interface {
	Append(s sample.Sample) error
}

// Observer is notified about recorded samples and failed ticks.
type Observer interface {
	ObserveSample(s sample.Sample, status health.Status)
	ObserveFailure(kind string)
}

// Options configures a Recorder.
type Options struct {
	// Window is the measurement window passed to the sampler.
	Window time.Duration
	// Every is the sleep between ticks in Loop.
	Every time.Duration
	// RetryDelay is the minimum sleep after a failed tick.
	RetryDelay time.Duration
	Thresholds health.Thresholds
	Logger     *logrus.Logger
	Observer   Observer
	// Now defaults to time.Now.
	Now func() time.Time
}

// Recorder measures CPU utilization and appends the result to a sink.
type Recorder struct {
	sampler    collectors.Sampler
	sink       Sink
	window     time.Duration
	every      time.Duration
	retryDelay time.Duration
	thresholds health.Thresholds
	logger     *logrus.Logger
	observer   Observer
	now        func() time.Time
}

// New creates a recorder.
func New(sampler collectors.Sampler, sink Sink, opts Options) *Recorder {
	if opts.Window == 0 {
		opts.Window = time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Thresholds == (health.Thresholds{}) {
		opts.Thresholds = health.DefaultThresholds()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
		opts.Logger.SetLevel(logrus.WarnLevel)
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Recorder{
		sampler:    sampler,
		sink:       sink,
		window:     opts.Window,
		every:      opts.Every,
		retryDelay: opts.RetryDelay,
		thresholds: opts.Thresholds,
		logger:     opts.Logger,
		observer:   opts.Observer,
		now:        opts.Now,
	}
}

// Once performs a single measure → append sequence. A failed measurement
// writes nothing. Errors are *collectors.MeasurementError or *logfile.IOError.
func (r *Recorder) Once(ctx context.Context) (sample.Sample, error) {
	percent, err := r.sampler.Measure(ctx, r.window)
	if err != nil {
		var me *collectors.MeasurementError
		if !errors.As(err, &me) {
			err = &collectors.MeasurementError{Source: r.sampler.Name(), Err: err}
		}
		r.observer.ObserveFailure(KindMeasurement)
		return sample.Sample{}, err
	}

	s := sample.New(r.now(), percent)
	if err := r.sink.Append(s); err != nil {
		r.observer.ObserveFailure(Kind(err))
		return s, err
	}

	status := r.thresholds.Evaluate(s.CPUPercent)
	r.observer.ObserveSample(s, status)

	entry := r.logger.WithFields(logrus.Fields{
		"source":      r.sampler.Name(),
		"cpu_percent": s.CPUPercent,
		"status":      status,
	})
	if status == health.StatusOK {
		entry.Debug("Sample recorded")
	} else {
		entry.Warn("CPU usage elevated")
	}

	return s, nil
}

// Loop records a sample every tick until ctx is cancelled. A failed tick is
// logged and the loop continues after at least RetryDelay. Returns nil on
// cancellation.
func (r *Recorder) Loop(ctx context.Context) error {
	r.logger.WithFields(logrus.Fields{
		"source": r.sampler.Name(),
		"window": r.window,
		"every":  r.every,
	}).Info("Sampler loop started")

	for {
		_, err := r.Once(ctx)
		if ctx.Err() != nil {
			r.logger.Info("Sampler loop stopped")
			return nil
		}

		delay := r.every
		if err != nil {
			r.logger.WithFields(logrus.Fields{
				"error": err,
				"kind":  Kind(err),
			}).Error("Tick failed")
			delay = max(delay, r.retryDelay)
		}

		if err := wait(ctx, delay); err != nil {
			r.logger.Info("Sampler loop stopped")
			return nil
		}
	}
}

// Kind classifies a recorder error.
func Kind(err error) string {
	var me *collectors.MeasurementError
	if errors.As(err, &me) {
		return KindMeasurement
	}
	var ioErr *logfile.IOError
	if errors.As(err, &ioErr) {
		return KindIO
	}
	return KindUnknown
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type nopObserver struct{}

func (nopObserver) ObserveSample(sample.Sample, health.Status) {}
func (nopObserver) ObserveFailure(string)                      {}
