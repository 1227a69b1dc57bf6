package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/danpilch/cpulog/pkg/collectors"
	"github.com/danpilch/cpulog/pkg/collectors/cpu"
	"github.com/danpilch/cpulog/pkg/config"
	"github.com/danpilch/cpulog/pkg/debug"
	"github.com/danpilch/cpulog/pkg/logfile"
	"github.com/danpilch/cpulog/pkg/metrics"
	"github.com/danpilch/cpulog/pkg/recorder"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries the state shared by all commands.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	logger   *logrus.Logger
	registry *collectors.Registry
	opts     options
}

// options holds raw flag values; they override the config file only when set.
type options struct {
	configPath  string
	logPath     string
	logLevel    string
	logFormat   string
	warn        float64
	crit        float64
	interval    time.Duration
	every       time.Duration
	repeat      bool
	source      string
	metricsAddr string
	pprofAddr   string
}

func newApp(stdout, stderr io.Writer) *app {
	logger := logrus.New()
	logger.SetOutput(stderr)

	registry := collectors.NewRegistry()
	registry.Register(cpu.NewGopsutil())
	registry.Register(cpu.NewProcStat())

	return &app{
		stdout:   stdout,
		stderr:   stderr,
		logger:   logger,
		registry: registry,
	}
}

func (a *app) rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cpulog",
		Short: "Sample CPU utilization and append it to a log file",
		Long: `cpulog measures system-wide CPU utilization over a fixed window and appends
one line per sample to an append-only log:

  2024-01-02 15:04:05 - CPU Usage: 12.5%

Run once (the default) or keep sampling with --repeat.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runRecord,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.opts.configPath, "config", "", "path to a YAML config file")
	pf.StringVar(&a.opts.logPath, "log-path", logfile.DefaultPath, "log file to append samples to")
	pf.StringVar(&a.opts.logLevel, "log-level", "info", "diagnostic log level (debug, info, warn, error)")
	pf.StringVar(&a.opts.logFormat, "log-format", "text", "diagnostic log format (text, json)")
	pf.Float64Var(&a.opts.warn, "warn", 70, "warning threshold in percent")
	pf.Float64Var(&a.opts.crit, "crit", 90, "critical threshold in percent")

	f := cmd.Flags()
	f.DurationVar(&a.opts.interval, "interval", config.DefaultInterval, "measurement window")
	f.BoolVar(&a.opts.repeat, "repeat", false, "keep sampling until interrupted")
	f.DurationVar(&a.opts.every, "every", config.DefaultEvery, "sleep between samples in repeat mode")
	f.StringVar(&a.opts.source, "source", config.DefaultSource, "CPU sampler ("+strings.Join(a.registry.Names(), ", ")+")")
	f.StringVar(&a.opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	f.StringVar(&a.opts.pprofAddr, "pprof", "", "serve pprof on this address")

	cmd.AddCommand(a.showCommand(), a.sourcesCommand())
	return cmd
}

// resolveConfig loads the config file, if any, and applies explicitly set flags.
func (a *app) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if a.opts.configPath != "" {
		loaded, err := config.Load(a.opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-path") {
		cfg.LogPath = a.opts.logPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.opts.logFormat
	}
	if flags.Changed("warn") {
		cfg.Thresholds.Warn = a.opts.warn
	}
	if flags.Changed("crit") {
		cfg.Thresholds.Crit = a.opts.crit
	}
	if flags.Changed("interval") {
		cfg.Interval = a.opts.interval
	}
	if flags.Changed("repeat") {
		cfg.Repeat = a.opts.repeat
	}
	if flags.Changed("every") {
		cfg.Every = a.opts.every
	}
	if flags.Changed("source") {
		cfg.Source = a.opts.source
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = a.opts.metricsAddr
	}
	if flags.Changed("pprof") {
		cfg.Debug.PprofAddr = a.opts.pprofAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a.logger = cfg.NewLogger()
	a.logger.SetOutput(a.stderr)
	return cfg, nil
}

func (a *app) runRecord(cmd *cobra.Command, _ []string) error {
	cfg, err := a.resolveConfig(cmd)
	if err != nil {
		return err
	}

	sampler := a.registry.GetByName(cfg.Source)
	if sampler == nil {
		return fmt.Errorf("unknown source %q (available: %s)", cfg.Source, strings.Join(a.registry.Names(), ", "))
	}

	var (
		observer recorder.Observer
		m        *metrics.Metrics
	)
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg)
		stop, err := metrics.StartServer(cfg.Metrics.Addr, reg, a.logger)
		if err != nil {
			return err
		}
		defer stop()
		observer = m
	}

	if cfg.Debug.PprofAddr != "" {
		stop, err := debug.StartPprofServer(cfg.Debug.PprofAddr, a.logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	timed := debug.NewTimedSampler(sampler, func(t debug.MeasurementTiming) {
		a.logger.WithFields(logrus.Fields{
			"source":   t.Name,
			"window":   t.Window,
			"duration": t.Duration,
		}).Debug("Measurement finished")
		if m != nil {
			m.ObserveMeasurement(t.Duration)
		}
	})

	rec := recorder.New(timed, logfile.New(cfg.LogPath), recorder.Options{
		Window:     cfg.Interval,
		Every:      cfg.Every,
		Thresholds: cfg.Thresholds,
		Logger:     a.logger,
		Observer:   observer,
	})

	if cfg.Repeat {
		return rec.Loop(cmd.Context())
	}

	s, err := rec.Once(cmd.Context())
	if err != nil {
		return err
	}
	a.logger.WithFields(logrus.Fields{
		"path":        cfg.LogPath,
		"cpu_percent": s.CPUPercent,
	}).Debug("Sample appended")
	return nil
}
