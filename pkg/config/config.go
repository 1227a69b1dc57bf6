// Package config loads cpulog settings from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/danpilch/cpulog/pkg/health"
	"github.com/danpilch/cpulog/pkg/logfile"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Interval is the measurement window.
	Interval time.Duration `yaml:"interval"`
	LogPath  string        `yaml:"log_path"`
	Repeat   bool          `yaml:"repeat"`
	// Every is the sleep between samples in repeat mode.
	Every      time.Duration     `yaml:"every"`
	Source     string            `yaml:"source"`
	Thresholds health.Thresholds `yaml:"thresholds"`
	Log        LogConfig         `yaml:"log"`
	Metrics    MetricsConfig     `yaml:"metrics"`
	Debug      DebugConfig       `yaml:"debug"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type DebugConfig struct {
	PprofAddr string `yaml:"pprof_addr"`
}

const (
	DefaultInterval = time.Second
	DefaultEvery    = 59 * time.Second
	DefaultSource   = "gopsutil"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Interval:   DefaultInterval,
		LogPath:    logfile.DefaultPath,
		Every:      DefaultEvery,
		Source:     DefaultSource,
		Thresholds: health.DefaultThresholds(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over Default and validates the result.
// Keys absent from the file keep their defaults; keys present are kept as
// written, including zero values.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.Every < 0 {
		return fmt.Errorf("every must not be negative, got %s", c.Every)
	}
	if c.LogPath == "" {
		return fmt.Errorf("log_path is required")
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// NewLogger builds a logrus logger writing to stderr according to c.Log.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
