package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danpilch/cpulog/pkg/collectors"
	"github.com/danpilch/cpulog/pkg/crosscheck"
	"github.com/danpilch/cpulog/pkg/logfile"
	"github.com/danpilch/cpulog/pkg/sample"
)

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunOnceCreatesLog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping real measurement in short mode")
	}

	path := filepath.Join(t.TempDir(), "test_cpu.log")

	code, _, stderr := execute(t, "--log-path", path, "--interval", "1s")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 1 || !sample.Pattern.MatchString(lines[0]) {
		t.Fatalf("expected exactly one well-formed line, got %q", data)
	}
}

func TestRunNonWritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("create blocker: %v", err)
	}

	code, _, stderr := execute(t, "--log-path", filepath.Join(blocker, "cpu.log"), "--interval", "50ms")
	if code != exitIO {
		t.Fatalf("expected exit %d, got %d: %s", exitIO, code, stderr)
	}
	if !strings.Contains(stderr, "cpulog failed") {
		t.Fatalf("expected error on stderr, got %q", stderr)
	}
	info, err := os.Stat(blocker)
	if err != nil || info.Size() != 0 {
		t.Fatalf("expected no partial write")
	}
}

func TestRunConfigErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.log")

	tests := map[string][]string{
		"unknown source":  {"--log-path", path, "--source", "magic"},
		"zero interval":   {"--log-path", path, "--interval", "0s"},
		"bad thresholds":  {"--log-path", path, "--warn", "95", "--crit", "90"},
		"unknown flag":    {"--nope"},
		"unexpected args": {"extra"},
		"missing config":  {"--config", filepath.Join(t.TempDir(), "missing.yaml")},
	}

	for name, args := range tests {
		code, _, _ := execute(t, args...)
		if code != exitUsage {
			t.Errorf("%s: expected exit %d, got %d", name, exitUsage, code)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("no log should be written on configuration errors")
	}
}

func TestRunUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	fromFile := filepath.Join(dir, "from-file.log")
	fromFlag := filepath.Join(dir, "from-flag.log")
	cfgPath := filepath.Join(dir, "cpulog.yaml")
	cfg := "interval: 20ms\nsource: gopsutil\nlog_path: " + fromFile + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if code, _, stderr := execute(t, "--config", cfgPath); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	if _, err := os.Stat(fromFile); err != nil {
		t.Fatalf("expected log at config path: %v", err)
	}

	if code, _, stderr := execute(t, "--config", cfgPath, "--log-path", fromFlag); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	if _, err := os.Stat(fromFlag); err != nil {
		t.Fatalf("expected flag to override config log path: %v", err)
	}
}

func TestShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.log")
	base := time.Date(2024, 8, 1, 12, 0, 0, 0, time.Local)
	for i, v := range []float64{5, 50, 80} {
		if err := logfile.Append(sample.New(base.Add(time.Duration(i)*time.Minute), v), path); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	code, stdout, stderr := execute(t, "show", "--log-path", path, "--format", "tsv", "--last", "2")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}

	want := "TIMESTAMP\tCPU_PERCENT\tSTATUS\n" +
		"2024-08-01 12:01:00\t50.0\tok\n" +
		"2024-08-01 12:02:00\t80.0\twarning\n"
	if stdout != want {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestShowMissingLog(t *testing.T) {
	code, _, stderr := execute(t, "show", "--log-path", filepath.Join(t.TempDir(), "none.log"))
	if code != exitIO {
		t.Fatalf("expected exit %d, got %d: %s", exitIO, code, stderr)
	}
}

func TestShowRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.log")
	if err := logfile.Append(sample.New(time.Now(), 1), path); err != nil {
		t.Fatalf("append: %v", err)
	}

	if code, _, _ := execute(t, "show", "--log-path", path, "--format", "xml"); code != exitUsage {
		t.Fatalf("expected exit %d, got %d", exitUsage, code)
	}
}

func TestSources(t *testing.T) {
	code, stdout, _ := execute(t, "sources")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if stdout != "gopsutil (default)\nprocstat\n" {
		t.Fatalf("unexpected sources output %q", stdout)
	}
}

func TestSourcesCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping real measurement in short mode")
	}

	code, stdout, stderr := execute(t, "sources", "--check", "--window", "100ms", "--json")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}

	var result crosscheck.ValidationResult
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if len(result.Readings) != 2 {
		t.Fatalf("expected a reading per sampler, got %+v", result.Readings)
	}
	for _, r := range result.Readings {
		if r.Error == "" && (r.Value < 0 || r.Value > 100) {
			t.Fatalf("reading out of range: %+v", r)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&collectors.MeasurementError{Source: "procstat", Err: errors.New("unsupported")}, exitMeasurement},
		{&logfile.IOError{Op: "write", Path: "/x", Err: errors.New("disk full")}, exitIO},
		{errors.New("bad flag"), exitUsage},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
