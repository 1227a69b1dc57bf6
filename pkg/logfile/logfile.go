// Package logfile appends CPU usage records to a plain-text, append-only log file.
package logfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/danpilch/cpulog/pkg/sample"
)

// DefaultPath is the log destination used when none is configured.
const DefaultPath = "/var/log/cpu_usage.log"

// IOError reports a failed log file operation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed record while reading a log file.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Appender writes samples to a single log file. Each Append acquires and
// releases the file independently, so an Appender holds no open handle.
type Appender struct {
	path string
}

// New creates an appender for path.
func New(path string) *Appender {
	if path == "" {
		path = DefaultPath
	}
	return &Appender{path: path}
}

// Path returns the log file path.
func (a *Appender) Path() string {
	return a.path
}

// Append writes one record for s. The record is written with a single write
// call and synced before the file is closed. Missing directories are not created.
func (a *Appender) Append(s sample.Sample) (err error) {
	line := []byte(sample.Format(s) + "\n")

	f, err := os.OpenFile(a.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return &IOError{Op: "open", Path: a.path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: a.path, Err: cerr}
		}
	}()

	unlock, err := lockFile(f)
	if err != nil {
		return &IOError{Op: "lock", Path: a.path, Err: err}
	}
	defer unlock()

	n, err := f.Write(line)
	if err != nil {
		return &IOError{Op: "write", Path: a.path, Err: err}
	}
	if n != len(line) {
		return &IOError{Op: "write", Path: a.path, Err: fmt.Errorf("short write: %d of %d bytes", n, len(line))}
	}

	if err := f.Sync(); err != nil {
		return &IOError{Op: "sync", Path: a.path, Err: err}
	}
	return nil
}

// Append writes one record for s to path.
func Append(s sample.Sample, path string) error {
	return New(path).Append(s)
}

// Read parses every record in the log file at path, in file order.
func Read(path string) ([]sample.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	var samples []sample.Sample
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		s, err := sample.Parse(scanner.Text())
		if err != nil {
			return samples, &ParseError{Path: path, Line: lineNo, Err: err}
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return samples, &IOError{Op: "read", Path: path, Err: err}
	}

	return samples, nil
}

// IsNotExist reports whether err indicates a missing log file or directory.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
