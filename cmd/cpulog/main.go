// Command cpulog samples system CPU utilization and appends it to a log file.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/danpilch/cpulog/pkg/collectors"
	"github.com/danpilch/cpulog/pkg/logfile"
	"github.com/sirupsen/logrus"
)

// Exit codes.
const (
	exitOK          = 0
	exitUsage       = 1
	exitMeasurement = 2
	exitIO          = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(stdout, stderr)
	cmd := a.rootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	code := exitCode(err)
	a.logger.WithFields(logrus.Fields{
		"error":     err,
		"exit_code": code,
	}).Error("cpulog failed")
	return code
}

func exitCode(err error) int {
	var me *collectors.MeasurementError
	if errors.As(err, &me) {
		return exitMeasurement
	}
	var ioErr *logfile.IOError
	if errors.As(err, &ioErr) {
		return exitIO
	}
	return exitUsage
}
