//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package logfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockFile takes an advisory exclusive lock so concurrent cpulog processes
// never interleave records.
func lockFile(f *os.File) (func(), error) {
	fd := int(f.Fd())
	for {
		err := unix.Flock(fd, unix.LOCK_EX)
		if err == nil {
			break
		}
		if err != unix.EINTR {
			return func() {}, err
		}
	}
	return func() {
		_ = unix.Flock(fd, unix.LOCK_UN)
	}, nil
}
