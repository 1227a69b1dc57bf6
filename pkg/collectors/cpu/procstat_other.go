//go:build !linux

package cpu

import "errors"

func readCPUStats() (CPUStats, error) {
	return CPUStats{}, errors.New("/proc/stat sampling not supported on this platform")
}
