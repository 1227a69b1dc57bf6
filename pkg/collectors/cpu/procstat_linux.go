//go:build linux

package cpu

import "os"

// readCPUStats reads CPU statistics from /proc/stat.
func readCPUStats() (CPUStats, error) {
	file, err := os.Open("/proc/stat")
	if err != nil {
		return CPUStats{}, err
	}
	defer file.Close()

	return parseCPUStats(file)
}
