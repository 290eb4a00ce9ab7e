// Package sysinfo holds the stateless metric readers. Each reader queries the
// operating system once and formats the result; failures are returned as
// errors and never retried.
package sysinfo

import (
	"os"
	"strconv"
	"strings"

	"codeberg.org/mutker/sstat/internal/errors"
)

const (
	ErrReadFailed  = errors.ErrReadMetric
	ErrParseFailed = errors.ErrParseMetric
	ErrNoData      = errors.ErrorCode("sysinfo_no_data")
)

// Filesystem locations, overridden in tests.
var (
	powerSupplyDir = "/sys/class/power_supply"
	smapiDir       = "/sys/devices/platform/smapi"
	cpuFreqFile    = "/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq"
	entropyFile    = "/proc/sys/kernel/random/entropy_avail"
	ibmFanFile     = "/proc/acpi/ibm/fan"
	wirelessFile   = "/proc/net/wireless"
)

// readString returns the first whitespace-delimited token of path.
func readString(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.New().WrapWithData(ErrReadFailed, err, path)
	}

	fields := strings.Fields(string(b))
	if len(fields) == 0 {
		return "", errors.New().WithData(ErrNoData, path)
	}

	return fields[0], nil
}

func readInt(path string) (int, error) {
	s, err := readString(path)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New().WrapWithData(ErrParseFailed, err, path)
	}

	return n, nil
}
