package sysinfo

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/sstat/internal/errors"
	"github.com/ncruces/go-strftime"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
)

const commandTimeout = time.Second

// CPUFreq returns the current frequency of the first core in MHz.
func CPUFreq() (string, error) {
	khz, err := readInt(cpuFreqFile)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%4dMHz", khz/1000), nil
}

// Datetime formats the current local time with a strftime layout.
func Datetime(layout string) (string, error) {
	return DatetimeAt(layout, time.Now())
}

func DatetimeAt(layout string, t time.Time) (string, error) {
	s := strftime.Format(layout, t)
	if s == "" {
		return "", errors.New().WithData(ErrNoData, layout)
	}

	return s, nil
}

// Entropy returns the kernel's available entropy.
func Entropy() (string, error) {
	n, err := readInt(entropyFile)
	if err != nil {
		return "", err
	}

	return strconv.Itoa(n), nil
}

// FanIBM returns the fan speed in rpm reported by thinkpad_acpi.
func FanIBM() (string, error) {
	f, err := os.Open(ibmFanFile)
	if err != nil {
		return "", errors.New().WrapWithData(ErrReadFailed, err, ibmFanFile)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || strings.TrimSpace(key) != "speed" {
			continue
		}
		rpm, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return "", errors.New().WrapWithData(ErrParseFailed, err, ibmFanFile)
		}
		return fmt.Sprintf("%04d", rpm), nil
	}

	return "", errors.New().WithData(ErrNoData, ibmFanFile)
}

// Gid returns the real group id of the process.
func Gid() (string, error) {
	return strconv.Itoa(os.Getgid()), nil
}

// Uid returns the effective user id of the process.
func Uid() (string, error) {
	return strconv.Itoa(os.Geteuid()), nil
}

// Username returns the login name of the effective user.
func Username() (string, error) {
	u, err := user.LookupId(strconv.Itoa(os.Geteuid()))
	if err != nil {
		return "", errors.New().Wrap(ErrReadFailed, err)
	}

	return u.Username, nil
}

func Hostname() (string, error) {
	info, err := host.InfoWithContext(context.Background())
	if err != nil {
		return "", errors.New().Wrap(ErrReadFailed, err)
	}

	return info.Hostname, nil
}

func LoadAvg() (string, error) {
	avg, err := load.AvgWithContext(context.Background())
	if err != nil {
		return "", errors.New().Wrap(ErrReadFailed, err)
	}

	return fmt.Sprintf("%.2f %.2f %.2f", avg.Load1, avg.Load5, avg.Load15), nil
}

func Uptime() (string, error) {
	secs, err := host.UptimeWithContext(context.Background())
	if err != nil {
		return "", errors.New().Wrap(ErrReadFailed, err)
	}

	h := secs / 3600
	m := (secs % 3600) / 60

	return fmt.Sprintf("%dh %dm", h, m), nil
}

// Temp reads a millidegree Celsius value, as found under /sys/class/hwmon.
func Temp(file string) (string, error) {
	milli, err := readInt(file)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d°C", milli/1000), nil
}

// RunCommand runs cmd through the shell and returns the first line of its
// output. Commands that do not finish within a second are killed.
func RunCommand(cmd string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "/bin/sh", "-c", cmd).Output()
	if err != nil {
		return "", errors.New().WrapWithData(ErrReadFailed, err, cmd)
	}

	line, _, _ := strings.Cut(string(out), "\n")

	return line, nil
}
