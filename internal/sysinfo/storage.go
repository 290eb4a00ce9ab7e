package sysinfo

import (
	"context"
	"fmt"

	"codeberg.org/mutker/sstat/internal/errors"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

const gib = 1024 * 1024 * 1024

func gigabytes(bytes uint64) string {
	return fmt.Sprintf("%f", float64(bytes)/gib)
}

func percent(part, total uint64) (string, error) {
	if total == 0 {
		return "", errors.New().New(ErrNoData)
	}

	return fmt.Sprintf("%d%%", part*100/total), nil
}

func diskUsage(mnt string) (*disk.UsageStat, error) {
	usage, err := disk.UsageWithContext(context.Background(), mnt)
	if err != nil {
		return nil, errors.New().WrapWithData(ErrReadFailed, err, mnt)
	}

	return usage, nil
}

// DiskFree returns the free space on mnt in GB, including root-reserved blocks.
func DiskFree(mnt string) (string, error) {
	usage, err := diskUsage(mnt)
	if err != nil {
		return "", err
	}

	return gigabytes(usage.Total - usage.Used), nil
}

func DiskPerc(mnt string) (string, error) {
	usage, err := diskUsage(mnt)
	if err != nil {
		return "", err
	}

	return percent(usage.Used, usage.Total)
}

func DiskTotal(mnt string) (string, error) {
	usage, err := diskUsage(mnt)
	if err != nil {
		return "", err
	}

	return gigabytes(usage.Total), nil
}

func DiskUsed(mnt string) (string, error) {
	usage, err := diskUsage(mnt)
	if err != nil {
		return "", err
	}

	return gigabytes(usage.Used), nil
}

// DiskIO returns the number of I/O operations currently in flight across all
// block devices.
func DiskIO() (string, error) {
	counters, err := disk.IOCountersWithContext(context.Background())
	if err != nil {
		return "", errors.New().Wrap(ErrReadFailed, err)
	}

	var inFlight uint64
	for _, c := range counters {
		inFlight += c.IopsInProgress
	}

	return fmt.Sprintf("%02d", inFlight), nil
}

// ramUsed mirrors what free(1) calls used: neither buffers nor page cache count.
func ramUsed(vm *mem.VirtualMemoryStat) uint64 {
	reclaimable := vm.Free + vm.Buffers + vm.Cached
	if reclaimable > vm.Total {
		return 0
	}

	return vm.Total - reclaimable
}

func virtualMemory() (*mem.VirtualMemoryStat, error) {
	vm, err := mem.VirtualMemoryWithContext(context.Background())
	if err != nil {
		return nil, errors.New().Wrap(ErrReadFailed, err)
	}

	return vm, nil
}

func RAMFree() (string, error) {
	vm, err := virtualMemory()
	if err != nil {
		return "", err
	}

	return gigabytes(vm.Free), nil
}

func RAMPerc() (string, error) {
	vm, err := virtualMemory()
	if err != nil {
		return "", err
	}

	return percent(ramUsed(vm), vm.Total)
}

func RAMTotal() (string, error) {
	vm, err := virtualMemory()
	if err != nil {
		return "", err
	}

	return gigabytes(vm.Total), nil
}

func RAMUsed() (string, error) {
	vm, err := virtualMemory()
	if err != nil {
		return "", err
	}

	return gigabytes(ramUsed(vm)), nil
}

type swapStat struct {
	total, free, cached uint64
}

// swap fails when the host has no swap configured.
func swap() (swapStat, error) {
	errFactory := errors.New()

	sw, err := mem.SwapMemoryWithContext(context.Background())
	if err != nil {
		return swapStat{}, errFactory.Wrap(ErrReadFailed, err)
	}
	if sw.Total == 0 {
		return swapStat{}, errFactory.WithData(ErrNoData, "no swap")
	}

	s := swapStat{total: sw.Total, free: sw.Free}
	if vm, err := virtualMemory(); err == nil {
		s.cached = vm.SwapCached
	}

	return s, nil
}

func (s swapStat) used() uint64 {
	if s.free+s.cached > s.total {
		return 0
	}

	return s.total - s.free - s.cached
}

func SwapFree() (string, error) {
	s, err := swap()
	if err != nil {
		return "", err
	}

	return gigabytes(s.free), nil
}

func SwapPerc() (string, error) {
	s, err := swap()
	if err != nil {
		return "", err
	}

	return percent(s.used(), s.total)
}

func SwapTotal() (string, error) {
	s, err := swap()
	if err != nil {
		return "", err
	}

	return gigabytes(s.total), nil
}

func SwapUsed() (string, error) {
	s, err := swap()
	if err != nil {
		return "", err
	}

	return gigabytes(s.used()), nil
}
