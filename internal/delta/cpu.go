package delta

import (
	"context"
	"fmt"
	"math"

	"codeberg.org/mutker/sstat/internal/errors"
	"github.com/shirou/gopsutil/v4/cpu"
)

// CPUSample is a snapshot of the cumulative CPU time counters.
type CPUSample struct {
	Busy  float64
	Total float64
}

// CPUSampler takes a new CPUSample.
type CPUSampler func() (CPUSample, error)

// CPU reports the share of busy time between two consecutive reads.
type CPU struct {
	sample CPUSampler
	prev   CPUSample
	valid  bool
}

// NewCPU returns a CPU provider seeded with a first sample, so the first
// Read already covers a real interval.
func NewCPU(sample CPUSampler) *CPU {
	c := &CPU{sample: sample}
	if s, err := sample(); err == nil {
		c.prev = s
		c.valid = true
	}

	return c
}

// Read samples the counters and returns the busy percentage since the
// previous Read, formatted as "%02d%%".
func (c *CPU) Read() (string, error) {
	errFactory := errors.New()

	cur, err := c.sample()
	if err != nil {
		return "", errFactory.Wrap(ErrSampleFailed, err)
	}

	prev, valid := c.prev, c.valid
	c.prev, c.valid = cur, true

	if !valid {
		return "", errFactory.New(ErrNoBaseline)
	}

	perc, err := busyPercent(prev, cur)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%02d%%", perc), nil
}

func busyPercent(prev, cur CPUSample) (int, error) {
	errFactory := errors.New()

	total := cur.Total - prev.Total
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0, errFactory.WithData(ErrNoProgress, total)
	}

	busy := cur.Busy - prev.Busy
	if busy < 0 {
		return 0, errFactory.WithData(ErrCounterReset, busy)
	}

	perc := 100 * busy / total
	if math.IsNaN(perc) || perc > 100 {
		return 0, errFactory.WithData(ErrOutOfBounds, perc)
	}

	return int(perc), nil
}

// SystemCPU samples the aggregate CPU times of the host.
func SystemCPU() (CPUSample, error) {
	times, err := cpu.TimesWithContext(context.Background(), false)
	if err != nil {
		return CPUSample{}, err
	}
	if len(times) == 0 {
		return CPUSample{}, errors.New().New(errors.ErrResourceNotFound)
	}

	t := times[0]
	busy := t.User + t.Nice + t.System

	return CPUSample{
		Busy:  busy,
		Total: busy + t.Idle,
	}, nil
}
