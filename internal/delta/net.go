package delta

import (
	"context"
	"fmt"

	"codeberg.org/mutker/sstat/internal/errors"
	"github.com/shirou/gopsutil/v4/net"
)

const (
	kiloThreshold = 1000
	megaThreshold = 1024000
	kibi          = 1024.0
	mebi          = 1048576.0
)

// Direction selects which byte counter of an interface is tracked.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}

	return "down"
}

// Counter reads a cumulative byte counter.
type Counter func() (uint64, error)

// NetRate reports the bytes transferred between two consecutive reads. The
// scheduler period is assumed to be one second.
type NetRate struct {
	counter Counter
	prev    uint64
	valid   bool
}

// NewNetRate returns a NetRate seeded with a first counter value.
func NewNetRate(counter Counter) *NetRate {
	n := &NetRate{counter: counter}
	if v, err := counter(); err == nil {
		n.prev = v
		n.valid = true
	}

	return n
}

func (n *NetRate) Read() (string, error) {
	errFactory := errors.New()

	cur, err := n.counter()
	if err != nil {
		return "", errFactory.Wrap(ErrSampleFailed, err)
	}

	prev, valid := n.prev, n.valid
	n.prev, n.valid = cur, true

	if !valid {
		return "", errFactory.New(ErrNoBaseline)
	}
	if cur < prev {
		return "", errFactory.WithData(ErrCounterReset, struct {
			Previous uint64
			Current  uint64
		}{
			Previous: prev,
			Current:  cur,
		})
	}

	return FormatRate(float64(cur - prev)), nil
}

// FormatRate renders a byte count per second with three significant digits
// in B/s, KB/s or MB/s. The unit switches at 1000 and 1024000 bytes.
func FormatRate(bytes float64) string {
	switch {
	case bytes < kiloThreshold:
		return fmt.Sprintf("%-4.3g B/s", bytes)
	case bytes < megaThreshold:
		return fmt.Sprintf("%-4.3gKB/s", bytes/kibi)
	default:
		return fmt.Sprintf("%-4.3gMB/s", bytes/mebi)
	}
}

// InterfaceCounter returns a Counter for the transmitted (Up) or received
// (Down) bytes of iface.
func InterfaceCounter(iface string, dir Direction) Counter {
	return func() (uint64, error) {
		stats, err := net.IOCountersWithContext(context.Background(), true)
		if err != nil {
			return 0, err
		}

		for _, s := range stats {
			if s.Name != iface {
				continue
			}
			if dir == Up {
				return s.BytesSent, nil
			}
			return s.BytesRecv, nil
		}

		return 0, errors.New().WithData(ErrUnknownNetLink, iface)
	}
}
