package audio

import (
	"fmt"
	"math"
	"strconv"
)

// normalVolume is PA_VOLUME_NORM, the channel volume of 100%.
const normalVolume = 0x10000

// Device is a sink or source as reported by the sound server.
type Device struct {
	Index   uint32
	Name    string
	Volumes []uint32
	Mute    bool
	Steps   uint32
}

// VolumeText configures how a volume is displayed.
type VolumeText struct {
	Mute   string
	Zero   string
	Format string
}

// Percent returns the average channel volume of d in percent, rounded to
// the nearest integer.
func (d Device) Percent() int {
	if len(d.Volumes) == 0 {
		return 0
	}

	var sum uint64
	for _, v := range d.Volumes {
		sum += uint64(v)
	}
	avg := float64(sum / uint64(len(d.Volumes)))

	steps := float64(normalVolume)
	if d.Steps >= 2 {
		steps = float64(d.Steps - 1)
	}

	return int(math.Floor(avg*100/steps + .5))
}

// Text renders the volume of d.
func (d Device) Text(text VolumeText) string {
	if d.Mute {
		return text.Mute
	}

	perc := d.Percent()
	if perc == 0 {
		return text.Zero
	}

	return fmt.Sprintf(text.Format, perc)
}

// match finds the device selected by want: a decimal number selects by index,
// anything else by name.
func match(devices []Device, want string) (Device, bool) {
	index, err := strconv.ParseUint(want, 10, 32)
	byIndex := err == nil

	for _, d := range devices {
		if byIndex && d.Index == uint32(index) {
			return d, true
		}
		if !byIndex && d.Name == want {
			return d, true
		}
	}

	return Device{}, false
}
