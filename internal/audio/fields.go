package audio

import (
	"codeberg.org/mutker/sstat/internal/errors"
	"codeberg.org/mutker/sstat/internal/provider"
)

// Readers over the published State. They never touch the connection.

func (m *Monitor) VolumeReader() provider.Reader {
	return provider.ReaderFunc(func() (string, error) {
		return m.Snapshot().Volume, nil
	})
}

func (m *Monitor) MicVolumeReader() provider.Reader {
	return provider.ReaderFunc(func() (string, error) {
		return m.Snapshot().MicVolume, nil
	})
}

func (m *Monitor) ProfileReader() provider.Reader {
	return provider.ReaderFunc(func() (string, error) {
		return m.Snapshot().Profile, nil
	})
}

// ProfileIconReader maps the current sink name to an icon.
func (m *Monitor) ProfileIconReader(icons map[string]string) provider.Reader {
	return provider.ReaderFunc(func() (string, error) {
		profile := m.Snapshot().Profile
		icon, ok := icons[profile]
		if !ok {
			return "", errors.New().WithData(ErrNoProfileIcon, profile)
		}

		return icon, nil
	})
}
