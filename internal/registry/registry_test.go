package registry_test

import (
	"testing"

	"codeberg.org/mutker/sstat/internal/config"
	"codeberg.org/mutker/sstat/internal/delta"
	"codeberg.org/mutker/sstat/internal/errors"
	"codeberg.org/mutker/sstat/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGPU struct {
	shutdowns int
}

func (g *fakeGPU) Temperature() (string, error) { return "61°C", nil }
func (g *fakeGPU) FanSpeed() (string, error)    { return "40%", nil }
func (g *fakeGPU) Power() (string, error)       { return "120W", nil }
func (g *fakeGPU) Utilization() (string, error) { return "97%", nil }

func (g *fakeGPU) Shutdown() error {
	g.shutdowns++
	return nil
}

func cpuSequence(samples ...delta.CPUSample) delta.CPUSampler {
	return func() (delta.CPUSample, error) {
		s := samples[0]
		if len(samples) > 1 {
			samples = samples[1:]
		}
		return s, nil
	}
}

func counterSequence(values ...uint64) delta.Counter {
	return func() (uint64, error) {
		v := values[0]
		if len(values) > 1 {
			values = values[1:]
		}
		return v, nil
	}
}

func values(t *testing.T, r *registry.Registry, fields ...config.Field) []string {
	t.Helper()
	providers, err := r.Build(fields)
	require.NoError(t, err)

	out := make([]string, 0, len(providers))
	for _, p := range providers {
		out = append(out, p.Value())
	}
	return out
}

func TestBuildStatefulFields(t *testing.T) {
	r := registry.New(registry.Deps{
		Unknown: "n/a",
		CPU: cpuSequence(
			delta.CPUSample{Busy: 10, Total: 100},
			delta.CPUSample{Busy: 60, Total: 200},
		),
		NetCounter: func(iface string, dir delta.Direction) delta.Counter {
			assert.Equal(t, "eth0", iface)
			assert.Equal(t, delta.Down, dir)
			return counterSequence(1000, 3048)
		},
	})

	got := values(t, r,
		config.Field{Name: "cpu_perc"},
		config.Field{Name: "net_down", Arg: "eth0"},
	)
	assert.Equal(t, []string{"50%", "2   KB/s"}, got)
}

func TestGPUOpenedOncePerIndex(t *testing.T) {
	opened := map[int]int{}
	card := &fakeGPU{}
	r := registry.New(registry.Deps{
		Unknown: "n/a",
		OpenGPU: func(index int) (registry.GPU, error) {
			opened[index]++
			if index == 1 {
				return nil, errors.New().New(errors.ErrResourceNotFound)
			}
			return card, nil
		},
	})

	got := values(t, r,
		config.Field{Name: "gpu_temp"},
		config.Field{Name: "gpu_fan", Arg: "0"},
		config.Field{Name: "gpu_power"},
		config.Field{Name: "gpu_util", Arg: "1"},
		config.Field{Name: "gpu_temp", Arg: "1"},
	)
	assert.Equal(t, []string{"61°C", "40%", "120W", "n/a", "n/a"}, got)
	assert.Equal(t, map[int]int{0: 1, 1: 1}, opened)

	require.NoError(t, r.Close())
	assert.Equal(t, 1, card.shutdowns)
}

func TestAudioFieldsWithoutMonitor(t *testing.T) {
	r := registry.New(registry.Deps{Unknown: "n/a"})

	got := values(t, r,
		config.Field{Name: "vol_perc"},
		config.Field{Name: "micvol_perc"},
		config.Field{Name: "pulse_profile"},
		config.Field{Name: "pulse_profile_icon"},
	)
	assert.Equal(t, []string{"n/a", "n/a", "n/a", "n/a"}, got)
}

func TestStatelessFieldWithMissingFile(t *testing.T) {
	r := registry.New(registry.Deps{Unknown: "n/a"})

	got := values(t, r, config.Field{Name: "temp", Arg: "/nonexistent/temp1_input"})
	assert.Equal(t, []string{"n/a"}, got)
}

func TestBuildErrors(t *testing.T) {
	r := registry.New(registry.Deps{Unknown: "n/a"})

	_, err := r.Build([]config.Field{{Name: "vol_perc_alsa"}})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrUnknownField))

	_, err = r.Build([]config.Field{{Name: "battery_state"}})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, registry.ErrMissingArgument))

	_, err = r.Build([]config.Field{{Name: "gpu_temp", Arg: "first"}})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, registry.ErrInvalidArgument))
}

func TestKnown(t *testing.T) {
	assert.True(t, registry.Known("cpu_perc"))
	assert.True(t, registry.Known("wifi_essid"))
	assert.False(t, registry.Known("cpu"))
}
