// Package registry turns the configured field list into providers.
package registry

import (
	"strconv"

	"codeberg.org/mutker/sstat/internal/audio"
	"codeberg.org/mutker/sstat/internal/config"
	"codeberg.org/mutker/sstat/internal/delta"
	"codeberg.org/mutker/sstat/internal/errors"
	"codeberg.org/mutker/sstat/internal/logger"
	"codeberg.org/mutker/sstat/internal/provider"
	"codeberg.org/mutker/sstat/internal/sysinfo"
)

// GPU reads the sensors of one graphics card.
type GPU interface {
	Temperature() (string, error)
	FanSpeed() (string, error)
	Power() (string, error)
	Utilization() (string, error)
	Shutdown() error
}

type Deps struct {
	Unknown string
	Battery sysinfo.BatteryText
	// Audio is nil when no audio field is configured or the subsystem is off.
	Audio *audio.Monitor
	Icons map[string]string
	// OpenGPU is called at most once per device index.
	OpenGPU func(index int) (GPU, error)
	// CPU and NetCounter replace the system samplers in tests.
	CPU        delta.CPUSampler
	NetCounter func(iface string, dir delta.Direction) delta.Counter
}

type constructor func(r *Registry, arg string) (provider.Reader, error)

var constructors = map[string]constructor{
	"battery_perc":        withArg(sysinfo.BatteryPerc),
	"battery_perc_smapi":  withArg(sysinfo.BatteryPercSMAPI),
	"battery_time_smapi":  withArg(sysinfo.BatteryTimeSMAPI),
	"battery_state":       batteryState(sysinfo.BatteryState),
	"battery_state_smapi": batteryState(sysinfo.BatteryStateSMAPI),
	"cpu_freq":            noArg(sysinfo.CPUFreq),
	"cpu_perc":            cpuPerc,
	"datetime":            withArg(sysinfo.Datetime),
	"disk_free":           withArg(sysinfo.DiskFree),
	"disk_io":             noArg(sysinfo.DiskIO),
	"disk_perc":           withArg(sysinfo.DiskPerc),
	"disk_total":          withArg(sysinfo.DiskTotal),
	"disk_used":           withArg(sysinfo.DiskUsed),
	"entropy":             noArg(sysinfo.Entropy),
	"fan_ibm":             noArg(sysinfo.FanIBM),
	"gid":                 noArg(sysinfo.Gid),
	"hostname":            noArg(sysinfo.Hostname),
	"ip":                  withArg(sysinfo.IP),
	"load_avg":            noArg(sysinfo.LoadAvg),
	"net_down":            netRate(delta.Down),
	"net_up":              netRate(delta.Up),
	"ram_free":            noArg(sysinfo.RAMFree),
	"ram_perc":            noArg(sysinfo.RAMPerc),
	"ram_total":           noArg(sysinfo.RAMTotal),
	"ram_used":            noArg(sysinfo.RAMUsed),
	"run_command":         withArg(sysinfo.RunCommand),
	"swap_free":           noArg(sysinfo.SwapFree),
	"swap_perc":           noArg(sysinfo.SwapPerc),
	"swap_total":          noArg(sysinfo.SwapTotal),
	"swap_used":           noArg(sysinfo.SwapUsed),
	"temp":                withArg(sysinfo.Temp),
	"uid":                 noArg(sysinfo.Uid),
	"uptime":              noArg(sysinfo.Uptime),
	"username":            noArg(sysinfo.Username),
	"wifi_essid":          withArg(sysinfo.WifiESSID),
	"wifi_perc":           noArg(sysinfo.WifiPerc),

	"vol_perc":           audioField((*audio.Monitor).VolumeReader),
	"micvol_perc":        audioField((*audio.Monitor).MicVolumeReader),
	"pulse_profile":      audioField((*audio.Monitor).ProfileReader),
	"pulse_profile_icon": profileIcon,

	"gpu_temp":  gpuField(GPU.Temperature),
	"gpu_fan":   gpuField(GPU.FanSpeed),
	"gpu_power": gpuField(GPU.Power),
	"gpu_util":  gpuField(GPU.Utilization),
}

// Known reports whether name is a field the registry can build.
func Known(name string) bool {
	_, ok := constructors[name]
	return ok
}

// Registry builds providers and owns the resources they share.
type Registry struct {
	deps Deps
	gpus map[int]GPU
}

func New(deps Deps) *Registry {
	if deps.CPU == nil {
		deps.CPU = delta.SystemCPU
	}
	if deps.NetCounter == nil {
		deps.NetCounter = delta.InterfaceCounter
	}

	return &Registry{
		deps: deps,
		gpus: make(map[int]GPU),
	}
}

// Build returns one provider per field, in order. Each field gets its own
// provider instance, so two cpu_perc fields keep separate state.
func (r *Registry) Build(fields []config.Field) ([]provider.Provider, error) {
	errFactory := errors.New()
	providers := make([]provider.Provider, 0, len(fields))

	for _, f := range fields {
		construct, ok := constructors[f.Name]
		if !ok {
			return nil, errFactory.WithData(errors.ErrUnknownField, f.Name)
		}

		reader, err := construct(r, f.Arg)
		if err != nil {
			return nil, errFactory.WrapWithData(errors.ErrInvalidConfig, err, f.Name)
		}
		providers = append(providers, provider.Guard(f.Name, reader, r.deps.Unknown))
	}

	return providers, nil
}

// Close releases every GPU opened by Build.
func (r *Registry) Close() error {
	var firstErr error
	for index, g := range r.gpus {
		delete(r.gpus, index)
		if g == nil {
			continue
		}
		if err := g.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func (r *Registry) gpu(index int) GPU {
	if g, ok := r.gpus[index]; ok {
		return g
	}
	if r.deps.OpenGPU == nil {
		return nil
	}

	g, err := r.deps.OpenGPU(index)
	if err != nil {
		logger.Warn().Err(err).Int("index", index).Msg("GPU unavailable")
		g = nil
	}
	r.gpus[index] = g

	return g
}

func noArg(fn func() (string, error)) constructor {
	return func(*Registry, string) (provider.Reader, error) {
		return provider.ReaderFunc(fn), nil
	}
}

func withArg(fn func(string) (string, error)) constructor {
	return func(_ *Registry, arg string) (provider.Reader, error) {
		if arg == "" {
			return nil, errors.New().New(ErrMissingArgument)
		}

		return provider.ReaderFunc(func() (string, error) {
			return fn(arg)
		}), nil
	}
}

func batteryState(fn func(string, sysinfo.BatteryText) (string, error)) constructor {
	return func(r *Registry, arg string) (provider.Reader, error) {
		if arg == "" {
			return nil, errors.New().WithData(ErrMissingArgument, "battery")
		}

		return provider.ReaderFunc(func() (string, error) {
			return fn(arg, r.deps.Battery)
		}), nil
	}
}

func cpuPerc(r *Registry, _ string) (provider.Reader, error) {
	return delta.NewCPU(r.deps.CPU), nil
}

func netRate(dir delta.Direction) constructor {
	return func(r *Registry, iface string) (provider.Reader, error) {
		if iface == "" {
			return nil, errors.New().WithData(ErrMissingArgument, "interface")
		}

		return delta.NewNetRate(r.deps.NetCounter(iface, dir)), nil
	}
}

func unavailable() provider.Reader {
	return provider.ReaderFunc(func() (string, error) {
		return "", errors.New().New(errors.ErrUnavailable)
	})
}

func audioField(read func(*audio.Monitor) provider.Reader) constructor {
	return func(r *Registry, _ string) (provider.Reader, error) {
		if r.deps.Audio == nil {
			return unavailable(), nil
		}

		return read(r.deps.Audio), nil
	}
}

func profileIcon(r *Registry, _ string) (provider.Reader, error) {
	if r.deps.Audio == nil {
		return unavailable(), nil
	}

	return r.deps.Audio.ProfileIconReader(r.deps.Icons), nil
}

func gpuField(read func(GPU) (string, error)) constructor {
	return func(r *Registry, arg string) (provider.Reader, error) {
		index := 0
		if arg != "" {
			n, err := strconv.Atoi(arg)
			if err != nil || n < 0 {
				return nil, errors.New().WithData(ErrInvalidArgument, arg)
			}
			index = n
		}

		g := r.gpu(index)
		if g == nil {
			return unavailable(), nil
		}

		return provider.ReaderFunc(func() (string, error) {
			return read(g)
		}), nil
	}
}
