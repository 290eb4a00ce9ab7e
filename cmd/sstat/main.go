package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/sstat/internal/audio"
	"codeberg.org/mutker/sstat/internal/config"
	"codeberg.org/mutker/sstat/internal/daemon"
	"codeberg.org/mutker/sstat/internal/errors"
	"codeberg.org/mutker/sstat/internal/gpu"
	"codeberg.org/mutker/sstat/internal/logger"
	"codeberg.org/mutker/sstat/internal/output"
	"codeberg.org/mutker/sstat/internal/registry"
	"codeberg.org/mutker/sstat/internal/render"
	"codeberg.org/mutker/sstat/internal/scheduler"
	"codeberg.org/mutker/sstat/internal/sysinfo"
	"golang.org/x/sync/errgroup"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "sstat: %v\n", err)
		return 1
	}

	if cfg.Version {
		fmt.Printf("sstat-%s\n", version)
		return 0
	}

	logger.Init(cfg.Level(), logger.IsService() || daemon.IsChild())
	logger.Debug().Str("file", cfg.ConfigFile).Msg("Config loaded")

	if cfg.Daemon && !daemon.IsChild() {
		if cfg.Output == config.OutputStdout {
			logger.Warn().Msg("Standard output is discarded in daemon mode")
		}
		pid, err := daemon.Daemonize()
		if err != nil {
			logError(err, "Failed to start daemon")
			return 1
		}
		logger.Info().Int("pid", pid).Msg("Started in background")
		return 0
	}

	if cfg.Daemon {
		pidFile := daemon.NewPIDFile(cfg.PIDFile)
		if err := pidFile.Write(); err != nil {
			logError(err, "Failed to write PID file")
			return 1
		}
		defer func() {
			if err := pidFile.Remove(); err != nil {
				logError(err, "Failed to remove PID file")
			}
		}()
	}

	sink, err := output.Open(cfg.Output, os.Stdout)
	if err != nil {
		logError(err, "Failed to open output")
		return 1
	}
	defer sink.Close()

	var monitor *audio.Monitor
	if cfg.HasField("vol_perc", "micvol_perc", "pulse_profile") {
		monitor = audio.NewMonitor(audioConfig(cfg), audio.DialPulse)
	}

	reg := registry.New(registry.Deps{
		Unknown: cfg.Unknown,
		Battery: sysinfo.BatteryText(cfg.Battery),
		Audio:   monitor,
		Icons:   icons(cfg),
		OpenGPU: openGPU,
	})
	defer cleanup(reg, monitor)

	providers, err := reg.Build(cfg.Fields)
	if err != nil {
		logError(err, "Invalid field configuration")
		return 1
	}

	renderer, err := render.New(cfg.Format, providers)
	if err != nil {
		logError(err, "Invalid format")
		return 1
	}

	sched, err := scheduler.New(cfg.Interval, renderer, sink)
	if err != nil {
		logError(err, "Invalid interval")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(ctx, cancel)

	g, gctx := errgroup.WithContext(ctx)
	if monitor != nil {
		g.Go(func() error {
			return monitor.Run(gctx)
		})
	}
	g.Go(func() error {
		return sched.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		logError(errors.New().Wrap(errors.ErrMainLoop, err), "Error in main loop")
		return 1
	}

	return 0
}

func audioConfig(cfg *config.Config) audio.Config {
	return audio.Config{
		Server:     cfg.Pulse.Server,
		ClientName: cfg.Pulse.ClientName,
		Sink:       cfg.Pulse.Sink,
		Source:     cfg.Pulse.Source,
		Volume: audio.VolumeText{
			Mute:   cfg.Volume.Mute,
			Zero:   cfg.Volume.Zero,
			Format: cfg.Volume.Format,
		},
		Unknown: cfg.Unknown,
	}
}

func icons(cfg *config.Config) map[string]string {
	m := make(map[string]string, len(cfg.Pulse.Icons))
	for _, i := range cfg.Pulse.Icons {
		m[i.Device] = i.Icon
	}

	return m
}

func openGPU(index int) (registry.GPU, error) {
	g, err := gpu.New(index)
	if err != nil {
		return nil, err
	}

	return g, nil
}

func handleSignals(ctx context.Context, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case sig := <-sigs:
		logger.Info().Str("signal", sig.String()).Msg("Received termination signal")
		cancel()
	case <-ctx.Done():
	}
}

func cleanup(reg *registry.Registry, monitor *audio.Monitor) {
	if monitor != nil {
		monitor.Close()
	}
	if err := reg.Close(); err != nil {
		logError(err, "Failed to shut down GPU")
	}
	logger.Info().Msg("Exiting...")
}

func logError(err error, msg string) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.ErrorWithCode(appErr).Msg(msg)
		return
	}
	logger.Error().Err(err).Msg(msg)
}
