// Package gpu reads NVIDIA GPU sensors through NVML.
package gpu

import (
	"fmt"
	"sync"

	"codeberg.org/mutker/sstat/internal/errors"
	"codeberg.org/mutker/sstat/internal/logger"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

const milliWattsToWatts = 1000

type GPU struct {
	nvml   nvmlController
	device Device
	mu     sync.Mutex
}

// New initializes NVML and opens the device at index. The caller must call
// Shutdown when done.
func New(index int) (*GPU, error) {
	return open(&nvmlWrapper{}, index)
}

func open(ctrl nvmlController, index int) (*GPU, error) {
	if err := ctrl.Initialize(); err != nil {
		return nil, err
	}

	device, err := ctrl.GetDevice(index)
	if err != nil {
		if shutdownErr := ctrl.Shutdown(); shutdownErr != nil {
			logger.Debug().Err(shutdownErr).Msg("Failed to shut down NVML")
		}
		return nil, err
	}

	if name, ret := device.GetName(); isNVMLSuccess(ret) {
		logger.Info().Msgf("Detected GPU: %v", name)
	} else {
		logger.Warn().Msgf("Failed to get GPU name: %v", nvml.ErrorString(ret))
	}

	return &GPU{nvml: ctrl, device: device}, nil
}

func (g *GPU) Shutdown() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.nvml.Shutdown()
}

// Temperature returns the core temperature in degrees Celsius.
func (g *GPU) Temperature() (string, error) {
	temp, ret := g.device.GetTemperature(nvml.TEMPERATURE_GPU)
	if !isNVMLSuccess(ret) {
		return "", errors.New().Wrap(ErrTemperatureReadFailed, newNVMLError(ret))
	}

	return fmt.Sprintf("%d°C", temp), nil
}

// FanSpeed returns the intended fan speed as a percentage of the maximum.
func (g *GPU) FanSpeed() (string, error) {
	speed, ret := g.device.GetFanSpeed()
	if !isNVMLSuccess(ret) {
		return "", errors.New().Wrap(ErrFanSpeedReadFailed, newNVMLError(ret))
	}

	return fmt.Sprintf("%d%%", speed), nil
}

// Power returns the board power draw in watts.
func (g *GPU) Power() (string, error) {
	usage, ret := g.device.GetPowerUsage()
	if !isNVMLSuccess(ret) {
		return "", errors.New().Wrap(ErrPowerReadFailed, newNVMLError(ret))
	}

	return fmt.Sprintf("%dW", usage/milliWattsToWatts), nil
}

func (g *GPU) Utilization() (string, error) {
	rates, ret := g.device.GetUtilizationRates()
	if !isNVMLSuccess(ret) {
		return "", errors.New().Wrap(ErrUtilizationReadFailed, newNVMLError(ret))
	}

	return fmt.Sprintf("%d%%", rates.Gpu), nil
}
