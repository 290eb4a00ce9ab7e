package gpu

import "github.com/NVIDIA/go-nvml/pkg/nvml"

// Device is the subset of nvml.Device the status line reads from.
type Device interface {
	GetName() (string, nvml.Return)
	GetTemperature(sensor nvml.TemperatureSensors) (uint32, nvml.Return)
	GetFanSpeed() (uint32, nvml.Return)
	GetPowerUsage() (uint32, nvml.Return)
	GetUtilizationRates() (nvml.Utilization, nvml.Return)
}

// nvmlController abstracts library lifecycle for testing
type nvmlController interface {
	Initialize() error
	Shutdown() error
	GetDevice(index int) (Device, error)
}
