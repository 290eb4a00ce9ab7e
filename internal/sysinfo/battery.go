package sysinfo

import (
	"fmt"
	"path/filepath"
)

// BatteryText holds the symbols shown for each charging state.
type BatteryText struct {
	Charging    string
	Discharging string
	Full        string
	Unknown     string
}

// BatteryPerc reads the charge percentage of bat from the power_supply class.
func BatteryPerc(bat string) (string, error) {
	perc, err := readInt(filepath.Join(powerSupplyDir, bat, "capacity"))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d%%", perc), nil
}

// BatteryState maps the power_supply status of bat to a symbol.
func BatteryState(bat string, text BatteryText) (string, error) {
	state, err := readString(filepath.Join(powerSupplyDir, bat, "status"))
	if err != nil {
		return "", err
	}

	switch state {
	case "Charging":
		return text.Charging, nil
	case "Discharging":
		return text.Discharging, nil
	case "Full":
		return text.Full, nil
	default:
		return text.Unknown, nil
	}
}

// BatteryPercSMAPI reads the charge percentage through the ThinkPad smapi driver.
func BatteryPercSMAPI(bat string) (string, error) {
	perc, err := readInt(filepath.Join(smapiDir, bat, "remaining_percent"))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d%%", perc), nil
}

// BatteryStateSMAPI maps the smapi state of bat to a symbol.
func BatteryStateSMAPI(bat string, text BatteryText) (string, error) {
	state, err := readString(filepath.Join(smapiDir, bat, "state"))
	if err != nil {
		return "", err
	}

	switch state {
	case "charging":
		return text.Charging, nil
	case "discharging":
		return text.Discharging, nil
	case "idle":
		return text.Full, nil
	default:
		return text.Unknown, nil
	}
}

// BatteryTimeSMAPI returns the time until empty, or until full while
// charging, as hh:mm.
func BatteryTimeSMAPI(bat string) (string, error) {
	// smapi reports "not_discharging" instead of a number while charging
	minutes, err := readInt(filepath.Join(smapiDir, bat, "remaining_running_time_now"))
	if err != nil {
		minutes, err = readInt(filepath.Join(smapiDir, bat, "remaining_charging_time"))
		if err != nil {
			return "", err
		}
	}
	if minutes < 0 {
		return "", fmt.Errorf("battery %s: no time estimate", bat)
	}

	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}
