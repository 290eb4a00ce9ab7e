//go:build !linux

package sysinfo

import "codeberg.org/mutker/sstat/internal/errors"

func WifiESSID(iface string) (string, error) {
	return "", errors.New().WithData(errors.ErrNotImplemented, iface)
}
