package sysinfo

import (
	"context"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"codeberg.org/mutker/sstat/internal/errors"
	"github.com/shirou/gopsutil/v4/net"
)

// IP returns the first IPv4 address assigned to iface.
func IP(iface string) (string, error) {
	ifaces, err := net.InterfacesWithContext(context.Background())
	if err != nil {
		return "", errors.New().Wrap(ErrReadFailed, err)
	}

	for _, i := range ifaces {
		if i.Name != iface {
			continue
		}
		for _, a := range i.Addrs {
			prefix, err := netip.ParsePrefix(a.Addr)
			if err != nil {
				continue
			}
			if prefix.Addr().Is4() {
				return prefix.Addr().String(), nil
			}
		}
	}

	return "", errors.New().WithData(ErrNoData, iface)
}

// WifiPerc returns the link quality of the first wireless interface listed
// in /proc/net/wireless.
func WifiPerc() (string, error) {
	b, err := os.ReadFile(wirelessFile)
	if err != nil {
		return "", errors.New().WrapWithData(ErrReadFailed, err, wirelessFile)
	}

	return parseWireless(string(b))
}

// parseWireless reads the quality column of the first interface line; the
// file starts with two header lines.
func parseWireless(content string) (string, error) {
	lines := strings.Split(content, "\n")
	if len(lines) < 3 {
		return "", errors.New().WithData(ErrNoData, wirelessFile)
	}

	fields := strings.Fields(lines[2])
	if len(fields) < 3 {
		return "", errors.New().WithData(ErrNoData, wirelessFile)
	}

	quality, err := strconv.ParseFloat(strings.TrimSuffix(fields[2], "."), 64)
	if err != nil {
		return "", errors.New().WrapWithData(ErrParseFailed, err, wirelessFile)
	}

	return fmt.Sprintf("%d%%", int(quality)), nil
}
