package sysinfo

import (
	"bytes"
	"runtime"
	"unsafe"

	"codeberg.org/mutker/sstat/internal/errors"
	"golang.org/x/sys/unix"
)

const (
	siocgiwessid   = 0x8B1B
	iwEssidMaxSize = 32
)

// iwreq mirrors struct iwreq with the iw_point member of its union.
type iwreq struct {
	name    [unix.IFNAMSIZ]byte
	pointer uintptr
	length  uint16
	flags   uint16
	_       [16 - unsafe.Sizeof(uintptr(0)) - 4]byte
}

// WifiESSID returns the ESSID iface is associated with.
func WifiESSID(iface string) (string, error) {
	errFactory := errors.New()

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return "", errFactory.WrapWithData(ErrReadFailed, err, iface)
	}
	defer unix.Close(fd)

	id := make([]byte, iwEssidMaxSize+1)
	var req iwreq
	copy(req.name[:unix.IFNAMSIZ-1], iface)
	req.pointer = uintptr(unsafe.Pointer(&id[0]))
	req.length = uint16(len(id))

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), siocgiwessid, uintptr(unsafe.Pointer(&req)))
	runtime.KeepAlive(id)
	if errno != 0 {
		return "", errFactory.WrapWithData(ErrReadFailed, errno, iface)
	}

	essid := string(bytes.TrimRight(id, "\x00"))
	if essid == "" {
		return "", errFactory.WithData(ErrNoData, iface)
	}

	return essid, nil
}
