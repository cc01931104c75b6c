package wfw

import (
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"
)

// tapDevicePath is the kernel character device used to create and attach to TAP interfaces on
// Linux.
const tapDevicePath = "/dev/net/tun"

// openTAP opens /dev/net/tun and attaches it to the named interface in TAP mode (IFF_TAP), with
// IFF_NO_PI so reads/writes carry raw Ethernet frames with no packet-information prefix -- this
// core parses Ethernet headers itself (see header.go) and has no use for the kernel's prefix.
func openTAP(name string) (int, error) {
	fd, err := unix.Open(tapDevicePath, unix.O_RDWR, 0)
	if err != nil {
		return -1, fmt.Errorf("%w: open %s: %w", ErrBind, tapDevicePath, err)
	}

	ifr, err := unix.NewIfreq(name)
	if err != nil {
		_ = unix.Close(fd)

		return -1, fmt.Errorf("%w: build ifreq for %s: %w", ErrBind, name, err)
	}

	ifr.SetUint16(unix.IFF_TAP | unix.IFF_NO_PI)

	if err := unix.IoctlIfreq(fd, unix.TUNSETIFF, ifr); err != nil {
		_ = unix.Close(fd)

		return -1, fmt.Errorf("%w: TUNSETIFF %s: %w", ErrBind, name, err)
	}

	if err := exec.Command("ip", "link", "set", "dev", name, "up").Run(); err != nil {
		_ = unix.Close(fd)

		return -1, fmt.Errorf("%w: bring up %s: %w", ErrBind, name, err)
	}

	return fd, nil
}
