package wfw

import (
	"fmt"
	"net"
	"syscall"
)

// openBroadcastSocket creates an IPv4 datagram socket with SO_BROADCAST set and binds it to
// addr:port. It binds a raw socket directly via syscall rather than going through net.ListenUDP --
// this core needs the bare file descriptor to multiplex with unix.Poll alongside the TAP fd (see
// dispatch.go), and net.UDPConn does not expose one.
func openBroadcastSocket(addr net.IP, port uint16) (int, error) {
	fd, err := syscall.Socket(syscall.AF_INET, syscall.SOCK_DGRAM, 0)
	if err != nil {
		return -1, fmt.Errorf("%w: socket: %w", ErrBind, err)
	}

	if err := syscall.SetsockoptInt(fd, syscall.SOL_SOCKET, syscall.SO_BROADCAST, 1); err != nil {
		_ = syscall.Close(fd)

		return -1, fmt.Errorf("%w: setsockopt(SO_BROADCAST): %w", ErrBind, err)
	}

	sa := &syscall.SockaddrInet4{Port: int(port)}
	copy(sa.Addr[:], addr.To4())

	if err := syscall.Bind(fd, sa); err != nil {
		_ = syscall.Close(fd)

		return -1, fmt.Errorf("%w: bind %s:%d: %w", ErrBind, addr, port, err)
	}

	return fd, nil
}

// openInboundSocket binds to the configured broadcast address and port, so the process receives
// directed broadcast traffic for the segment.
func openInboundSocket(broadcast net.IP, port uint16) (int, error) {
	return openBroadcastSocket(broadcast, port)
}

// openOutboundSocket binds to the wildcard address on an ephemeral port. It carries every frame
// sent to peers, and its broadcast permission lets it reach peers that have no learned unicast
// entry yet; the dispatch loop also reads frames that peers send back to this port.
func openOutboundSocket() (int, error) {
	return openBroadcastSocket(net.IPv4zero, 0)
}

// closeFD closes a raw file descriptor, whether it came from unix.Open (the TAP device) or
// syscall.Socket (the UDP sockets) -- both are plain ints on Linux.
func closeFD(fd int) error {
	return syscall.Close(fd)
}
