package wfw

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// descriptor indices into the poll set -- kept stable across iterations so Revents lines up with
// the fd it was requested for.
const (
	pollTAP = iota
	pollIn
	pollOut
	pollSetSize
)

// dispatcher owns the three live file descriptors and drives the single-threaded readiness loop.
// It has no locks: the only suspension point is the poll(2) call, so no frame is ever in flight
// across two iterations.
type dispatcher struct {
	tapFD int
	inFD  int
	outFD int

	bridge *Bridge
	log    *logrus.Entry
}

func newDispatcher(tapFD, inFD, outFD int, bridge *Bridge, log *logrus.Entry) *dispatcher {
	return &dispatcher{tapFD: tapFD, inFD: inFD, outFD: outFD, bridge: bridge, log: log}
}

// Run blocks servicing the dispatch loop until ctx is cancelled or the readiness wait reports an
// unrecoverable error. Exactly one descriptor is serviced per wakeup, TAP first, then the inbound
// socket, then the outbound socket, mirroring the original's mutually exclusive
// if/else-if/else-if branches and bounding the latency asymmetry between directions to one frame.
func (d *dispatcher) Run(ctx context.Context) error {
	buf := make([]byte, MaxFrameLen)

	for {
		if ctx.Err() != nil {
			return nil
		}

		fds := []unix.PollFd{
			{Fd: int32(d.tapFD), Events: unix.POLLIN},
			{Fd: int32(d.inFD), Events: unix.POLLIN},
			{Fd: int32(d.outFD), Events: unix.POLLIN},
		}

		n, err := unix.Poll(fds, int(shutdownPollTimeout.Milliseconds()))
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}

			return fmt.Errorf("poll: %w", err)
		}

		if n == 0 {
			// only the shutdown timeout elapsed; loop back around to re-check ctx.
			continue
		}

		switch {
		case fds[pollTAP].Revents&unix.POLLIN != 0:
			d.serviceTAP(buf)
		case fds[pollIn].Revents&unix.POLLIN != 0:
			d.serviceUDP(d.inFD, buf)
		case fds[pollOut].Revents&unix.POLLIN != 0:
			d.serviceUDP(d.outFD, buf)
		}
	}
}

func (d *dispatcher) serviceTAP(buf []byte) {
	n, err := syscall.Read(d.tapFD, buf)
	if err != nil {
		d.log.WithError(err).Warn("read from tap failed")

		return
	}

	if n < EthernetHeaderLen {
		d.log.WithField("reason", DropParseTruncated).Debug("short tap read dropped")

		return
	}

	frame := NewFrame(buf[:n])

	dst := d.bridge.EgressDestination(frame)

	sa := udpAddrToSockaddr(dst)
	if err := syscall.Sendto(d.outFD, buf[:n], 0, sa); err != nil {
		d.log.WithError(err).Warn("sendto peer failed")
	}
}

func (d *dispatcher) serviceUDP(fd int, buf []byte) {
	n, from, err := syscall.Recvfrom(fd, buf, 0)
	if err != nil {
		d.log.WithError(err).Warn("recvfrom failed")

		return
	}

	if n < EthernetHeaderLen {
		d.log.WithField("reason", DropParseTruncated).Debug("short udp datagram dropped")

		return
	}

	origin, ok := sockaddrToUDPAddr(from)
	if !ok {
		d.log.Warn("recvfrom returned an unexpected address family, dropping frame")

		return
	}

	frame := NewFrame(buf[:n])

	admit, reason := d.bridge.AdmitIngress(frame, origin)
	if !admit {
		d.log.WithFields(logrus.Fields{
			"reason": reason,
			"origin": origin.String(),
		}).Debug("dropped inbound frame")

		return
	}

	if _, err := syscall.Write(d.tapFD, buf[:n]); err != nil {
		d.log.WithError(err).Warn("write to tap failed")
	}
}

func udpAddrToSockaddr(a net.UDPAddr) *syscall.SockaddrInet4 {
	sa := &syscall.SockaddrInet4{Port: a.Port}
	copy(sa.Addr[:], a.IP.To4())

	return sa
}

func sockaddrToUDPAddr(sa syscall.Sockaddr) (net.UDPAddr, bool) {
	sa4, ok := sa.(*syscall.SockaddrInet4)
	if !ok {
		return net.UDPAddr{}, false
	}

	ip := make(net.IP, net.IPv4len)
	copy(ip, sa4.Addr[:])

	return net.UDPAddr{IP: ip, Port: sa4.Port}, true
}
