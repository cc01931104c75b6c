package wfw

import "time"

const (
	// Version is the version of wfw, set w/ build flags in ci; only useful/relevant for cli.
	Version = "0.0.0"
)

const (
	// EtherTypeIPv6 is the big-endian-decoded EtherType value denoting an IPv6 payload.
	EtherTypeIPv6 = 0x86DD

	// NextHeaderTCP is the IPv6 next-header value denoting a TCP upper-layer header.
	NextHeaderTCP = 6

	// EthernetHeaderLen is the fixed size of an Ethernet header: dst(6) + src(6) + type(2).
	EthernetHeaderLen = 14

	// IPv6HeaderLen is the fixed size of an IPv6 header, not including extension headers.
	IPv6HeaderLen = 40

	// TCPHeaderLen is the fixed size of a TCP header before options.
	TCPHeaderLen = 20

	// MaxFrameLen is the largest Ethernet frame this bridge will read or write: a 1500 byte
	// payload plus the 14 byte header.
	MaxFrameLen = 1514

	// DefaultConfigPath is where wfw looks for its configuration file absent -c.
	DefaultConfigPath = "/etc/wfw.cfg"

	// shutdownPollTimeout bounds how long the dispatch loop can block in poll(2) once its
	// context has been cancelled, so cancellation is noticed promptly.
	shutdownPollTimeout = 250 * time.Millisecond
)

// macBroadcast is the reserved Ethernet broadcast address.
var macBroadcast = [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
