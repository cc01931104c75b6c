package wfw

import (
	"encoding/binary"
	"fmt"
	"net"
)

// Frame is a typed, bounds-checked view over a received Ethernet frame. It never copies the
// underlying buffer; every accessor that steps into a nested header re-validates length against
// the bytes actually received before indexing into them -- truncation is reported, never guessed
// around.
type Frame struct {
	raw []byte
}

// NewFrame wraps b as a Frame without copying it. b must remain valid (and unmodified by the
// caller) for the lifetime of the Frame and any header view derived from it.
func NewFrame(b []byte) Frame {
	return Frame{raw: b}
}

// Len returns the number of bytes actually received.
func (f Frame) Len() int {
	return len(f.raw)
}

// Raw returns the underlying buffer, unmodified.
func (f Frame) Raw() []byte {
	return f.raw
}

// DstMAC returns the destination MAC address, or an error if the frame is truncated.
func (f Frame) DstMAC() ([6]byte, error) {
	var mac [6]byte

	if len(f.raw) < 6 {
		return mac, fmt.Errorf("%w: ethernet dst mac", ErrTruncated)
	}

	copy(mac[:], f.raw[0:6])

	return mac, nil
}

// SrcMAC returns the source MAC address, or an error if the frame is truncated.
func (f Frame) SrcMAC() ([6]byte, error) {
	var mac [6]byte

	if len(f.raw) < 12 {
		return mac, fmt.Errorf("%w: ethernet src mac", ErrTruncated)
	}

	copy(mac[:], f.raw[6:12])

	return mac, nil
}

// EtherType returns the frame's EtherType, converted from network byte order.
func (f Frame) EtherType() (uint16, error) {
	if len(f.raw) < EthernetHeaderLen {
		return 0, fmt.Errorf("%w: ethernet type", ErrTruncated)
	}

	return binary.BigEndian.Uint16(f.raw[12:14]), nil
}

// IsIPv6 reports whether the frame's EtherType is 0x86DD. A truncated frame is not IPv6.
func (f Frame) IsIPv6() bool {
	et, err := f.EtherType()

	return err == nil && et == EtherTypeIPv6
}

// Payload returns the bytes following the 14-byte Ethernet header, or an error if the frame is
// truncated.
func (f Frame) Payload() ([]byte, error) {
	if len(f.raw) < EthernetHeaderLen {
		return nil, fmt.Errorf("%w: ethernet payload", ErrTruncated)
	}

	return f.raw[EthernetHeaderLen:], nil
}

// IPv6 decodes the frame's payload as an IPv6 header view. It fails if the frame is too short to
// hold an Ethernet header plus a fixed 40-byte IPv6 header, or if the payload's version nibble is
// not 6.
func (f Frame) IPv6() (IPv6Header, error) {
	payload, err := f.Payload()
	if err != nil {
		return IPv6Header{}, err
	}

	if len(payload) < IPv6HeaderLen {
		return IPv6Header{}, fmt.Errorf("%w: ipv6 header", ErrTruncated)
	}

	h := IPv6Header{raw: payload}

	if h.Version() != 6 {
		return IPv6Header{}, fmt.Errorf("%w: ipv6 version %d", errBadIPv6Version, h.Version())
	}

	return h, nil
}

var errBadIPv6Version = fmt.Errorf("not an ipv6 header")

// IPv6Header is a typed, bounds-checked view over an IPv6 header, laid directly atop the bytes
// following the Ethernet header (offsets per RFC 8200).
type IPv6Header struct {
	raw []byte
}

// Version returns the 4-bit version field.
func (h IPv6Header) Version() uint8 {
	return h.raw[0] >> 4
}

// NextHeader returns the next-header byte. Only the immediate next header is inspected; this
// core does not traverse IPv6 extension headers.
func (h IPv6Header) NextHeader() uint8 {
	return h.raw[6]
}

// SrcAddr returns the 16-byte source address.
func (h IPv6Header) SrcAddr() [16]byte {
	var a [16]byte

	copy(a[:], h.raw[8:24])

	return a
}

// DstAddr returns the 16-byte destination address.
func (h IPv6Header) DstAddr() [16]byte {
	var a [16]byte

	copy(a[:], h.raw[24:40])

	return a
}

// IsTCP reports whether the immediate next header is TCP.
func (h IPv6Header) IsTCP() bool {
	return h.NextHeader() == NextHeaderTCP
}

// TCP decodes the bytes following the fixed IPv6 header as a TCP segment view. It fails if the
// next header is not TCP, or (with ErrTruncated) if there are not enough bytes to hold a fixed
// 20-byte TCP header.
func (h IPv6Header) TCP() (TCPSegment, error) {
	if !h.IsTCP() {
		return TCPSegment{}, fmt.Errorf("ipv6 next header %d is not tcp", h.NextHeader())
	}

	upper := h.raw[IPv6HeaderLen:]
	if len(upper) < TCPHeaderLen {
		return TCPSegment{}, fmt.Errorf("%w: tcp header", ErrTruncated)
	}

	return TCPSegment{raw: upper}, nil
}

// TCPSegment is a typed, bounds-checked view over a TCP header. Only source/destination ports and
// the SYN bit matter to this core.
type TCPSegment struct {
	raw []byte
}

// SrcPort returns the source port.
func (t TCPSegment) SrcPort() uint16 {
	return binary.BigEndian.Uint16(t.raw[0:2])
}

// DstPort returns the destination port.
func (t TCPSegment) DstPort() uint16 {
	return binary.BigEndian.Uint16(t.raw[2:4])
}

// flagsOffset is the offset of the data-offset/flags word within the TCP header.
const flagsOffset = 12

// synFlagMask is the bit position of the SYN control bit within the low byte of the
// data-offset/flags word.
const synFlagMask = 0x02

// SYN reports whether the SYN control bit is set.
func (t TCPSegment) SYN() bool {
	return t.raw[flagsOffset+1]&synFlagMask != 0
}

// macString is a small helper for log fields -- net.HardwareAddr already knows how to format a
// 6-byte MAC.
func macString(mac [6]byte) string {
	return net.HardwareAddr(mac[:]).String()
}

func isBroadcastOrMulticastMAC(mac [6]byte) bool {
	if mac == macBroadcast {
		return true
	}

	return mac[0] == 0x33 && mac[1] == 0x33
}
