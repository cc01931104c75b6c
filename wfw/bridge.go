package wfw

import (
	"net"

	"github.com/sirupsen/logrus"
)

// Bridge holds the three associative stores and the pure decision logic that the dispatch loop
// drives. It has no knowledge of file descriptors, sockets, or TAP devices -- that separation is
// what makes its decisions testable without any real I/O.
type Bridge struct {
	broadcast net.UDPAddr

	learn *learningBridge
	flows *flowTracker

	log *logrus.Entry
}

// NewBridge constructs a Bridge that will send to broadcast when the learning table has no entry
// for a given destination MAC.
func NewBridge(broadcast net.UDPAddr, log *logrus.Entry) *Bridge {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Bridge{
		broadcast: broadcast,
		learn:     newLearningBridge(),
		flows:     newFlowTracker(),
		log:       log,
	}
}

// EgressDestination processes a frame read from the TAP: it lets the flow tracker observe a
// locally initiated IPv6/TCP flow, then resolves where the frame should be sent -- unicast to a
// learned peer, or the configured broadcast address if the destination MAC is unknown. A stale
// learned entry is not validated here; it is the caller's send error, if any, that will surface
// the problem, and that error does not evict the entry.
func (b *Bridge) EgressDestination(f Frame) net.UDPAddr {
	b.flows.observeEgress(f)

	dst, err := f.DstMAC()
	if err != nil {
		return b.broadcast
	}

	if addr, ok := b.learn.lookup(dst); ok {
		return addr
	}

	return b.broadcast
}

// AdmitIngress processes a frame received over either UDP socket, from origin. It reports
// whether the frame should be written to the TAP, and if not, why. The learning table is only
// updated for frames that pass the flow filter -- a dropped frame teaches the bridge nothing
// about its sender. Among admitted frames, the source MAC is filtered before learning: broadcast
// and IPv6-multicast-derived MACs must never be inserted.
func (b *Bridge) AdmitIngress(f Frame, origin net.UDPAddr) (bool, DropReason) {
	src, err := f.SrcMAC()
	if err != nil {
		return false, DropParseTruncated
	}

	admit, reason := b.flows.admitIngress(f)
	if !admit {
		return false, reason
	}

	if !isBroadcastOrMulticastMAC(src) {
		b.learn.upsert(src, origin)
	} else {
		b.log.WithField("mac", macString(src)).Debug("learn-skip: broadcast/multicast source mac")
	}

	return true, ""
}
