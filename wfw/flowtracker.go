package wfw

import "errors"

// flowTracker implements a connection-oriented filter for IPv6/TCP: it learns flows the local
// side initiates on TAP-egress, and enforces that only those flows (or non-TCP IPv6 traffic) are
// admitted on UDP-ingress, blacklisting any remote that sends an unsolicited flow.
type flowTracker struct {
	conns *connTable
	bl    *blacklist
}

func newFlowTracker() *flowTracker {
	return &flowTracker{
		conns: newConnTable(),
		bl:    newBlacklist(),
	}
}

// observeEgress inspects a frame leaving the TAP. If it is an IPv6/TCP segment with SYN set, the
// flow is recorded (if not already present) so a reply can later be admitted on ingress.
// Segments without SYN are ignored. Only the SYN bit is consulted, so a SYN-ACK is recorded like
// a SYN when its flow is absent, and never re-inserts a flow that is already present.
func (t *flowTracker) observeEgress(f Frame) {
	if !f.IsIPv6() {
		return
	}

	ip6, err := f.IPv6()
	if err != nil || !ip6.IsTCP() {
		return
	}

	tcp, err := ip6.TCP()
	if err != nil || !tcp.SYN() {
		return
	}

	key := flowKey{
		localPort:  tcp.SrcPort(),
		remotePort: tcp.DstPort(),
		remoteAddr: ip6.DstAddr(),
	}

	if !t.conns.has(key) {
		t.conns.insert(key)
	}
}

// admitIngress decides whether a frame arriving over UDP may be written to the TAP. Non-IPv6
// frames always bypass the tracker and are admitted. For IPv6 frames, the blacklist is checked
// against the packet's destination address, not its source -- this asymmetry is intentional and
// preserved as-is. If not blacklisted and the packet is not TCP, it is admitted. If it is TCP,
// the flow must already appear in the connection table (as something the local side initiated);
// otherwise the packet's source address is blacklisted and the frame is dropped.
func (t *flowTracker) admitIngress(f Frame) (bool, DropReason) {
	if !f.IsIPv6() {
		return true, ""
	}

	ip6, err := f.IPv6()
	if err != nil {
		if errors.Is(err, errBadIPv6Version) {
			return false, DropParseBadVersion
		}

		return false, DropParseTruncated
	}

	if t.bl.has(ip6.DstAddr()) {
		return false, DropPolicyBlacklisted
	}

	if !ip6.IsTCP() {
		return true, ""
	}

	tcp, err := ip6.TCP()
	if err != nil {
		return false, DropParseTruncated
	}

	key := flowKey{
		localPort:  tcp.DstPort(),
		remotePort: tcp.SrcPort(),
		remoteAddr: ip6.SrcAddr(),
	}

	if t.conns.has(key) {
		return true, ""
	}

	t.bl.insert(ip6.SrcAddr())

	return false, DropPolicyUnsolicited
}
