package wfw

import "net"

// flowKey identifies a bidirectional IPv6/TCP flow irrespective of direction, by pairing a local
// and remote port with the remote endpoint's address. Locality is defined by direction at the
// call site (see observeEgress and admitIngress in flowtracker.go), not by any field here.
type flowKey struct {
	localPort  uint16
	remotePort uint16
	remoteAddr [16]byte
}

// connTable remembers IPv6/TCP flows the local side initiated (observed a SYN egressing the
// TAP). It is a plainly typed Go map rather than a generic container with an erased key shape --
// Go's map already gives bytewise-equal, stable hashing of a comparable key for free.
type connTable struct {
	flows map[flowKey]struct{}
}

func newConnTable() *connTable {
	return &connTable{flows: make(map[flowKey]struct{})}
}

func (c *connTable) insert(k flowKey) {
	c.flows[k] = struct{}{}
}

func (c *connTable) has(k flowKey) bool {
	_, ok := c.flows[k]

	return ok
}

// blacklist remembers IPv6 addresses that sent an unsolicited inbound IPv6/TCP flow.
type blacklist struct {
	addrs map[[16]byte]struct{}
}

func newBlacklist() *blacklist {
	return &blacklist{addrs: make(map[[16]byte]struct{})}
}

func (b *blacklist) insert(addr [16]byte) {
	b.addrs[addr] = struct{}{}
}

func (b *blacklist) has(addr [16]byte) bool {
	_, ok := b.addrs[addr]

	return ok
}

// learningBridge is the "yellow pages": a MAC-to-peer mapping learned from inbound traffic so
// outbound frames can be unicast to a known destination instead of broadcast.
type learningBridge struct {
	peers map[[6]byte]net.UDPAddr
}

func newLearningBridge() *learningBridge {
	return &learningBridge{peers: make(map[[6]byte]net.UDPAddr)}
}

// upsert records (or updates) the peer address learned for mac. Callers must have already
// filtered out broadcast/multicast source MACs -- this store does not re-check the invariant
// itself, to keep the filter decision (and its logging) at a single call site.
func (l *learningBridge) upsert(mac [6]byte, addr net.UDPAddr) {
	l.peers[mac] = addr
}

func (l *learningBridge) lookup(mac [6]byte) (net.UDPAddr, bool) {
	addr, ok := l.peers[mac]

	return addr, ok
}
