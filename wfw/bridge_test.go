package wfw

import (
	"net"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)

	return logrus.NewEntry(l)
}

func mac(last byte) [6]byte {
	return [6]byte{0x02, 0, 0, 0, 0, last}
}

func ipv6(last byte) [16]byte {
	return [16]byte{0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, last}
}

var broadcastAddr = net.UDPAddr{IP: net.IPv4(10, 0, 0, 255), Port: 4799}

// Learning round-trip.
func TestScenarioLearningRoundTrip(t *testing.T) {
	b := NewBridge(broadcastAddr, testLog())

	dstMAC02 := mac(0x02)
	srcMAC01 := mac(0x01)

	egress := buildEthernet(dstMAC02, srcMAC01, 0x0800, []byte{1, 2, 3})
	dst := b.EgressDestination(NewFrame(egress))
	assert.Equal(t, broadcastAddr, dst)

	peer := net.UDPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 5555}
	ingress := buildEthernet(srcMAC01, dstMAC02, 0x0800, []byte{1, 2, 3})

	admit, _ := b.AdmitIngress(NewFrame(ingress), peer)
	assert.True(t, admit)

	dst = b.EgressDestination(NewFrame(egress))
	assert.Equal(t, peer, dst)
}

// Outbound SYN admits reply.
func TestScenarioOutboundSYNAdmitsReply(t *testing.T) {
	b := NewBridge(broadcastAddr, testLog())

	local := ipv6(1)
	remote := ipv6(2)

	syn := buildTCP(40000, 443, true)
	ip6Out := buildIPv6(NextHeaderTCP, local, remote, syn)
	egress := buildEthernet(mac(0xAA), mac(0xBB), EtherTypeIPv6, ip6Out)

	b.EgressDestination(NewFrame(egress))

	synAck := buildTCP(443, 40000, false)
	ip6In := buildIPv6(NextHeaderTCP, remote, local, synAck)
	ingress := buildEthernet(mac(0xBB), mac(0xAA), EtherTypeIPv6, ip6In)

	admit, reason := b.AdmitIngress(NewFrame(ingress), net.UDPAddr{IP: net.IPv4(10, 0, 0, 9), Port: 4799})
	assert.True(t, admit)
	assert.Empty(t, reason)
}

// Unsolicited inbound blacklists.
func TestScenarioUnsolicitedInboundBlacklists(t *testing.T) {
	b := NewBridge(broadcastAddr, testLog())

	hostile := ipv6(0xff)
	local := ipv6(1)

	syn := buildTCP(443, 40000, true)
	ip6In := buildIPv6(NextHeaderTCP, hostile, local, syn)
	ingress := buildEthernet(mac(0xBB), mac(0xAA), EtherTypeIPv6, ip6In)

	admit, reason := b.AdmitIngress(NewFrame(ingress), net.UDPAddr{IP: net.IPv4(10, 0, 0, 9), Port: 4799})
	require.False(t, admit)
	assert.Equal(t, DropPolicyUnsolicited, reason)

	// subsequent inbound frames whose destination is the now-blacklisted address are dropped
	// regardless of payload.
	otherUpper := buildTCP(1, 2, false)
	ip6Again := buildIPv6(NextHeaderTCP, local, hostile, otherUpper)
	again := buildEthernet(mac(0xBB), mac(0xAA), EtherTypeIPv6, ip6Again)

	admit, reason = b.AdmitIngress(NewFrame(again), net.UDPAddr{IP: net.IPv4(10, 0, 0, 9), Port: 4799})
	assert.False(t, admit)
	assert.Equal(t, DropPolicyBlacklisted, reason)
}

// Non-IPv6 bypass.
func TestScenarioNonIPv6Bypass(t *testing.T) {
	b := NewBridge(broadcastAddr, testLog())

	src := mac(0x01)
	ingress := buildEthernet(mac(0x02), src, 0x0800, []byte{1, 2, 3, 4})
	peer := net.UDPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 5555}

	admit, reason := b.AdmitIngress(NewFrame(ingress), peer)
	require.True(t, admit)
	assert.Empty(t, reason)

	got, ok := b.learn.lookup(src)
	require.True(t, ok)
	assert.Equal(t, peer, got)
}

// Broadcast source not learned.
func TestScenarioBroadcastSourceNotLearned(t *testing.T) {
	b := NewBridge(broadcastAddr, testLog())

	ingress := buildEthernet(mac(0x02), macBroadcast, 0x0800, []byte{1, 2, 3, 4})
	peer := net.UDPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 5555}

	admit, _ := b.AdmitIngress(NewFrame(ingress), peer)
	assert.True(t, admit, "frame should still be considered admitted (written to tap)")

	_, ok := b.learn.lookup(macBroadcast)
	assert.False(t, ok)
}

// Truncated IPv6 drop.
func TestScenarioTruncatedDrop(t *testing.T) {
	b := NewBridge(broadcastAddr, testLog())

	raw := buildEthernet(mac(0x02), mac(0x01), EtherTypeIPv6, []byte{1, 2, 3, 4, 5, 6})
	peer := net.UDPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 5555}

	admit, reason := b.AdmitIngress(NewFrame(raw), peer)
	assert.False(t, admit)
	assert.Equal(t, DropParseTruncated, reason)
	assert.Empty(t, b.learn.peers)
}

func TestInvariantLearningNeverIndexesBroadcastOrMulticast(t *testing.T) {
	b := NewBridge(broadcastAddr, testLog())
	peer := net.UDPAddr{IP: net.IPv4(10, 0, 0, 5), Port: 5555}

	for _, src := range []([6]byte){macBroadcast, {0x33, 0x33, 1, 2, 3, 4}} {
		ingress := buildEthernet(mac(0x02), src, 0x0800, []byte{1})
		b.AdmitIngress(NewFrame(ingress), peer)
	}

	for k := range b.learn.peers {
		assert.NotEqual(t, macBroadcast, k)
		assert.False(t, k[0] == 0x33 && k[1] == 0x33)
	}
}

func TestEgressSelectionIsDeterministic(t *testing.T) {
	b := NewBridge(broadcastAddr, testLog())

	unknown := mac(0x09)
	egress := buildEthernet(unknown, mac(0x01), 0x0800, nil)
	assert.Equal(t, broadcastAddr, b.EgressDestination(NewFrame(egress)))

	known := mac(0x02)
	peer := net.UDPAddr{IP: net.IPv4(10, 0, 0, 7), Port: 4799}
	b.learn.upsert(known, peer)

	egress = buildEthernet(known, mac(0x01), 0x0800, nil)
	assert.Equal(t, peer, b.EgressDestination(NewFrame(egress)))
}
