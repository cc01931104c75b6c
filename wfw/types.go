package wfw

// Config holds the yaml configuration used for wfw.
type Config struct {
	// Device is the name of the TAP interface wfw attaches to through /dev/net/tun. It is an
	// interface name, not a device path.
	Device string `yaml:"device"`
	// Port is the UDP port the broadcast domain communicates on.
	Port uint16 `yaml:"port"`
	// Broadcast is the IPv4 broadcast address of the virtual ethernet segment.
	Broadcast string `yaml:"broadcast"`
	// PIDFile is an optional path written with the daemonized process's pid.
	PIDFile string `yaml:"pidfile"`
	// LogLevel controls verbosity; one of debug, info, warn, error.
	LogLevel string `yaml:"log-level"`
}

// DropReason categorizes why a frame was silently dropped, for logging only -- the core
// surfaces no metrics.
type DropReason string

const (
	// DropParseTruncated means the buffer was too short to decode the header in question.
	DropParseTruncated DropReason = "parse-drop:truncated"
	// DropParseBadVersion means an IPv6 header's version nibble was not 6.
	DropParseBadVersion DropReason = "parse-drop:bad-version"
	// DropPolicyBlacklisted means the frame's IPv6 destination matched the blacklist.
	DropPolicyBlacklisted DropReason = "policy-drop:blacklisted"
	// DropPolicyUnsolicited means an inbound IPv6/TCP frame had no matching connection-table
	// entry, and the remote address has now been blacklisted because of it.
	DropPolicyUnsolicited DropReason = "policy-drop:unsolicited"
)
