package wfw

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads and parses the yaml configuration file at path. device, port, and broadcast
// are required; pidfile and log-level are optional.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrConfig, path, err)
	}

	cfg := &Config{}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrConfig, path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Device == "" {
		return fmt.Errorf("%w: %q is required", ErrConfig, "device")
	}

	if c.Port == 0 {
		return fmt.Errorf("%w: %q is required", ErrConfig, "port")
	}

	if c.Broadcast == "" {
		return fmt.Errorf("%w: %q is required", ErrConfig, "broadcast")
	}

	if ip := net.ParseIP(c.Broadcast); ip == nil || ip.To4() == nil {
		return fmt.Errorf("%w: %q is not a valid IPv4 address: %q", ErrConfig, "broadcast", c.Broadcast)
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	return nil
}
