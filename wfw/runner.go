package wfw

import (
	"fmt"
	"net"

	"github.com/sirupsen/logrus"
)

// Runner loads configuration, opens the TAP device and both UDP sockets, and drives the dispatch
// loop until it is asked to stop.
type Runner struct {
	configPath string
	foreground bool

	cfg *Config
	log *logrus.Logger

	tapFD int
	inFD  int
	outFD int
}

// NewRunner builds a Runner from the given options. It does not open any descriptors or read
// configuration yet -- that happens in Run, so construction itself cannot fail for I/O reasons.
func NewRunner(opts ...Option) (*Runner, error) {
	r := &Runner{
		configPath: DefaultConfigPath,
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Run loads configuration, daemonizes unless running in the foreground, opens the TAP device and
// both UDP sockets, and runs the dispatch loop until signalled to stop or a fatal error occurs.
func (r *Runner) Run() error {
	cfg, err := LoadConfig(r.configPath)
	if err != nil {
		return err
	}

	r.cfg = cfg

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	r.log = log

	continueRunning, err := Daemonize(cfg.PIDFile, r.foreground)
	if err != nil {
		return err
	}

	if !continueRunning {
		// we are the parent of a freshly backgrounded child; our job is done.
		return nil
	}

	return r.runForeground()
}

// runForeground opens the TAP device and sockets and drives the dispatch loop. It is always
// executed by the process that will actually forward frames, whether that process got there via
// -f or via Daemonize's re-exec.
func (r *Runner) runForeground() error {
	entry := r.log.WithField("component", "wfw")

	broadcastIP := net.ParseIP(r.cfg.Broadcast)

	tapFD, err := openTAP(r.cfg.Device)
	if err != nil {
		return err
	}

	r.tapFD = tapFD

	inFD, err := openInboundSocket(broadcastIP, r.cfg.Port)
	if err != nil {
		_ = closeAll(r.tapFD)

		return err
	}

	r.inFD = inFD

	outFD, err := openOutboundSocket()
	if err != nil {
		_ = closeAll(r.tapFD, r.inFD)

		return err
	}

	r.outFD = outFD

	defer func() {
		_ = closeAll(r.outFD, r.inFD, r.tapFD)
		RemovePIDFile(r.cfg.PIDFile)
	}()

	entry.WithFields(logrus.Fields{
		"device":    r.cfg.Device,
		"broadcast": r.cfg.Broadcast,
		"port":      r.cfg.Port,
	}).Info("wfw bridge starting")

	ctx, cancel := SignalHandledContext(entry)
	defer cancel()

	bridge := NewBridge(net.UDPAddr{IP: broadcastIP, Port: int(r.cfg.Port)}, entry)

	loop := newDispatcher(r.tapFD, r.inFD, r.outFD, bridge, entry)

	if err := loop.Run(ctx); err != nil {
		return fmt.Errorf("dispatch loop: %w", err)
	}

	entry.Info("wfw bridge stopped")

	return nil
}

func closeAll(fds ...int) error {
	var firstErr error

	for _, fd := range fds {
		if fd == 0 {
			continue
		}

		if err := closeFD(fd); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
