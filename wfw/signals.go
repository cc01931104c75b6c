package wfw

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

// SignalHandledContext returns a context that is cancelled on SIGINT or SIGTERM, so the dispatch
// loop can unwind (close descriptors, remove the pidfile) instead of the process dying mid-frame.
// A second signal does not force os.Exit -- the dispatch loop's poll timeout (see dispatch.go)
// bounds how long shutdown can take, so there's no need for an impatient second SIGINT.
func SignalHandledContext(log *logrus.Entry) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 2)

	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigs
		log.WithField("signal", sig.String()).Info("received signal, shutting down")

		cancel()
	}()

	return ctx, cancel
}
