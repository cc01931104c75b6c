package wfw

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// newLogger builds the structured logger used throughout wfw. Loop-recoverable I/O errors are
// logged with Warn; silent drops are logged with Debug so an operator can raise verbosity without
// a separate metrics collaborator. Startup-fatal errors are not logged through it: Runner.Run
// returns them to its caller.
func newLogger(level string) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: log-level %q: %w", ErrConfig, level, err)
	}

	l.SetLevel(parsed)

	return l, nil
}
