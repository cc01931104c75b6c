package wfw

import "errors"

// ErrConfig is a generic error for configuration loading or validation issues.
var ErrConfig = errors.New("errConfig")

// ErrBind is a generic error for bind/setup issues -- opening the TAP device, creating a
// socket, or binding one.
var ErrBind = errors.New("errBind")

// ErrTruncated indicates a buffer was too short to hold the header being decoded.
var ErrTruncated = errors.New("errTruncated")

// ErrDaemonize is a generic error for issues backgrounding the process or writing its pidfile.
var ErrDaemonize = errors.New("errDaemonize")
