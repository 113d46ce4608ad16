package monitor

import "errors"

var errNoTarget = errors.New("no storage backend configured")
