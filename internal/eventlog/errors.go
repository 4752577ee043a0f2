package eventlog

import "errors"

// ErrMissingDB indicates New was called without a database handle.
var ErrMissingDB = errors.New("eventlog: database is required")
