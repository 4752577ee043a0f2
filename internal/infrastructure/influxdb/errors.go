package influxdb

import "errors"

// Sentinel errors for the metrics client; match with errors.Is.
var (
	// ErrNotConnected: operation attempted after Close or before Connect.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed: the server did not answer the initial ping.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrDisabled: the influxdb config section is switched off. Callers
	// treat this as "run without metrics", not as a failure.
	ErrDisabled = errors.New("influxdb: disabled in configuration")
)
