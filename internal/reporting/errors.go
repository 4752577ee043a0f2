package reporting

import "errors"

// Sentinel errors for the reporting package.
// Use errors.Is() to check error types.
var (
	// ErrMissingMode indicates a spot arrived without a mode tag.
	// Spots are rejected at the engine boundary before any reporter sees them.
	ErrMissingMode = errors.New("reporting: spot has no mode")

	// ErrStopped indicates the engine has been stopped and no longer accepts spots.
	ErrStopped = errors.New("reporting: engine stopped")

	// ErrMissingDependency indicates an enabled reporter was configured without
	// the infrastructure client it needs.
	ErrMissingDependency = errors.New("reporting: missing dependency")
)
