package source

import "errors"

// Domain errors for the source package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, source.ErrUnknownType) {
//	    // handle unresolvable type tag
//	}
var (
	// ErrUnknownType is returned when an entry's type tag has no registered
	// driver or is not recognised by the feature detector.
	ErrUnknownType = errors.New("source: unknown source type")

	// ErrTypeUnavailable is returned when a type is recognised but its driver
	// tooling is missing on this host.
	ErrTypeUnavailable = errors.New("source: source type not available on this host")

	// ErrBuildFailed is returned when a driver constructor fails or panics.
	ErrBuildFailed = errors.New("source: driver construction failed")

	// ErrInvalidEntry is returned when an entry is missing required fields.
	ErrInvalidEntry = errors.New("source: invalid entry")
)
