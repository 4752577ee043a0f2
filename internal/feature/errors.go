package feature

import "errors"

// ErrUnknownFeature is returned when a source type has no registered probe.
// Check with errors.Is().
var ErrUnknownFeature = errors.New("feature: unknown source type")
