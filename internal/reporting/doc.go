// Package reporting routes decoded spot events to pluggable reporter sinks.
//
// A Reporter consumes spots for the modes it declares via SupportedModes.
// The Engine holds an ordered list of reporters and, for each spot, delivers
// it to every reporter whose supported-mode set contains the spot's mode:
//
//	decoder ──Spot──▶ Engine ──┬──▶ MQTTReporter   (FT8, FT4, ...)
//	                           ├──▶ SpotLog        (all modes)
//	                           └──▶ InfluxReporter (WSPR)
//
// A spot must carry a mode; mode-less spots are rejected at the boundary
// with ErrMissingMode before any reporter sees them.
//
// Reporter failures are isolated: one reporter returning an error (or
// panicking) does not prevent delivery to the remaining reporters.
//
// The package also maintains an optional process-wide engine (Init / Shared /
// StopAll) for callers that need a single shared fan-out point. StopAll stops
// every registered reporter exactly once.
//
// Thread Safety:
//   - Engine methods are safe for concurrent use.
//   - Reporters must tolerate concurrent Spot calls.
package reporting
