package reporting

// Reporter is a sink for spot events.
//
// Reporters declare the modes they understand; the engine only delivers
// spots whose mode is in that set. Stop releases any resources the reporter
// owns and is called exactly once by the engine that holds it.
type Reporter interface {
	// Spot delivers one spot. Called only for modes in SupportedModes.
	Spot(s Spot) error

	// SupportedModes returns the mode tags this reporter accepts.
	SupportedModes() []string

	// Stop releases reporter-owned resources.
	Stop() error
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is provided.
type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// defaultModes is the mode set reporters fall back to when configured
// without an explicit list. Covers the common weak-signal digimodes.
var defaultModes = []string{"FT8", "FT4", "JT65", "JT9", "WSPR", "FST4", "FST4W"}

// modesOrDefault returns the configured modes, or the default set if empty.
func modesOrDefault(modes []string) []string {
	if len(modes) == 0 {
		return defaultModes
	}
	return modes
}

// supportsMode reports whether the reporter accepts the given mode.
func supportsMode(r Reporter, mode string) bool {
	for _, m := range r.SupportedModes() {
		if m == mode {
			return true
		}
	}
	return false
}
