package reporting

import "time"

// Spot describes one observed transmission, decoded from a source's output.
//
// Mode is the only mandatory field: it selects which reporters receive the
// spot. Everything else is best-effort metadata from the decoder.
type Spot struct {
	// Mode is the digital mode tag (e.g. "FT8", "WSPR"). Required.
	Mode string `json:"mode"`

	// Callsign is the transmitting station, if decoded.
	Callsign string `json:"callsign,omitempty"`

	// Locator is the transmitting station's Maidenhead grid square, if decoded.
	Locator string `json:"locator,omitempty"`

	// Frequency is the dial frequency plus audio offset, in Hz.
	Frequency int64 `json:"frequency,omitempty"`

	// SNR is the decoder's signal-to-noise estimate in dB.
	SNR float64 `json:"snr,omitempty"`

	// DT is the decoder's time offset estimate in seconds.
	DT float64 `json:"dt,omitempty"`

	// Message is the raw decoded message text.
	Message string `json:"message,omitempty"`

	// Source is the id of the source the spot was received on.
	Source string `json:"source,omitempty"`

	// Timestamp is when the transmission was observed. The engine fills it
	// with the current time if left zero.
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks that the spot is routable.
func (s Spot) Validate() error {
	if s.Mode == "" {
		return ErrMissingMode
	}
	return nil
}
