package reporting

import (
	"fmt"
	"time"
)

// PointWriter is the slice of the InfluxDB client the reporter needs.
// Satisfied by *influxdb.Client. Writes are non-blocking and batched by
// the underlying client.
type PointWriter interface {
	WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time)
}

// InfluxReporter writes one point per spot to the "spot" measurement,
// tagged by mode and source for cheap per-band/per-receiver queries.
// The InfluxDB connection is owned by the caller; Stop does not close it.
type InfluxReporter struct {
	writer PointWriter
	modes  []string
}

// InfluxReporterOptions configures a new InfluxReporter.
type InfluxReporterOptions struct {
	// Writer is the connected InfluxDB client. Required.
	Writer PointWriter

	// Modes the reporter accepts. Defaults to the common digimodes.
	Modes []string
}

// NewInfluxReporter creates an InfluxDB spot reporter.
func NewInfluxReporter(opts InfluxReporterOptions) (*InfluxReporter, error) {
	if opts.Writer == nil {
		return nil, fmt.Errorf("%w: influxdb writer", ErrMissingDependency)
	}
	return &InfluxReporter{
		writer: opts.Writer,
		modes:  modesOrDefault(opts.Modes),
	}, nil
}

// Spot writes the spot as a time-series point. The write is buffered by
// the client, so this never blocks on the network.
func (r *InfluxReporter) Spot(s Spot) error {
	tags := map[string]string{
		"mode": s.Mode,
	}
	if s.Source != "" {
		tags["source"] = s.Source
	}

	fields := map[string]interface{}{
		"frequency_hz": s.Frequency,
		"snr_db":       s.SNR,
		"dt_seconds":   s.DT,
	}
	if s.Callsign != "" {
		fields["callsign"] = s.Callsign
	}
	if s.Locator != "" {
		fields["locator"] = s.Locator
	}

	r.writer.WritePointWithTime("spot", tags, fields, s.Timestamp)
	return nil
}

// SupportedModes returns the configured mode set.
func (r *InfluxReporter) SupportedModes() []string {
	return r.modes
}

// Stop is a no-op: the InfluxDB client is owned by the composition root.
func (r *InfluxReporter) Stop() error {
	return nil
}
