// Package feature reports which SDR source types can run on this host.
//
// Each known source type registers a probe that checks for the driver
// tooling it needs (usually a binary on PATH). The source registry consults
// the detector before building a proxy: an unknown type is a configuration
// error, an unavailable one means the host lacks the driver.
//
// # Usage
//
//	det := feature.NewDetector()
//	det.Register("rtlsdr", feature.BinaryProbe("rtl_sdr"))
//
//	ok, err := det.Available("rtlsdr")
//	if errors.Is(err, feature.ErrUnknownFeature) {
//	    // type tag not recognised
//	}
//
// # Thread Safety
//
// The Detector is safe for concurrent use.
package feature
