package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteSourceMetric writes a single receiver measurement to InfluxDB.
//
// This is the primary method for recording per-source telemetry.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - sourceID: Configuration key of the source (e.g., "rtl0")
//   - metric: The metric name (e.g., "gain_db", "ppm_offset", "sample_drops")
//   - value: The numeric value to record
//
// Example:
//
//	client.WriteSourceMetric("rtl0", "gain_db", 29.7)
//	client.WriteSourceMetric("airspy0", "sample_drops", 3)
func (c *Client) WriteSourceMetric(sourceID string, metric string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"source_metrics",
		map[string]string{
			"source_id": sourceID,
			"metric":    metric,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSpotRate writes a per-mode spot throughput measurement.
//
// Used for tracking decode activity over time (spots per interval).
//
// Parameters:
//   - mode: Digital mode tag (e.g., "FT8", "WSPR")
//   - count: Number of spots observed in the interval
func (c *Client) WriteSpotRate(mode string, count int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"spot_rate",
		map[string]string{
			"mode": mode,
		},
		map[string]interface{}{
			"count": count,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteHealthMetric writes a source availability measurement.
//
// Used for tracking how many configured sources are healthy versus
// failed or disabled at a point in time.
//
// Parameters:
//   - configured: Number of configured sources
//   - healthy: Number currently enabled and not failed
func (c *Client) WriteHealthMetric(configured int, healthy int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"source_health",
		nil,
		map[string]interface{}{
			"configured": configured,
			"healthy":    healthy,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "rx-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., a spot carries the
// decode time, not the write time).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
