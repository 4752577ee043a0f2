package reporting

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/radiomux/internal/infrastructure/mqtt"
)

// Publisher is the slice of the MQTT client the reporter needs.
// Satisfied by *mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// MQTTReporter publishes spots as JSON to per-mode MQTT topics
// (radiomux/spots/<mode>). The broker connection is owned by the caller;
// Stop does not close it.
type MQTTReporter struct {
	pub   Publisher
	qos   byte
	modes []string
}

// MQTTReporterOptions configures a new MQTTReporter.
type MQTTReporterOptions struct {
	// Publisher is the connected MQTT client. Required.
	Publisher Publisher

	// QoS for spot publishes (0-2).
	QoS byte

	// Modes the reporter accepts. Defaults to the common digimodes.
	Modes []string
}

// NewMQTTReporter creates an MQTT spot reporter.
func NewMQTTReporter(opts MQTTReporterOptions) (*MQTTReporter, error) {
	if opts.Publisher == nil {
		return nil, fmt.Errorf("%w: mqtt publisher", ErrMissingDependency)
	}
	return &MQTTReporter{
		pub:   opts.Publisher,
		qos:   opts.QoS,
		modes: modesOrDefault(opts.Modes),
	}, nil
}

// Spot publishes the spot to its mode topic. Spots are events, not state,
// so they are never retained.
func (r *MQTTReporter) Spot(s Spot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding spot: %w", err)
	}

	topic := mqtt.Topics{}.Spot(s.Mode)
	if err := r.pub.Publish(topic, payload, r.qos, false); err != nil {
		return fmt.Errorf("publishing spot to %s: %w", topic, err)
	}
	return nil
}

// SupportedModes returns the configured mode set.
func (r *MQTTReporter) SupportedModes() []string {
	return r.modes
}

// Stop is a no-op: the MQTT client is owned by the composition root.
func (r *MQTTReporter) Stop() error {
	return nil
}
