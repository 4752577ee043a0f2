package mqtt

import "fmt"

// maxPayloadSize caps outgoing payloads at 1MB, in line with common broker
// limits. Spot and state payloads are a few hundred bytes; anything near
// this cap indicates a bug upstream.
const maxPayloadSize = 1 << 20

// Publish sends payload to topic and waits for the broker to acknowledge it
// (per the requested QoS) or for the publish timeout.
//
// Retained messages are kept by the broker and handed to new subscribers,
// which suits state topics like a source's availability; spot fan-out is
// published unretained.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes",
			ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishRetained publishes a retained message at the configured default
// QoS. Used for the per-source state topics.
func (c *Client) PublishRetained(topic string, payload []byte) error {
	return c.Publish(topic, payload, byte(c.cfg.QoS), true)
}
