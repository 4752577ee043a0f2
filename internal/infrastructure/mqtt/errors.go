package mqtt

import "errors"

// Sentinel errors for broker operations; match with errors.Is.
var (
	// ErrNotConnected: operation attempted while disconnected from the broker.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed: the initial connection attempt did not succeed.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed wraps broker-side or timeout failures of Publish.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed wraps broker-side or timeout failures of Subscribe.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrUnsubscribeFailed wraps broker-side or timeout failures of Unsubscribe.
	ErrUnsubscribeFailed = errors.New("mqtt: unsubscribe failed")

	// ErrInvalidQoS: QoS outside 0..2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic: empty topic string.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")
)
