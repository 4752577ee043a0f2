package mqtt

import "fmt"

// Subscribe registers handler for messages matching topic. MQTT wildcards
// work as usual: "radiomux/sources/+/state" matches every source,
// "radiomux/#" matches the whole namespace.
//
// The subscription is tracked so it survives a reconnect. The handler runs
// on a paho goroutine and should not block for long.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if handler == nil {
		return fmt.Errorf("%w: handler cannot be nil", ErrSubscribeFailed)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.mu.Lock()
	c.subscriptions[topic] = subscription{qos: qos, handler: handler}
	c.mu.Unlock()

	token := c.client.Subscribe(topic, qos, c.wrapHandler(handler))
	err := tokenError(token.WaitTimeout(publishTimeout), token.Error())
	if err != nil {
		// Stop tracking so a reconnect does not retry a rejected topic.
		c.mu.Lock()
		delete(c.subscriptions, topic)
		c.mu.Unlock()
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	return nil
}

// Unsubscribe drops the subscription for topic. Messages already in flight
// may still reach the handler.
func (c *Client) Unsubscribe(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.mu.Lock()
	delete(c.subscriptions, topic)
	c.mu.Unlock()

	token := c.client.Unsubscribe(topic)
	if err := tokenError(token.WaitTimeout(publishTimeout), token.Error()); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsubscribeFailed, err)
	}
	return nil
}

// SubscriptionCount returns how many topics are tracked.
func (c *Client) SubscriptionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subscriptions)
}

// HasSubscription reports whether the exact topic string is tracked.
// No pattern matching is done.
func (c *Client) HasSubscription(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.subscriptions[topic]
	return ok
}

// tokenError folds a paho token wait result into one error: a timeout when
// the wait expired, otherwise the token's own error.
func tokenError(completed bool, err error) error {
	if !completed {
		return fmt.Errorf("timeout after %v", publishTimeout)
	}
	return err
}
