package mqtt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/radiomux/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
// Broker-backed tests require a running Mosquitto broker at 127.0.0.1:1883
// and are skipped when none is reachable.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "radiomux-test",
			TLS:      false,
		},
		Auth: config.MQTTAuthConfig{
			Username: "",
			Password: "",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// requireBroker skips the test when no local broker is listening.
func requireBroker(t *testing.T, cfg config.MQTTConfig) {
	t.Helper()

	addr := fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port)
	conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
	if err != nil {
		t.Skipf("no MQTT broker at %s: %v", addr, err)
	}
	conn.Close() //nolint:errcheck // Probe connection
}

// connectTest opens a client against the local broker, skipping without one.
func connectTest(t *testing.T, cfg config.MQTTConfig) *Client {
	t.Helper()
	requireBroker(t, cfg)

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return client
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnect(t *testing.T) {
	client := connectTest(t, testConfig())
	defer client.Close() //nolint:errcheck // Test cleanup

	if !client.IsConnected() {
		t.Error("IsConnected() = false, want true")
	}
}

func TestConnectInvalidBroker(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.Port = 19999 // Nothing listens here

	_, err := Connect(cfg)
	if err == nil {
		t.Fatal("Connect() expected error for invalid broker")
	}

	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestClose(t *testing.T) {
	client := connectTest(t, testConfig())

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if client.IsConnected() {
		t.Error("IsConnected() = true after Close(), want false")
	}
}

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on empty client error = %v, want nil", err)
	}
}

// =============================================================================
// HealthCheck Tests
// =============================================================================

func TestHealthCheck(t *testing.T) {
	client := connectTest(t, testConfig())
	defer client.Close() //nolint:errcheck // Test cleanup

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v, want nil", err)
	}
}

func TestHealthCheckCancelled(t *testing.T) {
	client := connectTest(t, testConfig())
	defer client.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	if err := client.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() expected error for cancelled context")
	}
}

func TestHealthCheckDisconnected(t *testing.T) {
	client := connectTest(t, testConfig())
	client.Close() //nolint:errcheck // Deliberate disconnect

	err := client.HealthCheck(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Publish Tests
// =============================================================================

func TestPublish(t *testing.T) {
	client := connectTest(t, testConfig())
	defer client.Close() //nolint:errcheck // Test cleanup

	topic := Topics{}.Spot("FT8")
	payload := []byte(`{"mode":"FT8","callsign":"M0ABC"}`)

	if err := client.Publish(topic, payload, 1, false); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
}

func TestPublishRetained(t *testing.T) {
	client := connectTest(t, testConfig())
	defer client.Close() //nolint:errcheck // Test cleanup

	topic := Topics{}.SourceState("test-source")
	payload := []byte(`{"available":true}`)

	if err := client.PublishRetained(topic, payload); err != nil {
		t.Errorf("PublishRetained() error = %v", err)
	}
}

func TestPublishEmptyTopic(t *testing.T) {
	client := connectTest(t, testConfig())
	defer client.Close() //nolint:errcheck // Test cleanup

	err := client.Publish("", []byte("test"), 1, false)
	if !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish() error = %v, want ErrInvalidTopic", err)
	}
}

func TestPublishInvalidQoS(t *testing.T) {
	client := connectTest(t, testConfig())
	defer client.Close() //nolint:errcheck // Test cleanup

	err := client.Publish("test/topic", []byte("test"), 3, false)
	if !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Publish() error = %v, want ErrInvalidQoS", err)
	}
}

func TestPublishDisconnected(t *testing.T) {
	client := connectTest(t, testConfig())
	client.Close() //nolint:errcheck // Deliberate disconnect

	err := client.Publish("test/topic", []byte("test"), 1, false)
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Subscribe Tests
// =============================================================================

func TestSubscribe(t *testing.T) {
	client := connectTest(t, testConfig())
	defer client.Close() //nolint:errcheck // Test cleanup

	topic := "radiomux/test/subscribe"
	handler := func(topic string, payload []byte) error {
		return nil
	}

	if err := client.Subscribe(topic, 1, handler); err != nil {
		t.Errorf("Subscribe() error = %v", err)
	}

	if !client.HasSubscription(topic) {
		t.Error("HasSubscription() = false, want true")
	}

	if client.SubscriptionCount() != 1 {
		t.Errorf("SubscriptionCount() = %d, want 1", client.SubscriptionCount())
	}
}

func TestSubscribeEmptyTopic(t *testing.T) {
	client := connectTest(t, testConfig())
	defer client.Close() //nolint:errcheck // Test cleanup

	err := client.Subscribe("", 1, func(string, []byte) error { return nil })
	if !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe() error = %v, want ErrInvalidTopic", err)
	}
}

func TestSubscribeNilHandler(t *testing.T) {
	client := connectTest(t, testConfig())
	defer client.Close() //nolint:errcheck // Test cleanup

	err := client.Subscribe("test/topic", 1, nil)
	if !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe() error = %v, want ErrSubscribeFailed", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	client := connectTest(t, testConfig())
	defer client.Close() //nolint:errcheck // Test cleanup

	topic := "radiomux/test/unsubscribe"
	handler := func(topic string, payload []byte) error {
		return nil
	}

	if err := client.Subscribe(topic, 1, handler); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := client.Unsubscribe(topic); err != nil {
		t.Errorf("Unsubscribe() error = %v", err)
	}

	if client.HasSubscription(topic) {
		t.Error("HasSubscription() = true after Unsubscribe(), want false")
	}
}

// =============================================================================
// Publish-Subscribe Roundtrip
// =============================================================================

func TestPublishSubscribeRoundtrip(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = "radiomux-test-pub"
	pubClient := connectTest(t, cfg)
	defer pubClient.Close() //nolint:errcheck // Test cleanup

	cfg.Broker.ClientID = "radiomux-test-sub"
	subClient := connectTest(t, cfg)
	defer subClient.Close() //nolint:errcheck // Test cleanup

	topic := "radiomux/test/roundtrip"
	expectedPayload := `{"mode":"FT8"}`
	received := make(chan string, 1)

	err := subClient.Subscribe(topic, 1, func(t string, payload []byte) error {
		received <- string(payload)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	// Give subscription time to register
	time.Sleep(100 * time.Millisecond)

	if err := pubClient.Publish(topic, []byte(expectedPayload), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case payload := <-received:
		if payload != expectedPayload {
			t.Errorf("Received payload = %q, want %q", payload, expectedPayload)
		}
	case <-time.After(5 * time.Second):
		t.Error("Timeout waiting for message")
	}
}

func TestWildcardSubscription(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = "radiomux-test-wild-pub"
	pubClient := connectTest(t, cfg)
	defer pubClient.Close() //nolint:errcheck // Test cleanup

	cfg.Broker.ClientID = "radiomux-test-wild-sub"
	subClient := connectTest(t, cfg)
	defer subClient.Close() //nolint:errcheck // Test cleanup

	pattern := Topics{}.AllSourceStates()
	var receivedMu sync.Mutex
	receivedTopics := make(map[string]bool)

	err := subClient.Subscribe(pattern, 1, func(topic string, payload []byte) error {
		receivedMu.Lock()
		receivedTopics[topic] = true
		receivedMu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	topics := []string{
		Topics{}.SourceState("rtl0"),
		Topics{}.SourceState("airspy0"),
		Topics{}.SourceState("hackrf0"),
	}

	for _, topic := range topics {
		if err := pubClient.Publish(topic, []byte(`{"available":true}`), 1, false); err != nil {
			t.Fatalf("Publish(%s) error = %v", topic, err)
		}
	}

	time.Sleep(500 * time.Millisecond)

	receivedMu.Lock()
	defer receivedMu.Unlock()

	for _, topic := range topics {
		if !receivedTopics[topic] {
			t.Errorf("Did not receive message for topic %s", topic)
		}
	}
}

func TestStatusPayload(t *testing.T) {
	var got struct {
		Status    string `json:"status"`
		ClientID  string `json:"client_id"`
		Reason    string `json:"reason"`
		Timestamp string `json:"timestamp"`
	}

	t.Run("offline carries a reason", func(t *testing.T) {
		payload := statusPayload("radiomux-rx1", statusOffline, reasonShutdown)
		if err := json.Unmarshal(payload, &got); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if got.Status != "offline" || got.ClientID != "radiomux-rx1" || got.Reason != "graceful_shutdown" {
			t.Errorf("payload = %s, want offline/radiomux-rx1/graceful_shutdown", payload)
		}
		if _, err := time.Parse(time.RFC3339, got.Timestamp); err != nil {
			t.Errorf("timestamp %q not RFC3339: %v", got.Timestamp, err)
		}
	})

	t.Run("online omits the reason field", func(t *testing.T) {
		payload := statusPayload("radiomux-rx1", statusOnline, "")
		if bytes.Contains(payload, []byte("reason")) {
			t.Errorf("online payload carries a reason: %s", payload)
		}
	})
}

// =============================================================================
// Topics Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name: "Spot",
			builder: func() string {
				return Topics{}.Spot("FT8")
			},
			expected: "radiomux/spots/FT8",
		},
		{
			name: "SpotIngest",
			builder: func() string {
				return Topics{}.SpotIngest()
			},
			expected: "radiomux/ingest/spots",
		},
		{
			name: "SourceState",
			builder: func() string {
				return Topics{}.SourceState("rtl0")
			},
			expected: "radiomux/sources/rtl0/state",
		},
		{
			name: "SystemStatus",
			builder: func() string {
				return Topics{}.SystemStatus()
			},
			expected: "radiomux/system/status",
		},
		{
			name: "AllSpots",
			builder: func() string {
				return Topics{}.AllSpots()
			},
			expected: "radiomux/spots/+",
		},
		{
			name: "AllSourceStates",
			builder: func() string {
				return Topics{}.AllSourceStates()
			},
			expected: "radiomux/sources/+/state",
		},
		{
			name: "AllTopics",
			builder: func() string {
				return Topics{}.AllTopics()
			},
			expected: "radiomux/#",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.builder()
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, result, tt.expected)
			}
		})
	}
}

// =============================================================================
// Edge Case Tests
// =============================================================================

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}

	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
}

func TestMultipleSubscriptions(t *testing.T) {
	client := connectTest(t, testConfig())
	defer client.Close() //nolint:errcheck // Test cleanup

	topics := []string{
		"radiomux/test/topic1",
		"radiomux/test/topic2",
		"radiomux/test/topic3",
	}

	handler := func(string, []byte) error { return nil }

	for _, topic := range topics {
		if err := client.Subscribe(topic, 1, handler); err != nil {
			t.Fatalf("Subscribe(%s) error = %v", topic, err)
		}
	}

	if client.SubscriptionCount() != 3 {
		t.Errorf("SubscriptionCount() = %d, want 3", client.SubscriptionCount())
	}

	for _, topic := range topics {
		if !client.HasSubscription(topic) {
			t.Errorf("HasSubscription(%s) = false, want true", topic)
		}
	}
}

func TestHandlerReturnsError(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = "radiomux-test-handler-err"
	client := connectTest(t, cfg)
	defer client.Close() //nolint:errcheck // Test cleanup

	topic := "radiomux/test/handler-error"
	handlerCalled := make(chan struct{}, 1)

	err := client.Subscribe(topic, 1, func(t string, p []byte) error {
		handlerCalled <- struct{}{}
		return errors.New("handler error")
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if err := client.Publish(topic, []byte("test"), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case <-handlerCalled:
	case <-time.After(2 * time.Second):
		t.Error("Handler was not called")
	}
}
