package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/radiomux/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second

	// disconnectQuiesceMs is how long Close waits for in-flight messages.
	disconnectQuiesceMs = 1000

	keepAlive = 60 * time.Second

	maxQoS = 2
)

// System status values published to Topics{}.SystemStatus.
const (
	statusOnline   = "online"
	statusOffline  = "offline"
	reasonShutdown = "graceful_shutdown"
	reasonCrash    = "unexpected_disconnect"
)

// buildClientOptions maps the config.yaml mqtt section onto paho options:
// broker URL, credentials, clean session, auto-reconnect backoff and the
// LWT that flags a crash on the status topic.
func buildClientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port))
	opts.SetClientID(cfg.Broker.ClientID)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	// No persistent broker session; subscriptions are restored by
	// handleConnect instead.
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(time.Duration(cfg.Reconnect.InitialDelay) * time.Second)
	opts.SetMaxReconnectInterval(time.Duration(cfg.Reconnect.MaxDelay) * time.Second)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)

	// The broker publishes this retained will if we drop without a clean
	// disconnect, so subscribers can tell a crash from a shutdown.
	opts.SetWill(Topics{}.SystemStatus(),
		string(statusPayload(cfg.Broker.ClientID, statusOffline, reasonCrash)), 1, true)

	return opts
}

// statusPayload builds the JSON body for system status messages. Reason is
// omitted for online announcements.
func statusPayload(clientID, status, reason string) []byte {
	body := struct {
		Status    string `json:"status"`
		ClientID  string `json:"client_id"`
		Reason    string `json:"reason,omitempty"`
		Timestamp string `json:"timestamp"`
	}{
		Status:    status,
		ClientID:  clientID,
		Reason:    reason,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	payload, _ := json.Marshal(body) //nolint:errcheck // fixed shape cannot fail
	return payload
}
