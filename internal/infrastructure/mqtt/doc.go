// Package mqtt provides MQTT client connectivity for radiomux.
//
// This package manages:
//   - Connection to Mosquitto broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// radiomux uses MQTT as its outward-facing event bus: spots fan out to
// per-mode topics, source availability is published retained, and external
// decoders feed spots back in on the ingest topic.
//
//	decoders ──▶ radiomux/ingest/spots ──▶ radiomux core
//	radiomux core ──▶ radiomux/spots/<mode>, radiomux/sources/<id>/state
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Consume spots from external decoders
//	err = client.Subscribe(mqtt.Topics{}.SpotIngest(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish a source state update
//	topic := mqtt.Topics{}.SourceState("rtl0")
//	client.Publish(topic, []byte(`{"available":true}`), 1, true)
package mqtt
