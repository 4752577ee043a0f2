// radiomux - headless SDR receiver core
//
// This is the main entry point for the radiomux application.
// radiomux keeps a set of SDR device proxies in lockstep with its
// configuration, derives health and profile views from them, and fans
// decoded spots out to the configured reporters (MQTT, SQLite, InfluxDB).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/radiomux/migrations"

	"github.com/nerrad567/radiomux/internal/eventlog"
	"github.com/nerrad567/radiomux/internal/feature"
	"github.com/nerrad567/radiomux/internal/infrastructure/config"
	"github.com/nerrad567/radiomux/internal/infrastructure/database"
	"github.com/nerrad567/radiomux/internal/infrastructure/influxdb"
	"github.com/nerrad567/radiomux/internal/infrastructure/logging"
	"github.com/nerrad567/radiomux/internal/infrastructure/mqtt"
	"github.com/nerrad567/radiomux/internal/props"
	"github.com/nerrad567/radiomux/internal/reporting"
	"github.com/nerrad567/radiomux/internal/source"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting radiomux",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Set up MQTT logging callbacks
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Seed the source configuration layer from config.yaml
	configLayer := props.NewLayer[source.Entry]()
	for id, entry := range cfg.SDRs {
		configLayer.Set(id, source.Entry(entry))
	}

	// Build the source pipeline: registry, health view, profile catalog
	detector := feature.NewDetector()
	svc, err := source.NewService(source.ServiceOptions{
		Config:   configLayer,
		Features: detector,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("creating source service: %w", err)
	}
	defer func() {
		log.Info("stopping sources")
		svc.StopAll()
		svc.Close()
	}()
	log.Info("source pipeline initialised",
		"configured", svc.Sources().Count(),
		"healthy", svc.Active().Len(),
	)

	// Persist source lifecycle events
	events, err := eventlog.New(eventlog.Options{DB: db, Logger: log})
	if err != nil {
		return fmt.Errorf("creating event log: %w", err)
	}
	events.Follow(svc.Sources())
	defer events.Close()

	// Publish retained source state and track availability
	stateSub := startStatePublisher(svc, mqttClient, influxClient, log)
	defer stateSub.Cancel()

	// Assemble the spot reporting engine from config
	engine, err := buildReportingEngine(cfg, mqttClient, db, influxClient, log)
	if err != nil {
		return fmt.Errorf("building reporting engine: %w", err)
	}
	defer func() {
		log.Info("stopping reporting engine")
		if stopErr := engine.Stop(); stopErr != nil {
			log.Error("error stopping reporters", "error", stopErr)
		}
	}()
	log.Info("reporting engine initialised", "reporters", engine.Len())

	// Accept spots from external decoders over MQTT
	topics := mqtt.Topics{}
	err = mqttClient.Subscribe(topics.SpotIngest(), byte(cfg.MQTT.QoS), func(_ string, payload []byte) error { // #nosec G115 -- validated 0-2 by config.Validate
		var s reporting.Spot
		if err := json.Unmarshal(payload, &s); err != nil {
			return fmt.Errorf("decoding spot: %w", err)
		}
		return engine.Spot(s)
	})
	if err != nil {
		return fmt.Errorf("subscribing to spot ingest: %w", err)
	}
	log.Info("spot ingest subscribed", "topic", topics.SpotIngest())

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order:
	// 1. Reporting engine
	// 2. State publisher and event log
	// 3. Source pipeline
	// 4. InfluxDB (if enabled)
	// 5. MQTT
	// 6. Database

	log.Info("radiomux stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses RADIOMUX_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("RADIOMUX_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// buildReportingEngine wires the enabled reporters to their infrastructure
// clients. A disabled InfluxDB connection is simply left out of the deps;
// config validation already rejects an InfluxDB reporter without it.
func buildReportingEngine(cfg *config.Config, mqttClient *mqtt.Client, db *database.DB, influxClient *influxdb.Client, log *logging.Logger) (*reporting.Engine, error) {
	deps := reporting.Deps{
		MQTT:   mqttClient,
		DB:     db,
		Logger: log,
	}
	if influxClient != nil {
		deps.Influx = influxClient
	}
	return reporting.FromConfig(cfg.Reporting, deps)
}

// sourceState is the retained per-source availability payload.
type sourceState struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Healthy bool   `json:"healthy"`
}

// startStatePublisher mirrors the health view onto retained MQTT state
// topics and records availability counts in InfluxDB when connected.
// Current sources are published immediately, then every health change
// batch updates the affected topics.
func startStatePublisher(svc *source.Service, client *mqtt.Client, influx *influxdb.Client, log *logging.Logger) *props.Subscription {
	topics := mqtt.Topics{}

	publish := func(id string, src source.Source, healthy bool) {
		state := sourceState{ID: id, Healthy: healthy}
		if src != nil {
			state.Name = src.Name()
		}
		payload, err := json.Marshal(state)
		if err != nil {
			log.Error("encoding source state", "id", id, "error", err)
			return
		}
		if err := client.PublishRetained(topics.SourceState(id), payload); err != nil {
			log.Warn("source state publish failed", "id", id, "error", err)
		}
	}

	for _, item := range svc.Active().Layer().Items() {
		publish(item.Key, item.Value, true)
	}

	return svc.Active().Layer().Watch(func(changes []props.Change[source.Source]) {
		for _, ch := range changes {
			if ch.Deleted {
				publish(ch.Key, nil, false)
			} else {
				publish(ch.Key, ch.Value, true)
			}
		}
		if influx != nil {
			influx.WriteHealthMetric(svc.Sources().Count(), svc.Active().Len())
		}
	})
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
