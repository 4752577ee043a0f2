package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for radiomux.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Station   StationConfig             `yaml:"station"`
	Database  DatabaseConfig            `yaml:"database"`
	MQTT      MQTTConfig                `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig            `yaml:"influxdb"`
	Logging   LoggingConfig             `yaml:"logging"`
	Reporting ReportingConfig           `yaml:"reporting"`
	SDRs      map[string]map[string]any `yaml:"sdrs"`
}

// StationConfig identifies the receiving station.
type StationConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Locator  string `yaml:"locator"`
	Timezone string `yaml:"timezone"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ReportingConfig selects which spot reporters run and which modes they accept.
type ReportingConfig struct {
	MQTT     MQTTReporterConfig   `yaml:"mqtt"`
	SpotLog  SpotLogConfig        `yaml:"spotlog"`
	InfluxDB InfluxReporterConfig `yaml:"influxdb"`
}

// MQTTReporterConfig enables spot publishing to per-mode MQTT topics.
type MQTTReporterConfig struct {
	Enabled bool     `yaml:"enabled"`
	QoS     int      `yaml:"qos"`
	Modes   []string `yaml:"modes"`
}

// SpotLogConfig enables spot persistence to the SQLite database.
type SpotLogConfig struct {
	Enabled bool     `yaml:"enabled"`
	Modes   []string `yaml:"modes"`
}

// InfluxReporterConfig enables spot export to InfluxDB.
type InfluxReporterConfig struct {
	Enabled bool     `yaml:"enabled"`
	Modes   []string `yaml:"modes"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: RADIOMUX_SECTION_KEY
// For example: RADIOMUX_DATABASE_PATH, RADIOMUX_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Station: StationConfig{
			ID:       "station-001",
			Name:     "radiomux",
			Timezone: "UTC",
		},
		Database: DatabaseConfig{
			Path:        "./data/radiomux.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "radiomux",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Reporting: ReportingConfig{
			MQTT: MQTTReporterConfig{
				Enabled: true,
				QoS:     0,
			},
			SpotLog: SpotLogConfig{
				Enabled: true,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: RADIOMUX_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("RADIOMUX_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("RADIOMUX_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("RADIOMUX_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("RADIOMUX_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("RADIOMUX_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("RADIOMUX_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Station validation
	if c.Station.ID == "" {
		errs = append(errs, "station.id is required")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.Reporting.MQTT.QoS < 0 || c.Reporting.MQTT.QoS > 2 {
		errs = append(errs, "reporting.mqtt.qos must be 0, 1, or 2")
	}

	// InfluxDB validation (only when enabled)
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Token == "" {
			errs = append(errs, "influxdb.token is required when influxdb is enabled (set RADIOMUX_INFLUXDB_TOKEN)")
		}
	}
	if c.Reporting.InfluxDB.Enabled && !c.InfluxDB.Enabled {
		errs = append(errs, "reporting.influxdb requires influxdb to be enabled")
	}

	// SDR entries need at least a type and a name to be buildable
	for id, entry := range c.SDRs {
		if s, _ := entry["type"].(string); s == "" {
			errs = append(errs, fmt.Sprintf("sdrs.%s.type is required", id))
		}
		if s, _ := entry["name"].(string); s == "" {
			errs = append(errs, fmt.Sprintf("sdrs.%s.name is required", id))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
