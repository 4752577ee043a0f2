package reporting

import (
	"fmt"

	"github.com/nerrad567/radiomux/internal/infrastructure/config"
	"github.com/nerrad567/radiomux/internal/infrastructure/database"
)

// Deps carries the infrastructure clients reporters attach to. Only the
// clients for enabled reporters need to be set.
type Deps struct {
	MQTT   Publisher
	DB     *database.DB
	Influx PointWriter
	Logger Logger
}

// FromConfig assembles an engine with the reporters enabled in the
// reporting section of config.yaml, in a fixed order: MQTT, spot log,
// InfluxDB. An enabled reporter whose client is missing from deps fails
// construction with ErrMissingDependency.
func FromConfig(cfg config.ReportingConfig, deps Deps) (*Engine, error) {
	var reporters []Reporter

	if cfg.MQTT.Enabled {
		r, err := NewMQTTReporter(MQTTReporterOptions{
			Publisher: deps.MQTT,
			QoS:       byte(cfg.MQTT.QoS), // #nosec G115 -- validated 0-2 by config.Validate
			Modes:     cfg.MQTT.Modes,
		})
		if err != nil {
			return nil, fmt.Errorf("mqtt reporter: %w", err)
		}
		reporters = append(reporters, r)
	}

	if cfg.SpotLog.Enabled {
		r, err := NewSpotLog(SpotLogOptions{
			DB:    deps.DB,
			Modes: cfg.SpotLog.Modes,
		})
		if err != nil {
			return nil, fmt.Errorf("spot log: %w", err)
		}
		reporters = append(reporters, r)
	}

	if cfg.InfluxDB.Enabled {
		r, err := NewInfluxReporter(InfluxReporterOptions{
			Writer: deps.Influx,
			Modes:  cfg.InfluxDB.Modes,
		})
		if err != nil {
			return nil, fmt.Errorf("influxdb reporter: %w", err)
		}
		reporters = append(reporters, r)
	}

	return NewEngine(EngineOptions{
		Reporters: reporters,
		Logger:    deps.Logger,
	}), nil
}
