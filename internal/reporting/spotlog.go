package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/radiomux/internal/infrastructure/database"
)

// writeTimeout bounds each spot insert so a locked database cannot stall
// the delivering goroutine indefinitely.
const writeTimeout = 5 * time.Second

// spotLogSchema is created on first use. Kept self-contained so the spot
// log works against a fresh database file without a migration step.
const spotLogSchema = `
CREATE TABLE IF NOT EXISTS spots (
    id           TEXT PRIMARY KEY,
    mode         TEXT NOT NULL,
    callsign     TEXT NOT NULL DEFAULT '',
    locator      TEXT NOT NULL DEFAULT '',
    frequency_hz INTEGER NOT NULL DEFAULT 0,
    snr_db       REAL NOT NULL DEFAULT 0,
    dt_seconds   REAL NOT NULL DEFAULT 0,
    message      TEXT NOT NULL DEFAULT '',
    source       TEXT NOT NULL DEFAULT '',
    spotted_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_spots_mode_time ON spots(mode, spotted_at);
CREATE INDEX IF NOT EXISTS idx_spots_callsign ON spots(callsign);
`

// SpotLog persists every matching spot to SQLite.
//
// The database handle is owned by the composition root; Stop does not
// close it.
type SpotLog struct {
	db    *database.DB
	modes []string
}

// SpotLogOptions configures a new SpotLog.
type SpotLogOptions struct {
	// DB is the open database handle. Required.
	DB *database.DB

	// Modes the log accepts. Defaults to the common digimodes.
	Modes []string
}

// NewSpotLog creates a SQLite-backed spot reporter, creating the spots
// table if it does not exist.
func NewSpotLog(opts SpotLogOptions) (*SpotLog, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("%w: database", ErrMissingDependency)
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if _, err := opts.DB.ExecContext(ctx, spotLogSchema); err != nil {
		return nil, fmt.Errorf("creating spot log schema: %w", err)
	}

	return &SpotLog{
		db:    opts.DB,
		modes: modesOrDefault(opts.Modes),
	}, nil
}

// Spot inserts one spot row.
func (r *SpotLog) Spot(s Spot) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO spots (id, mode, callsign, locator, frequency_hz, snr_db, dt_seconds, message, source, spotted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		s.Mode,
		s.Callsign,
		s.Locator,
		s.Frequency,
		s.SNR,
		s.DT,
		s.Message,
		s.Source,
		s.Timestamp.Unix(),
	)
	if err != nil {
		return fmt.Errorf("inserting spot: %w", err)
	}
	return nil
}

// SupportedModes returns the configured mode set.
func (r *SpotLog) SupportedModes() []string {
	return r.modes
}

// Stop is a no-op: the database is owned by the composition root.
func (r *SpotLog) Stop() error {
	return nil
}

// Count returns the number of persisted spots for a mode, or all spots if
// mode is empty.
func (r *SpotLog) Count(ctx context.Context, mode string) (int, error) {
	var (
		count int
		err   error
	)
	if mode == "" {
		err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM spots").Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM spots WHERE mode = ?", mode).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("counting spots: %w", err)
	}
	return count, nil
}
