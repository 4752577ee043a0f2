package eventlog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/radiomux/internal/infrastructure/database"
	"github.com/nerrad567/radiomux/internal/props"
	"github.com/nerrad567/radiomux/internal/source"
)

// Event kinds recorded by the log.
const (
	EventAdded    = "added"
	EventRemoved  = "removed"
	EventFailed   = "failed"
	EventDisabled = "disabled"
	EventEnabled  = "enabled"
	EventShutdown = "shutdown"
)

// writeTimeout bounds each event insert. Lifecycle callbacks fire on
// arbitrary goroutines and carry no context of their own.
const writeTimeout = 5 * time.Second

// defaultListLimit caps List results when the caller passes limit <= 0.
const defaultListLimit = 100

// Event is one recorded source lifecycle event.
type Event struct {
	ID         int64
	SourceID   string
	Event      string
	Detail     string
	OccurredAt time.Time
}

// Logger is the logging interface used by this package.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Log records source lifecycle events in the source_events table.
//
// Follow attaches the log to a registry; Close detaches it. A Log that is
// never attached still accepts direct Record calls.
type Log struct {
	db     *database.DB
	logger Logger

	mu        sync.Mutex
	recorders map[string]*recorder

	sub *props.Subscription
}

// Options configures New.
type Options struct {
	// DB is the open database handle. Required. The source_events table
	// must exist; run migrations before constructing the log.
	DB *database.DB

	// Logger for dropped writes. Optional.
	Logger Logger
}

// New creates an event log backed by the given database.
func New(opts Options) (*Log, error) {
	if opts.DB == nil {
		return nil, ErrMissingDB
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Log{
		db:        opts.DB,
		logger:    logger,
		recorders: make(map[string]*recorder),
	}, nil
}

// Record inserts one event row.
func (l *Log) Record(ctx context.Context, sourceID, event, detail string) error {
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO source_events (source_id, event, detail, occurred_at) VALUES (?, ?, ?, ?)",
		sourceID, event, detail,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording %s event for %s: %w", event, sourceID, err)
	}
	return nil
}

// List returns recorded events, newest first. An empty sourceID returns
// events for all sources. A limit <= 0 uses the default cap.
func (l *Log) List(ctx context.Context, sourceID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := "SELECT id, source_id, event, detail, occurred_at FROM source_events"
	args := []any{}
	if sourceID != "" {
		query += " WHERE source_id = ?"
		args = append(args, sourceID)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying source events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var occurredAt string
		if err := rows.Scan(&e.ID, &e.SourceID, &e.Event, &e.Detail, &occurredAt); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		e.OccurredAt, _ = time.Parse(time.RFC3339, occurredAt) //nolint:errcheck // Format is controlled
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating source events: %w", err)
	}
	return events, nil
}

// Follow attaches the log to a registry: current sources are recorded as
// added, then installs, removals, and health transitions are recorded as
// they happen. Follow may be called at most once per Log.
func (l *Log) Follow(reg *source.Registry) {
	for _, item := range reg.Layer().Items() {
		l.add(item.Key, item.Value)
	}
	l.sub = reg.Layer().Watch(l.handleSourceChange)
}

// Close detaches the log from the registry and drops all recorders. The
// database handle is left open; the caller owns it.
func (l *Log) Close() {
	if l.sub != nil {
		l.sub.Cancel()
	}

	l.mu.Lock()
	recorders := l.recorders
	l.recorders = make(map[string]*recorder)
	l.mu.Unlock()

	for _, r := range recorders {
		r.detach()
	}
}

// write records an event on behalf of a callback that has no context.
func (l *Log) write(sourceID, event, detail string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := l.Record(ctx, sourceID, event, detail); err != nil {
		l.logger.Error("event write dropped", "source", sourceID, "event", event, "error", err)
	}
}

// handleSourceChange applies one registry change batch.
func (l *Log) handleSourceChange(changes []props.Change[source.Source]) {
	for _, ch := range changes {
		if ch.Deleted {
			l.remove(ch.Key)
		} else {
			l.add(ch.Key, ch.Value)
		}
	}
}

// add records the install and starts listening for health transitions. A
// replaced proxy's recorder is detached first so the key never carries two.
func (l *Log) add(key string, src source.Source) {
	r := &recorder{log: l, key: key, source: src}

	l.mu.Lock()
	if old := l.recorders[key]; old != nil {
		old.detach()
	}
	l.recorders[key] = r
	l.mu.Unlock()

	l.write(key, EventAdded, src.Name())
	src.AddListener(r)
}

// remove records the removal and drops the key's recorder.
func (l *Log) remove(key string) {
	l.mu.Lock()
	r := l.recorders[key]
	delete(l.recorders, key)
	l.mu.Unlock()

	if r != nil {
		r.detach()
	}
	l.write(key, EventRemoved, "")
}

// recorder translates one source's lifecycle callbacks into event rows.
type recorder struct {
	log    *Log
	key    string
	source source.Source

	detachOnce sync.Once
}

// detach removes the recorder from its source. Safe to call more than once.
func (r *recorder) detach() {
	r.detachOnce.Do(func() {
		r.source.RemoveListener(r)
	})
}

func (r *recorder) OnFail() {
	r.log.write(r.key, EventFailed, "")
}

func (r *recorder) OnDisable() {
	r.log.write(r.key, EventDisabled, "")
}

func (r *recorder) OnEnable() {
	r.log.write(r.key, EventEnabled, "")
}

func (r *recorder) OnShutdown() {
	r.log.write(r.key, EventShutdown, "")
}
