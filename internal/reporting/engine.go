package reporting

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Engine fans spot events out to registered reporters, filtered by mode.
//
// Reporters are held in registration order and each one is consulted per
// spot via SupportedModes. A failing or panicking reporter never blocks
// delivery to the others.
type Engine struct {
	reporters []Reporter
	logger    Logger

	stopped  atomic.Bool
	stopOnce sync.Once
}

// EngineOptions configures a new Engine.
type EngineOptions struct {
	// Reporters receive spots, in order. May be empty.
	Reporters []Reporter

	// Logger for delivery failures. Optional.
	Logger Logger
}

// NewEngine creates an engine over the given reporters.
func NewEngine(opts EngineOptions) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	reporters := make([]Reporter, len(opts.Reporters))
	copy(reporters, opts.Reporters)

	return &Engine{
		reporters: reporters,
		logger:    logger,
	}
}

// Spot validates the spot and delivers it to every reporter whose
// supported-mode set contains the spot's mode.
//
// A zero timestamp is filled with the current time. Returns ErrMissingMode
// for mode-less spots and ErrStopped after Stop; reporter-level failures are
// logged, not returned.
func (e *Engine) Spot(s Spot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if e.stopped.Load() {
		return ErrStopped
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}

	for _, r := range e.reporters {
		if !supportsMode(r, s.Mode) {
			continue
		}
		e.deliver(r, s)
	}
	return nil
}

// deliver hands one spot to one reporter, isolating errors and panics.
func (e *Engine) deliver(r Reporter, s Spot) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("reporter panicked",
				"mode", s.Mode,
				"panic", rec,
			)
		}
	}()

	if err := r.Spot(s); err != nil {
		e.logger.Warn("reporter rejected spot",
			"mode", s.Mode,
			"error", err,
		)
	}
}

// Stop stops every reporter exactly once, in registration order.
//
// Subsequent Spot calls return ErrStopped; subsequent Stop calls are no-ops
// returning nil.
func (e *Engine) Stop() error {
	var errs []error
	e.stopOnce.Do(func() {
		e.stopped.Store(true)
		for _, r := range e.reporters {
			if err := r.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("stopping reporter: %w", err))
			}
		}
	})
	return errors.Join(errs...)
}

// Len returns the number of registered reporters.
func (e *Engine) Len() int {
	return len(e.reporters)
}

// Process-wide engine. Constructed explicitly via Init, torn down via
// StopAll; a single mutex guards both so concurrent first callers observe
// one instance.
var (
	sharedMu sync.Mutex
	shared   *Engine
)

// Init returns the process-wide engine, constructing it from opts on first
// call. Later calls return the existing engine and ignore opts.
func Init(opts EngineOptions) *Engine {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = NewEngine(opts)
	}
	return shared
}

// Shared returns the process-wide engine, or false if Init has not run.
func Shared() (*Engine, bool) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	return shared, shared != nil
}

// StopAll stops the process-wide engine and forgets it, so a later Init
// starts fresh. Safe to call when no engine was ever initialised.
func StopAll() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		return nil
	}
	err := shared.Stop()
	shared = nil
	return err
}
