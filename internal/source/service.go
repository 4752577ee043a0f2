package source

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/nerrad567/radiomux/internal/props"
)

// Service is the process-wide composition of the three pipeline stages.
//
// The stages are constructed lazily: the first accessor call builds
// Registry → HealthView → ProfileCatalog in order, and every later caller
// reuses the same instances. Initialization is guarded by a single mutex
// with a double-checked fast path, so concurrent first access constructs
// exactly once.
type Service struct {
	config   *props.Layer[Entry]
	features Availability
	logger   Logger

	mu    sync.Mutex
	ready atomic.Bool

	registry *Registry
	health   *HealthView
	profiles *ProfileCatalog
}

// ServiceOptions configures NewService.
type ServiceOptions struct {
	// Config is the watchable layer of source entries. Required.
	Config *props.Layer[Entry]

	// Features gates which source types can run on this host. Required.
	Features Availability

	// Logger for reconciliation events. Optional.
	Logger Logger
}

// NewService prepares the composition. The pipeline is not constructed until
// the first accessor call.
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Config == nil {
		return nil, errors.New("source: service requires a config layer")
	}
	if opts.Features == nil {
		return nil, errors.New("source: service requires a feature detector")
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Service{
		config:   opts.Config,
		features: opts.Features,
		logger:   logger,
	}, nil
}

// init constructs the pipeline once.
func (s *Service) init() {
	if s.ready.Load() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready.Load() {
		return
	}

	// NewRegistry cannot fail here: NewService validated the inputs.
	s.registry, _ = NewRegistry(RegistryOptions{
		Config:   s.config,
		Features: s.features,
		Logger:   s.logger,
	})
	s.health = NewHealthView(s.registry, s.logger)
	s.profiles = NewProfileCatalog(s.health)

	s.ready.Store(true)
	s.logger.Info("source service initialised", "sources", s.registry.Count())
}

// Sources returns the registry of all configured proxies.
func (s *Service) Sources() *Registry {
	s.init()
	return s.registry
}

// Active returns the health view of enabled-and-not-failed sources.
func (s *Service) Active() *HealthView {
	s.init()
	return s.health
}

// Profiles returns the id → display name catalog.
func (s *Service) Profiles() *ProfileCatalog {
	s.init()
	return s.profiles
}

// FirstSource returns some healthy source, or false when none are.
// The pick is arbitrary; callers must not rely on the order.
func (s *Service) FirstSource() (Source, bool) {
	s.init()
	for _, item := range s.health.Layer().Items() {
		return item.Value, true
	}
	return nil, false
}

// Source returns the healthy source for id, or false when it is absent.
func (s *Service) Source(id string) (Source, bool) {
	s.init()
	return s.health.Get(id)
}

// StopAll soft-stops every configured proxy, healthy or not, bypassing the
// health view. Stop is a pause, not teardown: the proxies stay registered.
func (s *Service) StopAll() {
	s.init()
	s.registry.Each(func(_ string, src Source) {
		src.Stop()
	})
}

// Close detaches the pipeline from its upstream layers. Proxies are left
// registered; call StopAll first for a quiet shutdown.
func (s *Service) Close() {
	if !s.ready.Load() {
		return
	}
	s.profiles.Close()
	s.health.Close()
	s.registry.Close()
}
