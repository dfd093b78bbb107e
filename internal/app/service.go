// Package app provides the core business service wiring the rating,
// feature, training, and registry components behind the HTTP API.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/mq/queue"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/mq/worker"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/registry"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/repository"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/config"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/dedupe"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/logger"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/metrics"
)

// Service implements the API dependencies for the prediction system.
type Service struct {
	mu sync.RWMutex

	// Core components.
	store    repository.Store
	registry registry.Registry
	deduper  dedupe.Deduper
	queue    *queue.InMemoryQueue
	pool     *worker.Pool

	// Per-league retrain state, owned by the orchestrator.
	leagues sync.Map // league id -> *leagueState

	// Configuration.
	cfg            *config.Config
	predictTimeout time.Duration

	// State.
	started bool

	logger logger.Logger
	clock  func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the loaded process configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithStore sets the match/team record store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRegistry sets the model registry.
func WithRegistry(reg registry.Registry) Option {
	return func(s *Service) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the service clock, used by tests to pin training
// snapshot dates.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:   config.New(),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.predictTimeout = time.Duration(s.cfg.PredictTimeoutMS) * time.Millisecond
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.registry == nil {
		s.registry = registry.NewMemoryRegistry()
	}

	s.deduper = dedupe.New(dedupe.WithMaxSize(s.cfg.DedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.cfg.TrainQueueSize))
	s.pool = worker.NewPool(s.cfg.TrainWorkerCount, s.queue, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "prediction service started",
		logger.Int("train_workers", s.cfg.TrainWorkerCount),
		logger.Int("train_queue", s.cfg.TrainQueueSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping prediction service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "prediction service stopped")
}

// SeenAndRecord atomically checks and records an ingest idempotency key.
func (s *Service) SeenAndRecord(ctx context.Context, key string) bool {
	seen := s.deduper.SeenAndRecord(ctx, key)
	if seen {
		metrics.RecordMatchDuplicate()
	}
	return seen
}

// Unrecord releases an ingest idempotency key after a failed hand-off.
func (s *Service) Unrecord(ctx context.Context, key string) {
	s.deduper.Unrecord(ctx, key)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":       s.started,
		"train_workers": s.cfg.TrainWorkerCount,
	}
	if !s.started {
		return stats
	}

	teams, completed := s.store.Counts(context.Background())
	stats["teams"] = teams
	stats["completed_matches"] = completed
	stats["train_queue_length"] = s.queue.Len()
	stats["dedupe_size"] = s.deduper.Size()

	active := 0
	s.leagues.Range(func(_, v any) bool {
		if v.(*leagueState).published() {
			active++
		}
		return true
	})
	stats["trained_leagues"] = active

	metrics.UpdateStoreCounts(teams, completed)
	metrics.UpdateTrainQueueSize(s.queue.Len())
	metrics.UpdateActiveModels(active)
	return stats
}
