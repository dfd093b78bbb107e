// Package worker runs training jobs off the trigger queue, outside the
// request-serving path.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/mq/queue"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/logger"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/metrics"
)

const shutdownTimeout = 30 * time.Second

// Runner executes one retrain cycle. Implemented by the app orchestrator,
// which owns the per-league state machine; the worker only supplies the
// goroutine.
type Runner interface {
	RunTraining(ctx context.Context, t queue.Trigger)
}

// Worker consumes triggers until its context is canceled.
type Worker struct {
	queue  queue.Queue
	runner Runner
	name   string
	done   chan struct{}
	logger logger.Logger
}

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name for log correlation.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// NewWorker creates a training worker.
func NewWorker(q queue.Queue, runner Runner, opts ...Option) *Worker {
	w := &Worker{
		queue:  q,
		runner: runner,
		name:   "trainer",
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.Get().Named(w.name)
	return w
}

// Run processes triggers until ctx is canceled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	triggers := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-triggers:
			if !ok {
				return
			}
			w.logger.Debug(ctx, "picked up retrain trigger",
				logger.Int("league", t.LeagueID),
				logger.String("request", t.RequestID),
			)
			start := time.Now()
			w.runner.RunTraining(ctx, t)
			metrics.ObserveTrainingDuration(float64(time.Since(start).Milliseconds()))
		}
	}
}

// Shutdown waits for the worker to finish its in-flight job.
func (w *Worker) Shutdown(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

// Pool runs a fixed set of training workers over one queue. One worker is
// usually enough; per-league exclusivity lives in the orchestrator, not
// here.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates count workers over the queue.
func NewPool(count int, q queue.Queue, runner Runner) *Pool {
	if count < 1 {
		count = 1
	}
	p := &Pool{
		workers: make([]*Worker, count),
		logger:  logger.Get().Named("trainer-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, runner, WithName("trainer-"+strconv.Itoa(i)))
	}
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "training workers started", logger.Int("count", len(p.workers)))
}

// Stop waits for in-flight jobs to finish, bounded by shutdownTimeout.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker did not stop cleanly", logger.Error(err))
		}
	}
}
