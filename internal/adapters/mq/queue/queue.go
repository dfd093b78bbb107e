// Package queue defines the contract for handing retrain triggers from the
// ingest path to the training workers. Training must never run inline with a
// user-facing request, so the hand-off is a bounded in-memory queue.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/metrics"
)

// Trigger asks the training workers to retrain one league.
type Trigger struct {
	LeagueID   int
	RequestID  string // for log correlation
	EnqueuedAt time.Time
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a trigger. Returns false when the queue is full or
	// closed; the trigger is dropped and the next ingest for the league
	// schedules a fresh one.
	Enqueue(ctx context.Context, t Trigger) bool

	// Dequeue returns a channel delivering triggers until the queue closes.
	Dequeue(ctx context.Context) <-chan Trigger

	// Len returns the number of waiting triggers.
	Len() int

	// Close stops the queue; the dequeue channel drains and closes.
	Close() error
}

const defaultCapacity = 1024

// InMemoryQueue implements Queue over a buffered channel.
type InMemoryQueue struct {
	triggers chan Trigger
	mu       sync.RWMutex
	closed   bool
}

// Option applies a configuration option to the InMemoryQueue.
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity bounds the number of waiting triggers.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewInMemoryQueue creates a bounded trigger queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	cfg := config{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &InMemoryQueue{triggers: make(chan Trigger, cfg.capacity)}
}

// Enqueue adds a trigger without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Trigger) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	select {
	case q.triggers <- t:
		metrics.UpdateTrainQueueSize(len(q.triggers))
		return true
	case <-ctx.Done():
		return false
	default:
		return false
	}
}

// Dequeue returns a channel delivering triggers.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Trigger {
	out := make(chan Trigger)
	go func() {
		defer close(out)
		for t := range q.triggers {
			select {
			case out <- t:
				metrics.UpdateTrainQueueSize(len(q.triggers))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of waiting triggers.
func (q *InMemoryQueue) Len() int {
	return len(q.triggers)
}

// Close stops the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.triggers)
	q.closed = true
	return nil
}
