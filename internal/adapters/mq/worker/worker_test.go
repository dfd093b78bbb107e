package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/mq/queue"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/mq/worker"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/logger"
)

func init() {
	_ = logger.Init()
}

// recordingRunner collects the triggers it was handed.
type recordingRunner struct {
	mu       sync.Mutex
	triggers []queue.Trigger
	done     chan struct{}
	want     int
}

func newRecordingRunner(want int) *recordingRunner {
	return &recordingRunner{done: make(chan struct{}), want: want}
}

func (r *recordingRunner) RunTraining(_ context.Context, t queue.Trigger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, t)
	if len(r.triggers) == r.want {
		close(r.done)
	}
}

func (r *recordingRunner) seen() []queue.Trigger {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]queue.Trigger, len(r.triggers))
	copy(out, r.triggers)
	return out
}

func TestWorker(t *testing.T) {
	Convey("Given a worker over a trigger queue", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		Reset(cancel)

		Convey("When triggers are enqueued", func() {
			q := queue.NewInMemoryQueue()
			runner := newRecordingRunner(2)
			w := worker.NewWorker(q, runner)
			go w.Run(ctx)

			So(q.Enqueue(ctx, queue.Trigger{LeagueID: 1, RequestID: "a"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Trigger{LeagueID: 2, RequestID: "b"}), ShouldBeTrue)

			Convey("Then the runner receives each exactly once", func() {
				select {
				case <-runner.done:
				case <-time.After(2 * time.Second):
				}
				seen := runner.seen()
				So(seen, ShouldHaveLength, 2)
				So(seen[0].RequestID, ShouldEqual, "a")
				So(seen[1].RequestID, ShouldEqual, "b")
			})
		})

		Convey("When the queue closes", func() {
			q := queue.NewInMemoryQueue()
			runner := newRecordingRunner(1)
			w := worker.NewWorker(q, runner)
			go w.Run(ctx)
			So(q.Close(), ShouldBeNil)

			Convey("Then shutdown completes promptly", func() {
				shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
				defer stop()
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool of training workers", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		Reset(cancel)

		Convey("When the pool drains a burst of triggers", func() {
			q := queue.NewInMemoryQueue()
			runner := newRecordingRunner(8)
			p := worker.NewPool(3, q, runner)
			p.Start(ctx)

			for i := 0; i < 8; i++ {
				So(q.Enqueue(ctx, queue.Trigger{LeagueID: i + 1}), ShouldBeTrue)
			}

			Convey("Then every trigger is processed exactly once", func() {
				select {
				case <-runner.done:
				case <-time.After(2 * time.Second):
				}
				seen := runner.seen()
				So(seen, ShouldHaveLength, 8)
				leagues := make(map[int]int)
				for _, tr := range seen {
					leagues[tr.LeagueID]++
				}
				So(leagues, ShouldHaveLength, 8)
			})

			Convey("Then stop returns after the queue closes", func() {
				So(q.Close(), ShouldBeNil)
				p.Stop()
			})
		})

		Convey("When created with a non-positive count", func() {
			q := queue.NewInMemoryQueue()
			p := worker.NewPool(0, q, newRecordingRunner(1))

			Convey("Then it still runs a single worker", func() {
				So(p, ShouldNotBeNil)
				p.Start(ctx)
				So(q.Close(), ShouldBeNil)
				p.Stop()
			})
		})
	})
}
