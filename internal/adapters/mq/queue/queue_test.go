package queue_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/mq/queue"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a bounded trigger queue", t, func() {
		ctx := context.Background()

		Convey("When triggers are enqueued within capacity", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			for i := 0; i < 4; i++ {
				ok := q.Enqueue(ctx, queue.Trigger{LeagueID: i + 1, EnqueuedAt: time.Now()})
				So(ok, ShouldBeTrue)
			}

			Convey("Then the length tracks the backlog", func() {
				So(q.Len(), ShouldEqual, 4)
			})

			Convey("And one more arrives", func() {
				ok := q.Enqueue(ctx, queue.Trigger{LeagueID: 99})

				Convey("Then it is rejected without blocking", func() {
					So(ok, ShouldBeFalse)
					So(q.Len(), ShouldEqual, 4)
				})
			})
		})

		Convey("When triggers are dequeued", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(8))
			So(q.Enqueue(ctx, queue.Trigger{LeagueID: 1, RequestID: "a"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Trigger{LeagueID: 2, RequestID: "b"}), ShouldBeTrue)

			out := q.Dequeue(ctx)

			Convey("Then they arrive in order", func() {
				first := <-out
				second := <-out
				So(first.RequestID, ShouldEqual, "a")
				So(second.RequestID, ShouldEqual, "b")
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue()
			So(q.Enqueue(ctx, queue.Trigger{LeagueID: 1}), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue is refused", func() {
				So(q.Enqueue(ctx, queue.Trigger{LeagueID: 2}), ShouldBeFalse)
			})

			Convey("Then the dequeue channel drains and closes", func() {
				out := q.Dequeue(ctx)
				t, ok := <-out
				So(ok, ShouldBeTrue)
				So(t.LeagueID, ShouldEqual, 1)
				_, ok = <-out
				So(ok, ShouldBeFalse)
			})

			Convey("Then closing again is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the consumer context is canceled", func() {
			q := queue.NewInMemoryQueue()
			cancelCtx, cancel := context.WithCancel(ctx)
			out := q.Dequeue(cancelCtx)
			So(q.Enqueue(ctx, queue.Trigger{LeagueID: 1}), ShouldBeTrue)
			<-out
			cancel()
			So(q.Enqueue(ctx, queue.Trigger{LeagueID: 2}), ShouldBeTrue)

			Convey("Then the channel closes instead of delivering", func() {
				select {
				case _, ok := <-out:
					So(ok, ShouldBeFalse)
				case <-time.After(time.Second):
					So("timeout waiting for close", ShouldBeEmpty)
				}
			})
		})
	})
}
