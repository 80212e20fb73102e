package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/barcarate/internal/adapters/mq/queue"
	"github.com/okian/barcarate/internal/adapters/mq/worker"
	"github.com/okian/barcarate/internal/adapters/repository"
	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/scoring"
	logging "github.com/okian/barcarate/pkg/logger"
)

type stubEvaluator struct {
	mu     sync.Mutex
	fail   map[string]error
	delay  time.Duration
	called int
}

func (s *stubEvaluator) Evaluate(ctx context.Context, c model.Player) (scoring.Breakdown, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called++
	if err, ok := s.fail[c.Name]; ok {
		return scoring.Breakdown{}, err
	}
	return scoring.Breakdown{Candidate: c, FinalRating: c.Rating / 10, Recommendation: "Good Signing", RosterVersion: "v1"}, nil
}

type recordingUpdater struct {
	mu   sync.Mutex
	got  []repository.Candidate
	fail error
}

func (u *recordingUpdater) UpdateBest(ctx context.Context, c repository.Candidate) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.fail != nil {
		return false, u.fail
	}
	u.got = append(u.got, c)
	return true, nil
}

func (u *recordingUpdater) len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.got)
}

type outcome struct {
	id  string
	ok  bool
	err error
}

type recordingReporter struct {
	mu  sync.Mutex
	out []outcome
}

func (r *recordingReporter) Report(ctx context.Context, s model.Submission, b *scoring.Breakdown, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, outcome{id: s.ID, ok: b != nil && err == nil, err: err})
}

func (r *recordingReporter) snapshot() []outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]outcome(nil), r.out...)
}

func submission(id, name string, rating float64) model.Submission {
	return model.Submission{ID: id, Candidate: model.Player{Name: name, Rating: rating, Position: model.ST, Age: 24}}
}

func TestWorker(t *testing.T) {
	convey.Convey("Given an initialized logger and a worker", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)

		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		eval := &stubEvaluator{fail: map[string]error{
			"Pedri": fmt.Errorf("wrap: %w", scoring.ErrExistingPlayer),
		}}
		upd := &recordingUpdater{}
		rep := &recordingReporter{}
		w := worker.NewInMemoryWorker(q, eval, upd, worker.WithName("w-test"), worker.WithReporter(rep))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("Successful evaluations reach the shortlist", func() {
			convey.So(q.Enqueue(ctx, submission("s1", "Nico Williams", 84)), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, submission("s2", "Pedri", 88)), convey.ShouldBeNil)
			_ = q.Close()

			convey.So(w.Shutdown(withTimeout(t)), convey.ShouldBeNil)

			convey.So(upd.len(), convey.ShouldEqual, 1)
			convey.So(upd.got[0].Name, convey.ShouldEqual, "Nico Williams")
			convey.So(upd.got[0].SubmissionID, convey.ShouldEqual, "s1")
			convey.So(upd.got[0].FinalRating, convey.ShouldEqual, 8.4)
			convey.So(upd.got[0].RosterVersion, convey.ShouldEqual, "v1")

			out := rep.snapshot()
			convey.So(len(out), convey.ShouldEqual, 2)
			convey.So(out[0], convey.ShouldResemble, outcome{id: "s1", ok: true})
			convey.So(out[1].ok, convey.ShouldBeFalse)
			convey.So(errors.Is(out[1].err, scoring.ErrExistingPlayer), convey.ShouldBeTrue)
		})

		convey.Convey("Shortlist failures are reported", func() {
			upd.fail = errors.New("store down")
			convey.So(q.Enqueue(ctx, submission("s3", "Baena", 80)), convey.ShouldBeNil)
			_ = q.Close()
			convey.So(w.Shutdown(withTimeout(t)), convey.ShouldBeNil)

			out := rep.snapshot()
			convey.So(len(out), convey.ShouldEqual, 1)
			convey.So(out[0].ok, convey.ShouldBeFalse)
		})

		convey.Convey("Shutdown closes the queue and drains what is left", func() {
			for i := 0; i < 5; i++ {
				convey.So(q.Enqueue(ctx, submission(fmt.Sprintf("d%d", i), fmt.Sprintf("Drain %d", i), 75)), convey.ShouldBeNil)
			}
			convey.So(w.Shutdown(withTimeout(t)), convey.ShouldBeNil)

			convey.So(q.IsClosed(), convey.ShouldBeTrue)
			convey.So(upd.len(), convey.ShouldEqual, 5)
			convey.So(len(rep.snapshot()), convey.ShouldEqual, 5)
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)

		q := queue.NewInMemoryQueue(queue.WithCapacity(200))
		eval := &stubEvaluator{}
		upd := &recordingUpdater{}
		pool := worker.NewPool(4, q, eval, upd)
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		ctx := context.Background()
		pool.Start(ctx)

		convey.Convey("Shutdown drains every queued submission", func() {
			for i := 0; i < 100; i++ {
				convey.So(q.Enqueue(ctx, submission(fmt.Sprintf("s%d", i), fmt.Sprintf("Player %d", i), 70)), convey.ShouldBeNil)
			}
			convey.So(pool.Shutdown(withTimeout(t)), convey.ShouldBeNil)
			convey.So(upd.len(), convey.ShouldEqual, 100)
			convey.So(q.IsClosed(), convey.ShouldBeTrue)
		})
	})

	convey.Convey("A default pool scales with CPUs", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), &stubEvaluator{}, &recordingUpdater{})
		convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
	})

	convey.Convey("A slow drain times out", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)
		q := queue.NewInMemoryQueue(queue.WithCapacity(50))
		pool := worker.NewPool(1, q, &stubEvaluator{delay: 20 * time.Millisecond}, &recordingUpdater{})
		ctx := context.Background()
		pool.Start(ctx)
		for i := 0; i < 50; i++ {
			_ = q.Enqueue(ctx, submission(fmt.Sprintf("s%d", i), fmt.Sprintf("Slow %d", i), 70))
		}

		short, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
		defer cancel()
		convey.So(pool.Shutdown(short), convey.ShouldNotBeNil)
	})

	convey.Convey("A slow standalone worker stops when shutdown times out", t, func() {
		convey.So(logging.Init(), convey.ShouldBeNil)
		q := queue.NewInMemoryQueue(queue.WithCapacity(50))
		upd := &recordingUpdater{}
		w := worker.NewInMemoryWorker(q, &stubEvaluator{delay: 20 * time.Millisecond}, upd)
		ctx := context.Background()
		go w.Run(ctx)
		for i := 0; i < 50; i++ {
			_ = q.Enqueue(ctx, submission(fmt.Sprintf("s%d", i), fmt.Sprintf("Slow %d", i), 70))
		}

		short, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
		defer cancel()
		convey.So(w.Shutdown(short), convey.ShouldNotBeNil)
		convey.So(upd.len(), convey.ShouldBeLessThan, 50)
	})
}

func withTimeout(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
