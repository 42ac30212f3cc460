package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/swarmloop/engine/internal/core/ecs"
	"github.com/swarmloop/engine/internal/core/shared"
	"github.com/swarmloop/engine/internal/render"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State is the scheduler lifecycle.
type State int32

const (
	StateCreated State = iota
	StateStarted
	StateRunning
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarted:
		return "started"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

var ErrAlreadyStarted = errors.New("scheduler already started")

type completion struct {
	worker int
	frame  uint64
}

// Scheduler runs one worker goroutine per cluster of the arena. The frame
// loop drives it with Dispatch, Await and Drain; workers never block on each
// other, only on their own tick channel and the guarded shared slots.
type Scheduler[S, G any] struct {
	arena     *ecs.Arena[S]
	partition ecs.Partition
	observer  Observer[S, G]
	shared    *shared.State[Slot[G]]
	clusters  []*Cluster[S, G]

	ticks []chan struct{} // cap 1, coalescing
	done  chan completion

	quit      chan struct{}
	quitOnce  sync.Once
	stopping  atomic.Bool
	state     atomic.Int32
	group     *errgroup.Group
	completed []uint64 // frame loop only

	log *zap.Logger
}

type schedulerOptions[S, G any] struct {
	log     *zap.Logger
	systems []func(c *Cluster[S, G])
}

// SchedulerOption configures a Scheduler.
type SchedulerOption[S, G any] func(*schedulerOptions[S, G])

// WithSchedulerLogger sets the scheduler logger. Clusters log through a child
// of it tagged with their id.
func WithSchedulerLogger[S, G any](log *zap.Logger) SchedulerOption[S, G] {
	return func(o *schedulerOptions[S, G]) { o.log = log }
}

// WithSystems registers extra systems on every cluster, after the built-in ones.
func WithSystems[S, G any](build func(c *Cluster[S, G])) SchedulerOption[S, G] {
	return func(o *schedulerOptions[S, G]) { o.systems = append(o.systems, build) }
}

// NewScheduler partitions arena into clusters and prepares their workers.
// Nothing runs until Start.
func NewScheduler[S, G any](arena *ecs.Arena[S], p ecs.Partition, observer Observer[S, G], opts ...SchedulerOption[S, G]) *Scheduler[S, G] {
	o := schedulerOptions[S, G]{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	n := p.Clusters()
	s := &Scheduler[S, G]{
		arena:     arena,
		partition: p,
		observer:  observer,
		ticks:     make([]chan struct{}, n),
		done:      make(chan completion, 4*n),
		quit:      make(chan struct{}),
		completed: make([]uint64, n),
		clusters:  make([]*Cluster[S, G], n),
		log:       o.log,
	}
	s.shared = shared.New(n, func(id int) Slot[G] {
		return Slot[G]{
			Draw:     render.NewDrawBuffer(p.Range(id).Len()),
			Counters: make(map[string]int64),
		}
	})
	for id := 0; id < n; id++ {
		s.ticks[id] = make(chan struct{}, 1)
		c := newCluster(id, arena.View(p.Range(id)), s.shared, s.log)
		c.Register(PrimeSystem[S, G]{})
		c.Register(UpdateSystem[S, G]{observer: observer})
		c.Register(AnimateSystem[S, G]{})
		c.Register(SnapshotSystem[S, G]{})
		c.Register(PublishSystem[S, G]{})
		for _, build := range o.systems {
			build(c)
		}
		s.clusters[id] = c
	}
	return s
}

func (s *Scheduler[S, G]) State() State { return State(s.state.Load()) }

// Clusters returns the number of workers.
func (s *Scheduler[S, G]) Clusters() int { return len(s.clusters) }

// Cluster returns worker id's cluster. Only safe to touch from that worker,
// or from the caller before Start and after Stop.
func (s *Scheduler[S, G]) Cluster(id int) *Cluster[S, G] { return s.clusters[id] }

// Shared returns the guarded per-worker slots.
func (s *Scheduler[S, G]) Shared() *shared.State[Slot[G]] { return s.shared }

// Start spawns the workers and blocks until every cluster's OnStart returned.
// Start errors are joined; on failure the workers are stopped before Start
// returns.
func (s *Scheduler[S, G]) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateStarted)) {
		return ErrAlreadyStarted
	}
	g, gctx := errgroup.WithContext(ctx)
	s.group = g

	started := make(chan error, len(s.clusters))
	for _, c := range s.clusters {
		g.Go(func() error {
			if err := s.observer.OnStart(c); err != nil {
				err = fmt.Errorf("cluster %d start: %w", c.id, err)
				started <- err
				return err
			}
			started <- nil
			return s.work(gctx, c)
		})
	}

	var errs []error
	for range s.clusters {
		if err := <-started; err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.Stop()
		return err
	}
	s.state.Store(int32(StateRunning))
	s.log.Info("workers started",
		zap.Int("clusters", len(s.clusters)),
		zap.Int("capacity", s.arena.Capacity()),
		zap.Int("systems", s.clusters[0].runner.Len()),
	)
	return nil
}

func (s *Scheduler[S, G]) work(ctx context.Context, c *Cluster[S, G]) error {
	tick := s.ticks[c.id]
	for {
		if s.stopping.Load() {
			return nil
		}
		select {
		case <-s.quit:
			return nil
		case <-ctx.Done():
			return nil
		case <-tick:
		}

		c.runner.Tick(c)

		select {
		case s.done <- completion{worker: c.id, frame: c.engine.Frame}:
		case <-s.quit:
			return nil
		}
	}
}

// Dispatch injects fc into every worker slot and signals the workers. A
// worker that still has an unconsumed tick keeps it; it will prime itself
// with the newest context and the summed duration of every frame it missed.
func (s *Scheduler[S, G]) Dispatch(fc FrameContext[G]) {
	fc.Clusters = len(s.clusters)
	for id := range s.clusters {
		shared.Catch(s.shared, id, fc, setContext[G])
	}
	for _, tick := range s.ticks {
		select {
		case tick <- struct{}{}:
		default:
		}
	}
}

func setContext[G any](fc FrameContext[G], sl *Slot[G]) {
	sl.Context = fc
	sl.Pending += fc.FrameDuration
}

// Await is the frame barrier. It returns once every worker has completed
// frame, the timeout elapsed, or ctx is done. Workers that had not completed
// frame are returned in ascending order; they are not waited for. A timeout
// <= 0 waits without limit.
func (s *Scheduler[S, G]) Await(ctx context.Context, frame uint64, timeout time.Duration) []int {
	pending := 0
	for _, f := range s.completed {
		if f < frame {
			pending++
		}
	}

	var expired <-chan time.Time
	if timeout > 0 && pending > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

wait:
	for pending > 0 {
		select {
		case d := <-s.done:
			before := s.completed[d.worker]
			if d.frame > before {
				s.completed[d.worker] = d.frame
			}
			if before < frame && d.frame >= frame {
				pending--
			}
		case <-expired:
			break wait
		case <-ctx.Done():
			break wait
		}
	}

	var lagging []int
	for id, f := range s.completed {
		if f < frame {
			lagging = append(lagging, id)
		}
	}
	return lagging
}

// Completed returns the last frame worker id reported.
func (s *Scheduler[S, G]) Completed(id int) uint64 { return s.completed[id] }

// Drain copies every worker's published draw list into dst, one list per
// worker in id order, and moves the worker counters into totals (which may be
// nil to discard them). Lagging workers contribute the list they published
// last.
func (s *Scheduler[S, G]) Drain(dst *render.Frame, totals map[string]int64) {
	dst.Reset(dst.Number, len(s.clusters))
	shared.CatchMutAll(s.shared, drain{dst, totals}, drainSlot[G])
}

type drain struct {
	frame  *render.Frame
	totals map[string]int64
}

func drainSlot[G any](id int, d drain, sl *Slot[G]) {
	d.frame.Lists[id] = sl.Draw.CopyFront(d.frame.Lists[id])
	for k, v := range sl.Counters {
		if d.totals != nil {
			d.totals[k] += v
		}
		delete(sl.Counters, k)
	}
}

// Snapshot appends the entity records the workers published for frame. The
// second result is false when some worker has not published that frame yet.
func (s *Scheduler[S, G]) Snapshot(frame uint64, dst []ecs.Record) ([]ecs.Record, bool) {
	complete := true
	shared.CatchMutAll(s.shared, frame, func(_ int, f uint64, sl *Slot[G]) {
		if sl.RecordsFrame != f {
			complete = false
			return
		}
		dst = append(dst, sl.Records...)
	})
	return dst, complete
}

// Stop raises the shutdown flag, wakes idle workers and waits for all of
// them to return. Workers finish the tick they are in. Stop is idempotent.
func (s *Scheduler[S, G]) Stop() error {
	switch s.State() {
	case StateCreated:
		s.state.Store(int32(StateStopped))
		return nil
	case StateStopped:
		return nil
	}
	s.state.Store(int32(StateShuttingDown))
	s.stopping.Store(true)
	s.quitOnce.Do(func() { close(s.quit) })
	err := s.group.Wait()
	s.state.Store(int32(StateStopped))
	return err
}

// Arena returns the entity storage. The frame loop may only read it after
// Stop returned.
func (s *Scheduler[S, G]) Arena() *ecs.Arena[S] { return s.arena }

// Partition returns the cluster layout.
func (s *Scheduler[S, G]) Partition() ecs.Partition { return s.partition }
