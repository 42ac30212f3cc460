package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swarmloop/engine/internal/core/ecs"
	"github.com/swarmloop/engine/internal/core/event"
	"github.com/swarmloop/engine/internal/core/timer"
	"github.com/swarmloop/engine/internal/input"
	"github.com/swarmloop/engine/internal/render"
	"go.uber.org/zap"
)

var ErrInvalidFPS = errors.New("target fps must be positive")

// Presenter is the single owner of the output surface. The frame loop hands
// it one immutable frame per tick.
type Presenter interface {
	// LoadTextures resolves asset paths into texture ids 0..n-1 in order.
	// Paths that cannot be resolved are skipped and do not take an id.
	LoadTextures(paths []string) (int, error)
	// Submit takes ownership of f. Commands the presenter cannot draw are
	// skipped and returned.
	Submit(f render.Frame) []render.Rejection
	// Input returns the device state for the coming tick.
	Input() input.Snapshot
	// Closed reports that the user asked to end the run.
	Closed() bool
}

// SnapshotSink receives entity records. rows belong to the sink.
type SnapshotSink interface {
	Snapshot(frame uint64, rows []ecs.Record)
}

// Scene describes what to load and how to fill the arena.
type Scene[S any] struct {
	Name     string
	Capacity int
	Assets   []string
	// Populate calls add for each initial entity. add reports false once the
	// arena is full.
	Populate func(add func(ecs.Entity[S]) bool)
}

// Config holds the frame loop tunables.
type Config struct {
	Clusters   int
	MaxWorkers int
	// BarrierTimeout bounds how long a frame waits for its workers. Zero
	// waits for every worker.
	BarrierTimeout time.Duration
	// SnapshotEvery requests entity records every n frames. Zero disables
	// periodic snapshots; the final snapshot is still taken.
	SnapshotEvery uint64
	Screen        render.Screen
}

// Stats summarizes a finished run.
type Stats struct {
	Frames   uint64
	Lagged   uint64
	Overruns uint64
	Rejected uint64
	Dropped  int // entities that did not fit the arena
	Textures int
}

// logEvery rate-limits repeated warnings from event handlers.
const logEvery = 100

// Renderer owns the frame loop: it drives the scheduler once per tick and
// hands drained frames to the presenter.
type Renderer[S, G any] struct {
	presenter Presenter
	cfg       Config
	data      G
	camera    render.Camera
	sink      SnapshotSink
	timerOpts []timer.Option
	schedOpts []SchedulerOption[S, G]
	log       *zap.Logger

	stats Stats
}

type RendererOption[S, G any] func(*Renderer[S, G])

func WithLogger[S, G any](log *zap.Logger) RendererOption[S, G] {
	return func(r *Renderer[S, G]) { r.log = log }
}

// WithData sets the initial game data carried in every frame context.
func WithData[S, G any](data G) RendererOption[S, G] {
	return func(r *Renderer[S, G]) { r.data = data }
}

func WithCamera[S, G any](cam render.Camera) RendererOption[S, G] {
	return func(r *Renderer[S, G]) { r.camera = cam }
}

func WithSnapshotSink[S, G any](sink SnapshotSink) RendererOption[S, G] {
	return func(r *Renderer[S, G]) { r.sink = sink }
}

// WithTimerOptions passes options to the frame timer (clock, sample sink).
func WithTimerOptions[S, G any](opts ...timer.Option) RendererOption[S, G] {
	return func(r *Renderer[S, G]) { r.timerOpts = append(r.timerOpts, opts...) }
}

// WithSchedulerOptions passes options to the scheduler.
func WithSchedulerOptions[S, G any](opts ...SchedulerOption[S, G]) RendererOption[S, G] {
	return func(r *Renderer[S, G]) { r.schedOpts = append(r.schedOpts, opts...) }
}

func NewRenderer[S, G any](p Presenter, cfg Config, opts ...RendererOption[S, G]) *Renderer[S, G] {
	r := &Renderer[S, G]{
		presenter: p,
		cfg:       cfg,
		camera:    render.NewCamera(),
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Stats returns the counters of the last Play.
func (r *Renderer[S, G]) Stats() Stats { return r.stats }

// Play loads scene, starts one worker per cluster and runs the frame loop
// until ctx is done or the presenter is closed. Startup failures are returned;
// a normal shutdown returns nil.
func (r *Renderer[S, G]) Play(ctx context.Context, scene *Scene[S], targetFPS int, observer Observer[S, G]) error {
	r.stats = Stats{}
	if targetFPS <= 0 {
		return fmt.Errorf("play %d fps: %w", targetFPS, ErrInvalidFPS)
	}

	textures, err := r.presenter.LoadTextures(scene.Assets)
	if err != nil {
		return fmt.Errorf("load textures: %w", err)
	}
	r.stats.Textures = textures
	if textures < len(scene.Assets) {
		r.log.Warn("unresolved assets skipped",
			zap.Int("assets", len(scene.Assets)),
			zap.Int("textures", textures),
		)
	}

	arena, err := ecs.NewArena[S](scene.Capacity, nil)
	if err != nil {
		return fmt.Errorf("scene %q: %w", scene.Name, err)
	}
	part, err := ecs.NewPartition(scene.Capacity, r.cfg.Clusters, r.cfg.MaxWorkers)
	if err != nil {
		return fmt.Errorf("scene %q: %w", scene.Name, err)
	}
	if scene.Populate != nil {
		scene.Populate(func(e ecs.Entity[S]) bool {
			if arena.Add(e) {
				return true
			}
			r.stats.Dropped++
			return false
		})
	}
	if r.stats.Dropped > 0 {
		r.log.Warn("entities beyond capacity dropped",
			zap.Int("capacity", scene.Capacity),
			zap.Int("dropped", r.stats.Dropped),
		)
	}

	opts := append([]SchedulerOption[S, G]{WithSchedulerLogger[S, G](r.log)}, r.schedOpts...)
	sched := NewScheduler(arena, part, observer, opts...)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}

	r.log.Info("scene loaded",
		zap.String("scene", scene.Name),
		zap.Int("entities", arena.Populated()),
		zap.Int("capacity", arena.Capacity()),
		zap.Int("clusters", part.Clusters()),
		zap.Int("textures", textures),
	)

	bus := event.NewBus()
	r.subscribe(bus)

	last := r.loop(ctx, sched, bus, targetFPS, observer)

	if err := sched.Stop(); err != nil {
		r.log.Error("worker shutdown", zap.Error(err))
	}
	if ender, ok := observer.(Ender[S, G]); ok {
		for id := 0; id < sched.Clusters(); id++ {
			ender.OnEnd(sched.Cluster(id))
		}
	}
	bus.SwapBuffers()
	bus.DispatchAll()

	if r.sink != nil {
		r.sink.Snapshot(last, arena.Records(nil))
	}
	r.log.Info("run finished",
		zap.Uint64("frames", r.stats.Frames),
		zap.Uint64("lagged", r.stats.Lagged),
		zap.Uint64("overruns", r.stats.Overruns),
		zap.Uint64("rejected", r.stats.Rejected),
	)
	return nil
}

// loop runs frames until shutdown and returns the last frame number.
func (r *Renderer[S, G]) loop(ctx context.Context, sched *Scheduler[S, G], bus *event.Bus, targetFPS int, observer Observer[S, G]) uint64 {
	tm := timer.New(targetFPS, append([]timer.Option{timer.WithLogger(r.log)}, r.timerOpts...)...)
	director, _ := observer.(FrameDirector[G])

	fc := FrameContext[G]{
		Data:   r.data,
		Camera: r.camera,
		Screen: r.cfg.Screen,
	}
	totals := make(map[string]int64)
	var (
		frame render.Frame
		rows  []ecs.Record
		n     uint64
	)

	for ctx.Err() == nil && !r.presenter.Closed() {
		n++
		bus.SwapBuffers()
		if p := bus.Pending(); p > 0 {
			r.log.Debug("dispatching frame events", zap.Uint64("frame", n), zap.Int("events", p))
		}
		bus.DispatchAll()

		fc.Frame = n
		fc.FrameDuration = tm.FrameDuration
		fc.DeltaTime = tm.DeltaTime
		if n == 1 {
			fc.FrameDuration = tm.Target()
			fc.DeltaTime = float64(tm.Target()) * 0.001
		}
		fc.Input = r.presenter.Input()
		fc.Snapshot = r.sink != nil && r.cfg.SnapshotEvery > 0 && n%r.cfg.SnapshotEvery == 0
		if director != nil {
			director.BeforeFrame(&fc, totals)
		}
		clear(totals)

		sched.Dispatch(fc)
		for _, id := range sched.Await(ctx, n, r.cfg.BarrierTimeout) {
			event.Emit(bus, event.WorkerLagged{Frame: n, Worker: id, Published: sched.Completed(id)})
		}

		frame.Number = n
		sched.Drain(&frame, totals)
		for _, rej := range r.presenter.Submit(frame.Clone()) {
			event.Emit(bus, event.CommandRejected{Frame: rej.Frame, Worker: rej.List, Index: rej.Index, Err: rej.Err})
		}

		if fc.Snapshot && r.sink != nil {
			var complete bool
			rows, complete = sched.Snapshot(n, rows[:0])
			if complete {
				r.sink.Snapshot(n, append([]ecs.Record(nil), rows...))
			} else {
				r.log.Debug("snapshot skipped, workers lagging", zap.Uint64("frame", n))
			}
		}

		tm.Sync()
		r.stats.Frames = n
		if tm.Overran() {
			event.Emit(bus, event.FrameOverrun{
				Frame:    n,
				Duration: time.Duration(tm.Cycle()) * time.Millisecond,
				Target:   time.Duration(tm.Target()) * time.Millisecond,
			})
		}
	}
	return n
}

func (r *Renderer[S, G]) subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(e event.WorkerLagged) {
		r.stats.Lagged++
		if r.stats.Lagged%logEvery == 1 {
			r.log.Warn("worker missed frame barrier",
				zap.Uint64("frame", e.Frame),
				zap.Int("worker", e.Worker),
				zap.Uint64("presented", e.Published),
				zap.Uint64("total", r.stats.Lagged),
			)
		}
	})
	event.Subscribe(bus, func(e event.FrameOverrun) {
		r.stats.Overruns++
		if r.stats.Overruns%logEvery == 1 {
			r.log.Warn("frame overran target",
				zap.Uint64("frame", e.Frame),
				zap.Duration("took", e.Duration),
				zap.Duration("target", e.Target),
				zap.Uint64("total", r.stats.Overruns),
			)
		}
	})
	event.Subscribe(bus, func(e event.CommandRejected) {
		r.stats.Rejected++
		if r.stats.Rejected%logEvery == 1 {
			r.log.Warn("draw command skipped",
				zap.Uint64("frame", e.Frame),
				zap.Int("worker", e.Worker),
				zap.Int("index", e.Index),
				zap.Error(e.Err),
				zap.Uint64("total", r.stats.Rejected),
			)
		}
	})
}
