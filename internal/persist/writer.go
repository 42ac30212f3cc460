package persist

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/swarmloop/engine/internal/core/ecs"
	"github.com/swarmloop/engine/internal/core/timer"
	"go.uber.org/zap"
)

// SnapshotSaver stores entity snapshots.
type SnapshotSaver interface {
	Save(ctx context.Context, runID int64, frame uint64, rows []ecs.Record) ([]byte, error)
}

// SampleSaver stores frame pacing samples.
type SampleSaver interface {
	Insert(ctx context.Context, runID int64, s timer.Sample) error
}

type job struct {
	frame  uint64
	rows   []ecs.Record
	sample *timer.Sample
}

// Writer moves persistence off the frame loop. Snapshot and Sample never
// block: when the queue is full the job is dropped with a warning.
type Writer struct {
	runID     int64
	snapshots SnapshotSaver
	samples   SampleSaver
	timeout   time.Duration

	jobs      chan job
	done      chan struct{}
	closeOnce sync.Once
	started   atomic.Bool

	saved   atomic.Int64
	dropped atomic.Int64
	failed  atomic.Int64

	log *zap.Logger
}

func NewWriter(runID int64, snapshots SnapshotSaver, samples SampleSaver, queue int, log *zap.Logger) *Writer {
	if queue < 1 {
		queue = 1
	}
	return &Writer{
		runID:     runID,
		snapshots: snapshots,
		samples:   samples,
		timeout:   10 * time.Second,
		jobs:      make(chan job, queue),
		done:      make(chan struct{}),
		log:       log.With(zap.Int64("run", runID)),
	}
}

// Start launches the writer goroutine. Jobs queued before Close are written
// even after ctx is done; ctx only bounds each database call.
func (w *Writer) Start(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	go w.loop(context.WithoutCancel(ctx))
}

func (w *Writer) loop(ctx context.Context) {
	defer close(w.done)
	for j := range w.jobs {
		w.write(ctx, j)
	}
}

func (w *Writer) write(ctx context.Context, j job) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if j.sample != nil {
		if w.samples == nil {
			return
		}
		if err := w.samples.Insert(ctx, w.runID, *j.sample); err != nil {
			w.failed.Add(1)
			w.log.Warn("frame stats write failed", zap.Error(err))
		}
		return
	}

	if w.snapshots == nil {
		return
	}
	start := time.Now()
	digest, err := w.snapshots.Save(ctx, w.runID, j.frame, j.rows)
	if err != nil {
		w.failed.Add(1)
		w.log.Warn("snapshot write failed", zap.Uint64("frame", j.frame), zap.Error(err))
		return
	}
	w.saved.Add(1)
	w.log.Debug("snapshot saved",
		zap.Uint64("frame", j.frame),
		zap.Int("entities", len(j.rows)),
		zap.Binary("digest", digest),
		zap.Duration("took", time.Since(start)),
	)
}

func (w *Writer) enqueue(j job, what string) {
	select {
	case w.jobs <- j:
	default:
		n := w.dropped.Add(1)
		w.log.Warn("persistence queue full, dropped", zap.String("job", what), zap.Int64("dropped", n))
	}
}

// Snapshot queues rows for frame. The writer takes ownership of rows.
func (w *Writer) Snapshot(frame uint64, rows []ecs.Record) {
	w.enqueue(job{frame: frame, rows: rows}, "snapshot")
}

// Sample queues one pacing sample.
func (w *Writer) Sample(s timer.Sample) {
	w.enqueue(job{sample: &s}, "sample")
}

// Close stops accepting jobs and waits until the queued ones are written.
// No Snapshot or Sample call may happen after Close.
func (w *Writer) Close() {
	w.closeOnce.Do(func() { close(w.jobs) })
	if w.started.Load() {
		<-w.done
	}
}

// Saved, Dropped and Failed count snapshot writes, dropped jobs and failed
// writes so far.
func (w *Writer) Saved() int64   { return w.saved.Load() }
func (w *Writer) Dropped() int64 { return w.dropped.Load() }
func (w *Writer) Failed() int64  { return w.failed.Load() }
