package engine

import (
	"github.com/swarmloop/engine/internal/core/ecs"
	"github.com/swarmloop/engine/internal/input"
	"github.com/swarmloop/engine/internal/render"
)

// FrameContext is everything a worker needs from the frame loop for one tick.
// It is copied into each worker's slot, so G should be a value type: maps and
// pointers inside it are shared by every worker.
type FrameContext[G any] struct {
	Frame         uint64
	FrameDuration uint64  // milliseconds
	DeltaTime     float64 // seconds
	Clusters      int
	Data          G
	Input         input.Snapshot
	Camera        render.Camera
	Screen        render.Screen
	Snapshot      bool // workers publish entity records this tick
}

// Slot is one worker's guarded cell in the shared state.
type Slot[G any] struct {
	// Context is written by the frame loop and read by the worker when it
	// primes itself.
	Context FrameContext[G]
	// Pending sums the FrameDuration of every context dispatched since the
	// worker last primed, so coalesced ticks lose no simulated time.
	Pending uint64
	// Draw is the worker's double-buffered draw-list.
	Draw render.DrawBuffer
	// Counters collects totals from any worker; the frame loop drains and
	// resets them once per frame.
	Counters map[string]int64
	// Records holds the last published snapshot and the frame it belongs to.
	Records      []ecs.Record
	RecordsFrame uint64
}

// Engine is a worker's private copy of the frame context plus its iteration
// cursor. Only the owning worker touches it.
type Engine[G any] struct {
	FrameContext[G]
	Thread int
	// Cursor is the arena index currently visited by Cluster.ForEach.
	Cursor int
}
