package event

import "time"

// WorkerLagged is emitted when a worker missed the frame barrier and its
// previous draw-list was presented instead.
type WorkerLagged struct {
	Frame     uint64
	Worker    int
	Published uint64 // frame of the list that was presented
}

// FrameOverrun is emitted when a frame took longer than the target tick.
type FrameOverrun struct {
	Frame    uint64
	Duration time.Duration
	Target   time.Duration
}

// CommandRejected is emitted when the presentation stage skipped a draw
// command it could not render.
type CommandRejected struct {
	Frame  uint64
	Worker int
	Index  int
	Err    error
}
