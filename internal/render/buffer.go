package render

// DrawBuffer is a worker's double-buffered draw-list. The back side holds one
// slot per cluster entity and is filled while the worker iterates; Publish
// compacts it into the front list that the presentation stage drains. A
// consumer that drains before Publish sees the previous frame's list whole.
type DrawBuffer struct {
	back  []DrawCommand
	valid []bool
	front []DrawCommand
	frame uint64
}

// NewDrawBuffer sizes the back side for n entities.
func NewDrawBuffer(n int) DrawBuffer {
	return DrawBuffer{
		back:  make([]DrawCommand, n),
		valid: make([]bool, n),
		front: make([]DrawCommand, 0, n),
	}
}

// Set writes the command for local slot i.
func (b *DrawBuffer) Set(i int, cmd DrawCommand) {
	b.back[i] = cmd
	b.valid[i] = true
}

// Clear drops slot i from the next published list.
func (b *DrawBuffer) Clear(i int) {
	b.valid[i] = false
}

// Publish makes the back slots the new front list, tagged with frame.
func (b *DrawBuffer) Publish(frame uint64) {
	b.front = b.front[:0]
	for i, ok := range b.valid {
		if ok {
			b.front = append(b.front, b.back[i])
		}
	}
	b.frame = frame
}

// Published returns the frame number of the front list.
func (b *DrawBuffer) Published() uint64 { return b.frame }

// CopyFront appends a copy of the front list to dst.
func (b *DrawBuffer) CopyFront(dst []DrawCommand) []DrawCommand {
	return append(dst, b.front...)
}
