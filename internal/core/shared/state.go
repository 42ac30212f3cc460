package shared

import "sync"

// State is a fixed array of per-thread slots, each behind its own lock.
// Accesses to different slots never contend; accesses to one slot are
// strictly serialized.
//
// Lock ordering: an operation that holds more than one slot acquires them in
// ascending id order and releases them in descending order. CatchMutAll is
// the only such operation; every other operation holds at most one slot, so
// no cycle of waiters can form.
type State[L any] struct {
	cells []cell[L]
}

type cell[L any] struct {
	mu   sync.Mutex
	data L
	_    [64]byte // keep neighbouring locks off one cache line
}

// New creates n slots, initialising slot id with init(id). A nil init leaves
// zero values.
func New[L any](n int, init func(id int) L) *State[L] {
	s := &State[L]{cells: make([]cell[L], n)}
	if init != nil {
		for i := range s.cells {
			s.cells[i].data = init(i)
		}
	}
	return s
}

// Len returns the number of slots.
func (s *State[L]) Len() int { return len(s.cells) }

// Write applies fn to slot id under its guard.
func Write[L any](s *State[L], id int, fn func(l *L)) {
	c := &s.cells[id]
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.data)
}

// Catch combines v into slot id under its guard.
func Catch[L, V any](s *State[L], id int, v V, fn func(v V, l *L)) {
	c := &s.cells[id]
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(v, &c.data)
}

// CatchMut combines v into slot id under its guard, scoped to one entity
// index of the slot's owner.
func CatchMut[L, V any](s *State[L], id, index int, v V, fn func(index int, v V, l *L)) {
	c := &s.cells[id]
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(index, v, &c.data)
}

// CatchMutAll holds every slot, acquired in ascending id order, and applies
// fn to each in the same order. The caller observes all slots at one instant.
func CatchMutAll[L, V any](s *State[L], v V, fn func(id int, v V, l *L)) {
	for i := range s.cells {
		s.cells[i].mu.Lock()
	}
	defer func() {
		for i := len(s.cells) - 1; i >= 0; i-- {
			s.cells[i].mu.Unlock()
		}
	}()
	for i := range s.cells {
		fn(i, v, &s.cells[i].data)
	}
}

// Read returns a copy of slot id taken under its guard. The copy is shallow.
func Read[L any](s *State[L], id int) L {
	c := &s.cells[id]
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}
