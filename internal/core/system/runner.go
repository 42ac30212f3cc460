package system

import "sort"

// Runner executes systems in phase order each tick. A Runner belongs to one
// worker and is not safe for concurrent use.
type Runner[C any] struct {
	systems []System[C]
	sorted  bool
}

func NewRunner[C any]() *Runner[C] {
	return &Runner[C]{
		systems: make([]System[C], 0, 8),
	}
}

func (r *Runner[C]) Register(s System[C]) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Len returns the number of registered systems.
func (r *Runner[C]) Len() int { return len(r.systems) }

func (r *Runner[C]) Tick(c C) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(c)
	}
}

func (r *Runner[C]) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
