package ecs

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCapacity     = errors.New("pool capacity must be positive")
	ErrInvalidClusterCount = errors.New("cluster count must be between 1 and the pool capacity")
	ErrTooManyClusters     = errors.New("more clusters than worker slots")
)

// Arena owns every entity for the lifetime of a run. Its capacity never
// changes and entities are never individually destroyed.
type Arena[S any] struct {
	entities []Entity[S]
	next     int // first slot Populate may fill
}

// NewArena allocates capacity slots. fill, when non-nil, is called for every
// slot; returning false leaves the slot empty and available to Populate.
func NewArena[S any](capacity int, fill func(i int) (Entity[S], bool)) (*Arena[S], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("new arena %d: %w", capacity, ErrInvalidCapacity)
	}
	a := &Arena[S]{entities: make([]Entity[S], capacity)}
	if fill != nil {
		for i := range a.entities {
			e, ok := fill(i)
			if !ok {
				continue
			}
			e.Active = true
			a.entities[i] = e
			a.next = i + 1
		}
	}
	return a, nil
}

// Capacity returns the fixed number of slots.
func (a *Arena[S]) Capacity() int { return len(a.entities) }

// Populated returns how many slots are active.
func (a *Arena[S]) Populated() int {
	n := 0
	for i := range a.entities {
		if a.entities[i].Active {
			n++
		}
	}
	return n
}

// Populate copies entities into the slots after the last filled one and
// marks them active. Entities beyond the capacity are dropped.
func (a *Arena[S]) Populate(entities []Entity[S]) (accepted, dropped int) {
	for _, e := range entities {
		if !a.Add(e) {
			dropped++
			continue
		}
		accepted++
	}
	return accepted, dropped
}

// Add places one entity in the next free slot. It reports false when the
// arena is full.
func (a *Arena[S]) Add(e Entity[S]) bool {
	if a.next >= len(a.entities) {
		return false
	}
	e = e.Clone()
	e.Active = true
	a.entities[a.next] = e
	a.next++
	return true
}

// At returns slot i. It is meant for single-threaded phases (population,
// final snapshot); workers go through their View.
func (a *Arena[S]) At(i int) *Entity[S] {
	return &a.entities[i]
}

// View returns the handle for one cluster's range.
func (a *Arena[S]) View(r Range) *View[S] {
	if r.Lo < 0 || r.Hi > len(a.entities) || r.Lo > r.Hi {
		panic(fmt.Sprintf("ecs: range %v outside arena of %d", r, len(a.entities)))
	}
	return &View[S]{rng: r, entities: a.entities[r.Lo:r.Hi:r.Hi]}
}
