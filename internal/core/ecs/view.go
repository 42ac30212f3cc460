package ecs

import "fmt"

// View is a cluster's window onto the arena. Indices are arena indices, and
// only those inside the cluster's range resolve; another cluster's entities
// must be reached through the shared-state protocol.
type View[S any] struct {
	rng      Range
	entities []Entity[S]
}

// Range returns the arena span covered by the view.
func (v *View[S]) Range() Range { return v.rng }

// Len returns the number of slots in the view.
func (v *View[S]) Len() int { return len(v.entities) }

// Contains reports whether arena index i belongs to this view.
func (v *View[S]) Contains(i int) bool { return v.rng.Contains(i) }

// At returns the entity at arena index i. It panics when i belongs to another
// cluster.
func (v *View[S]) At(i int) *Entity[S] {
	if !v.rng.Contains(i) {
		panic(fmt.Sprintf("ecs: index %d outside cluster range %v", i, v.rng))
	}
	return &v.entities[i-v.rng.Lo]
}

// Get is At without the panic.
func (v *View[S]) Get(i int) (*Entity[S], bool) {
	if !v.rng.Contains(i) {
		return nil, false
	}
	return &v.entities[i-v.rng.Lo], true
}

// Each visits every slot of the view in index order.
func (v *View[S]) Each(fn func(i int, e *Entity[S])) {
	for k := range v.entities {
		fn(v.rng.Lo+k, &v.entities[k])
	}
}

// EachActive visits populated slots in index order.
func (v *View[S]) EachActive(fn func(i int, e *Entity[S])) {
	for k := range v.entities {
		if v.entities[k].Active {
			fn(v.rng.Lo+k, &v.entities[k])
		}
	}
}
