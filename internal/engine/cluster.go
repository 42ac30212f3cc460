package engine

import (
	"github.com/swarmloop/engine/internal/core/ecs"
	"github.com/swarmloop/engine/internal/core/shared"
	"github.com/swarmloop/engine/internal/core/system"
	"go.uber.org/zap"
)

// Cluster is one worker's shard of the arena together with its thread-local
// engine data. Everything reachable from a Cluster belongs to its worker,
// except Shared, which must be accessed through the shared package.
type Cluster[S, G any] struct {
	id     int
	view   *ecs.View[S]
	engine Engine[G]
	shared *shared.State[Slot[G]]
	runner *system.Runner[*Cluster[S, G]]
	log    *zap.Logger

	records []ecs.Record
}

func newCluster[S, G any](id int, view *ecs.View[S], st *shared.State[Slot[G]], log *zap.Logger) *Cluster[S, G] {
	return &Cluster[S, G]{
		id:     id,
		view:   view,
		engine: Engine[G]{Thread: id, Cursor: -1},
		shared: st,
		runner: system.NewRunner[*Cluster[S, G]](),
		log:    log.With(zap.Int("cluster", id)),
	}
}

func (c *Cluster[S, G]) ID() int                        { return c.id }
func (c *Cluster[S, G]) Range() ecs.Range               { return c.view.Range() }
func (c *Cluster[S, G]) Len() int                       { return c.view.Len() }
func (c *Cluster[S, G]) View() *ecs.View[S]             { return c.view }
func (c *Cluster[S, G]) Engine() *Engine[G]             { return &c.engine }
func (c *Cluster[S, G]) Logger() *zap.Logger            { return c.log }
func (c *Cluster[S, G]) Shared() *shared.State[Slot[G]] { return c.shared }

// ForEach visits every slot of the cluster in index order, yielding the
// arena index, the cluster's pool handle and the thread-local engine.
func (c *Cluster[S, G]) ForEach(fn func(i int, pool *ecs.View[S], eng *Engine[G])) {
	r := c.view.Range()
	for i := r.Lo; i < r.Hi; i++ {
		c.engine.Cursor = i
		fn(i, c.view, &c.engine)
	}
	c.engine.Cursor = -1
}

// ForEachActive is ForEach restricted to populated slots.
func (c *Cluster[S, G]) ForEachActive(fn func(i int, pool *ecs.View[S], eng *Engine[G])) {
	r := c.view.Range()
	for i := r.Lo; i < r.Hi; i++ {
		if !c.view.At(i).Active {
			continue
		}
		c.engine.Cursor = i
		fn(i, c.view, &c.engine)
	}
	c.engine.Cursor = -1
}

// Count adds delta to key in worker's counters. worker may be any cluster,
// including this one.
func (c *Cluster[S, G]) Count(worker int, key string, delta int64) {
	shared.Catch(c.shared, worker, counterDelta{key, delta}, addCounter[G])
}

// Register adds a system to this worker's tick.
func (c *Cluster[S, G]) Register(s system.System[*Cluster[S, G]]) {
	c.runner.Register(s)
}

type counterDelta struct {
	key   string
	delta int64
}

func addCounter[G any](d counterDelta, sl *Slot[G]) {
	if sl.Counters == nil {
		sl.Counters = make(map[string]int64)
	}
	sl.Counters[d.key] += d.delta
}
