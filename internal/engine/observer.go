package engine

// Observer is the game plugged into the scheduler. Both hooks run on the
// cluster's own worker goroutine.
type Observer[S, G any] interface {
	// OnStart runs once per cluster before the first tick. An error aborts
	// the run.
	OnStart(c *Cluster[S, G]) error
	// OnUpdate runs every tick before the animation system.
	OnUpdate(c *Cluster[S, G])
}

// Ender is implemented by observers that tear down per-cluster state when
// the scene ends. OnEnd runs once per cluster, in id order, on the frame loop
// goroutine after every worker has stopped.
type Ender[S, G any] interface {
	OnEnd(c *Cluster[S, G])
}

// FrameDirector is implemented by observers that adjust the frame context on
// the frame loop goroutine before it is dispatched (camera, game data).
// totals are the counters the workers accumulated during the previous frame.
type FrameDirector[G any] interface {
	BeforeFrame(fc *FrameContext[G], totals map[string]int64)
}

// ObserverFuncs adapts plain functions to Observer. Nil hooks are skipped.
type ObserverFuncs[S, G any] struct {
	Start  func(c *Cluster[S, G]) error
	Update func(c *Cluster[S, G])
	End    func(c *Cluster[S, G])
}

func (o ObserverFuncs[S, G]) OnStart(c *Cluster[S, G]) error {
	if o.Start == nil {
		return nil
	}
	return o.Start(c)
}

func (o ObserverFuncs[S, G]) OnUpdate(c *Cluster[S, G]) {
	if o.Update != nil {
		o.Update(c)
	}
}

func (o ObserverFuncs[S, G]) OnEnd(c *Cluster[S, G]) {
	if o.End != nil {
		o.End(c)
	}
}
