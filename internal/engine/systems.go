package engine

import (
	"github.com/swarmloop/engine/internal/core/ecs"
	"github.com/swarmloop/engine/internal/core/shared"
	"github.com/swarmloop/engine/internal/core/system"
	"github.com/swarmloop/engine/internal/render"
)

// PrimeSystem copies the frame context the frame loop injected into the
// worker's slot into its private Engine. Phase 0 (Prime).
type PrimeSystem[S, G any] struct{}

func (PrimeSystem[S, G]) Phase() system.Phase { return system.PhasePrime }

func (PrimeSystem[S, G]) Update(c *Cluster[S, G]) {
	shared.Catch(c.shared, c.id, &c.engine, primeEngine[G])
}

func primeEngine[G any](e *Engine[G], sl *Slot[G]) {
	e.FrameContext = sl.Context
	if sl.Pending != e.FrameDuration {
		e.FrameDuration = sl.Pending
		e.DeltaTime = float64(sl.Pending) / 1000
	}
	sl.Pending = 0
}

// UpdateSystem runs the observer's per-tick hook. Phase 1 (Update).
type UpdateSystem[S, G any] struct {
	observer Observer[S, G]
}

func (UpdateSystem[S, G]) Phase() system.Phase { return system.PhaseUpdate }

func (s UpdateSystem[S, G]) Update(c *Cluster[S, G]) {
	s.observer.OnUpdate(c)
}

// AnimateSystem advances every active entity's animation by the frame
// duration and writes its draw command into the worker's own back slot.
// Entities without a visible tile have their slot cleared. Phase 2 (Animate).
type AnimateSystem[S, G any] struct{}

func (AnimateSystem[S, G]) Phase() system.Phase { return system.PhaseAnimate }

func (AnimateSystem[S, G]) Update(c *Cluster[S, G]) {
	eng := &c.engine
	lo := c.view.Range().Lo
	c.view.Each(func(i int, e *ecs.Entity[S]) {
		slot := i - lo
		if !e.Active {
			shared.CatchMut(c.shared, c.id, slot, struct{}{}, clearCommand[G])
			return
		}
		e.Sprite.Update(eng.FrameDuration)
		cmd, ok := drawCommand(e, eng.Camera, eng.Screen)
		if !ok {
			shared.CatchMut(c.shared, c.id, slot, struct{}{}, clearCommand[G])
			return
		}
		shared.CatchMut(c.shared, c.id, slot, cmd, setCommand[G])
	})
}

// drawCommand builds the presentation copy of e.
func drawCommand[S any](e *ecs.Entity[S], cam render.Camera, scr render.Screen) (render.DrawCommand, bool) {
	src, ok := e.Sprite.SourceRect()
	if !ok {
		return render.DrawCommand{}, false
	}
	tr := &e.Transform
	return render.DrawCommand{
		TextureID: e.Sprite.TextureID,
		Src:       src,
		Dst:       cam.Project(scr, tr.X, tr.Y, tr.Width, tr.Height),
		Rotation:  tr.Rotation,
		FlipH:     tr.FlipH,
		FlipV:     tr.FlipV,
		Z:         tr.Z,
	}, true
}

func setCommand[G any](slot int, cmd render.DrawCommand, sl *Slot[G]) {
	sl.Draw.Set(slot, cmd)
}

func clearCommand[G any](slot int, _ struct{}, sl *Slot[G]) {
	sl.Draw.Clear(slot)
}

// SnapshotSystem publishes entity records when the frame asks for them.
// Phase 3 (Snapshot).
type SnapshotSystem[S, G any] struct{}

func (SnapshotSystem[S, G]) Phase() system.Phase { return system.PhaseSnapshot }

func (SnapshotSystem[S, G]) Update(c *Cluster[S, G]) {
	if !c.engine.Snapshot {
		return
	}
	c.records = c.view.Records(c.records[:0])
	shared.Catch(c.shared, c.id, c, publishRecords[S, G])
}

func publishRecords[S, G any](c *Cluster[S, G], sl *Slot[G]) {
	sl.Records = append(sl.Records[:0], c.records...)
	sl.RecordsFrame = c.engine.Frame
}

// PublishSystem swaps the worker's back draw slots into its front list.
// Phase 4 (Publish).
type PublishSystem[S, G any] struct{}

func (PublishSystem[S, G]) Phase() system.Phase { return system.PhasePublish }

func (PublishSystem[S, G]) Update(c *Cluster[S, G]) {
	shared.Catch(c.shared, c.id, c.engine.Frame, publishDraw[G])
}

func publishDraw[G any](frame uint64, sl *Slot[G]) {
	sl.Draw.Publish(frame)
}
