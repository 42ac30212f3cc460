package ecs

// Record is the persisted form of one entity's logical state.
type Record struct {
	Index        int
	X, Y, Z      float64
	Rotation     float64
	TextureID    int
	Animation    int
	CurrentFrame uint16
	MillisPassed uint64
}

// Record captures e as slot i.
func (e *Entity[S]) Record(i int) Record {
	r := Record{
		Index:     i,
		X:         e.Transform.X,
		Y:         e.Transform.Y,
		Z:         e.Transform.Z,
		Rotation:  e.Transform.Rotation,
		TextureID: e.Sprite.TextureID,
		Animation: e.Sprite.Animation,
	}
	if a := e.Sprite.Active(); a != nil {
		r.CurrentFrame = a.CurrentFrame
		r.MillisPassed = a.MillisPassed
	}
	return r
}

// Records appends a record for every active slot of the arena.
func (a *Arena[S]) Records(dst []Record) []Record {
	for i := range a.entities {
		if a.entities[i].Active {
			dst = append(dst, a.entities[i].Record(i))
		}
	}
	return dst
}

// Records appends a record for every active slot of the view.
func (v *View[S]) Records(dst []Record) []Record {
	v.EachActive(func(i int, e *Entity[S]) {
		dst = append(dst, e.Record(i))
	})
	return dst
}
