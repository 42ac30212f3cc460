package ecs

import (
	"github.com/swarmloop/engine/internal/sprite"
	"github.com/swarmloop/engine/internal/transform"
)

// Entity is the fixed shape of every pool slot: a transform, a sprite and
// user state S. Active marks slots that were populated; inactive slots stay in
// the arena but are not drawn.
type Entity[S any] struct {
	Active    bool
	Transform transform.Transform
	Sprite    sprite.Sprite
	State     S
}

// Clone returns a copy that does not share sprite animation state.
func (e Entity[S]) Clone() Entity[S] {
	e.Sprite = e.Sprite.Clone()
	return e
}
