package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/swarmloop/engine/internal/core/ecs"
	"github.com/swarmloop/engine/internal/engine"
	"github.com/swarmloop/engine/internal/input"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// APIVersion is exposed to scripts as API_VERSION.
const APIVersion = 1

// logEvery rate-limits repeated on_update errors per cluster.
const logEvery = 100

// Observer drives clusters from Lua scripts. Every cluster gets its own VM,
// created on the cluster's worker goroutine and only used there.
//
// Scripts may define:
//
//	on_start(cluster_id)   -- errors abort the run
//	on_update(cluster_id)  -- errors are logged and the frame continues
//	on_end(cluster_id)     -- once the scene ended; errors are logged
type Observer[S, G any] struct {
	dir string
	log *zap.Logger

	mu  sync.Mutex
	vms map[int]*vm[S, G]
}

type vm[S, G any] struct {
	L        *lua.LState
	cluster  *engine.Cluster[S, G]
	onUpdate lua.LValue
	onEnd    lua.LValue
	failures int
	log      *zap.Logger
}

// NewObserver returns an observer loading every *.lua file in dir.
func NewObserver[S, G any](dir string, log *zap.Logger) *Observer[S, G] {
	return &Observer[S, G]{
		dir: dir,
		log: log,
		vms: make(map[int]*vm[S, G]),
	}
}

// OnStart creates the cluster's VM, loads the scripts and runs on_start.
func (o *Observer[S, G]) OnStart(c *engine.Cluster[S, G]) error {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	L.SetGlobal("API_VERSION", lua.LNumber(APIVersion))

	v := &vm[S, G]{L: L, cluster: c, log: c.Logger()}
	v.register()

	if err := v.loadDir(o.dir); err != nil {
		L.Close()
		return fmt.Errorf("load scripts: %w", err)
	}

	if fn := L.GetGlobal("on_start"); fn != lua.LNil {
		if err := L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, lua.LNumber(c.ID())); err != nil {
			L.Close()
			return fmt.Errorf("on_start: %w", err)
		}
	}
	v.onUpdate = L.GetGlobal("on_update")
	v.onEnd = L.GetGlobal("on_end")

	o.mu.Lock()
	o.vms[c.ID()] = v
	o.mu.Unlock()
	return nil
}

// OnUpdate runs on_update for the cluster.
func (o *Observer[S, G]) OnUpdate(c *engine.Cluster[S, G]) {
	o.mu.Lock()
	v := o.vms[c.ID()]
	o.mu.Unlock()
	if v == nil || v.onUpdate == lua.LNil {
		return
	}
	if err := v.L.CallByParam(lua.P{
		Fn:      v.onUpdate,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(c.ID())); err != nil {
		v.failures++
		if v.failures%logEvery == 1 {
			v.log.Error("on_update failed",
				zap.Uint64("frame", c.Engine().Frame),
				zap.Int("failures", v.failures),
				zap.Error(err),
			)
		}
	}
}

// OnEnd runs on_end for the cluster. The scheduler has stopped, so the VM is
// no longer used by its worker.
func (o *Observer[S, G]) OnEnd(c *engine.Cluster[S, G]) {
	o.mu.Lock()
	v := o.vms[c.ID()]
	o.mu.Unlock()
	if v == nil || v.onEnd == lua.LNil {
		return
	}
	if err := v.L.CallByParam(lua.P{
		Fn:      v.onEnd,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(c.ID())); err != nil {
		v.log.Error("on_end failed", zap.Error(err))
	}
}

// Close releases every VM. Only call it once the scheduler stopped.
func (o *Observer[S, G]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, v := range o.vms {
		v.L.Close()
		delete(o.vms, id)
	}
}

// loadDir loads all .lua files in a directory.
func (v *vm[S, G]) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := v.L.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		v.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (v *vm[S, G]) register() {
	for name, fn := range map[string]lua.LGFunction{
		"first":         v.first,
		"last":          v.last,
		"delta":         v.delta,
		"frame":         v.frame,
		"clusters":      v.clusters,
		"key_down":      v.keyDown,
		"key_pressed":   v.keyPressed,
		"mouse":         v.mouse,
		"get_position":  v.getPosition,
		"set_position":  v.setPosition,
		"move":          v.move,
		"set_animation": v.setAnimation,
		"animation":     v.animation,
		"count":         v.count,
	} {
		v.L.SetGlobal(name, v.L.NewFunction(fn))
	}
}

// first() -> lowest arena index of this cluster
func (v *vm[S, G]) first(L *lua.LState) int {
	L.Push(lua.LNumber(v.cluster.Range().Lo))
	return 1
}

// last() -> highest arena index of this cluster (inclusive)
func (v *vm[S, G]) last(L *lua.LState) int {
	L.Push(lua.LNumber(v.cluster.Range().Hi - 1))
	return 1
}

// delta() -> frame duration in seconds
func (v *vm[S, G]) delta(L *lua.LState) int {
	L.Push(lua.LNumber(v.cluster.Engine().DeltaTime))
	return 1
}

func (v *vm[S, G]) frame(L *lua.LState) int {
	L.Push(lua.LNumber(v.cluster.Engine().Frame))
	return 1
}

func (v *vm[S, G]) clusters(L *lua.LState) int {
	L.Push(lua.LNumber(v.cluster.Engine().Clusters))
	return 1
}

func (v *vm[S, G]) key(L *lua.LState) input.Key {
	name := L.CheckString(1)
	k, ok := input.ParseKey(name)
	if !ok {
		L.ArgError(1, fmt.Sprintf("unknown key %q", name))
	}
	return k
}

func (v *vm[S, G]) keyDown(L *lua.LState) int {
	k := v.key(L)
	L.Push(lua.LBool(v.cluster.Engine().Input.Keyboard.Down(k)))
	return 1
}

func (v *vm[S, G]) keyPressed(L *lua.LState) int {
	k := v.key(L)
	L.Push(lua.LBool(v.cluster.Engine().Input.Keyboard.Pressed(k)))
	return 1
}

// mouse() -> x, y, left, right
func (v *vm[S, G]) mouse(L *lua.LState) int {
	m := v.cluster.Engine().Input.Mouse
	L.Push(lua.LNumber(m.X))
	L.Push(lua.LNumber(m.Y))
	L.Push(lua.LBool(m.Left))
	L.Push(lua.LBool(m.Right))
	return 4
}

// entity resolves argument n as an index owned by this cluster.
func (v *vm[S, G]) entity(L *lua.LState, n int) *ecs.Entity[S] {
	i := L.CheckInt(n)
	e, ok := v.cluster.View().Get(i)
	if !ok {
		L.RaiseError("index %d outside cluster %d %v", i, v.cluster.ID(), v.cluster.Range())
	}
	return e
}

// get_position(i) -> x, y
func (v *vm[S, G]) getPosition(L *lua.LState) int {
	e := v.entity(L, 1)
	L.Push(lua.LNumber(e.Transform.X))
	L.Push(lua.LNumber(e.Transform.Y))
	return 2
}

// set_position(i, x, y)
func (v *vm[S, G]) setPosition(L *lua.LState) int {
	e := v.entity(L, 1)
	e.Transform.X = float64(L.CheckNumber(2))
	e.Transform.Y = float64(L.CheckNumber(3))
	return 0
}

// move(i, dx, dy)
func (v *vm[S, G]) move(L *lua.LState) int {
	e := v.entity(L, 1)
	e.Transform.Translate(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))
	return 0
}

// set_animation(i, a [, restart])
func (v *vm[S, G]) setAnimation(L *lua.LState) int {
	e := v.entity(L, 1)
	e.Sprite.Switch(L.CheckInt(2), L.OptBool(3, false))
	return 0
}

// animation(i) -> a
func (v *vm[S, G]) animation(L *lua.LState) int {
	e := v.entity(L, 1)
	L.Push(lua.LNumber(e.Sprite.Animation))
	return 1
}

// count(key [, delta]) adds to this cluster's frame counters.
func (v *vm[S, G]) count(L *lua.LState) int {
	key := L.CheckString(1)
	delta := L.OptInt64(2, 1)
	v.cluster.Count(v.cluster.ID(), key, delta)
	return 0
}
