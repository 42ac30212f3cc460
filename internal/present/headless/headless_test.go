package headless

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/swarmloop/engine/internal/core/ecs"
	"github.com/swarmloop/engine/internal/engine"
	"github.com/swarmloop/engine/internal/input"
	"github.com/swarmloop/engine/internal/render"
	"github.com/swarmloop/engine/internal/sprite"
	"github.com/swarmloop/engine/internal/transform"
	"go.uber.org/zap"
)

func TestLoadTexturesSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "a.png")
	if err := os.WriteFile(present, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := New(0, zap.NewNop())
	n, err := p.LoadTextures([]string{filepath.Join(dir, "missing.png"), present})
	if err != nil || n != 1 {
		t.Fatalf("LoadTextures = %d, %v; want 1", n, err)
	}
}

func TestSubmitCountsAndRejects(t *testing.T) {
	p := New(2, zap.NewNop())
	p.textures = 1
	ok := render.DrawCommand{Src: render.Rect{W: 4, H: 4}, Dst: render.Rect{W: 4, H: 4}}
	bad := ok
	bad.TextureID = 1

	rej := p.Submit(render.Frame{Number: 1, Lists: [][]render.DrawCommand{{ok, bad}}})
	if len(rej) != 1 || !errors.Is(rej[0].Err, render.ErrUnknownTexture) {
		t.Fatalf("rejections = %+v", rej)
	}
	if p.Closed() {
		t.Fatal("closed after one of two frames")
	}
	p.Submit(render.Frame{Number: 2})
	if !p.Closed() || p.Frames() != 2 || p.Commands() != 1 || p.Rejected() != 1 {
		t.Errorf("closed=%v frames=%d commands=%d rejected=%d", p.Closed(), p.Frames(), p.Commands(), p.Rejected())
	}
	if p.Last().Number != 2 {
		t.Errorf("last = %d", p.Last().Number)
	}
}

func TestInputComesFromTracker(t *testing.T) {
	p := New(0, zap.NewNop())
	p.Tracker().SetKey(input.KeySpace, true)
	in := p.Input()
	if !in.Keyboard.Pressed(input.KeySpace) {
		t.Error("space not pressed")
	}
	if in = p.Input(); in.Keyboard.Pressed(input.KeySpace) || !in.Keyboard.Down(input.KeySpace) {
		t.Error("space should be held, not pressed again")
	}
}

func TestPlayHeadless(t *testing.T) {
	dir := t.TempDir()
	asset := filepath.Join(dir, "sheet.png")
	if err := os.WriteFile(asset, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	spr := sprite.NewBuilder(0).
		WithTileSize(8, 8).
		WithColumns(2).
		WithAnimations(sprite.NewAnimation(0, 3, 10)).
		Build()
	lost := spr.Clone()
	lost.TextureID = 1 // refers to the missing asset

	scene := &engine.Scene[struct{}]{
		Name:     "headless",
		Capacity: 6,
		Assets:   []string{asset, filepath.Join(dir, "missing.png")},
		Populate: func(add func(ecs.Entity[struct{}]) bool) {
			for i := 0; i < 5; i++ {
				add(ecs.Entity[struct{}]{
					Transform: transform.Transform{}.WithPosition(float64(i*8), 0).WithSize(8, 8),
					Sprite:    spr,
				})
			}
			add(ecs.Entity[struct{}]{Transform: transform.Transform{}.WithSize(8, 8), Sprite: lost})
		},
	}

	p := New(4, zap.NewNop())
	r := engine.NewRenderer[struct{}, struct{}](p, engine.Config{
		Clusters:   3,
		MaxWorkers: 4,
		Screen:     render.NewScreen(64, 64),
	})
	if err := r.Play(context.Background(), scene, 500, engine.ObserverFuncs[struct{}, struct{}]{}); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if p.Frames() != 4 || p.Commands() != 4*5 || p.Rejected() != 4 {
		t.Errorf("frames=%d commands=%d rejected=%d", p.Frames(), p.Commands(), p.Rejected())
	}
	st := r.Stats()
	if st.Textures != 1 || st.Rejected != 4 {
		t.Errorf("stats = %+v", st)
	}
}
