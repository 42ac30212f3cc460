// Package ebitenpresent shows frames in an ebiten window. Ebiten owns the
// main goroutine; the frame loop talks to it only through Submit, Input and
// Closed.
package ebitenpresent

import (
	"image"
	_ "image/png"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/swarmloop/engine/internal/input"
	"github.com/swarmloop/engine/internal/render"
	"go.uber.org/zap"
)

// Presenter implements ebiten.Game and engine.Presenter.
type Presenter struct {
	title         string
	width, height int

	mu       sync.Mutex // guards everything below up to closed
	textures []*ebiten.Image
	latest   render.Frame
	tracker  *input.Tracker
	pads     map[ebiten.GamepadID]bool

	closed   atomic.Bool // window asked to close
	finished atomic.Bool // frame loop is done; Update terminates

	log *zap.Logger
}

func New(title string, width, height int, log *zap.Logger) *Presenter {
	return &Presenter{
		title:   title,
		width:   width,
		height:  height,
		tracker: input.NewTracker(),
		pads:    make(map[ebiten.GamepadID]bool),
		log:     log,
	}
}

// Run opens the window and blocks until the frame loop finished or the
// window was closed. It must be called from the main goroutine.
func (p *Presenter) Run() error {
	ebiten.SetWindowSize(p.width, p.height)
	ebiten.SetWindowTitle(p.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	err := ebiten.RunGame(p)
	p.closed.Store(true)
	return err
}

// Finish makes the next Update end the ebiten loop.
func (p *Presenter) Finish() { p.finished.Store(true) }

// LoadTextures decodes every resolvable image. Failures are logged and
// skipped.
func (p *Presenter) LoadTextures(paths []string) (int, error) {
	var loaded []*ebiten.Image
	for _, path := range paths {
		img, _, err := ebitenutil.NewImageFromFile(path)
		if err != nil {
			p.log.Warn("asset skipped", zap.String("path", path), zap.Error(err))
			continue
		}
		loaded = append(loaded, img)
	}
	p.mu.Lock()
	p.textures = loaded
	p.mu.Unlock()
	return len(loaded), nil
}

// Submit keeps f as the frame to draw next. Frames that arrive faster than
// the display refresh replace each other.
func (p *Presenter) Submit(f render.Frame) []render.Rejection {
	p.mu.Lock()
	n := len(p.textures)
	p.mu.Unlock()

	rejected := f.Validate(n, nil)
	if len(rejected) > 0 {
		f = dropRejected(f, rejected)
	}

	p.mu.Lock()
	p.latest = f
	p.mu.Unlock()
	return rejected
}

// dropRejected removes rejected commands so Draw never sees them.
func dropRejected(f render.Frame, rejected []render.Rejection) render.Frame {
	skip := make(map[[2]int]bool, len(rejected))
	for _, r := range rejected {
		skip[[2]int{r.List, r.Index}] = true
	}
	for li, l := range f.Lists {
		kept := l[:0]
		for ci, cmd := range l {
			if !skip[[2]int{li, ci}] {
				kept = append(kept, cmd)
			}
		}
		f.Lists[li] = kept
	}
	return f
}

func (p *Presenter) Input() input.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tracker.Snapshot()
}

func (p *Presenter) Closed() bool { return p.closed.Load() }

// Update captures device state. It runs on the ebiten goroutine.
func (p *Presenter) Update() error {
	if ebiten.IsWindowBeingClosed() {
		p.closed.Store(true)
	}
	if p.finished.Load() {
		return ebiten.Termination
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for k := input.Key(0); int(k) < input.NumKeys; k++ {
		p.tracker.SetKey(k, ebiten.IsKeyPressed(keyMap[k]))
	}
	x, y := ebiten.CursorPosition()
	wx, wy := ebiten.Wheel()
	p.tracker.SetMouse(input.Mouse{
		X:      int32(x),
		Y:      int32(y),
		Left:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Middle: ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
		Right:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		WheelX: wx,
		WheelY: wy,
	})
	p.updatePads()
	return nil
}

func (p *Presenter) updatePads() {
	for _, id := range inpututil.AppendJustConnectedGamepadIDs(nil) {
		p.pads[id] = true
		p.tracker.AddController(int(id))
		p.log.Info("controller attached", zap.Int("id", int(id)), zap.String("name", ebiten.GamepadName(id)))
	}
	for id := range p.pads {
		if inpututil.IsGamepadJustDisconnected(id) {
			delete(p.pads, id)
			p.tracker.RemoveController(int(id))
			p.log.Info("controller detached", zap.Int("id", int(id)))
			continue
		}
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for a, sa := range axisMap {
			p.tracker.SetAxis(int(id), input.Axis(a), axisValue(ebiten.StandardGamepadAxisValue(id, sa)))
		}
		p.tracker.SetAxis(int(id), input.AxisTriggerLeft,
			axisValue(ebiten.StandardGamepadButtonValue(id, ebiten.StandardGamepadButtonFrontBottomLeft)))
		p.tracker.SetAxis(int(id), input.AxisTriggerRight,
			axisValue(ebiten.StandardGamepadButtonValue(id, ebiten.StandardGamepadButtonFrontBottomRight)))
		for b, sb := range buttonMap {
			p.tracker.SetButton(int(id), input.Button(b), ebiten.IsStandardGamepadButtonPressed(id, sb))
		}
	}
}

func axisValue(v float64) int16 {
	return int16(math.Max(-1, math.Min(1, v)) * math.MaxInt16)
}

// Draw renders the latest frame, lists in worker order.
func (p *Presenter) Draw(screen *ebiten.Image) {
	p.mu.Lock()
	f := p.latest
	textures := p.textures
	p.mu.Unlock()

	var op ebiten.DrawImageOptions
	for _, l := range f.Lists {
		for i := range l {
			cmd := &l[i]
			tex := textures[cmd.TextureID]
			src := image.Rect(int(cmd.Src.X), int(cmd.Src.Y), int(cmd.Src.X)+int(cmd.Src.W), int(cmd.Src.Y)+int(cmd.Src.H))
			op.GeoM = commandGeoM(cmd)
			screen.DrawImage(tex.SubImage(src).(*ebiten.Image), &op)
		}
	}
}

// commandGeoM scales the tile to its destination, flips and rotates it
// around its centre, then moves it to the destination's top-left corner.
func commandGeoM(cmd *render.DrawCommand) ebiten.GeoM {
	var g ebiten.GeoM
	sw, sh := float64(cmd.Src.W), float64(cmd.Src.H)
	dw, dh := float64(cmd.Dst.W), float64(cmd.Dst.H)

	g.Translate(-sw/2, -sh/2)
	sx, sy := dw/sw, dh/sh
	if cmd.FlipH {
		sx = -sx
	}
	if cmd.FlipV {
		sy = -sy
	}
	g.Scale(sx, sy)
	if cmd.Rotation != 0 {
		g.Rotate(cmd.Rotation * math.Pi / 180)
	}
	g.Translate(float64(cmd.Dst.X)+dw/2, float64(cmd.Dst.Y)+dh/2)
	return g
}

func (p *Presenter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return p.width, p.height
}
