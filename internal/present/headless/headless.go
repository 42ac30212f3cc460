// Package headless presents frames nowhere: it validates and counts them.
// It backs servers, benchmarks and CI runs without a display.
package headless

import (
	"os"

	"github.com/swarmloop/engine/internal/input"
	"github.com/swarmloop/engine/internal/render"
	"go.uber.org/zap"
)

type Presenter struct {
	maxFrames int
	textures  int
	tracker   *input.Tracker

	frames   int
	commands int
	rejected int
	last     render.Frame

	log *zap.Logger
}

// New returns a presenter that reports Closed after maxFrames frames
// (0 = never).
func New(maxFrames int, log *zap.Logger) *Presenter {
	return &Presenter{
		maxFrames: maxFrames,
		tracker:   input.NewTracker(),
		log:       log,
	}
}

// LoadTextures counts the paths that exist. Missing ones are skipped.
func (p *Presenter) LoadTextures(paths []string) (int, error) {
	p.textures = 0
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			p.log.Debug("asset skipped", zap.String("path", path), zap.Error(err))
			continue
		}
		p.textures++
	}
	return p.textures, nil
}

func (p *Presenter) Submit(f render.Frame) []render.Rejection {
	rejected := f.Validate(p.textures, nil)
	p.frames++
	p.commands += f.Len() - len(rejected)
	p.rejected += len(rejected)
	p.last = f
	return rejected
}

// Input returns the state set through Tracker.
func (p *Presenter) Input() input.Snapshot { return p.tracker.Snapshot() }

func (p *Presenter) Closed() bool {
	return p.maxFrames > 0 && p.frames >= p.maxFrames
}

// Tracker lets callers inject device state between frames.
func (p *Presenter) Tracker() *input.Tracker { return p.tracker }

// Frames, Commands and Rejected count what Submit has seen.
func (p *Presenter) Frames() int   { return p.frames }
func (p *Presenter) Commands() int { return p.commands }
func (p *Presenter) Rejected() int { return p.rejected }

// Last returns the most recent frame.
func (p *Presenter) Last() render.Frame { return p.last }
