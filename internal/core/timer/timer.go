package timer

import (
	"time"

	"go.uber.org/zap"
)

// DefaultSampleWindow is how much frame time is accumulated before an
// average-fps sample is emitted.
const DefaultSampleWindow = 3000 * time.Millisecond

// Clock is the time source used by UpdateTimer. Sleep is the only place the
// frame loop voluntarily suspends.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Sample is one diagnostic window of frame pacing.
type Sample struct {
	Frames       uint32
	Elapsed      time.Duration
	AverageFPS   float64
	AverageFrame time.Duration
}

// UpdateTimer paces the frame loop to a fixed tick length.
// All millisecond values are whole milliseconds.
type UpdateTimer struct {
	clock Clock
	log   *zap.Logger
	sink  func(Sample)

	playTime   time.Time
	targetTime uint64
	cycleTime  uint64
	delayTime  uint64

	// DeltaTime is FrameDuration in seconds.
	DeltaTime float64
	// FrameDuration is the logical length of the last frame in milliseconds:
	// the target tick, or the measured cycle when the frame overran.
	FrameDuration uint64

	window      uint64
	sampleDelay uint64
	numSamples  uint32
}

type Option func(*UpdateTimer)

func WithClock(c Clock) Option {
	return func(t *UpdateTimer) { t.clock = c }
}

func WithLogger(log *zap.Logger) Option {
	return func(t *UpdateTimer) { t.log = log }
}

// WithSampleSink replaces the default "average fps" log line.
func WithSampleSink(fn func(Sample)) Option {
	return func(t *UpdateTimer) { t.sink = fn }
}

func WithSampleWindow(d time.Duration) Option {
	return func(t *UpdateTimer) {
		if d > 0 {
			t.window = uint64(d / time.Millisecond)
		}
	}
}

// New creates a timer targeting targetFPS frames per second. A non-positive
// targetFPS disables pacing.
func New(targetFPS int, opts ...Option) *UpdateTimer {
	t := &UpdateTimer{
		clock:  systemClock{},
		log:    zap.NewNop(),
		window: uint64(DefaultSampleWindow / time.Millisecond),
	}
	if targetFPS > 0 {
		t.targetTime = 1000 / uint64(targetFPS)
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.sink == nil {
		t.sink = t.logSample
	}
	t.playTime = t.clock.Now()
	return t
}

// Sync closes the current frame: it measures the cycle since the previous
// Sync, derives the frame duration, sleeps off any remaining tick time and
// restarts the measurement.
func (t *UpdateTimer) Sync() {
	t.cycleTime = uint64(t.clock.Now().Sub(t.playTime) / time.Millisecond)

	if t.cycleTime > t.targetTime {
		t.FrameDuration = t.cycleTime
		t.delayTime = 0
	} else {
		t.FrameDuration = t.targetTime
		t.delayTime = t.targetTime - t.cycleTime
	}
	t.DeltaTime = float64(t.FrameDuration) * 0.001

	if t.delayTime > 0 {
		t.clock.Sleep(time.Duration(t.delayTime) * time.Millisecond)
	}
	t.playTime = t.clock.Now()

	t.sampleDelay += t.FrameDuration
	t.numSamples++
	if t.sampleDelay >= t.window {
		t.sink(Sample{
			Frames:       t.numSamples,
			Elapsed:      time.Duration(t.sampleDelay) * time.Millisecond,
			AverageFPS:   float64(t.numSamples) * 1000 / float64(t.sampleDelay),
			AverageFrame: time.Duration(t.sampleDelay/uint64(t.numSamples)) * time.Millisecond,
		})
		t.sampleDelay = 0
		t.numSamples = 0
	}
}

// Target returns the target tick length in milliseconds.
func (t *UpdateTimer) Target() uint64 { return t.targetTime }

// Cycle returns the last measured cycle length in milliseconds.
func (t *UpdateTimer) Cycle() uint64 { return t.cycleTime }

// Delay returns the time slept at the end of the last frame in milliseconds.
func (t *UpdateTimer) Delay() uint64 { return t.delayTime }

// Overran reports whether the last frame took longer than the target tick.
func (t *UpdateTimer) Overran() bool { return t.delayTime == 0 && t.cycleTime > t.targetTime }

func (t *UpdateTimer) logSample(s Sample) {
	t.log.Info("average fps",
		zap.Float64("fps", s.AverageFPS),
		zap.Duration("frame", s.AverageFrame),
		zap.Uint32("frames", s.Frames),
	)
}
