package system

// Phase defines execution ordering within one worker tick.
type Phase int

const (
	PhasePrime    Phase = iota // 0: copy the frame context into the worker
	PhaseUpdate                // 1: user update hook
	PhaseAnimate               // 2: animation + draw-list fill
	PhaseSnapshot              // 3: optional entity snapshot rows
	PhasePublish               // 4: publish the draw-list to the consumer
)

func (p Phase) String() string {
	switch p {
	case PhasePrime:
		return "prime"
	case PhaseUpdate:
		return "update"
	case PhaseAnimate:
		return "animate"
	case PhaseSnapshot:
		return "snapshot"
	case PhasePublish:
		return "publish"
	}
	return "unknown"
}

// System is one step of a worker tick. C is the per-worker context the
// system operates on (the worker's cluster).
type System[C any] interface {
	Phase() Phase
	Update(c C)
}

// Func adapts a function to System.
type Func[C any] struct {
	P  Phase
	Fn func(c C)
}

func (f Func[C]) Phase() Phase { return f.P }
func (f Func[C]) Update(c C)   { f.Fn(c) }
