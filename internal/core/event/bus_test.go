package event

import "testing"

func TestEventsDeliveredNextFrame(t *testing.T) {
	b := NewBus()
	var got []WorkerLagged
	Subscribe(b, func(e WorkerLagged) { got = append(got, e) })

	Emit(b, WorkerLagged{Frame: 1, Worker: 2})
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("event delivered in the frame it was emitted: %v", got)
	}

	b.SwapBuffers()
	if b.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", b.Pending())
	}
	b.DispatchAll()
	if len(got) != 1 || got[0].Worker != 2 {
		t.Fatalf("got %v, want one event for worker 2", got)
	}

	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 {
		t.Errorf("event delivered twice: %v", got)
	}
}

func TestHandlersOnlySeeTheirType(t *testing.T) {
	b := NewBus()
	lagged, overruns := 0, 0
	Subscribe(b, func(WorkerLagged) { lagged++ })
	Subscribe(b, func(FrameOverrun) { overruns++ })
	Subscribe(b, func(FrameOverrun) { overruns++ })

	Emit(b, FrameOverrun{Frame: 3})
	Emit(b, WorkerLagged{Frame: 3})
	Emit(b, FrameOverrun{Frame: 3})
	b.SwapBuffers()
	b.DispatchAll()

	if lagged != 1 || overruns != 4 {
		t.Errorf("lagged=%d overruns=%d, want 1 and 4", lagged, overruns)
	}
}
