package shared

import (
	"sync"
	"testing"
	"time"
)

type pair struct {
	A, B int
}

func TestDifferentSlotsDoNotBlock(t *testing.T) {
	s := New[pair](2, nil)

	holding := make(chan struct{})
	release := make(chan struct{})
	go Write(s, 0, func(p *pair) {
		close(holding)
		<-release
	})
	<-holding
	defer close(release)

	done := make(chan struct{})
	go func() {
		Catch(s, 1, 5, func(v int, p *pair) { p.A += v })
		CatchMut(s, 1, 3, 0, func(i, _ int, p *pair) { p.B = i })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("access to slot 1 blocked while slot 0 was held")
	}
	if got := Read(s, 1); got != (pair{A: 5, B: 3}) {
		t.Errorf("slot 1 = %+v", got)
	}
}

func TestSameSlotIsSerialized(t *testing.T) {
	s := New[pair](1, nil)

	holding := make(chan struct{})
	release := make(chan struct{})
	go Write(s, 0, func(p *pair) {
		close(holding)
		<-release
		p.A = 1
	})
	<-holding

	done := make(chan pair, 1)
	go Catch(s, 0, 0, func(_ int, p *pair) { done <- *p })

	select {
	case <-done:
		t.Fatal("second access entered a held slot")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)

	select {
	case got := <-done:
		if got.A != 1 {
			t.Errorf("second access saw %+v, want the completed write", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second access never ran")
	}
}

func TestNoPartialWritesObserved(t *testing.T) {
	const workers, rounds = 8, 500
	s := New(3, func(id int) pair { return pair{A: id, B: id} })

	var wg sync.WaitGroup
	errs := make(chan pair, workers*rounds)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			id := w % s.Len()
			for r := 0; r < rounds; r++ {
				Catch(s, id, 1, func(v int, p *pair) {
					p.A += v
					time.Sleep(time.Microsecond)
					p.B += v
				})
				Write(s, (id+1)%s.Len(), func(p *pair) {
					if p.A != p.B {
						errs <- *p
					}
				})
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for p := range errs {
		t.Fatalf("observed partial write %+v", p)
	}

	total := 0
	for id := 0; id < s.Len(); id++ {
		p := Read(s, id)
		total += p.A - id
	}
	if total != workers*rounds {
		t.Errorf("total increments = %d, want %d", total, workers*rounds)
	}
}

func TestCatchMutAllOrderAndConsistency(t *testing.T) {
	s := New(4, func(id int) pair { return pair{A: id * 10} })

	var order []int
	CatchMutAll(s, 1, func(id, v int, p *pair) {
		order = append(order, id)
		p.B = p.A + v
	})
	for i, id := range order {
		if id != i {
			t.Fatalf("visit order = %v, want ascending", order)
		}
	}
	for id := 0; id < 4; id++ {
		if got := Read(s, id); got.B != id*10+1 {
			t.Errorf("slot %d = %+v", id, got)
		}
	}
}

func TestCatchMutAllDoesNotDeadlock(t *testing.T) {
	s := New[pair](4, nil)
	stop := make(chan struct{})
	var wg sync.WaitGroup

	for id := 0; id < s.Len(); id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				Write(s, id, func(p *pair) { p.A++; p.B++ })
			}
		}(id)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			CatchMutAll(s, struct{}{}, func(_ int, _ struct{}, p *pair) {
				if p.A != p.B {
					t.Errorf("drain saw partial slot %+v", *p)
				}
			})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("CatchMutAll deadlocked against per-slot writers")
	}
	close(stop)
	wg.Wait()
}
