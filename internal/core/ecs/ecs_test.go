package ecs

import (
	"errors"
	"testing"

	"github.com/swarmloop/engine/internal/sprite"
)

type marker struct{ ID int }

func TestPartitionCoversArenaExactlyOnce(t *testing.T) {
	for capacity := 1; capacity <= 64; capacity++ {
		for clusters := 1; clusters <= capacity && clusters <= 16; clusters++ {
			p, err := NewPartition(capacity, clusters, 16)
			if err != nil {
				t.Fatalf("NewPartition(%d, %d): %v", capacity, clusters, err)
			}
			if p.Clusters() != clusters {
				t.Fatalf("Clusters = %d, want %d", p.Clusters(), clusters)
			}

			seen := make([]int, capacity)
			next := 0
			minLen, maxLen := capacity, 0
			for id, r := range p.Ranges() {
				if r.Lo != next {
					t.Fatalf("C=%d K=%d: cluster %d starts at %d, want %d", capacity, clusters, id, r.Lo, next)
				}
				next = r.Hi
				minLen = min(minLen, r.Len())
				maxLen = max(maxLen, r.Len())
				for i := r.Lo; i < r.Hi; i++ {
					seen[i]++
					if p.Owner(i) != id {
						t.Fatalf("Owner(%d) = %d, want %d", i, p.Owner(i), id)
					}
				}
			}
			if next != capacity {
				t.Fatalf("C=%d K=%d: ranges end at %d", capacity, clusters, next)
			}
			for i, n := range seen {
				if n != 1 {
					t.Fatalf("C=%d K=%d: index %d covered %d times", capacity, clusters, i, n)
				}
			}
			if maxLen-minLen > 1 {
				t.Fatalf("C=%d K=%d: uneven split %d..%d", capacity, clusters, minLen, maxLen)
			}
		}
	}
}

func TestPartitionRemainderGoesToEarlyClusters(t *testing.T) {
	p, err := NewPartition(10, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []Range{{0, 3}, {3, 6}, {6, 8}, {8, 10}}
	for i, r := range p.Ranges() {
		if r != want[i] {
			t.Errorf("cluster %d = %v, want %v", i, r, want[i])
		}
	}
	if p.Owner(-1) != -1 || p.Owner(10) != -1 {
		t.Error("Owner accepted an index outside the arena")
	}
}

func TestPartitionErrors(t *testing.T) {
	tests := []struct {
		name                           string
		capacity, clusters, maxWorkers int
		want                           error
	}{
		{"zero capacity", 0, 1, 4, ErrInvalidCapacity},
		{"negative capacity", -5, 1, 4, ErrInvalidCapacity},
		{"zero clusters", 10, 0, 4, ErrInvalidClusterCount},
		{"more clusters than entities", 3, 4, 8, ErrInvalidClusterCount},
		{"more clusters than workers", 100, 9, 8, ErrTooManyClusters},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPartition(tt.capacity, tt.clusters, tt.maxWorkers)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewArenaRejectsNonPositiveCapacity(t *testing.T) {
	if _, err := NewArena[marker](0, nil); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("err = %v, want ErrInvalidCapacity", err)
	}
}

func TestArenaFillAndPopulate(t *testing.T) {
	a, err := NewArena(5, func(i int) (Entity[marker], bool) {
		return Entity[marker]{State: marker{ID: 100 + i}}, i < 2
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.Capacity() != 5 || a.Populated() != 2 {
		t.Fatalf("capacity=%d populated=%d, want 5/2", a.Capacity(), a.Populated())
	}

	batch := make([]Entity[marker], 4)
	for i := range batch {
		batch[i].State.ID = i
	}
	accepted, dropped := a.Populate(batch)
	if accepted != 3 || dropped != 1 {
		t.Errorf("Populate = %d accepted, %d dropped; want 3, 1", accepted, dropped)
	}
	if a.Capacity() != 5 {
		t.Error("capacity changed")
	}
	for i := 0; i < 5; i++ {
		if !a.At(i).Active {
			t.Errorf("slot %d inactive", i)
		}
	}
	if a.At(0).State.ID != 100 || a.At(2).State.ID != 0 || a.At(4).State.ID != 2 {
		t.Errorf("unexpected slot order: %d %d %d", a.At(0).State.ID, a.At(2).State.ID, a.At(4).State.ID)
	}
}

func TestPopulateDoesNotShareAnimations(t *testing.T) {
	a, _ := NewArena[marker](2, nil)
	tmpl := Entity[marker]{Sprite: sprite.NewBuilder(0).WithAnimations(sprite.NewAnimation(0, 3, 80)).Build()}
	a.Populate([]Entity[marker]{tmpl, tmpl})

	a.At(0).Sprite.Update(100)
	if a.At(1).Sprite.Animations[0].MillisPassed != 0 {
		t.Error("populated entities share animation slices")
	}
}

func TestViewIsScopedToItsCluster(t *testing.T) {
	a, _ := NewArena(4, func(i int) (Entity[marker], bool) {
		return Entity[marker]{State: marker{ID: i}}, true
	})
	p, _ := NewPartition(4, 2, 2)

	v := a.View(p.Range(1))
	var visited []int
	v.Each(func(i int, e *Entity[marker]) {
		visited = append(visited, i)
		if e.State.ID != i {
			t.Errorf("index %d holds entity %d", i, e.State.ID)
		}
	})
	if len(visited) != 2 || visited[0] != 2 || visited[1] != 3 {
		t.Errorf("visited %v, want [2 3]", visited)
	}

	if _, ok := v.Get(1); ok {
		t.Error("Get resolved an index owned by cluster 0")
	}
	defer func() {
		if recover() == nil {
			t.Error("At did not panic for a foreign index")
		}
	}()
	v.At(0)
}

func TestEachActiveSkipsEmptySlots(t *testing.T) {
	a, _ := NewArena[marker](4, nil)
	a.Populate([]Entity[marker]{{State: marker{ID: 7}}})
	p, _ := NewPartition(4, 1, 1)

	n := 0
	a.View(p.Range(0)).EachActive(func(i int, e *Entity[marker]) { n++ })
	if n != 1 {
		t.Errorf("EachActive visited %d, want 1", n)
	}
}
