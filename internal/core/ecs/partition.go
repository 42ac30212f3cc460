package ecs

import "fmt"

// Range is a half-open span [Lo, Hi) of arena indices.
type Range struct {
	Lo, Hi int
}

func (r Range) Len() int { return r.Hi - r.Lo }

func (r Range) Contains(i int) bool { return i >= r.Lo && i < r.Hi }

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Lo, r.Hi) }

// Partition splits an arena into contiguous, disjoint clusters. It is
// computed once at startup and never changes.
type Partition struct {
	capacity int
	ranges   []Range
}

// NewPartition divides capacity into clusters near-equal ranges; the
// remainder goes one extra slot each to the earliest clusters. maxWorkers
// bounds how many clusters may be requested.
func NewPartition(capacity, clusters, maxWorkers int) (Partition, error) {
	if capacity <= 0 {
		return Partition{}, fmt.Errorf("partition %d slots: %w", capacity, ErrInvalidCapacity)
	}
	if clusters <= 0 || clusters > capacity {
		return Partition{}, fmt.Errorf("partition %d slots into %d: %w", capacity, clusters, ErrInvalidClusterCount)
	}
	if clusters > maxWorkers {
		return Partition{}, fmt.Errorf("partition into %d clusters with %d workers: %w", clusters, maxWorkers, ErrTooManyClusters)
	}

	base := capacity / clusters
	extra := capacity % clusters
	ranges := make([]Range, clusters)
	lo := 0
	for i := range ranges {
		n := base
		if i < extra {
			n++
		}
		ranges[i] = Range{Lo: lo, Hi: lo + n}
		lo += n
	}
	return Partition{capacity: capacity, ranges: ranges}, nil
}

// Clusters returns the number of clusters.
func (p Partition) Clusters() int { return len(p.ranges) }

// Capacity returns the partitioned slot count.
func (p Partition) Capacity() int { return p.capacity }

// Range returns cluster id's span.
func (p Partition) Range(id int) Range { return p.ranges[id] }

// Ranges returns a copy of every cluster's span in cluster order.
func (p Partition) Ranges() []Range {
	return append([]Range(nil), p.ranges...)
}

// Owner returns the cluster that owns arena index i, or -1.
func (p Partition) Owner(i int) int {
	if i < 0 || i >= p.capacity {
		return -1
	}
	lo, hi := 0, len(p.ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		switch r := p.ranges[mid]; {
		case i < r.Lo:
			hi = mid
		case i >= r.Hi:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}
