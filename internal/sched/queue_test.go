package sched

import (
	"testing"

	"github.com/irfansharif/voxl/internal/voxel"
)

func TestQueuePopsNearestFirst(t *testing.T) {
	viewer := voxel.Coord{}
	q := NewQueue()
	q.Push(voxel.Coord{X: 5}, 1, viewer)
	q.Push(voxel.Coord{X: 1}, 1, viewer)
	q.Push(voxel.Coord{X: 3}, 1, viewer)

	var got []int64
	for {
		task, ok := q.Pop()
		if !ok {
			break
		}
		got = append(got, task.Coord.X)
	}
	want := []int64{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("popped %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order %v, want %v", got, want)
		}
	}
}

func TestQueueTieBreakIsDeterministic(t *testing.T) {
	viewer := voxel.Coord{}
	// All at Chebyshev distance 2, pushed in two different orders.
	coords := []voxel.Coord{
		{X: 2, Y: 0, Z: 0},
		{X: 0, Y: 2, Z: 0},
		{X: 0, Y: 0, Z: 2},
		{X: -2, Y: 1, Z: 1},
	}

	pop := func(q *Queue) []voxel.Coord {
		var out []voxel.Coord
		for {
			task, ok := q.Pop()
			if !ok {
				return out
			}
			out = append(out, task.Coord)
		}
	}

	a := NewQueue()
	for _, c := range coords {
		a.Push(c, 1, viewer)
	}
	b := NewQueue()
	for i := len(coords) - 1; i >= 0; i-- {
		b.Push(coords[i], 1, viewer)
	}

	orderA, orderB := pop(a), pop(b)
	for i := range orderA {
		if orderA[i] != orderB[i] {
			t.Fatalf("insertion order changed pop order: %v vs %v", orderA, orderB)
		}
		if i > 0 && !orderA[i-1].Less(orderA[i]) {
			t.Fatalf("equal-distance coords not in coordinate order: %v", orderA)
		}
	}
}

func TestQueueRerank(t *testing.T) {
	q := NewQueue()
	q.Push(voxel.Coord{X: 1}, 1, voxel.Coord{})
	q.Push(voxel.Coord{X: 9}, 1, voxel.Coord{})

	// Viewer moved next to X=9; it must now pop first.
	q.Rerank(voxel.Coord{X: 10})
	task, ok := q.Pop()
	if !ok || task.Coord.X != 9 {
		t.Fatalf("after rerank popped %v, want X=9", task.Coord)
	}
}

func TestQueueEmptyPop(t *testing.T) {
	q := NewQueue()
	if _, ok := q.Pop(); ok {
		t.Fatalf("pop of empty queue reported a task")
	}
	if q.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", q.Len())
	}
}
