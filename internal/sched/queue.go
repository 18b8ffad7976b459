package sched

import (
	"container/heap"

	"github.com/irfansharif/voxl/internal/voxel"
)

// Queue holds chunk requests that have not yet been handed to the pool,
// ordered by Chebyshev distance to the viewer with coordinate order
// breaking ties so scheduling is deterministic for a given viewer
// position. Not safe for concurrent use; only the render thread touches it.
type Queue struct {
	items queueItems
}

type queueItem struct {
	coord    voxel.Coord
	version  uint64
	priority int64
}

type queueItems []queueItem

func (q queueItems) Len() int { return len(q) }
func (q queueItems) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].coord.Less(q[j].coord)
}
func (q queueItems) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *queueItems) Push(x any)   { *q = append(*q, x.(queueItem)) }
func (q *queueItems) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// NewQueue returns an empty request queue.
func NewQueue() *Queue { return &Queue{} }

// Len returns the number of queued requests.
func (q *Queue) Len() int { return q.items.Len() }

// Push enqueues a request at its distance from the viewer.
func (q *Queue) Push(coord voxel.Coord, version uint64, viewer voxel.Coord) {
	heap.Push(&q.items, queueItem{
		coord:    coord,
		version:  version,
		priority: coord.Chebyshev(viewer),
	})
}

// Pop removes and returns the nearest queued request.
func (q *Queue) Pop() (Task, bool) {
	if q.items.Len() == 0 {
		return Task{}, false
	}
	it := heap.Pop(&q.items).(queueItem)
	return Task{Coord: it.coord, Version: it.version}, true
}

// Rerank recomputes every request's priority against the current viewer
// position. Called once per frame before draining the queue; the queue is
// a priority structure, not FIFO, so chunks near the viewer always mesh
// first even after the viewer moves.
func (q *Queue) Rerank(viewer voxel.Coord) {
	for i := range q.items {
		q.items[i].priority = q.items[i].coord.Chebyshev(viewer)
	}
	heap.Init(&q.items)
}
