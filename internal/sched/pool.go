// Package sched runs chunk generation and meshing off the render thread.
// A fixed pool of workers consumes a bounded task channel and reports
// finished meshes on a bounded completion channel; both channels are the
// only cross-thread sharing points in the pipeline. Grids and meshes are
// whole-value handoffs with a single owner at every instant. Requests that
// don't fit the task channel wait in a distance-ranked priority queue
// (queue.go) instead of blocking the frame.
package sched

import (
	"sync"

	"github.com/irfansharif/voxl/internal/mesh"
	"github.com/irfansharif/voxl/internal/voxel"
)

// Task asks a worker to generate and mesh one chunk. Version is the
// request generation the world index stamped it with; completions carrying
// a stale version are discarded on receipt, which is the whole of the
// cancellation mechanism (in-flight work is never interrupted).
type Task struct {
	Coord   voxel.Coord
	Version uint64
}

// Result is a finished generate+mesh task. The grid rides along so the
// cache can decide whether to retain voxel data past meshing.
type Result struct {
	Coord   voxel.Coord
	Version uint64
	Mesh    *mesh.ChunkMesh
	Grid    *voxel.Grid
}

// Pool is a fixed-size worker pool. Workers exit when the task channel
// closes; no lock is held across generation or meshing.
type Pool struct {
	tasks   chan Task
	results chan Result
	run     func(Task) Result
	wg      sync.WaitGroup
}

// NewPool starts `workers` goroutines applying `run` to submitted tasks.
// Both channels are bounded at queueDepth.
func NewPool(workers, queueDepth int, run func(Task) Result) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 1 {
		queueDepth = 1
	}
	p := &Pool{
		tasks:   make(chan Task, queueDepth),
		results: make(chan Result, queueDepth),
		run:     run,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.results <- p.run(t)
	}
}

// TrySubmit offers a task without blocking. False means the pool is
// saturated and the caller should keep the request queued.
func (p *Pool) TrySubmit(t Task) bool {
	select {
	case p.tasks <- t:
		return true
	default:
		return false
	}
}

// Results is the completion channel, drained by the render thread. It
// closes only after Shutdown, once all in-flight work has finished.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Backlog returns the number of tasks waiting in the submission channel.
func (p *Pool) Backlog() int { return len(p.tasks) }

// Shutdown closes the task channel, lets workers finish in-flight work,
// and drains and discards whatever completions remain.
func (p *Pool) Shutdown() {
	close(p.tasks)
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
	for range p.results {
		// discarded: the world is going away with us
	}
}
