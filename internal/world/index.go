// Package world owns the chunk lifecycle. The index is the single authority
// on what each chunk coordinate is doing: every chunk is in exactly one
// lifecycle state, at most one generate+mesh task is in flight per
// coordinate, and every state transition happens on the render thread.
// Workers never touch the index; they communicate only through the
// scheduler's channels.
package world

import (
	"io"
	"log"
	"os"

	"github.com/irfansharif/voxl/internal/cache"
	"github.com/irfansharif/voxl/internal/gen"
	"github.com/irfansharif/voxl/internal/mesh"
	"github.com/irfansharif/voxl/internal/palette"
	"github.com/irfansharif/voxl/internal/sched"
	"github.com/irfansharif/voxl/internal/voxel"
)

var worldLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("VOXL_DEBUG_WORLD") == "1" {
		worldLogger = log.New(os.Stdout, "[world] ", log.Ltime|log.Lmsgprefix)
	}
}

// discardMargin widens the eviction boundary past the view radius so chunks
// on the edge don't thrash between load and evict as the viewer oscillates.
const discardMargin = 2

// State is a chunk coordinate's position in the streaming lifecycle.
type State uint8

const (
	// Unloaded chunks have no entry in the index at all.
	Unloaded State = iota
	// Queued chunks wait in the priority queue for a pool slot.
	Queued
	// Generating chunks have a task in flight on the worker pool. The name
	// covers meshing too: generation and meshing run back to back on the
	// same worker without an observable seam.
	Generating
	// Ready chunks are resident, with a GPU buffer if they have geometry.
	Ready
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Queued:
		return "queued"
	case Generating:
		return "generating"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Uploader is the GPU surface the index drives. Satisfied by
// memory.Controller; tests substitute a fake to run without a GL context.
type Uploader interface {
	Upload(m *mesh.ChunkMesh, tint [3]float32) error
	Release(coord voxel.Coord) bool
}

// Config sizes the streaming pipeline.
type Config struct {
	Seed             int64
	ViewRadius       int64 // Chebyshev chunk radius kept loaded around the viewer
	Workers          int   // worker goroutines generating and meshing
	QueueDepth       int   // task and completion channel capacity
	CacheCapacity    int   // maximum resident chunks
	CompletionBudget int   // completions applied per frame
}

// Index tracks every chunk's lifecycle state and moves chunks through the
// generate, mesh, upload, evict pipeline. Not safe for concurrent use; it
// belongs to the render thread.
type Index struct {
	cfg      Config
	gen      *gen.Generator
	pal      palette.Palette
	queue    *sched.Queue
	pool     *sched.Pool
	cache    *cache.Cache
	uploader Uploader

	states   map[voxel.Coord]State
	versions map[voxel.Coord]uint64

	stats Stats
}

// Stats counts pipeline activity since construction.
type Stats struct {
	Requested       int // chunks entering the pipeline
	Completed       int // worker completions applied
	StaleDropped    int // completions discarded for version mismatch
	EmptyChunks     int // chunks ready with no geometry
	Uploaded        int // chunks ready with a GPU buffer
	RadiusEvicted   int // chunks evicted for leaving the discard radius
	CapacityEvicted int // chunks evicted by the cache capacity bound
}

// NewIndex builds the pipeline: generator, worker pool, request queue, and
// chunk cache, wired to the given uploader.
func NewIndex(cfg Config, uploader Uploader) *Index {
	if cfg.ViewRadius < 0 {
		panic("world: negative view radius")
	}
	if cfg.CompletionBudget < 1 {
		cfg.CompletionBudget = 1
	}

	idx := &Index{
		cfg:      cfg,
		gen:      gen.New(cfg.Seed),
		pal:      palette.Terrain(),
		queue:    sched.NewQueue(),
		cache:    cache.New(cfg.CacheCapacity),
		uploader: uploader,
		states:   make(map[voxel.Coord]State),
		versions: make(map[voxel.Coord]uint64),
	}
	idx.pool = sched.NewPool(cfg.Workers, cfg.QueueDepth, idx.runTask)
	return idx
}

// runTask generates and meshes one chunk. Runs on a worker goroutine; it
// touches only the generator (stateless after construction) and values the
// task owns.
func (idx *Index) runTask(t sched.Task) sched.Result {
	grid := idx.gen.Generate(t.Coord)
	ox, oy, oz := t.Coord.Origin()
	m := mesh.Build(t.Coord, grid, func(x, y, z int) bool {
		return idx.gen.SolidAt(ox+int64(x), oy+int64(y), oz+int64(z))
	})
	return sched.Result{Coord: t.Coord, Version: t.Version, Mesh: m, Grid: grid}
}

// Update advances the pipeline one frame: requests newly in-range chunks,
// refreshes cache recency for resident ones, re-ranks the queue against the
// viewer, feeds the pool, applies completions, and evicts out-of-range
// chunks.
func (idx *Index) Update(viewer voxel.Coord) {
	idx.request(viewer)
	idx.queue.Rerank(viewer)
	idx.pump()
	idx.applyCompletions()
	idx.evict(viewer)
}

// request walks the view cube and starts loading any chunk not already in
// the pipeline. A coordinate with an existing entry is never re-requested:
// duplicate demand collapses into a cache touch.
func (idx *Index) request(viewer voxel.Coord) {
	r := idx.cfg.ViewRadius
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			for dz := -r; dz <= r; dz++ {
				coord := voxel.Coord{X: viewer.X + dx, Y: viewer.Y + dy, Z: viewer.Z + dz}
				switch idx.states[coord] {
				case Unloaded:
					idx.versions[coord]++
					idx.states[coord] = Queued
					idx.queue.Push(coord, idx.versions[coord], viewer)
					idx.stats.Requested++
				case Ready:
					idx.cache.Touch(coord)
				}
			}
		}
	}
}

// pump moves queued requests onto the worker pool until it saturates.
// Requests whose version went stale while queued are dropped on pop.
func (idx *Index) pump() {
	for {
		t, ok := idx.queue.Pop()
		if !ok {
			return
		}
		if idx.states[t.Coord] != Queued || idx.versions[t.Coord] != t.Version {
			continue // cancelled while waiting
		}
		if !idx.pool.TrySubmit(t) {
			// Pool saturated: put it back and stop. Rerank restores heap
			// order next frame regardless.
			idx.queue.Push(t.Coord, t.Version, t.Coord)
			return
		}
		idx.states[t.Coord] = Generating
	}
}

// applyCompletions drains up to CompletionBudget finished chunks from the
// pool and makes them resident. The budget bounds per-frame upload work so
// a burst of completions can't stall the frame.
func (idx *Index) applyCompletions() {
	for i := 0; i < idx.cfg.CompletionBudget; i++ {
		var res sched.Result
		var ok bool
		select {
		case res, ok = <-idx.pool.Results():
			if !ok {
				log.Fatalf("world: worker pool closed while index is live")
			}
		default:
			return
		}

		if idx.versions[res.Coord] != res.Version || idx.states[res.Coord] != Generating {
			// Stale: the chunk was evicted or re-requested after this task
			// was submitted. The work is simply discarded.
			idx.stats.StaleDropped++
			worldLogger.Printf("dropped stale completion for %s (version %d)", res.Coord, res.Version)
			continue
		}
		idx.stats.Completed++

		if res.Mesh.Empty() {
			idx.stats.EmptyChunks++
		} else {
			tint := idx.pal.Tint(res.Mesh.Material)
			if err := idx.uploader.Upload(res.Mesh, tint); err != nil {
				// The controller already flushed its free lists and retried.
				log.Fatalf("world: chunk upload failed: %v", err)
			}
			idx.stats.Uploaded++
		}
		idx.states[res.Coord] = Ready

		// Voxel data is dropped here: the generator reproduces it from the
		// seed, so the cache tracks residency, not storage.
		for _, victim := range idx.cache.Insert(res.Coord, nil) {
			idx.unload(victim)
			idx.stats.CapacityEvicted++
			worldLogger.Printf("capacity-evicted chunk %s", victim)
		}
	}
}

// evict unloads every chunk beyond the discard radius. Resident chunks
// release their buffer; queued and in-flight ones are cancelled by version
// bump, the completion recognized as stale when it surfaces.
func (idx *Index) evict(viewer voxel.Coord) {
	discard := idx.cfg.ViewRadius + discardMargin
	for _, coord := range idx.cache.CoordsOutside(viewer, discard) {
		idx.cache.Remove(coord)
		idx.unload(coord)
		idx.stats.RadiusEvicted++
		worldLogger.Printf("radius-evicted chunk %s", coord)
	}
	for coord, state := range idx.states {
		if state != Queued && state != Generating {
			continue
		}
		if coord.Chebyshev(viewer) <= discard {
			continue
		}
		idx.versions[coord]++
		delete(idx.states, coord)
	}
}

// unload releases a resident chunk's buffer (if any) and forgets it.
func (idx *Index) unload(coord voxel.Coord) {
	idx.uploader.Release(coord)
	idx.versions[coord]++
	delete(idx.states, coord)
}

// StateOf returns a coordinate's lifecycle state.
func (idx *Index) StateOf(coord voxel.Coord) State {
	return idx.states[coord]
}

// Resident returns the number of chunks in the cache.
func (idx *Index) Resident() int { return idx.cache.Len() }

// Pending returns the number of chunks queued or in flight.
func (idx *Index) Pending() int {
	n := 0
	for _, s := range idx.states {
		if s == Queued || s == Generating {
			n++
		}
	}
	return n
}

// Stats returns a copy of the pipeline counters.
func (idx *Index) Stats() Stats { return idx.stats }

// CacheStats returns the chunk cache's counters.
func (idx *Index) CacheStats() cache.Stats { return idx.cache.Stats() }

// Shutdown stops the worker pool, discarding in-flight work.
func (idx *Index) Shutdown() {
	idx.pool.Shutdown()
}
