// Package cache bounds the set of resident chunks. Entries are inserted
// when a chunk becomes ready; the primary eviction signal is leaving the
// view radius (driven by the world index), and a secondary capacity policy
// evicts the least-valuable entries - least recently used, with access
// frequency breaking ties - when residency exceeds the configured maximum
// even within radius. The cache never owns GPU resources itself; it only
// tells its caller which coordinates to release.
package cache

import (
	"github.com/irfansharif/voxl/internal/voxel"
)

// Record is one resident chunk's cache entry. Grid may be nil: voxel data
// is optional after meshing and most callers drop it to save memory, since
// the generator can reproduce it from the seed.
type Record struct {
	Coord voxel.Coord
	Grid  *voxel.Grid

	lastAccess uint64 // logical clock tick of last touch
	hits       uint64 // touches since insertion
}

// Cache tracks resident chunks up to a fixed capacity. Not safe for
// concurrent use; only the render thread touches it.
type Cache struct {
	capacity int
	entries  map[voxel.Coord]*Record
	clock    uint64

	stats Stats
}

// Stats counts cache activity since construction.
type Stats struct {
	Inserts           int
	Hits              int
	RadiusEvictions   int
	CapacityEvictions int
}

// New returns a cache bounded at capacity chunks. Capacity below 1 is a
// configuration defect.
func New(capacity int) *Cache {
	if capacity < 1 {
		panic("cache: capacity must be positive")
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[voxel.Coord]*Record),
	}
}

// Len returns the resident chunk count. Never exceeds capacity.
func (c *Cache) Len() int { return len(c.entries) }

// Contains reports whether a coordinate is resident.
func (c *Cache) Contains(coord voxel.Coord) bool {
	_, ok := c.entries[coord]
	return ok
}

// Touch refreshes a coordinate's recency and frequency. Returns false if
// the coordinate is not resident.
func (c *Cache) Touch(coord voxel.Coord) bool {
	rec, ok := c.entries[coord]
	if !ok {
		return false
	}
	c.clock++
	rec.lastAccess = c.clock
	rec.hits++
	c.stats.Hits++
	return true
}

// Insert makes a chunk resident. If that pushes residency past capacity,
// the least-valuable other entries are evicted and their coordinates
// returned so the caller can release GPU buffers and reset lifecycle
// state. The just-inserted chunk is never its own victim.
func (c *Cache) Insert(coord voxel.Coord, grid *voxel.Grid) []voxel.Coord {
	c.clock++
	c.entries[coord] = &Record{
		Coord:      coord,
		Grid:       grid,
		lastAccess: c.clock,
	}
	c.stats.Inserts++

	var evicted []voxel.Coord
	for len(c.entries) > c.capacity {
		victim, ok := c.victim(coord)
		if !ok {
			break
		}
		delete(c.entries, victim)
		evicted = append(evicted, victim)
		c.stats.CapacityEvictions++
	}
	return evicted
}

// Remove drops a coordinate (radius eviction path). Returns false if it
// was not resident.
func (c *Cache) Remove(coord voxel.Coord) bool {
	if _, ok := c.entries[coord]; !ok {
		return false
	}
	delete(c.entries, coord)
	c.stats.RadiusEvictions++
	return true
}

// CoordsOutside returns every resident coordinate farther than radius
// (Chebyshev) from center, the per-frame radius-eviction candidates.
func (c *Cache) CoordsOutside(center voxel.Coord, radius int64) []voxel.Coord {
	var out []voxel.Coord
	for coord := range c.entries {
		if coord.Chebyshev(center) > radius {
			out = append(out, coord)
		}
	}
	return out
}

// Stats returns a copy of the activity counters.
func (c *Cache) Stats() Stats { return c.stats }

// victim picks the entry with the oldest access, breaking ties by fewer
// hits and then coordinate order, skipping the protected coordinate.
func (c *Cache) victim(protected voxel.Coord) (voxel.Coord, bool) {
	var best *Record
	for coord, rec := range c.entries {
		if coord == protected {
			continue
		}
		if best == nil || worse(rec, best) {
			best = rec
		}
	}
	if best == nil {
		return voxel.Coord{}, false
	}
	return best.Coord, true
}

// worse reports whether a is a better eviction victim than b.
func worse(a, b *Record) bool {
	if a.lastAccess != b.lastAccess {
		return a.lastAccess < b.lastAccess
	}
	if a.hits != b.hits {
		return a.hits < b.hits
	}
	return a.Coord.Less(b.Coord)
}
