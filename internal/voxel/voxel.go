// Package voxel defines the core world units: chunk coordinates, materials,
// and the dense voxel grid a chunk is made of. These are plain value types
// shared by the generator, the mesher, and the world index; none of them
// touch the GPU or do any synchronization of their own.
package voxel

import "fmt"

const (
	// ChunkSize is the edge length of a chunk in voxels. Chunks tile space
	// as ChunkSize^3 cubes.
	ChunkSize = 32

	// CellsPerChunk is the number of voxel cells in one chunk.
	CellsPerChunk = ChunkSize * ChunkSize * ChunkSize
)

// Coord identifies a chunk. Chunk (0,0,0) spans world blocks
// [0, ChunkSize) on each axis. Comparable by value; used as the sole map
// key across the pipeline.
type Coord struct {
	X, Y, Z int64
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Origin returns the world-space block coordinate of the chunk's minimum
// corner.
func (c Coord) Origin() (int64, int64, int64) {
	return c.X * ChunkSize, c.Y * ChunkSize, c.Z * ChunkSize
}

// Chebyshev returns the Chebyshev (chessboard) distance to another chunk
// coordinate, the metric the view radius is measured in.
func (c Coord) Chebyshev(o Coord) int64 {
	d := absi64(c.X - o.X)
	if dy := absi64(c.Y - o.Y); dy > d {
		d = dy
	}
	if dz := absi64(c.Z - o.Z); dz > d {
		d = dz
	}
	return d
}

// Less orders coordinates lexicographically by (X, Y, Z). Used to break
// priority ties deterministically.
func (c Coord) Less(o Coord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.Z < o.Z
}

func absi64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Material is the closed set of voxel materials the generator produces.
// Air marks an empty cell.
type Material uint8

const (
	Air Material = iota
	Grass
	Dirt
	Stone

	NumMaterials = 4
)

func (m Material) String() string {
	switch m {
	case Air:
		return "air"
	case Grass:
		return "grass"
	case Dirt:
		return "dirt"
	case Stone:
		return "stone"
	default:
		return "unknown"
	}
}

// Solid reports whether the material occupies its cell.
func (m Material) Solid() bool { return m != Air }

// Grid is the dense voxel contents of one chunk. It is produced once by
// the generator and immutable afterwards: exactly one goroutine owns it at
// any point in time, so it carries no locks.
type Grid struct {
	cells [CellsPerChunk]Material
	solid int // count of non-Air cells
}

// Index maps local coordinates to the flat cell index, x-major then y.
func Index(x, y, z int) int {
	return (x*ChunkSize+y)*ChunkSize + z
}

// InBounds reports whether a local coordinate lies within the chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize &&
		y >= 0 && y < ChunkSize &&
		z >= 0 && z < ChunkSize
}

// At returns the material at a local coordinate.
func (g *Grid) At(x, y, z int) Material {
	return g.cells[Index(x, y, z)]
}

// Solid reports whether the cell at a local coordinate is occupied.
func (g *Grid) Solid(x, y, z int) bool {
	return g.cells[Index(x, y, z)].Solid()
}

// Set writes a cell. Only the generator calls this, before handoff.
func (g *Grid) Set(x, y, z int, m Material) {
	idx := Index(x, y, z)
	was, is := g.cells[idx].Solid(), m.Solid()
	if is && !was {
		g.solid++
	} else if was && !is {
		g.solid--
	}
	g.cells[idx] = m
}

// SolidCount returns the number of occupied cells.
func (g *Grid) SolidCount() int { return g.solid }

// Empty reports whether the chunk contains no solid cells at all, letting
// the pipeline skip meshing and upload entirely.
func (g *Grid) Empty() bool { return g.solid == 0 }
