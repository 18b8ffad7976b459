// Package mesh turns voxel grids into GPU-ready geometry. The mesher does
// visible-face extraction: each solid voxel emits a quad for every face
// whose adjacent cell is empty, with adjacency across chunk boundaries
// resolved through a caller-supplied solidity query. Vertices use the
// packed wire format defined in codec.go; indices encode two CCW triangles
// per quad in a fixed fan order, (0,1,2)(0,2,3).
package mesh

import (
	"github.com/irfansharif/voxl/internal/voxel"
)

// NeighborFunc reports the solidity of a cell adjacent to the chunk being
// meshed. It is called only for local coordinates with exactly one axis out
// of [0, ChunkSize) by one. A nil NeighborFunc treats everything beyond the
// chunk as empty, so boundary faces are emitted rather than dropped: a
// spurious face under a not-yet-loaded neighbor beats a visible hole.
type NeighborFunc func(x, y, z int) bool

// ChunkMesh is the finished geometry for one chunk. Immutable once built;
// owned by exactly one pipeline stage at a time.
type ChunkMesh struct {
	Coord    voxel.Coord
	Verts    []uint32 // packed vertices, 4 per face
	Indices  []uint32 // 6 per face, fan order (0,1,2)(0,2,3)
	Material voxel.Material // dominant material among emitted faces, used as draw tint
}

// FaceCount returns the number of emitted quads.
func (m *ChunkMesh) FaceCount() int { return len(m.Indices) / 6 }

// Empty reports whether the mesh has no geometry to upload.
func (m *ChunkMesh) Empty() bool { return len(m.Indices) == 0 }

// VertexBytes returns the byte length of the packed vertex stream.
func (m *ChunkMesh) VertexBytes() int { return 4 * len(m.Verts) }

// IndexBytes returns the byte length of the index stream.
func (m *ChunkMesh) IndexBytes() int { return 4 * len(m.Indices) }

// Face directions in the fixed order +X, -X, +Y, -Y, +Z, -Z.
var addends = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Light index per direction: tops brightest, bottoms darkest, sides in
// between. Indexed like addends.
var lights = [6]uint32{1, 1, 3, 0, 2, 2}

// Quad corner offsets per direction, relative to the voxel's minimum
// corner. Ordered so (0,1,2)(0,2,3) triangles wind counter-clockwise as
// seen from outside the solid.
var corners = [6][4][3]uint32{
	{{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}}, // +X
	{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}}, // -X
	{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}, // +Y
	{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}}, // -Y
	{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}, // +Z
	{{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}}, // -Z
}

// Build extracts the visible faces of a grid. A malformed (nil) grid is a
// defect upstream and panics. Safe to run on a worker: it reads only the
// grid it owns and the pure neighbor query.
func Build(coord voxel.Coord, grid *voxel.Grid, neighbor NeighborFunc) *ChunkMesh {
	if grid == nil {
		panic("mesh: nil grid")
	}

	m := &ChunkMesh{Coord: coord}
	if grid.Empty() {
		return m
	}

	var faceCounts [voxel.NumMaterials]int
	for x := 0; x < voxel.ChunkSize; x++ {
		for y := 0; y < voxel.ChunkSize; y++ {
			for z := 0; z < voxel.ChunkSize; z++ {
				mat := grid.At(x, y, z)
				if !mat.Solid() {
					continue
				}
				for d, a := range addends {
					nx, ny, nz := x+a[0], y+a[1], z+a[2]
					var occupied bool
					if voxel.InBounds(nx, ny, nz) {
						occupied = grid.Solid(nx, ny, nz)
					} else if neighbor != nil {
						occupied = neighbor(nx, ny, nz)
					}
					if occupied {
						continue // shared boundary, face never visible
					}
					emitFace(m, x, y, z, d)
					faceCounts[mat]++
				}
			}
		}
	}

	m.Material = dominant(faceCounts)
	return m
}

// emitFace appends one quad: 4 packed vertices and 6 fan indices.
func emitFace(m *ChunkMesh, x, y, z, dir int) {
	base := uint32(len(m.Verts))
	light := lights[dir]
	for _, c := range corners[dir] {
		m.Verts = append(m.Verts, Encode(
			uint32(x)+c[0],
			uint32(y)+c[1],
			uint32(z)+c[2],
			light,
		))
	}
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}

// dominant picks the material contributing the most visible faces.
func dominant(counts [voxel.NumMaterials]int) voxel.Material {
	best, bestCount := voxel.Air, 0
	for mat, n := range counts {
		if n > bestCount {
			best, bestCount = voxel.Material(mat), n
		}
	}
	return best
}
