// Package gen synthesizes terrain. The generator is a pure function from
// (chunk coordinate, seed) to a voxel grid: layered 2D gradient noise forms
// a height field, a material band picks grass/dirt/stone by depth, and a 3D
// noise field carves caves below the surface. Identical inputs always
// produce byte-identical grids, which is what lets the rest of the pipeline
// treat cached chunks as a performance optimization rather than storage.
//
// Generators hold only read-only noise state after construction and are
// safe to call concurrently for any coordinates with no synchronization.
package gen

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/irfansharif/voxl/internal/voxel"
)

// Terrain shaping constants. Heights land in [minHeight, minHeight+heightSpan).
const (
	minHeight  = 50
	heightSpan = 100

	heightOctaves     = 4
	heightScale       = 256.0
	heightPersistence = 0.5
	heightLacunarity  = 2.0

	caveScale     = 24.0
	caveThreshold = 0.55
	caveRoofDepth = 6 // caves never breach the top soil band

	dirtBandDepth = 5 // cells below the surface that are dirt rather than stone
)

// Generator produces voxel grids for chunk coordinates. Zero-value is not
// usable; construct with New.
type Generator struct {
	seed   int64
	height opensimplex.Noise
	cave   opensimplex.Noise
}

// New returns a generator for the given world seed.
func New(seed int64) *Generator {
	return &Generator{
		seed:   seed,
		height: opensimplex.New(seed),
		cave:   opensimplex.New(seed + 1),
	}
}

// Seed returns the world seed the generator was built with.
func (g *Generator) Seed() int64 { return g.seed }

// Generate builds the voxel grid for a chunk. Pure and total: it cannot
// fail for any coordinate, and repeated calls yield identical grids.
func (g *Generator) Generate(c voxel.Coord) *voxel.Grid {
	ox, oy, oz := c.Origin()

	// Height field per column, computed once per (x, z).
	var heights [voxel.ChunkSize][voxel.ChunkSize]int64
	for x := 0; x < voxel.ChunkSize; x++ {
		for z := 0; z < voxel.ChunkSize; z++ {
			heights[x][z] = g.HeightAt(ox+int64(x), oz+int64(z))
		}
	}

	grid := &voxel.Grid{}
	for x := 0; x < voxel.ChunkSize; x++ {
		for z := 0; z < voxel.ChunkSize; z++ {
			h := heights[x][z]
			for y := 0; y < voxel.ChunkSize; y++ {
				wy := oy + int64(y)
				if wy >= h {
					break // column is air from here up
				}
				if g.carved(ox+int64(x), wy, oz+int64(z), h) {
					continue
				}
				grid.Set(x, y, z, materialFor(wy, h))
			}
		}
	}
	return grid
}

// HeightAt returns the terrain height (first air Y) of a world column.
func (g *Generator) HeightAt(wx, wz int64) int64 {
	val, amp, norm := 0.0, 1.0, 0.0
	freq := 1.0 / heightScale
	for o := 0; o < heightOctaves; o++ {
		val += g.height.Eval2(float64(wx)*freq, float64(wz)*freq) * amp
		norm += amp
		amp *= heightPersistence
		freq *= heightLacunarity
	}
	val /= norm // back to [-1, 1]
	return minHeight + int64((val+1)/2*heightSpan)
}

// SolidAt reports whether the world-space block at (wx, wy, wz) is solid.
// Consistent with Generate cell-for-cell; the mesher uses it as its
// neighbor-solidity query at chunk boundaries.
func (g *Generator) SolidAt(wx, wy, wz int64) bool {
	h := g.HeightAt(wx, wz)
	if wy >= h {
		return false
	}
	return !g.carved(wx, wy, wz, h)
}

// carved reports whether the cave field removes an otherwise-solid cell.
func (g *Generator) carved(wx, wy, wz, height int64) bool {
	if wy >= height-caveRoofDepth {
		return false
	}
	v := g.cave.Eval3(
		float64(wx)/caveScale,
		float64(wy)/caveScale,
		float64(wz)/caveScale,
	)
	return v > caveThreshold
}

// materialFor picks the material band for a solid cell: grass at the
// surface, dirt just below, stone at depth.
func materialFor(wy, height int64) voxel.Material {
	switch {
	case wy == height-1:
		return voxel.Grass
	case wy >= height-dirtBandDepth:
		return voxel.Dirt
	default:
		return voxel.Stone
	}
}
