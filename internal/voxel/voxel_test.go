package voxel

import "testing"

func TestCoordOrigin(t *testing.T) {
	tests := []struct {
		coord      Coord
		ox, oy, oz int64
	}{
		{Coord{0, 0, 0}, 0, 0, 0},
		{Coord{1, 2, 3}, 32, 64, 96},
		{Coord{-1, -1, -1}, -32, -32, -32},
	}
	for _, tc := range tests {
		ox, oy, oz := tc.coord.Origin()
		if ox != tc.ox || oy != tc.oy || oz != tc.oz {
			t.Errorf("%v.Origin() = (%d, %d, %d), want (%d, %d, %d)",
				tc.coord, ox, oy, oz, tc.ox, tc.oy, tc.oz)
		}
	}
}

func TestCoordChebyshev(t *testing.T) {
	tests := []struct {
		a, b Coord
		want int64
	}{
		{Coord{0, 0, 0}, Coord{0, 0, 0}, 0},
		{Coord{0, 0, 0}, Coord{3, 1, 2}, 3},
		{Coord{0, 0, 0}, Coord{-5, 2, 1}, 5},
		{Coord{2, 2, 2}, Coord{1, 1, 9}, 7},
	}
	for _, tc := range tests {
		if got := tc.a.Chebyshev(tc.b); got != tc.want {
			t.Errorf("%v.Chebyshev(%v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if got := tc.b.Chebyshev(tc.a); got != tc.want {
			t.Errorf("Chebyshev not symmetric for %v, %v", tc.a, tc.b)
		}
	}
}

func TestCoordLess(t *testing.T) {
	ordered := []Coord{
		{-1, 5, 5},
		{0, -1, 9},
		{0, 0, -1},
		{0, 0, 0},
		{0, 0, 1},
		{1, -9, -9},
	}
	for i := 0; i < len(ordered)-1; i++ {
		if !ordered[i].Less(ordered[i+1]) {
			t.Errorf("expected %v < %v", ordered[i], ordered[i+1])
		}
		if ordered[i+1].Less(ordered[i]) {
			t.Errorf("expected !(%v < %v)", ordered[i+1], ordered[i])
		}
	}
	c := Coord{1, 2, 3}
	if c.Less(c) {
		t.Errorf("coord compares less than itself")
	}
}

func TestGridSetTracksSolidCount(t *testing.T) {
	var g Grid
	if !g.Empty() {
		t.Fatalf("zero grid not empty")
	}

	g.Set(1, 2, 3, Stone)
	g.Set(1, 2, 3, Dirt) // overwrite solid with solid
	g.Set(0, 0, 0, Grass)
	if got := g.SolidCount(); got != 2 {
		t.Fatalf("SolidCount() = %d, want 2", got)
	}
	if g.At(1, 2, 3) != Dirt {
		t.Fatalf("At(1,2,3) = %v, want dirt", g.At(1, 2, 3))
	}

	g.Set(1, 2, 3, Air)
	if got := g.SolidCount(); got != 1 {
		t.Fatalf("SolidCount() after clear = %d, want 1", got)
	}
	g.Set(0, 0, 0, Air)
	if !g.Empty() {
		t.Fatalf("grid not empty after clearing all cells")
	}
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		x, y, z int
		want    bool
	}{
		{0, 0, 0, true},
		{31, 31, 31, true},
		{32, 0, 0, false},
		{0, -1, 0, false},
		{0, 0, 32, false},
	}
	for _, tc := range tests {
		if got := InBounds(tc.x, tc.y, tc.z); got != tc.want {
			t.Errorf("InBounds(%d, %d, %d) = %v, want %v", tc.x, tc.y, tc.z, got, tc.want)
		}
	}
}

func TestIndexIsBijective(t *testing.T) {
	seen := make(map[int]bool, CellsPerChunk)
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				idx := Index(x, y, z)
				if idx < 0 || idx >= CellsPerChunk {
					t.Fatalf("Index(%d, %d, %d) = %d out of range", x, y, z, idx)
				}
				if seen[idx] {
					t.Fatalf("Index(%d, %d, %d) = %d collides", x, y, z, idx)
				}
				seen[idx] = true
			}
		}
	}
}

func TestMaterialSolid(t *testing.T) {
	if Air.Solid() {
		t.Errorf("air is solid")
	}
	for _, m := range []Material{Grass, Dirt, Stone} {
		if !m.Solid() {
			t.Errorf("%v not solid", m)
		}
	}
}
