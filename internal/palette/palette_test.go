package palette

import (
	"testing"

	"github.com/irfansharif/voxl/internal/voxel"
)

func TestTerrainTintsAreDistinct(t *testing.T) {
	p := Terrain()
	solids := []voxel.Material{voxel.Grass, voxel.Dirt, voxel.Stone}
	for i, a := range solids {
		tint := p.Tint(a)
		if tint == ([3]float32{}) {
			t.Errorf("%v tint is black", a)
		}
		for _, c := range tint {
			if c < 0 || c > 1 {
				t.Errorf("%v tint component %v outside [0, 1]", a, c)
			}
		}
		for _, b := range solids[i+1:] {
			if p.Tint(a) == p.Tint(b) {
				t.Errorf("%v and %v share a tint", a, b)
			}
		}
	}
}

func TestSkyInRange(t *testing.T) {
	for _, c := range Sky() {
		if c < 0 || c > 1 {
			t.Errorf("sky component %v outside [0, 1]", c)
		}
	}
}
