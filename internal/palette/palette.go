// Package palette derives the fixed colors the renderer uses: one tint per
// voxel material and the sky clear color. Colors are authored in HSV via
// go-colorful and converted once at startup.
package palette

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/irfansharif/voxl/internal/voxel"
)

// Palette holds one RGB tint per material, indexed by voxel.Material.
type Palette [voxel.NumMaterials][3]float32

// Terrain returns the material tint table. Air keeps a neutral tint; it
// never reaches the fragment stage but indexing must stay total.
func Terrain() Palette {
	var p Palette
	p[voxel.Air] = rgb(colorful.Hsv(0, 0, 1))
	p[voxel.Grass] = rgb(colorful.Hsv(105, 0.55, 0.75))
	p[voxel.Dirt] = rgb(colorful.Hsv(30, 0.55, 0.55))
	p[voxel.Stone] = rgb(colorful.Hsv(210, 0.08, 0.60))
	return p
}

// Tint returns the tint for a material.
func (p Palette) Tint(m voxel.Material) [3]float32 {
	return p[m]
}

// Sky returns the clear color behind the terrain.
func Sky() [3]float32 {
	return rgb(colorful.Hsv(205, 0.45, 0.92))
}

func rgb(c colorful.Color) [3]float32 {
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}
