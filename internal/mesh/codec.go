package mesh

import "fmt"

// Packed voxel vertex wire format, one little-endian uint32 per vertex as
// consumed by the vertex stage:
//
//	bits [0,6)   local x, 0..63
//	bits [6,12)  local y, 0..63
//	bits [12,18) local z, 0..63
//	bits [18,20) light index, 0..3
//	bits [20,32) unused, zero
//
// Local coordinates get one bit of margin past ChunkSize so face corners on
// the +X/+Y/+Z chunk boundary (value 32) still fit.
const (
	coordBits   = 6
	coordMax    = 1<<coordBits - 1 // 63
	lightBits   = 2
	LightLevels = 1 << lightBits // 4

	xShift     = 0
	yShift     = coordBits
	zShift     = 2 * coordBits
	lightShift = 3 * coordBits
)

// Encode packs a local vertex position and light index into the wire
// format. Out-of-range inputs are a programming defect upstream (the mesher
// can never produce them), so Encode fails fast rather than truncate:
// silent masking would corrupt geometry unnoticeably.
func Encode(x, y, z, light uint32) uint32 {
	if x > coordMax || y > coordMax || z > coordMax {
		panic(fmt.Sprintf("mesh: vertex coordinate out of range: (%d, %d, %d)", x, y, z))
	}
	if light >= LightLevels {
		panic(fmt.Sprintf("mesh: light index out of range: %d", light))
	}
	return x<<xShift | y<<yShift | z<<zShift | light<<lightShift
}

// Decode unpacks a wire-format vertex. Exact inverse of Encode for all
// valid inputs. Nonzero unused bits mean the value never came from Encode;
// that is a defect, not data to clamp.
func Decode(v uint32) (x, y, z, light uint32) {
	if v>>(lightShift+lightBits) != 0 {
		panic(fmt.Sprintf("mesh: packed vertex has nonzero reserved bits: %#x", v))
	}
	x = v >> xShift & coordMax
	y = v >> yShift & coordMax
	z = v >> zShift & coordMax
	light = v >> lightShift & (LightLevels - 1)
	return x, y, z, light
}

// Brightness maps a light index to the brightness factor applied in the
// fragment stage: (3*light + 4) / 10, i.e. 0.4, 0.7, 1.0, 1.3 (the last
// clamps during shading).
func Brightness(light uint32) float32 {
	return float32(3*light+4) / 10.0
}

// Uncompressed is the alternate per-vertex record: one unsigned byte per
// axis with the full 0..255 range, for geometry that needs finer local
// detail than the packed format's 6-bit components.
type Uncompressed struct {
	X, Y, Z uint8
}
