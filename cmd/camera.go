package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/irfansharif/voxl/internal/voxel"
)

const (
	moveSpeed        = 24.0 // blocks per second
	sprintMultiplier = 4.0
	mouseSensitivity = 0.12 // degrees per pixel
	pitchLimit       = 89.0
)

// Camera is a free-flying first-person camera. Position is in world block
// coordinates; yaw/pitch are in degrees, yaw 0 looking down -Z.
type Camera struct {
	pos        mgl32.Vec3
	yaw, pitch float64
}

// NewCamera places the camera at a world position looking toward -Z.
func NewCamera(pos mgl32.Vec3) *Camera {
	return &Camera{pos: pos, yaw: -90.0}
}

// front returns the unit view direction.
func (c *Camera) front() mgl32.Vec3 {
	yaw, pitch := mgl32.DegToRad(float32(c.yaw)), mgl32.DegToRad(float32(c.pitch))
	return mgl32.Vec3{
		float32(math.Cos(float64(yaw)) * math.Cos(float64(pitch))),
		float32(math.Sin(float64(pitch))),
		float32(math.Sin(float64(yaw)) * math.Cos(float64(pitch))),
	}.Normalize()
}

// View returns the camera's view matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.pos, c.pos.Add(c.front()), mgl32.Vec3{0, 1, 0})
}

// Chunk returns the chunk coordinate the camera is inside of.
func (c *Camera) Chunk() voxel.Coord {
	return voxel.Coord{
		X: floorDiv(c.pos.X()),
		Y: floorDiv(c.pos.Y()),
		Z: floorDiv(c.pos.Z()),
	}
}

// Move translates the camera along its local axes. forward/right/up are
// each in [-1, 1]; dt is the frame time in seconds.
func (c *Camera) Move(forward, right, up float32, sprint bool, dt float64) {
	speed := float32(moveSpeed * dt)
	if sprint {
		speed *= sprintMultiplier
	}

	f := c.front()
	r := f.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	c.pos = c.pos.Add(f.Mul(forward * speed))
	c.pos = c.pos.Add(r.Mul(right * speed))
	c.pos = c.pos.Add(mgl32.Vec3{0, up * speed, 0})
}

// Rotate applies a mouse delta in pixels, clamping pitch so the view never
// flips over the poles.
func (c *Camera) Rotate(dx, dy float64) {
	c.yaw += dx * mouseSensitivity
	c.pitch -= dy * mouseSensitivity
	if c.pitch > pitchLimit {
		c.pitch = pitchLimit
	}
	if c.pitch < -pitchLimit {
		c.pitch = -pitchLimit
	}
}

// floorDiv maps a world block coordinate to its chunk index, rounding
// toward negative infinity so negative positions land in the right chunk.
func floorDiv(v float32) int64 {
	return int64(math.Floor(float64(v) / float64(voxel.ChunkSize)))
}
