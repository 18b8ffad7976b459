// Package render draws the resident chunk set.
//
// The renderer owns the shader program and the per-frame GL state; chunk
// geometry lives in the memory controller's buffers and is referenced here
// only through draw descriptors. One draw call per non-empty chunk.
package render

import (
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/irfansharif/voxl/internal/memory"
	"github.com/irfansharif/voxl/internal/palette"
)

type Renderer struct {
	memController *memory.Controller
	shaderManager *ShaderManager

	view, proj mgl32.Mat4
	stats      Stats
}

// Stats tracks rendering performance metrics.
type Stats struct {
	LastDrawTimeUs float64 // time spent in last Draw() call in microseconds
	DrawCalls      int     // chunk draw calls issued by last Draw()
}

func NewRenderer(memController *memory.Controller) *Renderer {
	r := &Renderer{
		shaderManager: NewShaderManager(),
		memController: memController,
		view:          mgl32.Ident4(),
		proj:          mgl32.Ident4(),
	}

	sky := palette.Sky()
	gl.ClearColor(sky[0], sky[1], sky[2], 1.0)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE) // faces are emitted counter-clockwise from outside

	return r
}

// SetCamera records the view and projection matrices for the next Draw.
func (r *Renderer) SetCamera(view, proj mgl32.Mat4) {
	r.view = view
	r.proj = proj
}

// Draw clears the frame and issues one indexed draw per resident chunk.
func (r *Renderer) Draw() {
	startTime := time.Now()

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.shaderManager.SetCamera(r.view, r.proj)

	draws := r.memController.Descriptors()
	for _, d := range draws {
		r.shaderManager.SetChunk(d.Chunk)
		r.shaderManager.SetTint(d.Tint)
		gl.BindVertexArray(d.VAO)
		gl.DrawElements(gl.TRIANGLES, d.IndexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	}
	gl.BindVertexArray(0)

	// Record draw time.
	r.stats.LastDrawTimeUs = float64(time.Since(startTime).Microseconds())
	r.stats.DrawCalls = len(draws)
}

// Stats returns the current performance statistics.
func (r *Renderer) Stats() Stats {
	return r.stats
}
