package render

import (
	"log"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// ShaderManager handles OpenGL shader program compilation, linking, and uniform
// management.
type ShaderManager struct {
	program uint32 // program ID
	uView   int32  // uniform location for the view matrix
	uProj   int32  // uniform location for the projection matrix
	uChunk  int32  // uniform location for the chunk coordinate
	uTint   int32  // uniform location for the material tint
}

// Vertex shader. Unpacks the single-uint vertex stream: local position in
// bits [0,18), light level in bits [18,20). The chunk coordinate uniform is
// scaled to a world-space offset here so vertex data never needs re-upload
// when only the camera moves.
const vertexShaderSource = `
#version 330 core
layout (location = 0) in uint aVertex;

uniform mat4 uView;
uniform mat4 uProj;
uniform ivec3 uChunk;

out float vBrightness;

void main() {
    float x = float(aVertex & 0x3Fu);
    float y = float((aVertex >> 6u) & 0x3Fu);
    float z = float((aVertex >> 12u) & 0x3Fu);
    float light = float((aVertex >> 18u) & 0x3u);

    vec3 world = vec3(uChunk * 32) + vec3(x, y, z);
    gl_Position = uProj * uView * vec4(world, 1.0);
    vBrightness = (3.0 * light + 4.0) / 10.0;
}
` + "\x00"

// Fragment shader. Scales the material tint by the per-face brightness.
const fragmentShaderSource = `
#version 330 core
in float vBrightness;

uniform vec3 uTint;

out vec4 FragColor;

void main() {
    FragColor = vec4(clamp(uTint * vBrightness, 0.0, 1.0), 1.0);
}
` + "\x00"

// NewShaderManager creates and initializes a new shader manager with compiled
// and linked shaders.
func NewShaderManager() *ShaderManager {
	sm := &ShaderManager{}

	// Create and compile shaders.
	vertexShader := sm.compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	defer gl.DeleteShader(vertexShader)

	fragmentShader := sm.compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	defer gl.DeleteShader(fragmentShader)

	// Link shader program.
	sm.program = gl.CreateProgram()
	gl.AttachShader(sm.program, vertexShader)
	gl.AttachShader(sm.program, fragmentShader)
	gl.LinkProgram(sm.program)

	// Check linking status.
	var status int32
	gl.GetProgramiv(sm.program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(sm.program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(sm.program, logLength, nil, gl.Str(logText))
		log.Fatalf("Shader linking failed: %s", logText)
	}

	// Get uniform locations.
	sm.uView = gl.GetUniformLocation(sm.program, gl.Str("uView\x00"))
	sm.uProj = gl.GetUniformLocation(sm.program, gl.Str("uProj\x00"))
	sm.uChunk = gl.GetUniformLocation(sm.program, gl.Str("uChunk\x00"))
	sm.uTint = gl.GetUniformLocation(sm.program, gl.Str("uTint\x00"))
	gl.UseProgram(sm.program) // bind the shader program
	return sm
}

// SetCamera sets the per-frame view and projection matrices.
func (sm *ShaderManager) SetCamera(view, proj mgl32.Mat4) {
	gl.UniformMatrix4fv(sm.uView, 1, false, &view[0])
	gl.UniformMatrix4fv(sm.uProj, 1, false, &proj[0])
}

// SetChunk sets the per-draw chunk coordinate.
func (sm *ShaderManager) SetChunk(chunk [3]int32) {
	gl.Uniform3i(sm.uChunk, chunk[0], chunk[1], chunk[2])
}

// SetTint sets the per-draw material tint.
func (sm *ShaderManager) SetTint(tint [3]float32) {
	gl.Uniform3f(sm.uTint, tint[0], tint[1], tint[2])
}

// compileShader compiles a single shader from source.
func (sm *ShaderManager) compileShader(source string, shaderType uint32) uint32 {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	// Check compilation status.
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		log.Fatalf("Shader compilation failed: %s", logText)
	}

	return shader
}
