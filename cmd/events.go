package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// EventHandlers manages all input handling for the viewer.
type EventHandlers struct {
	window *glfw.Window
	camera *Camera

	// Mouse-look state. The cursor is captured while flying; Escape releases
	// it and the next click recaptures.
	captured               bool
	firstMouse             bool
	lastMouseX, lastMouseY float64
}

// NewEventHandlers creates a new event handlers manager with the cursor
// captured for mouse look.
func NewEventHandlers(window *glfw.Window, camera *Camera) *EventHandlers {
	eh := &EventHandlers{
		window:     window,
		camera:     camera,
		firstMouse: true,
	}
	eh.capture()
	eh.SetupCallbacks(window)
	return eh
}

// SetupCallbacks configures all GLFW event callbacks.
func (eh *EventHandlers) SetupCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(wnd *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		eh.handleKey(key, action)
	})
	window.SetCursorPosCallback(func(wnd *glfw.Window, xpos, ypos float64) {
		eh.handleCursorPos(xpos, ypos) // for mouse look
	})
	window.SetMouseButtonCallback(func(wnd *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press && !eh.captured {
			eh.capture() // click to recapture after Escape
		}
	})
}

// handleKey handles discrete key events; movement keys are polled each
// frame instead, for framerate-independent motion.
func (eh *EventHandlers) handleKey(key glfw.Key, action glfw.Action) {
	if key == glfw.KeyEscape && action == glfw.Press {
		if eh.captured {
			eh.release()
		} else {
			eh.window.SetShouldClose(true)
		}
	}
}

// handleCursorPos feeds mouse movement into the camera while captured.
func (eh *EventHandlers) handleCursorPos(xpos, ypos float64) {
	if !eh.captured {
		return
	}
	if eh.firstMouse {
		// Swallow the first sample so capture doesn't cause a view jump.
		eh.lastMouseX, eh.lastMouseY = xpos, ypos
		eh.firstMouse = false
		return
	}
	eh.camera.Rotate(xpos-eh.lastMouseX, ypos-eh.lastMouseY)
	eh.lastMouseX, eh.lastMouseY = xpos, ypos
}

// handleContinuousMovement polls the movement keys and advances the camera.
// Called once per frame from the main loop.
func (eh *EventHandlers) handleContinuousMovement(dt float64) {
	if !eh.captured {
		return
	}

	var forward, right, up float32
	if eh.window.GetKey(glfw.KeyW) == glfw.Press {
		forward++
	}
	if eh.window.GetKey(glfw.KeyS) == glfw.Press {
		forward--
	}
	if eh.window.GetKey(glfw.KeyD) == glfw.Press {
		right++
	}
	if eh.window.GetKey(glfw.KeyA) == glfw.Press {
		right--
	}
	if eh.window.GetKey(glfw.KeySpace) == glfw.Press {
		up++
	}
	if eh.window.GetKey(glfw.KeyLeftControl) == glfw.Press {
		up--
	}
	sprint := eh.window.GetKey(glfw.KeyLeftShift) == glfw.Press

	if forward != 0 || right != 0 || up != 0 {
		eh.camera.Move(forward, right, up, sprint, dt)
	}
}

func (eh *EventHandlers) capture() {
	eh.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	eh.captured = true
	eh.firstMouse = true
}

func (eh *EventHandlers) release() {
	eh.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	eh.captured = false
}
