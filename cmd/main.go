package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/irfansharif/voxl/internal/memory"
	"github.com/irfansharif/voxl/internal/render"
	"github.com/irfansharif/voxl/internal/voxel"
	"github.com/irfansharif/voxl/internal/world"
)

const logFlags = log.Ltime | log.Lshortfile

var (
	viewRadius       = flag.Int64("radius", 6, "view radius in chunks (Chebyshev)")
	workers          = flag.Int("workers", runtime.NumCPU(), "chunk generation workers")
	cacheCapacity    = flag.Int("cache", 4096, "maximum resident chunks")
	completionBudget = flag.Int("budget", 16, "chunk uploads applied per frame")
)

var runtimeLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	// OpenGL contexts are tied to specific OS threads - let's pin to just one.
	runtime.LockOSThread()
	log.SetFlags(logFlags)

	if os.Getenv("VOXL_DEBUG_RUNTIME") == "1" {
		runtimeLogger = log.New(os.Stdout, "[runtime] ", log.Ltime|log.Lmsgprefix)
	}
}

func makeTitle(fps, avgFrameTime float64, renderStats render.Stats, memStats memory.Stats, pending int) string {
	return fmt.Sprintf("Voxl (%.1f FPS, %.2fms/frame, %d chunks, %d pending, %d triangles, %d draw calls/frame, %.2fµs/draw, %.1fMiB GPU)",
		fps,
		avgFrameTime,
		memStats.ResidentChunks,
		pending,
		memStats.TotalIndices/3,
		renderStats.DrawCalls,
		renderStats.LastDrawTimeUs,
		float64(memStats.TotalGPUBytes)/(1024.0*1024.0),
	)
}

func main() {
	flag.Parse()

	if err := glfw.Init(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfw.Terminate()

	// Configure GLFW window hints - use OpenGL 4.1.
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	window, err := glfw.CreateWindow(
		1280, // width
		960,  // height
		"Voxl",
		nil, nil,
	)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}

	s := seed()
	memController := memory.NewController()
	renderer := render.NewRenderer(memController)
	index := world.NewIndex(world.Config{
		Seed:             s,
		ViewRadius:       *viewRadius,
		Workers:          *workers,
		QueueDepth:       2 * *workers,
		CacheCapacity:    *cacheCapacity,
		CompletionBudget: *completionBudget,
	}, memController)

	// Start above the tallest terrain, at the world origin.
	camera := NewCamera(mgl32.Vec3{0, 180, 0})
	eventHandlers := NewEventHandlers(window, camera)

	frameCount, frameTimeSum := 0, 0.0
	lastFPSUpdate := time.Now()
	lastFrame := time.Now()

	// Main loop.
	for !window.ShouldClose() {
		frameStart := time.Now()
		dt := frameStart.Sub(lastFrame).Seconds()
		lastFrame = frameStart

		eventHandlers.handleContinuousMovement(dt)

		w, h := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))

		aspect := float32(w) / float32(h)
		proj := mgl32.Perspective(
			mgl32.DegToRad(70.0),
			aspect,
			0.1, // near
			float32((*viewRadius+1)*voxel.ChunkSize)*2, // far
		)
		renderer.SetCamera(camera.View(), proj)

		index.Update(camera.Chunk())
		renderer.Draw()
		window.SwapBuffers()
		glfw.PollEvents()

		frameTime := time.Since(frameStart).Seconds() * 1000.0 // ms
		frameTimeSum += frameTime

		frameCount++
		now := time.Now()
		if now.Sub(lastFPSUpdate) >= time.Second {
			fps := float64(frameCount) / now.Sub(lastFPSUpdate).Seconds()
			avgFrameTime := frameTimeSum / float64(frameCount)
			frameCount, frameTimeSum = 0, 0.0
			lastFPSUpdate = now

			memStats := memController.Stats()
			renderStats := renderer.Stats()
			worldStats := index.Stats()
			pending := index.Pending()

			window.SetTitle(
				makeTitle(fps, avgFrameTime, renderStats, memStats, pending),
			)

			runtimeLogger.Println("=== Performance statistics ===")
			runtimeLogger.Printf("Frame rate:     %.1f FPS (%.2f ms/frame, %d draw calls/frame)", fps, avgFrameTime, renderStats.DrawCalls)
			runtimeLogger.Printf("World:          %d resident, %d pending, %d requested, %d stale dropped", index.Resident(), pending, worldStats.Requested, worldStats.StaleDropped)
			runtimeLogger.Printf("Eviction:       %d radius, %d capacity, %d empty chunks", worldStats.RadiusEvicted, worldStats.CapacityEvicted, worldStats.EmptyChunks)
			runtimeLogger.Printf("GPU memory:     %.2f MiB (%d buffers free, %d reused, %d OOM retries)", float64(memStats.TotalGPUBytes)/(1024.0*1024.0), memStats.FreeBuffers, memStats.Reused, memStats.OOMRetries)
			runtimeLogger.Printf("Render time:    %.2f µs (last draw)", renderStats.LastDrawTimeUs)
			runtimeLogger.Println("==============================")

			// Periodic free-list cleanup: buffers idle past a minute go back
			// to the driver.
			memController.Cleanup(time.Minute)
		}
	}

	index.Shutdown()
	memController.Shutdown()
}

func seed() int64 {
	seedStr := os.Getenv("VOXL_SEED")
	now := time.Now().Unix()
	if seedStr == "" {
		return now
	}
	seed, err := strconv.ParseInt(seedStr, 10, 64)
	if err != nil {
		log.Fatalf("Invalid VOXL_SEED value '%s': %v", seedStr, err)
	}
	return seed
}
