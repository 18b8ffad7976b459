// Package memory owns the pool of GPU buffers behind chunk meshes.
//
// Each ready chunk holds exactly one buffer set (VAO + vertex + index
// buffer). Buffers come from size-bucketed free lists of previously
// released buffers when a large-enough one exists, else fresh allocations;
// eviction returns buffers to the free list rather than deleting them,
// amortizing allocation cost as chunks churn at the view horizon. A
// periodic cleanup pass deletes buffers that sat idle too long.
//
// All methods must run on the render thread: device objects are not
// thread-shared.
package memory

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/irfansharif/voxl/internal/mesh"
	"github.com/irfansharif/voxl/internal/voxel"
)

var memoryLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("VOXL_DEBUG_MEMORY") == "1" {
		memoryLogger = log.New(os.Stdout, "[memory] ", log.Ltime|log.Lmsgprefix)
	}
}

// Bucket configuration: vertex-stream byte capacity per class. The index
// stream is always 3/2 the vertex stream (6 indices against 4 vertices per
// face, both 4 bytes wide), so index capacity follows from vertex capacity.
const (
	vertexBytesS  = 64 << 10
	vertexBytesM  = 256 << 10
	vertexBytesL  = 1 << 20
	vertexBytesXL = 4 << 20

	indexBytesRatioNum = 3
	indexBytesRatioDen = 2
)

// BucketSize classifies chunk meshes by their vertex byte length.
type BucketSize int

const (
	BucketS   BucketSize = iota // <= 64 KiB of vertices
	BucketM                     // <= 256 KiB
	BucketL                     // <= 1 MiB
	BucketXL                    // <= 4 MiB
	BucketXXL                   // dedicated, exact-size buffers for outliers
)

var bucketSizes = []BucketSize{BucketS, BucketM, BucketL, BucketXL, BucketXXL}

func (bs BucketSize) String() string {
	switch bs {
	case BucketS:
		return "small"
	case BucketM:
		return "medium"
	case BucketL:
		return "large"
	case BucketXL:
		return "xlarge"
	case BucketXXL:
		return "xxlarge"
	default:
		return "unknown"
	}
}

// selectBucket chooses the smallest bucket that fits the vertex stream.
func selectBucket(vertexBytes int) BucketSize {
	switch {
	case vertexBytes <= vertexBytesS:
		return BucketS
	case vertexBytes <= vertexBytesM:
		return BucketM
	case vertexBytes <= vertexBytesL:
		return BucketL
	case vertexBytes <= vertexBytesXL:
		return BucketXL
	default:
		return BucketXXL
	}
}

// vertexCapacityForBucket returns the vertex byte capacity of a bucket.
// XXL buffers size to their mesh exactly.
func vertexCapacityForBucket(bucket BucketSize, vertexBytes int) int {
	switch bucket {
	case BucketS:
		return vertexBytesS
	case BucketM:
		return vertexBytesM
	case BucketL:
		return vertexBytesL
	case BucketXL:
		return vertexBytesXL
	default:
		return vertexBytes
	}
}

// indexCapacityFor returns the index byte capacity paired with a vertex
// byte capacity.
func indexCapacityFor(vertexCapacity int) int {
	return vertexCapacity * indexBytesRatioNum / indexBytesRatioDen
}

// Buffer is one VAO + vertex buffer + index buffer set.
type Buffer struct {
	vao, vbo, ebo  uint32
	vertexCapacity int // bytes
	indexCapacity  int // bytes
	bucket         BucketSize
	idleSince      time.Time // set while on the free list
}

// Draw is the per-chunk draw descriptor handed to the renderer each frame.
// Chunk is the raw chunk coordinate; the vertex stage multiplies it by
// ChunkSize, keeping distant chunks free of float drift.
type Draw struct {
	VAO        uint32
	IndexCount int32
	Chunk      [3]int32
	Tint       [3]float32
}

type allocation struct {
	buf        *Buffer
	indexCount int32
	tint       [3]float32
}

// Controller manages GPU buffers for all resident chunks.
type Controller struct {
	allocs map[voxel.Coord]*allocation
	free   map[BucketSize][]*Buffer
	stats  Stats
	now    func() time.Time
}

// Stats tracks buffer pool activity.
type Stats struct {
	ResidentChunks int
	FreeBuffers    int
	TotalGPUBytes  int64
	TotalIndices   int64

	Allocated  int // buffers created
	Reused     int // uploads served from the free list
	Freed      int // buffers deleted by cleanup/shutdown
	OOMRetries int
}

// NewController returns an empty buffer pool. No GL calls happen until the
// first upload.
func NewController() *Controller {
	return &Controller{
		allocs: make(map[voxel.Coord]*allocation),
		free:   make(map[BucketSize][]*Buffer),
		now:    time.Now,
	}
}

// Upload moves a finished mesh into a device buffer and registers the
// chunk as drawable. Empty meshes are a caller defect: the pipeline skips
// them before reaching the pool.
func (mc *Controller) Upload(m *mesh.ChunkMesh, tint [3]float32) error {
	if m.Empty() {
		panic("memory: upload of empty mesh")
	}
	if _, ok := mc.allocs[m.Coord]; ok {
		// One live buffer handle per ready chunk; re-upload without a
		// release in between is an index bug.
		panic(fmt.Sprintf("memory: chunk %s already has a live buffer", m.Coord))
	}

	buf, err := mc.acquire(m.VertexBytes(), m.IndexBytes())
	if err != nil {
		return fmt.Errorf("acquiring buffer for chunk %s: %w", m.Coord, err)
	}

	gl.BindVertexArray(buf.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, m.VertexBytes(), gl.Ptr(m.Verts))
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, m.IndexBytes(), gl.Ptr(m.Indices))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	mc.allocs[m.Coord] = &allocation{
		buf:        buf,
		indexCount: int32(len(m.Indices)),
		tint:       tint,
	}
	memoryLogger.Printf("uploaded chunk %s: %d verts, %d indices, %s bucket",
		m.Coord, len(m.Verts), len(m.Indices), buf.bucket)
	return nil
}

// Release returns a chunk's buffer to the free list. Returns false if the
// chunk had no live buffer (an all-air chunk, or already released).
func (mc *Controller) Release(coord voxel.Coord) bool {
	alloc, ok := mc.allocs[coord]
	if !ok {
		return false
	}
	delete(mc.allocs, coord)
	alloc.buf.idleSince = mc.now()
	mc.free[alloc.buf.bucket] = append(mc.free[alloc.buf.bucket], alloc.buf)
	memoryLogger.Printf("released chunk %s to %s free list", coord, alloc.buf.bucket)
	return true
}

// Has reports whether a chunk currently holds a live buffer.
func (mc *Controller) Has(coord voxel.Coord) bool {
	_, ok := mc.allocs[coord]
	return ok
}

// Descriptors returns the frame's draw list, ordered by chunk coordinate
// for deterministic draw order.
func (mc *Controller) Descriptors() []Draw {
	coords := make([]voxel.Coord, 0, len(mc.allocs))
	for coord := range mc.allocs {
		coords = append(coords, coord)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })

	draws := make([]Draw, 0, len(coords))
	for _, coord := range coords {
		alloc := mc.allocs[coord]
		draws = append(draws, Draw{
			VAO:        alloc.buf.vao,
			IndexCount: alloc.indexCount,
			Chunk:      [3]int32{int32(coord.X), int32(coord.Y), int32(coord.Z)},
			Tint:       alloc.tint,
		})
	}
	return draws
}

// Cleanup deletes free-list buffers idle longer than maxIdle. Called
// periodically; keeps the pool from hoarding the high-water mark forever.
func (mc *Controller) Cleanup(maxIdle time.Duration) int {
	cutoff := mc.now().Add(-maxIdle)
	freed := 0
	for bucket, buffers := range mc.free {
		kept := buffers[:0]
		for _, buf := range buffers {
			if buf.idleSince.Before(cutoff) {
				mc.deleteBuffer(buf)
				freed++
			} else {
				kept = append(kept, buf)
			}
		}
		mc.free[bucket] = kept
	}
	if freed > 0 {
		memoryLogger.Printf("cleanup freed %d idle buffers", freed)
	}
	return freed
}

// Shutdown deletes every buffer, live and free.
func (mc *Controller) Shutdown() {
	for coord, alloc := range mc.allocs {
		mc.deleteBuffer(alloc.buf)
		delete(mc.allocs, coord)
	}
	for bucket, buffers := range mc.free {
		for _, buf := range buffers {
			mc.deleteBuffer(buf)
		}
		mc.free[bucket] = nil
	}
}

// Stats returns current pool statistics.
func (mc *Controller) Stats() Stats {
	mc.stats.ResidentChunks = len(mc.allocs)
	mc.stats.FreeBuffers = 0
	mc.stats.TotalGPUBytes = 0
	mc.stats.TotalIndices = 0
	for _, alloc := range mc.allocs {
		mc.stats.TotalGPUBytes += int64(alloc.buf.vertexCapacity + alloc.buf.indexCapacity)
		mc.stats.TotalIndices += int64(alloc.indexCount)
	}
	for _, buffers := range mc.free {
		mc.stats.FreeBuffers += len(buffers)
		for _, buf := range buffers {
			mc.stats.TotalGPUBytes += int64(buf.vertexCapacity + buf.indexCapacity)
		}
	}
	return mc.stats
}

// acquire finds or creates a buffer fitting the byte lengths: free list
// first, then a fresh allocation, retrying once after flushing the free
// lists if the device reports out-of-memory.
func (mc *Controller) acquire(vertexBytes, indexBytes int) (*Buffer, error) {
	bucket := selectBucket(vertexBytes)
	if buf := mc.takeFree(bucket, vertexBytes, indexBytes); buf != nil {
		mc.stats.Reused++
		return buf, nil
	}

	buf, err := mc.createBuffer(bucket, vertexBytes)
	if err == nil {
		mc.stats.Allocated++
		return buf, nil
	}

	// Device out of memory: dump every pooled buffer back to the driver
	// and retry once before escalating. Never silently drop geometry.
	mc.stats.OOMRetries++
	memoryLogger.Printf("allocation failed (%v); flushing free lists and retrying", err)
	mc.flushFreeLists()
	buf, err = mc.createBuffer(bucket, vertexBytes)
	if err != nil {
		return nil, fmt.Errorf("allocation retry failed: %w", err)
	}
	mc.stats.Allocated++
	return buf, nil
}

// takeFree pops a free buffer with sufficient capacity, newest first so
// older entries age out through Cleanup.
func (mc *Controller) takeFree(bucket BucketSize, vertexBytes, indexBytes int) *Buffer {
	buffers := mc.free[bucket]
	for i := len(buffers) - 1; i >= 0; i-- {
		buf := buffers[i]
		if buf.vertexCapacity >= vertexBytes && buf.indexCapacity >= indexBytes {
			mc.free[bucket] = append(buffers[:i], buffers[i+1:]...)
			buf.idleSince = time.Time{}
			return buf
		}
	}
	return nil
}

// flushFreeLists deletes every pooled buffer immediately.
func (mc *Controller) flushFreeLists() {
	for bucket, buffers := range mc.free {
		for _, buf := range buffers {
			mc.deleteBuffer(buf)
		}
		mc.free[bucket] = nil
	}
}

// createBuffer allocates a VAO + VBO + EBO sized for the bucket and wires
// the single packed-uint vertex attribute.
func (mc *Controller) createBuffer(bucket BucketSize, vertexBytes int) (*Buffer, error) {
	vertexCapacity := vertexCapacityForBucket(bucket, vertexBytes)
	indexCapacity := indexCapacityFor(vertexCapacity)

	var vao, vbo, ebo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.GenBuffers(1, &ebo)

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, vertexCapacity, nil, gl.DYNAMIC_DRAW)

	// Attribute 0: the packed vertex, one uint.
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribIPointer(0, 1, gl.UNSIGNED_INT, 4, gl.PtrOffset(0))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, indexCapacity, nil, gl.DYNAMIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	if errno := gl.GetError(); errno == gl.OUT_OF_MEMORY {
		gl.DeleteVertexArrays(1, &vao)
		gl.DeleteBuffers(1, &vbo)
		gl.DeleteBuffers(1, &ebo)
		return nil, fmt.Errorf("device out of memory allocating %s buffer (%d+%d bytes)",
			bucket, vertexCapacity, indexCapacity)
	}

	return &Buffer{
		vao:            vao,
		vbo:            vbo,
		ebo:            ebo,
		vertexCapacity: vertexCapacity,
		indexCapacity:  indexCapacity,
		bucket:         bucket,
	}, nil
}

// deleteBuffer releases a buffer's GL objects.
func (mc *Controller) deleteBuffer(buf *Buffer) {
	if buf.vao != 0 {
		gl.DeleteVertexArrays(1, &buf.vao)
		buf.vao = 0
	}
	if buf.vbo != 0 {
		gl.DeleteBuffers(1, &buf.vbo)
		buf.vbo = 0
	}
	if buf.ebo != 0 {
		gl.DeleteBuffers(1, &buf.ebo)
		buf.ebo = 0
	}
	mc.stats.Freed++
}
