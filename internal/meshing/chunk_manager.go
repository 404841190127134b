package meshing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"ndrcraft/internal/logging"
	"ndrcraft/internal/profiling"
	"ndrcraft/internal/world"
)

// Chunk is the render-side state of one 16x16x16 region. Voxel data stays in
// the grid.
type Chunk struct {
	Coord   world.ChunkCoord
	dirty   bool
	mesh    *Mesh
	version uint64
}

func (c *Chunk) Dirty() bool { return c.dirty }

// Mesh returns the last built mesh; nil until the chunk is first meshed.
func (c *Chunk) Mesh() *Mesh { return c.mesh }

// Version increases every time the mesh is replaced.
func (c *Chunk) Version() uint64 { return c.version }

// ModelMatrix translates chunk-local vertex positions to world space.
func (c *Chunk) ModelMatrix() mgl32.Mat4 {
	return ModelMatrix(c.Coord)
}

func ModelMatrix(coord world.ChunkCoord) mgl32.Mat4 {
	x, y, z := coord.Origin()
	return mgl32.Translate3D(float32(x), float32(y), float32(z))
}

// RenderableChunk is what the renderer needs to draw one chunk.
type RenderableChunk struct {
	Coord   world.ChunkCoord
	Mesh    *Mesh
	Model   mgl32.Mat4
	Version uint64
}

// Recorder receives meshing measurements.
type Recorder interface {
	ObserveChunk(vertices int, elapsed time.Duration)
	ObserveBatch(chunks int, elapsed time.Duration)
}

// ChunkManager tracks which chunks are stale and rebuilds their meshes.
type ChunkManager struct {
	mu      sync.Mutex
	src     VoxelSource
	styler  FaceStyler
	chunks  map[world.ChunkCoord]*Chunk
	pending map[world.ChunkCoord]struct{}

	pool *WorkerPool
	log  logging.Logger
	rec  Recorder
}

// NewChunkManager creates a manager meshing from src. Without a pool,
// UpdateAllDirty meshes on the calling goroutine.
func NewChunkManager(src VoxelSource, styler FaceStyler) *ChunkManager {
	return &ChunkManager{
		src:     src,
		styler:  styler,
		chunks:  make(map[world.ChunkCoord]*Chunk),
		pending: make(map[world.ChunkCoord]struct{}),
		log:     logging.Nop(),
	}
}

func (m *ChunkManager) SetPool(p *WorkerPool) { m.pool = p }

func (m *ChunkManager) SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.Nop()
	}
	m.log = l
}

func (m *ChunkManager) SetRecorder(r Recorder) { m.rec = r }

// MarkDirty flags the chunk for remeshing, creating it on first touch.
// Marking an already dirty chunk is a no-op.
func (m *ChunkManager) MarkDirty(coord world.ChunkCoord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.chunks[coord]
	if !ok {
		ch = &Chunk{Coord: coord}
		m.chunks[coord] = ch
	}
	ch.dirty = true
	m.pending[coord] = struct{}{}
}

// MarkRange marks every chunk in the inclusive range dirty.
func (m *ChunkManager) MarkRange(min, max world.ChunkCoord) {
	for y := min.Y; y <= max.Y; y++ {
		for z := min.Z; z <= max.Z; z++ {
			for x := min.X; x <= max.X; x++ {
				m.MarkDirty(world.ChunkCoord{X: x, Y: y, Z: z})
			}
		}
	}
}

// UpdateAllDirty rebuilds the mesh of every dirty chunk and returns how many
// were rebuilt. It blocks until all meshes are in place. The grid must not
// be modified while it runs.
//
// ctx only stops handing work to the pool; chunks that could not be queued
// are meshed on the calling goroutine.
func (m *ChunkManager) UpdateAllDirty(ctx context.Context) int {
	defer profiling.Track("meshing.UpdateAllDirty")()

	m.mu.Lock()
	coords := make([]world.ChunkCoord, 0, len(m.pending))
	for c := range m.pending {
		coords = append(coords, c)
	}
	clear(m.pending)
	m.mu.Unlock()

	if len(coords) == 0 {
		return 0
	}

	start := time.Now()
	var results []MeshResult
	if m.pool == nil {
		results = make([]MeshResult, 0, len(coords))
		for _, c := range coords {
			results = append(results, m.meshInline(c))
		}
	} else {
		results = m.meshPooled(ctx, coords)
	}

	m.mu.Lock()
	for _, r := range results {
		ch, ok := m.chunks[r.Coord]
		if !ok {
			continue
		}
		ch.mesh = r.Mesh
		ch.version++
		// a chunk marked again while meshing stays dirty for the next pass
		if _, again := m.pending[r.Coord]; !again {
			ch.dirty = false
		}
	}
	m.mu.Unlock()

	elapsed := time.Since(start)
	if m.rec != nil {
		for _, r := range results {
			m.rec.ObserveChunk(r.Mesh.VertexCount(), r.Elapsed)
		}
		m.rec.ObserveBatch(len(results), elapsed)
	}
	m.log.Debugf("meshing: rebuilt %d chunks in %s", len(results), elapsed)
	return len(results)
}

func (m *ChunkManager) meshInline(c world.ChunkCoord) MeshResult {
	start := time.Now()
	mesh := BuildChunkMesh(m.src, c, m.styler)
	return MeshResult{Coord: c, Mesh: mesh, Elapsed: time.Since(start)}
}

func (m *ChunkManager) meshPooled(ctx context.Context, coords []world.ChunkCoord) []MeshResult {
	out := make(chan MeshResult, len(coords))
	results := make([]MeshResult, 0, len(coords))
	inFlight := make(map[world.ChunkCoord]struct{}, len(coords))

	for i, c := range coords {
		job := MeshJob{Source: m.src, Styler: m.styler, Coord: c, ResultChan: out}
		if err := m.pool.SubmitJobBlocking(ctx, job); err != nil {
			m.log.Warnf("meshing: queueing stopped (%v), meshing %d chunks inline", err, len(coords)-i)
			for _, rest := range coords[i:] {
				results = append(results, m.meshInline(rest))
			}
			break
		}
		inFlight[c] = struct{}{}
	}

	for len(inFlight) > 0 {
		select {
		case r := <-out:
			delete(inFlight, r.Coord)
			results = append(results, r)
		case <-m.pool.Done():
			// the pool dropped whatever it had not finished
			for drained := false; !drained; {
				select {
				case r := <-out:
					delete(inFlight, r.Coord)
					results = append(results, r)
				default:
					drained = true
				}
			}
			for c := range inFlight {
				results = append(results, m.meshInline(c))
			}
			clear(inFlight)
		}
	}
	return results
}

// RenderableChunks returns every clean chunk with geometry, ordered by
// coordinate.
func (m *ChunkManager) RenderableChunks() []RenderableChunk {
	m.mu.Lock()
	out := make([]RenderableChunk, 0, len(m.chunks))
	for _, ch := range m.chunks {
		if ch.dirty || ch.mesh.Empty() {
			continue
		}
		out = append(out, RenderableChunk{
			Coord:   ch.Coord,
			Mesh:    ch.mesh,
			Model:   ch.ModelMatrix(),
			Version: ch.version,
		})
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Coord.Less(out[j].Coord) })
	return out
}

// Chunk returns the chunk at coord if it has ever been marked.
func (m *ChunkManager) Chunk(coord world.ChunkCoord) (*Chunk, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.chunks[coord]
	return ch, ok
}

// DirtyCount returns the number of chunks waiting for a remesh.
func (m *ChunkManager) DirtyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Len returns the number of tracked chunks.
func (m *ChunkManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks)
}

// Prune drops every chunk for which keep returns false and reports how many
// were removed.
func (m *ChunkManager) Prune(keep func(world.ChunkCoord) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for c := range m.chunks {
		if keep(c) {
			continue
		}
		delete(m.chunks, c)
		delete(m.pending, c)
		removed++
	}
	return removed
}
