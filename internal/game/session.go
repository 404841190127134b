package game

import (
	"context"
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"ndrcraft/internal/camera"
	"ndrcraft/internal/logging"
	"ndrcraft/internal/meshing"
	"ndrcraft/internal/physics"
	"ndrcraft/internal/profiling"
	"ndrcraft/internal/world"
)

// DefaultSlowFrame is the tick duration above which a frame is logged.
const DefaultSlowFrame = 16 * time.Millisecond

// Renderer draws chunk meshes. Sync receives the full set of drawable
// chunks whenever it may have changed; Draw is called every frame.
type Renderer interface {
	Sync(chunks []meshing.RenderableChunk)
	Draw(view, proj mgl32.Mat4)
}

// FrameObserver receives per-frame measurements.
type FrameObserver interface {
	ObserveFrame(elapsed time.Duration, drawn, rejected int)
}

// Edit replaces one voxel.
type Edit struct {
	X, Y, Z int
	Block   world.BlockType
}

// FrameInput is the already-resolved input of one frame.
type FrameInput struct {
	// Move is forward, right and up, each in [-1, 1].
	Move mgl32.Vec3
	// Look is yaw and pitch deltas in radians.
	Look mgl32.Vec2
}

type FrameStats struct {
	Edits    int
	Rejected int
	Remeshed int
	Drawn    int
	Elapsed  time.Duration
}

// Session owns the world state of a running game and advances it one frame
// at a time.
type Session struct {
	Grid   *world.Grid
	Chunks *meshing.ChunkManager
	Camera *camera.Camera

	// SlowFrame is the threshold for the slow frame log; zero disables it.
	SlowFrame time.Duration

	renderer Renderer
	observer FrameObserver
	log      logging.Logger
	edits    []Edit
	drawn    int
	synced   bool
}

// NewSession wires a session. The grid's dirty notifications are routed to
// chunks. renderer may be nil for headless use.
func NewSession(grid *world.Grid, chunks *meshing.ChunkManager, cam *camera.Camera, renderer Renderer, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.Nop()
	}
	grid.SetDirtyMarker(chunks)
	return &Session{
		Grid:      grid,
		Chunks:    chunks,
		Camera:    cam,
		SlowFrame: DefaultSlowFrame,
		renderer:  renderer,
		log:       logger,
	}
}

func (s *Session) SetFrameObserver(o FrameObserver) { s.observer = o }

// SetRenderer attaches a renderer, e.g. once a window exists. The next Tick
// syncs the full chunk set to it.
func (s *Session) SetRenderer(r Renderer) {
	s.renderer = r
	s.synced = false
}

// QueueEdit schedules a voxel change for the next Tick.
func (s *Session) QueueEdit(e Edit) {
	s.edits = append(s.edits, e)
}

// PendingEdits returns the number of edits waiting for the next Tick.
func (s *Session) PendingEdits() int {
	return len(s.edits)
}

// Tick runs one frame: camera look and movement, queued edits, remeshing of
// dirty chunks, then drawing. Edits are applied before meshing starts, so
// the grid never changes while meshes are being built.
func (s *Session) Tick(ctx context.Context, dt float32, in FrameInput) FrameStats {
	profiling.ResetFrame()
	start := time.Now()
	var stats FrameStats

	s.Camera.ApplyLook(in.Look.X(), in.Look.Y())
	s.Camera.ApplyMovement(in.Move.X(), in.Move.Y(), in.Move.Z(), dt)

	stats.Edits, stats.Rejected = s.applyEdits()
	stats.Remeshed = s.Chunks.UpdateAllDirty(ctx)

	if stats.Remeshed > 0 || !s.synced {
		chunks := s.Chunks.RenderableChunks()
		s.drawn = len(chunks)
		if s.renderer != nil {
			stop := profiling.Track("render.Sync")
			s.renderer.Sync(chunks)
			stop()
		}
		s.synced = true
	}
	stats.Drawn = s.drawn

	if s.renderer != nil {
		stop := profiling.Track("render.Draw")
		s.renderer.Draw(s.Camera.ViewMatrix(), s.Camera.ProjectionMatrix())
		stop()
	}

	stats.Elapsed = time.Since(start)
	if s.SlowFrame > 0 && stats.Elapsed > s.SlowFrame {
		s.log.Warnf("Slow frame: %v. Top tasks: %s", stats.Elapsed, profiling.TopN(5))
	}
	if s.observer != nil {
		s.observer.ObserveFrame(stats.Elapsed, stats.Drawn, stats.Rejected)
	}
	return stats
}

func (s *Session) applyEdits() (applied, rejected int) {
	defer profiling.Track("game.applyEdits")()
	for _, e := range s.edits {
		if err := s.Grid.Set(e.X, e.Y, e.Z, e.Block); err != nil {
			if errors.Is(err, world.ErrOutOfBounds) {
				s.log.Debugf("edit rejected: %v", err)
			} else {
				s.log.Errorf("edit %+v: %v", e, err)
			}
			rejected++
			continue
		}
		applied++
	}
	s.edits = s.edits[:0]
	return applied, rejected
}

// Pick casts the view ray and returns the first solid voxel within maxDist.
func (s *Session) Pick(maxDist float32) physics.RaycastResult {
	return physics.Raycast(s.Camera.Position, s.Camera.Forward(), physics.MinReachDistance, maxDist, s.Grid)
}

// BreakTarget queues removal of the voxel under the crosshair.
func (s *Session) BreakTarget(maxDist float32) bool {
	hit := s.Pick(maxDist)
	if !hit.Hit {
		return false
	}
	p := hit.HitPosition
	s.QueueEdit(Edit{X: p[0], Y: p[1], Z: p[2], Block: world.BlockTypeAir})
	return true
}

// PlaceTarget queues bt in the empty cell in front of the voxel under the
// crosshair. Placing into the cell the camera occupies is refused.
func (s *Session) PlaceTarget(bt world.BlockType, maxDist float32) bool {
	hit := s.Pick(maxDist)
	if !hit.Hit || bt.IsAir() {
		return false
	}
	p := hit.AdjacentPosition
	eye := s.Camera.Position
	if cellOf(eye) == p {
		return false
	}
	s.QueueEdit(Edit{X: p[0], Y: p[1], Z: p[2], Block: bt})
	return true
}

func cellOf(v mgl32.Vec3) [3]int {
	var c [3]int
	for i := range 3 {
		c[i] = floor(v[i])
	}
	return c
}

func floor(f float32) int {
	i := int(f)
	if float32(i) > f {
		i--
	}
	return i
}
