package game

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndrcraft/internal/camera"
	"ndrcraft/internal/meshing"
	"ndrcraft/internal/world"
)

type fakeRenderer struct {
	calls  []string
	synced []meshing.RenderableChunk
	view   mgl32.Mat4
	proj   mgl32.Mat4
}

func (r *fakeRenderer) Sync(chunks []meshing.RenderableChunk) {
	r.calls = append(r.calls, "sync")
	r.synced = chunks
}

func (r *fakeRenderer) Draw(view, proj mgl32.Mat4) {
	r.calls = append(r.calls, "draw")
	r.view, r.proj = view, proj
}

type frameRecorder struct {
	frames   int
	rejected int
}

func (f *frameRecorder) ObserveFrame(_ time.Duration, _, rejected int) {
	f.frames++
	f.rejected += rejected
}

func newSession(t *testing.T) (*Session, *fakeRenderer) {
	t.Helper()
	g, err := world.NewGrid(world.Extent{Width: 32, Height: 16, Depth: 32})
	require.NoError(t, err)
	chunks := meshing.NewChunkManager(g, nil)
	cam := camera.New(mgl32.Vec3{0.5, 0.5, 8.5})
	r := &fakeRenderer{}
	s := NewSession(g, chunks, cam, r, nil)
	s.SlowFrame = 0
	return s, r
}

func TestTickAppliesEditsBeforeMeshing(t *testing.T) {
	s, r := newSession(t)
	s.QueueEdit(Edit{X: 0, Y: 0, Z: 0, Block: world.BlockTypeStone})
	s.QueueEdit(Edit{X: 1000, Y: 0, Z: 0, Block: world.BlockTypeStone})
	require.Equal(t, 2, s.PendingEdits())

	stats := s.Tick(context.Background(), 0.016, FrameInput{})
	assert.Equal(t, 1, stats.Edits)
	assert.Equal(t, 1, stats.Rejected)
	// the corner voxel dirties its chunk and three neighbors
	assert.Equal(t, 4, stats.Remeshed)
	assert.Equal(t, 1, stats.Drawn)
	assert.Equal(t, 0, s.PendingEdits())
	assert.Equal(t, 0, s.Chunks.DirtyCount())

	assert.Equal(t, []string{"sync", "draw"}, r.calls)
	require.Len(t, r.synced, 1)
	assert.Equal(t, 24, r.synced[0].Mesh.VertexCount())
}

func TestTickSkipsSyncWhenNothingChanged(t *testing.T) {
	s, r := newSession(t)
	s.Tick(context.Background(), 0.016, FrameInput{})
	s.Tick(context.Background(), 0.016, FrameInput{})
	assert.Equal(t, []string{"sync", "draw", "draw"}, r.calls)

	s.QueueEdit(Edit{X: 3, Y: 3, Z: 3, Block: world.BlockTypeDirt})
	stats := s.Tick(context.Background(), 0.016, FrameInput{})
	assert.Equal(t, []string{"sync", "draw", "draw", "sync", "draw"}, r.calls)
	assert.Equal(t, 1, stats.Drawn)
}

func TestTickMovesCameraBeforeDraw(t *testing.T) {
	s, r := newSession(t)
	start := s.Camera.Position

	s.Tick(context.Background(), 0.5, FrameInput{Move: mgl32.Vec3{1, 0, 0}, Look: mgl32.Vec2{0, 0.1}})
	assert.InDelta(t, start.Z()-s.Camera.Speed*0.5, s.Camera.Position.Z(), 1e-4)
	assert.InDelta(t, 0.1, s.Camera.Pitch, 1e-6)
	assert.Equal(t, s.Camera.ViewMatrix(), r.view)
	assert.Equal(t, s.Camera.ProjectionMatrix(), r.proj)
}

func TestTickReportsToObserver(t *testing.T) {
	s, _ := newSession(t)
	obs := &frameRecorder{}
	s.SetFrameObserver(obs)
	s.QueueEdit(Edit{X: -1000, Block: world.BlockTypeStone})
	s.Tick(context.Background(), 0.016, FrameInput{})
	s.Tick(context.Background(), 0.016, FrameInput{})
	assert.Equal(t, 2, obs.frames)
	assert.Equal(t, 1, obs.rejected)
}

func TestBreakAndPlaceTarget(t *testing.T) {
	s, _ := newSession(t)
	// camera at z=8.5 looking down -Z toward the voxel at the origin
	s.QueueEdit(Edit{Block: world.BlockTypeStone})
	s.Tick(context.Background(), 0, FrameInput{})

	hit := s.Pick(20)
	require.True(t, hit.Hit)
	assert.Equal(t, [3]int{0, 0, 0}, hit.HitPosition)
	assert.Equal(t, world.FaceNorth, hit.Face)

	require.True(t, s.PlaceTarget(world.BlockTypeBrick, 20))
	s.Tick(context.Background(), 0, FrameInput{})
	assert.Equal(t, world.BlockTypeBrick, s.Grid.Get(0, 0, 1))

	require.True(t, s.BreakTarget(20))
	s.Tick(context.Background(), 0, FrameInput{})
	assert.Equal(t, world.BlockTypeAir, s.Grid.Get(0, 0, 1))
	assert.Equal(t, world.BlockTypeStone, s.Grid.Get(0, 0, 0))

	assert.False(t, s.PlaceTarget(world.BlockTypeAir, 20))
	assert.False(t, s.BreakTarget(0.5), "nothing within reach")
}

func TestPlaceTargetRefusesCameraCell(t *testing.T) {
	s, _ := newSession(t)
	s.Camera.Position = mgl32.Vec3{0.5, 0.5, 1.5}
	s.QueueEdit(Edit{Block: world.BlockTypeStone})
	s.Tick(context.Background(), 0, FrameInput{})

	assert.False(t, s.PlaceTarget(world.BlockTypeBrick, 5))
	assert.Equal(t, 0, s.PendingEdits())
}

func TestHeadlessSession(t *testing.T) {
	g, err := world.NewGrid(world.Extent{Width: 16, Height: 16, Depth: 16})
	require.NoError(t, err)
	s := NewSession(g, meshing.NewChunkManager(g, nil), camera.New(mgl32.Vec3{}), nil, nil)
	s.QueueEdit(Edit{X: 2, Y: 2, Z: 2, Block: world.BlockTypeSand})
	stats := s.Tick(context.Background(), 0.016, FrameInput{})
	assert.Equal(t, 1, stats.Drawn)
}

func TestFPSLimiterUncappedReturnsImmediately(t *testing.T) {
	f := &FPSLimiter{limit: func() int { return 0 }}
	start := time.Now()
	for range 100 {
		f.Wait(false)
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.True(t, f.next.IsZero())
}

func TestFPSLimiterPausedCaps(t *testing.T) {
	f := &FPSLimiter{limit: func() int { return 0 }}
	start := time.Now()
	f.Wait(true)
	f.Wait(true)
	// two frames at PausedFPS take at least one frame interval
	assert.GreaterOrEqual(t, time.Since(start), time.Second/PausedFPS)
}

func TestSetRendererResyncs(t *testing.T) {
	g, err := world.NewGrid(world.Extent{Width: 16, Height: 16, Depth: 16})
	require.NoError(t, err)
	s := NewSession(g, meshing.NewChunkManager(g, nil), camera.New(mgl32.Vec3{}), nil, nil)
	s.QueueEdit(Edit{X: 1, Y: 1, Z: 1, Block: world.BlockTypeStone})
	s.Tick(context.Background(), 0.016, FrameInput{})

	r := &fakeRenderer{}
	s.SetRenderer(r)
	s.Tick(context.Background(), 0.016, FrameInput{})
	assert.Equal(t, []string{"sync", "draw"}, r.calls)
	assert.Len(t, r.synced, 1)
}
