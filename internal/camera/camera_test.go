package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func vecInDelta(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], eps, "component %d of %v", i, got)
	}
}

func TestPitchClampProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := New(mgl32.Vec3{})
	limit := float32(math.Pi / 2)

	for i := 0; i < 10000; i++ {
		dy := (rng.Float32()*2 - 1) * 50
		dp := (rng.Float32()*2 - 1) * 50
		if i%97 == 0 {
			dp = float32(math.Pow(10, float64(rng.Intn(20))))
		}
		c.ApplyLook(dy, dp)

		require.LessOrEqual(t, c.Pitch, MaxPitch, "iteration %d", i)
		require.GreaterOrEqual(t, c.Pitch, -MaxPitch, "iteration %d", i)
		require.Less(t, c.Pitch, limit)
		require.Greater(t, c.Yaw, -float32(math.Pi)-eps)
		require.LessOrEqual(t, c.Yaw, float32(math.Pi)+eps)
	}
}

func TestApplyLookIgnoresNonFinite(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.ApplyLook(0.5, 0.25)
	c.ApplyLook(float32(math.NaN()), float32(math.Inf(1)))
	assert.InDelta(t, 0.5, c.Yaw, eps)
	assert.InDelta(t, 0.25, c.Pitch, eps)
}

func TestYawWraps(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.ApplyLook(float32(3*math.Pi/2), 0)
	assert.InDelta(t, -math.Pi/2, c.Yaw, eps)

	c.ApplyLook(float32(-2*math.Pi), 0)
	assert.InDelta(t, -math.Pi/2, c.Yaw, eps)
}

func TestForwardBasis(t *testing.T) {
	c := New(mgl32.Vec3{})
	vecInDelta(t, mgl32.Vec3{0, 0, -1}, c.Forward())
	vecInDelta(t, mgl32.Vec3{1, 0, 0}, c.Right())
	vecInDelta(t, mgl32.Vec3{0, 1, 0}, c.Up())

	c.ApplyLook(float32(math.Pi/2), 0)
	vecInDelta(t, mgl32.Vec3{1, 0, 0}, c.Forward())
	vecInDelta(t, mgl32.Vec3{0, 0, 1}, c.Right())
}

func TestMovementScalesWithDt(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.Speed = 10

	c.ApplyMovement(1, 0, 0, 0.5)
	vecInDelta(t, mgl32.Vec3{0, 0, -5}, c.Position)

	// two half steps equal one full step
	a, b := New(mgl32.Vec3{}), New(mgl32.Vec3{})
	a.ApplyMovement(0, 1, 0, 0.1)
	b.ApplyMovement(0, 1, 0, 0.05)
	b.ApplyMovement(0, 1, 0, 0.05)
	vecInDelta(t, a.Position, b.Position)
}

func TestMovementIgnoresPitch(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.ApplyLook(0, 1.2)
	c.ApplyMovement(1, 0, 0, 1)
	assert.InDelta(t, 0, c.Position.Y(), eps, "forward stays on the horizontal plane")
	assert.InDelta(t, -c.Speed, c.Position.Z(), eps)

	c.ApplyMovement(0, 0, 1, 1)
	assert.InDelta(t, c.Speed, c.Position.Y(), eps)
}

func TestDiagonalMovementIsCapped(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.ApplyMovement(1, 1, 0, 1)
	assert.InDelta(t, c.Speed, c.Position.Len(), eps)
}

func TestMovementIgnoresBadDt(t *testing.T) {
	c := New(mgl32.Vec3{1, 2, 3})
	c.ApplyMovement(1, 1, 1, 0)
	c.ApplyMovement(1, 1, 1, -1)
	c.ApplyMovement(1, 1, 1, float32(math.NaN()))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, c.Position)
}

func TestMatricesAreInvertible(t *testing.T) {
	c := New(mgl32.Vec3{4, 10, -3})
	c.ApplyLook(0.7, -0.4)
	assert.NotZero(t, c.ViewMatrix().Det())
	assert.NotZero(t, c.ProjectionMatrix().Det())
	assert.NotZero(t, c.ViewProjection().Det())
}

func TestProjectionGuards(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Camera)
	}{
		{"zero aspect", func(c *Camera) { c.Aspect = 0 }},
		{"negative aspect", func(c *Camera) { c.Aspect = -2 }},
		{"nan aspect", func(c *Camera) { c.Aspect = float32(math.NaN()) }},
		{"zero near", func(c *Camera) { c.Near = 0 }},
		{"far before near", func(c *Camera) { c.Far = c.Near / 2 }},
		{"far equals near", func(c *Camera) { c.Far = c.Near }},
		{"zero fov", func(c *Camera) { c.FOV = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(mgl32.Vec3{})
			tt.edit(c)
			p := c.ProjectionMatrix()
			for _, v := range p {
				require.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0), "projection %v", p)
			}
			assert.NotZero(t, p.Det())
		})
	}
}

func TestViewMatrixAtExtremePitch(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.ApplyLook(0, 100)
	v := c.ViewMatrix()
	for _, e := range v {
		require.False(t, math.IsNaN(float64(e)))
	}
	assert.NotZero(t, v.Det())
}

func TestSetAspect(t *testing.T) {
	c := New(mgl32.Vec3{})
	c.SetAspect(1424, 720)
	assert.InDelta(t, 1424.0/720.0, c.Aspect, eps)
	c.SetAspect(800, 0)
	assert.InDelta(t, 1424.0/720.0, c.Aspect, eps)
}

func TestViewMovesPointsIntoCameraSpace(t *testing.T) {
	c := New(mgl32.Vec3{0, 0, 5})
	p := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	// a point ahead of the camera ends up on -Z in view space
	assert.InDelta(t, -5, p.Z(), eps)
}
