// Package camera implements the first-person fly camera and its matrices.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch keeps the look direction away from the world up axis.
var MaxPitch = mgl32.DegToRad(89)

const (
	DefaultFOV         = 70.0 // degrees
	DefaultNear        = 0.1
	DefaultFar         = 1000.0
	DefaultSpeed       = 10.0
	DefaultSensitivity = 0.0025

	minNear = 1e-3
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera is a free-flying perspective camera. Yaw 0 looks down -Z and
// positive yaw turns right; positive pitch looks up. Angles are radians.
type Camera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	FOV    float32
	Aspect float32
	Near   float32
	Far    float32

	// Speed is in blocks per second.
	Speed       float32
	Sensitivity float32
}

// New returns a camera at position with default optics.
func New(position mgl32.Vec3) *Camera {
	return &Camera{
		Position:    position,
		FOV:         mgl32.DegToRad(DefaultFOV),
		Aspect:      16.0 / 9.0,
		Near:        DefaultNear,
		Far:         DefaultFar,
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
	}
}

// SetAspect updates the aspect ratio from a framebuffer size. A minimized
// window reports zero height and is ignored.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// ApplyLook adds yaw and pitch deltas. Pitch is clamped to ±MaxPitch and
// yaw is wrapped into (-π, π].
func (c *Camera) ApplyLook(deltaYaw, deltaPitch float32) {
	if finite(deltaYaw) {
		c.Yaw = wrapAngle(c.Yaw + deltaYaw)
	}
	if finite(deltaPitch) {
		c.Pitch += deltaPitch
	}
	c.Pitch = mgl32.Clamp(c.Pitch, -MaxPitch, MaxPitch)
}

// ApplyMovement moves the camera. forward and right follow the yaw on the
// horizontal plane and up follows world +Y, each expected in [-1, 1]. The
// combined direction is capped at unit length and scaled by Speed*dt.
func (c *Camera) ApplyMovement(forward, right, up, dt float32) {
	if !(dt > 0) || !finite(dt) {
		return
	}
	dir := c.flatForward().Mul(forward).
		Add(c.Right().Mul(right)).
		Add(worldUp.Mul(up))
	l := dir.Len()
	if l == 0 || !finite(l) {
		return
	}
	if l > 1 {
		dir = dir.Mul(1 / l)
	}
	c.Position = c.Position.Add(dir.Mul(c.Speed * dt))
}

// Forward returns the unit look direction.
func (c *Camera) Forward() mgl32.Vec3 {
	yaw, pitch := float64(c.Yaw), float64(c.Pitch)
	f := mgl32.Vec3{
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(-math.Cos(yaw) * math.Cos(pitch)),
	}
	l := f.Len()
	if l < 1e-6 || !finite(l) {
		return mgl32.Vec3{0, 0, -1}
	}
	return f.Mul(1 / l)
}

func (c *Camera) flatForward() mgl32.Vec3 {
	yaw := float64(c.Yaw)
	return mgl32.Vec3{float32(math.Sin(yaw)), 0, float32(-math.Cos(yaw))}
}

// Right returns the horizontal unit vector to the camera's right.
func (c *Camera) Right() mgl32.Vec3 {
	yaw := float64(c.Yaw)
	return mgl32.Vec3{float32(math.Cos(yaw)), 0, float32(math.Sin(yaw))}
}

// Up returns the camera's up vector, perpendicular to Forward and Right.
func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Forward()).Normalize()
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), c.Up())
}

// ProjectionMatrix returns a right-handed perspective projection. Invalid
// optics are replaced with usable values rather than producing a singular
// matrix.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	fov := c.FOV
	if !(fov > 0 && fov < math.Pi) {
		fov = mgl32.DegToRad(DefaultFOV)
	}
	aspect := c.Aspect
	if !(aspect > 0) || !finite(aspect) {
		aspect = 1
	}
	near := c.Near
	if !(near > 0) || !finite(near) {
		near = minNear
	}
	far := c.Far
	if !(far > near) || !finite(far) {
		far = near * 1000
	}
	return mgl32.Perspective(fov, aspect, near, far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

func wrapAngle(a float32) float32 {
	w := math.Mod(float64(a)+math.Pi, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	w -= math.Pi
	if w <= -math.Pi {
		w = math.Pi
	}
	return float32(w)
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
