package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"ndrcraft/internal/profiling"
	"ndrcraft/internal/world"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 8.0
)

// Solidity answers whether a voxel blocks rays. world.Grid satisfies it.
type Solidity interface {
	IsAir(x, y, z int) bool
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int
	// Face is the face of the hit voxel the ray entered through.
	Face     world.BlockFace
	Distance float32
	Hit      bool
}

// Raycast walks the voxels along a ray in traversal order and returns the
// first solid one at least minDist away. Voxel (x, y, z) spans [x, x+1) on
// each axis. AdjacentPosition is the cell in front of the entered face,
// where a new block would be placed.
func Raycast(start mgl32.Vec3, direction mgl32.Vec3, minDist, maxDist float32, w Solidity) RaycastResult {
	defer profiling.Track("physics.Raycast")()

	l := direction.Len()
	if l == 0 || math.IsNaN(float64(l)) || maxDist < minDist {
		return RaycastResult{}
	}
	dir := direction.Mul(1 / l)

	var (
		cell, step   [3]int
		tMax, tDelta [3]float64
		faceOnStep   [3]world.BlockFace
		t            float64
	)
	entered := world.FaceTop
	for i := range 3 {
		s, d := float64(start[i]), float64(dir[i])
		cell[i] = int(math.Floor(s))
		switch {
		case d > 0:
			step[i] = 1
			tMax[i] = (math.Floor(s) + 1 - s) / d
			tDelta[i] = 1 / d
		case d < 0:
			step[i] = -1
			tMax[i] = (s - math.Floor(s)) / -d
			tDelta[i] = -1 / d
		default:
			tMax[i] = math.Inf(1)
			tDelta[i] = math.Inf(1)
		}
		faceOnStep[i] = entryFace(i, step[i])
	}

	prev := cell
	for t <= float64(maxDist) {
		if t >= float64(minDist) && !w.IsAir(cell[0], cell[1], cell[2]) {
			return RaycastResult{
				HitPosition:      cell,
				AdjacentPosition: prev,
				Face:             entered,
				Distance:         float32(t),
				Hit:              true,
			}
		}

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		if math.IsInf(tMax[axis], 1) {
			break
		}
		prev = cell
		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
		entered = faceOnStep[axis]
	}

	return RaycastResult{}
}

// entryFace is the face crossed when stepping along axis in direction step:
// moving +X enters the next voxel through its west face.
func entryFace(axis, step int) world.BlockFace {
	switch axis {
	case 0:
		if step > 0 {
			return world.FaceWest
		}
		return world.FaceEast
	case 1:
		if step > 0 {
			return world.FaceBottom
		}
		return world.FaceTop
	default:
		if step > 0 {
			return world.FaceSouth
		}
		return world.FaceNorth
	}
}
