package physics_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"ndrcraft/internal/physics"
	"ndrcraft/internal/world"
)

func newGrid(t *testing.T) *world.Grid {
	t.Helper()
	g, err := world.NewGrid(world.Extent{Width: 32, Height: 32, Depth: 32})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestRaycast(t *testing.T) {
	w := newGrid(t)
	if err := w.Set(5, 0, 0, world.BlockTypeStone); err != nil {
		t.Fatal(err)
	}

	start := mgl32.Vec3{0.5, 0.5, 0.5}
	dir := mgl32.Vec3{1, 0, 0}

	result := physics.Raycast(start, dir, 0.1, 10, w)
	if !result.Hit {
		t.Fatalf("Expected hit, got miss")
	}
	if result.HitPosition != [3]int{5, 0, 0} {
		t.Errorf("Expected hit at {5,0,0}, got %v", result.HitPosition)
	}
	if result.AdjacentPosition != [3]int{4, 0, 0} {
		t.Errorf("Expected adjacent at {4,0,0}, got %v", result.AdjacentPosition)
	}
	if result.Face != world.FaceWest {
		t.Errorf("Expected west face, got %s", result.Face)
	}
	// Ray starts at X=0.5 and enters the voxel at X=5.
	if result.Distance < 4.49 || result.Distance > 4.51 {
		t.Errorf("Expected distance 4.5, got %f", result.Distance)
	}

	if r := physics.Raycast(start, dir, 0.1, 4, w); r.Hit {
		t.Errorf("Expected miss due to maxDist, got hit at %v", r.HitPosition)
	}
	if r := physics.Raycast(start, mgl32.Vec3{0, 1, 0}, 0.1, 10, w); r.Hit {
		t.Errorf("Expected miss, got hit at %v", r.HitPosition)
	}
}

func TestRaycastUnnormalizedDirection(t *testing.T) {
	w := newGrid(t)
	if err := w.Set(5, 0, 0, world.BlockTypeStone); err != nil {
		t.Fatal(err)
	}
	r := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{20, 0, 0}, 0, 10, w)
	if !r.Hit || r.Distance < 4.49 || r.Distance > 4.51 {
		t.Errorf("Expected hit at distance 4.5, got %+v", r)
	}
}

func TestRaycastNegativeAxes(t *testing.T) {
	w := newGrid(t)
	if err := w.Set(-4, 0, 0, world.BlockTypeStone); err != nil {
		t.Fatal(err)
	}
	if err := w.Set(0, -3, 0, world.BlockTypeStone); err != nil {
		t.Fatal(err)
	}
	start := mgl32.Vec3{0.5, 0.5, 0.5}

	r := physics.Raycast(start, mgl32.Vec3{-1, 0, 0}, 0, 10, w)
	if !r.Hit || r.HitPosition != [3]int{-4, 0, 0} || r.AdjacentPosition != [3]int{-3, 0, 0} {
		t.Fatalf("Expected hit at {-4,0,0} from {-3,0,0}, got %+v", r)
	}
	if r.Face != world.FaceEast {
		t.Errorf("Expected east face, got %s", r.Face)
	}

	r = physics.Raycast(start, mgl32.Vec3{0, -1, 0}, 0, 10, w)
	if !r.Hit || r.HitPosition != [3]int{0, -3, 0} || r.Face != world.FaceTop {
		t.Fatalf("Expected top face of {0,-3,0}, got %+v", r)
	}
	if r.Distance < 2.49 || r.Distance > 2.51 {
		t.Errorf("Expected distance 2.5, got %f", r.Distance)
	}
}

func TestRaycastAdjacentIsFaceNeighbor(t *testing.T) {
	w := newGrid(t)
	if err := w.Set(3, 2, 4, world.BlockTypeBrick); err != nil {
		t.Fatal(err)
	}
	start := mgl32.Vec3{0.3, 0.6, 0.2}
	target := mgl32.Vec3{3.5, 2.5, 4.5}
	r := physics.Raycast(start, target.Sub(start), 0, 20, w)
	if !r.Hit || r.HitPosition != [3]int{3, 2, 4} {
		t.Fatalf("Expected hit at {3,2,4}, got %+v", r)
	}
	dx, dy, dz := r.Face.Normal()
	want := [3]int{3 + dx, 2 + dy, 4 + dz}
	if r.AdjacentPosition != want {
		t.Errorf("Expected adjacent %v in front of %s face, got %v", want, r.Face, r.AdjacentPosition)
	}
}

func TestRaycastSkipsCellsInsideMinDist(t *testing.T) {
	w := newGrid(t)
	if err := w.Set(0, 0, 0, world.BlockTypeStone); err != nil {
		t.Fatal(err)
	}
	if err := w.Set(3, 0, 0, world.BlockTypeStone); err != nil {
		t.Fatal(err)
	}
	r := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{1, 0, 0}, physics.MinReachDistance, 10, w)
	if !r.Hit || r.HitPosition != [3]int{3, 0, 0} {
		t.Errorf("Expected to skip the starting voxel and hit {3,0,0}, got %+v", r)
	}
}

func TestRaycastDegenerate(t *testing.T) {
	w := newGrid(t)
	if r := physics.Raycast(mgl32.Vec3{}, mgl32.Vec3{}, 0, 10, w); r.Hit {
		t.Error("Expected zero direction to miss")
	}
	if r := physics.Raycast(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 5, 1, w); r.Hit {
		t.Error("Expected inverted range to miss")
	}
	// leaving the grid only finds air
	if r := physics.Raycast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{0, 0, 1}, 0, 100, w); r.Hit {
		t.Errorf("Expected miss in an empty grid, got %+v", r)
	}
}
