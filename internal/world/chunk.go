package world

import "fmt"

const (
	// Chunk dimensions
	ChunkSizeX = 16
	ChunkSizeY = 16
	ChunkSizeZ = 16

	ChunkVolume = ChunkSizeX * ChunkSizeY * ChunkSizeZ
)

// ChunkCoord identifies a chunk in the chunk-aligned grid.
type ChunkCoord struct {
	X, Y, Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// ChunkCoordOf returns the coordinate of the chunk containing world block (x, y, z).
func ChunkCoordOf(x, y, z int) ChunkCoord {
	return ChunkCoord{
		X: floorDiv(x, ChunkSizeX),
		Y: floorDiv(y, ChunkSizeY),
		Z: floorDiv(z, ChunkSizeZ),
	}
}

// LocalCoords converts world block coordinates to coordinates inside their chunk.
func LocalCoords(x, y, z int) (int, int, int) {
	return mod(x, ChunkSizeX), mod(y, ChunkSizeY), mod(z, ChunkSizeZ)
}

// Origin returns the world block coordinate of the chunk's minimum corner.
func (c ChunkCoord) Origin() (int, int, int) {
	return c.X * ChunkSizeX, c.Y * ChunkSizeY, c.Z * ChunkSizeZ
}

// Neighbor returns the chunk sharing the given face.
func (c ChunkCoord) Neighbor(f BlockFace) ChunkCoord {
	dx, dy, dz := f.Normal()
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// Less orders chunk coordinates by Y, then Z, then X.
func (c ChunkCoord) Less(o ChunkCoord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	if c.Z != o.Z {
		return c.Z < o.Z
	}
	return c.X < o.X
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod returns a non-negative remainder for positive b.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
