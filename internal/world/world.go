package world

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned by Set for coordinates outside the grid extents.
var ErrOutOfBounds = errors.New("world: coordinate out of bounds")

// Extent is the size of the grid in blocks along each axis.
type Extent struct {
	Width, Height, Depth int
}

// Volume returns the number of cells covered by the extent.
func (e Extent) Volume() int {
	return e.Width * e.Height * e.Depth
}

// Valid reports whether every dimension is positive.
func (e Extent) Valid() bool {
	return e.Width > 0 && e.Height > 0 && e.Depth > 0
}

// DirtyMarker is notified when a chunk's mesh no longer matches the grid.
type DirtyMarker interface {
	MarkDirty(coord ChunkCoord)
}

// Grid is a dense, bounded voxel grid centered on the origin.
//
// The grid is not synchronized. Callers must not run Set concurrently with
// readers; the frame loop applies all edits before meshing starts.
type Grid struct {
	extent Extent
	// inclusive bounds in world block coordinates
	minX, minY, minZ int
	maxX, maxY, maxZ int
	blocks           []BlockType
	marker           DirtyMarker
}

// NewGrid creates an empty grid. The minimum corner sits at -extent/2 on
// each axis, so a 100x12x100 grid spans x in [-50, 49].
func NewGrid(extent Extent) (*Grid, error) {
	if !extent.Valid() {
		return nil, fmt.Errorf("world: invalid extent %dx%dx%d", extent.Width, extent.Height, extent.Depth)
	}
	g := &Grid{
		extent: extent,
		minX:   -(extent.Width / 2),
		minY:   -(extent.Height / 2),
		minZ:   -(extent.Depth / 2),
		blocks: make([]BlockType, extent.Volume()),
	}
	g.maxX = g.minX + extent.Width - 1
	g.maxY = g.minY + extent.Height - 1
	g.maxZ = g.minZ + extent.Depth - 1
	return g, nil
}

// SetDirtyMarker attaches the receiver of chunk invalidations.
func (g *Grid) SetDirtyMarker(m DirtyMarker) {
	g.marker = m
}

func (g *Grid) Extent() Extent {
	return g.extent
}

// Bounds returns the inclusive minimum and maximum block coordinates.
func (g *Grid) Bounds() (min, max [3]int) {
	return [3]int{g.minX, g.minY, g.minZ}, [3]int{g.maxX, g.maxY, g.maxZ}
}

// Contains reports whether the coordinate lies inside the grid. The
// comparison never does arithmetic on the arguments, so extreme values
// cannot wrap into range.
func (g *Grid) Contains(x, y, z int) bool {
	return x >= g.minX && x <= g.maxX &&
		y >= g.minY && y <= g.maxY &&
		z >= g.minZ && z <= g.maxZ
}

// index assumes Contains(x, y, z).
func (g *Grid) index(x, y, z int) int {
	ix, iy, iz := x-g.minX, y-g.minY, z-g.minZ
	return (iz*g.extent.Height+iy)*g.extent.Width + ix
}

// Get returns the block at the world coordinate, or air outside the grid.
func (g *Grid) Get(x, y, z int) BlockType {
	if !g.Contains(x, y, z) {
		return BlockTypeAir
	}
	return g.blocks[g.index(x, y, z)]
}

// IsAir checks if the block at the specified world coordinates is air.
func (g *Grid) IsAir(x, y, z int) bool {
	return g.Get(x, y, z) == BlockTypeAir
}

// Set stores a block. Coordinates outside the grid return ErrOutOfBounds and
// leave the grid untouched. When the stored value changes, the owning chunk
// and every face-adjacent chunk across a boundary this voxel touches are
// marked dirty.
func (g *Grid) Set(x, y, z int, bt BlockType) error {
	if !g.Contains(x, y, z) {
		return fmt.Errorf("set (%d,%d,%d): %w", x, y, z, ErrOutOfBounds)
	}
	idx := g.index(x, y, z)
	if g.blocks[idx] == bt {
		return nil
	}
	g.blocks[idx] = bt

	if g.marker == nil {
		return nil
	}
	owner := ChunkCoordOf(x, y, z)
	g.marker.MarkDirty(owner)

	// Mark neighbor chunks dirty if we touched a border block. Neighbors whose
	// adjacent voxel lies outside the grid can never mesh that face.
	for _, f := range AllFaces {
		dx, dy, dz := f.Normal()
		nx, ny, nz := x+dx, y+dy, z+dz
		if !g.Contains(nx, ny, nz) {
			continue
		}
		if nb := ChunkCoordOf(nx, ny, nz); nb != owner {
			g.marker.MarkDirty(nb)
		}
	}
	return nil
}

// ChunkRange returns the inclusive range of chunk coordinates that intersect the grid.
func (g *Grid) ChunkRange() (min, max ChunkCoord) {
	return ChunkCoordOf(g.minX, g.minY, g.minZ), ChunkCoordOf(g.maxX, g.maxY, g.maxZ)
}

// ForEachSolid calls fn for every non-air voxel in storage order.
func (g *Grid) ForEachSolid(fn func(x, y, z int, bt BlockType)) {
	w, h := g.extent.Width, g.extent.Height
	for i, bt := range g.blocks {
		if bt == BlockTypeAir {
			continue
		}
		x := i % w
		y := (i / w) % h
		z := i / (w * h)
		fn(x+g.minX, y+g.minY, z+g.minZ, bt)
	}
}

// SolidCount returns the number of non-air voxels.
func (g *Grid) SolidCount() int {
	n := 0
	for _, bt := range g.blocks {
		if bt != BlockTypeAir {
			n++
		}
	}
	return n
}
