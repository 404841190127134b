package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"ndrcraft/internal/world"
)

// VoxelSource is the read side of the voxel grid. Coordinates are world block
// coordinates; anything outside the grid must read as air.
type VoxelSource interface {
	Get(x, y, z int) world.BlockType
}

// UVRect is a rectangle in normalized atlas coordinates. V grows downward, as
// in image space.
type UVRect struct {
	U0, V0, U1, V1 float32
}

// FullUV covers the whole texture.
var FullUV = UVRect{U0: 0, V0: 0, U1: 1, V1: 1}

// FaceStyler supplies the material of a block face.
type FaceStyler interface {
	FaceUV(bt world.BlockType, face world.BlockFace) UVRect
	Tint(bt world.BlockType) mgl32.Vec4
}

type plainStyler struct{}

func (plainStyler) FaceUV(world.BlockType, world.BlockFace) UVRect { return FullUV }
func (plainStyler) Tint(world.BlockType) mgl32.Vec4                { return mgl32.Vec4{1, 1, 1, 1} }

// faceCorners lists the four corners of each face in the unit cube, ordered
// bottom-left, bottom-right, top-right, top-left as seen from outside. Two
// triangles 0,1,2 and 2,3,0 over them wind counter-clockwise.
var faceCorners = [world.NumFaces][4]mgl32.Vec3{
	world.FaceNorth:  {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	world.FaceSouth:  {{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
	world.FaceEast:   {{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
	world.FaceWest:   {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
	world.FaceTop:    {{0, 1, 1}, {1, 1, 1}, {1, 1, 0}, {0, 1, 0}},
	world.FaceBottom: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
}

var quadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// BuildChunkMesh emits one quad for every face of a solid voxel in the chunk
// whose neighbor is air. Neighbors are read through src, so faces on the
// chunk border are culled against the adjacent chunk's voxels. A nil styler
// yields white faces mapped to the full texture.
//
// The result is a fresh mesh; an empty chunk yields a non-nil mesh with no
// vertices.
func BuildChunkMesh(src VoxelSource, coord world.ChunkCoord, styler FaceStyler) *Mesh {
	if styler == nil {
		styler = plainStyler{}
	}
	ox, oy, oz := coord.Origin()
	mesh := &Mesh{}

	for ly := 0; ly < world.ChunkSizeY; ly++ {
		for lz := 0; lz < world.ChunkSizeZ; lz++ {
			for lx := 0; lx < world.ChunkSizeX; lx++ {
				wx, wy, wz := ox+lx, oy+ly, oz+lz
				bt := src.Get(wx, wy, wz)
				if bt.IsAir() {
					continue
				}
				base := mgl32.Vec3{float32(lx), float32(ly), float32(lz)}
				var tint mgl32.Vec4
				tinted := false
				for _, face := range world.AllFaces {
					dx, dy, dz := face.Normal()
					if !src.Get(wx+dx, wy+dy, wz+dz).IsAir() {
						continue
					}
					if !tinted {
						tint = styler.Tint(bt)
						tinted = true
					}
					appendFace(mesh, base, face, tint, styler.FaceUV(bt, face))
				}
			}
		}
	}
	return mesh
}

func appendFace(m *Mesh, base mgl32.Vec3, face world.BlockFace, tint mgl32.Vec4, uv UVRect) {
	start := uint32(len(m.Vertices))
	uvs := [4]mgl32.Vec2{
		{uv.U0, uv.V1},
		{uv.U1, uv.V1},
		{uv.U1, uv.V0},
		{uv.U0, uv.V0},
	}
	for i, corner := range faceCorners[face] {
		m.Vertices = append(m.Vertices, Vertex{
			Position: base.Add(corner),
			Color:    tint,
			UV:       uvs[i],
		})
	}
	for _, idx := range quadIndices {
		m.Indices = append(m.Indices, start+idx)
	}
}
