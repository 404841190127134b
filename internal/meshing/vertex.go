package meshing

import "github.com/go-gl/mathgl/mgl32"

// Vertex is one corner of a chunk face. Position is local to the chunk; the
// renderer applies the chunk's model matrix.
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec4
	UV       mgl32.Vec2
}

const (
	// FloatsPerVertex is the interleaved layout: position(3) color(4) uv(2).
	FloatsPerVertex = 3 + 4 + 2
	// VertexStride is the size of one interleaved vertex in bytes.
	VertexStride = FloatsPerVertex * 4

	// BufferAlignment is the granularity GPU buffers are allocated in.
	BufferAlignment = 256
)

// Mesh is the triangle-list geometry of one chunk.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Empty reports whether the mesh has no geometry.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Indices) == 0
}

func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Vertices)
}

func (m *Mesh) IndexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices)
}

// VertexData flattens the vertices into the interleaved float layout the
// renderer uploads.
func (m *Mesh) VertexData() []float32 {
	if m == nil {
		return nil
	}
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Color[0], v.Color[1], v.Color[2], v.Color[3],
			v.UV[0], v.UV[1],
		)
	}
	return out
}

// VertexBytes is the size of the vertex buffer contents in bytes.
func (m *Mesh) VertexBytes() int {
	return m.VertexCount() * VertexStride
}

// IndexBytes is the size of the index buffer contents in bytes.
func (m *Mesh) IndexBytes() int {
	return m.IndexCount() * 4
}

// AlignedSize rounds size up to the next multiple of BufferAlignment.
// Zero stays zero.
func AlignedSize(size int) int {
	if size <= 0 {
		return 0
	}
	return (size + BufferAlignment - 1) / BufferAlignment * BufferAlignment
}
