// Package chunks draws chunk meshes: one vertex array per chunk, each with
// buffers that only grow.
package chunks

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"ndrcraft/internal/camera"
	"ndrcraft/internal/graphics"
	renderer "ndrcraft/internal/graphics/renderer"
	"ndrcraft/internal/logging"
	"ndrcraft/internal/meshing"
	"ndrcraft/internal/profiling"
	"ndrcraft/internal/world"
)

const (
	ShaderName = "voxel"

	cameraBinding = 0
	cameraBlock   = 2 * 16 * 4 // view + proj, std140
	atlasUnit     = 0
)

// Fog fades distant chunks into the clear color.
var (
	FogStart float32 = 120
	FogEnd   float32 = 400
)

type chunkMesh struct {
	vao, vbo, ebo uint32
	vboCap        int
	eboCap        int
	indexCount    int32
	version       uint64
	mesh          *meshing.Mesh
	model         mgl32.Mat4
	min, max      mgl32.Vec3
}

// Chunks implements chunk rendering
type Chunks struct {
	shaderDir string
	atlas     *image.RGBA
	log       logging.Logger

	shader  *graphics.Shader
	texture uint32
	ubo     uint32

	meshes map[world.ChunkCoord]*chunkMesh
	order  []world.ChunkCoord
	drawn  int
}

// New creates the renderable. Shaders are read from shaderDir when it has
// them. atlas is uploaded on Init.
func New(shaderDir string, atlas *image.RGBA, logger logging.Logger) *Chunks {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Chunks{
		shaderDir: shaderDir,
		atlas:     atlas,
		log:       logger,
		meshes:    make(map[world.ChunkCoord]*chunkMesh),
	}
}

// Init compiles the shader and uploads the atlas.
func (c *Chunks) Init() error {
	var err error
	c.shader, err = graphics.LoadShader(c.shaderDir, ShaderName)
	if err != nil {
		return err
	}
	if !c.shader.BindUniformBlock("Camera", cameraBinding) {
		c.log.Warnf("shader %s has no Camera uniform block", ShaderName)
	}

	c.shader.Use()
	c.shader.SetInt("atlas", atlasUnit)
	c.shader.SetVector3("fogColor", renderer.ClearColor[0], renderer.ClearColor[1], renderer.ClearColor[2])
	c.shader.SetFloat("fogStart", FogStart)
	c.shader.SetFloat("fogEnd", FogEnd)

	gl.GenBuffers(1, &c.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, c.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, cameraBlock, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, cameraBinding, c.ubo)

	if c.atlas != nil {
		c.texture = graphics.UploadTexture(c.atlas)
		c.atlas = nil
	}
	return nil
}

// Sync uploads the meshes that changed since the last call and releases
// chunks that are no longer drawable.
func (c *Chunks) Sync(chunks []meshing.RenderableChunk) {
	defer profiling.Track("renderer.chunks.Sync")()

	seen := make(map[world.ChunkCoord]struct{}, len(chunks))
	c.order = c.order[:0]
	uploaded := 0
	for _, rc := range chunks {
		seen[rc.Coord] = struct{}{}
		c.order = append(c.order, rc.Coord)

		m := c.meshes[rc.Coord]
		if m == nil {
			m = &chunkMesh{}
			c.meshes[rc.Coord] = m
		}
		if m.mesh == rc.Mesh && m.version == rc.Version {
			continue
		}
		m.upload(rc)
		uploaded++
	}

	for coord, m := range c.meshes {
		if _, ok := seen[coord]; !ok {
			m.release()
			delete(c.meshes, coord)
		}
	}
	if uploaded > 0 {
		c.log.Debugf("uploaded %d chunk meshes, %d resident", uploaded, len(c.meshes))
	}
}

func (m *chunkMesh) upload(rc meshing.RenderableChunk) {
	if m.vao == 0 {
		gl.GenVertexArrays(1, &m.vao)
		gl.GenBuffers(1, &m.vbo)
		gl.GenBuffers(1, &m.ebo)
		gl.BindVertexArray(m.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)

		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, meshing.VertexStride, 0)
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, meshing.VertexStride, 3*4)
		gl.EnableVertexAttribArray(2)
		gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, meshing.VertexStride, 7*4)
	} else {
		gl.BindVertexArray(m.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	}

	verts := rc.Mesh.VertexData()
	if size := rc.Mesh.VertexBytes(); size > m.vboCap {
		m.vboCap = meshing.AlignedSize(size)
		gl.BufferData(gl.ARRAY_BUFFER, m.vboCap, nil, gl.DYNAMIC_DRAW)
	}
	if len(verts) > 0 {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))
	}

	// the element buffer binding is part of the VAO state
	if size := rc.Mesh.IndexBytes(); size > m.eboCap {
		m.eboCap = meshing.AlignedSize(size)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, m.eboCap, nil, gl.DYNAMIC_DRAW)
	}
	if len(rc.Mesh.Indices) > 0 {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, rc.Mesh.IndexBytes(), gl.Ptr(rc.Mesh.Indices))
	}
	gl.BindVertexArray(0)

	m.indexCount = int32(rc.Mesh.IndexCount())
	m.mesh = rc.Mesh
	m.version = rc.Version
	m.model = rc.Model
	x, y, z := rc.Coord.Origin()
	m.min = mgl32.Vec3{float32(x), float32(y), float32(z)}
	m.max = m.min.Add(mgl32.Vec3{world.ChunkSizeX, world.ChunkSizeY, world.ChunkSizeZ})
}

func (m *chunkMesh) release() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	*m = chunkMesh{}
}

// Render draws every synced chunk that intersects the view frustum.
func (c *Chunks) Render(ctx renderer.RenderContext) {
	defer profiling.Track("renderer.chunks.Render")()

	c.shader.Use()
	gl.BindBuffer(gl.UNIFORM_BUFFER, c.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, 16*4, gl.Ptr(&ctx.View[0]))
	gl.BufferSubData(gl.UNIFORM_BUFFER, 16*4, 16*4, gl.Ptr(&ctx.Proj[0]))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	gl.ActiveTexture(gl.TEXTURE0 + atlasUnit)
	gl.BindTexture(gl.TEXTURE_2D, c.texture)

	frustum := camera.NewFrustum(ctx.Proj.Mul4(ctx.View))
	c.drawn = 0
	for _, coord := range c.order {
		m := c.meshes[coord]
		if m == nil || m.indexCount == 0 || !frustum.IntersectsAABB(m.min, m.max) {
			continue
		}
		c.shader.SetMatrix4("model", m.model)
		gl.BindVertexArray(m.vao)
		gl.DrawElementsWithOffset(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, 0)
		c.drawn++
	}
	gl.BindVertexArray(0)
}

// Drawn returns the number of chunks issued in the last Render.
func (c *Chunks) Drawn() int {
	return c.drawn
}

// Dispose cleans up OpenGL resources
func (c *Chunks) Dispose() {
	for coord, m := range c.meshes {
		m.release()
		delete(c.meshes, coord)
	}
	c.order = c.order[:0]
	if c.ubo != 0 {
		gl.DeleteBuffers(1, &c.ubo)
		c.ubo = 0
	}
	graphics.DeleteTexture(c.texture)
	c.texture = 0
	if c.shader != nil {
		c.shader.Delete()
	}
}
