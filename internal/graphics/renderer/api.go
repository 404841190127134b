package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"ndrcraft/internal/meshing"
)

// RenderContext provides shared context for all renderables
type RenderContext struct {
	View   mgl32.Mat4
	Proj   mgl32.Mat4
	Aspect float32
}

// Renderable interface defines the lifecycle for renderable features
type Renderable interface {
	Init() error
	Render(ctx RenderContext)
	Dispose()
}

// ChunkSink is implemented by renderables that draw chunk meshes.
type ChunkSink interface {
	Sync(chunks []meshing.RenderableChunk)
}
