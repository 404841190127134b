package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"ndrcraft/internal/meshing"
)

// ClearColor is the sky color behind the world.
var ClearColor = mgl32.Vec4{0.53, 0.81, 0.92, 1.0}

// Renderer orchestrates rendering via renderable features
type Renderer struct {
	renderables []Renderable
	aspect      float32
}

// NewRenderer configures the GL state and initializes the renderables in
// order. It must run on the thread owning the GL context.
func NewRenderer(rs ...Renderable) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r := &Renderer{renderables: rs, aspect: 1}
	for i, rr := range rs {
		if err := rr.Init(); err != nil {
			// release what was already set up
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, err
		}
	}
	return r, nil
}

// Sync forwards the drawable chunk set to every renderable that draws chunks.
func (r *Renderer) Sync(chunks []meshing.RenderableChunk) {
	for _, rr := range r.renderables {
		if sink, ok := rr.(ChunkSink); ok {
			sink.Sync(chunks)
		}
	}
}

// Draw clears the frame and renders all features
func (r *Renderer) Draw(view, proj mgl32.Mat4) {
	gl.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	ctx := RenderContext{View: view, Proj: proj, Aspect: r.aspect}
	for _, renderable := range r.renderables {
		renderable.Render(ctx)
	}
}

// SetViewport updates the GL viewport to the framebuffer size.
func (r *Renderer) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	r.aspect = float32(width) / float32(height)
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
}
