package main

import (
	"context"
	"image"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"ndrcraft/internal/config"
	"ndrcraft/internal/game"
	"ndrcraft/internal/graphics/atlas"
	"ndrcraft/internal/graphics/renderables/chunks"
	"ndrcraft/internal/graphics/renderables/crosshair"
	renderer "ndrcraft/internal/graphics/renderer"
	"ndrcraft/internal/input"
	"ndrcraft/internal/logging"
	"ndrcraft/internal/physics"
	"ndrcraft/internal/profiling"
	"ndrcraft/internal/world"
)

// fallbackTileSize is the tile edge of the generated atlas.
const fallbackTileSize = 16

type App struct {
	window       *glfw.Window
	inputManager *input.Manager
	game         *Game
	renderer     *renderer.Renderer
	log          logging.Logger

	palette  []world.BlockType
	selected int
	paused   bool

	ctx        context.Context
	cancel     context.CancelFunc
	fpsLimiter *game.FPSLimiter
	lastTime   time.Time
}

// NewApp builds the GL renderer on the current context and wires input.
func NewApp(window *glfw.Window, g *Game, cfg *config.Config, logger logging.Logger) (*App, error) {
	layout := g.Registry.Atlas()
	var img *image.RGBA
	if cfg.Assets.Atlas != "" {
		var err error
		img, err = atlas.Load(cfg.Assets.Atlas, layout.Columns, layout.Rows)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Infof("no atlas configured, generating %dx%d placeholder tiles", layout.Columns, layout.Rows)
		img = atlas.Generate(layout.Columns, layout.Rows, fallbackTileSize)
	}

	r, err := renderer.NewRenderer(
		chunks.New(cfg.Assets.ShaderDir, img, logger),
		crosshair.NewCrosshair(cfg.Assets.ShaderDir),
	)
	if err != nil {
		return nil, err
	}
	fbW, fbH := window.GetFramebufferSize()
	r.SetViewport(fbW, fbH)
	g.Session.Camera.SetAspect(fbW, fbH)
	g.Session.SetRenderer(r)

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		window:       window,
		inputManager: input.NewManager(),
		game:         g,
		renderer:     r,
		log:          logger,
		palette:      g.Registry.IDs(),
		ctx:          ctx,
		cancel:       cancel,
		fpsLimiter:   game.NewFPSLimiter(),
		lastTime:     time.Now(),
	}
	bindDefaultKeys(a.inputManager)
	setupInputHandlers(a)
	return a, nil
}

func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	now := time.Now()
	dt := float32(now.Sub(a.lastTime).Seconds())
	a.lastTime = now

	glfw.PollEvents()
	a.handleActions()

	var in game.FrameInput
	if !a.paused {
		f, r, u := a.inputManager.MoveAxes()
		in.Move = mgl32.Vec3{f, r, u}
		yaw, pitch := a.inputManager.ConsumeLook(a.game.Session.Camera.Sensitivity)
		in.Look = mgl32.Vec2{yaw, pitch}
	}

	stats := a.game.Session.Tick(a.ctx, dt, in)
	a.window.SwapBuffers()

	if a.inputManager.JustPressed(input.ActionToggleProfiling) {
		a.log.Infof("frame %v, %d chunks drawn. Top tasks: %s", stats.Elapsed, stats.Drawn, profiling.TopN(5))
	}

	a.inputManager.PostUpdate() // Clear "JustPressed" flags
	a.fpsLimiter.Wait(a.paused)
}

// handleActions runs the edge-triggered actions of this frame.
func (a *App) handleActions() {
	im := a.inputManager
	if im.JustPressed(input.ActionPause) {
		a.setPaused(!a.paused)
	}
	if a.paused {
		// clicking into the window captures the cursor again
		if im.JustPressed(input.ActionBreak) {
			a.setPaused(false)
		}
		return
	}

	for i, act := range input.SelectActions {
		if im.JustPressed(act) && i < len(a.palette) {
			a.selected = i
			if def, ok := a.game.Registry.Get(a.palette[i]); ok {
				a.log.Debugf("selected %s", def.Name)
			}
		}
	}

	s := a.game.Session
	if im.JustPressed(input.ActionBreak) {
		s.BreakTarget(physics.MaxReachDistance)
	}
	if im.JustPressed(input.ActionPlace) && len(a.palette) > 0 {
		s.PlaceTarget(a.palette[a.selected], physics.MaxReachDistance)
	}
}

func (a *App) setPaused(paused bool) {
	a.paused = paused
	if paused {
		a.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	} else {
		a.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	}
	// the next cursor sample after a mode switch is only a reference point
	a.inputManager.ResetCursor()
}

// Dispose releases GL resources while the context is still current.
func (a *App) Dispose() {
	a.cancel()
	a.renderer.Dispose()
}
