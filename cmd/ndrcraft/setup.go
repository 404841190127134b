package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"ndrcraft/internal/camera"
	"ndrcraft/internal/config"
	"ndrcraft/internal/game"
	"ndrcraft/internal/logging"
	"ndrcraft/internal/meshing"
	"ndrcraft/internal/metrics"
	"ndrcraft/internal/profiling"
	"ndrcraft/internal/registry"
	"ndrcraft/internal/world"
)

// Game is everything that exists before a window does.
type Game struct {
	Session  *game.Session
	Registry *registry.Registry
	Metrics  *metrics.MeshMetrics

	pool    *meshing.WorkerPool
	server  *metrics.Server
	log     logging.Logger
}

func newGame(cfg *config.Config, logger logging.Logger) (*Game, error) {
	blocks, err := registry.Load(cfg.Assets.Blocks)
	if err != nil {
		return nil, err
	}

	grid, err := world.NewGrid(world.Extent{Width: cfg.World.Width, Height: cfg.World.Height, Depth: cfg.World.Depth})
	if err != nil {
		return nil, err
	}
	gen, err := world.NewGenerator(cfg.World.Generator, cfg.World.GroundHeight)
	if err != nil {
		return nil, err
	}
	timer := profiling.Scoped("world.Populate", logger)
	if err := gen.Populate(grid); err != nil {
		return nil, fmt.Errorf("populate world: %w", err)
	}
	timer.Stop()
	logger.Infof("world %dx%dx%d with %d solid voxels", cfg.World.Width, cfg.World.Height, cfg.World.Depth, grid.SolidCount())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	mm, err := metrics.NewMeshMetrics(reg)
	if err != nil {
		return nil, err
	}

	workers := cfg.Meshing.MeshWorkers(runtime.NumCPU())
	pool := meshing.NewWorkerPool(workers, cfg.Meshing.QueueSize)
	chunks := meshing.NewChunkManager(grid, blocks)
	chunks.SetPool(pool)
	chunks.SetLogger(logger)
	chunks.SetRecorder(mm)
	chunks.MarkRange(grid.ChunkRange())
	logger.Debugf("meshing with %d workers", workers)

	cc := cfg.Camera
	cam := camera.New(mgl32.Vec3{cc.Start[0], cc.Start[1], cc.Start[2]})
	cam.FOV = mgl32.DegToRad(cc.FOVDegrees)
	cam.Near, cam.Far = cc.Near, cc.Far
	cam.Speed = cc.Speed
	cam.Sensitivity = cc.Sensitivity
	cam.SetAspect(cfg.Window.Width, cfg.Window.Height)

	g := &Game{
		Session:  game.NewSession(grid, chunks, cam, nil, logger),
		Registry: blocks,
		Metrics:  mm,
		pool:     pool,
		log:      logger,
	}
	g.Session.SetFrameObserver(mm)

	if cfg.Metrics.Addr != "" {
		g.server = metrics.NewServer(cfg.Metrics.Addr, reg, logger)
		g.server.Start()
	}
	return g, nil
}

// Close stops the meshing workers and the metrics endpoint.
func (g *Game) Close() {
	g.pool.Shutdown()
	if g.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := g.server.Shutdown(ctx); err != nil {
			g.log.Warnf("metrics shutdown: %v", err)
		}
	}
}

func setupWindow(wc config.WindowConfig) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(wc.Width, wc.Height, wc.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, fmt.Errorf("init gl: %w", err)
	}

	// without vsync the FPS limiter paces frames
	if config.GetVSync() {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	return window, nil
}
