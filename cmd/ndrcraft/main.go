package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"ndrcraft/internal/config"
	"ndrcraft/internal/logging"
)

func init() {
	// GLFW and GL calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default $"+config.EnvConfigPath+")")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := logging.New("ndrcraft", *debug)
	if err := run(*configPath, *debug, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool, logger *logging.StdLogger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.SetDebug(debug || cfg.Log.Debug)
	config.Apply(cfg)

	game, err := newGame(cfg, logger)
	if err != nil {
		return err
	}
	defer game.Close()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	app, err := NewApp(window, game, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Dispose()

	app.Run()
	return nil
}
