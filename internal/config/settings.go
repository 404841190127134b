package config

import "sync"

// RuntimeSettings holds values that can change while the game runs.
type RuntimeSettings struct {
	mu       sync.RWMutex
	fpsLimit int // 0 = uncapped
	vsync    bool
}

var globalRuntimeSettings = &RuntimeSettings{}

// Apply seeds the runtime settings from a loaded configuration.
func Apply(c *Config) {
	SetFPSLimit(c.Window.FPSLimit)
	SetVSync(c.Window.VSync)
}

// GetFPSLimit returns the frame cap; 0 means uncapped.
func GetFPSLimit() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.fpsLimit
}

// SetFPSLimit sets the frame cap. Negative values mean uncapped.
func SetFPSLimit(limit int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	globalRuntimeSettings.fpsLimit = limit
}

func GetVSync() bool {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.vsync
}

func SetVSync(enabled bool) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	globalRuntimeSettings.vsync = enabled
}
