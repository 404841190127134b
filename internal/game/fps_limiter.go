package game

import (
	"time"

	"ndrcraft/internal/config"
)

// PausedFPS caps the frame rate while the cursor is released.
const PausedFPS = 30

// FPSLimiter provides high-precision frame rate limiting
type FPSLimiter struct {
	next  time.Time
	limit func() int
}

// NewFPSLimiter creates a limiter following the runtime FPS setting.
func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{limit: config.GetFPSLimit}
}

// Wait blocks until the next frame should start. It sleeps most of the gap
// and spins for the last few hundred microseconds.
func (f *FPSLimiter) Wait(paused bool) {
	effectiveLimit := f.limit()
	if paused && (effectiveLimit <= 0 || effectiveLimit > PausedFPS) {
		effectiveLimit = PausedFPS
	}

	if effectiveLimit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(effectiveLimit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
	}

	// resync after a hitch instead of racing to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
