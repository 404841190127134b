// Package profiling keeps per-frame CPU totals for named sections of the
// frame loop.
package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ndrcraft/internal/logging"
)

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("meshing.UpdateAllDirty")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		add(name, time.Since(start))
	}
}

func add(name string, d time.Duration) {
	mu.Lock()
	frameTotals[name] += d
	mu.Unlock()
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// TopN formats the n largest totals of the current frame, largest first.
// Example: "render.Draw:4.2ms, meshing.UpdateAllDirty:2.1ms"
func TopN(n int) string {
	type entry struct {
		name string
		dur  time.Duration
	}
	ss := Snapshot()
	list := make([]entry, 0, len(ss))
	for k, v := range ss {
		list = append(list, entry{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	n = min(max(n, 0), len(list))
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		parts = append(parts, e.name+":"+formatMs(e.dur))
	}
	return strings.Join(parts, ", ")
}

func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := fmt.Sprintf("%.1f", ms)
	return strings.TrimSuffix(s, ".0") + "ms"
}

// Timer measures one section and logs it when stopped.
type Timer struct {
	name  string
	log   logging.Logger
	start time.Time
}

// Scoped starts a timer that reports to logger at debug level and also adds
// to the frame totals under name.
// Usage: defer profiling.Scoped("world.Generate", logger).Stop()
func Scoped(name string, logger logging.Logger) *Timer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Timer{name: name, log: logger, start: time.Now()}
}

// Stop records and returns the elapsed time.
func (t *Timer) Stop() time.Duration {
	d := time.Since(t.start)
	add(t.name, d)
	t.log.Debugf("%s took %s", t.name, formatMs(d))
	return d
}
