// Package metrics exports meshing and frame statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ndrcraft/internal/logging"
)

// MeshMetrics records chunk remeshing and frame timings. It satisfies
// meshing.Recorder.
type MeshMetrics struct {
	chunksMeshed  prometheus.Counter
	meshVertices  prometheus.Counter
	chunkDuration prometheus.Histogram
	batchDuration prometheus.Histogram
	batchSize     prometheus.Histogram
	frameDuration prometheus.Histogram
	drawnChunks   prometheus.Gauge
	editsRejected prometheus.Counter
}

// NewMeshMetrics creates the collectors and registers them with reg.
func NewMeshMetrics(reg prometheus.Registerer) (*MeshMetrics, error) {
	m := &MeshMetrics{
		chunksMeshed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndrcraft",
			Subsystem: "meshing",
			Name:      "chunks_meshed_total",
			Help:      "Chunks whose mesh was rebuilt.",
		}),
		meshVertices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndrcraft",
			Subsystem: "meshing",
			Name:      "vertices_total",
			Help:      "Vertices emitted by chunk meshing.",
		}),
		chunkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ndrcraft",
			Subsystem: "meshing",
			Name:      "chunk_duration_seconds",
			Help:      "Time to mesh a single chunk.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ndrcraft",
			Subsystem: "meshing",
			Name:      "batch_duration_seconds",
			Help:      "Wall time of one UpdateAllDirty pass.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ndrcraft",
			Subsystem: "meshing",
			Name:      "batch_chunks",
			Help:      "Chunks rebuilt per UpdateAllDirty pass.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		frameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ndrcraft",
			Subsystem: "frame",
			Name:      "duration_seconds",
			Help:      "CPU time spent in one frame tick.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 8),
		}),
		drawnChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ndrcraft",
			Subsystem: "frame",
			Name:      "drawn_chunks",
			Help:      "Chunks drawn in the last frame.",
		}),
		editsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndrcraft",
			Subsystem: "world",
			Name:      "edits_rejected_total",
			Help:      "Voxel edits dropped because they fell outside the grid.",
		}),
	}

	collectors := []prometheus.Collector{
		m.chunksMeshed, m.meshVertices, m.chunkDuration, m.batchDuration,
		m.batchSize, m.frameDuration, m.drawnChunks, m.editsRejected,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MeshMetrics) ObserveChunk(vertices int, elapsed time.Duration) {
	m.chunksMeshed.Inc()
	m.meshVertices.Add(float64(vertices))
	m.chunkDuration.Observe(elapsed.Seconds())
}

func (m *MeshMetrics) ObserveBatch(chunks int, elapsed time.Duration) {
	m.batchSize.Observe(float64(chunks))
	m.batchDuration.Observe(elapsed.Seconds())
}

// ObserveFrame records one frame tick.
func (m *MeshMetrics) ObserveFrame(elapsed time.Duration, drawn, rejected int) {
	m.frameDuration.Observe(elapsed.Seconds())
	m.drawnChunks.Set(float64(drawn))
	if rejected > 0 {
		m.editsRejected.Add(float64(rejected))
	}
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Server exposes /metrics on its own listener.
type Server struct {
	srv *http.Server
	log logging.Logger
}

// NewServer prepares a metrics server on addr.
func NewServer(addr string, g prometheus.Gatherer, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: logger,
	}
}

// Start serves in the background.
func (s *Server) Start() {
	go func() {
		s.log.Infof("metrics available at http://%s/metrics", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorf("metrics server: %v", err)
		}
	}()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
