package meshing

import (
	"context"
	"errors"
	"sync"
	"time"

	"ndrcraft/internal/world"
)

// ErrPoolClosed is returned when submitting to a pool that has shut down.
var ErrPoolClosed = errors.New("meshing: worker pool shut down")

// MeshJob represents a meshing job request
type MeshJob struct {
	Source VoxelSource
	Styler FaceStyler
	Coord  world.ChunkCoord
	// Result channel - will be sent the result when done
	ResultChan chan<- MeshResult
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	Coord   world.ChunkCoord
	Mesh    *Mesh
	Elapsed time.Duration
}

// WorkerPool manages goroutines for mesh generation
type WorkerPool struct {
	jobQueue chan MeshJob
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new mesh worker pool
func NewWorkerPool(workers int, queueSize int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		jobQueue: make(chan MeshJob, queueSize),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	return pool
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// SubmitJob submits a mesh generation job to the pool
// Returns true if job was submitted successfully, false if queue is full
func (p *WorkerPool) SubmitJob(job MeshJob) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false
	}
}

// SubmitJobBlocking blocks until the job is queued. It fails once ctx is
// cancelled or the pool has shut down.
func (p *WorkerPool) SubmitJobBlocking(ctx context.Context, job MeshJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-p.ctx.Done():
		return ErrPoolClosed
	default:
	}
	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			start := time.Now()
			mesh := BuildChunkMesh(job.Source, job.Coord, job.Styler)
			result := MeshResult{
				Coord:   job.Coord,
				Mesh:    mesh,
				Elapsed: time.Since(start),
			}

			// Result channels are sized by the submitter, so this never blocks
			// for ChunkManager; other callers may be slower readers.
			select {
			case job.ResultChan <- result:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers and waits for them to exit. Jobs still queued
// are dropped. The queue is left open so a racing SubmitJob cannot panic.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// Done is closed once Shutdown has been called.
func (p *WorkerPool) Done() <-chan struct{} {
	return p.ctx.Done()
}

// QueueLength returns the current number of jobs in the queue
func (p *WorkerPool) QueueLength() int {
	return len(p.jobQueue)
}
