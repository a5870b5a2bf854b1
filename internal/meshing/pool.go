package meshing

import (
	"context"
	"sync"

	"regionview/internal/profiling"
	"regionview/internal/render/chunk"
	"regionview/internal/world"
)

// MeshJob represents a meshing job request
type MeshJob struct {
	World *world.World
	Coord world.ChunkCoord
	// Result channel - will be sent the result when done
	ResultChan chan MeshResult
}

// MeshResult contains the result of a meshing operation
type MeshResult struct {
	Coord world.ChunkCoord
	Mesh  *chunk.MeshData
	Error error
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
	ctx, cancel := context.WithCancel(context.Background())

	pool := &WorkerPool{
		jobQueue: make(chan MeshJob, queueSize),
		workers:  max(workers, 1),
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := range pool.workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	return pool
}

// SubmitJob submits a mesh generation job to the pool
// Returns true if job was submitted successfully, false if queue is full
func (p *WorkerPool) SubmitJob(job MeshJob) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		return false // Queue is full
	}
}

// SubmitJobBlocking submits a job and blocks until it's queued or the pool shuts down
func (p *WorkerPool) SubmitJobBlocking(job MeshJob) {
	select {
	case p.jobQueue <- job:
	case <-p.ctx.Done():
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			stop := profiling.Track("meshing.BuildSectionMesh")
			mesh, err := BuildSectionMesh(job.World, job.Coord)
			stop()

			select {
			case job.ResultChan <- MeshResult{Coord: job.Coord, Mesh: mesh, Error: err}:
			case <-p.ctx.Done():
				return
			}

		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers and waits for them to exit. Queued jobs are dropped.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// GetQueueLength returns the current number of jobs in the queue
func (p *WorkerPool) GetQueueLength() int {
	return len(p.jobQueue)
}

// MeshAll meshes every coordinate through the pool and returns the results in
// completion order. It stops early when ctx is cancelled.
func (p *WorkerPool) MeshAll(ctx context.Context, w *world.World, coords []world.ChunkCoord) ([]MeshResult, error) {
	results := make(chan MeshResult, len(coords))
	go func() {
		for _, c := range coords {
			p.SubmitJobBlocking(MeshJob{World: w, Coord: c, ResultChan: results})
		}
	}()

	out := make([]MeshResult, 0, len(coords))
	for len(out) < len(coords) {
		select {
		case r := <-results:
			out = append(out, r)
		case <-ctx.Done():
			return out, ctx.Err()
		case <-p.ctx.Done():
			return out, context.Canceled
		}
	}
	return out, nil
}
