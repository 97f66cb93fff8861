package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// WorkingPool runs asynchronous quote jobs on a fixed set of workers with a
// bounded queue. Submission blocks when the queue is full, which is the
// backpressure the async quote endpoint relies on.
type WorkingPool struct {
	NumWorkers int
	jobChan    chan Job

	mu     sync.RWMutex
	closed bool
}

func NewWorkingPool(numWorkers int, queueSize int) *WorkingPool {
	return &WorkingPool{
		NumWorkers: numWorkers,
		jobChan:    make(chan Job, queueSize),
	}
}

// TrySubmit enqueues a job without blocking. It reports false when the queue
// is full or the pool is shutting down, so the caller can reject the request
// instead of hanging. Handlers may still be running while shutdown closes the
// channel; the closed flag keeps the send from panicking.
func (p *WorkingPool) TrySubmit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.jobChan <- job:
		return true
	default:
		return false
	}
}

func (p *WorkingPool) Start(ctx context.Context, managerWg *sync.WaitGroup) {
	defer managerWg.Done()

	var workerWg sync.WaitGroup

	for i := range p.NumWorkers {
		workerWg.Add(1)
		go p.worker(ctx, &workerWg, i+1)
	}

	<-ctx.Done()

	slog.Info("worker pool shutdown signaled, closing job channel")
	p.mu.Lock()
	p.closed = true
	close(p.jobChan)
	p.mu.Unlock()

	workerWg.Wait()
	slog.Info("all quote workers stopped")
}

func (p *WorkingPool) worker(ctx context.Context, wg *sync.WaitGroup, id int) {
	defer wg.Done()

	for {
		select {
		case job, ok := <-p.jobChan:
			if !ok {
				return
			}
			p.safeExecution(ctx, job, id)
		case <-ctx.Done():
			return
		}
	}
}

func (p *WorkingPool) safeExecution(ctx context.Context, job Job, workerID int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered in quote job", "worker", workerID, "panic", r)
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()

	if err = job(ctx); err != nil {
		slog.Error("quote job failed", "worker", workerID, "error", err)
	}
	return err
}
