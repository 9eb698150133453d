package enrichment

import (
	"context"
	"sync"
)

// JobQueue runs enrichment jobs on background workers so the HTTP surface
// can acknowledge a request before the provider fan-out completes.
type JobQueue struct {
	jobs       chan *Request
	workerFunc func(ctx context.Context, job *Request)
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	started    bool
	stopped    bool
	mu         sync.Mutex
}

// NewJobQueue creates a job queue with the given buffer size.
func NewJobQueue(bufferSize int, workerFunc func(ctx context.Context, job *Request)) *JobQueue {
	ctx, cancel := context.WithCancel(context.Background())
	return &JobQueue{
		jobs:       make(chan *Request, bufferSize),
		workerFunc: workerFunc,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start launches the worker goroutines.
func (q *JobQueue) Start(workerCount int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}
	q.started = true

	for i := 0; i < workerCount; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

func (q *JobQueue) worker() {
	defer q.wg.Done()

	for {
		select {
		case <-q.ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			q.workerFunc(q.ctx, job)
		}
	}
}

// Enqueue adds a job without blocking. Returns false when the queue is full
// or already stopped.
func (q *JobQueue) Enqueue(job *Request) bool {
	// The send happens under the mutex so Stop cannot close the channel
	// between the stopped check and the send.
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return false
	}
	select {
	case q.jobs <- job:
		return true
	default:
		return false
	}
}

// Stop drains the queue and waits for workers to finish. Idempotent;
// concurrent Enqueue calls are rejected once stopping begins.
func (q *JobQueue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.jobs)
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
}

// QueueSize returns the number of pending jobs.
func (q *JobQueue) QueueSize() int {
	return len(q.jobs)
}
