// Package processing runs image ingest jobs on an in-process worker pool.
// It is used when no Redis-backed queue is configured. Goroutines + channels
// power the implementation.
package processing

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dharsanguruparan/Pokedex/internal/ingest"
)

// ErrQueueFull is returned by Submit when the buffer has no room.
var ErrQueueFull = errors.New("processing queue full")

// HandlerFunc processes one job.
type HandlerFunc func(ctx context.Context, job ingest.Job) error

// Pool consumes jobs on a fixed number of goroutines.
type Pool struct {
	handle  HandlerFunc
	queue   chan ingest.Job
	workers int
	log     *slog.Logger
	wg      sync.WaitGroup
	once    sync.Once
}

// New builds a Pool with queue capacity tied to worker count.
func New(handle HandlerFunc, workers int, log *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pool{
		handle: handle,
		// make(chan T, N) creates a buffered channel so Submit does not block
		// the request that created the record.
		queue:   make(chan ingest.Job, workers*4),
		workers: workers,
		log:     log,
	}
}

// Start launches worker goroutines; they exit when ctx is cancelled. Calling
// Start more than once has no further effect.
func (p *Pool) Start(ctx context.Context) {
	p.once.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker(ctx)
		}
	})
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Submit queues a job without blocking.
func (p *Pool) Submit(job ingest.Job) error {
	select {
	case p.queue <- job:
		return nil
	default:
		p.log.Warn("processor queue full, dropping job", slog.String("name", job.Name))
		return ErrQueueFull
	}
}

// EnqueueImage adapts Submit to the catalog's image queue.
func (p *Pool) EnqueueImage(ctx context.Context, name, source string) error {
	return p.Submit(ingest.Job{Name: name, Source: source})
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.queue:
			if err := p.handle(ctx, job); err != nil {
				p.log.Warn("image ingest failed", slog.String("name", job.Name), slog.String("error", err.Error()))
			}
		}
	}
}
