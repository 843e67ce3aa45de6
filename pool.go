package qsynth

import (
	"context"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

// Job is one record to generate: its position in the batch and its own random substream.
type Job struct {
	Index     int
	Source    *Source
	StartTime time.Time
}

/*
Pool generates independent records on a fixed set of workers. Substreams are drawn from
the parent source in index order before any worker starts, and every result is written
back at its own index, so the output does not depend on scheduling.
*/
type Pool struct {
	workers int
	metrics *Metrics
	limiter *RateLimiter
}

func NewPool(workers int) *Pool {
	workers = max(workers, 1)

	metrics := NewMetrics()
	metrics.WorkerCount = workers

	return &Pool{
		workers: workers,
		metrics: metrics,
	}
}

func (p *Pool) Metrics() *Metrics {
	return p.metrics
}

// Throttle paces every worker through limiter. A nil limiter removes the pacing.
func (p *Pool) Throttle(limiter *RateLimiter) *Pool {
	p.limiter = limiter
	return p
}

// Parallel is Batch spread over pool. For the same src both return the same records.
func (gen *Generator) Parallel(ctx context.Context, pool *Pool, n int, src RandomSource) ([]Result[Sample], error) {
	return Run(ctx, pool, n, src, gen.Sample)
}

// ParallelPeople is People spread over pool.
func (gen *Generator) ParallelPeople(ctx context.Context, pool *Pool, n int, src RandomSource) ([]Result[Person], error) {
	return Run(ctx, pool, n, src, gen.Person)
}

/*
Run executes fn for n records on the pool. When ctx is cancelled, records that never ran
carry ctx's error and Run returns it as well.
*/
func Run[T any](
	ctx context.Context, p *Pool, n int, src RandomSource, fn func(RandomSource) (T, error),
) ([]Result[T], error) {
	sources := make([]*Source, n)
	for i := range sources {
		sources[i] = Substream(src)
	}

	results := make([]Result[T], n)
	done := make([]bool, n)
	jobs := make(chan Job, p.workers*10)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		worker := &Worker[T]{pool: p, jobs: jobs, fn: fn}

		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.run(ctx, results, done)
		}()
	}

feed:
	for i, source := range sources {
		select {
		case jobs <- Job{Index: i, Source: source, StartTime: time.Now()}:
		case <-ctx.Done():
			break feed
		}
	}

	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range results {
			if !done[i] {
				results[i] = Result[T]{Index: i, Err: err}
			}
		}
		return results, err
	}

	return results, nil
}

// Worker processes jobs
type Worker[T any] struct {
	pool *Pool
	jobs <-chan Job
	fn   func(RandomSource) (T, error)
}

func (w *Worker[T]) run(ctx context.Context, results []Result[T], done []bool) {
	for job := range w.jobs {
		if ctx.Err() != nil {
			continue
		}

		if w.pool.limiter != nil {
			if err := w.pool.limiter.Wait(ctx); err != nil {
				continue
			}
		}

		value, err := w.fn(job.Source)
		if err != nil {
			errnie.Warn("record %d failed: %v", job.Index, err)
		}

		results[job.Index] = Result[T]{Index: job.Index, Value: value, Err: err}
		done[job.Index] = true

		w.pool.metrics.recordExecution(job.StartTime, err == nil)
	}
}
