package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/config"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/outline"
	"github.com/Bhavya1904/Adobe-Hackathon/internal/parser"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("job queue is full")
	// ErrStopped is returned for jobs submitted after Stop.
	ErrStopped = errors.New("orchestrator is stopped")
)

// Orchestrator runs outline jobs on a fixed pool of workers.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	stats *Stats
	log   *slog.Logger
	cfg   config.Config

	parserOpts parser.Options
	thresholds outline.Thresholds

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// NewOrchestrator creates the pipeline. Call Start before submitting jobs.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:       NewJobStore(cfg.JobTTL),
		queue:      make(chan *Job, cfg.MaxQueueSize),
		stats:      NewStats(time.Hour),
		log:        log,
		cfg:        cfg,
		parserOpts: parser.Options{PDFPreflight: cfg.PDFPreflight},
		thresholds: outline.DefaultThresholds(),
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.parserOpts, o.thresholds, o.stats, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job := <-o.queue:
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop shuts down the pipeline and waits for the workers. The queue is left
// open; later submissions fail with ErrStopped. Stop may be called more than
// once.
func (o *Orchestrator) Stop() {
	o.stopped.Store(true)
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

func (o *Orchestrator) reject(job *Job) error {
	job.AddError(ErrStopped.Error())
	job.SetStatus(StatusFailed, "stopped")
	return ErrStopped
}

// Submit queues a new job for processing without blocking.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	if o.stopped.Load() {
		return o.reject(job)
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// SubmitWait queues a job, waiting for a free slot until ctx is done.
func (o *Orchestrator) SubmitWait(ctx context.Context, job *Job) error {
	o.jobs.Put(job)
	if o.stopped.Load() {
		return o.reject(job)
	}
	select {
	case o.queue <- job:
		return nil
	case <-ctx.Done():
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "canceled")
		return ctx.Err()
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// ListJobs returns all tracked jobs, newest first.
func (o *Orchestrator) ListJobs() []*Job {
	return o.jobs.List()
}

// DeleteJob forgets a finished job. Jobs still in flight are kept.
func (o *Orchestrator) DeleteJob(id string) (bool, error) {
	job := o.jobs.Get(id)
	if job == nil {
		return false, nil
	}
	if status := job.Snapshot().Status; !status.Terminal() {
		return true, fmt.Errorf("job %s is still %s", id, status)
	}
	return o.jobs.Delete(id), nil
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns processing time statistics for recent documents.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}

// Config returns the configuration the orchestrator was built with.
func (o *Orchestrator) Config() config.Config {
	return o.cfg
}
