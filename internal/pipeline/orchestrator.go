package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docnif/internal/config"
	"github.com/dgallion1/docnif/internal/parser"
)

var (
	ErrQueueFull   = errors.New("job queue is full")
	ErrJobNotFound = errors.New("job not found")
)

// Orchestrator manages the document extraction pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	registry *parser.Registry
	log      *slog.Logger
	cfg      config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, registry *parser.Registry, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		registry: registry,
		log:      log,
		cfg:      cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.registry, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
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

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job. Earlier unfinished jobs of the same session are
// canceled first, since a session only ever wants its latest file.
func (o *Orchestrator) Submit(job *Job) error {
	if job.SessionID != "" {
		for _, prev := range o.jobs.Active(job.SessionID) {
			if prev.ID != job.ID && prev.Cancel() {
				o.log.Info("superseded job canceled", "job_id", prev.ID, "session_id", job.SessionID, "by", job.ID)
			}
		}
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.fail("queue_full", ErrQueueFull.Error())
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// Cancel cancels a job by ID. Canceling a finished job is a no-op.
func (o *Orchestrator) Cancel(id string) (*Job, error) {
	job := o.jobs.Get(id)
	if job == nil {
		return nil, ErrJobNotFound
	}
	if job.Cancel() {
		o.log.Info("job canceled", "job_id", id)
	}
	return job, nil
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// JobCount returns the number of tracked jobs.
func (o *Orchestrator) JobCount() int {
	return o.jobs.Len()
}

// Registry returns the parser registry for direct use by API handlers.
func (o *Orchestrator) Registry() *parser.Registry {
	return o.registry
}
