// Package worker runs a fixed set of long lived goroutines that compute rows
// pulled from a shared job queue.
package worker

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BrugadaSyndrome/bslogger"

	"MandelbrotViewer/task"
)

type Pool struct {
	compute   ComputeFunc
	done      chan struct{}
	jobs      *task.Queue[task.Job]
	logger    bslogger.Logger
	closeOnce sync.Once
	results   *task.Queue[task.JobResult]
	settings  Settings
	wg        sync.WaitGroup
	workers   []*worker

	completed atomic.Uint64
	failed    atomic.Uint64
}

type worker struct {
	id     int
	logger bslogger.Logger
	pool   *Pool

	jobsCompleted atomic.Uint64
}

// NewPool starts settings.WorkerCount workers. They live until Close.
func NewPool(settings Settings) *Pool {
	settings.Verify()

	p := &Pool{
		compute:  settings.Compute,
		done:     make(chan struct{}),
		jobs:     task.NewQueue[task.Job](),
		logger:   bslogger.NewLogger(settings.Name, bslogger.Normal, nil),
		results:  task.NewQueue[task.JobResult](),
		settings: settings,
	}
	p.logger.Debug(settings.String())

	p.wg.Add(settings.WorkerCount)
	for i := 0; i < settings.WorkerCount; i++ {
		w := &worker{
			id:     i,
			logger: bslogger.NewLogger(fmt.Sprintf("%s Worker %d", settings.Name, i), bslogger.Normal, nil),
			pool:   p,
		}
		p.workers = append(p.workers, w)
		go w.processJobs()
	}
	go p.tickers()

	p.logger.Infof("Started %d workers", settings.WorkerCount)
	return p
}

func (p *Pool) tickers() {
	heartBeat := time.NewTicker(p.settings.HeartBeat)
	defer heartBeat.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-heartBeat.C:
			p.logger.Debugf("Rows [Completed: %d] [Failed: %d] [Queued: %d]", p.completed.Load(), p.failed.Load(), p.jobs.Len())
		}
	}
}

// Submit appends jobs to the shared queue. It never blocks.
func (p *Pool) Submit(jobs ...task.Job) {
	if !p.jobs.Push(jobs...) {
		p.logger.Warningf("Dropped %d jobs submitted after close", len(jobs))
	}
}

// Purge drops every job still waiting in the queue and returns how many were
// dropped. Rows already being computed are not affected.
func (p *Pool) Purge() int {
	return len(p.jobs.Drain())
}

// Results returns every finished job queued so far without waiting.
func (p *Pool) Results() []task.JobResult {
	return p.results.Drain()
}

func (p *Pool) Workers() int {
	return len(p.workers)
}

func (p *Pool) Queued() int {
	return p.jobs.Len()
}

func (p *Pool) Completed() uint64 {
	return p.completed.Load()
}

// Close stops the workers once their current row is finished.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.jobs.Close()
		p.wg.Wait()
		p.results.Close()
		for _, w := range p.workers {
			w.logger.Debugf("Processed %d rows", w.jobsCompleted.Load())
		}
		p.logger.Info("Shut down")
	})
}

func (w *worker) processJobs() {
	defer w.pool.wg.Done()
	w.logger.Debug("Processing jobs")

	for {
		job, more := w.pool.jobs.Pop()
		if !more {
			break
		}

		result := w.compute(job)
		if result.Err != nil {
			w.pool.failed.Add(1)
		}
		w.pool.results.Push(result)
		w.jobsCompleted.Add(1)
		w.pool.completed.Add(1)

		// Workers have no priority below the caller, so give way between rows.
		runtime.Gosched()
	}
}

// compute isolates a panicking row so it only fails that job.
func (w *worker) compute(job task.Job) (result task.JobResult) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Errorf("Row %d of generation %d failed: %v", job.Row, job.Generation, r)
			result = task.JobResult{
				Generation: job.Generation,
				Row:        job.Row,
				Err:        fmt.Errorf("row %d: %v", job.Row, r),
			}
		}
	}()
	return w.pool.compute(job)
}
