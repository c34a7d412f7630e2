package engine

import (
	"time"

	"MandelbrotViewer/task"
)

// maxRowRetries is how many times a failing row is recomputed before the
// generation gives up on it.
const maxRowRetries = 3

// startGeneration invalidates everything in flight and queues one job per row
// for the current viewport.
func (e *Engine) startGeneration() {
	if e.image == nil {
		return
	}

	e.generation++
	for row := range e.cache {
		e.cache[row] = nil
	}
	e.rowsApplied = 0
	clear(e.retries)

	e.pool.Submit(task.NewRowJobs(e.generation, e.view, e.maxIterations)...)
	e.startTicker()
	e.logger.Infof("Generation %d: %s at %d max iterations", e.generation, e.view, e.maxIterations)
	e.setState(Working)
}

// cancelGeneration applies the rows that already came back, then bumps the
// generation so everything still in flight is dropped on arrival. It never
// waits for workers. Reports whether a generation was still running.
func (e *Engine) cancelGeneration() bool {
	if e.state != Working {
		return false
	}

	e.composite()
	if e.state != Working {
		// The drain above finished the generation.
		return false
	}

	e.generation++
	purged := e.pool.Purge()
	e.stats.Purged += uint64(purged)
	e.stopTicker()
	e.logger.Debugf("Cancelled at %d of %d rows, purged %d queued jobs", e.rowsApplied, e.view.Height, purged)
	return true
}

// finishGeneration moves a complete generation to Ready.
func (e *Engine) finishGeneration() {
	e.stopTicker()
	e.logger.Infof("Generation %d complete: %s", e.generation, e.stats)
	e.setState(Ready)
	if e.pendingResize == nil {
		e.releaseWaiters(nil)
	}
}

// Cancel stops the current generation, keeping whatever rows were applied.
func (e *Engine) Cancel() error {
	return e.do(func() {
		if e.cancelGeneration() {
			e.setState(Ready)
			if e.pendingResize == nil {
				e.releaseWaiters(nil)
			}
			return
		}
		// Nothing was running; still move the counter so every cancel is
		// visible as a new generation.
		e.generation++
		e.emit(Event{Kind: StatusChanged, Status: e.state, Generation: e.generation})
	})
}

func (e *Engine) startTicker() {
	if e.ticker == nil {
		e.ticker = time.NewTicker(e.options.CompositeInterval)
	}
}

func (e *Engine) stopTicker() {
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
}
