package engine

import (
	"fmt"
	"image"

	"MandelbrotViewer/palette"
	"MandelbrotViewer/task"
)

// composite drains every finished row, drops the stale ones and paints the
// rest. It runs on the engine goroutine, once per tick while Working.
func (e *Engine) composite() {
	results := e.pool.Results()
	if len(results) == 0 {
		return
	}

	var discarded uint64
	for _, result := range results {
		if result.Generation != e.generation {
			discarded++
			continue
		}
		if result.Row < 0 || result.Row >= len(e.cache) || e.cache[result.Row] != nil {
			continue
		}
		if result.Err != nil {
			e.retryRow(result)
			continue
		}
		e.applyRow(result.Row, result.Iterations)
		e.rowsApplied++
		e.stats.Applied++
	}
	if discarded > 0 {
		e.stats.Discarded += discarded
		e.logger.Debugf("Discarded %d stale rows", discarded)
	}

	e.flushDirty()
	if e.state == Working && e.rowsApplied >= e.view.Height {
		e.finishGeneration()
	}
}

// retryRow queues a failed row again under the current generation, or gives
// up on it after maxRowRetries attempts.
func (e *Engine) retryRow(result task.JobResult) {
	e.retries[result.Row]++
	if e.retries[result.Row] <= maxRowRetries {
		e.stats.Retried++
		e.pool.Submit(task.NewRowJob(e.generation, e.view, result.Row, e.maxIterations))
		return
	}

	e.stats.FailedRows++
	e.rowsApplied++
	e.fail(fmt.Errorf("giving up on row %d after %d attempts: %w", result.Row, maxRowRetries, result.Err))
}

// applyRow stores one row of counts and paints it.
func (e *Engine) applyRow(row int, counts []int) {
	e.cache[row] = counts
	e.paintRow(row, counts)
}

func (e *Engine) paintRow(row int, counts []int) {
	width := min(len(counts), e.image.Rect.Dx())
	for x := 0; x < width; x++ {
		e.image.SetRGBA(x, row, palette.ColorFor(counts[x], e.colors))
	}
	e.dirty = e.dirty.Union(image.Rect(0, row, e.image.Rect.Dx(), row+1))
}

// recolor repaints every computed row from the cache with the current
// palette. The cache itself is left alone.
func (e *Engine) recolor() {
	e.colors = e.palette.Build(e.maxIterations)
	if e.image == nil {
		return
	}
	for row, counts := range e.cache {
		if counts != nil {
			e.paintRow(row, counts)
		}
	}
	e.flushDirty()
}

func (e *Engine) flushDirty() {
	if e.dirty.Empty() {
		return
	}
	e.emit(Event{Kind: Redraw, Status: e.state, Generation: e.generation, Rect: e.dirty})
	e.dirty = image.Rectangle{}
}
