// Package engine renders the Mandelbrot set incrementally.
//
// An Engine splits each image into one job per row, hands the jobs to a
// fixed worker pool and applies finished rows to its image on a timer. Every
// parameter change starts a new generation; rows computed for an older
// generation are dropped when they come back, which is the only form of
// cancellation. All image, cache and generation state is owned by a single
// engine goroutine, exported methods hand their work to it and wait.
package engine

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/BrugadaSyndrome/bslogger"

	"MandelbrotViewer/misc"
	"MandelbrotViewer/palette"
	"MandelbrotViewer/task"
	"MandelbrotViewer/viewport"
	"MandelbrotViewer/worker"
)

var (
	ErrClosed      = errors.New("engine closed")
	ErrOutOfMemory = errors.New("out of memory")
)

type Engine struct {
	closeOnce sync.Once
	commands  chan func()
	done      chan struct{}
	logger    bslogger.Logger
	options   Options
	pool      *worker.Pool
	resize    *misc.Debouncer
	stopped   chan struct{}

	// Everything below is only touched by the engine goroutine.
	cache         [][]int
	colors        []color.RGBA
	dirty         image.Rectangle
	generation    task.Generation
	history       []viewport.Region
	image         *image.RGBA
	limits        viewport.Region
	maxIterations int
	observers     []Observer
	palette       palette.Palette
	pendingResize *image.Point
	retries       map[int]int
	rowsApplied   int
	state         State
	stats         Stats
	ticker        *time.Ticker
	view          viewport.Viewport
	waiters       []chan error
}

// New starts the worker pool and the engine goroutine and begins rendering
// the first generation.
func New(options Options) (*Engine, error) {
	if err := options.Verify(); err != nil {
		return nil, err
	}

	e := &Engine{
		commands:      make(chan func()),
		done:          make(chan struct{}),
		logger:        bslogger.NewLogger("Engine", bslogger.Normal, nil),
		options:       options,
		stopped:       make(chan struct{}),
		limits:        options.Region,
		maxIterations: options.MaxIterations,
		palette:       options.Palette,
		retries:       make(map[int]int),
		view:          viewport.New(options.Region, options.Width, options.Height),
	}
	e.logger.Debug(options.String())
	e.pool = worker.NewPool(worker.Settings{
		Compute:     options.Compute,
		Name:        "EngineWorkers",
		WorkerCount: options.Workers,
	})
	e.resize = misc.NewDebouncer(options.ResizeDelay, func() {
		e.post(e.applyResize)
	})
	e.colors = e.palette.Build(e.maxIterations)

	if err := e.reallocate(options.Width, options.Height); err != nil {
		e.logger.Warningf("Starting without a surface: %s", err)
	} else {
		e.startGeneration()
	}

	go e.run()
	return e, nil
}

func (e *Engine) run() {
	defer close(e.stopped)

	for {
		var tick <-chan time.Time
		if e.ticker != nil {
			tick = e.ticker.C
		}

		select {
		case <-e.done:
			e.stopTicker()
			e.releaseWaiters(ErrClosed)
			return
		case command := <-e.commands:
			command()
		case <-tick:
			e.composite()
		}
	}
}

// do runs fn on the engine goroutine and waits for it to finish.
func (e *Engine) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case e.commands <- func() {
		defer close(finished)
		fn()
	}:
	case <-e.done:
		return ErrClosed
	}

	select {
	case <-finished:
		return nil
	case <-e.stopped:
		return ErrClosed
	}
}

// post queues fn on the engine goroutine without waiting.
func (e *Engine) post(fn func()) {
	go func() {
		select {
		case e.commands <- fn:
		case <-e.done:
		}
	}()
}

// Close stops the engine goroutine and the worker pool.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.resize.Stop()
		close(e.done)
		<-e.stopped
		e.pool.Close()
		e.logger.Infof("Closed at %s", e.stats)
	})
}

// Subscribe registers an observer for every later event.
func (e *Engine) Subscribe(observer Observer) error {
	return e.do(func() {
		e.observers = append(e.observers, observer)
	})
}

func (e *Engine) emit(event Event) {
	for _, observer := range e.observers {
		observer(event)
	}
}

func (e *Engine) setState(state State) {
	e.state = state
	e.emit(Event{Kind: StatusChanged, Status: state, Generation: e.generation})
}

func (e *Engine) fail(err error) {
	e.logger.Warning(err.Error())
	e.emit(Event{Kind: Failure, Status: e.state, Generation: e.generation, Err: err})
}

// WaitReady blocks until the current generation and any pending resize have
// been applied. It returns ErrOutOfMemory when there is no surface to draw on.
func (e *Engine) WaitReady(ctx context.Context) error {
	result := make(chan error, 1)
	err := e.do(func() {
		switch {
		case e.state == OutOfMemory && e.pendingResize == nil:
			result <- ErrOutOfMemory
		case e.state == Ready && e.pendingResize == nil:
			result <- nil
		default:
			e.waiters = append(e.waiters, result)
		}
	})
	if err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopped:
		return ErrClosed
	}
}

func (e *Engine) releaseWaiters(err error) {
	for _, waiter := range e.waiters {
		waiter <- err
	}
	e.waiters = nil
}

// State reports Ready, Working or OutOfMemory.
func (e *Engine) State() State {
	var state State
	if err := e.do(func() { state = e.state }); err != nil {
		return Ready
	}
	return state
}

// Generation returns the current generation counter.
func (e *Engine) Generation() task.Generation {
	var generation task.Generation
	e.do(func() { generation = e.generation })
	return generation
}

func (e *Engine) Stats() Stats {
	var stats Stats
	e.do(func() {
		stats = e.stats
		stats.Generation = e.generation
	})
	return stats
}

// Viewport returns the displayed region and surface size.
func (e *Engine) Viewport() viewport.Viewport {
	var v viewport.Viewport
	e.do(func() { v = e.view })
	return v
}

func (e *Engine) MaxIterations() int {
	var n int
	e.do(func() { n = e.maxIterations })
	return n
}

func (e *Engine) Palette() palette.Palette {
	var p palette.Palette
	e.do(func() { p = e.palette })
	return p
}

// Image returns a copy of the image buffer, complete or partial.
func (e *Engine) Image() (*image.RGBA, error) {
	var snapshot *image.RGBA
	err := e.do(func() {
		if e.image == nil {
			return
		}
		snapshot = &image.RGBA{
			Pix:    append([]uint8(nil), e.image.Pix...),
			Stride: e.image.Stride,
			Rect:   e.image.Rect,
		}
	})
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, ErrOutOfMemory
	}
	return snapshot, nil
}

// Iterations returns a copy of the iteration cache. Rows not yet computed for
// the current generation are nil.
func (e *Engine) Iterations() [][]int {
	var rows [][]int
	e.do(func() {
		rows = make([][]int, len(e.cache))
		for i, row := range e.cache {
			if row != nil {
				rows[i] = append([]int(nil), row...)
			}
		}
	})
	return rows
}

// ToPlane converts a pixel position to plane coordinates in the current view.
func (e *Engine) ToPlane(px, py float64) (float64, float64) {
	return e.Viewport().ToPlane(px, py)
}
