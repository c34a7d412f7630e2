package engine

import (
	"fmt"
	"image"

	"MandelbrotViewer/palette"
	"MandelbrotViewer/viewport"
)

// SetLimits shows region r, widened to the surface aspect ratio. It restarts
// rendering unless the displayed region would not change.
func (e *Engine) SetLimits(r viewport.Region) error {
	if err := r.Verify(); err != nil {
		return err
	}
	return e.do(func() {
		e.setLimits(r, true)
	})
}

// setLimits reports whether the displayed region changed.
func (e *Engine) setLimits(r viewport.Region, remember bool) bool {
	next := viewport.New(r, e.view.Width, e.view.Height)
	if next.Region == e.view.Region {
		return false
	}

	e.cancelGeneration()
	old := e.view.Region
	if remember {
		e.remember(old)
	}
	e.limits = r
	e.view = next
	e.emit(Event{Kind: LimitsChanged, Status: e.state, Generation: e.generation, Old: old, New: next.Region})
	e.startGeneration()
	return true
}

func (e *Engine) remember(r viewport.Region) {
	e.history = append(e.history, r)
	if len(e.history) > e.options.HistorySize {
		e.history = e.history[len(e.history)-e.options.HistorySize:]
	}
}

// Undo goes back to the region shown before the last limits change. It
// reports false when there is nothing to undo.
func (e *Engine) Undo() (bool, error) {
	var undone bool
	err := e.do(func() {
		for len(e.history) > 0 && !undone {
			last := e.history[len(e.history)-1]
			e.history = e.history[:len(e.history)-1]
			undone = e.setLimits(last, false)
		}
	})
	return undone, err
}

// ZoomAtPoint scales the view by factor around pixel (px, py). See
// viewport.Viewport.ZoomAtPoint.
func (e *Engine) ZoomAtPoint(px, py, factor float64, recenter bool) error {
	var err error
	doErr := e.do(func() {
		var r viewport.Region
		r, err = e.view.ZoomAtPoint(px, py, factor, recenter)
		if err == nil {
			e.setLimits(r, true)
		}
	})
	if doErr != nil {
		return doErr
	}
	return err
}

// ZoomToBox zooms in to, or out from, a pixel rectangle. Empty rectangles
// are ignored.
func (e *Engine) ZoomToBox(box image.Rectangle, zoomOut bool) error {
	var err error
	doErr := e.do(func() {
		r, ok := e.view.ZoomToBox(box, zoomOut)
		if !ok {
			return
		}
		if err = r.Verify(); err == nil {
			e.setLimits(r, true)
		}
	})
	if doErr != nil {
		return doErr
	}
	return err
}

// SetMaxIterations changes the iteration cap and recomputes the image.
func (e *Engine) SetMaxIterations(n int) error {
	if n <= 0 || n > MaxIterationsLimit {
		return fmt.Errorf("%w: %d", ErrBadIterations, n)
	}
	return e.do(func() {
		e.setMaxIterations(n)
	})
}

func (e *Engine) setMaxIterations(n int) bool {
	if n == e.maxIterations {
		return false
	}
	e.cancelGeneration()
	e.maxIterations = n
	e.colors = e.palette.Build(e.maxIterations)
	e.startGeneration()
	return true
}

// SetPalette replaces the palette. Only colours change, so the cached counts
// are repainted without computing anything.
func (e *Engine) SetPalette(p palette.Palette) error {
	if err := p.Verify(); err != nil {
		return err
	}
	return e.do(func() {
		e.setPalette(p)
	})
}

// SetPaletteLength changes the number of colours before the palette wraps.
// Zero gives one colour per iteration value.
func (e *Engine) SetPaletteLength(n int) error {
	if n < 0 {
		return fmt.Errorf("palette length %d is negative", n)
	}
	return e.do(func() {
		p := e.palette
		p.Length = n
		e.setPalette(p)
	})
}

func (e *Engine) setPalette(p palette.Palette) bool {
	if p == e.palette {
		return false
	}
	e.palette = p
	e.recolor()
	return true
}
