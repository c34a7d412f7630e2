package engine

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"MandelbrotViewer/viewport"
)

// allocate makes the image buffer and the row cache for a surface. Requests
// past maxPixels, and allocations the runtime refuses, report ErrOutOfMemory.
func allocate(width, height, maxPixels int) (img *image.RGBA, cache [][]int, err error) {
	if width <= 0 || height <= 0 {
		return nil, nil, fmt.Errorf("%w: %dx%d", ErrBadSize, width, height)
	}
	if maxPixels > 0 && width > maxPixels/height {
		return nil, nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrOutOfMemory, width, height, maxPixels)
	}

	defer func() {
		if r := recover(); r != nil {
			img, cache = nil, nil
			err = fmt.Errorf("%w: %dx%d: %v", ErrOutOfMemory, width, height, r)
		}
	}()
	img = image.NewRGBA(image.Rect(0, 0, width, height))
	cache = make([][]int, height)
	return img, cache, nil
}

// reallocate replaces the surface. The old picture, scaled, stays visible
// until the new rows arrive. On failure the engine is left OutOfMemory.
func (e *Engine) reallocate(width, height int) error {
	img, cache, err := allocate(width, height, e.options.MaxPixels)
	if err != nil {
		e.image, e.cache = nil, nil
		e.stopTicker()
		e.setState(OutOfMemory)
		e.fail(err)
		return err
	}

	if e.image != nil {
		xdraw.ApproxBiLinear.Scale(img, img.Bounds(), e.image, e.image.Bounds(), xdraw.Src, nil)
	}
	e.image, e.cache = img, cache
	e.view = viewport.New(e.limits, width, height)
	e.stats.Reallocations++
	e.dirty = img.Bounds()
	e.flushDirty()
	return nil
}

// Resize asks for a new surface size. Bursts of resizes collapse into one
// reallocation once ResizeDelay passes without another call.
func (e *Engine) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadSize, width, height)
	}
	return e.do(func() {
		e.pendingResize = &image.Point{X: width, Y: height}
		if e.options.ResizeDelay < 0 {
			e.applyResize()
			return
		}
		e.resize.Trigger()
	})
}

func (e *Engine) applyResize() {
	if e.pendingResize == nil {
		return
	}
	size := *e.pendingResize
	e.pendingResize = nil

	if e.image != nil && size.X == e.view.Width && size.Y == e.view.Height {
		if e.state == Ready {
			e.releaseWaiters(nil)
		}
		return
	}

	e.cancelGeneration()
	e.logger.Infof("Resizing to %dx%d", size.X, size.Y)
	if err := e.reallocate(size.X, size.Y); err != nil {
		e.releaseWaiters(err)
		return
	}
	e.startGeneration()
}
