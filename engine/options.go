package engine

import (
	"errors"
	"fmt"
	"time"

	"MandelbrotViewer/palette"
	"MandelbrotViewer/viewport"
	"MandelbrotViewer/worker"
)

// MaxIterationsLimit bounds the iteration cap accepted from callers.
const MaxIterationsLimit = 1 << 24

var (
	ErrBadSize       = errors.New("bad surface size")
	ErrBadIterations = errors.New("bad iteration cap")
)

type Options struct {
	Height        int
	MaxIterations int
	Palette       palette.Palette
	Region        viewport.Region
	Width         int

	// CompositeInterval is how often finished rows are applied to the image.
	CompositeInterval time.Duration
	// HistorySize bounds the number of regions kept for Undo.
	HistorySize int
	// MaxPixels caps the surface area; larger resizes put the engine in
	// OutOfMemory. Zero means no cap.
	MaxPixels int
	// ResizeDelay is the quiet time required before a resize is applied.
	// A negative delay applies every resize at once.
	ResizeDelay time.Duration

	// Compute and Workers configure the worker pool.
	Compute worker.ComputeFunc
	Workers int
}

func (o *Options) String() string {
	output := "\nEngine options\n"
	output += fmt.Sprintf("Size: %dx%d\n", o.Width, o.Height)
	output += fmt.Sprintf("Region: %s\n", o.Region)
	output += fmt.Sprintf("Max Iterations: %d\n", o.MaxIterations)
	output += fmt.Sprintf("Palette: %s\n", o.Palette)
	output += fmt.Sprintf("Composite Interval: %s\n", o.CompositeInterval)
	output += fmt.Sprintf("Resize Delay: %s\n", o.ResizeDelay)
	output += fmt.Sprintf("Max Pixels: %d\n", o.MaxPixels)
	output += fmt.Sprintf("Workers: %d\n", o.Workers)
	return output
}

// Verify fills in defaults and rejects values that cannot be fixed.
func (o *Options) Verify() error {
	if o.Width == 0 {
		o.Width = 800
	}
	if o.Height == 0 {
		o.Height = 600
	}
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadSize, o.Width, o.Height)
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = 50
	}
	if o.MaxIterations < 0 || o.MaxIterations > MaxIterationsLimit {
		return fmt.Errorf("%w: %d", ErrBadIterations, o.MaxIterations)
	}
	if o.Region == (viewport.Region{}) {
		o.Region = viewport.Default
	}
	if err := o.Region.Verify(); err != nil {
		return err
	}
	if o.Palette == (palette.Palette{}) {
		o.Palette = palette.Default()
	}
	if err := o.Palette.Verify(); err != nil {
		return err
	}
	if o.CompositeInterval <= 0 {
		o.CompositeInterval = 500 * time.Millisecond
	}
	if o.HistorySize <= 0 {
		o.HistorySize = 32
	}
	if o.MaxPixels < 0 {
		o.MaxPixels = 0
	}
	if o.ResizeDelay == 0 {
		o.ResizeDelay = 150 * time.Millisecond
	}
	return nil
}
