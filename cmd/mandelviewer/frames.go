package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"path/filepath"
	"strings"
	"time"

	"github.com/BrugadaSyndrome/bslogger"

	"MandelbrotViewer/engine"
	"MandelbrotViewer/misc"
	"MandelbrotViewer/viewport"
)

// zoomSequence renders frames images, each magnified by factor over the
// previous one around a fixed plane point.
type zoomSequence struct {
	frames   int
	factor   float64
	centerX  float64
	centerY  float64
	centered bool
}

func (z zoomSequence) render(e *engine.Engine, output string, timeout time.Duration, logger bslogger.Logger) error {
	if z.frames < 1 {
		z.frames = 1
	}
	if !(z.factor > 0) {
		return fmt.Errorf("zoom factor %g must be positive", z.factor)
	}

	start := e.Viewport().Region
	if !z.centered {
		z.centerX, z.centerY = start.Center()
	}

	for frame := 0; frame < z.frames; frame++ {
		if z.frames > 1 {
			err := e.SetLimits(z.region(start, frame))
			if err != nil {
				return fmt.Errorf("frame %d: %w", frame, err)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err := e.WaitReady(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}

		img, err := e.Image()
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		var buffer bytes.Buffer
		err = png.Encode(&buffer, img)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}

		name := frameName(output, frame, z.frames)
		_, err = misc.WriteFile(name, buffer.Bytes())
		if err != nil {
			return err
		}
		logger.Infof("Generated image %s [frame %d/%d] %s", name, frame+1, z.frames, e.Stats())
	}
	return nil
}

// region is the view for frame, centered on the zoom point with the starting
// spans divided by factor once per frame.
func (z zoomSequence) region(start viewport.Region, frame int) viewport.Region {
	scale := 1.0
	for i := 0; i < frame; i++ {
		scale /= z.factor
	}
	halfWidth := start.Width() * scale / 2
	halfHeight := start.Height() * scale / 2
	return viewport.Region{
		XMin: z.centerX - halfWidth,
		XMax: z.centerX + halfWidth,
		YMin: z.centerY - halfHeight,
		YMax: z.centerY + halfHeight,
	}
}

// frameName numbers output when there is more than one frame:
// "zoom.png" becomes "zoom_0003.png".
func frameName(output string, frame int, frames int) string {
	if frames <= 1 {
		return output
	}
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(output, ext), frame, ext)
}
