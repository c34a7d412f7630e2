package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BrugadaSyndrome/bslogger"

	"MandelbrotViewer/engine"
	"MandelbrotViewer/viewport"
)

func TestFrameName(t *testing.T) {
	tests := []struct {
		output string
		frame  int
		frames int
		want   string
	}{
		{"mandelbrot.png", 0, 1, "mandelbrot.png"},
		{"zoom.png", 3, 10, "zoom_0003.png"},
		{"out/zoom", 12, 20, "out/zoom_0012"},
	}
	for _, tt := range tests {
		if got := frameName(tt.output, tt.frame, tt.frames); got != tt.want {
			t.Errorf("frameName(%q, %d, %d) = %q, want %q", tt.output, tt.frame, tt.frames, got, tt.want)
		}
	}
}

func TestZoomSequenceRegion(t *testing.T) {
	start := viewport.Region{XMin: -2, XMax: 2, YMin: -1, YMax: 1}
	z := zoomSequence{frames: 3, factor: 2, centerX: -0.5, centerY: 0.25, centered: true}

	want := viewport.Region{XMin: -1, XMax: 0, YMin: 0, YMax: 0.5}
	if got := z.region(start, 2); !got.Equal(want) {
		t.Errorf("region(start, 2) = %s, want %s", got, want)
	}
	if got := z.region(start, 0); got.Width() != start.Width() || got.Height() != start.Height() {
		t.Errorf("region(start, 0) = %s, want the starting spans", got)
	}
}

func TestZoomSequenceRender(t *testing.T) {
	e, err := engine.New(engine.Options{
		Width:             24,
		Height:            16,
		MaxIterations:     30,
		CompositeInterval: 5 * time.Millisecond,
		ResizeDelay:       -1,
	})
	if err != nil {
		t.Fatalf("engine.New: %s", err)
	}
	defer e.Close()

	dir := t.TempDir()
	output := filepath.Join(dir, "frames", "zoom.png")
	z := zoomSequence{frames: 3, factor: 1.5}
	logger := bslogger.NewLogger("FramesTest", bslogger.Normal, nil)
	if err := z.render(e, output, 10*time.Second, logger); err != nil {
		t.Fatalf("render: %s", err)
	}

	for frame := 0; frame < 3; frame++ {
		name := frameName(output, frame, 3)
		file, err := os.Open(name)
		if err != nil {
			t.Fatalf("frame %d: %s", frame, err)
		}
		img, err := png.Decode(file)
		file.Close()
		if err != nil {
			t.Fatalf("decoding %s: %s", name, err)
		}
		if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 16 {
			t.Errorf("%s is %s, want 24x16", name, img.Bounds())
		}
	}

	if err := (zoomSequence{frames: 2, factor: 0}).render(e, output, time.Second, logger); err == nil {
		t.Error("render with a zero factor succeeded")
	}
}
