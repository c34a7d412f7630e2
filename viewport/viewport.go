// Package viewport maps between pixel space and the region of the complex
// plane shown on the surface.
package viewport

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// epsilon is the relative tolerance used when comparing spans and regions.
const epsilon = 1e-12

var ErrBadRegion = errors.New("bad region")

type Region struct {
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

// Default is the classic full view of the set.
var Default = Region{XMin: -2.5, XMax: 1.1, YMin: -1.35, YMax: 1.35}

func (r Region) String() string {
	return fmt.Sprintf("{Region X: [%g, %g] Y: [%g, %g]}", r.XMin, r.XMax, r.YMin, r.YMax)
}

func (r Region) Width() float64 {
	return r.XMax - r.XMin
}

func (r Region) Height() float64 {
	return r.YMax - r.YMin
}

func (r Region) Center() (float64, float64) {
	return (r.XMin + r.XMax) / 2, (r.YMin + r.YMax) / 2
}

// Verify rejects regions that cannot be drawn.
func (r Region) Verify() error {
	for _, v := range []float64{r.XMin, r.XMax, r.YMin, r.YMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s has a non finite limit", ErrBadRegion, r)
		}
	}
	if !(r.XMin < r.XMax) || !(r.YMin < r.YMax) {
		return fmt.Errorf("%w: %s is empty", ErrBadRegion, r)
	}
	return nil
}

// Equal compares two regions with a tolerance relative to their size.
func (r Region) Equal(o Region) bool {
	scale := math.Max(math.Max(math.Abs(r.Width()), math.Abs(r.Height())), math.SmallestNonzeroFloat64)
	return near(r.XMin, o.XMin, scale) && near(r.XMax, o.XMax, scale) &&
		near(r.YMin, o.YMin, scale) && near(r.YMax, o.YMax, scale)
}

func near(a, b, scale float64) bool {
	return math.Abs(a-b) <= epsilon*scale
}

// AspectCorrect grows the narrower span of r, keeping its center, so that
// width/height in plane units equals pixelWidth/pixelHeight. The requested
// region always stays fully visible.
func AspectCorrect(r Region, pixelWidth, pixelHeight int) Region {
	if pixelWidth <= 0 || pixelHeight <= 0 {
		return r
	}
	width, height := r.Width(), r.Height()
	aspect := width / height
	windowAspect := float64(pixelWidth) / float64(pixelHeight)
	if math.Abs(aspect-windowAspect) <= epsilon*windowAspect {
		return r
	}

	centerX, centerY := r.Center()
	if aspect < windowAspect {
		width = height * windowAspect
		r.XMin = centerX - width/2
		r.XMax = centerX + width/2
	} else {
		height = width / windowAspect
		r.YMin = centerY - height/2
		r.YMax = centerY + height/2
	}
	return r
}

// Viewport is a region bound to a pixel surface. It is a value; copies are
// snapshots.
type Viewport struct {
	Region
	Width  int
	Height int
}

// New returns the aspect corrected viewport for r on a width x height surface.
func New(r Region, width, height int) Viewport {
	return Viewport{
		Region: AspectCorrect(r, width, height),
		Width:  width,
		Height: height,
	}
}

func (v Viewport) String() string {
	return fmt.Sprintf("{Viewport %s %dx%d}", v.Region, v.Width, v.Height)
}

func (v Viewport) DX() float64 {
	return v.Region.Width() / float64(max(v.Width-1, 1))
}

func (v Viewport) DY() float64 {
	return v.Region.Height() / float64(max(v.Height-1, 1))
}

// ToPlane converts a pixel position (row 0 at the top) to plane coordinates.
func (v Viewport) ToPlane(px, py float64) (float64, float64) {
	return v.XMin + px*v.DX(), v.YMax - py*v.DY()
}

// FromPlane is the inverse of ToPlane, rounded to the nearest pixel.
func (v Viewport) FromPlane(x, y float64) (int, int) {
	return int(math.Round((x - v.XMin) / v.DX())), int(math.Round((v.YMax - y) / v.DY()))
}

// ZoomToBox converts a pixel rectangle to a new region. Zooming in shows
// exactly the plane rectangle under box; zooming out returns the region in
// which the current view would appear inside box. Degenerate boxes report
// false.
func (v Viewport) ZoomToBox(box image.Rectangle, zoomOut bool) (Region, bool) {
	box = box.Canon()
	if box.Dx() == 0 || box.Dy() == 0 {
		return v.Region, false
	}

	left, top := v.ToPlane(float64(box.Min.X), float64(box.Min.Y))
	right, bottom := v.ToPlane(float64(box.Max.X), float64(box.Max.Y))
	if !zoomOut {
		return Region{XMin: left, XMax: right, YMin: bottom, YMax: top}, true
	}

	width, height := v.Region.Width(), v.Region.Height()
	newWidth := width * width / (right - left)
	newHeight := height * height / (top - bottom)
	fractionLeft := (left - v.XMin) / width
	fractionTop := (v.YMax - top) / height

	r := Region{
		XMin: v.XMin - fractionLeft*newWidth,
		YMax: v.YMax + fractionTop*newHeight,
	}
	r.XMax = r.XMin + newWidth
	r.YMin = r.YMax - newHeight
	return r, true
}

// ZoomAtPoint shrinks the region by factor (a factor below one grows it)
// around pixel (px, py). With recenter the point moves to the center of the
// view, otherwise it keeps its place on the surface.
func (v Viewport) ZoomAtPoint(px, py, factor float64, recenter bool) (Region, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return v.Region, fmt.Errorf("%w: zoom factor %g", ErrBadRegion, factor)
	}
	x, y := v.ToPlane(px, py)
	newWidth := v.Region.Width() / factor
	newHeight := v.Region.Height() / factor

	var r Region
	if recenter {
		r = Region{
			XMin: x - newWidth/2,
			XMax: x + newWidth/2,
			YMin: y - newHeight/2,
			YMax: y + newHeight/2,
		}
	} else {
		fractionX := (x - v.XMin) / v.Region.Width()
		fractionY := (v.YMax - y) / v.Region.Height()
		r.XMin = x - fractionX*newWidth
		r.XMax = r.XMin + newWidth
		r.YMax = y + fractionY*newHeight
		r.YMin = r.YMax - newHeight
	}
	return r, r.Verify()
}
