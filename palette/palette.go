// Package palette turns iteration counts into colours.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"MandelbrotViewer/misc"
	"MandelbrotViewer/task"
)

const (
	Spectrum Type = iota
	PaleSpectrum
	Grayscale
	ReverseGrayscale
	Gradient
)

type Type int

var typeNames = []string{
	"Spectrum", "PaleSpectrum", "Grayscale", "ReverseGrayscale", "Gradient",
}

func (t Type) String() string {
	if t < Spectrum || t > Gradient {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if strings.EqualFold(s, name) {
			return Type(i), nil
		}
	}
	return Spectrum, fmt.Errorf("unknown palette type %q", s)
}

// InSetColor is used for points that never escaped.
var InSetColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}

// Palette describes how colours are generated. A Length of 0 means one
// colour per possible iteration value.
type Palette struct {
	Type          Type
	Length        int
	GradientStart color.RGBA
	GradientEnd   color.RGBA
}

func Default() Palette {
	return Palette{
		Type:          Spectrum,
		GradientStart: color.RGBA{R: 255, G: 255, B: 255, A: 255},
		GradientEnd:   color.RGBA{R: 0, G: 0, B: 180, A: 255},
	}
}

func (p Palette) String() string {
	output := "{Palette "
	output += fmt.Sprintf("Type: %s ", p.Type)
	output += fmt.Sprintf("Length: %d ", p.Length)
	output += fmt.Sprintf("GradientStart: %s ", FormatColor(p.GradientStart))
	output += fmt.Sprintf("GradientEnd: %s}", FormatColor(p.GradientEnd))
	return output
}

func (p Palette) Verify() error {
	if p.Type < Spectrum || p.Type > Gradient {
		return fmt.Errorf("unknown palette type %d", int(p.Type))
	}
	if p.Length < 0 {
		return fmt.Errorf("palette length %d is negative", p.Length)
	}
	return nil
}

// Size is the number of colours Build produces for maxIterations.
func (p Palette) Size(maxIterations int) int {
	if p.Length > 0 {
		return p.Length
	}
	return max(maxIterations, 0) + 1
}

// Build generates the colour table.
func (p Palette) Build(maxIterations int) []color.RGBA {
	n := p.Size(maxIterations)
	colors := make([]color.RGBA, n)
	for i := range colors {
		fraction := 0.0
		if n > 1 {
			fraction = float64(i) / float64(n-1)
		}
		switch p.Type {
		case Spectrum:
			colors[i] = hsv(float64(i)/float64(n), 1, 1)
		case PaleSpectrum:
			colors[i] = hsv(float64(i)/float64(n), 0.5, 1)
		case Grayscale:
			v := misc.LerpUint8(0, 255, fraction)
			colors[i] = color.RGBA{R: v, G: v, B: v, A: 255}
		case ReverseGrayscale:
			v := misc.LerpUint8(255, 0, fraction)
			colors[i] = color.RGBA{R: v, G: v, B: v, A: 255}
		case Gradient:
			colors[i] = misc.LerpRGBA(p.GradientStart, p.GradientEnd, fraction)
		}
	}
	return colors
}

// ColorFor maps an iteration count to its colour. Counts past the end of the
// table wrap around.
func ColorFor(count int, colors []color.RGBA) color.RGBA {
	if count == task.InSet || count < 0 || len(colors) == 0 {
		return InSetColor
	}
	return colors[count%len(colors)]
}

func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: 255}
}

func channel(v float64) uint8 {
	return uint8(misc.Clamp(math.Round(v*255), 0, 255))
}

var ErrBadColor = errors.New("bad colour")

// ParseColor reads "#rrggbb" (the leading # is optional).
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
