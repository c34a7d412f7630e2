package misc

import (
	"image/color"

	"golang.org/x/exp/constraints"
)

func Lerp[T constraints.Float](v1 T, v2 T, fraction T) T {
	return v1 + (v2-v1)*fraction
}

func LerpUint8(v1 uint8, v2 uint8, fraction float64) uint8 {
	return uint8(Clamp(Lerp(float64(v1), float64(v2), fraction)+0.5, 0, 255))
}

// LerpRGBA blends two opaque colours channel by channel.
func LerpRGBA(color1 color.RGBA, color2 color.RGBA, fraction float64) color.RGBA {
	return color.RGBA{
		R: LerpUint8(color1.R, color2.R, fraction),
		G: LerpUint8(color1.G, color2.G, fraction),
		B: LerpUint8(color1.B, color2.B, fraction),
		A: 255,
	}
}

func Clamp[T constraints.Ordered](v T, low T, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
