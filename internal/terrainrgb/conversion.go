package terrainrgb

import (
	"image/color"
	"math"
)

/*
	The Mapbox Terrain-RGB Tiles use the following equation to decode
	height values from rgb.

	height = -10000 + ((R * 256 * 256 + G * 256 + B) * 0.1)

	With x = (R * 256 * 256 + G * 256 + B) solving for x gives:
	x = 10 * (height + 10000)

	R, G and B are the digits of x in base 256. Heights outside of what 24 bits can hold are clamped.
*/

const (
	baseHeight = -10000.0
	resolution = 0.1
	maxX       = 1<<24 - 1
)

// HeightToRgb calculates rgb values from height
func HeightToRgb(height float64) color.RGBA {
	x := math.Round((height - baseHeight) / resolution)
	x = math.Max(0, math.Min(maxX, x))

	v := uint32(x)

	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}

// RgbToHeight calculates height from given rgb values
func RgbToHeight(c color.RGBA) float64 {
	x := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)

	return baseHeight + float64(x)*resolution
}
