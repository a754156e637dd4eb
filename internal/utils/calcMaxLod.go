package utils

import (
	"image"
	"math"
)

// TileSize is the edge length of a tile in pixels
const TileSize = 256

// CalcMaxLodFromImage calculates the LOD at which one tile pixel is at most one image pixel.
// The longer side of the image counts.
func CalcMaxLodFromImage(img image.Image) uint8 {
	w := float64(img.Bounds().Dx())
	if h := float64(img.Bounds().Dy()); h > w {
		w = h
	}

	tilesPerRowCol := math.Ceil(w / TileSize)
	if tilesPerRowCol <= 1 {
		return 0
	}

	return uint8(math.Ceil(math.Log2(tilesPerRowCol)))
}
