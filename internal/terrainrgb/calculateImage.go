package terrainrgb

import (
	"image"

	"github.com/gruppe-adler/terrain-dat/internal/dem"
)

// calculateImage encodes raster as Terrain-RGB. The image is square, the raster sits in its top left
// corner; padding and NODATA cells are transparent.
func calculateImage(raster *dem.EsriASCIIRaster) *image.RGBA {

	w, h := raster.Dims()

	size := int(w)
	if int(h) > size {
		size = int(h)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))

	for row := uint(0); row < h; row++ {
		for col := uint(0); col < w; col++ {
			z := raster.Z(col, row)
			if raster.IsNoData(z) {
				continue
			}

			img.SetRGBA(int(col), int(row), HeightToRgb(z))
		}
	}

	return img
}
