package preview

import (
	"image"
	"image/color"
	"math"

	"github.com/gruppe-adler/terrain-dat/internal/dem"
)

// grayscale renders raster with its lowest height black and its highest white. NODATA is
// transparent.
func grayscale(raster *dem.EsriASCIIRaster) (img *image.NRGBA, min, max float64) {
	w, h := raster.Dims()
	img = image.NewNRGBA(image.Rect(0, 0, int(w), int(h)))

	min, max, ok := raster.MinMax()
	if !ok {
		return img, 0, 0
	}

	span := max - min
	for row := uint(0); row < h; row++ {
		for col := uint(0); col < w; col++ {
			z := raster.Z(col, row)
			if raster.IsNoData(z) {
				continue
			}

			v := uint8(0)
			if span > 0 {
				v = uint8(math.Round(255 * (z - min) / span))
			}
			img.SetNRGBA(int(col), int(row), color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	return img, min, max
}
