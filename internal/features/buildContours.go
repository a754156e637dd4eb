package features

import (
	"context"
	"math"

	"github.com/paulmach/orb/geojson"

	"github.com/gruppe-adler/terrain-dat/internal/contour"
	"github.com/gruppe-adler/terrain-dat/internal/dem"
)

// every majorEvery-th contour is an index contour
const majorEvery = 5

func buildContours(ctx context.Context, raster *dem.EsriASCIIRaster, interval float64) (*geojson.FeatureCollection, error) {
	contours, err := contour.Build(ctx, raster, interval)
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for _, c := range contours {
		step := int64(math.Round(c.Elevation / interval))
		for _, line := range c.Lines {
			f := geojson.NewFeature(line)
			f.Properties["elevation"] = c.Elevation
			f.Properties["major"] = step%majorEvery == 0
			fc.Append(f)
		}
	}

	return fc, nil
}
