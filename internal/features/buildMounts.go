package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/gruppe-adler/terrain-dat/internal/dem"
)

// buildMounts finds all peaks of raster. Mounts are ordered by elevation, highest first.
func buildMounts(raster *dem.EsriASCIIRaster) *geojson.FeatureCollection {

	mounts := geojson.NewFeatureCollection()

	if raster.Ncols < 3 || raster.Nrows < 3 {
		return mounts
	}

	// for all cells (except edges)
	for row := uint(1); row < raster.Nrows-1; row++ {
		for col := uint(1); col < raster.Ncols-1; col++ {
			elevation := raster.Data[row][col]

			// we'll only create mounts for peaks, which are above the water level
			if elevation <= 0 || raster.IsNoData(elevation) {
				continue
			}

			if !isPeak(raster, col, row) {
				continue
			}

			feature := geojson.NewFeature(orb.Point{raster.X(col), raster.Y(row)})
			feature.Properties["elevation"] = elevation
			feature.Properties["text"] = fmt.Sprintf("%.0f", math.Round(elevation))

			mounts.Append(feature)
		}
	}

	sort.SliceStable(mounts.Features, func(i, j int) bool {
		return mounts.Features[i].Properties["elevation"].(float64) > mounts.Features[j].Properties["elevation"].(float64)
	})

	return mounts
}

// isPeak reports whether all direct neighbours of (col, row) are lower. Neighbours of the same
// elevation or without data rule out a peak, as it's in the middle of a plane or at a hole.
func isPeak(raster *dem.EsriASCIIRaster, col, row uint) bool {
	elevation := raster.Data[row][col]

	for compareRow := row - 1; compareRow <= row+1; compareRow++ {
		for compareCol := col - 1; compareCol <= col+1; compareCol++ {
			// we don't want to compare to the reference cell
			if row == compareRow && col == compareCol {
				continue
			}

			compareElev := raster.Data[compareRow][compareCol]
			if raster.IsNoData(compareElev) || compareElev >= elevation {
				return false
			}
		}
	}

	return true
}
