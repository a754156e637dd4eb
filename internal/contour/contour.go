package contour

import (
	"context"
	"math"
	"runtime"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/gruppe-adler/terrain-dat/internal/dem"
)

// Contour are all lines of one elevation
type Contour struct {
	Elevation float64
	Lines     []orb.LineString
}

// Levels returns all multiples of interval within [min, max]
func Levels(min, max, interval float64) []float64 {
	if interval <= 0 || min > max {
		return nil
	}

	levels := []float64{}
	for i := math.Ceil(min / interval); i*interval <= max; i++ {
		levels = append(levels, i*interval)
	}
	return levels
}

// Build calculates the contours of raster at every multiple of interval. Levels are calculated in
// parallel, the result is ordered by elevation and has no empty contours.
func Build(ctx context.Context, raster *dem.EsriASCIIRaster, interval float64) ([]Contour, error) {
	min, max, ok := raster.MinMax()
	if !ok {
		return []Contour{}, nil
	}

	levels := Levels(min, max, interval)
	contours := make([]Contour, len(levels))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())

	for i, level := range levels {
		i, level := i, level
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			contours[i] = Contour{Elevation: level, Lines: MarchingSquares(raster, level)}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := contours[:0]
	for _, c := range contours {
		if len(c.Lines) > 0 {
			result = append(result, c)
		}
	}

	return result, nil
}
