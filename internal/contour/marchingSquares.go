// Package contour extracts contour lines from elevation grids.
package contour

import (
	"github.com/paulmach/orb"

	"github.com/gruppe-adler/terrain-dat/internal/dem"
)

// MarchingSquares calculates the contour lines of raster at given height. Cells touching NODATA are
// skipped, lines end there.
func MarchingSquares(raster *dem.EsriASCIIRaster, height float64) []orb.LineString {
	if raster.Ncols < 2 || raster.Nrows < 2 {
		return []orb.LineString{}
	}

	s := newStitcher()

	for row := uint(0); row < raster.Nrows-1; row++ {
		for col := uint(0); col < raster.Ncols-1; col++ {
			for _, segment := range calcLinesForColRow(raster, col, row, height) {
				s.add(segment[0], segment[1])
			}
		}
	}

	return s.lines()
}

func calcLinesForColRow(raster *dem.EsriASCIIRaster, col uint, row uint, height float64) [][2]orb.Point {
	tlHeight := raster.Z(col, row)
	trHeight := raster.Z(col+1, row)
	brHeight := raster.Z(col+1, row+1)
	blHeight := raster.Z(col, row+1)

	if raster.IsNoData(tlHeight) || raster.IsNoData(trHeight) || raster.IsNoData(brHeight) || raster.IsNoData(blHeight) {
		return nil
	}

	leftX := raster.X(col)
	rightX := raster.X(col + 1)
	bottomY := raster.Y(row + 1)
	topY := raster.Y(row)

	// find MS "case"
	index := uint(0)
	if tlHeight > height {
		index = index | 8
	}
	if trHeight > height {
		index = index | 4
	}
	if brHeight > height {
		index = index | 2
	}
	if blHeight > height {
		index = index | 1
	}

	topEdgePoint := func() orb.Point {
		return orb.Point{interpolate(leftX, tlHeight, rightX, trHeight, height), topY}
	}
	leftEdgePoint := func() orb.Point {
		return orb.Point{leftX, interpolate(bottomY, blHeight, topY, tlHeight, height)}
	}
	bottomEdgePoint := func() orb.Point {
		return orb.Point{interpolate(leftX, blHeight, rightX, brHeight, height), bottomY}
	}
	rightEdgePoint := func() orb.Point {
		return orb.Point{rightX, interpolate(bottomY, brHeight, topY, trHeight, height)}
	}

	switch index {
	case 1, 14:
		// bottom to left edge
		return [][2]orb.Point{{bottomEdgePoint(), leftEdgePoint()}}
	case 2, 13:
		// right to bottom edge
		return [][2]orb.Point{{rightEdgePoint(), bottomEdgePoint()}}
	case 3, 12:
		// right to left edge
		return [][2]orb.Point{{rightEdgePoint(), leftEdgePoint()}}
	case 4, 11:
		// top to right edge
		return [][2]orb.Point{{topEdgePoint(), rightEdgePoint()}}
	case 5:
		// saddle: left to top and bottom to right edge
		return [][2]orb.Point{{leftEdgePoint(), topEdgePoint()}, {bottomEdgePoint(), rightEdgePoint()}}
	case 6, 9:
		// top to bottom edge
		return [][2]orb.Point{{topEdgePoint(), bottomEdgePoint()}}
	case 7, 8:
		// left to top edge
		return [][2]orb.Point{{leftEdgePoint(), topEdgePoint()}}
	case 10:
		// saddle: left to bottom and top to right edge
		return [][2]orb.Point{{leftEdgePoint(), bottomEdgePoint()}, {topEdgePoint(), rightEdgePoint()}}
	}

	// 0 and 15 have no lines
	return nil
}

func interpolate(c0, h0, c1, h1, height float64) float64 {
	return (c0*(h1-height) + c1*(height-h0)) / (h1 - h0)
}
