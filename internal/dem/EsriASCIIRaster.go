// Package dem holds digital elevation models as ESRI ASCII grids in memory.
package dem

import "math"

// DefaultNoDataValue is written for cells without a height
const DefaultNoDataValue = -9999

// EsriASCIIRaster represents a ESRI ASCII Grid. Data[0] is the northernmost row.
type EsriASCIIRaster struct {
	Ncols, Nrows     uint
	Xcenter, Ycenter *float64
	Xcorner, Ycorner *float64
	CellSize         float64
	// CellSizeY is set if cells aren't square (DX / DY headers)
	CellSizeY   float64
	NoDataValue float64
	HasNoData   bool
	Data        [][]float64
}

// NewEsriASCIIRaster creates a grid of ncols x nrows cells filled with NODATA. The lower left
// corner of the grid is at (xll, yll).
func NewEsriASCIIRaster(ncols, nrows uint, xll, yll, cellSize, cellSizeY float64) *EsriASCIIRaster {
	raster := &EsriASCIIRaster{
		Ncols:       ncols,
		Nrows:       nrows,
		Xcorner:     &xll,
		Ycorner:     &yll,
		CellSize:    cellSize,
		NoDataValue: DefaultNoDataValue,
		HasNoData:   true,
		Data:        make([][]float64, nrows),
	}
	if cellSizeY != cellSize {
		raster.CellSizeY = cellSizeY
	}

	for r := range raster.Data {
		raster.Data[r] = make([]float64, ncols)
		for c := range raster.Data[r] {
			raster.Data[r][c] = DefaultNoDataValue
		}
	}

	return raster
}

// Dims returns the dimensions of the grid.
func (raster EsriASCIIRaster) Dims() (c, r uint) {
	return raster.Ncols, raster.Nrows
}

// Z returns the value of a grid value at (c, r).
// It will panic if c or r are out of bounds for the grid.
func (raster EsriASCIIRaster) Z(c, r uint) float64 {
	return raster.Data[r][c]
}

// IsNoData reports whether z is the grid's NODATA value
func (raster EsriASCIIRaster) IsNoData(z float64) bool {
	return raster.HasNoData && z == raster.NoDataValue
}

// DY returns the height of a cell
func (raster EsriASCIIRaster) DY() float64 {
	if raster.CellSizeY != 0 {
		return raster.CellSizeY
	}
	return raster.CellSize
}

// X returns the coordinate of the center of column c.
func (raster EsriASCIIRaster) X(c uint) float64 {
	x0 := 0.0
	if raster.Xcenter != nil {
		x0 = *raster.Xcenter
	} else if raster.Xcorner != nil {
		x0 = *raster.Xcorner + raster.CellSize/2
	}

	return x0 + float64(c)*raster.CellSize
}

// Y returns the coordinate of the center of row r. Row 0 is the top row.
func (raster EsriASCIIRaster) Y(r uint) float64 {
	dy := raster.DY()

	y0 := 0.0
	if raster.Ycenter != nil {
		y0 = *raster.Ycenter
	} else if raster.Ycorner != nil {
		y0 = *raster.Ycorner + dy/2
	}

	return y0 + float64(raster.Nrows-1-r)*dy
}

// MinMax returns the lowest and the highest value of the grid, ignoring NODATA cells.
// ok is false if there is no data at all.
func (raster EsriASCIIRaster) MinMax() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)

	for _, row := range raster.Data {
		for _, z := range row {
			if raster.IsNoData(z) {
				continue
			}
			min = math.Min(min, z)
			max = math.Max(max, z)
		}
	}

	return min, max, !math.IsInf(min, 1)
}
