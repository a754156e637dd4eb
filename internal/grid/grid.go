// Package grid sizes the block grid of a terrain data file.
//
// A terrain file covers one degree of latitude and longitude starting at its anchor. It is made of
// 2048 byte blocks, each holding a 28 x 32 grid of height samples. Neighbouring blocks overlap by
// one 4 x 4 MAVLink sub-grid, which is why a block advances by its spacing (24 x 28) and not by its
// size. This way the height at any point can be interpolated from a single block.
//
// X is north and Y is east throughout, as in the autopilot.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/gruppe-adler/terrain-dat/internal/geo"
)

const (
	// MavlinkSize is the edge length of the grids sent over MAVLink
	MavlinkSize = 4

	// BlockMulX is the number of MAVLink grids per block, north
	BlockMulX = 7
	// BlockMulY is the number of MAVLink grids per block, east
	BlockMulY = 8

	// BlockSpacingX is the distance between blocks in samples, north
	BlockSpacingX = (BlockMulX - 1) * MavlinkSize
	// BlockSpacingY is the distance between blocks in samples, east
	BlockSpacingY = (BlockMulY - 1) * MavlinkSize

	// BlockSizeX is the number of stored samples per block, north
	BlockSizeX = MavlinkSize * BlockMulX
	// BlockSizeY is the number of stored samples per block, east
	BlockSizeY = MavlinkSize * BlockMulY

	// BlockByteSize is the size of a block on disk
	BlockByteSize = 2048

	// HeaderWords is the number of 16 bit words in front of the samples of each block
	HeaderWords = 11

	// FormatVersion is the only block version we understand
	FormatVersion = 1

	// CacheSize is the number of decoded blocks worth keeping in memory
	CacheSize = 12

	// MaxRasterSize is the largest raster edge (pixels) we are willing to open
	MaxRasterSize = 1 << 20
)

// ErrInvalidDimensions is returned when a grid cannot be sized sensibly
var ErrInvalidDimensions = errors.New("invalid grid dimensions")

// Dimensions of a terrain file's block grid and the raster it represents
type Dimensions struct {
	BlocksEast  int
	BlocksNorth int
	Width       int
	Height      int
}

// EastBlocks returns the number of blocks stored per row of the file
func EastBlocks(latDeg, lonDeg, spacing int) int {
	ref := geo.AnchorFromDegrees(latDeg, lonDeg)

	// shift one degree and another two blocks east to ensure room is available
	probe := geo.AnchorFromDegrees(latDeg, lonDeg)
	probe.LonE7 += geo.E7
	probe = probe.Offset(0, float64(2*spacing*BlockSizeY))

	_, east := ref.DistanceNE(probe)

	return int(east / float64(spacing*BlockSpacingY))
}

// NorthBlocks returns the number of block rows needed to cover one degree of latitude.
// It rounds up: a file may end before the last row, reading past it is cheap to detect.
func NorthBlocks(latDeg, lonDeg, spacing int) int {
	ref := geo.AnchorFromDegrees(latDeg, lonDeg)

	north, _ := ref.DistanceNE(geo.AnchorFromDegrees(latDeg+1, lonDeg))

	return int(math.Ceil(north / float64(spacing*BlockSpacingX)))
}

// Size calculates the grid dimensions for a file anchored at the given whole degrees
func Size(latDeg, lonDeg, spacing int) (Dimensions, error) {
	if spacing <= 0 {
		return Dimensions{}, fmt.Errorf("%w: spacing %d", ErrInvalidDimensions, spacing)
	}
	if latDeg < -90 || latDeg > 90 || lonDeg < -180 || lonDeg > 180 {
		return Dimensions{}, fmt.Errorf("%w: anchor %d/%d", ErrInvalidDimensions, latDeg, lonDeg)
	}

	d := Dimensions{
		BlocksEast:  EastBlocks(latDeg, lonDeg, spacing),
		BlocksNorth: NorthBlocks(latDeg, lonDeg, spacing),
	}
	d.Width = d.BlocksEast * BlockSpacingY
	d.Height = d.BlocksNorth * BlockSpacingX

	if d.Width <= 0 || d.Height <= 0 || d.Width > MaxRasterSize || d.Height > MaxRasterSize {
		return Dimensions{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, d.Width, d.Height)
	}

	return d, nil
}

// Contains reports whether (col, row) is a block of the grid
func (d Dimensions) Contains(col, row int) bool {
	return col >= 0 && col < d.BlocksEast && row >= 0 && row < d.BlocksNorth
}

// BlockOffset returns the file offset of block (col, row). Blocks are stored east first.
func (d Dimensions) BlockOffset(col, row int) int64 {
	return BlockByteSize * (int64(col) + int64(d.BlocksEast)*int64(row))
}
