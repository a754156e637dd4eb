// Package apdattest builds terrain files for tests.
package apdattest

import (
	"bytes"

	"github.com/gruppe-adler/terrain-dat/internal/apdat"
	"github.com/gruppe-adler/terrain-dat/internal/geo"
	"github.com/gruppe-adler/terrain-dat/internal/grid"
)

// HeightFunc returns the height of the sample east / north of the file's anchor
type HeightFunc func(east, north int) int16

// Build lays out a terrain file anchored at latDeg / lonDeg with the given spacing. Only the first
// rows block rows are written; a negative rows writes all of them.
func Build(latDeg, lonDeg, spacing, rows int, height HeightFunc) []byte {
	dims, err := grid.Size(latDeg, lonDeg, spacing)
	if err != nil {
		panic(err)
	}
	if rows < 0 || rows > dims.BlocksNorth {
		rows = dims.BlocksNorth
	}

	ref := geo.AnchorFromDegrees(latDeg, lonDeg)

	var out bytes.Buffer
	for row := 0; row < rows; row++ {
		for col := 0; col < dims.BlocksEast; col++ {
			corner := ref.Offset(
				float64(row*grid.BlockSpacingX*spacing),
				float64(col*grid.BlockSpacingY*spacing),
			)

			var heights apdat.Heights
			for x := 0; x < grid.BlockSizeX; x++ {
				for y := 0; y < grid.BlockSizeY; y++ {
					heights[x][y] = height(col*grid.BlockSpacingY+y, row*grid.BlockSpacingX+x)
				}
			}

			out.Write(apdat.EncodeBlock(apdat.BlockHeader{
				Bitmap:     1<<56 - 1,
				LatE7:      corner.LatE7,
				LonE7:      corner.LonE7,
				Version:    grid.FormatVersion,
				Spacing:    uint16(spacing),
				GridIdxX:   uint16(row),
				GridIdxY:   uint16(col),
				LonDegrees: int16(lonDeg),
				LatDegrees: int8(latDeg),
			}, &heights))
		}
	}

	return out.Bytes()
}
