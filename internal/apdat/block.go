package apdat

import (
	"encoding/binary"
	"fmt"

	"github.com/sigurn/crc16"

	"github.com/gruppe-adler/terrain-dat/internal/grid"
	"github.com/gruppe-adler/terrain-dat/internal/raster"
)

// byte offsets within a block
const (
	offBitmap     = 0
	offLat        = 8
	offLon        = 12
	offCRC        = 16
	offVersion    = 18
	offSpacing    = 20
	offHeights    = 2 * grid.HeaderWords
	offGridIdxX   = offHeights + 2*grid.BlockSizeX*grid.BlockSizeY
	offGridIdxY   = offGridIdxX + 2
	offLonDegrees = offGridIdxY + 2
	offLatDegrees = offLonDegrees + 2

	// bytes covered by the CRC, the rest of the block is padding
	blockDataSize = offLatDegrees + 1
)

var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// BlockHeader holds the bookkeeping fields of a block
type BlockHeader struct {
	// Bitmap has a bit set for every MAVLink sub-grid that was filled in
	Bitmap uint64
	// LatE7 / LonE7 is the south west corner of the block
	LatE7 int32
	LonE7 int32

	CRC     uint16
	Version uint16
	Spacing uint16

	// GridIdxX is the block's row (north), GridIdxY its column (east)
	GridIdxX uint16
	GridIdxY uint16

	LonDegrees int16
	LatDegrees int8

	// CRCValid is set when CRC matches the block's content
	CRCValid bool
}

// ParseBlockHeader decodes the header and trailer fields of a raw block
func ParseBlockHeader(buf []byte) (BlockHeader, error) {
	if len(buf) < blockDataSize {
		return BlockHeader{}, fmt.Errorf("%w: block of %d bytes", raster.ErrCorrupt, len(buf))
	}

	le := binary.LittleEndian
	h := BlockHeader{
		Bitmap:     le.Uint64(buf[offBitmap:]),
		LatE7:      int32(le.Uint32(buf[offLat:])),
		LonE7:      int32(le.Uint32(buf[offLon:])),
		CRC:        le.Uint16(buf[offCRC:]),
		Version:    le.Uint16(buf[offVersion:]),
		Spacing:    le.Uint16(buf[offSpacing:]),
		GridIdxX:   le.Uint16(buf[offGridIdxX:]),
		GridIdxY:   le.Uint16(buf[offGridIdxY:]),
		LonDegrees: int16(le.Uint16(buf[offLonDegrees:])),
		LatDegrees: int8(buf[offLatDegrees]),
	}
	h.CRCValid = h.CRC == BlockCRC(buf)

	return h, nil
}

// BlockCRC calculates the CRC-16/XMODEM of a raw block with its CRC field zeroed
func BlockCRC(buf []byte) uint16 {
	data := make([]byte, blockDataSize)
	copy(data, buf[:blockDataSize])
	data[offCRC] = 0
	data[offCRC+1] = 0

	return crc16.Checksum(data, crcTable)
}

// DecodeSamples extracts the usable 24 x 28 window of a raw block, row-major with rows going
// north. The overlapping last row and column of the stored 28 x 32 grid are dropped.
func DecodeSamples(buf []byte) []int16 {
	out := make([]int16, grid.BlockSpacingX*grid.BlockSpacingY)

	i := 0
	for y := 0; y < grid.BlockSpacingX; y++ {
		for x := 0; x < grid.BlockSpacingY; x++ {
			word := grid.HeaderWords + x + y*grid.BlockSizeY
			out[i] = int16(binary.LittleEndian.Uint16(buf[2*word:]))
			i++
		}
	}

	return out
}

// Heights is the full stored grid of a block, indexed [north][east]
type Heights [grid.BlockSizeX][grid.BlockSizeY]int16

// EncodeBlock lays out a raw block from its header fields and heights. The CRC is calculated,
// h.CRC and h.CRCValid are ignored.
func EncodeBlock(h BlockHeader, heights *Heights) []byte {
	buf := make([]byte, grid.BlockByteSize)

	le := binary.LittleEndian
	le.PutUint64(buf[offBitmap:], h.Bitmap)
	le.PutUint32(buf[offLat:], uint32(h.LatE7))
	le.PutUint32(buf[offLon:], uint32(h.LonE7))
	le.PutUint16(buf[offVersion:], h.Version)
	le.PutUint16(buf[offSpacing:], h.Spacing)

	for x := 0; x < grid.BlockSizeX; x++ {
		for y := 0; y < grid.BlockSizeY; y++ {
			le.PutUint16(buf[offHeights+2*(x*grid.BlockSizeY+y):], uint16(heights[x][y]))
		}
	}

	le.PutUint16(buf[offGridIdxX:], h.GridIdxX)
	le.PutUint16(buf[offGridIdxY:], h.GridIdxY)
	le.PutUint16(buf[offLonDegrees:], uint16(h.LonDegrees))
	buf[offLatDegrees] = byte(h.LatDegrees)

	le.PutUint16(buf[offCRC:], BlockCRC(buf))

	return buf
}
