// Package raster describes terrain datasets independently of their on-disk format.
//
// A Dataset is an opened file: its size, georeferencing and bands. A Band hands out decoded blocks.
// Format drivers implement both and are made known to a Registry.
package raster

import (
	"fmt"

	"github.com/paulmach/orb"
)

// DataType of the samples of a band
type DataType int

// Supported sample types
const (
	Int16 DataType = iota + 1
	Float32
)

func (t DataType) String() string {
	switch t {
	case Int16:
		return "Int16"
	case Float32:
		return "Float32"
	}
	return fmt.Sprintf("DataType(%d)", int(t))
}

// GeoTransform maps pixel / line to projected coordinates:
//
//	x = gt[0] + col*gt[1] + row*gt[2]
//	y = gt[3] + col*gt[4] + row*gt[5]
type GeoTransform [6]float64

// Apply transforms pixel coordinates
func (gt GeoTransform) Apply(col, row float64) (x, y float64) {
	return gt[0] + col*gt[1] + row*gt[2], gt[3] + col*gt[4] + row*gt[5]
}

// NorthUp reports whether row 0 is the northernmost row
func (gt GeoTransform) NorthUp() bool {
	return gt[5] < 0
}

// Block is one decoded block of samples, row-major. Only the slice matching Type is set.
type Block struct {
	Col, Row      int
	Width, Height int
	Type          DataType
	Int16         []int16
	Float32       []float32
}

// Value returns the sample at (x, y) within the block
func (b *Block) Value(x, y int) float64 {
	i := y*b.Width + x
	if b.Type == Int16 {
		return float64(b.Int16[i])
	}
	return float64(b.Float32[i])
}

// Clone returns a deep copy of the block
func (b *Block) Clone() *Block {
	c := *b
	if b.Int16 != nil {
		c.Int16 = append([]int16(nil), b.Int16...)
	}
	if b.Float32 != nil {
		c.Float32 = append([]float32(nil), b.Float32...)
	}
	return &c
}

// Band is a single layer of samples, read block by block
type Band interface {
	DataType() DataType

	// BlockSize returns the size of one block in pixels
	BlockSize() (width, height int)

	// BlockCount returns the number of blocks per row and column
	BlockCount() (cols, rows int)

	// ReadBlock decodes block (col, row). Indices outside BlockCount fail with ErrOutOfRange.
	ReadBlock(col, row int) (*Block, error)

	// NoData returns the value marking missing samples, if the format has one
	NoData() (float64, bool)
}

// Dataset is an opened terrain file
type Dataset interface {
	// Driver returns the name of the driver that opened the dataset
	Driver() string

	// Size returns the raster size in pixels
	Size() (width, height int)

	Bands() []Band
	GeoTransform() GeoTransform

	// SpatialRef returns a proj string or an authority code
	SpatialRef() string

	Metadata() map[string]string

	// Close releases the underlying stream. Reads after Close fail with ErrClosed.
	Close() error
}

// Projector is implemented by datasets that can convert their projected coordinates to WGS84
// longitude / latitude
type Projector interface {
	ToWGS84() orb.Projection
}

// OpenOptions tune how a dataset is opened
type OpenOptions struct {
	// CacheSize is the number of decoded blocks kept per band. Zero disables caching.
	CacheSize int

	// VerifyCRC rejects blocks failing their checksum, for formats that have one
	VerifyCRC bool
}
