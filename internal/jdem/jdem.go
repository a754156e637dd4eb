// Package jdem reads Japanese DEM (JDEM) text elevation files.
//
// A file is a fixed-width text header followed by one record per raster row. Every record repeats
// the file's 6 byte mesh code, carries a 1-based sequence number and holds one 5 wide decimal field
// per column, in decimeters.
package jdem

import (
	"bytes"
	"io"

	"github.com/gruppe-adler/terrain-dat/internal/raster"
)

// DriverName is the short name the driver registers under
const DriverName = "JDEM"

const (
	// identifySize is the minimum number of header bytes Identify needs
	identifySize = 50

	// HeaderSkip is the offset of the first record
	HeaderSkip = 1011

	// SampleWidth is the width of one sample field
	SampleWidth = 5

	// RecordPrefix is the mesh code (6) and the sequence number (3) in front of the samples
	RecordPrefix = 9

	// identityWidth is the width of the mesh code
	identityWidth = 6

	// SampleScale converts stored samples to meters
	SampleScale = 0.1
)

// offsets of the date fields in the header
var dateOffsets = []int{11, 15, 19}

type driver struct{}

// Driver returns the JDEM driver
func Driver() raster.Driver {
	return driver{}
}

// Register adds the JDEM driver to reg
func Register(reg *raster.Registry) {
	reg.Register(driver{})
}

func (driver) Name() string     { return DriverName }
func (driver) LongName() string { return "Japanese DEM (.mem)" }

func (driver) Identify(header []byte) bool {
	return Identify(header)
}

func (driver) Open(r io.ReadSeeker, header []byte, opts raster.OpenOptions) (raster.Dataset, error) {
	ds, err := Open(r, header, opts)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// Identify reports whether header looks like a JDEM file. There is no magic, the three dates of the
// header have to start with a plausible century.
func Identify(header []byte) bool {
	if len(header) < identifySize {
		return false
	}

	for _, off := range dateOffsets {
		century := header[off : off+2]
		if !bytes.Equal(century, []byte("19")) && !bytes.Equal(century, []byte("20")) {
			return false
		}
	}

	return true
}

// RecordSize returns the size of one row record including its line terminator
func RecordSize(width int) int {
	return width*SampleWidth + RecordPrefix + 2
}
