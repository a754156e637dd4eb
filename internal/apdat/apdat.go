// Package apdat reads ArduPilot terrain data files (terrain.dat, NxxEyyy.DAT).
//
// A file is a sequence of 2048 byte blocks, east first, each holding an overlapping 28 x 32 grid of
// little endian int16 heights in meters. The file's anchor and grid spacing are taken from the
// first block, the grid layout follows from those (see package grid).
package apdat

import (
	"encoding/binary"
	"io"

	"github.com/gruppe-adler/terrain-dat/internal/grid"
	"github.com/gruppe-adler/terrain-dat/internal/raster"
)

// DriverName is the short name the driver registers under
const DriverName = "APDAT"

// the version field is the last thing we need from the header to say yes
const identifyHeaderSize = 22

type driver struct{}

// Driver returns the terrain.dat driver
func Driver() raster.Driver {
	return driver{}
}

// Register adds the terrain.dat driver to reg
func Register(reg *raster.Registry) {
	reg.Register(driver{})
}

func (driver) Name() string     { return DriverName }
func (driver) LongName() string { return "ArduPilot terrain.dat (.dat)" }

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

// Identify reports whether header, the leading bytes of a stream, looks like a terrain file.
// The first block must be complete even though only its version is checked, so truncated
// streams are never taken for terrain files.
func Identify(header []byte) bool {
	if len(header) < identifyHeaderSize {
		return false
	}

	if binary.LittleEndian.Uint16(header[offVersion:]) != grid.FormatVersion {
		return false
	}

	return len(header) >= grid.BlockByteSize
}
