package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRecognized means no driver identified the stream. Format probing moves on.
	ErrNotRecognized = errors.New("not a recognised terrain file")

	// ErrCorrupt means the file identified as a known format but its content can't be trusted
	ErrCorrupt = errors.New("terrain file corrupt")

	// ErrIO is a failed seek or a short read
	ErrIO = errors.New("terrain file read failed")

	// ErrNoBlock is a block starting at or beyond the end of the file. It is an ErrIO as well.
	ErrNoBlock = fmt.Errorf("%w: block beyond end of file", ErrIO)

	// ErrInvalidGeometry means the raster dimensions derived from the header are unusable
	ErrInvalidGeometry = errors.New("invalid raster geometry")

	// ErrOutOfRange is a block index outside the block grid
	ErrOutOfRange = errors.New("block out of range")

	// ErrClosed is returned by reads on a closed dataset
	ErrClosed = errors.New("dataset closed")
)
