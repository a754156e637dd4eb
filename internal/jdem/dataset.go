package jdem

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/paulmach/orb"

	"github.com/gruppe-adler/terrain-dat/internal/field"
	"github.com/gruppe-adler/terrain-dat/internal/raster"
)

// header field offsets
const (
	offWidth     = 23
	offHeight    = 26
	offLLLat     = 29
	offLLLon     = 36
	offURLat     = 43
	offURLon     = 50
	dimWidth     = 3
	headerFields = offURLon + field.AngleWidth
)

// SpatialRef is the datum all JDEM files are in (Tokyo)
const SpatialRef = "EPSG:4301"

// Corners of a JDEM file in degrees
type Corners struct {
	LLLat, LLLon float64
	URLat, URLon float64
}

// Dataset is an opened JDEM file
type Dataset struct {
	// mu guards the seek and read pair on r
	mu     sync.Mutex
	r      io.ReadSeeker
	closed bool

	identity [identityWidth]byte

	width   int
	height  int
	corners Corners

	band   raster.Band
	cached *raster.CachedBand
}

// Open opens a JDEM file. header must hold the leading bytes of r.
func Open(r io.ReadSeeker, header []byte, opts raster.OpenOptions) (*Dataset, error) {
	if !Identify(header) {
		return nil, raster.ErrNotRecognized
	}
	if len(header) < headerFields {
		return nil, fmt.Errorf("%w: header of %d bytes", raster.ErrCorrupt, len(header))
	}

	ds := &Dataset{r: r}
	copy(ds.identity[:], header)

	var err error
	if ds.width, err = field.ParseAt(header, offWidth, dimWidth); err != nil {
		return nil, fmt.Errorf("%w: width: %w", raster.ErrCorrupt, err)
	}
	if ds.height, err = field.ParseAt(header, offHeight, dimWidth); err != nil {
		return nil, fmt.Errorf("%w: height: %w", raster.ErrCorrupt, err)
	}
	if ds.width <= 0 || ds.height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", raster.ErrInvalidGeometry, ds.width, ds.height)
	}

	angles := []struct {
		offset int
		dst    *float64
	}{
		{offLLLat, &ds.corners.LLLat},
		{offLLLon, &ds.corners.LLLon},
		{offURLat, &ds.corners.URLat},
		{offURLon, &ds.corners.URLon},
	}
	for _, a := range angles {
		if *a.dst, err = field.ParseAngle(header[a.offset:]); err != nil {
			return nil, fmt.Errorf("%w: corner at %d: %w", raster.ErrCorrupt, a.offset, err)
		}
	}

	ds.band = &band{ds: ds}
	if opts.CacheSize > 0 {
		ds.cached, err = raster.NewCachedBand(ds.band, opts.CacheSize)
		if err != nil {
			return nil, err
		}
		ds.band = ds.cached
	}

	return ds, nil
}

// Driver implements raster.Dataset
func (ds *Dataset) Driver() string {
	return DriverName
}

// Size returns the raster size in pixels
func (ds *Dataset) Size() (width, height int) {
	return ds.width, ds.height
}

// Corners returns the lower left and upper right corners of the file
func (ds *Dataset) Corners() Corners {
	return ds.corners
}

// Bands returns the single height band
func (ds *Dataset) Bands() []raster.Band {
	return []raster.Band{ds.band}
}

// GeoTransform returns the north-up mapping of pixels to degrees
func (ds *Dataset) GeoTransform() raster.GeoTransform {
	c := ds.corners
	return raster.GeoTransform{
		c.LLLon, (c.URLon - c.LLLon) / float64(ds.width), 0,
		c.URLat, 0, -(c.URLat - c.LLLat) / float64(ds.height),
	}
}

// SpatialRef returns the geographic reference system of JDEM files
func (ds *Dataset) SpatialRef() string {
	return SpatialRef
}

// ToWGS84 implements raster.Projector. Coordinates are geographic already, the datum shift is
// ignored.
func (ds *Dataset) ToWGS84() orb.Projection {
	return func(p orb.Point) orb.Point { return p }
}

// Metadata returns the mesh code of the file
func (ds *Dataset) Metadata() map[string]string {
	return map[string]string{
		"AREA_OR_POINT": "Area",
		"MESH_CODE":     string(bytes.TrimSpace(ds.identity[:])),
		"WIDTH":         strconv.Itoa(ds.width),
		"HEIGHT":        strconv.Itoa(ds.height),
	}
}

// Close releases the underlying stream and drops cached rows
func (ds *Dataset) Close() error {
	ds.mu.Lock()
	if ds.closed {
		ds.mu.Unlock()
		return nil
	}
	ds.closed = true
	ds.mu.Unlock()

	// ds.mu is never held while taking the cache lock, cached reads take them the other way round
	if ds.cached != nil {
		ds.cached.Close()
	}

	if c, ok := ds.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// RecordHeader is the prefix of a row record
type RecordHeader struct {
	MeshCode string
	Sequence int
}

// RecordHeader reads and validates the record of row, bypassing the cache
func (ds *Dataset) RecordHeader(row int) (RecordHeader, error) {
	buf, err := ds.readRecord(row)
	if err != nil {
		return RecordHeader{}, err
	}
	return RecordHeader{MeshCode: string(buf[:identityWidth]), Sequence: row + 1}, nil
}

// RecordOffset returns the file offset of the record of row
func (ds *Dataset) RecordOffset(row int) int64 {
	return int64(HeaderSkip) + int64(RecordSize(ds.width))*int64(row)
}

// readRecord reads and validates the record of row
func (ds *Dataset) readRecord(row int) ([]byte, error) {
	if row < 0 || row >= ds.height {
		return nil, fmt.Errorf("%w: row %d of %d", raster.ErrOutOfRange, row, ds.height)
	}

	size := RecordSize(ds.width)
	buf := make([]byte, size)

	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.closed {
		return nil, raster.ErrClosed
	}

	if _, err := ds.r.Seek(ds.RecordOffset(row), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek to row %d: %v", raster.ErrIO, row, err)
	}
	if n, err := io.ReadFull(ds.r, buf); err != nil {
		return nil, fmt.Errorf("%w: row %d: read %d of %d bytes: %v", raster.ErrIO, row, n, size, err)
	}

	if !bytes.Equal(buf[:identityWidth], ds.identity[:]) {
		return nil, fmt.Errorf("%w: row %d: mesh code %q, expected %q", raster.ErrCorrupt, row, buf[:identityWidth], ds.identity[:])
	}

	seq, err := field.ParseAt(buf, identityWidth, RecordPrefix-identityWidth)
	if err != nil {
		return nil, fmt.Errorf("%w: row %d: sequence: %w", raster.ErrCorrupt, row, err)
	}
	if seq != row+1 {
		return nil, fmt.Errorf("%w: row %d: sequence number %d", raster.ErrCorrupt, row, seq)
	}

	return buf, nil
}

type band struct {
	ds *Dataset
}

func (b *band) DataType() raster.DataType {
	return raster.Float32
}

// BlockSize is one full row
func (b *band) BlockSize() (width, height int) {
	return b.ds.width, 1
}

func (b *band) BlockCount() (cols, rows int) {
	return 1, b.ds.height
}

func (b *band) NoData() (float64, bool) {
	return 0, false
}

func (b *band) ReadBlock(col, row int) (*raster.Block, error) {
	if col != 0 {
		return nil, fmt.Errorf("%w: block %d/%d", raster.ErrOutOfRange, col, row)
	}

	buf, err := b.ds.readRecord(row)
	if err != nil {
		return nil, err
	}

	samples := make([]float32, b.ds.width)
	for i := range samples {
		v, err := field.ParseAt(buf, RecordPrefix+i*SampleWidth, SampleWidth)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d sample %d: %w", raster.ErrCorrupt, row, i, err)
		}
		samples[i] = float32(float64(v) * SampleScale)
	}

	return &raster.Block{
		Col:     0,
		Row:     row,
		Width:   b.ds.width,
		Height:  1,
		Type:    raster.Float32,
		Float32: samples,
	}, nil
}
