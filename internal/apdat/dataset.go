package apdat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/paulmach/orb"

	"github.com/gruppe-adler/terrain-dat/internal/geo"
	"github.com/gruppe-adler/terrain-dat/internal/grid"
	"github.com/gruppe-adler/terrain-dat/internal/raster"
)

// Dataset is an opened terrain file
type Dataset struct {
	// mu guards the seek and read pair on r
	mu     sync.Mutex
	r      io.ReadSeeker
	closed bool

	firstBlock [grid.BlockByteSize]byte

	// trusted from the first block
	spacing int
	latDeg  int
	lonDeg  int

	dims grid.Dimensions
	proj geo.Sinusoidal
	opts raster.OpenOptions

	band   raster.Band
	cached *raster.CachedBand
}

// Open opens a terrain file. header must hold at least the first block of r.
func Open(r io.ReadSeeker, header []byte, opts raster.OpenOptions) (*Dataset, error) {
	if !Identify(header) {
		return nil, raster.ErrNotRecognized
	}

	ds := &Dataset{r: r, opts: opts}
	copy(ds.firstBlock[:], header)

	le := binary.LittleEndian
	ds.spacing = int(le.Uint16(header[offSpacing:]))
	ds.lonDeg = int(int16(le.Uint16(header[offLonDegrees:])))
	ds.latDeg = int(int8(header[offLatDegrees]))

	if ds.spacing == 0 {
		return nil, fmt.Errorf("%w: zero grid spacing", raster.ErrCorrupt)
	}
	if ds.latDeg < -90 || ds.latDeg > 90 || ds.lonDeg < -180 || ds.lonDeg > 180 {
		return nil, fmt.Errorf("%w: anchor %d/%d out of range", raster.ErrCorrupt, ds.latDeg, ds.lonDeg)
	}

	dims, err := grid.Size(ds.latDeg, ds.lonDeg, ds.spacing)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", raster.ErrInvalidGeometry, err)
	}
	ds.dims = dims
	ds.proj = geo.NewSinusoidal(ds.latDeg, ds.lonDeg)

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
	return ds.dims.Width, ds.dims.Height
}

// Dimensions returns the block grid of the file
func (ds *Dataset) Dimensions() grid.Dimensions {
	return ds.dims
}

// Anchor returns the whole degree south west corner of the file
func (ds *Dataset) Anchor() (latDeg, lonDeg int) {
	return ds.latDeg, ds.lonDeg
}

// Spacing returns the distance between samples in meters
func (ds *Dataset) Spacing() int {
	return ds.spacing
}

// Bands returns the single height band
func (ds *Dataset) Bands() []raster.Band {
	return []raster.Band{ds.band}
}

// GeoTransform returns the pixel to projected meters mapping. There is no rotation, spacing is
// uniform and Y increases northwards. The origin sits half a pixel off as samples are points.
func (ds *Dataset) GeoTransform() raster.GeoTransform {
	s := float64(ds.spacing)
	return raster.GeoTransform{-s / 2, s, 0, -s / 2, 0, s}
}

// SpatialRef returns the proj definition of the file's own projection
func (ds *Dataset) SpatialRef() string {
	return ds.proj.Proj4()
}

// ToWGS84 implements raster.Projector
func (ds *Dataset) ToWGS84() orb.Projection {
	return ds.proj.ToWGS84()
}

// Metadata returns the anchor and grid of the file
func (ds *Dataset) Metadata() map[string]string {
	return map[string]string{
		"AREA_OR_POINT": "Point",
		"SPACING":       strconv.Itoa(ds.spacing),
		"LAT_DEGREES":   strconv.Itoa(ds.latDeg),
		"LON_DEGREES":   strconv.Itoa(ds.lonDeg),
		"BLOCKS_EAST":   strconv.Itoa(ds.dims.BlocksEast),
		"BLOCKS_NORTH":  strconv.Itoa(ds.dims.BlocksNorth),
	}
}

// FirstBlockHeader returns the header of the block the file was opened from
func (ds *Dataset) FirstBlockHeader() BlockHeader {
	h, _ := ParseBlockHeader(ds.firstBlock[:])
	return h
}

// BlockHeader reads and decodes the header of block (col, row)
func (ds *Dataset) BlockHeader(col, row int) (BlockHeader, error) {
	buf, err := ds.readBlock(col, row)
	if err != nil {
		return BlockHeader{}, err
	}
	return ParseBlockHeader(buf)
}

// Close releases the underlying stream and drops cached blocks
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

// readBlock reads the raw bytes of block (col, row)
func (ds *Dataset) readBlock(col, row int) ([]byte, error) {
	if !ds.dims.Contains(col, row) {
		return nil, fmt.Errorf("%w: block %d/%d of %dx%d", raster.ErrOutOfRange, col, row, ds.dims.BlocksEast, ds.dims.BlocksNorth)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.closed {
		return nil, raster.ErrClosed
	}

	if _, err := ds.r.Seek(ds.dims.BlockOffset(col, row), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek to block %d/%d: %v", raster.ErrIO, col, row, err)
	}

	buf := make([]byte, grid.BlockByteSize)
	n, err := io.ReadFull(ds.r, buf)
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("block %d/%d: %w", col, row, raster.ErrNoBlock)
		}
		return nil, fmt.Errorf("%w: block %d/%d: read %d of %d bytes: %v", raster.ErrIO, col, row, n, grid.BlockByteSize, err)
	}

	return buf, nil
}

type band struct {
	ds *Dataset
}

func (b *band) DataType() raster.DataType {
	return raster.Int16
}

func (b *band) BlockSize() (width, height int) {
	return grid.BlockSpacingY, grid.BlockSpacingX
}

func (b *band) BlockCount() (cols, rows int) {
	return b.ds.dims.BlocksEast, b.ds.dims.BlocksNorth
}

func (b *band) NoData() (float64, bool) {
	return 0, false
}

func (b *band) ReadBlock(col, row int) (*raster.Block, error) {
	buf, err := b.ds.readBlock(col, row)
	if err != nil {
		return nil, err
	}

	if b.ds.opts.VerifyCRC {
		if stored, calculated := binary.LittleEndian.Uint16(buf[offCRC:]), BlockCRC(buf); stored != calculated {
			return nil, fmt.Errorf("%w: block %d/%d crc %04x, expected %04x", raster.ErrCorrupt, col, row, stored, calculated)
		}
	}

	return &raster.Block{
		Col:    col,
		Row:    row,
		Width:  grid.BlockSpacingY,
		Height: grid.BlockSpacingX,
		Type:   raster.Int16,
		Int16:  DecodeSamples(buf),
	}, nil
}
