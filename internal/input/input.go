// Package input opens the files the subcommands work on.
//
// Terrain files may be gzip or zstd compressed, those are decompressed into memory as block access
// needs to seek. ESRI ASCII grids (.asc, .asc.gz) are accepted as well.
package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/paulmach/orb"

	"github.com/gruppe-adler/terrain-dat/internal/dem"
	"github.com/gruppe-adler/terrain-dat/internal/raster"
)

// Compression of an input file
type Compression int

// Supported compressions
const (
	None Compression = iota
	Gzip
	Zstd
)

// MaxDecompressedSize is the largest decompressed input accepted. The largest terrain files are a
// few hundred megabytes.
var MaxDecompressedSize int64 = 1 << 30

// ErrTooLarge is returned for compressed inputs growing beyond MaxDecompressedSize
var ErrTooLarge = errors.New("decompressed input too large")

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Detect returns the compression of a stream starting with header
func Detect(header []byte) Compression {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return Gzip
	case bytes.HasPrefix(header, zstdMagic):
		return Zstd
	}
	return None
}

type bytesReadCloser struct {
	*bytes.Reader
}

func (bytesReadCloser) Close() error { return nil }

// Open opens path as seekable stream. Compressed files are decompressed into memory.
func Open(path string) (io.ReadSeekCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	magic := make([]byte, len(zstdMagic))
	n, err := io.ReadFull(file, magic)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		file.Close()
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, err
	}

	compression := Detect(magic[:n])
	if compression == None {
		return file, nil
	}
	defer file.Close()

	data, err := decompress(file, compression)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}

	return bytesReadCloser{bytes.NewReader(data)}, nil
}

func decompress(r io.Reader, compression Compression) ([]byte, error) {
	switch compression {
	case Gzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gz.Close()

		return readLimited(gz)
	case Zstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(0), zstd.WithDecoderMaxMemory(uint64(MaxDecompressedSize)))
		if err != nil {
			return nil, err
		}
		defer zr.Close()

		return readLimited(zr)
	}

	return readLimited(r)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxDecompressedSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxDecompressedSize)
	}
	return data, nil
}

// IsDEM reports whether path names an ESRI ASCII grid
func IsDEM(path string) bool {
	p := strings.ToLower(path)
	return strings.HasSuffix(p, ".asc") || strings.HasSuffix(p, ".asc.gz")
}

// Name is the file name of path without extensions
func Name(path string) string {
	name := filepath.Base(path)
	if i := strings.Index(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

// OpenDataset opens a terrain file with the drivers of reg
func OpenDataset(path string, reg *raster.Registry, opts raster.OpenOptions) (raster.Dataset, error) {
	rs, err := Open(path)
	if err != nil {
		return nil, err
	}

	ds, err := reg.Open(rs, opts)
	if err != nil {
		rs.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ds, nil
}

// Terrain is an elevation grid loaded from any supported input
type Terrain struct {
	DEM *dem.EsriASCIIRaster

	// Driver is the name of the driver the file was read with, empty for ESRI grids
	Driver     string
	SpatialRef string
	Metadata   map[string]string

	// ToWGS84 maps grid coordinates to longitude / latitude. It is nil if unknown.
	ToWGS84 orb.Projection
}

// Load reads a terrain file or an ESRI ASCII grid into memory
func Load(path string, reg *raster.Registry, opts raster.OpenOptions) (*Terrain, error) {
	if IsDEM(path) {
		esri, err := dem.Read(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &Terrain{DEM: &esri}, nil
	}

	ds, err := OpenDataset(path, reg, opts)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	grid, err := dem.FromDataset(ds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	t := &Terrain{
		DEM:        grid,
		Driver:     ds.Driver(),
		SpatialRef: ds.SpatialRef(),
		Metadata:   ds.Metadata(),
	}
	if p, ok := ds.(raster.Projector); ok {
		t.ToWGS84 = p.ToWGS84()
	}

	return t, nil
}
