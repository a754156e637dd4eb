package input

import (
	"bytes"
	"io"
	"os"
	"path"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruppe-adler/terrain-dat/internal/apdat"
	"github.com/gruppe-adler/terrain-dat/internal/apdat/apdattest"
	"github.com/gruppe-adler/terrain-dat/internal/dem"
	"github.com/gruppe-adler/terrain-dat/internal/jdem"
	"github.com/gruppe-adler/terrain-dat/internal/raster"
)

func testRegistry() *raster.Registry {
	reg := raster.NewRegistry()
	apdat.Register(reg)
	jdem.Register(reg)
	return reg
}

func terrainFile() []byte {
	return apdattest.Build(-35, 149, 4000, -1, func(east, north int) int16 {
		return int16(east + north)
	})
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	p := path.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func gzipped(t *testing.T, data []byte) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write(data)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func zstdCompressed(t *testing.T, data []byte) []byte {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func TestDetect(t *testing.T) {
	assert.Equal(t, Gzip, Detect([]byte{0x1f, 0x8b, 8, 0}))
	assert.Equal(t, Zstd, Detect([]byte{0x28, 0xb5, 0x2f, 0xfd}))
	assert.Equal(t, None, Detect([]byte{1, 2}))
	assert.Equal(t, None, Detect(nil))
}

func TestOpen(t *testing.T) {
	data := terrainFile()

	files := map[string][]byte{
		"N00E000.DAT":     data,
		"N00E000.DAT.gz":  gzipped(t, data),
		"N00E000.DAT.zst": zstdCompressed(t, data),
	}

	for name, content := range files {
		rs, err := Open(writeFile(t, name, content))
		require.NoError(t, err, name)

		// streams are seekable whatever the compression
		_, err = rs.Seek(int64(len(data)-10), io.SeekStart)
		require.NoError(t, err, name)

		got, err := io.ReadAll(rs)
		require.NoError(t, err, name)
		assert.Equal(t, data[len(data)-10:], got, name)

		assert.NoError(t, rs.Close())
	}
}

func TestOpenTiny(t *testing.T) {
	rs, err := Open(writeFile(t, "tiny", []byte{1}))
	require.NoError(t, err)
	defer rs.Close()

	got, err := io.ReadAll(rs)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, got)
}

func TestIsDEM(t *testing.T) {
	assert.True(t, IsDEM("dem.asc"))
	assert.True(t, IsDEM("DEM.ASC.GZ"))
	assert.False(t, IsDEM("terrain.dat"))
	assert.False(t, IsDEM("terrain.dat.gz"))
}

func TestName(t *testing.T) {
	assert.Equal(t, "S35E149", Name("/data/S35E149.DAT.gz"))
	assert.Equal(t, "dem", Name("dem.asc"))
	assert.Equal(t, ".hidden", Name(".hidden"))
}

func TestOpenDataset(t *testing.T) {
	reg := testRegistry()

	ds, err := OpenDataset(writeFile(t, "S35E149.DAT.gz", gzipped(t, terrainFile())), reg, raster.OpenOptions{})
	require.NoError(t, err)
	defer ds.Close()
	assert.Equal(t, apdat.DriverName, ds.Driver())

	_, err = OpenDataset(writeFile(t, "junk", make([]byte, 4096)), reg, raster.OpenOptions{})
	assert.ErrorIs(t, err, raster.ErrNotRecognized)
}

func TestLoad(t *testing.T) {
	reg := testRegistry()

	terrain, err := Load(writeFile(t, "S35E149.DAT", terrainFile()), reg, raster.OpenOptions{CacheSize: 12})
	require.NoError(t, err)

	assert.Equal(t, apdat.DriverName, terrain.Driver)
	assert.Contains(t, terrain.SpatialRef, "+lat_0=-35")
	require.NotNil(t, terrain.ToWGS84)

	c, r := terrain.DEM.Dims()
	assert.Equal(t, 0.0, terrain.DEM.Z(0, r-1))
	assert.Equal(t, float64(c-1), terrain.DEM.Z(c-1, r-1))

	p := path.Join(t.TempDir(), "dem.asc.gz")
	require.NoError(t, dem.Write(p, terrain.DEM))

	fromDEM, err := Load(p, reg, raster.OpenOptions{})
	require.NoError(t, err)
	assert.Equal(t, terrain.DEM.Data, fromDEM.DEM.Data)
	assert.Nil(t, fromDEM.ToWGS84)
	assert.Empty(t, fromDEM.Driver)
}

func TestOpenDecompressedLimit(t *testing.T) {
	limit := MaxDecompressedSize
	MaxDecompressedSize = 4096
	t.Cleanup(func() { MaxDecompressedSize = limit })

	rs, err := Open(writeFile(t, "fits.gz", gzipped(t, make([]byte, 4096))))
	require.NoError(t, err)
	rs.Close()

	_, err = Open(writeFile(t, "big.gz", gzipped(t, make([]byte, 4097))))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Open(writeFile(t, "big.zst", zstdCompressed(t, make([]byte, 1<<20))))
	assert.Error(t, err)
}
