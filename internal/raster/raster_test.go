package raster

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBand struct {
	reads int
}

func (b *countingBand) DataType() DataType { return Int16 }
func (b *countingBand) BlockSize() (int, int) { return 2, 1 }
func (b *countingBand) BlockCount() (int, int) { return 20, 1 }
func (b *countingBand) NoData() (float64, bool) { return 0, false }
func (b *countingBand) ReadBlock(col, row int) (*Block, error) {
	if col < 0 || col >= 20 || row != 0 {
		return nil, ErrOutOfRange
	}
	b.reads++
	return &Block{Col: col, Row: row, Width: 2, Height: 1, Type: Int16, Int16: []int16{int16(col), int16(-col)}}, nil
}

func TestCachedBandHits(t *testing.T) {
	inner := &countingBand{}
	c, err := NewCachedBand(inner, 12)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		b, err := c.ReadBlock(4, 0)
		require.NoError(t, err)
		assert.Equal(t, []int16{4, -4}, b.Int16)
	}
	assert.Equal(t, 1, inner.reads)
	assert.Equal(t, 1, c.Len())
}

func TestCachedBandReturnsCopies(t *testing.T) {
	c, err := NewCachedBand(&countingBand{}, 12)
	require.NoError(t, err)

	b, err := c.ReadBlock(1, 0)
	require.NoError(t, err)
	b.Int16[0] = 99

	b, err = c.ReadBlock(1, 0)
	require.NoError(t, err)
	assert.Equal(t, int16(1), b.Int16[0])
}

func TestCachedBandEvictsLeastRecentlyUsed(t *testing.T) {
	inner := &countingBand{}
	c, err := NewCachedBand(inner, 2)
	require.NoError(t, err)

	_, _ = c.ReadBlock(0, 0)
	_, _ = c.ReadBlock(1, 0)
	_, _ = c.ReadBlock(0, 0) // 0 is now the most recent
	_, _ = c.ReadBlock(2, 0) // evicts 1
	assert.Equal(t, 3, inner.reads)

	_, _ = c.ReadBlock(0, 0)
	assert.Equal(t, 3, inner.reads)

	_, _ = c.ReadBlock(1, 0)
	assert.Equal(t, 4, inner.reads)
}

func TestCachedBandErrorsAreNotCached(t *testing.T) {
	inner := &countingBand{}
	c, err := NewCachedBand(inner, 2)
	require.NoError(t, err)

	_, err = c.ReadBlock(30, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 0, c.Len())
}

func TestCachedBandClosed(t *testing.T) {
	c, err := NewCachedBand(&countingBand{}, 2)
	require.NoError(t, err)

	_, err = c.ReadBlock(0, 0)
	require.NoError(t, err)

	c.Close()
	assert.Equal(t, 0, c.Len())

	_, err = c.ReadBlock(0, 0)
	assert.ErrorIs(t, err, ErrClosed)
}

type fakeDriver struct {
	name  string
	magic string
}

func (d fakeDriver) Name() string     { return d.name }
func (d fakeDriver) LongName() string { return "fake " + d.name }
func (d fakeDriver) Identify(header []byte) bool {
	return bytes.HasPrefix(header, []byte(d.magic))
}
func (d fakeDriver) Open(r io.ReadSeeker, header []byte, opts OpenOptions) (Dataset, error) {
	return nil, errors.New(d.name)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(fakeDriver{"A", "AAA"})
	reg.Register(fakeDriver{"B", "BBB"})
	reg.Register(fakeDriver{"A", "BBB"})

	assert.Len(t, reg.Drivers(), 2)

	d, found := reg.Driver("A")
	require.True(t, found)
	assert.Equal(t, "fake A", d.LongName())

	d, found = reg.Identify([]byte("BBBxyz"))
	require.True(t, found)
	assert.Equal(t, "B", d.Name())

	_, found = reg.Identify([]byte("CCC"))
	assert.False(t, found)
}

func TestRegistryOpen(t *testing.T) {
	reg := NewRegistry()
	reg.Register(fakeDriver{"A", "AAA"})

	_, err := reg.Open(bytes.NewReader([]byte("AAA")), OpenOptions{})
	assert.EqualError(t, err, "A")

	_, err = reg.Open(bytes.NewReader([]byte("ZZZ")), OpenOptions{})
	assert.ErrorIs(t, err, ErrNotRecognized)
}

func TestReadHeaderRewinds(t *testing.T) {
	r := bytes.NewReader([]byte("0123456789"))
	_, _ = r.Seek(4, io.SeekStart)

	header, err := ReadHeader(r, HeaderSize)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(header))

	pos, _ := r.Seek(0, io.SeekCurrent)
	assert.Zero(t, pos)
}

func TestNoBlockIsIO(t *testing.T) {
	assert.ErrorIs(t, ErrNoBlock, ErrIO)
}

func TestGeoTransform(t *testing.T) {
	gt := GeoTransform{-50, 100, 0, -50, 0, 100}
	x, y := gt.Apply(2, 3)
	assert.Equal(t, 150.0, x)
	assert.Equal(t, 250.0, y)
	assert.False(t, gt.NorthUp())
}
