package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, 24, BlockSpacingX)
	assert.Equal(t, 28, BlockSpacingY)
	assert.Equal(t, 28, BlockSizeX)
	assert.Equal(t, 32, BlockSizeY)

	// header, samples and trailer fit in one block
	assert.LessOrEqual(t, 2*(HeaderWords+BlockSizeX*BlockSizeY)+7, BlockByteSize)
}

func TestSizeEquator(t *testing.T) {
	d, err := Size(0, 0, 100)
	require.NoError(t, err)

	// one degree is ~111319m
	assert.Equal(t, 47, d.BlocksNorth)
	assert.Equal(t, 42, d.BlocksEast)
	assert.Equal(t, 42*28, d.Width)
	assert.Equal(t, 47*24, d.Height)
}

func TestSizeSmallGrid(t *testing.T) {
	d, err := Size(0, 0, 4000)
	require.NoError(t, err)

	assert.Equal(t, Dimensions{BlocksEast: 3, BlocksNorth: 2, Width: 84, Height: 48}, d)
}

func TestEastBlocksShrinkWithLatitude(t *testing.T) {
	assert.Greater(t, EastBlocks(0, 10, 100), EastBlocks(60, 10, 100))
	// north doesn't depend on latitude on a sphere
	assert.Equal(t, NorthBlocks(0, 10, 100), NorthBlocks(60, 10, 100))
}

func TestEastBlocksAntimeridian(t *testing.T) {
	assert.Equal(t, EastBlocks(-35, 10, 100), EastBlocks(-35, 179, 100))
	assert.Equal(t, EastBlocks(-35, 10, 100), EastBlocks(-35, -180, 100))
}

func TestMonotonicity(t *testing.T) {
	for _, lat := range []int{-80, -35, 0, 45, 89} {
		prevEast, prevNorth := 0, 0
		for _, spacing := range []int{10000, 3000, 1000, 300, 100, 30, 10} {
			east := EastBlocks(lat, 20, spacing)
			north := NorthBlocks(lat, 20, spacing)

			assert.GreaterOrEqual(t, east, prevEast, "lat %d spacing %d", lat, spacing)
			assert.GreaterOrEqual(t, north, prevNorth, "lat %d spacing %d", lat, spacing)

			prevEast, prevNorth = east, north
		}
	}
}

func TestSizeInvalid(t *testing.T) {
	_, err := Size(0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = Size(0, 0, -5)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = Size(91, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestBlockOffset(t *testing.T) {
	d := Dimensions{BlocksEast: 3, BlocksNorth: 2}

	assert.Equal(t, int64(5*BlockByteSize), d.BlockOffset(2, 1))
	assert.Equal(t, int64(0), d.BlockOffset(0, 0))

	assert.True(t, d.Contains(2, 1))
	assert.False(t, d.Contains(3, 0))
	assert.False(t, d.Contains(0, 2))
	assert.False(t, d.Contains(-1, 0))
}
