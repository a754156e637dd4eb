package metajson

import (
	"path"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruppe-adler/terrain-dat/internal/dem"
	"github.com/gruppe-adler/terrain-dat/internal/geo"
	"github.com/gruppe-adler/terrain-dat/internal/input"
)

func testTerrain() *input.Terrain {
	// two 100m cells centered on the anchor and 100m east of it
	grid := dem.NewEsriASCIIRaster(2, 1, -50, -50, 100, 100)
	grid.Data[0][0] = 12
	grid.Data[0][1] = 34

	return &input.Terrain{
		DEM:        grid,
		Driver:     "APDAT",
		SpatialRef: "+proj=ardusinu",
		Metadata:   map[string]string{"SPACING": "100"},
		ToWGS84:    geo.NewSinusoidal(0, 10).ToWGS84(),
	}
}

func TestFromTerrain(t *testing.T) {
	meta := FromTerrain("N00E010", testTerrain())

	assert.Equal(t, "N00E010", meta.Name)
	assert.Equal(t, "APDAT", meta.Driver)
	assert.Equal(t, uint(2), meta.Width)
	assert.Equal(t, uint(1), meta.Height)
	assert.Equal(t, 100.0, meta.CellSize)
	assert.Zero(t, meta.CellSizeY)
	assert.Equal(t, 12.0, meta.MinElevation)
	assert.Equal(t, 34.0, meta.MaxElevation)

	require.NotNil(t, meta.Bounds)
	// 1° is ~111km at the equator
	deg := 1 / 111319.5
	assert.InDelta(t, 10-50*deg, meta.Bounds[0], 1e-6)
	assert.InDelta(t, -50*deg, meta.Bounds[1], 1e-6)
	assert.InDelta(t, 10+150*deg, meta.Bounds[2], 1e-6)
	assert.InDelta(t, 50*deg, meta.Bounds[3], 1e-6)
}

func TestFromTerrainUnknownProjection(t *testing.T) {
	terrain := testTerrain()
	terrain.ToWGS84 = nil

	assert.Nil(t, FromTerrain("dem", terrain).Bounds)
}

func TestBoundsFollowProjection(t *testing.T) {
	terrain := testTerrain()
	terrain.ToWGS84 = func(p orb.Point) orb.Point { return orb.Point{p.X() * 2, p.Y()} }

	meta := FromTerrain("dem", terrain)
	require.NotNil(t, meta.Bounds)
	assert.Equal(t, [4]float64{-100, -50, 300, 50}, *meta.Bounds)
}

func TestWriteRead(t *testing.T) {
	p := path.Join(t.TempDir(), "meta.json")
	meta := FromTerrain("N00E010", testTerrain())

	require.NoError(t, Write(p, meta))

	read, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, meta, read)

	_, err = Read(path.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
