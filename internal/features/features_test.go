package features

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruppe-adler/terrain-dat/internal/dem"
	"github.com/gruppe-adler/terrain-dat/internal/geo"
)

func parse(t *testing.T, grid string) *dem.EsriASCIIRaster {
	t.Helper()

	raster, err := dem.ParseEsriASCIIRaster(strings.NewReader(grid))
	require.NoError(t, err)
	return &raster
}

const twoPeaks = `ncols 6
nrows 3
xllcorner 0
yllcorner 0
cellsize 10
NODATA_value -9999
0 0 0 0 0 0
0 50 0 0 80 0
0 0 0 0 0 0
`

func TestBuildMounts(t *testing.T) {
	mounts := buildMounts(parse(t, twoPeaks))

	require.Len(t, mounts.Features, 2)

	assert.Equal(t, 80.0, mounts.Features[0].Properties["elevation"])
	assert.Equal(t, "80", mounts.Features[0].Properties["text"])
	assert.Equal(t, orb.Point{45, 15}, mounts.Features[0].Geometry)

	assert.Equal(t, 50.0, mounts.Features[1].Properties["elevation"])
	assert.Equal(t, orb.Point{15, 15}, mounts.Features[1].Geometry)
}

func TestBuildMountsIgnoresPlanesAndWater(t *testing.T) {
	grid := `ncols 5
nrows 3
xllcorner 0
yllcorner 0
cellsize 1
NODATA_value -9999
-20 -20 0 0 0
-20 -5 0 7 7
-20 -20 0 0 0
`
	assert.Empty(t, buildMounts(parse(t, grid)).Features)

	hole := strings.Replace(twoPeaks, "0 50 0", "-9999 50 0", 1)
	mounts := buildMounts(parse(t, hole))
	require.Len(t, mounts.Features, 1)
	assert.Equal(t, 80.0, mounts.Features[0].Properties["elevation"])
}

func TestBuildContours(t *testing.T) {
	fc, err := buildContours(context.Background(), parse(t, twoPeaks), 10)
	require.NoError(t, err)

	elevations := map[float64]int{}
	for _, f := range fc.Features {
		_, ok := f.Geometry.(orb.LineString)
		require.True(t, ok)

		e := f.Properties["elevation"].(float64)
		elevations[e]++
		assert.Equal(t, e == 0 || e == 50, f.Properties["major"], "elevation %v", e)
	}

	// two rings up to 40, one from 50 on
	assert.Equal(t, 2, elevations[40])
	assert.Equal(t, 1, elevations[50])
	assert.Equal(t, 1, elevations[70])
	assert.Zero(t, elevations[80])
}

func TestSimplifyFeatures(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.LineString{{0, 0}, {1, 0.01}, {2, 0}}))
	fc.Append(geojson.NewFeature(orb.Point{1, 1}))

	simplifyFeatures(fc, 0.1)

	assert.Equal(t, orb.LineString{{0, 0}, {2, 0}}, fc.Features[0].Geometry)
	assert.Equal(t, orb.Point{1, 1}, fc.Features[1].Geometry)
}

func TestProjectFeatures(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{0, 0}))
	fc.Append(geojson.NewFeature(orb.LineString{{0, 0}, {0, 111318.8}}))

	projectFeatures(fc, geo.NewSinusoidal(-35, 149).ToWGS84())

	p := fc.Features[0].Geometry.(orb.Point)
	assert.InDelta(t, 149, p.Lon(), 1e-9)
	assert.InDelta(t, -35, p.Lat(), 1e-9)

	l := fc.Features[1].Geometry.(orb.LineString)
	assert.InDelta(t, -34, l[1].Lat(), 1e-3)
}

func TestWriteGeoJSON(t *testing.T) {
	fc := buildMounts(parse(t, twoPeaks))

	p := path.Join(t.TempDir(), "mounts.geojson")
	require.NoError(t, writeGeoJSON(p, fc))

	data, err := os.ReadFile(p)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "FeatureCollection", decoded["type"])
	assert.Len(t, decoded["features"], 2)
}
