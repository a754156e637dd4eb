package metajson

import (
	"encoding/json"
	"math"
	"os"

	"github.com/paulmach/orb"

	"github.com/gruppe-adler/terrain-dat/internal/input"
)

// edgeSamples is the number of points per edge projected to find the bounds
const edgeSamples = 16

// MetaJSON describes a terrain file
type MetaJSON struct {
	Name       string            `json:"name"`
	Driver     string            `json:"driver,omitempty"`
	SpatialRef string            `json:"spatialRef,omitempty"`
	Width      uint              `json:"width"`
	Height     uint              `json:"height"`
	CellSize   float64           `json:"cellSize"`
	CellSizeY  float64           `json:"cellSizeY,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`

	// MinElevation and MaxElevation are in meters, ignoring NODATA
	MinElevation float64 `json:"minElevation"`
	MaxElevation float64 `json:"maxElevation"`

	// Bounds are west, south, east, north in degrees, unset if the projection is unknown
	Bounds *[4]float64 `json:"bounds,omitempty"`
}

// FromTerrain describes a loaded terrain
func FromTerrain(name string, terrain *input.Terrain) MetaJSON {
	grid := terrain.DEM

	meta := MetaJSON{
		Name:       name,
		Driver:     terrain.Driver,
		SpatialRef: terrain.SpatialRef,
		Width:      grid.Ncols,
		Height:     grid.Nrows,
		CellSize:   grid.CellSize,
		CellSizeY:  grid.CellSizeY,
		Metadata:   terrain.Metadata,
	}

	if min, max, ok := grid.MinMax(); ok {
		meta.MinElevation, meta.MaxElevation = min, max
	}

	if terrain.ToWGS84 != nil && grid.Ncols > 0 && grid.Nrows > 0 {
		bounds := boundsOf(terrain)
		meta.Bounds = &bounds
	}

	return meta
}

// boundsOf projects the outline of the grid
func boundsOf(terrain *input.Terrain) [4]float64 {
	grid := terrain.DEM
	c, r := grid.Dims()

	// outer cell edges
	west := grid.X(0) - grid.CellSize/2
	east := grid.X(c-1) + grid.CellSize/2
	south := grid.Y(r-1) - grid.DY()/2
	north := grid.Y(0) + grid.DY()/2

	b := orb.Bound{Min: orb.Point{math.Inf(1), math.Inf(1)}, Max: orb.Point{math.Inf(-1), math.Inf(-1)}}
	for i := 0; i <= edgeSamples; i++ {
		f := float64(i) / edgeSamples
		x := west + f*(east-west)
		y := south + f*(north-south)

		for _, p := range []orb.Point{{x, south}, {x, north}, {west, y}, {east, y}} {
			b = b.Extend(terrain.ToWGS84(p))
		}
	}

	return [4]float64{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()}
}

// Read meta.json from given path
func Read(metaJSONPath string) (MetaJSON, error) {
	var val MetaJSON

	bytes, err := os.ReadFile(metaJSONPath)
	if err != nil {
		return val, err
	}

	err = json.Unmarshal(bytes, &val)
	return val, err
}

// Write meta.json to given path
func Write(metaJSONPath string, meta MetaJSON) error {
	bytes, err := json.MarshalIndent(meta, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(metaJSONPath, bytes, 0o644)
}
