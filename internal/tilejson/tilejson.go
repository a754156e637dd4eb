package tilejson

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/gruppe-adler/terrain-dat/internal/metajson"
)

// Write a tile.json for a pyramid of PNG tiles next to it
func Write(outputDirectory string, maxLod uint8, meta metajson.MetaJSON, layerName string) error {
	obj := New(maxLod, meta, layerName)

	bytes, err := json.MarshalIndent(obj, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(path.Join(outputDirectory, "tile.json"), bytes, 0o644)
}

// New describes a pyramid of PNG tiles of the terrain meta describes
func New(maxLod uint8, meta metajson.MetaJSON, layerName string) TileJSON {
	obj := TileJSON{
		TileJSON:    "2.2.0",
		Name:        fmt.Sprintf("%s %s Tiles", meta.Name, layerName),
		Description: fmt.Sprintf("%s Tiles of the terrain '%s' (%dx%d)", layerName, meta.Name, meta.Width, meta.Height),
		Scheme:      "xyz",
		Format:      "png",
		Tiles:       []string{"{z}/{x}/{y}.png"},
		Minzoom:     0,
		Maxzoom:     maxLod,
		Bounds:      meta.Bounds,
	}

	if layerName == "Mapbox Terrain-RGB" {
		obj.Encoding = "mapbox"
	}

	return obj
}
