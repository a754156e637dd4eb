package terrainrgb

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nfnt/resize"

	"github.com/gruppe-adler/terrain-dat/internal/grid"
	"github.com/gruppe-adler/terrain-dat/internal/input"
	"github.com/gruppe-adler/terrain-dat/internal/mbtiles"
	"github.com/gruppe-adler/terrain-dat/internal/metajson"
	"github.com/gruppe-adler/terrain-dat/internal/raster"
	"github.com/gruppe-adler/terrain-dat/internal/tilejson"
	"github.com/gruppe-adler/terrain-dat/internal/utils"
	"github.com/gruppe-adler/terrain-dat/internal/validate"
)

const layerName = "Mapbox Terrain-RGB"

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet, reg *raster.Registry) {

	var timer time.Time
	start := time.Now()

	outputPtr := flagSet.String("out", "", "Path to output directory")
	inputPtr := flagSet.String("in", "", "Path to terrain file or ESRI ASCII grid")
	mbtilesPtr := flagSet.String("mbtiles", "", "Also write tiles to this MBTiles file")

	flagSet.Parse(os.Args[2:])

	// make sure both flags are present
	if *outputPtr == "" || *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	if err := validate.Paths(*inputPtr, *outputPtr); err != nil {
		log.Fatal(err)
	}
	if *mbtilesPtr != "" {
		if err := validate.OutputFile(*mbtilesPtr); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println("✔️  Validated input and output")

	// load terrain
	timer = time.Now()
	fmt.Println("▶️  Loading terrain")
	terrain, err := input.Load(*inputPtr, reg, raster.OpenOptions{CacheSize: grid.CacheSize})
	if err != nil {
		log.Fatal(err)
	}
	meta := metajson.FromTerrain(input.Name(*inputPtr), terrain)
	fmt.Println("✔️  Loaded terrain in", time.Since(timer).String())

	// calculating image
	timer = time.Now()
	fmt.Println("▶️  Calculating image from DEM")
	img := calculateImage(terrain.DEM)
	fmt.Println("✔️  Calculated image in", time.Since(timer).String())

	// calculate max LOD
	maxLod := utils.CalcMaxLodFromImage(img)
	fmt.Println("ℹ️  Calculated max lod:", maxLod)

	var out utils.TileWriter = utils.DirectoryWriter(*outputPtr)
	var mb *mbtiles.MBTiles
	if *mbtilesPtr != "" {
		mb, err = mbtiles.Open(*mbtilesPtr, meta.Name, "png")
		if err != nil {
			log.Fatal(err)
		}
		out = utils.MultiWriter{out, mb}
	}

	// build tiles
	timer = time.Now()
	fmt.Println("▶️  Building tiles")
	for lod := uint8(0); lod <= maxLod; lod++ {
		timer2 := time.Now()
		// encoded heights must not be blended
		err := utils.BuildTileSet(context.Background(), lod, img, resize.NearestNeighbor, out)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("    ✔️  Finished tiles for LOD", lod, "in", time.Since(timer2).String())
	}
	fmt.Println("✔️  Built Terrain-RGB tiles in", time.Since(timer).String())

	if mb != nil {
		err = mb.InsertMeta(mbtilesMeta(maxLod, meta))
		if err == nil {
			err = mb.Close()
		}
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("✔️  Wrote", *mbtilesPtr)
	}

	// write tile.json
	timer = time.Now()
	fmt.Println("▶️  Creating tile.json")
	if err := tilejson.Write(*outputPtr, maxLod, meta, layerName); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Created tile.json in", time.Since(timer).String())

	fmt.Printf("\n    🎉  Finished in %s\n", time.Since(start).String())
}

func mbtilesMeta(maxLod uint8, meta metajson.MetaJSON) map[string]string {
	entries := map[string]string{
		"type":        "baselayer",
		"description": fmt.Sprintf("%s Tiles of %s", layerName, meta.Name),
		"minzoom":     "0",
		"maxzoom":     fmt.Sprintf("%d", maxLod),
		"encoding":    "mapbox",
	}
	if b := meta.Bounds; b != nil {
		entries["bounds"] = fmt.Sprintf("%g,%g,%g,%g", b[0], b[1], b[2], b[3])
	}
	return entries
}
