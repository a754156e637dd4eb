package features

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/gruppe-adler/terrain-dat/internal/grid"
	"github.com/gruppe-adler/terrain-dat/internal/input"
	"github.com/gruppe-adler/terrain-dat/internal/raster"
	"github.com/gruppe-adler/terrain-dat/internal/validate"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet, reg *raster.Registry) {

	var timer time.Time
	start := time.Now()

	outputPtr := flagSet.String("out", "", "Path to output directory")
	inputPtr := flagSet.String("in", "", "Path to terrain file or ESRI ASCII grid")
	intervalPtr := flagSet.Float64("interval", 10, "Contour interval in meters")

	flagSet.Parse(os.Args[2:])

	// make sure both flags are present
	if *outputPtr == "" || *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	if err := validate.Paths(*inputPtr, *outputPtr); err != nil {
		log.Fatal(err)
	}
	if *intervalPtr <= 0 {
		log.Fatal("Contour interval must be greater than 0")
	}
	fmt.Println("✔️  Validated input and output")

	// load terrain
	timer = time.Now()
	fmt.Println("▶️  Loading terrain")
	terrain, err := input.Load(*inputPtr, reg, raster.OpenOptions{CacheSize: grid.CacheSize})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Loaded terrain in", time.Since(timer).String())

	// contour lines
	timer = time.Now()
	fmt.Println("▶️  Building contour lines")
	contours, err := buildContours(context.Background(), terrain.DEM, *intervalPtr)
	if err != nil {
		log.Fatal(err)
	}
	simplifyFeatures(contours, terrain.DEM.CellSize/4)
	fmt.Printf("✔️  Built %d contour lines in %s\n", len(contours.Features), time.Since(timer).String())

	// build mounts
	timer = time.Now()
	fmt.Println("▶️  Building mounts")
	mounts := buildMounts(terrain.DEM)
	fmt.Printf("✔️  Built %d mounts in %s\n", len(mounts.Features), time.Since(timer).String())

	if terrain.ToWGS84 != nil {
		timer = time.Now()
		fmt.Println("▶️  Projecting features to WGS84")
		projectFeatures(contours, terrain.ToWGS84)
		projectFeatures(mounts, terrain.ToWGS84)
		fmt.Println("✔️  Projected features in", time.Since(timer).String())
	} else {
		fmt.Println("ℹ️  Input has no known projection, keeping grid coordinates")
	}

	timer = time.Now()
	fmt.Println("▶️  Writing GeoJSONs")
	layers := []struct {
		name string
		fc   *geojson.FeatureCollection
	}{
		{"contours.geojson", contours},
		{"mounts.geojson", mounts},
	}
	for _, l := range layers {
		if err := writeGeoJSON(path.Join(*outputPtr, l.name), l.fc); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println("✔️  Wrote GeoJSONs in", time.Since(timer).String())

	fmt.Printf("\n    🎉  Finished in %s\n", time.Since(start).String())
}

func writeGeoJSON(filePath string, fc *geojson.FeatureCollection) error {
	bytes, err := fc.MarshalJSON()
	if err != nil {
		return err
	}

	return os.WriteFile(filePath, bytes, 0o644)
}
