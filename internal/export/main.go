package export

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gruppe-adler/terrain-dat/internal/dem"
	"github.com/gruppe-adler/terrain-dat/internal/grid"
	"github.com/gruppe-adler/terrain-dat/internal/input"
	"github.com/gruppe-adler/terrain-dat/internal/raster"
	"github.com/gruppe-adler/terrain-dat/internal/validate"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet, reg *raster.Registry) {

	start := time.Now()

	outputPtr := flagSet.String("out", "", "Path to output ESRI ASCII grid (.asc or .asc.gz)")
	inputPtr := flagSet.String("in", "", "Path to terrain file")

	flagSet.Parse(os.Args[2:])

	// make sure both flags are present
	if *outputPtr == "" || *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	if err := validatePaths(*inputPtr, *outputPtr); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Validated input and output")

	timer := time.Now()
	fmt.Println("▶️  Exporting", *inputPtr, "to", *outputPtr)
	terrain, err := export(*inputPtr, *outputPtr, reg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Exported DEM in", time.Since(timer).String())

	w, h := terrain.DEM.Dims()
	fmt.Printf("ℹ️  %dx%d cells, driver %q, spatial reference %q\n", w, h, terrain.Driver, terrain.SpatialRef)

	fmt.Printf("\n    🎉  Finished in %s\n", time.Since(start).String())
}

func validatePaths(inputPath, outputPath string) error {
	if err := validate.InputFile(inputPath); err != nil {
		return err
	}
	if err := validate.OutputFile(outputPath); err != nil {
		return err
	}
	if !input.IsDEM(outputPath) {
		return fmt.Errorf("%s must end in .asc or .asc.gz", outputPath)
	}
	return nil
}

// export loads the terrain at inputPath and writes it as ESRI ASCII grid to outputPath
func export(inputPath, outputPath string, reg *raster.Registry) (*input.Terrain, error) {
	terrain, err := input.Load(inputPath, reg, raster.OpenOptions{CacheSize: grid.CacheSize})
	if err != nil {
		return nil, err
	}

	if err := dem.Write(outputPath, terrain.DEM); err != nil {
		return nil, err
	}

	return terrain, nil
}
