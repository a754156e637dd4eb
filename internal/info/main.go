package info

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/gruppe-adler/terrain-dat/internal/apdat"
	"github.com/gruppe-adler/terrain-dat/internal/grid"
	"github.com/gruppe-adler/terrain-dat/internal/input"
	"github.com/gruppe-adler/terrain-dat/internal/jdem"
	"github.com/gruppe-adler/terrain-dat/internal/metajson"
	"github.com/gruppe-adler/terrain-dat/internal/raster"
	"github.com/gruppe-adler/terrain-dat/internal/validate"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet, reg *raster.Registry) {

	start := time.Now()

	inputPtr := flagSet.String("in", "", "Path to terrain file")
	blocksPtr := flagSet.Int("blocks", 0, "Dump the headers of the first N blocks or records")
	metaPtr := flagSet.String("meta", "", "Write a meta.json to this path")
	verifyPtr := flagSet.Bool("verify", false, "Verify block checksums while reading (terrain.dat only)")

	flagSet.Parse(os.Args[2:])

	if *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	if err := validate.InputFile(*inputPtr); err != nil {
		log.Fatal(err)
	}
	if *metaPtr != "" {
		if err := validate.OutputFile(*metaPtr); err != nil {
			log.Fatal(err)
		}
	}

	opts := raster.OpenOptions{CacheSize: grid.CacheSize, VerifyCRC: *verifyPtr}

	ds, err := input.OpenDataset(*inputPtr, reg, opts)
	if err != nil {
		log.Fatal(err)
	}

	describe(os.Stdout, ds)

	if *blocksPtr > 0 {
		if err := dumpBlocks(os.Stdout, ds, *blocksPtr); err != nil {
			log.Fatal(err)
		}
	}

	if err := ds.Close(); err != nil {
		log.Fatal(err)
	}

	if *metaPtr != "" {
		timer := time.Now()
		fmt.Println("▶️  Reading all blocks")
		terrain, err := input.Load(*inputPtr, reg, opts)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("✔️  Read all blocks in", time.Since(timer).String())

		if err := metajson.Write(*metaPtr, metajson.FromTerrain(input.Name(*inputPtr), terrain)); err != nil {
			log.Fatal(err)
		}
		fmt.Println("✔️  Wrote", *metaPtr)
	}

	fmt.Printf("\n    🎉  Finished in %s\n", time.Since(start).String())
}

// describe prints size, georeferencing and bands of ds
func describe(w io.Writer, ds raster.Dataset) {
	width, height := ds.Size()
	gt := ds.GeoTransform()

	fmt.Fprintf(w, "ℹ️  Driver: %s\n", ds.Driver())
	fmt.Fprintf(w, "ℹ️  Size: %dx%d\n", width, height)
	fmt.Fprintf(w, "ℹ️  Spatial reference: %s\n", ds.SpatialRef())
	fmt.Fprintf(w, "ℹ️  Origin: (%g, %g)\n", gt[0], gt[3])
	fmt.Fprintf(w, "ℹ️  Pixel size: (%g, %g)\n", gt[1], gt[5])

	metadata := ds.Metadata()
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "ℹ️  %s=%s\n", k, metadata[k])
	}

	for i, band := range ds.Bands() {
		bw, bh := band.BlockSize()
		cols, rows := band.BlockCount()
		fmt.Fprintf(w, "ℹ️  Band %d: %s, blocks of %dx%d, %dx%d blocks\n", i+1, band.DataType(), bw, bh, cols, rows)
	}
}

// dumpBlocks prints the headers of the first n blocks (terrain.dat) or row records (JDEM)
func dumpBlocks(w io.Writer, ds raster.Dataset, n int) error {
	config := spew.ConfigState{Indent: "    ", DisablePointerAddresses: true, DisableCapacities: true}

	switch d := ds.(type) {
	case *apdat.Dataset:
		dims := d.Dimensions()
		for i := 0; i < n && i < dims.BlocksEast*dims.BlocksNorth; i++ {
			col, row := i%dims.BlocksEast, i/dims.BlocksEast

			h, err := d.BlockHeader(col, row)
			if err != nil {
				return fmt.Errorf("block %d/%d: %w", col, row, err)
			}

			fmt.Fprintf(w, "Block %d/%d @ %d:\n", col, row, dims.BlockOffset(col, row))
			config.Fdump(w, h)
		}

	case *jdem.Dataset:
		_, height := d.Size()
		for row := 0; row < n && row < height; row++ {
			h, err := d.RecordHeader(row)
			if err != nil {
				return fmt.Errorf("record %d: %w", row, err)
			}

			fmt.Fprintf(w, "Record %d @ %d:\n", row, d.RecordOffset(row))
			config.Fdump(w, h)
		}

	default:
		return fmt.Errorf("%s files have no block headers", ds.Driver())
	}

	return nil
}
