package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gruppe-adler/terrain-dat/internal/apdat"
	"github.com/gruppe-adler/terrain-dat/internal/export"
	"github.com/gruppe-adler/terrain-dat/internal/features"
	"github.com/gruppe-adler/terrain-dat/internal/info"
	"github.com/gruppe-adler/terrain-dat/internal/jdem"
	"github.com/gruppe-adler/terrain-dat/internal/preview"
	"github.com/gruppe-adler/terrain-dat/internal/raster"
	"github.com/gruppe-adler/terrain-dat/internal/terrainrgb"
)

type command struct {
	name        string
	description string
	run         func(*flag.FlagSet, *raster.Registry)
}

var subCommands []command

func init() {
	subCommands = []command{
		{"info", "Print size, georeferencing and block headers of a terrain file.", info.Run},
		{"export", "Convert a terrain file to an ESRI ASCII grid.", export.Run},
		{"preview", "Build resolutions for preview image.", preview.Run},
		{"terrainrgb", "Build Terrain-RGB tiles from a terrain file.", terrainrgb.Run},
		{"features", "Build contour lines and mounts as GeoJSON.", features.Run},
		{"help", "Print this message.", func(*flag.FlagSet, *raster.Registry) { printUsage() }},
	}
}

// newRegistry returns a registry knowing all supported terrain formats
func newRegistry() *raster.Registry {
	reg := raster.NewRegistry()
	apdat.Register(reg)
	jdem.Register(reg)
	return reg
}

func printUsage() {
	fmt.Printf("USAGE:\n    %s [SUBCOMMAND] [SUBCOMMAND FLAGS]\n\n", os.Args[0])
	fmt.Print("SUBCOMMANDS: \n")

	for i := 0; i < len(subCommands); i++ {
		name := subCommands[i].name

		fmt.Printf("%12s    %s\n", name, subCommands[i].description)
	}

	fmt.Printf("\nUse -h as SUBCOMMAND FLAG to print help for each subcommand.\n\n")
}

func main() {

	if len(os.Args) < 2 {
		fmt.Printf("\nERROR: No subcommand was provided.\n\n")
		printUsage()
		os.Exit(1)
	}

	reg := newRegistry()

	cmd := os.Args[1]

	for i := 0; i < len(subCommands); i++ {
		if subCommands[i].name == cmd {
			set := flag.NewFlagSet(cmd, flag.ExitOnError)
			subCommands[i].run(set, reg)
			return
		}
	}

	fmt.Printf("\nERROR: Subcommand '%s' was not found.\n\n", cmd)
	printUsage()
	os.Exit(1)
}
