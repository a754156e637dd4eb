package preview

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path"
	"time"

	"github.com/nfnt/resize"

	"github.com/gruppe-adler/terrain-dat/internal/grid"
	"github.com/gruppe-adler/terrain-dat/internal/input"
	"github.com/gruppe-adler/terrain-dat/internal/raster"
	"github.com/gruppe-adler/terrain-dat/internal/validate"
)

var sizes = []uint{128, 256, 512, 1024}

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet, reg *raster.Registry) {

	var timer time.Time
	start := time.Now()

	outputPtr := flagSet.String("out", "", "Path to output directory")
	inputPtr := flagSet.String("in", "", "Path to terrain file or ESRI ASCII grid")

	flagSet.Parse(os.Args[2:])

	// make sure both flags are present
	if *outputPtr == "" || *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	if err := validate.Paths(*inputPtr, *outputPtr); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Validated input and output")

	timer = time.Now()
	fmt.Println("▶️  Loading terrain")
	terrain, err := input.Load(*inputPtr, reg, raster.OpenOptions{CacheSize: grid.CacheSize})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Loaded terrain in", time.Since(timer).String())

	timer = time.Now()
	fmt.Println("▶️  Rendering preview image")
	previewImage, min, max := grayscale(terrain.DEM)
	fmt.Println("✔️  Rendered preview image in", time.Since(timer).String())
	fmt.Printf("ℹ️  Heights range from %.1fm (black) to %.1fm (white)\n", min, max)

	timer = time.Now()
	fmt.Println("▶️  Writing original preview image to output")
	if err := saveImage(path.Join(*outputPtr, "preview.png"), previewImage); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Wrote original preview image in", time.Since(timer).String())

	for _, size := range sizes {
		timer = time.Now()
		fmt.Printf("▶️  Building x%d image\n", size)

		img := scale(previewImage, size)
		if err := saveImage(path.Join(*outputPtr, fmt.Sprintf("preview_%d.png", size)), img); err != nil {
			log.Fatal(err)
		}

		fmt.Printf("✔️  Built x%d in %s\n", size, time.Since(timer).String())
	}

	fmt.Printf("\n    🎉  Finished in %s\n", time.Since(start).String())
}

// scale resizes img to given height, keeping the aspect ratio
func scale(img image.Image, height uint) image.Image {
	factor := float64(height) / float64(img.Bounds().Dy())
	w := uint(float64(img.Bounds().Dx())*factor + 0.5)
	if w == 0 {
		w = 1
	}

	return resize.Resize(w, height, img, resize.MitchellNetravali)
}

func saveImage(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	err = png.Encode(out, img)
	if err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
