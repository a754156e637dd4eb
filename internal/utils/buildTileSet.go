package utils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path"
	"runtime"

	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// TileWriter stores encoded tiles. Implementations must be safe for concurrent use.
type TileWriter interface {
	WriteTile(z, x, y uint, data []byte) error
}

// DirectoryWriter writes tiles to {dir}/{z}/{x}/{y}.png
type DirectoryWriter string

// WriteTile implements TileWriter
func (dir DirectoryWriter) WriteTile(z, x, y uint, data []byte) error {
	colDir := path.Join(string(dir), fmt.Sprintf("%d", z), fmt.Sprintf("%d", x))
	if err := EnsureDirectory(colDir); err != nil {
		return err
	}

	return os.WriteFile(path.Join(colDir, fmt.Sprintf("%d.png", y)), data, 0o644)
}

// MultiWriter writes each tile to all writers
type MultiWriter []TileWriter

// WriteTile implements TileWriter
func (m MultiWriter) WriteTile(z, x, y uint, data []byte) error {
	for _, w := range m {
		if err := w.WriteTile(z, x, y, data); err != nil {
			return err
		}
	}
	return nil
}

var sem = semaphore.NewWeighted(int64(runtime.NumCPU()))

// BuildTileSet cuts the square image img into the 2^lod x 2^lod tiles of given LOD and hands them
// to out as PNG.
func BuildTileSet(ctx context.Context, lod uint8, img image.Image, interp resize.InterpolationFunction, out TileWriter) error {
	tilesPerRowCol := 1 << lod

	bounds := img.Bounds()
	size := bounds.Dx()
	if bounds.Dy() != size {
		return fmt.Errorf("image of %dx%d is not square", bounds.Dx(), bounds.Dy())
	}

	sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return fmt.Errorf("%T can't be cut into tiles", img)
	}

	eg, ctx := errgroup.WithContext(ctx)

	for col := 0; col < tilesPerRowCol; col++ {
		for row := 0; row < tilesPerRowCol; row++ {
			col, row := col, row

			// remaining pixels are spread over the tiles
			rect := image.Rect(
				col*size/tilesPerRowCol, row*size/tilesPerRowCol,
				(col+1)*size/tilesPerRowCol, (row+1)*size/tilesPerRowCol,
			).Add(bounds.Min)

			eg.Go(func() error {
				if err := sem.Acquire(ctx, 1); err != nil {
					return err
				}
				defer sem.Release(1)

				data, err := createTile(sub.SubImage(rect), interp)
				if err != nil {
					return err
				}

				return out.WriteTile(uint(lod), uint(col), uint(row), data)
			})
		}
	}

	return eg.Wait()
}

func createTile(subImg image.Image, interp resize.InterpolationFunction) ([]byte, error) {
	img := resize.Resize(TileSize, TileSize, subImg, interp)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
