package dem

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/gruppe-adler/terrain-dat/internal/raster"
)

// FromDataset reads the first band of ds into a grid. Blocks missing at the end of the file are
// left NODATA, any other read error is returned.
func FromDataset(ds raster.Dataset) (*EsriASCIIRaster, error) {
	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, fmt.Errorf("%w: dataset has no bands", raster.ErrInvalidGeometry)
	}
	band := bands[0]

	width, height := ds.Size()
	gt := ds.GeoTransform()
	if gt[2] != 0 || gt[4] != 0 {
		return nil, fmt.Errorf("%w: rotated geotransform", raster.ErrInvalidGeometry)
	}

	cellSize, cellSizeY := math.Abs(gt[1]), math.Abs(gt[5])
	northUp := gt.NorthUp()

	// lower left corner of the raster
	yll := gt[3]
	if northUp {
		yll = gt[3] + float64(height)*gt[5]
	}

	out := NewEsriASCIIRaster(uint(width), uint(height), gt[0], yll, cellSize, cellSizeY)

	noData, hasNoData := band.NoData()

	blockWidth, blockHeight := band.BlockSize()
	cols, rows := band.BlockCount()

	// blocks are read one row at a time in parallel; each writes its own cells only
	eg := errgroup.Group{}
	eg.SetLimit(runtime.NumCPU())

	for row := 0; row < rows; row++ {
		row := row
		eg.Go(func() error {
			for col := 0; col < cols; col++ {
				block, err := band.ReadBlock(col, row)
				if errors.Is(err, raster.ErrNoBlock) {
					continue
				}
				if err != nil {
					return err
				}

				for y := 0; y < block.Height; y++ {
					py := row*blockHeight + y
					if py >= height {
						break
					}

					// rows of the grid go south from its top
					r := py
					if !northUp {
						r = height - 1 - py
					}

					for x := 0; x < block.Width; x++ {
						px := col*blockWidth + x
						if px >= width {
							break
						}

						z := sampleValue(block, x, y)
						if hasNoData && z == noData {
							continue
						}
						out.Data[r][px] = z
					}
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// sampleValue returns the sample as the shortest float64 that reads back as the stored value
func sampleValue(block *raster.Block, x, y int) float64 {
	if block.Type != raster.Float32 {
		return block.Value(x, y)
	}

	v := block.Float32[y*block.Width+x]
	f, _ := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'g', -1, 32), 64)
	return f
}
