package dem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// WriteEsriASCIIRaster writes raster as ESRI ASCII grid
func WriteEsriASCIIRaster(w io.Writer, raster *EsriASCIIRaster) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "ncols        %d\n", raster.Ncols)
	fmt.Fprintf(bw, "nrows        %d\n", raster.Nrows)

	if raster.Xcenter != nil {
		fmt.Fprintf(bw, "xllcenter    %s\n", formatFloat(*raster.Xcenter))
	} else {
		fmt.Fprintf(bw, "xllcorner    %s\n", formatFloat(orZero(raster.Xcorner)))
	}
	if raster.Ycenter != nil {
		fmt.Fprintf(bw, "yllcenter    %s\n", formatFloat(*raster.Ycenter))
	} else {
		fmt.Fprintf(bw, "yllcorner    %s\n", formatFloat(orZero(raster.Ycorner)))
	}

	if raster.CellSizeY != 0 {
		fmt.Fprintf(bw, "dx           %s\n", formatFloat(raster.CellSize))
		fmt.Fprintf(bw, "dy           %s\n", formatFloat(raster.CellSizeY))
	} else {
		fmt.Fprintf(bw, "cellsize     %s\n", formatFloat(raster.CellSize))
	}

	if raster.HasNoData {
		fmt.Fprintf(bw, "NODATA_value %s\n", formatFloat(raster.NoDataValue))
	}

	values := make([]string, raster.Ncols)
	for _, row := range raster.Data {
		for c, z := range row {
			values[c] = formatFloat(z)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(values, " ")); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Write writes raster to path. Paths ending in .gz are compressed.
func Write(path string, raster *EsriASCIIRaster) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		err = WriteEsriASCIIRaster(file, raster)
		if err != nil {
			file.Close()
			return err
		}
		return file.Close()
	}

	gz, err := gzip.NewWriterLevel(file, gzip.BestSpeed)
	if err != nil {
		file.Close()
		return err
	}

	err = WriteEsriASCIIRaster(gz, raster)
	if err != nil {
		gz.Close()
		file.Close()
		return err
	}

	err = gz.Close()
	if err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func orZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
