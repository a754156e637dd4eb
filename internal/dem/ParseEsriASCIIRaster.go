package dem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformed is returned for grids that can't be parsed
var ErrMalformed = errors.New("malformed ESRI ASCII grid")

// ParseEsriASCIIRaster parses an ESRI ASCII grid
func ParseEsriASCIIRaster(reader io.Reader) (EsriASCIIRaster, error) {

	raster := EsriASCIIRaster{}
	remainingHeaders := []string{"NCOLS", "NROWS", "XLLCENTER", "XLLCORNER", "YLLCENTER", "YLLCORNER", "CELLSIZE", "NODATA_VALUE"}
	stillIsHeader := true
	rowIndex := uint(0)
	var esriData [][]float64

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		// first field as upper case
		keyword := strings.ToUpper(fields[0])

		// DX / DY replace CELLSIZE for grids with rectangular cells
		if stillIsHeader && (keyword == "DX" || keyword == "DY") {
			remainingHeaders = remove(remainingHeaders, "CELLSIZE")
		}

		if stillIsHeader && (contains(remainingHeaders, keyword) || keyword == "DX" || keyword == "DY") {
			remainingHeaders = remove(remainingHeaders, keyword)

			// there can either be corner or center not both
			if keyword == "XLLCENTER" || keyword == "YLLCENTER" {
				remainingHeaders = remove(remainingHeaders, "XLLCORNER")
				remainingHeaders = remove(remainingHeaders, "YLLCORNER")
			}
			if keyword == "XLLCORNER" || keyword == "YLLCORNER" {
				remainingHeaders = remove(remainingHeaders, "XLLCENTER")
				remainingHeaders = remove(remainingHeaders, "YLLCENTER")
			}

			err := parseHeaderLine(fields, &raster)
			if err != nil {
				return raster, err
			}
			continue
		}

		if stillIsHeader { // this is the first data line, if stillIsHeader is true
			// NODATA_VALUE is optional
			remainingHeaders = remove(remainingHeaders, "NODATA_VALUE")

			if len(remainingHeaders) > 0 {
				return raster, fmt.Errorf("%w: missing %s", ErrMalformed, strings.Join(remainingHeaders, ", "))
			}

			if raster.CellSize <= 0 {
				return raster, fmt.Errorf("%w: missing cell size", ErrMalformed)
			}

			stillIsHeader = false

			esriData = make([][]float64, raster.Nrows)
		}

		if rowIndex >= raster.Nrows {
			return raster, fmt.Errorf("%w: more than %d rows", ErrMalformed, raster.Nrows)
		}

		row, err := parseDataLine(fields, raster.Ncols)
		if err != nil {
			return raster, fmt.Errorf("row %d: %w", rowIndex, err)
		}

		esriData[rowIndex] = row
		rowIndex++
	}

	if err := scanner.Err(); err != nil {
		return raster, err
	}

	if rowIndex < raster.Nrows || stillIsHeader {
		return raster, fmt.Errorf("%w: %d of %d rows", ErrMalformed, rowIndex, raster.Nrows)
	}

	raster.Data = esriData

	return raster, nil
}

func parseHeaderLine(fields []string, grid *EsriASCIIRaster) error {
	if len(fields) != 2 {
		return fmt.Errorf("%w: header line must have exactly two fields", ErrMalformed)
	}

	keyword := strings.ToUpper(fields[0])

	if keyword == "NCOLS" || keyword == "NROWS" {
		i, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformed, keyword, err)
		}
		if i == 0 {
			return fmt.Errorf("%w: %s must be greater than 0", ErrMalformed, keyword)
		}

		if keyword == "NCOLS" {
			grid.Ncols = uint(i)
		} else {
			grid.Nrows = uint(i)
		}
		return nil
	}

	f, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, keyword, err)
	}

	switch keyword {
	case "XLLCENTER":
		grid.Xcenter = &f
	case "XLLCORNER":
		grid.Xcorner = &f
	case "YLLCENTER":
		grid.Ycenter = &f
	case "YLLCORNER":
		grid.Ycorner = &f
	case "CELLSIZE", "DX":
		if f <= 0.0 {
			return fmt.Errorf("%w: %s must be greater than 0", ErrMalformed, keyword)
		}
		grid.CellSize = f
	case "DY":
		if f <= 0.0 {
			return fmt.Errorf("%w: DY must be greater than 0", ErrMalformed)
		}
		grid.CellSizeY = f
	case "NODATA_VALUE":
		grid.NoDataValue = f
		grid.HasNoData = true
	default:
		return fmt.Errorf("%w: unknown header keyword %s", ErrMalformed, fields[0])
	}

	return nil
}

func parseDataLine(fields []string, cols uint) ([]float64, error) {
	row := make([]float64, cols)

	if uint(len(fields)) < cols {
		return row, fmt.Errorf("%w: data row is too short", ErrMalformed)
	}

	for i := uint(0); i < cols; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return row, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		row[i] = f
	}

	return row, nil
}

// contains checks whether an array contains a string
func contains(array []string, element string) bool {
	for _, curElement := range array {
		if curElement == element {
			return true
		}
	}
	return false
}

// remove removes a string from an array
func remove(arr []string, element string) []string {
	var remaining []string

	for i := 0; i < len(arr); i++ {
		if element != arr[i] {
			remaining = append(remaining, arr[i])
		}
	}

	return remaining
}
