// Package field parses the fixed-width ASCII fields of text elevation formats.
package field

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxWidth is the widest field Parse accepts
const MaxWidth = 31

// AngleWidth is the width of a packed DDDMMSS angle
const AngleWidth = 7

var (
	// ErrFieldWidth is returned for widths outside [1, MaxWidth]
	ErrFieldWidth = errors.New("field width out of range")

	// ErrField is returned when a field is truncated or not a decimal integer
	ErrField = errors.New("malformed field")
)

// Parse reads a fixed-width decimal integer from the start of buf. Surrounding blanks are ignored.
func Parse(buf []byte, width int) (int, error) {
	if width < 1 || width > MaxWidth {
		return 0, fmt.Errorf("%w: %d", ErrFieldWidth, width)
	}
	if len(buf) < width {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrField, width, len(buf))
	}

	s := strings.Trim(string(buf[:width]), " \x00")
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrField)
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrField, s)
	}

	return v, nil
}

// ParseAt is Parse on buf[offset:]
func ParseAt(buf []byte, offset, width int) (int, error) {
	if offset < 0 || offset > len(buf) {
		return 0, fmt.Errorf("%w: offset %d outside %d bytes", ErrField, offset, len(buf))
	}
	return Parse(buf[offset:], width)
}

// ParseAngle reads a 7 wide DDDMMSS angle and returns it in degrees.
// The format has no sign, angles are never negative.
func ParseAngle(buf []byte) (float64, error) {
	v, err := Parse(buf, AngleWidth)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative angle %d", ErrField, v)
	}

	deg := v / 10000
	mins := (v / 100) % 100
	sec := v % 100

	return float64(deg) + float64(mins)/60.0 + float64(sec)/3600.0, nil
}
