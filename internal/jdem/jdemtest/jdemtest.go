// Package jdemtest builds JDEM files for tests.
package jdemtest

import (
	"bytes"
	"fmt"

	"github.com/gruppe-adler/terrain-dat/internal/jdem"
)

// SampleFunc returns the stored value (decimeters) of a sample
type SampleFunc func(col, row int) int

// File describes a JDEM file to build
type File struct {
	MeshCode string // 6 characters
	Width    int
	Height   int

	// DDDMMSS corner angles
	LLLat, LLLon int
	URLat, URLon int
}

// Header lays out the header of f, padded to the first record
func (f File) Header() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%-6.6s", f.MeshCode)
	b.WriteString("00000")
	b.WriteString("1995")
	b.WriteString("2001")
	b.WriteString("2002")
	fmt.Fprintf(&b, "%03d%03d", f.Width, f.Height)
	fmt.Fprintf(&b, "%07d%07d%07d%07d", f.LLLat, f.LLLon, f.URLat, f.URLon)

	for b.Len() < jdem.HeaderSkip {
		b.WriteByte(' ')
	}
	return b.Bytes()
}

// Record lays out the record of row
func (f File) Record(row int, sample SampleFunc) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%-6.6s%3d", f.MeshCode, row+1)
	for col := 0; col < f.Width; col++ {
		fmt.Fprintf(&b, "%5d", sample(col, row))
	}
	b.WriteString("\r\n")
	return b.Bytes()
}

// Build lays out the whole file
func (f File) Build(sample SampleFunc) []byte {
	out := f.Header()
	for row := 0; row < f.Height; row++ {
		out = append(out, f.Record(row, sample)...)
	}
	return out
}
