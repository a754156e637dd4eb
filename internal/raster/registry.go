package raster

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// HeaderSize is the number of leading bytes drivers get to identify a stream
const HeaderSize = 2048

// Driver opens one file format
type Driver interface {
	// Name returns the driver's unique short name
	Name() string

	// LongName returns a human readable format name
	LongName() string

	// Identify decides from the leading bytes of a stream whether it is in this format.
	// It never fails, it only says yes or no.
	Identify(header []byte) bool

	// Open opens an identified stream. The dataset takes ownership of r.
	Open(r io.ReadSeeker, header []byte, opts OpenOptions) (Dataset, error)
}

// Registry holds the drivers available for opening files
type Registry struct {
	mu      sync.RWMutex
	drivers []Driver
	byName  map[string]Driver
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]Driver),
	}
}

// Register adds a driver. Registering a name twice keeps the first driver.
func (r *Registry) Register(d Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.byName[d.Name()]; found {
		return
	}

	r.byName[d.Name()] = d
	r.drivers = append(r.drivers, d)
}

// Driver looks up a driver by name
func (r *Registry) Driver(name string) (Driver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, found := r.byName[name]
	return d, found
}

// Drivers returns all drivers in registration order
func (r *Registry) Drivers() []Driver {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Driver(nil), r.drivers...)
}

// Identify returns the first driver recognising header
func (r *Registry) Identify(header []byte) (Driver, bool) {
	for _, d := range r.Drivers() {
		if d.Identify(header) {
			return d, true
		}
	}
	return nil, false
}

// Open identifies and opens a stream. On success the dataset owns rs, on failure the caller does.
func (r *Registry) Open(rs io.ReadSeeker, opts OpenOptions) (Dataset, error) {
	header, err := ReadHeader(rs, HeaderSize)
	if err != nil {
		return nil, err
	}

	d, found := r.Identify(header)
	if !found {
		return nil, ErrNotRecognized
	}

	return d.Open(rs, header, opts)
}

// ReadHeader reads up to n leading bytes of rs and rewinds it. Streams shorter than n are fine.
func ReadHeader(rs io.ReadSeeker, n int) ([]byte, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	header := make([]byte, n)
	read, err := io.ReadFull(rs, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	return header[:read], nil
}
