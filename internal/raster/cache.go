package raster

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

type blockKey struct {
	col, row int
}

// CachedBand keeps the most recently decoded blocks of a band in memory
type CachedBand struct {
	Band

	mu     sync.Mutex
	blocks *lru.Cache[blockKey, *Block]
	closed bool
}

// NewCachedBand wraps b with an LRU cache of size blocks
func NewCachedBand(b Band, size int) (*CachedBand, error) {
	blocks, err := lru.New[blockKey, *Block](size)
	if err != nil {
		return nil, err
	}

	return &CachedBand{Band: b, blocks: blocks}, nil
}

// ReadBlock returns a copy of the cached block or decodes it
func (c *CachedBand) ReadBlock(col, row int) (*Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	key := blockKey{col, row}
	if b, found := c.blocks.Get(key); found {
		return b.Clone(), nil
	}

	b, err := c.Band.ReadBlock(col, row)
	if err != nil {
		return nil, err
	}

	c.blocks.Add(key, b.Clone())
	return b, nil
}

// Len returns the number of cached blocks
func (c *CachedBand) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.blocks.Len()
}

// Close drops all cached blocks. Later reads fail with ErrClosed.
func (c *CachedBand) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.blocks.Purge()
}
