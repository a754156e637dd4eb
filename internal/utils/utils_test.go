package utils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path"
	"sync"
	"testing"

	"github.com/nfnt/resize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryWriter struct {
	mu    sync.Mutex
	tiles map[[3]uint][]byte
}

func (m *memoryWriter) WriteTile(z, x, y uint, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tiles == nil {
		m.tiles = map[[3]uint][]byte{}
	}
	m.tiles[[3]uint{z, x, y}] = data
	return nil
}

func TestIsFileIsDirectory(t *testing.T) {
	dir := t.TempDir()
	file := path.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.True(t, IsFile(file))
	assert.False(t, IsFile(dir))
	assert.False(t, IsFile(path.Join(dir, "missing")))

	assert.True(t, IsDirectory(dir))
	assert.False(t, IsDirectory(file))

	nested := path.Join(dir, "a", "b")
	require.NoError(t, EnsureDirectory(nested))
	assert.True(t, IsDirectory(nested))
	require.NoError(t, EnsureDirectory(nested))
}

func TestCalcMaxLodFromImage(t *testing.T) {
	assert.Equal(t, uint8(0), CalcMaxLodFromImage(image.NewRGBA(image.Rect(0, 0, 84, 48))))
	assert.Equal(t, uint8(0), CalcMaxLodFromImage(image.NewRGBA(image.Rect(0, 0, 256, 256))))
	assert.Equal(t, uint8(1), CalcMaxLodFromImage(image.NewRGBA(image.Rect(0, 0, 300, 10))))
	assert.Equal(t, uint8(3), CalcMaxLodFromImage(image.NewRGBA(image.Rect(0, 0, 1176, 1128))))
}

func TestBuildTileSet(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	// left half red, right half blue
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= 5 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}

	out := &memoryWriter{}
	require.NoError(t, BuildTileSet(context.Background(), 1, img, resize.NearestNeighbor, out))
	require.Len(t, out.tiles, 4)

	decode := func(z, x, y uint) image.Image {
		tile, err := png.Decode(bytes.NewReader(out.tiles[[3]uint{z, x, y}]))
		require.NoError(t, err)
		return tile
	}

	left := decode(1, 0, 1)
	assert.Equal(t, 256, left.Bounds().Dx())
	r, _, b, _ := left.At(128, 128).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), b)

	right := decode(1, 1, 0)
	r, _, b, _ = right.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0xffff), b)
}

func TestBuildTileSetRejectsNonSquare(t *testing.T) {
	err := BuildTileSet(context.Background(), 0, image.NewRGBA(image.Rect(0, 0, 2, 1)), resize.NearestNeighbor, &memoryWriter{})
	assert.Error(t, err)
}

func TestDirectoryWriter(t *testing.T) {
	dir := t.TempDir()
	w := MultiWriter{DirectoryWriter(dir), &memoryWriter{}}

	require.NoError(t, w.WriteTile(2, 1, 3, []byte("tile")))

	data, err := os.ReadFile(path.Join(dir, "2", "1", "3.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("tile"), data)
}
