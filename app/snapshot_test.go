package app

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func countWhite(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r == 0xffff && g == 0xffff && bl == 0xffff {
				n++
			}
		}
	}
	return n
}

func TestStampCaption(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 24))
	StampCaption(img, "")
	assert.Zero(t, countWhite(img))

	StampCaption(img, "10 spots")
	assert.Positive(t, countWhite(img))
}

func TestWriteSnapshot(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	img.Set(60, 30, color.RGBA{R: 200, G: 10, B: 20, A: 255})
	path := filepath.Join(t.TempDir(), "shot.bmp")

	require.NoError(t, WriteSnapshot(path, img, "frame 1"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	back, err := bmp.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, img.Bounds(), back.Bounds())
	r, g, b, _ := back.At(60, 30).RGBA()
	assert.Equal(t, []uint32{200, 10, 20}, []uint32{r >> 8, g >> 8, b >> 8})
	assert.Positive(t, countWhite(back))
}

func TestWriteSnapshot_BadPath(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	assert.Error(t, WriteSnapshot(filepath.Join(t.TempDir(), "missing", "shot.bmp"), img, ""))
}
