package app

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// StampCaption writes caption in the top left corner of img.
func StampCaption(img *image.RGBA, caption string) {
	if caption == "" {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
		Dot:  fixed.P(4, 4+face.Ascent),
	}
	d.DrawString(caption)
}

// WriteSnapshot stamps caption onto img and saves it as an opaque BMP file.
func WriteSnapshot(path string, img *image.RGBA, caption string) error {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	StampCaption(img, caption)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	return f.Close()
}
