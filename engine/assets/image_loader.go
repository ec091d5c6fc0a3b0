package assets

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// SpriteSize is the edge length in pixels of a rendered sprite. It matches
// gl_PointSize in shaders/sprite.vert.
const SpriteSize = 64

// Images resolves named images from a file system.
type Images struct {
	FS fs.FS
}

// Image decodes the named image (PNG, JPEG, GIF, BMP or WebP) and returns
// it as a SpriteSize square NRGBA image with a top-left origin.
func (im Images) Image(name string) (*image.NRGBA, error) {
	f, err := im.FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", name, err)
	}
	return ToSprite(img), nil
}

// ToSprite converts img to straight-alpha NRGBA, scaling it to
// SpriteSize x SpriteSize if it has another size.
func ToSprite(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, SpriteSize, SpriteSize))
	if b.Dx() == SpriteSize && b.Dy() == SpriteSize {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Placeholder draws a soft-edged disc of color c, used when no sprite image
// is supplied.
func Placeholder(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, SpriteSize, SpriteSize))
	const r = SpriteSize / 2
	for y := 0; y < SpriteSize; y++ {
		for x := 0; x < SpriteSize; x++ {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			d := dx*dx + dy*dy
			switch {
			case d <= (r-1)*(r-1):
				img.SetNRGBA(x, y, c)
			case d <= r*r:
				edge := c
				edge.A = c.A / 2
				img.SetNRGBA(x, y, edge)
			}
		}
	}
	return img
}
