package gfx

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Texture is an RGBA8 2D texture with the pixel size of its source image.
type Texture struct {
	dev           Device
	id            uint32
	width, height int
}

// LoadTexture uploads img as a mipmapped RGBA8 texture with straight
// alpha.
func LoadTexture(c *Context, img image.Image) (*Texture, error) {
	w, h, pix := packNRGBA(img)
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: empty %dx%d image", ErrTextureRejected, w, h)
	}
	dev := c.Device()
	id, err := dev.UploadTexture(w, h, pix)
	if err != nil {
		return nil, fmt.Errorf("%w: %dx%d: %v", ErrTextureRejected, w, h, err)
	}
	Logger().Debug("gfx: texture uploaded", "texture", id, "width", w, "height", h)
	return &Texture{dev: dev, id: id, width: w, height: h}, nil
}

// packNRGBA returns img as tightly packed straight-alpha RGBA8 rows, top
// row first. Blending expects colors not multiplied by alpha.
func packNRGBA(img image.Image) (w, h int, pix []byte) {
	b := img.Bounds()
	w, h = b.Dx(), b.Dy()
	if m, ok := img.(*image.NRGBA); ok && m.Stride == w*4 && m.Rect.Min == (image.Point{}) {
		return w, h, m.Pix
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return w, h, dst.Pix
}

// ID returns the device handle of the texture.
func (t *Texture) ID() uint32 { return t.id }

// Dimensions returns the pixel size captured at upload.
func (t *Texture) Dimensions() (width, height float32) {
	return float32(t.width), float32(t.height)
}

// Bind attaches the texture to the given texture unit.
func (t *Texture) Bind(unit uint32) { t.dev.BindTexture(unit, t.id) }

// Release deletes the texture. t must not be used afterwards.
func (t *Texture) Release() {
	if t.id != 0 {
		t.dev.DeleteTexture(t.id)
		t.id = 0
	}
}
