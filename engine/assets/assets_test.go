package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImagesDecodeKeepsTopLeftOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, SpriteSize, SpriteSize))
	src.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	fsys := fstest.MapFS{"sprite.png": {Data: encodePNG(t, src)}}

	img, err := Images{FS: fsys}.Image("sprite.png")
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, SpriteSize, SpriteSize) {
		t.Fatalf("bounds = %v", got)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel (0,0) = %v, want opaque red", got)
	}
	if img.Stride != SpriteSize*4 {
		t.Errorf("stride = %d, want %d", img.Stride, SpriteSize*4)
	}
}

func TestImagesScalesToSpriteSize(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	fsys := fstest.MapFS{"small.png": {Data: encodePNG(t, src)}}

	img, err := Images{FS: fsys}.Image("small.png")
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != SpriteSize || h != SpriteSize {
		t.Errorf("size = %dx%d, want %dx%d", w, h, SpriteSize, SpriteSize)
	}
}

func TestImagesErrors(t *testing.T) {
	fsys := fstest.MapFS{"junk.png": {Data: []byte("not an image")}}
	im := Images{FS: fsys}
	if _, err := im.Image("missing.png"); err == nil || !strings.Contains(err.Error(), "open") {
		t.Errorf("missing image error = %v", err)
	}
	if _, err := im.Image("junk.png"); err == nil || !strings.Contains(err.Error(), "decode") {
		t.Errorf("junk image error = %v", err)
	}
}

func TestPlaceholder(t *testing.T) {
	img := Placeholder(color.NRGBA{0, 128, 255, 255})
	if got := img.NRGBAAt(SpriteSize/2, SpriteSize/2); got.A != 255 {
		t.Errorf("centre alpha = %d, want 255", got.A)
	}
	if got := img.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("corner alpha = %d, want 0", got.A)
	}
}

func TestPlaceholderEdgeKeepsColor(t *testing.T) {
	c := color.NRGBA{R: 0xe8, G: 0x4a, B: 0x5f, A: 0xff}
	img := Placeholder(c)
	// Just inside the rim, on the horizontal centre line.
	got := img.NRGBAAt(0, SpriteSize/2)
	want := color.NRGBA{R: 0xe8, G: 0x4a, B: 0x5f, A: 0x7f}
	if got != want {
		t.Errorf("edge texel = %v, want %v", got, want)
	}
}

func TestToSpriteKeepsStraightAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, SpriteSize, SpriteSize))
	src.SetNRGBA(3, 4, color.NRGBA{255, 0, 0, 128})
	if got := ToSprite(src).NRGBAAt(3, 4); got != (color.NRGBA{255, 0, 0, 128}) {
		t.Errorf("texel = %v, want {255 0 0 128}", got)
	}
}

func TestLoadShader(t *testing.T) {
	for _, name := range []string{"sprite.vert", "sprite.frag"} {
		src, err := LoadShader(name)
		if err != nil {
			t.Fatalf("LoadShader(%q): %v", name, err)
		}
		if !strings.Contains(src, "void main()") {
			t.Errorf("%s has no main", name)
		}
	}
	if _, err := LoadShader("nope.frag"); err == nil {
		t.Error("LoadShader(nope.frag) succeeded")
	}
}
