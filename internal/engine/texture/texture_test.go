package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// encodePNG returns a PNG whose top half is white and bottom half black.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if y < h/2 {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestLoadPanoramaPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.png")
	if err := os.WriteFile(path, encodePNG(t, 8, 4), 0644); err != nil {
		t.Fatalf("write png: %v", err)
	}

	p, err := LoadPanorama(path)
	if err != nil {
		t.Fatalf("LoadPanorama: %v", err)
	}
	if p.Width != 8 || p.Height != 4 {
		t.Fatalf("size = %dx%d, want 8x4", p.Width, p.Height)
	}
	if p.HDR {
		t.Error("PNG panorama should not be flagged HDR")
	}
	if p.Source != path {
		t.Errorf("Source = %s, want %s", p.Source, path)
	}
	if len(p.Pix) != 8*4*3 {
		t.Errorf("len(Pix) = %d, want %d", len(p.Pix), 8*4*3)
	}

	// sRGB white stays 1.0 in linear space.
	if got := p.At(0, 0); got != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("At(0,0) = %v, want white", got)
	}
	if got := p.At(0, 3); got != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("At(0,3) = %v, want black", got)
	}
}

func TestDecodePanoramaUnsupported(t *testing.T) {
	_, err := DecodePanorama(strings.NewReader("whatever"), ".exr")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadPanoramaMissing(t *testing.T) {
	if _, err := LoadPanorama(filepath.Join(t.TempDir(), "nope.hdr")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPanoramaRowsTopFirst(t *testing.T) {
	p, err := DecodePanorama(bytes.NewReader(encodePNG(t, 8, 4)), ".png")
	if err != nil {
		t.Fatalf("DecodePanorama: %v", err)
	}

	if got := p.At(3, 0); got != (mgl32.Vec3{1, 1, 1}) {
		t.Errorf("top row = %v, want white", got)
	}
	if got := p.At(3, p.Height-1); got != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("bottom row = %v, want black", got)
	}
	if got := p.At(-5, 99); got != p.At(0, p.Height-1) {
		t.Errorf("out of range At = %v, want clamped to the corner", got)
	}
}

func TestAverage(t *testing.T) {
	p := &Panorama{Width: 2, Height: 2, Pix: make([]float32, 12)}
	for i := range p.Pix {
		p.Pix[i] = 0.25
	}
	got := p.Average()
	if !vecNear(got, mgl32.Vec3{0.25, 0.25, 0.25}, 1e-5) {
		t.Errorf("Average() = %v, want 0.25 everywhere", got)
	}

	// Cached after the first call.
	p.Pix[0] = 100
	if again := p.Average(); again != got {
		t.Errorf("second Average() = %v, want cached %v", again, got)
	}

	empty := &Panorama{}
	if got := empty.Average(); got != (mgl32.Vec3{}) {
		t.Errorf("empty Average() = %v, want zero", got)
	}
}

func TestDecodeImage(t *testing.T) {
	rgba, err := DecodeImage(encodePNG(t, 4, 2), "image/png")
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if rgba.Bounds().Dx() != 4 || rgba.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v, want 4x2", rgba.Bounds())
	}

	if _, err := DecodeImage([]byte("x"), "image/ktx2"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ktx2 error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestToRGBAOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 13, 12))
	src.Set(10, 10, color.NRGBA{255, 0, 0, 255})

	out := ToRGBA(src)
	if out.Rect.Min != (image.Point{}) {
		t.Errorf("origin = %v, want (0,0)", out.Rect.Min)
	}
	if r, _, _, _ := out.At(0, 0).RGBA(); r != 0xffff {
		t.Errorf("red channel at origin = %x, want ffff", r)
	}
}

// vecNear compares component-wise with an absolute tolerance.
func vecNear(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		if !floatNear(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

func floatNear(a, b, eps float32) bool {
	d := a - b
	return d < eps && d > -eps
}
