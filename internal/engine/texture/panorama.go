// Package texture decodes images into CPU-side pixel data ready for upload:
// equirectangular environment panoramas and material textures.
package texture

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned for file types no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Mapping describes how a texture is projected when sampled.
type Mapping int

const (
	// MappingUV samples with mesh texture coordinates.
	MappingUV Mapping = iota
	// MappingEquirectReflection samples a panorama by world direction.
	MappingEquirectReflection
)

// Panorama is a linear-light RGB image, rows stored top to bottom.
type Panorama struct {
	Width   int
	Height  int
	Pix     []float32 // 3 floats per pixel
	HDR     bool      // Values may exceed 1.0
	Mapping Mapping
	Source  string

	average *mgl32.Vec3
}

// LoadPanorama opens and decodes a panorama file, choosing the decoder by
// file extension.
func LoadPanorama(path string) (*Panorama, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := DecodePanorama(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	p.Source = path
	return p, nil
}

// DecodePanorama decodes r according to ext (".hdr", ".png", ".jpg", ".bmp").
func DecodePanorama(r io.Reader, ext string) (*Panorama, error) {
	switch strings.ToLower(ext) {
	case ".hdr", ".pic":
		img, err := rgbe.Decode(r)
		if err != nil {
			return nil, err
		}
		return fromImage(img, true), nil
	case ".png", ".jpg", ".jpeg":
		img, _, err := image.Decode(r)
		if err != nil {
			return nil, err
		}
		return fromImage(img, false), nil
	case ".bmp":
		img, err := bmp.Decode(r)
		if err != nil {
			return nil, err
		}
		return fromImage(img, false), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func fromImage(img image.Image, isHDR bool) *Panorama {
	b := img.Bounds()
	p := &Panorama{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]float32, 0, b.Dx()*b.Dy()*3),
		HDR:    isHDR,
	}

	hdrImg, hasHDR := img.(hdr.Image)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if hasHDR {
				r, g, bl, _ := hdrImg.HDRAt(x, y).HDRRGBA()
				p.Pix = append(p.Pix, float32(r), float32(g), float32(bl))
				continue
			}
			r, g, bl, _ := img.At(x, y).RGBA()
			p.Pix = append(p.Pix,
				srgbToLinear(float32(r)/0xffff),
				srgbToLinear(float32(g)/0xffff),
				srgbToLinear(float32(bl)/0xffff),
			)
		}
	}
	return p
}

// At returns the texel at (x, y), clamped to the image.
func (p *Panorama) At(x, y int) mgl32.Vec3 {
	x = clampInt(x, 0, p.Width-1)
	y = clampInt(y, 0, p.Height-1)
	i := (y*p.Width + x) * 3
	return mgl32.Vec3{p.Pix[i], p.Pix[i+1], p.Pix[i+2]}
}

// Average returns the mean radiance, weighted by solid angle per row. The
// result is computed once and cached.
func (p *Panorama) Average() mgl32.Vec3 {
	if p.average != nil {
		return *p.average
	}
	var avg mgl32.Vec3
	var sum [3]float64
	var weight float64
	for y := 0; y < p.Height; y++ {
		lat := (float64(y)+0.5)/float64(p.Height)*math.Pi - math.Pi/2
		w := math.Cos(lat)
		for x := 0; x < p.Width; x++ {
			c := p.At(x, y)
			sum[0] += float64(c[0]) * w
			sum[1] += float64(c[1]) * w
			sum[2] += float64(c[2]) * w
		}
		weight += w * float64(p.Width)
	}
	if weight > 0 {
		avg = mgl32.Vec3{float32(sum[0] / weight), float32(sum[1] / weight), float32(sum[2] / weight)}
	}
	p.average = &avg
	return avg
}

func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow((float64(c)+0.055)/1.055, 2.4))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
