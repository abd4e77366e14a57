package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"strings"

	"golang.org/x/image/bmp"
)

// DecodeImage decodes an encoded material texture into RGBA pixels.
// mimeType may be empty, in which case the format is sniffed.
func DecodeImage(data []byte, mimeType string) (*image.RGBA, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(mimeType) {
	case "image/bmp":
		img, err = bmp.Decode(bytes.NewReader(data))
	case "", "image/png", "image/jpeg":
		img, _, err = image.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, mimeType)
	}
	if err != nil {
		return nil, err
	}
	return ToRGBA(img), nil
}

// ToRGBA returns img as *image.RGBA with origin (0, 0), converting if needed.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
