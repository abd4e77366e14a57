// Package capture writes rendered frames to PNG files.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Capture names and writes frame captures into a directory.
type Capture struct {
	dir    string
	prefix string
	now    func() time.Time
}

// New returns a Capture writing <prefix>_<timestamp>.png files into dir.
// An empty dir writes into the working directory.
func New(dir, prefix string) *Capture {
	return &Capture{dir: dir, prefix: prefix, now: time.Now}
}

// Dir returns the output directory.
func (c *Capture) Dir() string {
	return c.dir
}

// Filename returns the path the next capture would be written to.
func (c *Capture) Filename() string {
	name := fmt.Sprintf("%s_%s.png", c.prefix, c.now().Format("2006-01-02_15-04-05.000"))
	if c.dir == "" {
		return name
	}
	return filepath.Join(c.dir, name)
}

// SaveFramebuffer writes bottom-up RGBA rows, as read back from OpenGL, as a
// top-down PNG and returns the written path.
func (c *Capture) SaveFramebuffer(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	return c.Save(flipRows(pixels, width, height))
}

// Save writes img as a PNG and returns the written path.
func (c *Capture) Save(img image.Image) (string, error) {
	if c.dir != "" {
		if err := os.MkdirAll(c.dir, 0755); err != nil {
			return "", fmt.Errorf("creating capture dir: %w", err)
		}
	}

	path := c.Filename()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating capture file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return path, f.Close()
}

func flipRows(pixels []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img
}
