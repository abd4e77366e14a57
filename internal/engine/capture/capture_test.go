package capture

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
}

func TestFilename(t *testing.T) {
	c := New("shots", "deskview")
	c.now = fixedClock
	want := filepath.Join("shots", "deskview_2024-03-01_12-30-45.000.png")
	if got := c.Filename(); got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}

	c = New("", "frame")
	c.now = fixedClock
	if got := c.Filename(); strings.Contains(got, string(filepath.Separator)) {
		t.Errorf("Filename() without dir = %q, want a bare name", got)
	}
}

func TestSaveFramebufferFlips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	c := New(dir, "frame")
	c.now = fixedClock

	// Two rows, bottom row red, top row blue, as OpenGL returns them.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}
	path, err := c.SaveFramebuffer(pixels, 2, 2)
	if err != nil {
		t.Fatalf("SaveFramebuffer: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("written to %q, want inside %q", path, dir)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	top := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	bottom := color.RGBAModel.Convert(img.At(1, 1)).(color.RGBA)
	if top.B != 255 || top.R != 0 {
		t.Errorf("top row = %+v, want blue", top)
	}
	if bottom.R != 255 || bottom.B != 0 {
		t.Errorf("bottom row = %+v, want red", bottom)
	}
}

func TestSaveFramebufferErrors(t *testing.T) {
	c := New(t.TempDir(), "frame")
	if _, err := c.SaveFramebuffer(make([]byte, 3), 1, 1); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := c.SaveFramebuffer(nil, 0, 0); err == nil {
		t.Error("expected invalid size error")
	}
}
