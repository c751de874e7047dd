package snapshot

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	return img
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{"不限制", 200, 100, 0, 200, 100},
		{"未超出", 200, 100, 300, 200, 100},
		{"等比缩小", 200, 100, 50, 50, 25},
		{"极扁图像至少一行", 400, 1, 100, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Downscale(testImage(tt.w, tt.h), tt.max)
			b := out.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("Downscale size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestSaverSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := NewSaver(dir, 64)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	path, err := s.Save(testImage(128, 64))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if filepath.Base(path) != "configurator-20240501-123000.000.webp" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
		t.Errorf("output is not a WebP container")
	}
}
