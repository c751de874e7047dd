// Package snapshot 把屏幕截图保存为 WebP
package snapshot

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// Saver 截图保存器
type Saver struct {
	dir      string
	maxWidth int // 大于 0 时，超过此宽度的截图会等比缩小
	now      func() time.Time
}

// NewSaver 创建截图保存器
func NewSaver(dir string, maxWidth int) *Saver {
	return &Saver{dir: dir, maxWidth: maxWidth, now: time.Now}
}

// Save 保存截图，返回文件路径
func (s *Saver) Save(img image.Image) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("configurator-%s.webp", s.now().Format("20060102-150405.000"))
	outPath := filepath.Join(s.dir, name)

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, Downscale(img, s.maxWidth), nil); err != nil {
		return "", fmt.Errorf("WebP encode: %w", err)
	}
	return outPath, nil
}

// Downscale 宽度超过 maxWidth 时等比缩小，否则原样返回
func Downscale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	newW := maxWidth
	newH := int(float64(b.Dy())*float64(maxWidth)/float64(b.Dx()) + 0.5)
	if newH < 1 {
		newH = 1
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
	return scaled
}
