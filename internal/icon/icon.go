// Package icon turns the descriptor's icon into the PNG bytes the window
// toolkits and the desktop registration need.
package icon

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// fileExts marks a bare name as a file. Only PNG, JPEG, GIF and BMP decode;
// the others are still files and fall back to a placeholder where pixels
// are needed.
var fileExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".svg":  true,
	".ico":  true,
	".icns": true,
}

// IsFile reports whether icon refers to an image file rather than a theme
// icon name such as "applications-internet".
func IsFile(icon string) bool {
	if icon == "" {
		return false
	}
	if strings.ContainsAny(icon, `/\`) {
		return true
	}
	return fileExts[strings.ToLower(filepath.Ext(icon))]
}

// Decode decodes a PNG, JPEG, GIF or BMP image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("icon: decode: %w", err)
	}
	return img, nil
}

// Load reads an image file and returns it re-encoded as PNG.
func Load(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return encodePNG(img)
}

// Export reads an image file and returns a size×size PNG.
func Export(path string, size int) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return exportBytes(raw, size)
}

func exportBytes(raw []byte, size int) ([]byte, error) {
	img, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return encodePNG(Resize(img, size))
}

// Resize scales src into a transparent size×size canvas, keeping the aspect
// ratio and centering the result.
func Resize(src image.Image, size int) *image.RGBA {
	if size < 0 {
		size = 0
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || size == 0 {
		return dst
	}

	dw, dh := size, size
	switch {
	case w > h:
		dh = max(1, h*size/w)
	case h > w:
		dw = max(1, w*size/h)
	}
	off := image.Pt((size-dw)/2, (size-dh)/2)
	draw.CatmullRom.Scale(dst, image.Rectangle{Min: off, Max: off.Add(image.Pt(dw, dh))}, src, b, draw.Over, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("icon: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// For returns size×size PNG bytes for a descriptor icon. Theme icon names
// get a placeholder drawn from label. When the file cannot be read the
// placeholder is returned together with the error.
func For(ref, label string, size int) ([]byte, error) {
	if !IsFile(ref) {
		return Placeholder(label, size), nil
	}
	data, err := DefaultCache().Export(ref, size)
	if err != nil {
		return Placeholder(label, size), err
	}
	return data, nil
}
