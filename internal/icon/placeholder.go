package icon

import (
	"crypto/sha256"
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder draws a round, deterministically colored icon with the
// initials of label. Used when the descriptor names a theme icon and the
// toolkit needs pixels.
func Placeholder(label string, size int) []byte {
	if size <= 0 {
		size = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	bg := deterministicColor(label)
	c := float64(size) / 2
	r2 := c * c
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			if dx*dx+dy*dy <= r2 {
				img.SetRGBA(x, y, bg)
			}
		}
	}

	// basicfont glyphs are 7×13; render small and scale up.
	initials := extractInitials(label)
	face := basicfont.Face7x13
	text := image.NewRGBA(image.Rect(0, 0, 7*len(initials)+2, 15))
	d := font.Drawer{
		Dst:  text,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(1, 12),
	}
	d.DrawString(initials)

	tb := text.Bounds()
	tw := size / 2
	th := tw * tb.Dy() / tb.Dx()
	off := image.Pt((size-tw)/2, (size-th)/2)
	draw.ApproxBiLinear.Scale(img, image.Rectangle{Min: off, Max: off.Add(image.Pt(tw, th))}, text, tb, draw.Over, nil)

	out, err := encodePNG(img)
	if err != nil {
		return nil
	}
	return out
}

func extractInitials(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "?"
	}
	parts := strings.Fields(label)
	if len(parts) >= 2 {
		return strings.ToUpper(string([]rune(parts[0])[:1]) + string([]rune(parts[1])[:1]))
	}
	r := []rune(parts[0])
	if len(r) >= 2 {
		return strings.ToUpper(string(r[:2]))
	}
	return strings.ToUpper(string(r[:1]))
}

var palette = []string{
	"#e74c3c", "#e67e22", "#f1c40f", "#2ecc71", "#1abc9c",
	"#3498db", "#9b59b6", "#e91e63", "#00bcd4", "#ff5722",
	"#607d8b", "#795548", "#8bc34a", "#673ab7",
}

func deterministicColor(s string) color.RGBA {
	h := sha256.Sum256([]byte(s))
	return parseHex(palette[int(h[0])%len(palette)])
}

func parseHex(s string) color.RGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
