package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

var (
	iconIdle []byte
	iconRec  []byte
)

func init() {
	gray := color.RGBA{R: 190, G: 190, B: 190, A: 255}
	red := color.RGBA{R: 255, G: 59, B: 48, A: 255}
	iconIdle = renderDot(22, gray)
	iconRec = renderDot(22, red)
}

// renderDot draws a filled antialiased circle on a transparent square.
func renderDot(size int, c color.RGBA) []byte {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cx := float64(size) / 2
	cy := float64(size) / 2
	r := float64(size) / 3

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			switch {
			case d <= r:
				img.SetRGBA(x, y, c)
			case d <= r+1:
				edge := c
				edge.A = uint8(float64(c.A) * (r + 1 - d))
				img.SetRGBA(x, y, edge)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
