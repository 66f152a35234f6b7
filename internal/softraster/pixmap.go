// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package softraster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// RGBA is a color with components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Black is opaque black.
var Black = RGBA{0, 0, 0, 1}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Pixmap represents a rectangular pixel buffer.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixmap creates a new pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 { return p.data }

// SetPixel sets the color of a single pixel. Out-of-range writes are ignored.
func (p *Pixmap) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = uint8(clamp255(c.R*255 + 0.5))
	p.data[i+1] = uint8(clamp255(c.G*255 + 0.5))
	p.data[i+2] = uint8(clamp255(c.B*255 + 0.5))
	p.data[i+3] = uint8(clamp255(c.A*255 + 0.5))
}

// GetPixel returns the color of a single pixel, or transparent black when
// out of range.
func (p *Pixmap) GetPixel(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return RGBA{}
	}
	i := (y*p.width + x) * 4
	return RGBA{
		R: float64(p.data[i+0]) / 255,
		G: float64(p.data[i+1]) / 255,
		B: float64(p.data[i+2]) / 255,
		A: float64(p.data[i+3]) / 255,
	}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c RGBA) {
	if len(p.data) == 0 {
		return
	}
	p.SetPixel(0, 0, c)
	for i := 4; i < len(p.data); i *= 2 {
		copy(p.data[i:], p.data[:i])
	}
}

// ToImage converts the pixmap to an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// Downscale resamples p to width x height with a bilinear kernel, which
// averages over the source footprint when shrinking.
func (p *Pixmap) Downscale(width, height int) *Pixmap {
	if width == p.width && height == p.height {
		out := NewPixmap(width, height)
		copy(out.data, p.data)
		return out
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), p.ToImage(), p.Bounds(), draw.Src, nil)
	return &Pixmap{width: width, height: height, data: dst.Pix}
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("softraster: %w", err)
	}
	if err := png.Encode(f, p.ToImage()); err != nil {
		_ = f.Close()
		return fmt.Errorf("softraster: encode %s: %w", path, err)
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.RGBA{}
	}
	i := (y*p.width + x) * 4
	return color.RGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}
