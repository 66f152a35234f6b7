// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package softraster draws the triangle on the CPU.
//
// It runs the same vertex transform as the GPU path (clip = MVP * position),
// maps to a top-left-origin framebuffer and fills the triangle with
// barycentric interpolation of the vertex colours. Rendering happens at
// Supersample times the target size per axis and is resampled down with
// x/image/draw, so edges come out anti-aliased without a GPU.
package softraster

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/internal/geometry"
)

// ErrEmptyTarget is returned when asked to draw into a zero-area target.
var ErrEmptyTarget = errors.New("softraster: empty target")

// Rasterizer renders frames of the triangle into a Pixmap.
type Rasterizer struct {
	supersample int
	clear       RGBA
	vertices    [geometry.Count]geometry.Vertex

	pool    *bandPool
	samples *Pixmap
	frame   *Pixmap
	frames  uint64
}

// minBandRows keeps bands large enough that scheduling stays cheaper than
// shading.
const minBandRows = 32

// New creates a Rasterizer. Supersample below 1 is treated as 1.
func New(supersample int, clear [4]float64) *Rasterizer {
	if supersample < 1 {
		supersample = 1
	}
	return &Rasterizer{
		supersample: supersample,
		clear:       RGBA{R: clear[0], G: clear[1], B: clear[2], A: clear[3]},
		vertices:    geometry.Triangle(),
		pool:        newBandPool(0),
	}
}

// Close stops the fill workers. Draw keeps working afterwards on the
// calling goroutine.
func (r *Rasterizer) Close() { r.pool.close() }

// Draw renders one frame at width x height with the given transform.
func (r *Rasterizer) Draw(width, height int, mvp mgl32.Mat4) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyTarget, width, height)
	}
	sw, sh := width*r.supersample, height*r.supersample
	if r.samples == nil || r.samples.Width() != sw || r.samples.Height() != sh {
		r.samples = NewPixmap(sw, sh)
	}
	r.samples.Clear(r.clear)

	var pts [geometry.Count]screenVertex
	for i, v := range r.vertices {
		clip := mvp.Mul4x1(mgl32.Vec4{v.Position[0], v.Position[1], 0, 1})
		if clip[3] == 0 {
			return nil
		}
		ndcX, ndcY := clip[0]/clip[3], clip[1]/clip[3]
		pts[i] = screenVertex{
			x:     float64(ndcX+1) * 0.5 * float64(sw),
			y:     float64(1-ndcY) * 0.5 * float64(sh),
			color: v.Color,
		}
	}
	r.fill(pts)

	r.frame = r.samples.Downscale(width, height)
	r.frames++
	hellotriangle.Logger().Debug("softraster frame", "n", r.frames, "w", width, "h", height)
	return nil
}

// Frame returns the last rendered frame, or nil before the first Draw.
func (r *Rasterizer) Frame() *Pixmap { return r.frame }

// Frames returns the number of frames drawn.
func (r *Rasterizer) Frames() uint64 { return r.frames }

type screenVertex struct {
	x, y  float64
	color mgl32.Vec3
}

// edge is twice the signed area of (a, b, px, py).
func edge(a, b screenVertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// fill splits the triangle's bounding rows into bands and shades them on
// the pool. Bands write disjoint rows of the sample buffer.
func (r *Rasterizer) fill(v [geometry.Count]screenVertex) {
	minY := max(0, int(math.Floor(min(v[0].y, v[1].y, v[2].y))))
	maxY := min(r.samples.Height()-1, int(math.Ceil(max(v[0].y, v[1].y, v[2].y))))
	rows := maxY - minY + 1
	if rows <= 0 {
		return
	}

	bands := min(r.pool.workers, max(1, rows/minBandRows))
	if bands == 1 {
		fillTriangle(r.samples, v, minY, maxY)
		return
	}
	per := (rows + bands - 1) / bands
	jobs := make([]func(), 0, bands)
	for y0 := minY; y0 <= maxY; y0 += per {
		y1 := min(maxY, y0+per-1)
		jobs = append(jobs, func() { fillTriangle(r.samples, v, y0, y1) })
	}
	r.pool.run(jobs)
}

// fillTriangle shades every pixel whose center lies inside the triangle,
// regardless of winding, with barycentric colour interpolation. Only rows
// fromY..toY are touched.
func fillTriangle(pm *Pixmap, v [geometry.Count]screenVertex, fromY, toY int) {
	area := edge(v[0], v[1], v[2].x, v[2].y)
	if area == 0 {
		return
	}

	minX := max(0, int(math.Floor(min(v[0].x, v[1].x, v[2].x))))
	maxX := min(pm.Width()-1, int(math.Ceil(max(v[0].x, v[1].x, v[2].x))))
	minY := max(0, fromY)
	maxY := min(pm.Height()-1, toY)

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(v[1], v[2], px, py) / area
			w1 := edge(v[2], v[0], px, py) / area
			w2 := edge(v[0], v[1], px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			c := v[0].color.Mul(float32(w0)).
				Add(v[1].color.Mul(float32(w1))).
				Add(v[2].color.Mul(float32(w2)))
			pm.SetPixel(x, y, RGBA{R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: 1})
		}
	}
}
