// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package transform composes the per-frame model-view-projection matrix.
//
// All matrices are column-major mgl32.Mat4 values. The model rotation is
// driven by elapsed seconds so the spin rate does not depend on frame rate,
// and the projection keeps unit height while stretching x by the aspect ratio.
package transform

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/mobile/exp/f32"
)

// MatrixSize is the byte size of a packed Mat4 uniform.
const MatrixSize = 16 * 4

// Aspect returns width/height. A zero or negative height yields 1.
func Aspect(width, height int) float32 {
	if height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// Angle reduces elapsed seconds to a rotation angle in [0, 2π).
func Angle(elapsed float64) float32 {
	a := math.Mod(elapsed, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return float32(a)
}

// Rotation rotates about +Z by Angle(elapsed) radians.
func Rotation(elapsed float64) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(Angle(elapsed))
}

// Projection is the orthographic box (-aspect, aspect, -1, 1, -1, 1).
func Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Ortho(-aspect, aspect, -1, 1, -1, 1)
}

// MVP returns Projection x Rotation for a framebuffer of the given size at
// the given elapsed time. Equal inputs give bit-identical results.
func MVP(width, height int, elapsed float64) mgl32.Mat4 {
	return Projection(Aspect(width, height)).Mul4(Rotation(elapsed))
}

// Bytes packs m column by column as little-endian float32, the layout of a
// WGSL mat4x4<f32> uniform.
func Bytes(m mgl32.Mat4) []byte {
	return f32.Bytes(binary.LittleEndian, m[:]...)
}
