// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package geometry holds the triangle's vertex data and its interleaved byte
// layout.
//
// The layout is five little-endian float32 values per vertex with no padding:
//
//	[px, py, r, g, b] [px, py, r, g, b] [px, py, r, g, b]
//
// Layout returns the matching pipeline vertex buffer description, so the bytes
// produced by Pack and the layout the GPU reads always agree.
package geometry

import (
	"encoding/binary"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"golang.org/x/mobile/exp/f32"
)

// Layout constants for one interleaved vertex.
const (
	// FloatsPerVertex is the number of float32 values per vertex.
	FloatsPerVertex = 5

	// Stride is the byte distance between consecutive vertices.
	Stride = FloatsPerVertex * 4

	// PositionOffset is the byte offset of the position within a vertex.
	PositionOffset = 0

	// ColorOffset is the byte offset of the colour within a vertex.
	ColorOffset = 2 * 4

	// Count is the number of vertices drawn.
	Count = 3
)

// Shader input locations of the vertex attributes.
const (
	PositionLocation = 0
	ColorLocation    = 1
)

// Vertex is a 2D position with an RGB colour.
type Vertex struct {
	Position mgl32.Vec2
	Color    mgl32.Vec3
}

// String formats the vertex as it is dumped at startup.
func (v Vertex) String() string {
	return fmt.Sprintf("vertex.position: vec2(%g, %g), vertex.color: vec3(%g, %g, %g)",
		v.Position[0], v.Position[1], v.Color[0], v.Color[1], v.Color[2])
}

// Triangle returns the three vertices: red bottom-left, green bottom-right
// and blue top.
func Triangle() [Count]Vertex {
	return [Count]Vertex{
		{Position: mgl32.Vec2{-0.6, -0.4}, Color: mgl32.Vec3{1, 0, 0}},
		{Position: mgl32.Vec2{0.6, -0.4}, Color: mgl32.Vec3{0, 1, 0}},
		{Position: mgl32.Vec2{0, 0.6}, Color: mgl32.Vec3{0, 0, 1}},
	}
}

// Floats flattens vertices into the interleaved float sequence.
func Floats(vertices []Vertex) []float32 {
	out := make([]float32, 0, len(vertices)*FloatsPerVertex)
	for _, v := range vertices {
		out = append(out, v.Position[0], v.Position[1], v.Color[0], v.Color[1], v.Color[2])
	}
	return out
}

// Pack encodes vertices as little-endian interleaved bytes, Stride bytes each.
func Pack(vertices []Vertex) []byte {
	return f32.Bytes(binary.LittleEndian, Floats(vertices)...)
}

// Layout describes the bytes produced by Pack to the render pipeline.
func Layout() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: Stride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: PositionOffset, ShaderLocation: PositionLocation},
			{Format: gputypes.VertexFormatFloat32x3, Offset: ColorOffset, ShaderLocation: ColorLocation},
		},
	}
}
