// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geometry

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestTriangle(t *testing.T) {
	tri := Triangle()
	want := [Count][FloatsPerVertex]float32{
		{-0.6, -0.4, 1, 0, 0},
		{0.6, -0.4, 0, 1, 0},
		{0, 0.6, 0, 0, 1},
	}
	for i, v := range tri {
		got := [FloatsPerVertex]float32{v.Position[0], v.Position[1], v.Color[0], v.Color[1], v.Color[2]}
		if got != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, got, want[i])
		}
	}
}

func TestPack(t *testing.T) {
	tri := Triangle()
	data := Pack(tri[:])

	if len(data) != Count*Stride {
		t.Fatalf("len(Pack) = %d, want %d", len(data), Count*Stride)
	}
	if Stride != 20 {
		t.Errorf("Stride = %d, want 20", Stride)
	}

	floats := Floats(tri[:])
	if len(floats) != Count*FloatsPerVertex {
		t.Fatalf("len(Floats) = %d, want %d", len(floats), Count*FloatsPerVertex)
	}
	for i, f := range floats {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		if got := math.Float32frombits(bits); got != f {
			t.Errorf("float %d = %v, want %v", i, got, f)
		}
	}

	// Spot-check the interleaving: colour of vertex 1 starts at Stride+ColorOffset.
	green := math.Float32frombits(binary.LittleEndian.Uint32(data[Stride+ColorOffset+4:]))
	if green != 1 {
		t.Errorf("vertex 1 green = %v, want 1", green)
	}
}

func TestPackEmpty(t *testing.T) {
	if got := Pack(nil); len(got) != 0 {
		t.Errorf("Pack(nil) = %v, want empty", got)
	}
}

// The pipeline layout must describe exactly the bytes Pack produces.
func TestLayoutMatchesPack(t *testing.T) {
	l := Layout()
	if l.ArrayStride != Stride {
		t.Errorf("ArrayStride = %d, want %d", l.ArrayStride, Stride)
	}
	if l.StepMode != gputypes.VertexStepModeVertex {
		t.Errorf("StepMode = %v, want Vertex", l.StepMode)
	}
	if len(l.Attributes) != 2 {
		t.Fatalf("len(Attributes) = %d, want 2", len(l.Attributes))
	}

	var covered uint64
	for _, a := range l.Attributes {
		covered += a.Format.Size()
	}
	if covered != Stride {
		t.Errorf("attributes cover %d bytes, stride is %d (padding or overlap)", covered, Stride)
	}

	tests := []struct {
		name     string
		attr     gputypes.VertexAttribute
		location uint32
		offset   uint64
		format   gputypes.VertexFormat
	}{
		{"position", l.Attributes[0], PositionLocation, PositionOffset, gputypes.VertexFormatFloat32x2},
		{"color", l.Attributes[1], ColorLocation, ColorOffset, gputypes.VertexFormatFloat32x3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.ShaderLocation != tt.location {
				t.Errorf("location = %d, want %d", tt.attr.ShaderLocation, tt.location)
			}
			if tt.attr.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", tt.attr.Offset, tt.offset)
			}
			if tt.attr.Format != tt.format {
				t.Errorf("format = %v, want %v", tt.attr.Format, tt.format)
			}
		})
	}
}

func TestVertexString(t *testing.T) {
	v := Triangle()[0]
	want := "vertex.position: vec2(-0.6, -0.4), vertex.color: vec3(1, 0, 0)"
	if got := v.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
