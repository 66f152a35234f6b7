// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/internal/geometry"
	"github.com/gogpu/hellotriangle/internal/shader"
	"github.com/gogpu/hellotriangle/internal/transform"
)

// ErrRendererDestroyed is returned by Draw after Destroy.
var ErrRendererDestroyed = errors.New("gpu: renderer destroyed")

// ErrNilTarget is returned by Draw when no target view is available.
var ErrNilTarget = errors.New("gpu: nil target view")

// Renderer draws the triangle into a caller-provided texture view.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
	clear  gputypes.Color

	vertexBuf  hal.Buffer
	uniformBuf hal.Buffer

	vsModule    hal.ShaderModule
	fsModule    hal.ShaderModule
	bindLayout  hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	pipeline    hal.RenderPipeline
	bindGroup   hal.BindGroup
	vsEntry     string
	fsEntry     string
	mvpBinding  uint32
	lastSubmit  uint64
	frameCount  uint64
	isDestroyed bool
}

// NewRenderer uploads the triangle and builds the render pipeline for prog.
// On failure every object created so far is released.
func NewRenderer(target Target, prog *shader.Program, clear [4]float64) (*Renderer, error) {
	if target.Device == nil || target.Queue == nil {
		return nil, fmt.Errorf("gpu: renderer needs a device and a queue")
	}
	if prog == nil {
		return nil, fmt.Errorf("gpu: renderer needs a linked program")
	}
	format := target.Format
	if format == gputypes.TextureFormatUndefined {
		format = DefaultFormat
	}

	r := &Renderer{
		device:     target.Device,
		queue:      target.Queue,
		format:     format,
		clear:      gputypes.Color{R: clear[0], G: clear[1], B: clear[2], A: clear[3]},
		vsEntry:    prog.Vertex.EntryPoint(),
		fsEntry:    prog.Fragment.EntryPoint(),
		mvpBinding: prog.Bindings.MVP.Binding,
	}

	steps := []func() error{
		r.uploadVertices,
		r.createUniformBuffer,
		func() error { return r.createPipeline(prog) },
		r.createBindGroup,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			r.Destroy()
			return nil, err
		}
	}

	hellotriangle.Logger().Info("gpu renderer ready",
		"format", r.format.String(),
		"vertices", geometry.Count,
		"stride", geometry.Stride)
	return r, nil
}

// Format returns the color target format of the pipeline.
func (r *Renderer) Format() gputypes.TextureFormat { return r.format }

// Frames returns the number of frames submitted.
func (r *Renderer) Frames() uint64 { return r.frameCount }

// Draw writes mvp to the uniform buffer, clears view and draws the triangle
// with a viewport covering width x height.
func (r *Renderer) Draw(view hal.TextureView, width, height int, mvp mgl32.Mat4) error {
	if r.isDestroyed {
		return ErrRendererDestroyed
	}
	if view == nil {
		return ErrNilTarget
	}

	if err := r.queue.WriteBuffer(r.uniformBuf, 0, transform.Bytes(mvp)); err != nil {
		return fmt.Errorf("gpu: write mvp: %w", err)
	}

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "triangle_encoder",
	})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("triangle_frame"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "triangle_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.clear,
		}},
	})
	rp.SetViewport(0, 0, float32(width), float32(height), 0, 1)
	rp.SetPipeline(r.pipeline)
	rp.SetBindGroup(0, r.bindGroup, nil)
	rp.SetVertexBuffer(0, r.vertexBuf, 0)
	rp.Draw(geometry.Count, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	idx, err := r.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	r.lastSubmit = idx
	r.frameCount++
	return nil
}

// Destroy waits for submitted work and releases all GPU objects in reverse
// creation order. Safe to call more than once.
func (r *Renderer) Destroy() {
	if r.isDestroyed {
		return
	}
	r.isDestroyed = true

	if r.lastSubmit > 0 && r.queue.PollCompleted() < r.lastSubmit {
		if err := r.device.WaitIdle(); err != nil {
			hellotriangle.Logger().Warn("gpu: wait idle before release", "err", err)
		}
	}

	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.fsModule != nil {
		r.device.DestroyShaderModule(r.fsModule)
		r.fsModule = nil
	}
	if r.vsModule != nil {
		r.device.DestroyShaderModule(r.vsModule)
		r.vsModule = nil
	}
	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.vertexBuf != nil {
		r.device.DestroyBuffer(r.vertexBuf)
		r.vertexBuf = nil
	}
	hellotriangle.Logger().Debug("gpu renderer released", "frames", r.frameCount)
}

// uploadVertices creates the vertex buffer and writes the triangle once.
func (r *Renderer) uploadVertices() error {
	tri := geometry.Triangle()
	data := geometry.Pack(tri[:])

	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "triangle_vertices",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create vertex buffer: %w", err)
	}
	r.vertexBuf = buf

	if err := r.queue.WriteBuffer(buf, 0, data); err != nil {
		return fmt.Errorf("gpu: upload vertices: %w", err)
	}
	return nil
}

func (r *Renderer) createUniformBuffer() error {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "triangle_mvp",
		Size:  transform.MatrixSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create uniform buffer: %w", err)
	}
	r.uniformBuf = buf
	return nil
}

// createPipeline creates the shader modules, layouts and render pipeline.
func (r *Renderer) createPipeline(prog *shader.Program) error {
	vs, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "triangle_vs",
		Source: hal.ShaderSource{WGSL: prog.Vertex.Source},
	})
	if err != nil {
		return fmt.Errorf("gpu: create vertex shader: %w", err)
	}
	r.vsModule = vs

	fs, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "triangle_fs",
		Source: hal.ShaderSource{WGSL: prog.Fragment.Source},
	})
	if err != nil {
		return fmt.Errorf("gpu: create fragment shader: %w", err)
	}
	r.fsModule = fs

	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "triangle_mvp_layout",
		Entries: []gputypes.BindGroupLayoutEntry{{
			Binding:    r.mvpBinding,
			Visibility: gputypes.ShaderStageVertex,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		}},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "triangle_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "triangle_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.vsModule,
			EntryPoint: r.vsEntry,
			Buffers:    []gputypes.VertexBufferLayout{geometry.Layout()},
		},
		Fragment: &hal.FragmentState{
			Module:     r.fsModule,
			EntryPoint: r.fsEntry,
			Targets: []gputypes.ColorTargetState{{
				Format:    r.format,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create render pipeline: %w", err)
	}
	r.pipeline = pipeline
	return nil
}

func (r *Renderer) createBindGroup() error {
	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "triangle_mvp_bind",
		Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{{
			Binding: r.mvpBinding,
			Resource: gputypes.BufferBinding{
				Buffer: r.uniformBuf.NativeHandle(),
				Offset: 0,
				Size:   transform.MatrixSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group: %w", err)
	}
	r.bindGroup = bg
	return nil
}
