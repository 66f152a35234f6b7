// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package app wires configuration, shaders, the window provider, the
// renderer and the frame loop into one run.
package app

import (
	"context"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/internal/frameloop"
	"github.com/gogpu/hellotriangle/internal/geometry"
	"github.com/gogpu/hellotriangle/internal/gpu"
	"github.com/gogpu/hellotriangle/internal/shader"
	"github.com/gogpu/hellotriangle/internal/softraster"
	"github.com/gogpu/hellotriangle/internal/window"
)

// Run validates cfg, compiles the shaders and runs the frame loop until the
// window closes, ctx is cancelled or a frame fails. Shader errors are
// reported before any window is created.
func Run(ctx context.Context, cfg hellotriangle.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	dumpVertices()

	prog, err := shader.Load()
	if err != nil {
		return err
	}

	if cfg.Headless {
		return runHeadless(ctx, cfg)
	}
	return runWindow(ctx, cfg, prog)
}

func dumpVertices() {
	log := hellotriangle.Logger()
	for i, v := range geometry.Triangle() {
		log.Info(v.String(), "index", i)
	}
}

// runHeadless rasterizes frames in software and optionally writes the last
// one to a PNG file.
func runHeadless(ctx context.Context, cfg hellotriangle.Config) error {
	win, err := window.NewHeadless(cfg.Width, cfg.Height, cfg.Frames, cfg.Start, cfg.Step)
	if err != nil {
		return err
	}
	rast := softraster.New(cfg.Supersample, cfg.ClearColor)

	loop := frameloop.New(win, frameloop.DrawerFunc(func(f frameloop.Frame) error {
		return rast.Draw(f.Width, f.Height, f.MVP)
	}))
	loop.OnClose(rast.Close)
	defer loop.Close()

	hellotriangle.Logger().Info("headless run",
		"w", cfg.Width, "h", cfg.Height,
		"frames", cfg.Frames,
		"supersample", cfg.Supersample)

	if err := loop.Run(ctx); err != nil {
		return err
	}

	if cfg.Output == "" {
		return nil
	}
	frame := rast.Frame()
	if frame == nil {
		hellotriangle.Logger().Warn("no frame rendered, skipping output", "path", cfg.Output)
		return nil
	}
	if err := frame.SavePNG(cfg.Output); err != nil {
		return fmt.Errorf("app: save frame: %w", err)
	}
	hellotriangle.Logger().Info("frame written", "path", cfg.Output, "frames", loop.Frames())
	return nil
}

// runWindow opens the gogpu window and draws through the HAL renderer.
func runWindow(ctx context.Context, cfg hellotriangle.Config, prog *shader.Program) error {
	win, err := window.NewGPUWindow(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}

	d := &gpuDrawer{win: win, prog: prog, clear: cfg.ClearColor}
	loop := frameloop.New(win, d)
	d.loop = loop
	defer loop.Close()

	stop := context.AfterFunc(ctx, win.RequestClose)
	defer stop()

	return win.Run(loop.Step, loop.Close)
}

// surface is the part of the window the GPU drawer needs: a device provider
// and the view of the frame being drawn.
type surface interface {
	Provider() gpucontext.DeviceProvider
	SurfaceView() hal.TextureView
}

// gpuDrawer creates the renderer on the first frame, once gogpu has a
// device, and draws into the surface view of each frame.
type gpuDrawer struct {
	win   surface
	prog  *shader.Program
	clear [4]float64
	loop  *frameloop.Loop

	renderer *gpu.Renderer
}

func (d *gpuDrawer) Draw(f frameloop.Frame) error {
	if d.renderer == nil {
		if err := d.init(); err != nil {
			return err
		}
	}
	view := d.win.SurfaceView()
	if view == nil {
		hellotriangle.Logger().Debug("no surface view, frame dropped", "n", f.Index)
		return nil
	}
	return d.renderer.Draw(view, f.Width, f.Height, f.MVP)
}

func (d *gpuDrawer) init() error {
	provider := d.win.Provider()
	target, err := gpu.DeviceFromProvider(provider)
	if err != nil {
		return &window.InitError{Op: "gpu device", Err: err}
	}
	info := provider.AdapterInfo()
	hellotriangle.Logger().Info("gpu adapter",
		"name", info.Name,
		"type", info.Type.String(),
		"format", target.Format.String())

	r, err := gpu.NewRenderer(target, d.prog, d.clear)
	if err != nil {
		return &window.InitError{Op: "render pipeline", Err: err}
	}
	d.renderer = r
	d.loop.OnClose(r.Destroy)
	return nil
}
