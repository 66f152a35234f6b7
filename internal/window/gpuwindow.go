// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package window

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hellotriangle"
)

// GPUWindow is a gogpu application window with a GPU surface.
//
// gogpu owns the event loop: Run blocks and invokes the frame callback from
// its draw handler, after which gogpu presents the surface and pumps events.
// Swap and PollEvents therefore only do bookkeeping. The close flag is the
// only state shared with other goroutines.
type GPUWindow struct {
	app   *gogpu.App
	clock Clock

	closing atomic.Bool

	width, height int
	view          hal.TextureView
	swaps         uint64
	backend       string
}

// NewGPUWindow creates the application window. Nothing is shown until Run.
func NewGPUWindow(width, height int, title string) (*GPUWindow, error) {
	if width <= 0 || height <= 0 {
		return nil, &InitError{Op: "create window"}
	}
	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(title).
		WithSize(width, height).
		WithContinuousRender(true))
	if app == nil {
		return nil, &InitError{Op: "create window"}
	}

	w := &GPUWindow{app: app, clock: NewClock(), width: width, height: height}
	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if key == gpucontext.KeyEscape {
			w.closing.Store(true)
		}
	})
	return w, nil
}

// Run shows the window and blocks until it closes. onFrame is called once
// per drawn frame with the surface of that frame current; onClose runs while
// the GPU device is still alive. The first onFrame error stops the window
// and is returned.
func (w *GPUWindow) Run(onFrame func() error, onClose func()) error {
	var frameErr error

	w.app.OnDraw(func(dc *gogpu.Context) {
		if frameErr != nil || w.closing.Load() {
			w.app.Quit()
			return
		}
		if w.backend == "" {
			w.backend = fmt.Sprint(dc.Backend())
			hellotriangle.Logger().Info("window surface ready", "backend", w.backend)
		}
		w.width, w.height = dc.Width(), dc.Height()
		if sv := dc.SurfaceView(); sv != nil {
			w.view = sv.HalTextureView()
		} else {
			w.view = nil
		}

		if err := onFrame(); err != nil {
			frameErr = err
			w.closing.Store(true)
		}
		if w.closing.Load() {
			w.app.Quit()
		}
	})
	w.app.OnClose(func() {
		w.closing.Store(true)
		if onClose != nil {
			onClose()
		}
	})

	if err := w.app.Run(); err != nil {
		return &InitError{Op: "run", Err: err}
	}
	return frameErr
}

// Provider returns the GPU device provider, or nil before the device exists.
func (w *GPUWindow) Provider() gpucontext.DeviceProvider {
	return w.app.GPUContextProvider()
}

// SurfaceView returns the HAL view of the surface texture for the frame
// being drawn, or nil outside a frame.
func (w *GPUWindow) SurfaceView() hal.TextureView { return w.view }

// ShouldClose reports whether the window was asked to close.
func (w *GPUWindow) ShouldClose() bool { return w.closing.Load() }

// FramebufferSize returns the surface size of the current frame.
func (w *GPUWindow) FramebufferSize() (int, int) { return w.width, w.height }

// Elapsed returns seconds since the window was created.
func (w *GPUWindow) Elapsed() float64 { return w.clock.Elapsed() }

// Swap records the frame; gogpu presents after the draw callback returns.
func (w *GPUWindow) Swap() error {
	w.swaps++
	w.view = nil
	return nil
}

// PollEvents forwards a pending close request to gogpu; event pumping
// itself happens in gogpu's loop.
func (w *GPUWindow) PollEvents() {
	if w.closing.Load() {
		w.app.Quit()
	}
}

// Destroy requests the window to close.
func (w *GPUWindow) Destroy() {
	if !w.closing.Swap(true) {
		w.app.Quit()
	}
}

// RequestClose asks the window to close at the next frame. Safe to call
// from any goroutine.
func (w *GPUWindow) RequestClose() { w.closing.Store(true) }
