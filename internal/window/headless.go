// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package window

import (
	"errors"
	"fmt"
)

// Headless is an off-screen provider. It reports a fixed framebuffer size,
// closes itself after a set number of frames and advances time by a fixed
// step per frame, so frame n sees Start + n*Step seconds.
type Headless struct {
	width, height int
	frames        int
	start, step   float64

	n         int
	requested bool
	destroyed bool
}

// NewHeadless creates a headless provider.
func NewHeadless(width, height, frames int, start, step float64) (*Headless, error) {
	switch {
	case width <= 0 || height <= 0:
		return nil, &InitError{Op: "headless", Err: fmt.Errorf("invalid size %dx%d", width, height)}
	case frames < 0:
		return nil, &InitError{Op: "headless", Err: fmt.Errorf("negative frame count %d", frames)}
	case step < 0:
		return nil, &InitError{Op: "headless", Err: errors.New("negative time step")}
	}
	return &Headless{width: width, height: height, frames: frames, start: start, step: step}, nil
}

// ShouldClose reports true once the frame budget is spent or a close was
// requested.
func (h *Headless) ShouldClose() bool {
	return h.requested || h.destroyed || h.n >= h.frames
}

// FramebufferSize returns the configured size.
func (h *Headless) FramebufferSize() (int, int) { return h.width, h.height }

// Elapsed returns Start + n*Step for the current frame n.
func (h *Headless) Elapsed() float64 { return h.start + float64(h.n)*h.step }

// Swap completes the current frame.
func (h *Headless) Swap() error {
	if h.destroyed {
		return errors.New("window: swap on destroyed headless provider")
	}
	h.n++
	return nil
}

// PollEvents is a no-op; a headless provider has no event queue.
func (h *Headless) PollEvents() {}

// Destroy marks the provider closed.
func (h *Headless) Destroy() { h.destroyed = true }

// RequestClose asks the loop to stop after the current frame.
func (h *Headless) RequestClose() { h.requested = true }

// Resize changes the reported framebuffer size. A zero dimension simulates
// a minimized window.
func (h *Headless) Resize(width, height int) {
	h.width, h.height = width, height
}

// Frame returns the number of frames swapped.
func (h *Headless) Frame() int { return h.n }
