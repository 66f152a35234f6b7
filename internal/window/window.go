// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package window provides the window/context providers the frame loop runs
// against: a gogpu window with a GPU surface, and a headless provider with a
// fixed framebuffer and a deterministic clock.
package window

import (
	"fmt"
	"time"
)

// Provider is the window/context contract used by the frame loop.
type Provider interface {
	// ShouldClose reports whether a close was requested.
	ShouldClose() bool

	// FramebufferSize returns the drawable size in pixels. Either value may
	// be zero while the window is minimized.
	FramebufferSize() (width, height int)

	// Elapsed returns seconds since the provider was initialized.
	Elapsed() float64

	// Swap presents the frame just drawn.
	Swap() error

	// PollEvents processes pending window events.
	PollEvents()

	// Destroy releases the window and its context.
	Destroy()
}

// InitError reports a window or context that could not be created.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	if e.Err == nil {
		return "window: " + e.Op
	}
	return fmt.Sprintf("window: %s: %v", e.Op, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// Clock is a monotonic time source started at construction.
type Clock struct {
	start time.Time
}

// NewClock starts a clock now.
func NewClock() Clock { return Clock{start: time.Now()} }

// Elapsed returns seconds since the clock started.
func (c Clock) Elapsed() float64 { return time.Since(c.start).Seconds() }
