// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frameloop drives the per-frame state machine.
//
// A Loop moves through Running, Closing and Terminated. While Running, each
// Step reads the framebuffer size, composes the MVP for the elapsed time,
// hands the frame to a Drawer, presents and polls events. A close request or
// a draw failure moves the loop to Closing; Close releases registered
// resources in reverse order of registration, then the window, and moves to
// Terminated.
package frameloop

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/internal/transform"
	"github.com/gogpu/hellotriangle/internal/window"
)

// ErrTerminated is returned by Step after Close.
var ErrTerminated = errors.New("frameloop: loop terminated")

// State is the lifecycle state of a Loop.
type State int

const (
	Running State = iota
	Closing
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Closing:
		return "closing"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Frame is everything a Drawer needs for one frame.
type Frame struct {
	Index   uint64
	Width   int
	Height  int
	Elapsed float64
	MVP     mgl32.Mat4
}

// Drawer binds the program, sets the MVP uniform and draws the triangle.
type Drawer interface {
	Draw(f Frame) error
}

// DrawerFunc adapts a function to Drawer.
type DrawerFunc func(f Frame) error

// Draw calls fn(f).
func (fn DrawerFunc) Draw(f Frame) error { return fn(f) }

// Loop is the frame state machine. It is not safe for concurrent use.
type Loop struct {
	win    window.Provider
	drawer Drawer

	releases []func()
	state    State
	frames   uint64
	skipped  uint64
}

// New creates a Running loop over win.
func New(win window.Provider, drawer Drawer) *Loop {
	return &Loop{win: win, drawer: drawer}
}

// OnClose registers a release function. Close runs them in reverse order of
// registration, before destroying the window.
func (l *Loop) OnClose(release func()) {
	l.releases = append(l.releases, release)
}

// State returns the current state.
func (l *Loop) State() State { return l.state }

// Frames returns the number of frames drawn.
func (l *Loop) Frames() uint64 { return l.frames }

// Skipped returns the number of iterations skipped for a zero-area framebuffer.
func (l *Loop) Skipped() uint64 { return l.skipped }

// Step runs one iteration. It is a no-op once the loop is Closing and
// returns ErrTerminated after Close. A draw or present failure moves the
// loop to Closing and is returned.
func (l *Loop) Step() error {
	switch l.state {
	case Terminated:
		return ErrTerminated
	case Closing:
		return nil
	}

	if l.win.ShouldClose() {
		l.setState(Closing)
		return nil
	}

	w, h := l.win.FramebufferSize()
	if w <= 0 || h <= 0 {
		l.skipped++
		hellotriangle.Logger().Debug("frame skipped", "w", w, "h", h)
		l.win.PollEvents()
		return nil
	}

	elapsed := l.win.Elapsed()
	f := Frame{
		Index:   l.frames,
		Width:   w,
		Height:  h,
		Elapsed: elapsed,
		MVP:     transform.MVP(w, h, elapsed),
	}
	if err := l.drawer.Draw(f); err != nil {
		l.setState(Closing)
		return fmt.Errorf("frameloop: draw frame %d: %w", f.Index, err)
	}
	if err := l.win.Swap(); err != nil {
		l.setState(Closing)
		return fmt.Errorf("frameloop: present frame %d: %w", f.Index, err)
	}
	l.frames++
	hellotriangle.Logger().Debug("frame", "n", f.Index, "w", w, "h", h, "t", elapsed)

	l.win.PollEvents()
	return nil
}

// Run steps the loop until the window asks to close, ctx is cancelled or a
// step fails. It does not call Close.
func (l *Loop) Run(ctx context.Context) error {
	for l.state == Running {
		if err := ctx.Err(); err != nil {
			hellotriangle.Logger().Info("frame loop cancelled", "cause", context.Cause(ctx))
			l.setState(Closing)
			break
		}
		if err := l.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Close releases registered resources in reverse order, destroys the window
// and moves to Terminated. Calling Close again is a no-op.
func (l *Loop) Close() {
	if l.state == Terminated {
		return
	}
	l.setState(Closing)
	for i := len(l.releases) - 1; i >= 0; i-- {
		l.releases[i]()
	}
	l.releases = nil
	l.win.Destroy()
	l.setState(Terminated)
	hellotriangle.Logger().Info("frame loop terminated", "frames", l.frames, "skipped", l.skipped)
}

func (l *Loop) setState(s State) {
	if l.state == s {
		return
	}
	hellotriangle.Logger().Debug("frame loop state", "from", l.state.String(), "to", s.String())
	l.state = s
}
