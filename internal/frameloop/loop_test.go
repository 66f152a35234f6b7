// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package frameloop

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/hellotriangle/internal/transform"
	"github.com/gogpu/hellotriangle/internal/window"
)

// fakeWindow records every call into a shared log.
type fakeWindow struct {
	log      *[]string
	close    bool
	w, h     int
	t        float64
	swapErr  error
	destroys int
}

func (f *fakeWindow) ShouldClose() bool {
	*f.log = append(*f.log, "should_close")
	return f.close
}
func (f *fakeWindow) FramebufferSize() (int, int) {
	*f.log = append(*f.log, "size")
	return f.w, f.h
}
func (f *fakeWindow) Elapsed() float64 { return f.t }
func (f *fakeWindow) Swap() error {
	*f.log = append(*f.log, "swap")
	return f.swapErr
}
func (f *fakeWindow) PollEvents() { *f.log = append(*f.log, "poll") }
func (f *fakeWindow) Destroy() {
	*f.log = append(*f.log, "destroy")
	f.destroys++
}

// recordingDrawer keeps the frames it was asked to draw.
type recordingDrawer struct {
	log    *[]string
	frames []Frame
	err    error
}

func (d *recordingDrawer) Draw(f Frame) error {
	*d.log = append(*d.log, "draw")
	d.frames = append(d.frames, f)
	return d.err
}

func newFakes(w, h int) (*fakeWindow, *recordingDrawer, *[]string) {
	var log []string
	return &fakeWindow{log: &log, w: w, h: h}, &recordingDrawer{log: &log}, &log
}

func TestStepOrder(t *testing.T) {
	win, d, log := newFakes(640, 480)
	win.t = 1.25
	l := New(win, d)

	if err := l.Step(); err != nil {
		t.Fatalf("Step() = %v", err)
	}

	want := []string{"should_close", "size", "draw", "swap", "poll"}
	if !slices.Equal(*log, want) {
		t.Errorf("calls = %v, want %v", *log, want)
	}
	if len(d.frames) != 1 {
		t.Fatalf("drew %d frames, want 1", len(d.frames))
	}
	f := d.frames[0]
	if f.Width != 640 || f.Height != 480 || f.Elapsed != 1.25 || f.Index != 0 {
		t.Errorf("frame = %+v", f)
	}
	if f.MVP != transform.MVP(640, 480, 1.25) {
		t.Error("frame MVP differs from transform.MVP for the same size and time")
	}
	if l.State() != Running || l.Frames() != 1 {
		t.Errorf("state = %v frames = %d", l.State(), l.Frames())
	}
}

func TestStepCloseRequest(t *testing.T) {
	win, d, log := newFakes(640, 480)
	win.close = true
	l := New(win, d)

	if err := l.Step(); err != nil {
		t.Fatalf("Step() = %v", err)
	}
	if l.State() != Closing {
		t.Errorf("State() = %v, want closing", l.State())
	}
	if len(d.frames) != 0 {
		t.Error("drew a frame after close request")
	}

	// Further steps in Closing do nothing.
	*log = nil
	if err := l.Step(); err != nil || len(*log) != 0 {
		t.Errorf("Step() in Closing = %v with calls %v", err, *log)
	}
}

func TestStepZeroArea(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"minimized", 0, 0},
		{"zero width", 0, 480},
		{"zero height", 640, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win, d, log := newFakes(tt.w, tt.h)
			l := New(win, d)
			if err := l.Step(); err != nil {
				t.Fatalf("Step() = %v", err)
			}
			want := []string{"should_close", "size", "poll"}
			if !slices.Equal(*log, want) {
				t.Errorf("calls = %v, want %v", *log, want)
			}
			if l.Skipped() != 1 || l.Frames() != 0 || l.State() != Running {
				t.Errorf("skipped = %d frames = %d state = %v", l.Skipped(), l.Frames(), l.State())
			}
		})
	}
}

func TestStepFailures(t *testing.T) {
	boom := errors.New("boom")

	t.Run("draw", func(t *testing.T) {
		win, d, log := newFakes(10, 10)
		d.err = boom
		l := New(win, d)
		err := l.Step()
		if !errors.Is(err, boom) {
			t.Fatalf("Step() = %v, want boom", err)
		}
		if slices.Contains(*log, "swap") {
			t.Error("presented a failed frame")
		}
		if l.State() != Closing {
			t.Errorf("State() = %v, want closing", l.State())
		}
	})

	t.Run("swap", func(t *testing.T) {
		win, d, _ := newFakes(10, 10)
		win.swapErr = boom
		l := New(win, d)
		if err := l.Step(); !errors.Is(err, boom) {
			t.Fatalf("Step() = %v, want boom", err)
		}
		if l.State() != Closing || l.Frames() != 0 {
			t.Errorf("state = %v frames = %d", l.State(), l.Frames())
		}
	})
}

func TestCloseReleasesInReverse(t *testing.T) {
	win, d, log := newFakes(10, 10)
	l := New(win, d)
	l.OnClose(func() { *log = append(*log, "release_vertex_buffer") })
	l.OnClose(func() { *log = append(*log, "release_program") })
	l.OnClose(func() { *log = append(*log, "release_renderer") })

	*log = nil
	l.Close()
	want := []string{"release_renderer", "release_program", "release_vertex_buffer", "destroy"}
	if !slices.Equal(*log, want) {
		t.Errorf("release order = %v, want %v", *log, want)
	}
	if l.State() != Terminated {
		t.Errorf("State() = %v, want terminated", l.State())
	}

	l.Close()
	if win.destroys != 1 {
		t.Errorf("window destroyed %d times, want 1", win.destroys)
	}
	if err := l.Step(); !errors.Is(err, ErrTerminated) {
		t.Errorf("Step() after Close = %v, want ErrTerminated", err)
	}
}

func TestRunHeadless(t *testing.T) {
	win, err := window.NewHeadless(320, 240, 4, 0.5, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	var frames []Frame
	l := New(win, DrawerFunc(func(f Frame) error {
		frames = append(frames, f)
		return nil
	}))
	defer l.Close()

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("drew %d frames, want 4", len(frames))
	}
	for i, f := range frames {
		if want := 0.5 + float64(i)*0.25; f.Elapsed != want {
			t.Errorf("frame %d elapsed = %v, want %v", i, f.Elapsed, want)
		}
		if f.MVP != transform.MVP(320, 240, f.Elapsed) {
			t.Errorf("frame %d MVP mismatch", i)
		}
	}
	if l.State() != Closing {
		t.Errorf("State() = %v, want closing", l.State())
	}
}

func TestRunCancelled(t *testing.T) {
	win, d, _ := newFakes(10, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := New(win, d)
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if len(d.frames) != 0 {
		t.Errorf("drew %d frames after cancellation", len(d.frames))
	}
	if l.State() != Closing {
		t.Errorf("State() = %v, want closing", l.State())
	}
}

func TestRunPropagatesDrawError(t *testing.T) {
	win, d, _ := newFakes(10, 10)
	d.err = errors.New("device lost")
	l := New(win, d)
	if err := l.Run(context.Background()); !errors.Is(err, d.err) {
		t.Errorf("Run() = %v, want device lost", err)
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		Running:    "running",
		Closing:    "closing",
		Terminated: "terminated",
		State(7):   "State(7)",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}
