// Package platformtest provides a scripted platform.Window for loop tests.
package platformtest

import (
	"errors"

	"wildfox-engine/internal/platform"
)

// Window is an in-memory window. Frames counts PollEvents calls; after CloseAfter
// frames (if non-zero) ShouldClose turns true. OnPoll runs inside PollEvents, before
// callbacks would normally fire, so tests can press keys or inject events per frame.
type Window struct {
	FailCreate bool
	CloseAfter int
	OnPoll     func(w *Window, frame int)

	Config    platform.WindowConfig
	Callbacks platform.Callbacks
	Keys      map[platform.Key]bool
	Cursor    platform.CursorMode

	Frames  int
	Swaps   int
	Created bool
	Closed  bool
	Now     float64
	Step    float64

	closing bool
	width   int
	height  int
}

// New returns a window that advances its clock by 1/60 s per frame.
func New() *Window {
	return &Window{Keys: map[platform.Key]bool{}, Step: 1.0 / 60}
}

func (w *Window) Create(cfg platform.WindowConfig) error {
	if w.FailCreate {
		return errors.New("platformtest: window creation failed")
	}
	w.Config = cfg
	w.width, w.height = cfg.Width, cfg.Height
	w.Created = true
	return nil
}

func (w *Window) SetCallbacks(cb platform.Callbacks)  { w.Callbacks = cb }

func (w *Window) PollEvents() {
	w.Frames++
	w.Now += w.Step
	if w.OnPoll != nil {
		w.OnPoll(w, w.Frames)
	}
	if w.CloseAfter > 0 && w.Frames >= w.CloseAfter {
		w.closing = true
	}
}

func (w *Window) SwapBuffers()                        { w.Swaps++ }
func (w *Window) ShouldClose() bool                   { return w.closing }
func (w *Window) SetShouldClose()                     { w.closing = true }
func (w *Window) IsKeyDown(k platform.Key) bool       { return w.Keys[k] }
func (w *Window) SetCursorMode(m platform.CursorMode) { w.Cursor = m }
func (w *Window) Size() (int, int)                    { return w.width, w.height }
func (w *Window) Time() float64                       { return w.Now }
func (w *Window) Close()                              { w.Closed = true }

// Resize changes the size and fires the resize callback.
func (w *Window) Resize(width, height int) {
	w.width, w.height = width, height
	if w.Callbacks.Resize != nil {
		w.Callbacks.Resize(width, height)
	}
}

// MoveCursor fires the cursor callback.
func (w *Window) MoveCursor(x, y float64) {
	if w.Callbacks.CursorMove != nil {
		w.Callbacks.CursorMove(x, y)
	}
}

// ScrollBy fires the scroll callback.
func (w *Window) ScrollBy(dx, dy float64) {
	if w.Callbacks.Scroll != nil {
		w.Callbacks.Scroll(dx, dy)
	}
}

// Click fires the mouse button callback.
func (w *Window) Click(b platform.MouseButton, pressed bool) {
	if w.Callbacks.MouseButton != nil {
		w.Callbacks.MouseButton(b, pressed)
	}
}
