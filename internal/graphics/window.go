// Package graphics implements the platform window and the GPU device on raylib.
// Everything here must run on the thread that created the window.
package graphics

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"

	"wildfox-engine/internal/platform"
)

var keyMap = map[platform.Key]int32{
	platform.KeyW:           rl.KeyW,
	platform.KeyA:           rl.KeyA,
	platform.KeyS:           rl.KeyS,
	platform.KeyD:           rl.KeyD,
	platform.KeySpace:       rl.KeySpace,
	platform.KeyLeftAlt:     rl.KeyLeftAlt,
	platform.KeyLeftShift:   rl.KeyLeftShift,
	platform.KeyLeftControl: rl.KeyLeftControl,
	platform.KeyEscape:      rl.KeyEscape,
	platform.KeyDelete:      rl.KeyDelete,
	platform.KeyGrave:       rl.KeyGrave,
	platform.KeyTab:         rl.KeyTab,
	platform.KeyEnter:       rl.KeyEnter,
	platform.KeyBackspace:   rl.KeyBackspace,
	platform.KeyF1:          rl.KeyF1,
	platform.KeyF2:          rl.KeyF2,
	platform.KeyF3:          rl.KeyF3,
	platform.KeyN:           rl.KeyN,
}

var buttonMap = [...]rl.MouseButton{
	platform.MouseLeft:   rl.MouseButtonLeft,
	platform.MouseRight:  rl.MouseButtonRight,
	platform.MouseMiddle: rl.MouseButtonMiddle,
}

// Window is a raylib window. PollEvents begins the frame's drawing and SwapBuffers
// ends it; raylib pumps OS events inside EndDrawing, so callbacks fire from PollEvents
// with the state gathered at the end of the previous frame.
type Window struct {
	cb      platform.Callbacks
	open    bool
	closing bool
	drawing bool
	lastX   float32
	lastY   float32
	havePos bool
	width   int
	height  int
}

// NewWindow returns an unopened window.
func NewWindow() *Window { return &Window{} }

func (w *Window) Create(cfg platform.WindowConfig) error {
	if w.open {
		return errors.New("graphics: window already created")
	}
	var flags uint32
	if cfg.Resizable {
		flags |= rl.FlagWindowResizable
	}
	if cfg.MSAA {
		flags |= rl.FlagMsaa4xHint
	}
	if cfg.VSync {
		flags |= rl.FlagVsyncHint
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), cfg.Title)
	if !rl.IsWindowReady() {
		return errors.New("graphics: could not create window or GL context")
	}
	rl.SetExitKey(rl.KeyNull) // Escape is handled by the engine
	if cfg.TargetFPS > 0 {
		rl.SetTargetFPS(int32(cfg.TargetFPS))
	}
	w.open = true
	w.width, w.height = rl.GetScreenWidth(), rl.GetScreenHeight()
	return nil
}

func (w *Window) SetCallbacks(cb platform.Callbacks) { w.cb = cb }

func (w *Window) PollEvents() {
	if !w.open {
		return
	}
	if rl.IsWindowResized() {
		w.width, w.height = rl.GetScreenWidth(), rl.GetScreenHeight()
		if w.cb.Resize != nil {
			w.cb.Resize(w.width, w.height)
		}
	}
	pos := rl.GetMousePosition()
	if !w.havePos || pos.X != w.lastX || pos.Y != w.lastY {
		w.lastX, w.lastY, w.havePos = pos.X, pos.Y, true
		if w.cb.CursorMove != nil {
			w.cb.CursorMove(float64(pos.X), float64(pos.Y))
		}
	}
	if wheel := rl.GetMouseWheelMoveV(); (wheel.X != 0 || wheel.Y != 0) && w.cb.Scroll != nil {
		w.cb.Scroll(float64(wheel.X), float64(wheel.Y))
	}
	if w.cb.MouseButton != nil {
		for b, rb := range buttonMap {
			if rl.IsMouseButtonPressed(rb) {
				w.cb.MouseButton(platform.MouseButton(b), true)
			}
			if rl.IsMouseButtonReleased(rb) {
				w.cb.MouseButton(platform.MouseButton(b), false)
			}
		}
	}
	rl.BeginDrawing()
	w.drawing = true
}

func (w *Window) SwapBuffers() {
	if !w.drawing {
		return
	}
	rl.EndDrawing()
	w.drawing = false
}

func (w *Window) ShouldClose() bool {
	return w.closing || (w.open && rl.WindowShouldClose())
}

func (w *Window) SetShouldClose() { w.closing = true }

func (w *Window) IsKeyDown(k platform.Key) bool {
	code, ok := keyMap[k]
	return ok && w.open && rl.IsKeyDown(code)
}

// IsKeyPressed exposes raylib's own edge detection for widgets that bypass platform.Input.
func (w *Window) IsKeyPressed(k platform.Key) bool {
	code, ok := keyMap[k]
	return ok && w.open && rl.IsKeyPressed(code)
}

func (w *Window) SetCursorMode(m platform.CursorMode) {
	if !w.open {
		return
	}
	switch m {
	case platform.CursorDisabled:
		rl.DisableCursor()
	default:
		rl.EnableCursor()
	}
}

func (w *Window) Size() (int, int) { return w.width, w.height }

func (w *Window) Time() float64 {
	if !w.open {
		return 0
	}
	return rl.GetTime()
}

func (w *Window) Close() {
	if !w.open {
		return
	}
	if w.drawing {
		rl.EndDrawing()
		w.drawing = false
	}
	rl.CloseWindow()
	w.open = false
}
