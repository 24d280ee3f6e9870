// Package platform defines the window contract the engine runs on, plus keyboard/mouse
// state tracking and the frame clock.
package platform

// Key is a keyboard key the engine reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyLeftAlt
	KeyLeftShift
	KeyLeftControl
	KeyEscape
	KeyDelete
	KeyGrave
	KeyTab
	KeyEnter
	KeyBackspace
	KeyF1
	KeyF2
	KeyF3
	KeyN
	keyCount
)

// Keys lists every tracked key.
func Keys() []Key {
	out := make([]Key, 0, keyCount-1)
	for k := KeyW; k < keyCount; k++ {
		out = append(out, k)
	}
	return out
}

var keyNames = [...]string{
	KeyUnknown:     "unknown",
	KeyW:           "W",
	KeyA:           "A",
	KeyS:           "S",
	KeyD:           "D",
	KeySpace:       "Space",
	KeyLeftAlt:     "LeftAlt",
	KeyLeftShift:   "LeftShift",
	KeyLeftControl: "LeftControl",
	KeyEscape:      "Escape",
	KeyDelete:      "Delete",
	KeyGrave:       "Grave",
	KeyTab:         "Tab",
	KeyEnter:       "Enter",
	KeyBackspace:   "Backspace",
	KeyF1:          "F1",
	KeyF2:          "F2",
	KeyF3:          "F3",
	KeyN:           "N",
}

func (k Key) String() string {
	if k >= 0 && int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// MouseButton is a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// CursorMode controls whether the OS cursor is shown and free.
type CursorMode int

const (
	CursorNormal CursorMode = iota
	// CursorDisabled hides and captures the cursor for mouse-look.
	CursorDisabled
)

// WindowConfig describes the window to open.
type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
	MSAA      bool
	TargetFPS int
}

// Callbacks receive window events during PollEvents. Any of them may be nil.
type Callbacks struct {
	Resize      func(width, height int)
	CursorMove  func(x, y float64)
	Scroll      func(dx, dy float64)
	MouseButton func(button MouseButton, pressed bool)
}

// Window is the platform surface: a window with a graphics context, an event pump and a
// key state query. PollEvents begins a frame and SwapBuffers presents it.
type Window interface {
	Create(cfg WindowConfig) error
	SetCallbacks(cb Callbacks)
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	SetShouldClose()
	IsKeyDown(k Key) bool
	SetCursorMode(m CursorMode)
	Size() (width, height int)
	// Time returns seconds since the window was created.
	Time() float64
	Close()
}

// KeySource is the part of Window Input needs.
type KeySource interface {
	IsKeyDown(k Key) bool
}
