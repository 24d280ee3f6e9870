package platform

// Input keeps the current and previous state of every tracked key, sampled once per
// Poll, so edge queries stay stable for the whole frame. It also accumulates mouse
// motion and scroll between frames.
type Input struct {
	current  [keyCount]bool
	previous [keyCount]bool

	firstMouse   bool
	lastX, lastY float64
	dx, dy       float32
	scrollX      float32
	scrollY      float32

	buttons [3]bool
}

// NewInput returns input state with every key up.
func NewInput() *Input {
	return &Input{firstMouse: true}
}

// Poll shifts current key state into previous and samples src. Call once per frame
// after the window has pumped its events.
func (in *Input) Poll(src KeySource) {
	in.previous = in.current
	for k := KeyW; k < keyCount; k++ {
		in.current[k] = src.IsKeyDown(k)
	}
}

func valid(k Key) bool { return k > KeyUnknown && k < keyCount }

// IsKeyDown reports the state sampled by the last Poll.
func (in *Input) IsKeyDown(k Key) bool {
	return valid(k) && in.current[k]
}

// IsKeyJustPressed is true only on the first frame a key is seen down.
func (in *Input) IsKeyJustPressed(k Key) bool {
	return valid(k) && in.current[k] && !in.previous[k]
}

// IsKeyJustReleased is true only on the first frame a key is seen up again.
func (in *Input) IsKeyJustReleased(k Key) bool {
	return valid(k) && !in.current[k] && in.previous[k]
}

// OnCursorMove converts absolute cursor positions into accumulated deltas. The first
// sample after creation or ResetMouse only records the position. Y grows upward in
// the returned delta.
func (in *Input) OnCursorMove(x, y float64) {
	if in.firstMouse {
		in.lastX, in.lastY = x, y
		in.firstMouse = false
		return
	}
	in.dx += float32(x - in.lastX)
	in.dy += float32(in.lastY - y)
	in.lastX, in.lastY = x, y
}

// OnScroll accumulates wheel offsets.
func (in *Input) OnScroll(dx, dy float64) {
	in.scrollX += float32(dx)
	in.scrollY += float32(dy)
}

// OnMouseButton records a button transition.
func (in *Input) OnMouseButton(b MouseButton, pressed bool) {
	if b >= 0 && int(b) < len(in.buttons) {
		in.buttons[b] = pressed
	}
}

// IsMouseDown reports the last recorded state of b.
func (in *Input) IsMouseDown(b MouseButton) bool {
	return b >= 0 && int(b) < len(in.buttons) && in.buttons[b]
}

// MouseDelta returns motion accumulated since the last EndFrame.
func (in *Input) MouseDelta() (dx, dy float32) { return in.dx, in.dy }

// Scroll returns wheel motion accumulated since the last EndFrame.
func (in *Input) Scroll() (dx, dy float32) { return in.scrollX, in.scrollY }

// ResetMouse makes the next cursor sample a fresh origin, used when the cursor is
// captured or released so the jump is not read as motion.
func (in *Input) ResetMouse() {
	in.firstMouse = true
	in.dx, in.dy = 0, 0
}

// EndFrame clears per-frame accumulators.
func (in *Input) EndFrame() {
	in.dx, in.dy = 0, 0
	in.scrollX, in.scrollY = 0, 0
}
