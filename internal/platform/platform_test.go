package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type keys map[Key]bool

func (k keys) IsKeyDown(key Key) bool { return k[key] }

func TestJustPressedIsEdgeTriggered(t *testing.T) {
	in := NewInput()
	src := keys{}

	in.Poll(src)
	assert.False(t, in.IsKeyJustPressed(KeyEscape))

	src[KeyEscape] = true
	in.Poll(src)
	assert.True(t, in.IsKeyJustPressed(KeyEscape))
	assert.True(t, in.IsKeyJustPressed(KeyEscape), "stable within a frame")
	assert.True(t, in.IsKeyDown(KeyEscape))

	in.Poll(src)
	assert.False(t, in.IsKeyJustPressed(KeyEscape), "held key does not re-fire")
	assert.True(t, in.IsKeyDown(KeyEscape))

	delete(src, KeyEscape)
	in.Poll(src)
	assert.True(t, in.IsKeyJustReleased(KeyEscape))
	assert.False(t, in.IsKeyDown(KeyEscape))

	assert.False(t, in.IsKeyDown(KeyUnknown))
	assert.False(t, in.IsKeyDown(Key(999)))
}

func TestCursorDeltaSkipsFirstSample(t *testing.T) {
	in := NewInput()
	in.OnCursorMove(100, 100)
	dx, dy := in.MouseDelta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	in.OnCursorMove(110, 90)
	in.OnCursorMove(115, 95)
	dx, dy = in.MouseDelta()
	assert.Equal(t, float32(15), dx)
	assert.Equal(t, float32(5), dy, "screen y down is positive pitch")

	in.EndFrame()
	dx, dy = in.MouseDelta()
	assert.Zero(t, dx+dy)

	in.ResetMouse()
	in.OnCursorMove(500, 500)
	dx, _ = in.MouseDelta()
	assert.Zero(t, dx, "jump after reset is ignored")
}

func TestScrollAndButtons(t *testing.T) {
	in := NewInput()
	in.OnScroll(0, 1)
	in.OnScroll(0, 2)
	_, dy := in.Scroll()
	assert.Equal(t, float32(3), dy)
	in.EndFrame()
	_, dy = in.Scroll()
	assert.Zero(t, dy)

	in.OnMouseButton(MouseRight, true)
	assert.True(t, in.IsMouseDown(MouseRight))
	in.OnMouseButton(MouseRight, false)
	assert.False(t, in.IsMouseDown(MouseRight))
	in.OnMouseButton(MouseButton(7), true)
	assert.False(t, in.IsMouseDown(MouseButton(7)))
}

func TestClock(t *testing.T) {
	now := 10.0
	c := NewClock(func() float64 { return now })

	c.Tick()
	assert.Zero(t, c.Delta())
	assert.Zero(t, c.FPS())

	now += 0.5
	c.Tick()
	assert.Equal(t, float32(0.25), c.Delta(), "capped")

	now += 0.02
	c.SetTimeScale(0.5)
	c.Tick()
	assert.InDelta(t, 0.01, c.Delta(), 1e-5)
	assert.InDelta(t, 50, c.FPS(), 0.01)
	assert.Equal(t, uint64(3), c.Frames())

	c.SetTimeScale(-1)
	assert.Zero(t, c.TimeScale())
}

func TestKeyNames(t *testing.T) {
	assert.Equal(t, "Escape", KeyEscape.String())
	assert.Equal(t, "unknown", Key(-1).String())
	assert.Len(t, Keys(), int(keyCount)-1)
}
