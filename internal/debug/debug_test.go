package debug

import (
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildfox-engine/internal/render"
)

type drawCall struct {
	text string
	x, y int32
}

type recorder struct{ calls []drawCall }

func (r *recorder) DrawText(text string, x, y, _ int32, _ color.RGBA) {
	r.calls = append(r.calls, drawCall{text, x, y})
}

func (r *recorder) MeasureText(text string, _ int32) int32 { return int32(10 * len(text)) }

func TestHiddenByDefault(t *testing.T) {
	d := New()
	d.Update(Sample{FPS: 60})
	assert.Empty(t, d.Lines())
}

func TestUpdateThrottlesText(t *testing.T) {
	d := New()
	d.SetShowFPS(true)
	d.Update(Sample{FPS: 60})
	assert.Equal(t, []string{"FPS: 60"}, d.Lines())

	for i := 0; i < updateInterval-2; i++ {
		d.Update(Sample{FPS: 30})
	}
	assert.Equal(t, []string{"FPS: 60"}, d.Lines(), "text holds between refreshes")

	d.Update(Sample{FPS: 30})
	assert.Equal(t, []string{"FPS: 30"}, d.Lines())
}

func TestDrawRightAligned(t *testing.T) {
	d := New()
	d.SetShowFPS(true)
	d.SetShowMemAlloc(true)
	d.SetShowStats(true)
	d.Update(Sample{FPS: 144, Stats: render.FrameStats{Objects: 3, Triangles: 36}})

	r := &recorder{}
	d.Draw(800, r)
	require.Len(t, r.calls, 3)
	assert.Equal(t, "FPS: 144", r.calls[0].text)
	assert.Equal(t, int32(800-80-fpsPadding), r.calls[0].x)
	assert.Equal(t, int32(fpsPadding), r.calls[0].y)
	assert.True(t, strings.HasPrefix(r.calls[1].text, "Mem: "))
	assert.Equal(t, int32(fpsPadding+fpsLineHeight), r.calls[1].y)
	assert.Equal(t, "Objects: 3  Tris: 36", r.calls[2].text)
}
