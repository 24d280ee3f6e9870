// Package debug draws runtime overlays: frame rate, heap use and render counters.
package debug

import (
	"fmt"
	"image/color"
	"runtime"

	"wildfox-engine/internal/render"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh text every N frames to reduce allocations.
	updateInterval = 30
)

var overlayColor = color.RGBA{0, 228, 48, 255}

// Text draws and measures screen text. The graphics backend implements it.
type Text interface {
	DrawText(text string, x, y, size int32, c color.RGBA)
	MeasureText(text string, size int32) int32
}

// Sample is what the overlay reports for one frame.
type Sample struct {
	FPS   float32
	Stats render.FrameStats
}

// Debug holds runtime debugging features. All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowStats    bool

	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastStats    string
	lastMemStats runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

func (d *Debug) SetShowFPS(show bool)      { d.ShowFPS = show }
func (d *Debug) SetShowMemAlloc(show bool) { d.ShowMemAlloc = show }
func (d *Debug) SetShowStats(show bool)    { d.ShowStats = show }

// Update refreshes the overlay text from s every updateInterval frames, and immediately
// when an overlay has never produced text.
func (d *Debug) Update(s Sample) {
	d.frameCount++
	update := d.frameCount%updateInterval == 0
	if (d.ShowFPS && d.lastFpsText == "") || (d.ShowMemAlloc && d.lastMemText == "") || (d.ShowStats && d.lastStats == "") {
		update = true
	}
	if !update {
		return
	}
	if d.ShowFPS {
		d.lastFpsText = fmt.Sprintf("FPS: %.0f", s.FPS)
	}
	if d.ShowMemAlloc {
		runtime.ReadMemStats(&d.lastMemStats)
		mb := float64(d.lastMemStats.Alloc) / (1024 * 1024)
		d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
	}
	if d.ShowStats {
		d.lastStats = fmt.Sprintf("Objects: %d  Tris: %d", s.Stats.Objects, s.Stats.Triangles)
	}
}

// Lines returns the enabled overlay lines, top to bottom.
func (d *Debug) Lines() []string {
	var out []string
	if d.ShowFPS && d.lastFpsText != "" {
		out = append(out, d.lastFpsText)
	}
	if d.ShowMemAlloc && d.lastMemText != "" {
		out = append(out, d.lastMemText)
	}
	if d.ShowStats && d.lastStats != "" {
		out = append(out, d.lastStats)
	}
	return out
}

// Draw renders the enabled overlays right-aligned at the top of a screenW-wide surface.
func (d *Debug) Draw(screenW int, t Text) {
	y := int32(fpsPadding)
	for _, line := range d.Lines() {
		x := int32(screenW) - t.MeasureText(line, fpsFontSize) - fpsPadding
		t.DrawText(line, x, y, fpsFontSize, overlayColor)
		y += fpsLineHeight
	}
}
