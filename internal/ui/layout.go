package ui

import (
	"wildfox-engine/internal/editor"
	"wildfox-engine/internal/scene"
)

const (
	defaultSideWidth     = 220
	defaultInspectorWide = 300
	defaultSettingsTall  = 260
	defaultConsoleTall   = 220
)

// Layout is where each editor panel goes this frame. Hidden panels have empty rects.
type Layout struct {
	Hierarchy Rect
	Inspector Rect
	Settings  Rect
	Console   Rect
	Viewport  Rect
}

func orDefault(v int32, def float32) float32 {
	if v > 0 {
		return float32(v)
	}
	return def
}

// Layout docks the visible panels around the viewport: hierarchy on the left, inspector
// over settings on the right, console along the bottom. The viewport gets what is left.
func (e *Engine) Layout(width, height int, p editor.Panels) Layout {
	w, h := float32(width), float32(height)
	var l Layout

	bottom := h
	if p.Console {
		ch := min(orDefault(e.Style("console", "").Height, defaultConsoleTall), h)
		l.Console = Rect{X: 0, Y: h - ch, Width: w, Height: ch}
		bottom = h - ch
	}

	left := float32(0)
	if p.Hierarchy {
		hw := min(orDefault(e.Style("hierarchy", "").Width, defaultSideWidth), w)
		l.Hierarchy = Rect{X: 0, Y: 0, Width: hw, Height: bottom}
		left = hw
	}

	right := w
	if p.Inspector || p.Settings {
		rw := min(orDefault(e.Style("inspector", "").Width, defaultInspectorWide), w-left)
		right = w - rw
		settingsH := float32(0)
		if p.Settings {
			settingsH = bottom
			if p.Inspector {
				settingsH = min(orDefault(e.Style("settings", "").Height, defaultSettingsTall), bottom/2)
			}
			l.Settings = Rect{X: right, Y: bottom - settingsH, Width: rw, Height: settingsH}
		}
		if p.Inspector {
			l.Inspector = Rect{X: right, Y: 0, Width: rw, Height: bottom - settingsH}
		}
	}

	l.Viewport = Rect{X: left, Y: 0, Width: max(right-left, 0), Height: max(bottom, 0)}
	return l
}

// ViewportRect converts the viewport region into what the editor layer expects.
func (l Layout) ViewportRect() editor.Rect {
	return editor.Rect{
		X:      int(l.Viewport.X),
		Y:      int(l.Viewport.Y),
		Width:  int(l.Viewport.Width),
		Height: int(l.Viewport.Height),
	}
}

// Row is one hierarchy line and where it is drawn.
type Row struct {
	Entry  editor.Entry
	Bounds Rect
}

// Rows lays out entries top to bottom inside panel, below a header of rowHeight, skipping
// the first scroll entries. Rows that would fall outside the panel are dropped.
func Rows(entries []editor.Entry, panel Rect, rowHeight float32, scroll int) []Row {
	if rowHeight <= 0 || scroll >= len(entries) {
		return nil
	}
	scroll = max(scroll, 0)
	var rows []Row
	y := panel.Y + rowHeight
	for _, e := range entries[scroll:] {
		if y+rowHeight > panel.Y+panel.Height {
			break
		}
		rows = append(rows, Row{Entry: e, Bounds: Rect{X: panel.X, Y: y, Width: panel.Width, Height: rowHeight}})
		y += rowHeight
	}
	return rows
}

// HitRow returns the object whose row contains the point.
func HitRow(rows []Row, x, y float32) (scene.ID, bool) {
	for _, r := range rows {
		if r.Bounds.Contains(x, y) {
			return r.Entry.ID, true
		}
	}
	return 0, false
}
