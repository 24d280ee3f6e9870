package ui

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildfox-engine/internal/editor"
	"wildfox-engine/internal/scene"
)

func TestParseCSS(t *testing.T) {
	sheet, err := ParseCSS(`
/* comment */
.panel { background: #112233; padding: 6px }
#viewport, .console { border: #fff; height: 120px; }
div { color: #000 }
@media screen { .hidden { width: 1px } }
.bad-child .x { color: #000 }
`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 3)

	assert.Equal(t, ".panel", sheet.Rules[0].Selector)
	assert.Equal(t, "#112233", sheet.Rules[0].Props["background"])
	assert.Equal(t, "6px", sheet.Rules[0].Props["padding"])
	assert.Equal(t, "#viewport", sheet.Rules[1].Selector)
	assert.Equal(t, ".console", sheet.Rules[2].Selector)
	assert.Equal(t, "120px", sheet.Rules[2].Props["height"])
}

func TestResolveProps(t *testing.T) {
	s := ResolveProps(map[string]string{
		"background": "#10203040",
		"color":      "#abc",
		"border":     "#000000",
		"width":      "220px",
		"padding":    "-3",
		"font-size":  "18",
	})
	assert.Equal(t, color.RGBA{0x10, 0x20, 0x30, 0x40}, s.Background)
	assert.Equal(t, color.RGBA{0xaa, 0xbb, 0xcc, 0xff}, s.Color)
	assert.True(t, s.HasBorder)
	assert.Equal(t, int32(220), s.Width)
	assert.Equal(t, int32(8), s.Padding, "negative padding is ignored")
	assert.Equal(t, int32(18), s.FontSize)

	_, ok := ParseHexColor("#12345")
	assert.False(t, ok)
	_, ok = ParseHexColor("#ggg")
	assert.False(t, ok)
}

func TestStyleCascade(t *testing.T) {
	e := New()
	require.True(t, e.HasStylesheet())

	sheet, err := ParseCSS(`.panel { color: #111111 } .title { color: #222222 } #main { color: #333333 }`)
	require.NoError(t, err)
	e.SetStylesheet(sheet)

	assert.Equal(t, color.RGBA{0x11, 0x11, 0x11, 0xff}, e.Style("hierarchy", "").Color)
	assert.Equal(t, color.RGBA{0x22, 0x22, 0x22, 0xff}, e.Style("title", "").Color)
	assert.Equal(t, color.RGBA{0x33, 0x33, 0x33, 0xff}, e.StyleOf(NewNode("label", "title", "main", "")).Color)
}

func TestLayoutDocksPanels(t *testing.T) {
	e := New()
	l := e.Layout(1280, 720, editor.Panels{Hierarchy: true, Inspector: true, Settings: true})

	assert.Equal(t, Rect{0, 0, 220, 720}, l.Hierarchy)
	assert.Equal(t, Rect{980, 0, 300, 460}, l.Inspector)
	assert.Equal(t, Rect{980, 460, 300, 260}, l.Settings)
	assert.True(t, l.Console.Empty())
	assert.Equal(t, Rect{220, 0, 760, 720}, l.Viewport)
	assert.Equal(t, editor.Rect{X: 220, Y: 0, Width: 760, Height: 720}, l.ViewportRect())
}

func TestLayoutWithConsoleOnly(t *testing.T) {
	l := New().Layout(800, 600, editor.Panels{Console: true})
	assert.Equal(t, Rect{0, 380, 800, 220}, l.Console)
	assert.Equal(t, Rect{0, 0, 800, 380}, l.Viewport)
}

func TestLayoutNeverNegative(t *testing.T) {
	l := New().Layout(300, 100, editor.Panels{Hierarchy: true, Inspector: true, Console: true})
	assert.GreaterOrEqual(t, l.Viewport.Width, float32(0))
	assert.GreaterOrEqual(t, l.Viewport.Height, float32(0))
}

func TestRowsAndHit(t *testing.T) {
	entries := []editor.Entry{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}}
	panel := Rect{X: 0, Y: 0, Width: 200, Height: 70}

	rows := Rows(entries, panel, 20, 0)
	require.Len(t, rows, 2, "header plus two rows fill 60 of 70 pixels")
	assert.Equal(t, Rect{0, 20, 200, 20}, rows[0].Bounds)

	id, ok := HitRow(rows, 10, 45)
	assert.True(t, ok)
	assert.Equal(t, scene.ID(2), id)
	_, ok = HitRow(rows, 10, 5)
	assert.False(t, ok)

	rows = Rows(entries, panel, 20, 2)
	require.Len(t, rows, 1)
	assert.Equal(t, scene.ID(3), rows[0].Entry.ID)
	assert.Nil(t, Rows(entries, panel, 20, 5))
}

func TestInspectorFields(t *testing.T) {
	reg := scene.NewRegistry(nil)
	tr := scene.NewTransformPRS(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1})
	id := reg.Create("Cube1", nil, &tr)
	o, _ := reg.Get(id)
	o.Params.AutoRotate = true

	fields := InspectorFields(o)
	byLabel := map[string]string{}
	for _, f := range fields {
		byLabel[f.Label] = f.Value
	}
	assert.Equal(t, "Cube1", byLabel["Name"])
	assert.Equal(t, "1.00, 2.00, 3.00", byLabel["Position"])
	assert.Equal(t, "none", byLabel["Texture"])
	assert.Equal(t, "50°/s", byLabel["Auto-rotate"])

	reg.Remove(id)
	assert.Nil(t, InspectorFields(o))
}
