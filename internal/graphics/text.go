package graphics

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func rlColor(c color.RGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

// Text draws screen text with Font, or raylib's default font when Font is not loaded.
type Text struct {
	Font rl.Font
}

// LoadText loads a TTF/OTF font for Text. A failed load keeps the default font.
func LoadText(path string) (Text, bool) {
	if path == "" {
		return Text{}, false
	}
	f := rl.LoadFont(path)
	if f.Texture.ID == 0 {
		return Text{}, false
	}
	return Text{Font: f}, true
}

func (t Text) hasFont() bool { return t.Font.Texture.ID != 0 }

func (t Text) DrawText(s string, x, y, size int32, c color.RGBA) {
	if t.hasFont() {
		rl.DrawTextEx(t.Font, s, rl.NewVector2(float32(x), float32(y)), float32(size), 1, rlColor(c))
		return
	}
	rl.DrawText(s, x, y, size, rlColor(c))
}

func (t Text) MeasureText(s string, size int32) int32 {
	if t.hasFont() {
		return int32(rl.MeasureTextEx(t.Font, s, float32(size), 1).X)
	}
	return rl.MeasureText(s, size)
}

// Unload frees the font texture.
func (t Text) Unload() {
	if t.hasFont() {
		rl.UnloadFont(t.Font)
	}
}
