// Package panels draws the editor with raygui: hierarchy, inspector, scene settings,
// console and the scene viewport image.
package panels

import (
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/editor"
	"wildfox-engine/internal/graphics"
	"wildfox-engine/internal/platform"
	"wildfox-engine/internal/terminal"
	"wildfox-engine/internal/ui"
)

const (
	maxConsoleLines = 32
	textBoxSize     = 128
)

var promptColor = color.RGBA{255, 255, 255, 255}

// Config wires an Editor to the engine.
type Config struct {
	Layer   *editor.Layer
	Console *editor.Console
	Styles  *ui.Engine
	Device  *graphics.Device
	Text    graphics.Text
	// Lines is the log shown in the console panel.
	Lines terminal.LineSource
	// Kinds are what the hierarchy's add button can spawn, in cycle order.
	Kinds []string
	// ResolveTexture maps a typed texture name to a loadable path. Nil uses the name as is.
	ResolveTexture func(name string) string
	Log            *slog.Logger
}

// Editor is the immediate-mode editor UI. Update and Draw run once per frame on the main
// thread; all mutations go through the editor layer.
type Editor struct {
	cfg    Config
	layer  *editor.Layer
	term   *terminal.Terminal
	styles *ui.Engine
	log    *slog.Logger

	layout     ui.Layout
	hierScroll int
	kind       int

	nameEdit    bool
	nameBuf     string
	nameOwner   uint64
	textureEdit bool
	textureBuf  string
}

// New builds the editor UI and applies the stylesheet theme to raygui.
func New(cfg Config) *Editor {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Styles == nil {
		cfg.Styles = ui.New()
	}
	if len(cfg.Kinds) == 0 {
		cfg.Kinds = []string{cfg.Layer.DefaultKind}
	}
	e := &Editor{cfg: cfg, layer: cfg.Layer, styles: cfg.Styles, log: cfg.Log}
	e.term = terminal.New(cfg.Lines, func(line string) error {
		if cfg.Console == nil {
			return nil
		}
		return cfg.Console.Exec(line)
	})
	e.term.SetOpen(cfg.Layer.Panels.Console)
	e.ApplyTheme()
	return e
}

// ApplyTheme pushes the .panel style into raygui's default control style.
func (e *Editor) ApplyTheme() {
	s := e.styles.Style("", "")
	bg := rl.NewColor(s.Background.R, s.Background.G, s.Background.B, 255)
	fg := rl.NewColor(s.Color.R, s.Color.G, s.Color.B, s.Color.A)
	accent := rl.NewColor(s.Accent.R, s.Accent.G, s.Accent.B, s.Accent.A)
	border := rl.NewColor(s.Border.R, s.Border.G, s.Border.B, s.Border.A)

	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(bg))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(bg))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(accent))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(accent))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(fg))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(rl.White))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(rl.Yellow))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(border))
	gui.SetStyle(gui.DEFAULT, gui.LINE_COLOR, gui.NewColorPropertyValue(border))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, int64(s.FontSize))
	if e.cfg.Text.Font.Texture.ID != 0 {
		gui.SetFont(e.cfg.Text.Font)
	}
}

// Terminal exposes the console line editor.
func (e *Editor) Terminal() *terminal.Terminal { return e.term }

// WantsKeyboard reports whether a text field has focus, so camera keys must be ignored.
func (e *Editor) WantsKeyboard() bool {
	return e.term.IsOpen() || e.nameEdit || e.textureEdit
}

// Update handles editor shortcuts and console typing.
func (e *Editor) Update(in *platform.Input) {
	if e.layer.Panels.Console != e.term.IsOpen() {
		e.term.SetOpen(e.layer.Panels.Console)
	}
	if in.IsKeyJustPressed(platform.KeyGrave) {
		e.term.Toggle()
		e.layer.Panels.Console = e.term.IsOpen()
		rl.GetCharPressed() // drop the backtick itself
		return
	}
	if e.term.IsOpen() {
		e.updateTerminal(in)
		return
	}
	if e.nameEdit || e.textureEdit {
		return
	}
	switch {
	case in.IsKeyJustPressed(platform.KeyDelete):
		e.layer.RequestRemoveSelected()
	case in.IsKeyJustPressed(platform.KeyN):
		e.spawn()
	case in.IsKeyJustPressed(platform.KeyF1):
		e.layer.Panels.Hierarchy = !e.layer.Panels.Hierarchy
	case in.IsKeyJustPressed(platform.KeyF2):
		e.layer.Panels.Inspector = !e.layer.Panels.Inspector
	case in.IsKeyJustPressed(platform.KeyF3):
		e.layer.Panels.Settings = !e.layer.Panels.Settings
	}
}

func (e *Editor) updateTerminal(in *platform.Input) {
	if in.IsKeyJustPressed(platform.KeyEscape) {
		e.term.SetOpen(false)
		e.layer.Panels.Console = false
		return
	}
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
	if ctrl && rl.IsKeyPressed(rl.KeyV) {
		e.term.Paste(rl.GetClipboardText())
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			e.term.Type(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace) {
		e.term.Backspace()
	}
	if rl.IsKeyPressed(rl.KeyUp) {
		e.term.HistoryPrev()
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		e.term.HistoryNext()
	}
	if in.IsKeyJustPressed(platform.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		// Failures are already logged by the console.
		_ = e.term.Submit()
	}
}

func (e *Editor) spawn() {
	if _, err := e.layer.RequestCreate(e.cfg.Kinds[e.kind]); err != nil {
		e.log.Warn("spawn failed", "err", err)
	}
}

// Draw lays out and draws every visible panel, then reports the viewport region so the
// offscreen target follows it.
func (e *Editor) Draw(width, height int) {
	e.layout = e.styles.Layout(width, height, e.layer.Panels)
	e.layer.ReportViewport(e.layout.ViewportRect())

	e.drawViewport(e.layout.Viewport)
	if !e.layout.Hierarchy.Empty() {
		e.drawHierarchy(e.layout.Hierarchy)
	}
	if !e.layout.Inspector.Empty() {
		e.drawInspector(e.layout.Inspector)
	}
	if !e.layout.Settings.Empty() {
		e.drawSettings(e.layout.Settings)
	}
	if !e.layout.Console.Empty() {
		e.drawConsole(e.layout.Console)
	}
}

// Layout is the panel placement of the last Draw.
func (e *Editor) Layout() ui.Layout { return e.layout }

func rect(r ui.Rect) rl.Rectangle { return rl.NewRectangle(r.X, r.Y, r.Width, r.Height) }

// column hands out rows top to bottom inside a panel.
type column struct {
	x, y, w, row, pad float32
}

func newColumn(r ui.Rect, s ui.ComputedStyle) *column {
	pad := float32(s.Padding)
	return &column{x: r.X + pad, y: r.Y + float32(s.RowHeight) + pad, w: r.Width - 2*pad, row: float32(s.RowHeight), pad: 4}
}

func (c *column) next() rl.Rectangle {
	r := rl.NewRectangle(c.x, c.y, c.w, c.row)
	c.y += c.row + c.pad
	return r
}

// split divides the next row into n equal cells.
func (c *column) split(n int) []rl.Rectangle {
	row := c.next()
	cells := make([]rl.Rectangle, n)
	w := (row.Width - float32(n-1)*c.pad) / float32(n)
	for i := range cells {
		cells[i] = rl.NewRectangle(row.X+float32(i)*(w+c.pad), row.Y, w, row.Height)
	}
	return cells
}

// labeled reserves a label column and returns the rest of the row for the widget.
func (c *column) labeled(label string) rl.Rectangle {
	row := c.next()
	const labelW = 70
	gui.Label(rl.NewRectangle(row.X, row.Y, labelW, row.Height), label)
	return rl.NewRectangle(row.X+labelW, row.Y, row.Width-labelW, row.Height)
}

func (e *Editor) drawViewport(r ui.Rect) {
	if r.Empty() {
		return
	}
	s := e.styles.Style("", "viewport")
	rl.DrawRectangleRec(rect(r), rl.NewColor(s.Background.R, s.Background.G, s.Background.B, s.Background.A))
	if e.cfg.Device != nil {
		if tex, ok := e.cfg.Device.NativeTexture(e.layer.ViewportTexture()); ok {
			// Render textures are stored bottom-up.
			src := rl.NewRectangle(0, 0, float32(tex.Width), -float32(tex.Height))
			rl.DrawTexturePro(tex, src, rect(r), rl.NewVector2(0, 0), 0, rl.White)
		}
	}
	if s.HasBorder {
		rl.DrawRectangleLinesEx(rect(r), 1, rl.NewColor(s.Border.R, s.Border.G, s.Border.B, s.Border.A))
	}
	hint := "Right-click: fly camera"
	if e.layer.ControllingCamera() {
		hint = "Right-click: release camera  WASD/Space/Ctrl: move"
	}
	rl.DrawText(hint, int32(r.X)+8, int32(r.Y+r.Height)-20, 14, rl.LightGray)
}

func (e *Editor) drawHierarchy(r ui.Rect) {
	s := e.styles.Style("hierarchy", "")
	gui.Panel(rect(r), "Hierarchy")

	footer := 2*float32(s.RowHeight) + 3*float32(s.Padding)
	list := ui.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height - footer}
	entries := e.layer.Hierarchy()

	mouse := rl.GetMousePosition()
	if list.Contains(mouse.X, mouse.Y) {
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			e.hierScroll = min(max(e.hierScroll-int(wheel), 0), max(len(entries)-1, 0))
		}
	}
	rows := ui.Rows(entries, list, float32(s.RowHeight), e.hierScroll)
	for _, row := range rows {
		b := rect(row.Bounds)
		if row.Entry.Selected {
			rl.DrawRectangleRec(b, rl.NewColor(s.Accent.R, s.Accent.G, s.Accent.B, s.Accent.A))
		}
		fg := rl.NewColor(s.Color.R, s.Color.G, s.Color.B, s.Color.A)
		if !row.Entry.Active {
			fg = rl.Gray
		}
		rl.DrawText(fmt.Sprintf("%s  #%d", row.Entry.Name, row.Entry.ID), int32(b.X)+int32(s.Padding), int32(b.Y)+4, s.FontSize, fg)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !e.layer.ControllingCamera() {
		if id, ok := ui.HitRow(rows, mouse.X, mouse.Y); ok {
			e.layer.Select(id)
		}
	}

	pad := float32(s.Padding)
	row := float32(s.RowHeight)
	y := r.Y + r.Height - footer + pad
	half := (r.Width - 3*pad) / 2
	if gui.Button(rl.NewRectangle(r.X+pad, y, half, row), "Kind: "+e.cfg.Kinds[e.kind]) {
		e.kind = (e.kind + 1) % len(e.cfg.Kinds)
	}
	if gui.Button(rl.NewRectangle(r.X+2*pad+half, y, half, row), "+ Add") {
		e.spawn()
	}
	y += row + pad
	third := (r.Width - 4*pad) / 3
	if gui.Button(rl.NewRectangle(r.X+pad, y, third, row), "Duplicate") {
		if _, err := e.layer.DuplicateSelected(); err != nil {
			e.log.Warn("duplicate failed", "err", err)
		}
	}
	if gui.Button(rl.NewRectangle(r.X+2*pad+third, y, third, row), "Delete") {
		e.layer.RequestRemoveSelected()
	}
	if gui.Button(rl.NewRectangle(r.X+3*pad+2*third, y, third, row), "Clear") {
		e.layer.ClearScene()
	}
}

func (e *Editor) vec3Sliders(c *column, label string, v mgl32.Vec3, lo, hi float32) (mgl32.Vec3, bool) {
	gui.Label(c.next(), label)
	out := v
	for i, cell := range c.split(3) {
		out[i] = gui.Slider(cell, "", fmt.Sprintf("%.1f", v[i]), v[i], lo, hi)
	}
	return out, out != v
}

func (e *Editor) drawInspector(r ui.Rect) {
	s := e.styles.Style("inspector", "")
	gui.Panel(rect(r), "Inspector")
	c := newColumn(r, s)

	o, ok := e.layer.Selected()
	if !ok {
		e.nameEdit, e.textureEdit = false, false
		gui.Label(c.next(), "Nothing selected")
		return
	}
	if uint64(o.ID()) != e.nameOwner {
		e.nameOwner = uint64(o.ID())
		e.nameBuf, e.nameEdit = o.Name, false
		e.textureBuf, e.textureEdit = o.Params.TexturePath, false
	}

	if gui.TextBox(c.labeled("Name"), &e.nameBuf, textBoxSize, e.nameEdit) {
		e.nameEdit = !e.nameEdit
		if !e.nameEdit && strings.TrimSpace(e.nameBuf) != "" {
			o.Name = strings.TrimSpace(e.nameBuf)
		}
	}
	o.Active = gui.CheckBox(c.next(), "Active", o.Active)

	if v, changed := e.vec3Sliders(c, "Position", o.Transform.Position(), -20, 20); changed {
		o.Transform.SetPosition(v)
	}
	if v, changed := e.vec3Sliders(c, "Rotation", o.Transform.Rotation(), -180, 180); changed {
		o.Transform.SetRotation(v)
	}
	if v, changed := e.vec3Sliders(c, "Scale", o.Transform.Scale(), 0.1, 10); changed {
		o.Transform.SetScale(v)
	}
	if v, changed := e.vec3Sliders(c, "Color", o.Params.Color, 0, 1); changed {
		e.layer.SetColor(o, v)
	}

	rot := c.split(2)
	on := gui.CheckBox(rl.NewRectangle(rot[0].X, rot[0].Y, rot[0].Height, rot[0].Height), "Spin", o.Params.AutoRotate)
	speed := gui.Slider(rot[1], "", fmt.Sprintf("%.0f", o.Params.RotateSpeed), o.Params.RotateSpeed, 1, 360)
	if on != o.Params.AutoRotate || speed != o.Params.RotateSpeed {
		e.layer.SetAutoRotate(o, on, speed)
	}

	tex := c.split(2)
	if gui.TextBox(tex[0], &e.textureBuf, textBoxSize, e.textureEdit) {
		e.textureEdit = !e.textureEdit
	}
	if gui.Button(tex[1], "Apply texture") {
		e.textureEdit = false
		path := strings.TrimSpace(e.textureBuf)
		if e.cfg.ResolveTexture != nil {
			path = e.cfg.ResolveTexture(path)
		}
		if err := e.layer.SetTexture(o, path); err != nil {
			e.log.Warn("texture not applied", "err", err)
		}
	}

	for _, f := range ui.InspectorFields(o) {
		switch f.Label {
		case "ID", "Source", "Texture", "Triangles":
			gui.Label(c.next(), f.Label+": "+f.Value)
		}
	}
}

func (e *Editor) drawSettings(r ui.Rect) {
	s := e.styles.Style("settings", "")
	gui.Panel(rect(r), "Scene")
	c := newColumn(r, s)

	cam := e.layer.Camera()
	cam.SetMovementSpeed(gui.Slider(c.labeled("Speed"), "", fmt.Sprintf("%.1f", cam.MovementSpeed()), cam.MovementSpeed(), 1, 20))
	cam.SetMouseSensitivity(gui.Slider(c.labeled("Look"), "", fmt.Sprintf("%.2f", cam.MouseSensitivity()), cam.MouseSensitivity(), 0.01, 1))
	if gui.Button(c.next(), "Reset camera") {
		e.layer.ResetCamera()
	}

	p := e.layer.Pipeline()
	st := p.Settings()
	toggles := c.split(2)
	p.EnableWireframe(gui.CheckBox(square(toggles[0]), "Wireframe", st.Wireframe))
	p.EnableDepthTest(gui.CheckBox(square(toggles[1]), "Depth test", st.DepthTest))
	toggles = c.split(2)
	p.EnableCullFace(gui.CheckBox(square(toggles[0]), "Cull faces", st.CullFace))
	e.layer.Panels.Grid = gui.CheckBox(square(toggles[1]), "Grid", e.layer.Panels.Grid)

	gui.Label(c.next(), "Clear color")
	cc := st.ClearColor
	for i, cell := range c.split(3) {
		cc[i] = gui.Slider(cell, "", fmt.Sprintf("%.2f", cc[i]), cc[i], 0, 1)
	}
	if cc != st.ClearColor {
		p.SetClearColor(cc)
	}

	stats := p.Stats()
	gui.Label(c.next(), fmt.Sprintf("Objects %d  Triangles %d", stats.Objects, stats.Triangles))
}

// square shrinks a cell to its height so raygui draws the checkbox with its label beside it.
func square(r rl.Rectangle) rl.Rectangle { return rl.NewRectangle(r.X, r.Y, r.Height, r.Height) }

func (e *Editor) drawConsole(r ui.Rect) {
	s := e.styles.Style("console", "")
	rl.DrawRectangleRec(rect(r), rl.NewColor(s.Background.R, s.Background.G, s.Background.B, s.Background.A))
	rl.DrawRectangle(int32(r.X), int32(r.Y), int32(r.Width), 1, rl.NewColor(s.Border.R, s.Border.G, s.Border.B, s.Border.A))

	pad := s.Padding
	lineH := s.FontSize + 4
	n := max(int(r.Height)/int(lineH)-2, 1)
	for i, line := range e.term.Visible(min(n, maxConsoleLines)) {
		e.cfg.Text.DrawText(line, int32(r.X)+pad, int32(r.Y)+pad+int32(i)*lineH, s.FontSize, s.Color)
	}

	barY := int32(r.Y+r.Height) - lineH - pad
	rl.DrawRectangle(int32(r.X), barY-pad/2, int32(r.Width), lineH+pad, rl.NewColor(40, 40, 40, 255))
	prompt := e.term.PromptLine()
	if !e.term.IsOpen() {
		prompt = "` to type a command, help for the list"
	}
	e.cfg.Text.DrawText(prompt, int32(r.X)+pad, barY, s.FontSize, promptColor)
}
