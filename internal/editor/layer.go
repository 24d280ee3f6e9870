// Package editor is the scene editing layer: selection, hierarchy and inspector access,
// create/remove/duplicate requests and viewport reporting. It holds no drawing code, so
// any UI toolkit can sit on top of it.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"unicode"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/camera"
	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/mesh"
	"wildfox-engine/internal/render"
	"wildfox-engine/internal/scene"
	"wildfox-engine/internal/texture"
)

// Default sizes before the UI reports a real viewport.
const (
	DefaultViewportWidth  = 800
	DefaultViewportHeight = 600
	// SpawnDistance is how far in front of the camera new objects appear.
	SpawnDistance = 3
)

// ErrNoSelection is returned by operations that act on the selected object.
var ErrNoSelection = errors.New("editor: nothing selected")

// Factory builds a fresh model for a kind such as "cube". The core decides what a kind means.
type Factory func(kind string) (*mesh.Model, error)

// Rect is a viewport region in window pixels.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Panels are the visibility flags of the editor windows.
type Panels struct {
	Hierarchy bool
	Inspector bool
	Settings  bool
	Console   bool
	Grid      bool
}

// Entry is one hierarchy row.
type Entry struct {
	ID       scene.ID
	Name     string
	Active   bool
	Selected bool
}

// Deps are the collaborators a Layer edits. Registry, Camera and Pipeline are required.
type Deps struct {
	Registry *scene.Registry
	Camera   *camera.Camera
	Pipeline *render.Pipeline
	Target   *render.Target
	Textures *texture.Cache
	Shaders  *render.ShaderLibrary
	Factory  Factory
	Log      *slog.Logger
}

// Layer mediates between editor widgets and the core.
type Layer struct {
	reg      *scene.Registry
	cam      *camera.Camera
	pipe     *render.Pipeline
	target   *render.Target
	textures *texture.Cache
	shaders  *render.ShaderLibrary
	factory  Factory
	sel      *scene.Selection
	log      *slog.Logger

	Panels Panels

	viewport    Rect
	controlling bool
	spawned     map[string]int

	// OnCameraControl runs when camera-control mode flips, so the shell can capture or
	// release the cursor.
	OnCameraControl func(on bool)
	// DefaultKind is what RequestCreate builds when called with an empty kind.
	DefaultKind string
}

// New returns a layer with all panels visible and the default viewport size.
func New(d Deps) *Layer {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Layer{
		reg:         d.Registry,
		cam:         d.Camera,
		pipe:        d.Pipeline,
		target:      d.Target,
		textures:    d.Textures,
		shaders:     d.Shaders,
		factory:     d.Factory,
		sel:         scene.NewSelection(d.Registry),
		log:         d.Log,
		Panels:      Panels{Hierarchy: true, Inspector: true, Settings: true, Grid: true},
		viewport:    Rect{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		spawned:     map[string]int{},
		DefaultKind: "cube",
	}
}

func (l *Layer) Registry() *scene.Registry   { return l.reg }
func (l *Layer) Camera() *camera.Camera      { return l.cam }
func (l *Layer) Pipeline() *render.Pipeline  { return l.pipe }
func (l *Layer) Target() *render.Target      { return l.target }
func (l *Layer) Selection() *scene.Selection { return l.sel }

// Selected returns the selected object if it is still in the scene.
func (l *Layer) Selected() (*scene.Object, bool) { return l.sel.Get() }

// Select selects id. Unknown ids clear the selection and return false.
func (l *Layer) Select(id scene.ID) bool { return l.sel.SetID(id) }

// Deselect clears the selection.
func (l *Layer) Deselect() { l.sel.Clear() }

// IsSelected reports whether id is the live selection.
func (l *Layer) IsSelected(id scene.ID) bool {
	o, ok := l.sel.Get()
	return ok && o.ID() == id
}

// Hierarchy lists every object, active or not, in ID order.
func (l *Layer) Hierarchy() []Entry {
	objs := l.reg.Objects()
	out := make([]Entry, 0, len(objs))
	for _, o := range objs {
		out = append(out, Entry{ID: o.ID(), Name: o.Name, Active: o.Active, Selected: l.sel.Is(o)})
	}
	return out
}

func (l *Layer) nextName(kind string) string {
	l.spawned[kind]++
	base := "Object"
	if r, size := utf8.DecodeRuneInString(kind); size > 0 {
		base = string(unicode.ToUpper(r)) + kind[size:]
	}
	return fmt.Sprintf("%s%d", base, l.spawned[kind])
}

// RequestCreate builds kind through the factory and places it SpawnDistance units in
// front of the camera. The new object becomes the selection.
func (l *Layer) RequestCreate(kind string) (scene.ID, error) {
	if kind == "" {
		kind = l.DefaultKind
	}
	if kind == "" {
		return 0, errors.New("editor: create: no kind given and no default kind")
	}
	if l.factory == nil {
		return 0, fmt.Errorf("editor: create %q: no factory", kind)
	}
	model, err := l.factory(kind)
	if err != nil {
		return 0, fmt.Errorf("editor: create %q: %w", kind, err)
	}
	t := scene.NewTransform()
	t.SetPosition(l.cam.Position().Add(l.cam.Front().Mul(SpawnDistance)))
	id := l.reg.Create(l.nextName(kind), model, &t)
	if o, ok := l.reg.Get(id); ok {
		o.Source = kind
	}
	l.sel.SetID(id)
	l.log.Info("object created", "id", id, "kind", kind)
	return id, nil
}

// RequestRemoveSelected removes the selection. It reports false when nothing is selected.
func (l *Layer) RequestRemoveSelected() bool {
	o, ok := l.sel.Get()
	if !ok {
		return false
	}
	return l.reg.Remove(o.ID())
}

// Remove removes id; the selection follows automatically.
func (l *Layer) Remove(id scene.ID) bool { return l.reg.Remove(id) }

// DuplicateSelected rebuilds the selected object's source and copies its state and
// materials onto the new object, offset one unit along +X. The duplicate becomes the selection.
func (l *Layer) DuplicateSelected() (scene.ID, error) {
	o, ok := l.sel.Get()
	if !ok {
		return 0, ErrNoSelection
	}
	if l.factory == nil {
		return 0, errors.New("editor: duplicate: no factory")
	}
	model, err := l.factory(o.Source)
	if err != nil {
		return 0, fmt.Errorf("editor: duplicate %q: %w", o.Source, err)
	}
	id, err := l.reg.Duplicate(o.ID(), model)
	if err != nil {
		model.Release()
		return 0, err
	}
	dup, _ := l.reg.Get(id)
	dup.Transform.Translate(mgl32.Vec3{1, 0, 0})
	dup.Model().CopyMaterials(o.Model())
	l.sel.SetID(id)
	return id, nil
}

// ClearScene removes every object.
func (l *Layer) ClearScene() {
	l.reg.Clear()
	l.log.Info("scene cleared")
}

// SetColor recolors o.
func (l *Layer) SetColor(o *scene.Object, c mgl32.Vec3) {
	if o == nil || o.Removed() {
		return
	}
	o.SetColor(c)
}

// SetTexture loads path through the texture cache and applies it to o. A load failure
// leaves o unchanged.
func (l *Layer) SetTexture(o *scene.Object, path string) error {
	if o == nil || o.Removed() {
		return ErrNoSelection
	}
	if l.textures == nil {
		return errors.New("editor: no texture cache")
	}
	id := l.textures.Load(path)
	if id == gpu.InvalidID {
		return fmt.Errorf("editor: texture %q could not be loaded", path)
	}
	o.SetTexture(path, mesh.Texture{ID: id})
	return nil
}

// SetAutoRotate toggles o's spin. A speed of zero keeps the current speed.
func (l *Layer) SetAutoRotate(o *scene.Object, on bool, speed float32) {
	if o == nil || o.Removed() {
		return
	}
	o.Params.AutoRotate = on
	if speed != 0 {
		o.Params.RotateSpeed = speed
	}
}

// ReloadShader recompiles a program from disk; the old one stays on failure.
func (l *Layer) ReloadShader(name string) bool {
	if l.shaders == nil {
		return false
	}
	return l.shaders.Reload(name)
}

// ReportViewport records where the UI drew the scene image. The offscreen target is
// reallocated only when the size changes to a positive value. It reports whether a
// reallocation happened.
func (l *Layer) ReportViewport(r Rect) bool {
	l.viewport.X, l.viewport.Y = r.X, r.Y
	if r.Width <= 0 || r.Height <= 0 {
		return false
	}
	l.viewport.Width, l.viewport.Height = r.Width, r.Height
	if l.target == nil {
		return false
	}
	changed, err := l.target.Resize(r.Width, r.Height)
	if err != nil {
		l.log.Error("viewport resize failed", "width", r.Width, "height", r.Height, "err", err)
		return false
	}
	return changed
}

// Viewport is the last reported region with a positive size.
func (l *Layer) Viewport() Rect { return l.viewport }

// ViewportTexture is the color texture of the offscreen target. Fetch it every frame;
// a resize replaces it.
func (l *Layer) ViewportTexture() gpu.ID { return l.target.TextureID() }

// ControllingCamera reports whether mouse-look and WASD drive the camera.
func (l *Layer) ControllingCamera() bool { return l.controlling }

// SetCameraControl enters or leaves camera-control mode.
func (l *Layer) SetCameraControl(on bool) {
	if l.controlling == on {
		return
	}
	l.controlling = on
	if l.OnCameraControl != nil {
		l.OnCameraControl(on)
	}
}

// ToggleCameraControl flips camera-control mode.
func (l *Layer) ToggleCameraControl() { l.SetCameraControl(!l.controlling) }

// ResetCamera puts the camera back at the default start position.
func (l *Layer) ResetCamera() { l.cam.Reset(mgl32.Vec3{0, 0, 3}) }
