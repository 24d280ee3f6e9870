package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/mesh"
)

// ID identifies a scene object. IDs are handed out in increasing order and never reused.
type ID uint64

// IDAllocator hands out monotonically increasing IDs starting at 1.
type IDAllocator struct {
	last ID
}

// Next returns the next ID. Running out of IDs is unrecoverable.
func (a *IDAllocator) Next() ID {
	if a.last == ^ID(0) {
		panic("scene: object ID space exhausted")
	}
	a.last++
	return a.last
}

// Params are the editor-tunable knobs of an object.
type Params struct {
	AutoRotate  bool
	RotateSpeed float32 // degrees per second about Y
	Color       mgl32.Vec3
	UseColor    bool
	TexturePath string
}

// DefaultParams returns white, solid-colored, not rotating, 50°/s when rotation is enabled.
func DefaultParams() Params {
	return Params{
		RotateSpeed: 50,
		Color:       mgl32.Vec3{1, 1, 1},
		UseColor:    true,
	}
}

// Object is one entry in the scene: a named, optionally active model under a transform.
// The object owns its model and releases it when removed.
type Object struct {
	Name      string
	Active    bool
	Transform Transform
	Params    Params
	// Source names what the model was built from (a primitive name or a model path),
	// so the object can be rebuilt or duplicated.
	Source string

	// Identity and ownership stay with the original on Duplicate.
	id      ID          `copier:"-"`
	model   *mesh.Model `copier:"-"`
	removed bool        `copier:"-"`
}

func (o *Object) ID() ID { return o.id }

// Model returns the owned model; it may be nil for an empty object.
func (o *Object) Model() *mesh.Model { return o.model }

// Removed reports whether the object has been taken out of its registry.
// A removed object must not be used for anything but identity checks.
func (o *Object) Removed() bool { return o.removed }

// Update advances per-object animation by dt seconds.
func (o *Object) Update(dt float32) {
	if o.Params.AutoRotate {
		o.Transform.Rotate(mgl32.Vec3{0, o.Params.RotateSpeed * dt, 0})
	}
}

// SetColor records c and switches every mesh to solid shading with it.
func (o *Object) SetColor(c mgl32.Vec3) {
	o.Params.Color = c
	o.Params.UseColor = true
	o.Params.TexturePath = ""
	o.model.SetColor(c[0], c[1], c[2])
}

// SetTexture records path and switches every mesh to sample tex as its diffuse map.
func (o *Object) SetTexture(path string, tex mesh.Texture) {
	o.Params.TexturePath = path
	o.Params.UseColor = false
	tex.Role = mesh.RoleDiffuse
	tex.Path = path
	o.model.SetTextures([]mesh.Texture{tex})
}
