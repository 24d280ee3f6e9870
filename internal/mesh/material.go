package mesh

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/gpu"
)

// TextureRole says what a texture is sampled for. Each role numbers its own samplers from 1.
type TextureRole uint8

const (
	RoleDiffuse TextureRole = iota
	RoleSpecular
	RoleNormal
	RoleHeight
)

func (r TextureRole) String() string {
	switch r {
	case RoleSpecular:
		return "texture_specular"
	case RoleNormal:
		return "texture_normal"
	case RoleHeight:
		return "texture_height"
	}
	return "texture_diffuse"
}

// ParseRole maps a role name ("diffuse", "texture_normal", ...) to a TextureRole.
func ParseRole(s string) (TextureRole, bool) {
	switch s {
	case "diffuse", "texture_diffuse":
		return RoleDiffuse, true
	case "specular", "texture_specular":
		return RoleSpecular, true
	case "normal", "texture_normal":
		return RoleNormal, true
	case "height", "texture_height":
		return RoleHeight, true
	}
	return RoleDiffuse, false
}

// Texture is a reference to a texture owned by the texture cache.
type Texture struct {
	ID   gpu.ID
	Role TextureRole
	Path string
}

// Material decides how a mesh is shaded: either one solid color or a set of
// role-tagged textures. The two modes are exclusive.
type Material struct {
	useColor bool
	color    mgl32.Vec3
	textures []Texture
}

// SolidMaterial shades with a single RGB color.
func SolidMaterial(color mgl32.Vec3) *Material {
	return &Material{useColor: true, color: color}
}

// TexturedMaterial samples the given textures. Invalid texture IDs are dropped;
// with nothing left the material falls back to solid white.
func TexturedMaterial(textures []Texture) *Material {
	m := &Material{}
	for _, t := range textures {
		if t.ID != gpu.InvalidID {
			m.textures = append(m.textures, t)
		}
	}
	if len(m.textures) == 0 {
		return SolidMaterial(mgl32.Vec3{1, 1, 1})
	}
	return m
}

func (m *Material) UseColor() bool { return m.useColor }

func (m *Material) Color() mgl32.Vec3 { return m.color }

// SetColor switches the material to solid mode.
func (m *Material) SetColor(c mgl32.Vec3) {
	m.useColor = true
	m.color = c
	m.textures = nil
}

// Textures returns a copy of the bound texture references.
func (m *Material) Textures() []Texture {
	return append([]Texture(nil), m.textures...)
}

// SamplerNames returns the uniform name each texture binds to, in unit order:
// "material.texture_diffuse1", "material.texture_diffuse2", "material.texture_normal1", ...
func (m *Material) SamplerNames() []string {
	var counts [4]int
	names := make([]string, len(m.textures))
	for i, t := range m.textures {
		counts[t.Role]++
		names[i] = "material." + t.Role.String() + strconv.Itoa(counts[t.Role])
	}
	return names
}

// Bind writes the shading mode and either the color or every sampler to p.
func (m *Material) Bind(p *gpu.Program) {
	p.SetBool("useColor", m.useColor)
	if m.useColor {
		p.SetVec3("material.color", m.color)
		return
	}
	for i, name := range m.SamplerNames() {
		p.SetSampler(name, i, gpu.KindTexture2D, m.textures[i].ID)
	}
}

// Unbind clears every texture unit Bind used.
func (m *Material) Unbind(p *gpu.Program) {
	if m.useColor {
		return
	}
	for i := range m.textures {
		p.SetSampler("", i, gpu.KindTexture2D, gpu.InvalidID)
	}
}

// Clone returns an independent copy. Texture IDs stay shared with the cache that owns them.
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	c := *m
	c.textures = append([]Texture(nil), m.textures...)
	return &c
}
