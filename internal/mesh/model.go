package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/gpu"
)

// Mesh pairs one geometry buffer with one material. The mesh owns its geometry.
type Mesh struct {
	Geometry *Geometry
	Material *Material
}

// Draw binds the material, draws the geometry and unbinds the material.
func (m *Mesh) Draw(p *gpu.Program) {
	if m == nil || !m.Geometry.Valid() {
		return
	}
	if m.Material != nil {
		m.Material.Bind(p)
	}
	m.Geometry.Draw()
	if m.Material != nil {
		m.Material.Unbind(p)
	}
}

// Release frees the geometry. Textures belong to the cache and are left alone.
func (m *Mesh) Release() {
	if m == nil {
		return
	}
	m.Geometry.Release()
}

// Model is an ordered list of meshes drawn together under one transform.
type Model struct {
	Name   string
	meshes []*Mesh
}

// NewModel takes ownership of meshes.
func NewModel(name string, meshes ...*Mesh) *Model {
	return &Model{Name: name, meshes: meshes}
}

func (m *Model) Meshes() []*Mesh { return m.meshes }

// Add appends a mesh the model now owns.
func (m *Model) Add(mesh *Mesh) { m.meshes = append(m.meshes, mesh) }

// Draw draws every mesh in order with p.
func (m *Model) Draw(p *gpu.Program) {
	if m == nil {
		return
	}
	for _, mesh := range m.meshes {
		mesh.Draw(p)
	}
}

// Release frees all owned meshes.
func (m *Model) Release() {
	if m == nil {
		return
	}
	for _, mesh := range m.meshes {
		mesh.Release()
	}
	m.meshes = nil
}

// TriangleCount sums triangles over all meshes.
func (m *Model) TriangleCount() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, mesh := range m.meshes {
		if mesh.Geometry != nil {
			n += mesh.Geometry.IndexCount() / 3
		}
	}
	return n
}

// SetColor puts every mesh material into solid mode with the given color.
func (m *Model) SetColor(r, g, b float32) {
	if m == nil {
		return
	}
	for _, mesh := range m.meshes {
		if mesh.Material == nil {
			mesh.Material = SolidMaterial(mgl32.Vec3{r, g, b})
			continue
		}
		mesh.Material.SetColor(mgl32.Vec3{r, g, b})
	}
}

// SetTextures replaces every mesh material with a textured one.
func (m *Model) SetTextures(textures []Texture) {
	if m == nil {
		return
	}
	for _, mesh := range m.meshes {
		mesh.Material = TexturedMaterial(textures)
	}
}

// CopyMaterials gives each mesh a clone of the material at the same index in src.
// Meshes beyond src's count keep their own material.
func (m *Model) CopyMaterials(src *Model) {
	if m == nil || src == nil {
		return
	}
	for i, mesh := range m.meshes {
		if i >= len(src.meshes) {
			break
		}
		if mat := src.meshes[i].Material; mat != nil {
			mesh.Material = mat.Clone()
		}
	}
}
