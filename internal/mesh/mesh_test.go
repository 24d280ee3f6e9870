package mesh_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/gpu/gputest"
	"wildfox-engine/internal/mesh"
)

func triangle() mesh.Data {
	return mesh.Data{
		Vertices: []gpu.Vertex{
			{Position: mgl32.Vec3{0, 0, 0}},
			{Position: mgl32.Vec3{1, 0, 0}},
			{Position: mgl32.Vec3{0, 1, 0}},
		},
		Indices: []uint32{0, 1, 2},
	}
}

func TestNewGeometryRejectsBadData(t *testing.T) {
	dev := gputest.New()

	_, err := mesh.NewGeometry(dev, mesh.Data{})
	assert.Error(t, err)

	bad := triangle()
	bad.Indices = []uint32{0, 1, 3}
	_, err = mesh.NewGeometry(dev, bad)
	assert.Error(t, err)
	assert.Zero(t, dev.LiveTotal())
}

// noLayoutDevice uploads buffers but reports no vertex layout, without an error.
type noLayoutDevice struct {
	*gputest.Device
}

func (d noLayoutDevice) CreateGeometry(v []gpu.Vertex, i []uint32) (gpu.ID, gpu.ID, gpu.ID, error) {
	layout, vbo, ibo, err := d.Device.CreateGeometry(v, i)
	if err != nil {
		return layout, vbo, ibo, err
	}
	d.Device.Release(gpu.KindVertexLayout, layout)
	return gpu.InvalidID, vbo, ibo, nil
}

func TestNewGeometryFreesBuffersWhenLayoutMissing(t *testing.T) {
	dev := noLayoutDevice{gputest.New()}

	g, err := mesh.NewGeometry(dev, triangle())
	assert.ErrorIs(t, err, gpu.ErrInvalidHandle)
	assert.Nil(t, g)
	assert.Equal(t, 1, dev.Created(gpu.KindVertexBuffer))
	assert.Equal(t, 1, dev.Created(gpu.KindIndexBuffer))
	assert.Zero(t, dev.LiveTotal())
}

func TestGeometryReleaseFreesAllBuffers(t *testing.T) {
	dev := gputest.New()
	g, err := mesh.NewGeometry(dev, triangle())
	require.NoError(t, err)
	assert.Equal(t, 3, dev.LiveTotal())

	g.Release()
	g.Release()
	assert.Zero(t, dev.LiveTotal())
	assert.False(t, g.Valid())
}

func TestSamplerNamesCountPerRole(t *testing.T) {
	m := mesh.TexturedMaterial([]mesh.Texture{
		{ID: 1, Role: mesh.RoleDiffuse},
		{ID: 2, Role: mesh.RoleDiffuse},
		{ID: 3, Role: mesh.RoleSpecular},
		{ID: 4, Role: mesh.RoleNormal},
		{ID: 5, Role: mesh.RoleDiffuse},
	})
	assert.Equal(t, []string{
		"material.texture_diffuse1",
		"material.texture_diffuse2",
		"material.texture_specular1",
		"material.texture_normal1",
		"material.texture_diffuse3",
	}, m.SamplerNames())
}

func TestTexturedMaterialBindsUnits(t *testing.T) {
	dev := gputest.New()
	p := gpu.CompileProgram(dev, gpu.ProgramSource{Name: "lit", Vertex: "v", Fragment: "f"}, nil)
	m := mesh.TexturedMaterial([]mesh.Texture{{ID: 11, Role: mesh.RoleDiffuse}, {ID: 12, Role: mesh.RoleHeight}})

	m.Bind(p)
	useColor, _ := dev.Uniform(p.ID(), "useColor")
	assert.Equal(t, int32(0), useColor)
	require.Len(t, dev.Bindings, 2)
	assert.Equal(t, gputest.Binding{Program: p.ID(), Sampler: "material.texture_diffuse1", Unit: 0, Kind: gpu.KindTexture2D, Texture: 11}, dev.Bindings[0])
	assert.Equal(t, "material.texture_height1", dev.Bindings[1].Sampler)
	assert.Equal(t, 1, dev.Bindings[1].Unit)

	m.Unbind(p)
	require.Len(t, dev.Bindings, 4)
	assert.Equal(t, gpu.InvalidID, dev.Bindings[2].Texture)
	assert.Equal(t, gpu.InvalidID, dev.Bindings[3].Texture)
}

func TestSolidMaterialSetsColorOnly(t *testing.T) {
	dev := gputest.New()
	p := gpu.CompileProgram(dev, gpu.ProgramSource{Name: "lit", Vertex: "v", Fragment: "f"}, nil)
	m := mesh.SolidMaterial(mgl32.Vec3{0.2, 0.4, 0.6})

	m.Bind(p)
	m.Unbind(p)
	c, ok := dev.Uniform(p.ID(), "material.color")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{0.2, 0.4, 0.6}, c)
	assert.Empty(t, dev.Bindings)
}

func TestTexturedMaterialWithoutValidTexturesFallsBackToSolid(t *testing.T) {
	m := mesh.TexturedMaterial([]mesh.Texture{{ID: gpu.InvalidID}})
	assert.True(t, m.UseColor())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, m.Color())
}

func TestModelDrawsEveryMesh(t *testing.T) {
	dev := gputest.New()
	p := gpu.CompileProgram(dev, gpu.ProgramSource{Name: "lit", Vertex: "v", Fragment: "f"}, nil)
	p.Use()

	g1, err := mesh.NewGeometry(dev, triangle())
	require.NoError(t, err)
	g2, err := mesh.NewGeometry(dev, triangle())
	require.NoError(t, err)
	model := mesh.NewModel("pair",
		&mesh.Mesh{Geometry: g1, Material: mesh.SolidMaterial(mgl32.Vec3{1, 0, 0})},
		&mesh.Mesh{Geometry: g2, Material: mesh.SolidMaterial(mgl32.Vec3{0, 1, 0})},
	)

	model.Draw(p)
	require.Len(t, dev.Draws, 2)
	assert.Equal(t, 3, dev.Draws[0].IndexCount)
	assert.Equal(t, 2, model.TriangleCount())

	model.Release()
	assert.Equal(t, 1, dev.LiveTotal(), "only the program stays alive")
}

func TestCopyMaterialsClones(t *testing.T) {
	dev := gputest.New()
	g1, err := mesh.NewGeometry(dev, triangle())
	require.NoError(t, err)
	g2, err := mesh.NewGeometry(dev, triangle())
	require.NoError(t, err)

	src := mesh.NewModel("a", &mesh.Mesh{Geometry: g1, Material: mesh.SolidMaterial(mgl32.Vec3{1, 0, 0})})
	dst := mesh.NewModel("b", &mesh.Mesh{Geometry: g2, Material: mesh.SolidMaterial(mgl32.Vec3{0, 0, 1})})

	dst.CopyMaterials(src)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, dst.Meshes()[0].Material.Color())

	dst.SetColor(0, 1, 0)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, src.Meshes()[0].Material.Color(), "source untouched")
	assert.NotSame(t, src.Meshes()[0].Geometry, dst.Meshes()[0].Geometry)
}
