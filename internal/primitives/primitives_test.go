package primitives

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/gpu/gputest"
	"wildfox-engine/internal/mesh"
)

// outward checks every triangle winds counter-clockwise seen from outside a convex shape centered on the origin.
func outward(t *testing.T, d mesh.Data) {
	t.Helper()
	for i := 0; i < len(d.Indices); i += 3 {
		a := d.Vertices[d.Indices[i]].Position
		b := d.Vertices[d.Indices[i+1]].Position
		c := d.Vertices[d.Indices[i+2]].Position
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Len() < 1e-7 {
			continue
		}
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		assert.Greater(t, n.Dot(centroid), float32(0), "triangle %d faces inward", i/3)
	}
}

func TestCubeShape(t *testing.T) {
	d := Cube(1, 1, 1)
	require.NoError(t, d.Validate())
	assert.Len(t, d.Vertices, 24)
	assert.Len(t, d.Indices, 36)
	for _, v := range d.Vertices {
		for _, c := range v.Position {
			assert.LessOrEqual(t, abs(c), float32(0.5))
		}
		assert.InDelta(t, 1, v.Normal.Len(), 1e-5)
		assert.InDelta(t, 0, v.Normal.Dot(v.Tangent), 1e-5)
	}
	outward(t, d)
}

func TestSphereAndCylinderWindOutward(t *testing.T) {
	s := Sphere(0.5, 8, 12)
	require.NoError(t, s.Validate())
	outward(t, s)

	c := Cylinder(0.5, 1, 12)
	require.NoError(t, c.Validate())
	outward(t, c)
}

func TestPlaneTilesUVs(t *testing.T) {
	d := Plane(50, 20)
	require.NoError(t, d.Validate())
	maxU := float32(0)
	for _, v := range d.Vertices {
		assert.Equal(t, mgl32.Vec3{0, 1, 0}, v.Normal)
		assert.Zero(t, v.Position.Y())
		maxU = max(maxU, v.TexCoords.X())
	}
	assert.Equal(t, float32(20), maxU)
}

func TestQuadFacesPositiveZ(t *testing.T) {
	d := Quad()
	assert.Len(t, d.Vertices, 4)
	for _, v := range d.Vertices {
		assert.Equal(t, mgl32.Vec3{0, 0, 1}, v.Normal)
		assert.Equal(t, mgl32.Vec3{1, 0, 0}, v.Tangent)
		assert.Equal(t, mgl32.Vec3{0, 1, 0}, v.Bitangent)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.InDelta(t, 1, c[0], 1e-6)
	assert.InDelta(t, 128.0/255, c[1], 1e-6)
	assert.Zero(t, c[2])

	c, err = ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, c)

	c, err = ParseColor("0.2, 0.4, 2")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{0.2, 0.4, 1}, c)

	_, err = ParseColor("#12")
	assert.Error(t, err)
}

func TestLoadDefsRegistersByFileName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crate.yaml"), []byte("type: cube\nsize: [2, 2, 2]\ncolor: \"#a0522d\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bogus.yml"), []byte("type: teapot\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	r := NewRegistry(nil)
	err := r.LoadDefs(dir)
	assert.ErrorContains(t, err, "teapot")

	def, ok := r.Def("crate")
	require.True(t, ok)
	assert.Equal(t, "cube", def.Type)
	assert.Contains(t, r.Names(), "crate")
	assert.NotContains(t, r.Names(), "bogus")

	d, err := r.Data("crate")
	require.NoError(t, err)
	for _, v := range d.Vertices {
		assert.LessOrEqual(t, abs(v.Position.X()), float32(1.0001))
	}
}

func TestLoadDefsMissingDir(t *testing.T) {
	assert.NoError(t, NewRegistry(nil).LoadDefs(filepath.Join(t.TempDir(), "nope")))
}

func TestBuildGivesEachCallOwnGeometry(t *testing.T) {
	dev := gputest.New()
	r := NewRegistry(nil)

	a, err := r.Build(dev, "cube")
	require.NoError(t, err)
	b, err := r.Build(dev, "cube")
	require.NoError(t, err)
	assert.NotSame(t, a.Meshes()[0].Geometry, b.Meshes()[0].Geometry)
	assert.Equal(t, 12, a.TriangleCount())
	assert.True(t, a.Meshes()[0].Material.UseColor())

	a.Release()
	assert.True(t, b.Meshes()[0].Geometry.Valid())

	_, err = r.Build(dev, "teapot")
	assert.Error(t, err)
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func TestCustomGeneratorLeavesBuiltinTypeAlone(t *testing.T) {
	r := NewRegistry(nil)
	big := func(PrimitiveDef) mesh.Data { return Cube(4, 4, 4) }
	require.NoError(t, r.Register("bigcube", PrimitiveDef{Type: "cube"}, big))

	d, err := r.Data("bigcube")
	require.NoError(t, err)
	assert.Equal(t, float32(2), maxAbsX(d))

	d, err = r.Data("cube")
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), maxAbsX(d))

	// Re-registering without a generator falls back to the type's.
	require.NoError(t, r.Register("bigcube", PrimitiveDef{Type: "cube"}, nil))
	d, err = r.Data("bigcube")
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), maxAbsX(d))
}

func TestCustomGeneratorAllowsNewType(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register("hill", PrimitiveDef{Type: "mound"}, func(PrimitiveDef) mesh.Data { return Quad() }))
	_, err := r.Data("hill")
	assert.NoError(t, err)
	assert.Error(t, r.Register("other", PrimitiveDef{Type: "mound"}, nil))
}

func TestBuildLoadsDefinitionTexture(t *testing.T) {
	dev := gputest.New()
	r := NewRegistry(nil)
	require.NoError(t, r.Register("crate", PrimitiveDef{Type: "cube", Texture: "container"}, nil))

	// No loader: solid color.
	m, err := r.Build(dev, "crate")
	require.NoError(t, err)
	assert.True(t, m.Meshes()[0].Material.UseColor())
	m.Release()

	var asked []string
	r.SetTextureLoader(func(path string) gpu.ID {
		asked = append(asked, path)
		return 7
	})
	m, err = r.Build(dev, "crate")
	require.NoError(t, err)
	mat := m.Meshes()[0].Material
	assert.False(t, mat.UseColor())
	assert.Equal(t, []mesh.Texture{{ID: 7, Role: mesh.RoleDiffuse, Path: "container"}}, mat.Textures())
	assert.Equal(t, []string{"container"}, asked)

	// Definitions without a texture never reach the loader.
	_, err = r.Build(dev, "cube")
	require.NoError(t, err)
	assert.Len(t, asked, 1)
}

func TestBuildFallsBackToColorWhenTextureFails(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register("crate", PrimitiveDef{Type: "cube", Color: "#ff0000", Texture: "missing"}, nil))
	r.SetTextureLoader(func(string) gpu.ID { return gpu.InvalidID })

	m, err := r.Build(gputest.New(), "crate")
	require.NoError(t, err)
	mat := m.Meshes()[0].Material
	assert.True(t, mat.UseColor())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, mat.Color())
}

func maxAbsX(d mesh.Data) float32 {
	var m float32
	for _, v := range d.Vertices {
		m = max(m, abs(v.Position.X()))
	}
	return m
}
