package objfile

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/gpu/gputest"
	"wildfox-engine/internal/importer"
	"wildfox-engine/internal/mesh"
)

const quadOBJ = `
o quad
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl red
f 1/1/1 2/2/1 3/3/1 4/4/1
`

const quadMTL = `
newmtl red
Kd 1 0 0
map_Kd brick.png
`

func TestParseTriangulatesAndShares(t *testing.T) {
	parts, err := Importer{Scale: 2}.Parse(strings.NewReader(quadOBJ), strings.NewReader(quadMTL))
	require.NoError(t, err)
	require.Len(t, parts, 1)

	p := parts[0]
	assert.Equal(t, "red", p.Name)
	assert.Len(t, p.Data.Vertices, 4, "shared corners are deduplicated")
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, p.Data.Indices)
	assert.Equal(t, mgl32.Vec3{-2, -2, 0}, p.Data.Vertices[0].Position)
	assert.Equal(t, mgl32.Vec2{1, 1}, p.Data.Vertices[2].TexCoords)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, p.Data.Vertices[3].Normal)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, p.Color)
	assert.Equal(t, []importer.TextureRef{{Path: "brick.png", Role: mesh.RoleDiffuse}}, p.Textures)
	assert.NoError(t, p.Data.Validate())
}

func TestDiffuseMapBecomesDiffuseTexture(t *testing.T) {
	mtl := "newmtl red\nKd 0.5 0.25 1\nmap_Kd textures/wall.jpg\n"
	parts, err := Importer{}.Parse(strings.NewReader(quadOBJ), strings.NewReader(mtl))
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, []importer.TextureRef{{Path: "textures/wall.jpg", Role: mesh.RoleDiffuse}}, parts[0].Textures)
	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 1}, parts[0].Color)
}

func TestMissingNormalsUseFaceNormal(t *testing.T) {
	src := "o tri\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl red\nf 1 2 3\n"
	parts, err := Importer{}.Parse(strings.NewReader(src), strings.NewReader(quadMTL))
	require.NoError(t, err)
	require.Len(t, parts, 1)
	for _, v := range parts[0].Data.Vertices {
		assert.Equal(t, mgl32.Vec3{0, 0, 1}, v.Normal)
	}
}

func TestBuildUploadsParts(t *testing.T) {
	parts, err := Importer{}.Parse(strings.NewReader(quadOBJ), strings.NewReader(quadMTL))
	require.NoError(t, err)
	dev := gputest.New()

	model, err := importer.Build(dev, nil, "models/quad.obj", parts)
	require.NoError(t, err)
	assert.Equal(t, 2, model.TriangleCount())
	mat := model.Meshes()[0].Material
	assert.True(t, mat.UseColor(), "no cache means no textures")
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, mat.Color())

	model.Release()
	assert.Zero(t, dev.Live(gpu.KindVertexBuffer))
}

func TestRegistryDispatchesByExtension(t *testing.T) {
	r := importer.NewRegistry(nil)
	r.Register(".OBJ", Importer{})
	assert.True(t, r.Supports("a/b/model.obj"))
	assert.False(t, r.Supports("model.fbx"))

	_, err := r.Import("model.fbx")
	assert.ErrorIs(t, err, importer.ErrUnsupported)
}
