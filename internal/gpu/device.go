package gpu

import "github.com/go-gl/mathgl/mgl32"

// Vertex is the interleaved layout every geometry buffer uses:
// position, normal, texture coordinates, tangent, bitangent.
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	TexCoords mgl32.Vec2
	Tangent   mgl32.Vec3
	Bitangent mgl32.Vec3
}

// Image is decoded pixel data ready for upload. Pixels are tightly packed rows,
// Channels bytes per pixel (1, 2, 3 or 4).
type Image struct {
	Pixels   []byte
	Width    int
	Height   int
	Channels int
}

// Valid reports whether the pixel slice matches the declared dimensions.
func (img Image) Valid() bool {
	return img.Width > 0 && img.Height > 0 && img.Channels >= 1 && img.Channels <= 4 &&
		len(img.Pixels) == img.Width*img.Height*img.Channels
}

// WrapMode is the sampler addressing applied to a 2D texture.
type WrapMode uint8

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// TextureOptions controls how a 2D texture is uploaded.
type TextureOptions struct {
	Wrap    WrapMode
	Mipmaps bool
}

// ProgramSource holds the stage sources for one shader program. Geometry is optional.
type ProgramSource struct {
	Name     string
	Vertex   string
	Fragment string
	Geometry string
}

// RenderState is the fixed-function state applied at the start of a frame.
type RenderState struct {
	DepthTest   bool
	DepthWrite  bool
	CullFace    bool
	Wireframe   bool
	Multisample bool
}

// Device is the narrow graphics API the engine core talks to. The core never
// calls the native graphics library directly; a backend implements Device and
// tests use a recording fake. All methods must be called from the thread that
// owns the graphics context.
type Device interface {
	// CreateGeometry uploads vertices and indices and returns the three objects
	// that make up a geometry buffer. The backend may return InvalidID for the
	// vertex or index buffer when it stores them inside the layout object.
	CreateGeometry(vertices []Vertex, indices []uint32) (layout, vbo, ibo ID, err error)
	// DrawGeometry issues one indexed triangle draw with the current program.
	DrawGeometry(layout ID, indexCount int)

	CreateTexture(img Image, opts TextureOptions) (ID, error)
	// CreateCubemap uploads six faces in +X, -X, +Y, -Y, +Z, -Z order.
	CreateCubemap(faces [6]Image) (ID, error)
	// BindTexture attaches tex to a texture unit and points the sampler uniform
	// of program at it. Passing InvalidID for tex clears the unit.
	BindTexture(program ID, sampler string, unit int, kind Kind, tex ID)

	// CreateRenderTarget allocates a color+depth offscreen target.
	CreateRenderTarget(width, height int) (ID, error)
	// RenderTargetTexture returns the color attachment of a target.
	RenderTargetTexture(target ID) ID
	// BindRenderTarget redirects drawing to target; InvalidID selects the window surface.
	BindRenderTarget(target ID)

	CompileProgram(src ProgramSource) (ID, error)
	UseProgram(program ID)
	SetUniformInt(program ID, name string, v int32)
	SetUniformFloat(program ID, name string, v float32)
	SetUniformVec3(program ID, name string, v mgl32.Vec3)
	SetUniformVec4(program ID, name string, v mgl32.Vec4)
	SetUniformMat4(program ID, name string, v mgl32.Mat4)

	ApplyState(s RenderState)
	Clear(color mgl32.Vec4)

	// Release frees a native object of the given kind.
	Release(kind Kind, id ID)
}
