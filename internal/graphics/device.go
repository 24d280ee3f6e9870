package graphics

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/texture"
)

// Raylib's material maps 0..6 are bound as 2D textures, 7 (cubemap) as a cube texture.
const max2DUnits = rl.MapCubemap

type meshEntry struct {
	mesh rl.Mesh
	pin  runtime.Pinner

	positions []float32
	normals   []float32
	texcoords []float32
	tangents  []float32
	indices   []uint16
}

type programEntry struct {
	shader   rl.Shader
	material rl.Material
	locs     map[string]int32
}

type targetEntry struct {
	rt  rl.RenderTexture2D
	tex gpu.ID
}

// Device is the raylib implementation of gpu.Device. IDs are allocated by the device,
// so every native object gets an engine-wide unique ID regardless of its kind.
type Device struct {
	log  *slog.Logger
	next gpu.ID

	meshes   map[gpu.ID]*meshEntry
	buffers  map[gpu.ID]bool
	textures map[gpu.ID]rl.Texture2D
	borrowed map[gpu.ID]bool
	targets  map[gpu.ID]*targetEntry
	programs map[gpu.ID]*programEntry

	current gpu.ID
	bound   gpu.ID
	state   gpu.RenderState
}

// NewDevice must be called after the window has been created.
func NewDevice(log *slog.Logger) *Device {
	if log == nil {
		log = slog.Default()
	}
	return &Device{
		log:      log,
		meshes:   map[gpu.ID]*meshEntry{},
		buffers:  map[gpu.ID]bool{},
		textures: map[gpu.ID]rl.Texture2D{},
		borrowed: map[gpu.ID]bool{},
		targets:  map[gpu.ID]*targetEntry{},
		programs: map[gpu.ID]*programEntry{},
	}
}

func (d *Device) alloc() gpu.ID {
	d.next++
	return d.next
}

func (d *Device) CreateGeometry(vertices []gpu.Vertex, indices []uint32) (layout, vbo, ibo gpu.ID, err error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return 0, 0, 0, errors.New("graphics: empty geometry")
	}
	if len(vertices) > math.MaxUint16+1 {
		return 0, 0, 0, fmt.Errorf("graphics: %d vertices exceed 16-bit indices", len(vertices))
	}
	e := &meshEntry{
		positions: make([]float32, 0, 3*len(vertices)),
		normals:   make([]float32, 0, 3*len(vertices)),
		texcoords: make([]float32, 0, 2*len(vertices)),
		tangents:  make([]float32, 0, 4*len(vertices)),
		indices:   make([]uint16, len(indices)),
	}
	for _, v := range vertices {
		e.positions = append(e.positions, v.Position[0], v.Position[1], v.Position[2])
		e.normals = append(e.normals, v.Normal[0], v.Normal[1], v.Normal[2])
		e.texcoords = append(e.texcoords, v.TexCoords[0], v.TexCoords[1])
		e.tangents = append(e.tangents, v.Tangent[0], v.Tangent[1], v.Tangent[2], 1)
	}
	for i, idx := range indices {
		e.indices[i] = uint16(idx)
	}
	// The C side keeps these pointers until the mesh is unloaded.
	e.pin.Pin(&e.positions[0])
	e.pin.Pin(&e.normals[0])
	e.pin.Pin(&e.texcoords[0])
	e.pin.Pin(&e.tangents[0])
	e.pin.Pin(&e.indices[0])
	e.mesh = rl.Mesh{
		VertexCount:   int32(len(vertices)),
		TriangleCount: int32(len(indices) / 3),
		Vertices:      &e.positions[0],
		Normals:       &e.normals[0],
		Texcoords:     &e.texcoords[0],
		Tangents:      &e.tangents[0],
		Indices:       &e.indices[0],
	}
	rl.UploadMesh(&e.mesh, false)
	if e.mesh.VboID == nil || *e.mesh.VboID == 0 {
		e.pin.Unpin()
		return 0, 0, 0, errors.New("graphics: mesh upload failed")
	}
	layout, vbo, ibo = d.alloc(), d.alloc(), d.alloc()
	d.meshes[layout] = e
	d.buffers[vbo] = true
	d.buffers[ibo] = true
	return layout, vbo, ibo, nil
}

func (d *Device) DrawGeometry(layout gpu.ID, indexCount int) {
	e, ok := d.meshes[layout]
	if !ok {
		return
	}
	p, ok := d.programs[d.current]
	if !ok {
		d.log.Debug("draw without a program", "layout", layout)
		return
	}
	rl.DrawMesh(e.mesh, p.material, rl.MatrixIdentity())
}

func imageFormat(channels int) (rl.PixelFormat, error) {
	switch channels {
	case 1:
		return rl.UncompressedGrayscale, nil
	case 2:
		return rl.UncompressedGrayAlpha, nil
	case 3:
		return rl.UncompressedR8g8b8, nil
	case 4:
		return rl.UncompressedR8g8b8a8, nil
	}
	return 0, fmt.Errorf("graphics: unsupported channel count %d", channels)
}

func toImage(img gpu.Image) (*rl.Image, error) {
	if !img.Valid() {
		return nil, fmt.Errorf("graphics: invalid image %dx%dx%d", img.Width, img.Height, img.Channels)
	}
	format, err := imageFormat(img.Channels)
	if err != nil {
		return nil, err
	}
	return rl.NewImage(img.Pixels, int32(img.Width), int32(img.Height), 1, format), nil
}

func (d *Device) CreateTexture(img gpu.Image, opts gpu.TextureOptions) (gpu.ID, error) {
	im, err := toImage(img)
	if err != nil {
		return gpu.InvalidID, err
	}
	tex := rl.LoadTextureFromImage(im)
	if !rl.IsTextureValid(tex) {
		return gpu.InvalidID, errors.New("graphics: texture upload failed")
	}
	if opts.Mipmaps {
		rl.GenTextureMipmaps(&tex)
		rl.SetTextureFilter(tex, rl.FilterTrilinear)
	} else {
		rl.SetTextureFilter(tex, rl.FilterBilinear)
	}
	if opts.Wrap == gpu.WrapClamp {
		rl.SetTextureWrap(tex, rl.WrapClamp)
	} else {
		rl.SetTextureWrap(tex, rl.WrapRepeat)
	}
	id := d.alloc()
	d.textures[id] = tex
	return id, nil
}

func (d *Device) CreateCubemap(faces [6]gpu.Image) (gpu.ID, error) {
	strip, err := texture.VerticalStrip(faces)
	if err != nil {
		return gpu.InvalidID, err
	}
	im, err := toImage(strip)
	if err != nil {
		return gpu.InvalidID, err
	}
	tex := rl.LoadTextureCubemap(im, rl.CubemapLayoutLineVertical)
	if !rl.IsTextureValid(tex) {
		return gpu.InvalidID, errors.New("graphics: cubemap upload failed")
	}
	id := d.alloc()
	d.textures[id] = tex
	return id, nil
}

func (d *Device) BindTexture(program gpu.ID, sampler string, unit int, kind gpu.Kind, tex gpu.ID) {
	p, ok := d.programs[program]
	if !ok {
		return
	}
	mapIndex := int32(unit)
	if kind == gpu.KindCubemap {
		mapIndex = rl.MapCubemap
	} else if mapIndex < 0 || mapIndex >= max2DUnits {
		d.log.Warn("texture unit out of range", "unit", unit, "sampler", sampler)
		return
	}
	native, ok := d.textures[tex]
	if !ok {
		// Unbinding (or a stale id) leaves the slot empty; raylib skips empty maps.
		rl.SetMaterialTexture(&p.material, mapIndex, rl.Texture2D{})
		return
	}
	if sampler != "" {
		if loc := d.location(p, sampler); loc >= 0 {
			p.shader.UpdateLocation(rl.ShaderLocMapAlbedo+mapIndex, loc)
		}
	}
	rl.SetMaterialTexture(&p.material, mapIndex, native)
}

// NativeTexture returns the raylib texture behind id, for UI code that draws it.
func (d *Device) NativeTexture(id gpu.ID) (rl.Texture2D, bool) {
	t, ok := d.textures[id]
	return t, ok
}

func (d *Device) CreateRenderTarget(width, height int) (gpu.ID, error) {
	if width <= 0 || height <= 0 {
		return gpu.InvalidID, fmt.Errorf("graphics: render target %dx%d", width, height)
	}
	rt := rl.LoadRenderTexture(int32(width), int32(height))
	if !rl.IsRenderTextureValid(rt) {
		return gpu.InvalidID, errors.New("graphics: framebuffer incomplete")
	}
	id, tex := d.alloc(), d.alloc()
	d.targets[id] = &targetEntry{rt: rt, tex: tex}
	d.textures[tex] = rt.Texture
	d.borrowed[tex] = true
	return id, nil
}

func (d *Device) RenderTargetTexture(target gpu.ID) gpu.ID {
	if t, ok := d.targets[target]; ok {
		return t.tex
	}
	return gpu.InvalidID
}

func (d *Device) BindRenderTarget(target gpu.ID) {
	if target == d.bound {
		return
	}
	if d.bound != gpu.InvalidID {
		rl.EndTextureMode()
	}
	d.bound = gpu.InvalidID
	if t, ok := d.targets[target]; ok {
		rl.BeginTextureMode(t.rt)
		d.bound = target
	}
}

func (d *Device) CompileProgram(src gpu.ProgramSource) (gpu.ID, error) {
	if src.Geometry != "" {
		return gpu.InvalidID, fmt.Errorf("graphics: program %q: geometry shaders are not supported", src.Name)
	}
	if src.Vertex == "" || src.Fragment == "" {
		return gpu.InvalidID, fmt.Errorf("graphics: program %q: missing vertex or fragment source", src.Name)
	}
	shader := rl.LoadShaderFromMemory(src.Vertex, src.Fragment)
	if !rl.IsShaderValid(shader) {
		return gpu.InvalidID, fmt.Errorf("graphics: program %q failed to compile or link (see raylib log)", src.Name)
	}
	mat := rl.LoadMaterialDefault()
	mat.Shader = shader
	// Solid materials bind nothing; drop raylib's default white albedo.
	rl.SetMaterialTexture(&mat, rl.MapAlbedo, rl.Texture2D{})
	id := d.alloc()
	d.programs[id] = &programEntry{shader: shader, material: mat, locs: map[string]int32{}}
	return id, nil
}

func (d *Device) UseProgram(program gpu.ID) { d.current = program }

func (d *Device) location(p *programEntry, name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := rl.GetShaderLocation(p.shader, name)
	p.locs[name] = loc
	return loc
}

func (d *Device) uniform(program gpu.ID, name string) (rl.Shader, int32, bool) {
	p, ok := d.programs[program]
	if !ok {
		return rl.Shader{}, -1, false
	}
	loc := d.location(p, name)
	return p.shader, loc, loc >= 0
}

func (d *Device) SetUniformInt(program gpu.ID, name string, v int32) {
	if sh, loc, ok := d.uniform(program, name); ok {
		// raylib takes uniform data as float32 words; ints travel bit-for-bit.
		rl.SetShaderValue(sh, loc, []float32{math.Float32frombits(uint32(v))}, rl.ShaderUniformInt)
	}
}

func (d *Device) SetUniformFloat(program gpu.ID, name string, v float32) {
	if sh, loc, ok := d.uniform(program, name); ok {
		rl.SetShaderValue(sh, loc, []float32{v}, rl.ShaderUniformFloat)
	}
}

func (d *Device) SetUniformVec3(program gpu.ID, name string, v mgl32.Vec3) {
	if sh, loc, ok := d.uniform(program, name); ok {
		rl.SetShaderValue(sh, loc, v[:], rl.ShaderUniformVec3)
	}
}

func (d *Device) SetUniformVec4(program gpu.ID, name string, v mgl32.Vec4) {
	if sh, loc, ok := d.uniform(program, name); ok {
		rl.SetShaderValue(sh, loc, v[:], rl.ShaderUniformVec4)
	}
}

func (d *Device) SetUniformMat4(program gpu.ID, name string, m mgl32.Mat4) {
	if sh, loc, ok := d.uniform(program, name); ok {
		rl.SetShaderValueMatrix(sh, loc, toMatrix(m))
	}
}

// toMatrix converts column-major mgl32 storage into raylib's named fields, which are
// also column-major (M0..M3 is the first column).
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

func (d *Device) ApplyState(s gpu.RenderState) {
	// Flush batched immediate-mode draws under the old state.
	rl.DrawRenderBatchActive()
	if s.DepthTest {
		rl.EnableDepthTest()
	} else {
		rl.DisableDepthTest()
	}
	if s.DepthWrite {
		rl.EnableDepthMask()
	} else {
		rl.DisableDepthMask()
	}
	if s.CullFace {
		rl.EnableBackfaceCulling()
	} else {
		rl.DisableBackfaceCulling()
	}
	if s.Wireframe {
		rl.EnableWireMode()
	} else {
		rl.DisableWireMode()
	}
	if s.Multisample != d.state.Multisample {
		d.log.Debug("multisampling is fixed at window creation", "requested", s.Multisample)
	}
	d.state = s
}

func (d *Device) Clear(c mgl32.Vec4) {
	rl.ClearBackground(rl.ColorFromNormalized(rl.NewVector4(c[0], c[1], c[2], c[3])))
}

func (d *Device) Release(kind gpu.Kind, id gpu.ID) {
	switch kind {
	case gpu.KindVertexLayout:
		e, ok := d.meshes[id]
		if !ok {
			return
		}
		// Only the GPU side belongs to raylib; the vertex arrays are Go memory.
		rl.UnloadMesh(&rl.Mesh{VaoID: e.mesh.VaoID, VboID: e.mesh.VboID})
		e.pin.Unpin()
		delete(d.meshes, id)
	case gpu.KindVertexBuffer, gpu.KindIndexBuffer:
		delete(d.buffers, id)
	case gpu.KindTexture2D, gpu.KindCubemap:
		if t, ok := d.textures[id]; ok && !d.borrowed[id] {
			rl.UnloadTexture(t)
			delete(d.textures, id)
		}
	case gpu.KindRenderTarget:
		t, ok := d.targets[id]
		if !ok {
			return
		}
		if d.bound == id {
			d.BindRenderTarget(gpu.InvalidID)
		}
		rl.UnloadRenderTexture(t.rt)
		delete(d.textures, t.tex)
		delete(d.borrowed, t.tex)
		delete(d.targets, id)
	case gpu.KindProgram:
		p, ok := d.programs[id]
		if !ok {
			return
		}
		rl.UnloadShader(p.shader)
		delete(d.programs, id)
		if d.current == id {
			d.current = gpu.InvalidID
		}
	}
}
