// Package gputest provides a recording gpu.Device for tests that need no graphics context.
package gputest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/gpu"
)

// DrawCall is one recorded DrawGeometry invocation.
type DrawCall struct {
	Program    gpu.ID
	Layout     gpu.ID
	IndexCount int
	Model      mgl32.Mat4
}

// Binding is one recorded BindTexture invocation.
type Binding struct {
	Program gpu.ID
	Sampler string
	Unit    int
	Kind    gpu.Kind
	Texture gpu.ID
}

// Device records every call and hands out sequential IDs starting at 1.
// Set the Fail* fields to make the matching create call return an error.
type Device struct {
	mu sync.Mutex

	FailCompile  bool
	FailTexture  bool
	FailGeometry bool
	FailTarget   bool

	next     gpu.ID
	live     map[gpu.ID]gpu.Kind
	created  map[gpu.Kind]int
	released []gpu.ID
	current  gpu.ID
	target   gpu.ID

	colorOf  map[gpu.ID]gpu.ID
	sources  map[gpu.ID]gpu.ProgramSource
	textures map[gpu.ID]gpu.Image
	wraps    map[gpu.ID]gpu.WrapMode
	uniforms map[gpu.ID]map[string]any

	Draws    []DrawCall
	Bindings []Binding
	States   []gpu.RenderState
	Clears   []mgl32.Vec4
	Targets  []gpu.ID
}

// New returns an empty recording device.
func New() *Device {
	return &Device{
		live:     map[gpu.ID]gpu.Kind{},
		created:  map[gpu.Kind]int{},
		colorOf:  map[gpu.ID]gpu.ID{},
		sources:  map[gpu.ID]gpu.ProgramSource{},
		textures: map[gpu.ID]gpu.Image{},
		wraps:    map[gpu.ID]gpu.WrapMode{},
		uniforms: map[gpu.ID]map[string]any{},
	}
}

var errInjected = errors.New("gputest: injected failure")

func (d *Device) alloc(kind gpu.Kind) gpu.ID {
	d.next++
	d.live[d.next] = kind
	d.created[kind]++
	return d.next
}

func (d *Device) CreateGeometry(vertices []gpu.Vertex, indices []uint32) (gpu.ID, gpu.ID, gpu.ID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailGeometry {
		return gpu.InvalidID, gpu.InvalidID, gpu.InvalidID, errInjected
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return gpu.InvalidID, gpu.InvalidID, gpu.InvalidID, fmt.Errorf("gputest: index %d out of range", i)
		}
	}
	return d.alloc(gpu.KindVertexLayout), d.alloc(gpu.KindVertexBuffer), d.alloc(gpu.KindIndexBuffer), nil
}

func (d *Device) DrawGeometry(layout gpu.ID, indexCount int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var model mgl32.Mat4
	if m, ok := d.uniforms[d.current]["model"].(mgl32.Mat4); ok {
		model = m
	}
	d.Draws = append(d.Draws, DrawCall{Program: d.current, Layout: layout, IndexCount: indexCount, Model: model})
}

func (d *Device) CreateTexture(img gpu.Image, opts gpu.TextureOptions) (gpu.ID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailTexture {
		return gpu.InvalidID, errInjected
	}
	id := d.alloc(gpu.KindTexture2D)
	d.textures[id] = img
	d.wraps[id] = opts.Wrap
	return id, nil
}

func (d *Device) CreateCubemap(faces [6]gpu.Image) (gpu.ID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailTexture {
		return gpu.InvalidID, errInjected
	}
	return d.alloc(gpu.KindCubemap), nil
}

func (d *Device) BindTexture(program gpu.ID, sampler string, unit int, kind gpu.Kind, tex gpu.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Bindings = append(d.Bindings, Binding{Program: program, Sampler: sampler, Unit: unit, Kind: kind, Texture: tex})
	if sampler != "" && tex != gpu.InvalidID {
		d.setUniform(program, sampler, int32(unit))
	}
}

func (d *Device) CreateRenderTarget(width, height int) (gpu.ID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailTarget || width <= 0 || height <= 0 {
		return gpu.InvalidID, errInjected
	}
	id := d.alloc(gpu.KindRenderTarget)
	d.next++
	d.colorOf[id] = d.next
	d.textures[d.next] = gpu.Image{Width: width, Height: height, Channels: 4}
	return id, nil
}

func (d *Device) RenderTargetTexture(target gpu.ID) gpu.ID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.colorOf[target]
}

func (d *Device) BindRenderTarget(target gpu.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.target = target
	d.Targets = append(d.Targets, target)
}

func (d *Device) CompileProgram(src gpu.ProgramSource) (gpu.ID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailCompile || src.Vertex == "" || src.Fragment == "" {
		return gpu.InvalidID, fmt.Errorf("gputest: compile %q: %w", src.Name, errInjected)
	}
	id := d.alloc(gpu.KindProgram)
	d.sources[id] = src
	return id, nil
}

func (d *Device) UseProgram(program gpu.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = program
}

func (d *Device) setUniform(program gpu.ID, name string, v any) {
	u, ok := d.uniforms[program]
	if !ok {
		u = map[string]any{}
		d.uniforms[program] = u
	}
	u[name] = v
}

func (d *Device) SetUniformInt(program gpu.ID, name string, v int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setUniform(program, name, v)
}

func (d *Device) SetUniformFloat(program gpu.ID, name string, v float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setUniform(program, name, v)
}

func (d *Device) SetUniformVec3(program gpu.ID, name string, v mgl32.Vec3) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setUniform(program, name, v)
}

func (d *Device) SetUniformVec4(program gpu.ID, name string, v mgl32.Vec4) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setUniform(program, name, v)
}

func (d *Device) SetUniformMat4(program gpu.ID, name string, v mgl32.Mat4) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setUniform(program, name, v)
}

func (d *Device) ApplyState(s gpu.RenderState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.States = append(d.States, s)
}

func (d *Device) Clear(color mgl32.Vec4) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Clears = append(d.Clears, color)
}

func (d *Device) Release(kind gpu.Kind, id gpu.ID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if got, ok := d.live[id]; !ok || got != kind {
		panic(fmt.Sprintf("gputest: release of unknown %s %d", kind, id))
	}
	delete(d.live, id)
	d.released = append(d.released, id)
}

// Uniform returns the last value written to a program uniform.
func (d *Device) Uniform(program gpu.ID, name string) (any, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.uniforms[program][name]
	return v, ok
}

// Live reports how many objects of kind are allocated and not released.
func (d *Device) Live(kind gpu.Kind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, k := range d.live {
		if k == kind {
			n++
		}
	}
	return n
}

// LiveTotal reports every allocated and unreleased object.
func (d *Device) LiveTotal() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

// Created reports how many objects of kind were ever allocated.
func (d *Device) Created(kind gpu.Kind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created[kind]
}

// IsLive reports whether id is allocated and not released.
func (d *Device) IsLive(id gpu.ID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.live[id]
	return ok
}

// Released returns released IDs in release order.
func (d *Device) Released() []gpu.ID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]gpu.ID(nil), d.released...)
}

// Texture returns the image uploaded for a texture ID.
func (d *Device) Texture(id gpu.ID) (gpu.Image, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	img, ok := d.textures[id]
	return img, ok
}

// Wrap returns the wrap mode a 2D texture was uploaded with.
func (d *Device) Wrap(id gpu.ID) gpu.WrapMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wraps[id]
}

// Current returns the program selected by the last UseProgram.
func (d *Device) Current() gpu.ID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// BoundTarget returns the render target selected by the last BindRenderTarget.
func (d *Device) BoundTarget() gpu.ID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.target
}

// Reset forgets recorded draws, bindings, states, clears and target binds.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Draws, d.Bindings, d.States, d.Clears, d.Targets = nil, nil, nil, nil, nil
}
