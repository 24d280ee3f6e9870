// Package render turns a scene registry and a camera into draw calls: per-frame state,
// offscreen targets, the skybox pass and the shader library.
package render

import (
	"errors"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/camera"
	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/scene"
)

var (
	// ErrMissingCollaborator is returned when RenderScene gets a nil registry, camera or program.
	ErrMissingCollaborator = errors.New("render: missing scene, camera or program")
	// ErrInvalidProgram is returned when the program failed to build; nothing is drawn.
	ErrInvalidProgram = errors.New("render: program is not valid")
	// ErrEmptyViewport is returned for a zero-area viewport.
	ErrEmptyViewport = errors.New("render: viewport has no area")
)

// Settings are the user-adjustable fixed-function toggles and clear color.
// Changes apply at the next BeginFrame.
type Settings struct {
	DepthTest   bool       `yaml:"depth_test" toml:"depth_test"`
	CullFace    bool       `yaml:"cull_face" toml:"cull_face"`
	Wireframe   bool       `yaml:"wireframe" toml:"wireframe"`
	Multisample bool       `yaml:"multisample" toml:"multisample"`
	ClearColor  mgl32.Vec4 `yaml:"clear_color" toml:"clear_color"`
}

// DefaultSettings: depth test and culling on, wireframe off, multisampling on, dark gray clear.
func DefaultSettings() Settings {
	return Settings{
		DepthTest:   true,
		CullFace:    true,
		Multisample: true,
		ClearColor:  mgl32.Vec4{0.1, 0.1, 0.1, 1},
	}
}

// State maps settings onto device state. Depth writes are always on for scene passes.
func (s Settings) State() gpu.RenderState {
	return gpu.RenderState{
		DepthTest:   s.DepthTest,
		DepthWrite:  true,
		CullFace:    s.CullFace,
		Wireframe:   s.Wireframe,
		Multisample: s.Multisample,
	}
}

// Lighting is the single directional light every lit program receives.
type Lighting struct {
	Direction        mgl32.Vec3
	Color            mgl32.Vec3
	Ambient          mgl32.Vec4
	Intensity        float32
	SpecularPower    float32
	SpecularStrength float32
}

// DefaultLighting is a soft warm-white light from above-right with a dim ambient term
// so shadowed faces are not pure black.
func DefaultLighting() Lighting {
	return Lighting{
		Direction:        mgl32.Vec3{0.5, 1, 0.5},
		Color:            mgl32.Vec3{1.0, 0.98, 0.95},
		Ambient:          mgl32.Vec4{0.2, 0.22, 0.26, 1.0},
		Intensity:        0.75,
		SpecularPower:    48,
		SpecularStrength: 0.35,
	}
}

// FrameStats counts what the last RenderScene drew.
type FrameStats struct {
	Objects   int
	Triangles int
}

// Pipeline owns per-frame render state. Every method must run on the thread that owns
// the graphics context.
type Pipeline struct {
	dev      gpu.Device
	settings Settings
	lighting Lighting
	target   *Target
	stats    FrameStats
	log      *slog.Logger
	reported map[error]bool
}

// NewPipeline returns a pipeline with default settings that draws to the window surface.
func NewPipeline(dev gpu.Device, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		dev:      dev,
		settings: DefaultSettings(),
		lighting: DefaultLighting(),
		log:      log,
		reported: map[error]bool{},
	}
}

func (p *Pipeline) Settings() Settings { return p.settings }

// SetSettings replaces all settings at once.
func (p *Pipeline) SetSettings(s Settings) { p.settings = s }

func (p *Pipeline) SetClearColor(c mgl32.Vec4) { p.settings.ClearColor = c }
func (p *Pipeline) EnableWireframe(on bool)    { p.settings.Wireframe = on }
func (p *Pipeline) EnableDepthTest(on bool)    { p.settings.DepthTest = on }
func (p *Pipeline) EnableCullFace(on bool)     { p.settings.CullFace = on }
func (p *Pipeline) EnableMultisample(on bool)  { p.settings.Multisample = on }

func (p *Pipeline) Lighting() Lighting     { return p.lighting }
func (p *Pipeline) SetLighting(l Lighting) { p.lighting = l }

// SetTarget redirects frames into t; nil draws to the window surface.
func (p *Pipeline) SetTarget(t *Target) { p.target = t }

func (p *Pipeline) Target() *Target { return p.target }

// Stats returns counters from the last RenderScene.
func (p *Pipeline) Stats() FrameStats { return p.stats }

// BeginFrame binds the active target, applies the current settings and clears color and depth.
func (p *Pipeline) BeginFrame() {
	p.dev.BindRenderTarget(p.target.ID())
	p.dev.ApplyState(p.settings.State())
	p.dev.Clear(p.settings.ClearColor)
	p.stats = FrameStats{}
}

// RenderScene draws every active object of reg from cam's point of view with prog.
// A missing collaborator, an invalid program or an empty viewport skips the pass and
// returns an error; the same error is logged once until a pass succeeds again.
func (p *Pipeline) RenderScene(reg *scene.Registry, cam *camera.Camera, prog *gpu.Program, width, height int) error {
	if reg == nil || cam == nil || prog == nil {
		return p.report(ErrMissingCollaborator)
	}
	if !prog.Valid() {
		return p.report(ErrInvalidProgram, "program", prog.Name())
	}
	if width <= 0 || height <= 0 {
		return p.report(ErrEmptyViewport, "width", width, "height", height)
	}
	clear(p.reported)

	prog.Use()
	prog.SetMat4("projection", cam.ProjectionMatrix(float32(width)/float32(height)))
	prog.SetMat4("view", cam.ViewMatrix())
	prog.SetVec3("viewPos", cam.Position())
	prog.SetVec3("lightDir", p.lighting.Direction)
	prog.SetVec3("lightColor", p.lighting.Color)
	prog.SetVec4("ambient", p.lighting.Ambient)
	prog.SetFloat("lightIntensity", p.lighting.Intensity)
	prog.SetFloat("specularPower", p.lighting.SpecularPower)
	prog.SetFloat("specularStrength", p.lighting.SpecularStrength)

	reg.RenderAll(scene.DrawerFunc(func(o *scene.Object) {
		prog.SetMat4("model", o.Transform.ModelMatrix())
		o.Model().Draw(prog)
		p.stats.Objects++
		p.stats.Triangles += o.Model().TriangleCount()
	}))
	return nil
}

// RenderSkybox draws sky around the camera with depth testing, depth writes and culling
// off, then restores the frame state. Draw it right after BeginFrame so the scene covers it.
func (p *Pipeline) RenderSkybox(sky *Skybox, prog *gpu.Program, cam *camera.Camera, width, height int) error {
	if sky == nil || cam == nil || prog == nil {
		return p.report(ErrMissingCollaborator)
	}
	if !prog.Valid() {
		return p.report(ErrInvalidProgram, "program", prog.Name())
	}
	if width <= 0 || height <= 0 {
		return p.report(ErrEmptyViewport, "width", width, "height", height)
	}
	p.dev.ApplyState(gpu.RenderState{Multisample: p.settings.Multisample})
	sky.draw(prog, cam.ViewMatrix(), cam.ProjectionMatrix(float32(width)/float32(height)))
	p.dev.ApplyState(p.settings.State())
	return nil
}

// EndFrame closes the frame and returns drawing to the window surface.
func (p *Pipeline) EndFrame() {
	if p.target != nil {
		p.dev.BindRenderTarget(gpu.InvalidID)
	}
}

func (p *Pipeline) report(err error, args ...any) error {
	if !p.reported[err] {
		p.reported[err] = true
		p.log.Warn("render pass skipped", append([]any{"err", err}, args...)...)
	}
	return err
}
