// Package app is the application shell: it owns the window, input, clock, camera, render
// pipeline, scene registry and texture cache, and drives the frame loop. Embedding
// programs customize it through Hooks.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/camera"
	"wildfox-engine/internal/debug"
	"wildfox-engine/internal/editor"
	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/logger"
	"wildfox-engine/internal/platform"
	"wildfox-engine/internal/render"
	"wildfox-engine/internal/scene"
	"wildfox-engine/internal/texture"
)

var (
	// ErrInit wraps every failure that stops the shell from starting.
	ErrInit = errors.New("app: initialization failed")
	// ErrNotInitialized is returned by Run before a successful Init.
	ErrNotInitialized = errors.New("app: not initialized")
)

// Hooks are the embedding program's customization points. Any of them may be nil.
// Init runs once after the core is built; an error aborts startup. Update runs every
// frame before the scene update. Render runs inside the scene pass after the scene is
// drawn. Shutdown runs once before resources are released.
type Hooks struct {
	Init     func(a *App) error
	Update   func(a *App, dt float32)
	Render   func(a *App)
	Shutdown func(a *App)
}

// Overlay draws over the finished frame and may claim the keyboard. The editor panels
// implement it.
type Overlay interface {
	Update(in *platform.Input)
	WantsKeyboard() bool
	Draw(width, height int)
}

// Config is what the shell needs to start.
type Config struct {
	Window platform.WindowConfig
	// Editor renders the scene into an offscreen target shown by the editor overlay.
	Editor bool

	CameraPosition    mgl32.Vec3
	CameraSpeed       float32
	CameraSensitivity float32

	Render    render.Settings
	ShaderDir string
	HotReload bool
	ShowFPS   bool
}

// DefaultConfig is a 1280x720 window with the editor on.
func DefaultConfig() Config {
	return Config{
		Window: platform.WindowConfig{
			Width: 1280, Height: 720, Title: "Wildfox Engine",
			Resizable: true, VSync: true, MSAA: true, TargetFPS: 60,
		},
		Editor:         true,
		CameraPosition: mgl32.Vec3{0, 0, 3},
		Render:         render.DefaultSettings(),
	}
}

// Deps are the platform backends. Window and Device are required.
type Deps struct {
	Window  platform.Window
	Device  gpu.Device
	// Decoder decodes texture files; nil uses the built-in image decoders.
	Decoder texture.Decoder
	// Factory builds models for editor create and duplicate requests.
	Factory editor.Factory
	// Text draws the debug overlay; nil disables it.
	Text debug.Text
	Log  *slog.Logger
}

// App is the shell. All methods run on the thread that created the window.
type App struct {
	cfg   Config
	hooks Hooks
	win   platform.Window
	dev   gpu.Device
	dec   texture.Decoder
	build editor.Factory
	text  debug.Text
	log   *slog.Logger

	input    *platform.Input
	clock    *platform.Clock
	camera   *camera.Camera
	pipeline *render.Pipeline
	registry *scene.Registry
	textures *texture.Cache
	shaders  *render.ShaderLibrary
	watcher  *render.Watcher
	target   *render.Target
	editor   *editor.Layer
	skybox   *render.Skybox
	overlay  Overlay
	debug    *debug.Debug

	width, height int
	initialized   bool
	running       bool
	closed        bool
	frame         uint64
	skipped       uint64
}

// New returns an uninitialized shell.
func New(cfg Config, d Deps, hooks Hooks) *App {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &App{
		cfg:   cfg,
		hooks: hooks,
		win:   d.Window,
		dev:   d.Device,
		dec:   d.Decoder,
		build: d.Factory,
		text:  d.Text,
		log:   logger.Category(d.Log, "core"),
		debug: debug.New(),
	}
}

// Init opens the window and builds every subsystem, then runs the Init hook. On failure
// everything created so far is released and the error wraps ErrInit.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if a.win == nil || a.dev == nil {
		return fmt.Errorf("%w: window and device are required", ErrInit)
	}
	if err := a.win.Create(a.cfg.Window); err != nil {
		return fmt.Errorf("%w: window: %v", ErrInit, err)
	}
	a.width, a.height = a.win.Size()
	a.input = platform.NewInput()
	a.clock = platform.NewClock(a.win.Time)
	a.win.SetCallbacks(platform.Callbacks{
		Resize:      a.onResize,
		CursorMove:  a.input.OnCursorMove,
		Scroll:      a.input.OnScroll,
		MouseButton: a.onMouseButton,
	})

	a.camera = camera.New(a.cfg.CameraPosition)
	if a.cfg.CameraSpeed > 0 {
		a.camera.SetMovementSpeed(a.cfg.CameraSpeed)
	}
	if a.cfg.CameraSensitivity > 0 {
		a.camera.SetMouseSensitivity(a.cfg.CameraSensitivity)
	}

	renderLog := logger.Category(a.log, "rendering")
	a.pipeline = render.NewPipeline(a.dev, renderLog)
	a.pipeline.SetSettings(a.cfg.Render)
	a.registry = scene.NewRegistry(a.log)
	a.textures = texture.NewCache(a.dev, a.dec, renderLog)
	a.shaders = render.NewShaderLibrary(a.dev, a.cfg.ShaderDir, renderLog)
	// Build the scene program up front so a broken shader is reported at startup.
	a.shaders.Get(render.DefaultShader)

	if a.cfg.HotReload && a.cfg.ShaderDir != "" {
		w, err := render.NewWatcher(a.cfg.ShaderDir, renderLog)
		if err != nil {
			a.log.Warn("shader hot reload disabled", "dir", a.cfg.ShaderDir, "err", err)
		} else {
			a.watcher = w
		}
	}

	if a.cfg.Editor {
		t, err := render.NewTarget(a.dev, editor.DefaultViewportWidth, editor.DefaultViewportHeight)
		if err != nil {
			a.release()
			return fmt.Errorf("%w: offscreen target: %v", ErrInit, err)
		}
		a.target = t
		a.pipeline.SetTarget(t)
		a.editor = editor.New(editor.Deps{
			Registry: a.registry,
			Camera:   a.camera,
			Pipeline: a.pipeline,
			Target:   a.target,
			Textures: a.textures,
			Shaders:  a.shaders,
			Factory:  a.build,
			Log:      logger.Category(a.log, "editor"),
		})
		a.editor.OnCameraControl = a.onCameraControl
	} else {
		a.onCameraControl(true)
	}
	a.debug.SetShowFPS(a.cfg.ShowFPS)

	a.initialized = true
	if a.hooks.Init != nil {
		if err := a.hooks.Init(a); err != nil {
			a.initialized = false
			a.release()
			return fmt.Errorf("%w: %v", ErrInit, err)
		}
	}
	a.log.Info("engine initialized", "width", a.width, "height", a.height, "editor", a.editor != nil)
	return nil
}

// Run loops until Stop is called or the window asks to close. Each iteration polls
// events, runs one frame and presents it.
func (a *App) Run() error {
	if !a.initialized {
		return ErrNotInitialized
	}
	a.running = true
	for a.running && !a.win.ShouldClose() {
		a.win.PollEvents()
		a.runFrame()
		a.win.SwapBuffers()
	}
	a.running = false
	return nil
}

// Stop ends Run after the current frame.
func (a *App) Stop() {
	a.running = false
	if a.win != nil {
		a.win.SetShouldClose()
	}
}

// Shutdown runs the Shutdown hook and releases everything the shell owns. It is safe to
// call more than once and after a failed Init.
func (a *App) Shutdown() {
	if a.closed {
		return
	}
	a.closed = true
	if a.initialized && a.hooks.Shutdown != nil {
		a.hooks.Shutdown(a)
	}
	a.release()
	a.initialized = false
	a.log.Info("engine shut down", "frames", a.frame, "skipped", a.skipped)
}

func (a *App) release() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			a.log.Warn("closing shader watcher", "err", err)
		}
		a.watcher = nil
	}
	if a.registry != nil {
		a.registry.Clear()
	}
	if a.skybox != nil {
		a.skybox.Release()
		a.skybox = nil
	}
	if a.textures != nil {
		a.textures.UnloadAll()
	}
	if a.shaders != nil {
		a.shaders.Release()
	}
	if a.target != nil {
		a.target.Release()
		a.target = nil
	}
	if a.win != nil {
		a.win.Close()
	}
}

// runFrame does input, update and render for one frame. A panic anywhere in the frame is
// logged with the frame number and the rest of the frame is skipped.
func (a *App) runFrame() {
	a.frame++
	defer func() {
		if r := recover(); r != nil {
			a.skipped++
			a.log.Error("frame aborted", "frame", a.frame, "panic", r)
			a.pipeline.EndFrame()
		}
		a.input.EndFrame()
	}()

	a.input.Poll(a.win)
	a.clock.Tick()
	dt := a.clock.Delta()

	if a.overlay != nil {
		a.overlay.Update(a.input)
	}
	a.processInput(dt)

	if a.hooks.Update != nil {
		a.hooks.Update(a, dt)
	}
	a.registry.Update(dt)
	a.reloadShaders()

	a.render()

	if a.overlay != nil {
		a.overlay.Draw(a.width, a.height)
	}
	if a.text != nil {
		a.debug.Update(debug.Sample{FPS: a.clock.FPS(), Stats: a.pipeline.Stats()})
		a.debug.Draw(a.width, a.text)
	}
}

func (a *App) controlling() bool {
	return a.editor == nil || a.editor.ControllingCamera()
}

func (a *App) processInput(dt float32) {
	keyboard := a.overlay == nil || !a.overlay.WantsKeyboard()
	if keyboard && a.input.IsKeyJustPressed(platform.KeyEscape) {
		if a.editor != nil && a.editor.ControllingCamera() {
			a.editor.SetCameraControl(false)
		} else {
			a.Stop()
			return
		}
	}
	if !a.controlling() {
		return
	}
	if keyboard {
		moves := [...]struct {
			key platform.Key
			dir camera.Direction
		}{
			{platform.KeyW, camera.Forward},
			{platform.KeyS, camera.Backward},
			{platform.KeyA, camera.Left},
			{platform.KeyD, camera.Right},
			{platform.KeySpace, camera.Up},
			{platform.KeyLeftControl, camera.Down},
		}
		for _, m := range moves {
			if a.input.IsKeyDown(m.key) {
				a.camera.ProcessKeyboard(m.dir, dt)
			}
		}
	}
	if dx, dy := a.input.MouseDelta(); dx != 0 || dy != 0 {
		a.camera.ProcessMouseMovement(dx, dy)
	}
	if _, sy := a.input.Scroll(); sy != 0 {
		a.camera.ProcessScroll(sy)
	}
}

func (a *App) reloadShaders() {
	if a.watcher == nil {
		return
	}
	for _, name := range a.watcher.Drain() {
		a.shaders.Reload(name)
	}
}

// RenderSize is the size of the surface the scene is drawn to: the offscreen target with
// the editor, the window without it.
func (a *App) RenderSize() (int, int) {
	if a.target != nil {
		return a.target.Size()
	}
	return a.width, a.height
}

func (a *App) render() {
	w, h := a.RenderSize()
	a.pipeline.BeginFrame()
	if a.skybox != nil {
		// Failures are logged once by the pipeline.
		_ = a.pipeline.RenderSkybox(a.skybox, a.shaders.Get(render.SkyboxShader), a.camera, w, h)
	}
	_ = a.pipeline.RenderScene(a.registry, a.camera, a.shaders.Get(render.DefaultShader), w, h)
	if a.hooks.Render != nil {
		a.hooks.Render(a)
	}
	a.pipeline.EndFrame()
}

func (a *App) onResize(width, height int) {
	a.width, a.height = width, height
}

func (a *App) onMouseButton(b platform.MouseButton, pressed bool) {
	a.input.OnMouseButton(b, pressed)
	if a.editor != nil && b == platform.MouseRight && pressed {
		a.editor.ToggleCameraControl()
	}
}

func (a *App) onCameraControl(on bool) {
	mode := platform.CursorNormal
	if on {
		mode = platform.CursorDisabled
	}
	a.win.SetCursorMode(mode)
	// The cursor jumps when capture changes; the next move must not turn the camera.
	a.input.ResetMouse()
}

// SetSkybox loads six faces (+X, -X, +Y, -Y, +Z, -Z) into a cubemap and draws it behind
// the scene. A load failure leaves the current skybox in place.
func (a *App) SetSkybox(faces []string) error {
	if !a.initialized {
		return ErrNotInitialized
	}
	id := a.textures.LoadCubemap(faces)
	if id == gpu.InvalidID {
		return fmt.Errorf("app: skybox %v could not be loaded", faces)
	}
	sky, err := render.NewSkybox(a.dev, id)
	if err != nil {
		return fmt.Errorf("app: skybox: %w", err)
	}
	if a.skybox != nil {
		a.skybox.Release()
	}
	a.skybox = sky
	return nil
}

// SetOverlay installs the UI drawn over each frame; nil removes it.
func (a *App) SetOverlay(o Overlay) { a.overlay = o }

func (a *App) Window() platform.Window        { return a.win }
func (a *App) Device() gpu.Device             { return a.dev }
func (a *App) Input() *platform.Input         { return a.input }
func (a *App) Clock() *platform.Clock         { return a.clock }
func (a *App) Camera() *camera.Camera         { return a.camera }
func (a *App) Pipeline() *render.Pipeline     { return a.pipeline }
func (a *App) Registry() *scene.Registry      { return a.registry }
func (a *App) Textures() *texture.Cache       { return a.textures }
func (a *App) Shaders() *render.ShaderLibrary { return a.shaders }
func (a *App) Target() *render.Target         { return a.target }
func (a *App) Skybox() *render.Skybox         { return a.skybox }
func (a *App) Debug() *debug.Debug            { return a.debug }
func (a *App) Log() *slog.Logger              { return a.log }
func (a *App) Running() bool                  { return a.running }
func (a *App) Frame() uint64                  { return a.frame }
func (a *App) SkippedFrames() uint64          { return a.skipped }
func (a *App) Size() (int, int)               { return a.width, a.height }

// Editor is the editor layer, or nil when the shell runs without one.
func (a *App) Editor() *editor.Layer { return a.editor }
