// Command wildfox opens the engine with a demo scene and, unless disabled, the editor.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/app"
	"wildfox-engine/internal/assets"
	"wildfox-engine/internal/editor"
	"wildfox-engine/internal/engineconfig"
	"wildfox-engine/internal/env"
	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/graphics"
	"wildfox-engine/internal/importer"
	"wildfox-engine/internal/importer/objfile"
	"wildfox-engine/internal/logger"
	"wildfox-engine/internal/mapgen"
	"wildfox-engine/internal/mesh"
	"wildfox-engine/internal/platform"
	"wildfox-engine/internal/primitives"
	"wildfox-engine/internal/scene"
	"wildfox-engine/internal/ui"
	"wildfox-engine/internal/ui/panels"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", engineconfig.EngineConfigPath, "engine preferences (.yaml or .toml)")
	noEditor := flag.Bool("no-editor", false, "render straight to the window without the editor")
	logLevel := flag.String("log-level", "", "override the configured log level")
	flag.Parse()

	envErr := env.Load(".env")
	prefs, cfgErr := engineconfig.Load(*configPath)
	if err := engineconfig.ApplyEnv(&prefs, os.LookupEnv); err != nil && envErr == nil {
		envErr = err
	}
	if *logLevel != "" {
		prefs.LogLevel = *logLevel
	}
	if *noEditor {
		prefs.Editor.Enabled = false
	}

	logs := logger.New(prefs.LogFile, logger.DefaultCapacity)
	logs.SetEcho(os.Stderr)
	log := logs.Slog(logger.ParseLevel(prefs.LogLevel))
	slog.SetDefault(log)
	if cfgErr != nil {
		log.Warn("using default preferences", "path", *configPath, "err", cfgErr)
	}
	if envErr != nil {
		log.Warn("environment overrides", "err", envErr)
	}

	finder := assets.NewFinder(prefs.AssetDir)
	prims := primitives.NewRegistry(logger.Category(log, "assets"))
	if prefs.AssetDir != "" {
		dir := filepath.Join(prefs.AssetDir, "primitives")
		if err := prims.LoadDefs(dir); err != nil {
			log.Warn("primitive definitions", "dir", dir, "err", err)
		}
	}
	terrain := prefs.Terrain
	if err := prims.Register("terrain", primitives.PrimitiveDef{Type: "terrain", Color: "#5a7d4a"},
		func(primitives.PrimitiveDef) mesh.Data { return mapgen.Terrain(terrain) }); err != nil {
		log.Warn("terrain primitive", "err", err)
	}
	models := importer.NewRegistry(logger.Category(log, "assets"))
	models.Register(".obj", objfile.Importer{Log: log})

	// Filled in once the window exists; the debug overlay reads through the pointer.
	text := &graphics.Text{}
	hasFont := false
	dev := graphics.NewDevice(logger.Category(log, "rendering"))
	var a *app.App
	factory := func(kind string) (*mesh.Model, error) {
		if !models.Supports(kind) {
			return prims.Build(dev, kind)
		}
		path, err := finder.Find(assets.Models, kind)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", kind, err)
		}
		return models.Load(dev, a.Textures(), path)
	}

	cfg := app.DefaultConfig()
	cfg.Window = platform.WindowConfig{
		Width:     prefs.Window.Width,
		Height:    prefs.Window.Height,
		Title:     prefs.Window.Title,
		Resizable: true,
		VSync:     prefs.Window.VSync,
		MSAA:      prefs.Window.MSAA,
		TargetFPS: prefs.Window.TargetFPS,
	}
	cfg.Editor = prefs.Editor.Enabled
	cfg.CameraPosition = mgl32.Vec3(prefs.Camera.Position)
	cfg.CameraSpeed = prefs.Camera.Speed
	cfg.CameraSensitivity = prefs.Camera.Sensitivity
	cfg.Render = prefs.Render
	cfg.ShaderDir = prefs.ShaderDir
	cfg.HotReload = prefs.HotReload
	cfg.ShowFPS = prefs.ShowFPS

	hooks := app.Hooks{
		Init: func(a *app.App) error {
			prims.SetTextureLoader(func(name string) gpu.ID {
				path, err := finder.Find(assets.Textures, name)
				if err != nil {
					path = name
				}
				return a.Textures().Load(path)
			})
			if path, err := finder.Find(assets.Fonts, "default"); err == nil {
				if t, ok := graphics.LoadText(path); ok {
					*text, hasFont = t, true
				}
			}
			if err := buildScene(a, factory, finder, prefs); err != nil {
				return err
			}
			if ed := a.Editor(); ed != nil {
				ed.Panels.Hierarchy = prefs.Editor.Hierarchy
				ed.Panels.Inspector = prefs.Editor.Inspector
				ed.Panels.Settings = prefs.Editor.Settings
				ed.Panels.Console = prefs.Editor.Console
				ed.Panels.Grid = prefs.Editor.GridVisible
				a.SetOverlay(newEditorUI(ed, dev, *text, logs, prims, finder, log))
			}
			return nil
		},
		Render: func(a *app.App) {
			if ed := a.Editor(); ed != nil && ed.Panels.Grid {
				graphics.DrawGrid(a.Camera())
			}
		},
		Shutdown: func(*app.App) {
			if hasFont {
				text.Unload()
			}
		},
	}

	a = app.New(cfg, app.Deps{
		Window:  graphics.NewWindow(),
		Device:  dev,
		Factory: factory,
		Text:    text,
		Log:     log,
	}, hooks)
	defer a.Shutdown()

	if err := a.Init(); err != nil {
		log.Error("engine failed to start", "err", err)
		return 1
	}
	if err := a.Run(); err != nil {
		log.Error("engine stopped", "err", err)
		return 1
	}
	return 0
}

// buildScene places the demo objects and the sky.
func buildScene(a *app.App, factory editor.Factory, finder *assets.Finder, prefs engineconfig.EnginePrefs) error {
	reg := a.Registry()
	place := func(name, kind string, pos mgl32.Vec3) (*scene.Object, error) {
		model, err := factory(kind)
		if err != nil {
			return nil, err
		}
		t := scene.NewTransform()
		t.SetPosition(pos)
		id := reg.Create(name, model, &t)
		o, _ := reg.Get(id)
		o.Source = kind
		return o, nil
	}

	cube, err := place("Cube1", "cube", mgl32.Vec3{0, 0, 0})
	if err != nil {
		return err
	}
	cube.Params.AutoRotate = true
	if path, err := finder.Find(assets.Textures, "container"); err == nil {
		if id := a.Textures().Load(path); id != gpu.InvalidID {
			cube.SetTexture(path, mesh.Texture{ID: id, Role: mesh.RoleDiffuse, Path: path})
		}
	}
	if _, err := place("Sphere1", "sphere", mgl32.Vec3{1.5, 0, -1}); err != nil {
		return err
	}
	if ground, err := place("Ground", "plane", mgl32.Vec3{0, -0.5, 0}); err == nil {
		ground.Transform.SetScale(mgl32.Vec3{20, 1, 20})
	} else {
		return err
	}

	faces := skyboxFaces(finder, prefs)
	if len(faces) == len(assets.SkyboxFaces) {
		if err := a.SetSkybox(faces); err != nil {
			a.Log().Warn("no skybox", "err", err)
		}
	}
	return nil
}

// skyboxFaces resolves the configured faces against the asset roots, falling back to
// the first complete skybox directory.
func skyboxFaces(finder *assets.Finder, prefs engineconfig.EnginePrefs) []string {
	var faces []string
	for _, f := range prefs.Skybox {
		path, err := finder.Find(assets.Skybox, assets.StripKindPrefix(assets.Skybox, f))
		if err != nil {
			break
		}
		faces = append(faces, path)
	}
	if len(faces) == len(assets.SkyboxFaces) {
		return faces
	}
	faces, _ = finder.FindSkybox("")
	return faces
}

func newEditorUI(ed *editor.Layer, dev *graphics.Device, text graphics.Text,
	logs *logger.Logger, prims *primitives.Registry, finder *assets.Finder, log *slog.Logger) *panels.Editor {
	styles := ui.New()
	if path, err := finder.Find(assets.UI, "editor.css"); err == nil {
		if err := styles.LoadCSS(path); err != nil {
			log.Warn("editor stylesheet", "path", path, "err", err)
		}
	}
	kinds := prims.Names()
	if objs, err := finder.List(assets.Models); err == nil {
		for _, p := range objs {
			if strings.EqualFold(filepath.Ext(p), ".obj") {
				kinds = append(kinds, filepath.Base(p))
			}
		}
	}
	return panels.New(panels.Config{
		Layer:   ed,
		Console: editor.NewConsole(ed),
		Styles:  styles,
		Device:  dev,
		Text:    text,
		Lines:   logs,
		Kinds:   kinds,
		ResolveTexture: func(name string) string {
			if path, err := finder.Find(assets.Textures, name); err == nil {
				return path
			}
			return name
		},
		Log: logger.Category(log, "editor"),
	})
}
