// Package engineconfig loads and saves engine preferences. The file format follows the
// extension: .yaml/.yml or .toml.
package engineconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"wildfox-engine/internal/camera"
	"wildfox-engine/internal/mapgen"
	"wildfox-engine/internal/render"
)

// EngineConfigPath is the default config file, relative to the working directory.
const EngineConfigPath = "config/engine.yaml"

// WindowPrefs sizes and titles the main window.
type WindowPrefs struct {
	Width     int    `yaml:"width" toml:"width"`
	Height    int    `yaml:"height" toml:"height"`
	Title     string `yaml:"title" toml:"title"`
	VSync     bool   `yaml:"vsync" toml:"vsync"`
	MSAA      bool   `yaml:"msaa" toml:"msaa"`
	TargetFPS int    `yaml:"target_fps" toml:"target_fps"`
}

// CameraPrefs seeds the fly camera.
type CameraPrefs struct {
	Speed       float32    `yaml:"speed" toml:"speed"`
	Sensitivity float32    `yaml:"sensitivity" toml:"sensitivity"`
	Position    [3]float32 `yaml:"position" toml:"position"`
}

// EditorPrefs controls the editor layer and which panels start visible.
type EditorPrefs struct {
	Enabled     bool `yaml:"enabled" toml:"enabled"`
	Hierarchy   bool `yaml:"hierarchy" toml:"hierarchy"`
	Inspector   bool `yaml:"inspector" toml:"inspector"`
	Settings    bool `yaml:"settings" toml:"settings"`
	Console     bool `yaml:"console" toml:"console"`
	GridVisible bool `yaml:"grid_visible" toml:"grid_visible"`
}

// EnginePrefs holds engine-only preferences. Persisted across runs.
type EnginePrefs struct {
	Window  WindowPrefs     `yaml:"window" toml:"window"`
	Editor  EditorPrefs     `yaml:"editor" toml:"editor"`
	Camera  CameraPrefs     `yaml:"camera" toml:"camera"`
	Render  render.Settings `yaml:"render" toml:"render"`
	ShowFPS bool            `yaml:"show_fps" toml:"show_fps"`

	ShaderDir string `yaml:"shader_dir" toml:"shader_dir"`
	AssetDir  string `yaml:"asset_dir" toml:"asset_dir"`
	HotReload bool   `yaml:"hot_reload" toml:"hot_reload"`

	LogLevel string `yaml:"log_level" toml:"log_level"`
	LogFile  string `yaml:"log_file" toml:"log_file"`

	// Skybox lists the six cubemap faces (+X, -X, +Y, -Y, +Z, -Z), relative to AssetDir.
	Skybox  []string                `yaml:"skybox,omitempty" toml:"skybox,omitempty"`
	Terrain mapgen.HeightMapOptions `yaml:"terrain" toml:"terrain"`
}

// Default returns the preferences used when no file exists.
func Default() EnginePrefs {
	return EnginePrefs{
		Window: WindowPrefs{
			Width:     1280,
			Height:    720,
			Title:     "Wildfox Engine",
			VSync:     true,
			MSAA:      true,
			TargetFPS: 60,
		},
		Editor: EditorPrefs{
			Enabled:     true,
			Hierarchy:   true,
			Inspector:   true,
			Settings:    true,
			GridVisible: true,
		},
		Camera: CameraPrefs{
			Speed:       camera.DefaultSpeed,
			Sensitivity: camera.DefaultSensitivity,
			Position:    [3]float32{0, 0, 3},
		},
		Render:    render.DefaultSettings(),
		ShaderDir: "assets/shaders",
		AssetDir:  "assets",
		HotReload: true,
		LogLevel:  "info",
		LogFile:   "logs/engine.txt",
		Skybox: []string{
			"skybox/right.jpg", "skybox/left.jpg",
			"skybox/top.jpg", "skybox/bottom.jpg",
			"skybox/front.jpg", "skybox/back.jpg",
		},
		Terrain: mapgen.DefaultHeightMapOptions(),
	}
}

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel  = "WILDFOX_LOG_LEVEL"
	EnvAssetDir  = "WILDFOX_ASSET_DIR"
	EnvShaderDir = "WILDFOX_SHADER_DIR"
	EnvEditor    = "WILDFOX_EDITOR"
)

// ApplyEnv overrides preferences from environment variables read through lookup
// (os.LookupEnv in the binary). Empty values are ignored; a malformed boolean is an error
// and leaves that field alone.
func ApplyEnv(p *EnginePrefs, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	if v, ok := get(EnvLogLevel); ok {
		p.LogLevel = v
	}
	if v, ok := get(EnvAssetDir); ok {
		p.AssetDir = v
	}
	if v, ok := get(EnvShaderDir); ok {
		p.ShaderDir = v
	}
	if v, ok := get(EnvEditor); ok {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("engineconfig: %s: %w", EnvEditor, err)
		}
		p.Editor.Enabled = on
	}
	return nil
}

type format int

const (
	formatYAML format = iota
	formatTOML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	}
	return 0, fmt.Errorf("engineconfig: unsupported config extension %q", filepath.Ext(path))
}

// Load reads preferences from path. A missing file yields Default() and no error. A
// malformed file yields Default() and the parse error. Fields absent from the file keep
// their defaults.
func Load(path string) (EnginePrefs, error) {
	f, err := formatOf(path)
	if err != nil {
		return Default(), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("engineconfig: read %s: %w", path, err)
	}
	p := Default()
	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, &p)
	case formatTOML:
		err = toml.Unmarshal(data, &p)
	}
	if err != nil {
		return Default(), fmt.Errorf("engineconfig: parse %s: %w", path, err)
	}
	return p, nil
}

// Save writes preferences to path, creating the directory if needed.
func Save(path string, p EnginePrefs) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var data []byte
	switch f {
	case formatYAML:
		data, err = yaml.Marshal(p)
	case formatTOML:
		data, err = toml.Marshal(p)
	}
	if err != nil {
		return fmt.Errorf("engineconfig: encode: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
