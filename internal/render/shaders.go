package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"

	"wildfox-engine/internal/gpu"
)

// Built-in program names.
const (
	DefaultShader = "default"
	SkyboxShader  = "skybox"
	UnlitShader   = "unlit"
)

//go:embed shaders
var builtinShaders embed.FS

// Stage file layout under a shader directory.
const (
	vertexDir   = "vertex"
	fragmentDir = "fragment"
	geometryDir = "geometry"
	vertexExt   = ".vs"
	fragmentExt = ".fs"
	geometryExt = ".gs"
)

// ShaderLibrary compiles named programs from <dir>/vertex/<name>.vs, <dir>/fragment/<name>.fs
// and the optional <dir>/geometry/<name>.gs, falling back to the built-in sources for
// any stage missing on disk. Programs that fail to build are kept as invalid programs
// so the pipeline can report and skip them.
type ShaderLibrary struct {
	dev      gpu.Device
	dir      string
	log      *slog.Logger
	programs map[string]*gpu.Program
}

// NewShaderLibrary reads overrides from dir; an empty dir uses only built-in sources.
func NewShaderLibrary(dev gpu.Device, dir string, log *slog.Logger) *ShaderLibrary {
	if log == nil {
		log = slog.Default()
	}
	return &ShaderLibrary{dev: dev, dir: dir, log: log, programs: map[string]*gpu.Program{}}
}

// Dir is the directory searched for overrides.
func (l *ShaderLibrary) Dir() string { return l.dir }

func (l *ShaderLibrary) readStage(stageDir, name, ext string) (string, error) {
	if l.dir != "" {
		b, err := os.ReadFile(filepath.Join(l.dir, stageDir, name+ext))
		if err == nil {
			return string(b), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	b, err := builtinShaders.ReadFile(path.Join("shaders", stageDir, name+ext))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Source gathers the stage sources for name. Vertex and fragment stages are required.
func (l *ShaderLibrary) Source(name string) (gpu.ProgramSource, error) {
	src := gpu.ProgramSource{Name: name}
	var err error
	if src.Vertex, err = l.readStage(vertexDir, name, vertexExt); err != nil {
		return src, fmt.Errorf("shader %q vertex stage: %w", name, err)
	}
	if src.Fragment, err = l.readStage(fragmentDir, name, fragmentExt); err != nil {
		return src, fmt.Errorf("shader %q fragment stage: %w", name, err)
	}
	if gs, err := l.readStage(geometryDir, name, geometryExt); err == nil {
		src.Geometry = gs
	}
	return src, nil
}

func (l *ShaderLibrary) build(name string) *gpu.Program {
	src, err := l.Source(name)
	if err != nil {
		l.log.Error("shader sources unavailable", "program", name, "err", err)
		return gpu.CompileProgram(l.dev, gpu.ProgramSource{Name: name}, nil)
	}
	return gpu.CompileProgram(l.dev, src, l.log)
}

// Get returns the program for name, building it on first use. The result is never nil
// but may be invalid.
func (l *ShaderLibrary) Get(name string) *gpu.Program {
	if p, ok := l.programs[name]; ok {
		return p
	}
	p := l.build(name)
	l.programs[name] = p
	return p
}

// Reload rebuilds name from its current sources. The new program replaces the old one
// only if it is valid; otherwise the old program stays in use. Reports whether it swapped.
func (l *ShaderLibrary) Reload(name string) bool {
	p := l.build(name)
	if !p.Valid() {
		l.log.Warn("shader reload failed; keeping previous program", "program", name)
		return false
	}
	if old, ok := l.programs[name]; ok {
		old.Release()
	}
	l.programs[name] = p
	l.log.Info("shader reloaded", "program", name)
	return true
}

// Names lists the programs built so far, sorted.
func (l *ShaderLibrary) Names() []string {
	names := make([]string, 0, len(l.programs))
	for n := range l.programs {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Release frees every program.
func (l *ShaderLibrary) Release() {
	for name, p := range l.programs {
		p.Release()
		delete(l.programs, name)
	}
}
