// Package importer turns model files into engine models. Format readers produce CPU-side
// parts; Build uploads them and resolves their textures through the texture cache.
package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/mesh"
	"wildfox-engine/internal/texture"
)

// ErrUnsupported is returned for a file extension no importer handles.
var ErrUnsupported = errors.New("importer: unsupported model format")

// TextureRef names a texture file a part samples. Relative paths are resolved against
// the model file's directory.
type TextureRef struct {
	Path string
	Role mesh.TextureRole
}

// Part is one drawable piece of an imported model: geometry plus how to shade it.
type Part struct {
	Name     string
	Data     mesh.Data
	Color    mgl32.Vec3
	Textures []TextureRef
}

// Importer reads a model file into parts.
type Importer interface {
	Import(path string) ([]Part, error)
}

// ImporterFunc adapts a function to Importer.
type ImporterFunc func(path string) ([]Part, error)

func (f ImporterFunc) Import(path string) ([]Part, error) { return f(path) }

// Registry picks an importer by file extension.
type Registry struct {
	byExt map[string]Importer
	log   *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{byExt: map[string]Importer{}, log: log}
}

// Register handles ext (with or without the dot, any case) with imp.
func (r *Registry) Register(ext string, imp Importer) {
	r.byExt[normExt(ext)] = imp
}

func normExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Supports reports whether path has a registered extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[normExt(filepath.Ext(path))]
	return ok
}

// Import reads path with the importer registered for its extension.
func (r *Registry) Import(path string) ([]Part, error) {
	imp, ok := r.byExt[normExt(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	parts, err := imp.Import(path)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	r.log.Debug("model imported", "path", path, "parts", len(parts))
	return parts, nil
}

// Load imports path and builds a model from it.
func (r *Registry) Load(dev gpu.Device, cache *texture.Cache, path string) (*mesh.Model, error) {
	parts, err := r.Import(path)
	if err != nil {
		return nil, err
	}
	return Build(dev, cache, path, parts)
}

// Build uploads every part into one model named after path. Texture paths are resolved
// against path's directory; textures that fail to load are dropped and the part falls
// back to its color. A geometry failure releases everything built so far.
func Build(dev gpu.Device, cache *texture.Cache, path string, parts []Part) (*mesh.Model, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("build %s: no geometry", path)
	}
	dir := filepath.Dir(path)
	model := mesh.NewModel(path)
	for _, p := range parts {
		geom, err := mesh.NewGeometry(dev, p.Data)
		if err != nil {
			model.Release()
			return nil, fmt.Errorf("build %s part %q: %w", path, p.Name, err)
		}
		var texs []mesh.Texture
		for _, ref := range p.Textures {
			if cache == nil {
				break
			}
			tp := ref.Path
			if !filepath.IsAbs(tp) {
				tp = filepath.Join(dir, tp)
			}
			texs = append(texs, mesh.Texture{ID: cache.Load(tp), Role: ref.Role, Path: tp})
		}
		mat := mesh.TexturedMaterial(texs)
		if mat.UseColor() {
			mat.SetColor(p.Color)
		}
		model.Add(&mesh.Mesh{Geometry: geom, Material: mat})
	}
	return model, nil
}
