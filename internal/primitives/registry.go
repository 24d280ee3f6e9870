package primitives

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/mapgen"
	"wildfox-engine/internal/mesh"
)

// Generator turns a definition into CPU geometry.
type Generator func(def PrimitiveDef) mesh.Data

// defaultSphereSegments and defaultCylinderSegments control mesh resolution when a definition leaves Segments at 0.
const (
	defaultSphereSegments   = 16
	defaultCylinderSegments = 16
)

// Registry maps primitive names to a definition and the generator its Type selects.
// Geometry is generated per Build call so every scene object owns its own buffers.
type Registry struct {
	mu       sync.RWMutex
	gens     map[string]Generator
	custom   map[string]Generator
	defs     map[string]PrimitiveDef
	textures func(path string) gpu.ID
	log      *slog.Logger
}

// NewRegistry returns a registry with the built-in cube, sphere, cylinder, plane, quad and terrain.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	r := &Registry{
		gens:   map[string]Generator{},
		custom: map[string]Generator{},
		defs:   map[string]PrimitiveDef{},
		log:    log,
	}
	r.gens["cube"] = func(d PrimitiveDef) mesh.Data {
		s := d.size()
		return Cube(s[0], s[1], s[2])
	}
	r.gens["sphere"] = func(d PrimitiveDef) mesh.Data {
		// Radius 0.5 so diameter matches the cube side length.
		n := d.Segments
		if n <= 0 {
			n = defaultSphereSegments
		}
		return Sphere(0.5*d.size()[0], n, n)
	}
	r.gens["cylinder"] = func(d PrimitiveDef) mesh.Data {
		n := d.Segments
		if n <= 0 {
			n = defaultCylinderSegments
		}
		s := d.size()
		return Cylinder(0.5*s[0], s[1], n)
	}
	r.gens["plane"] = func(d PrimitiveDef) mesh.Data {
		return Plane(d.size()[0], d.Tiles)
	}
	r.gens["quad"] = func(PrimitiveDef) mesh.Data { return Quad() }
	r.gens["terrain"] = func(d PrimitiveDef) mesh.Data {
		opts := mapgen.DefaultHeightMapOptions()
		if d.Segments > 1 {
			opts.Width, opts.Depth = d.Segments, d.Segments
		}
		s := d.size()
		opts.TileSize = s[0]
		opts.HeightScale = 3 * s[1]
		opts.Seed = 1
		return mapgen.Terrain(opts)
	}
	for name := range r.gens {
		r.defs[name] = PrimitiveDef{Type: name}
	}
	return r
}

// Register adds or replaces a named primitive. def.Type must name a registered generator
// unless gen is non-nil, in which case gen serves this name only.
func (r *Registry) Register(name string, def PrimitiveDef, gen Generator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if def.Type == "" {
		def.Type = name
	}
	if gen == nil {
		if _, ok := r.gens[def.Type]; !ok {
			return fmt.Errorf("primitive %q: unknown type %q", name, def.Type)
		}
		delete(r.custom, name)
	} else {
		r.custom[name] = gen
	}
	r.defs[name] = def
	return nil
}

// SetTextureLoader sets how Build resolves a definition's Texture into a GPU texture.
// Without a loader, textures are ignored and primitives keep their solid color.
func (r *Registry) SetTextureLoader(load func(path string) gpu.ID) {
	r.mu.Lock()
	r.textures = load
	r.mu.Unlock()
}

// LoadDefs reads every *.yaml / *.yml file in dir as a PrimitiveDef named after the file.
// A missing directory is not an error. Bad files are skipped and reported together.
func (r *Registry) LoadDefs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var errs []error
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		var def PrimitiveDef
		if err := yaml.Unmarshal(data, &def); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if err := r.Register(name, def, nil); err != nil {
			errs = append(errs, err)
			continue
		}
		r.log.Debug("primitive definition loaded", "name", name, "type", def.Type)
	}
	return errors.Join(errs...)
}

// Names returns every registered primitive name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Def returns the definition registered under name.
func (r *Registry) Def(name string) (PrimitiveDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[name]
	return d, ok
}

// Data generates the CPU geometry for name.
func (r *Registry) Data(name string) (mesh.Data, error) {
	r.mu.RLock()
	def, ok := r.defs[name]
	gen := r.custom[name]
	if gen == nil {
		gen = r.gens[def.Type]
	}
	r.mu.RUnlock()
	if !ok || gen == nil {
		return mesh.Data{}, fmt.Errorf("unknown primitive %q", name)
	}
	return gen(def), nil
}

// Build generates and uploads a fresh single-mesh model for name, shaded with the
// definition's texture when one loads, else its color. The caller owns the returned
// model; the texture stays with whoever the loader got it from.
func (r *Registry) Build(dev gpu.Device, name string) (*mesh.Model, error) {
	data, err := r.Data(name)
	if err != nil {
		return nil, err
	}
	def, _ := r.Def(name)
	color, err := def.RGB()
	if err != nil {
		r.log.Warn("primitive color ignored", "name", name, "err", err)
		color, _ = ParseColor(defaultColor)
	}
	geom, err := mesh.NewGeometry(dev, data)
	if err != nil {
		return nil, fmt.Errorf("primitive %q: %w", name, err)
	}
	return mesh.NewModel(name, &mesh.Mesh{Geometry: geom, Material: r.material(name, def, color)}), nil
}

func (r *Registry) material(name string, def PrimitiveDef, color mgl32.Vec3) *mesh.Material {
	r.mu.RLock()
	load := r.textures
	r.mu.RUnlock()
	if def.Texture == "" || load == nil {
		return mesh.SolidMaterial(color)
	}
	id := load(def.Texture)
	if id == gpu.InvalidID {
		r.log.Warn("primitive texture not loaded", "name", name, "texture", def.Texture)
		return mesh.SolidMaterial(color)
	}
	return mesh.TexturedMaterial([]mesh.Texture{{ID: id, Role: mesh.RoleDiffuse, Path: def.Texture}})
}
