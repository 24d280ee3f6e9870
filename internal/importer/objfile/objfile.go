// Package objfile reads Wavefront OBJ/MTL models into importer parts.
package objfile

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/importer"
	"wildfox-engine/internal/mesh"
)

// Importer decodes .obj files into one part per material, in first-use order. The
// material library named by mtllib is read from the model's directory.
type Importer struct {
	// Scale multiplies every position; zero means 1.
	Scale float32
	// Log receives decoder warnings when set.
	Log *slog.Logger
}

func (imp Importer) Import(path string) ([]importer.Part, error) {
	dec, err := obj.Decode(path, "")
	if err != nil {
		return nil, err
	}
	return imp.parts(dec)
}

// Parse decodes OBJ and MTL streams. mtl may be nil when the model has no materials.
func (imp Importer) Parse(objData, mtl io.Reader) ([]importer.Part, error) {
	dec, err := obj.DecodeReader(objData, mtl)
	if err != nil {
		return nil, err
	}
	return imp.parts(dec)
}

type corner struct{ v, uv, n int }

type builder struct {
	data  mesh.Data
	index map[corner]uint32
}

func at3(a []float32, i int) (mgl32.Vec3, bool) {
	if i < 0 || 3*i+2 >= len(a) {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{a[3*i], a[3*i+1], a[3*i+2]}, true
}

func at2(a []float32, i int) mgl32.Vec2 {
	if i < 0 || 2*i+1 >= len(a) {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{a[2*i], a[2*i+1]}
}

func indexAt(s []int, i int) int {
	if i < len(s) {
		return s[i]
	}
	return -1
}

func (imp Importer) parts(dec *obj.Decoder) ([]importer.Part, error) {
	if imp.Log != nil {
		for _, w := range dec.Warnings {
			imp.Log.Warn("obj decode", "warning", w)
		}
	}
	scale := imp.Scale
	if scale == 0 {
		scale = 1
	}
	verts := []float32(dec.Vertices)
	norms := []float32(dec.Normals)
	uvs := []float32(dec.Uvs)

	byMat := map[string]*builder{}
	var order []string
	for _, o := range dec.Objects {
		for _, f := range o.Faces {
			if len(f.Vertices) < 3 {
				continue
			}
			b, ok := byMat[f.Material]
			if !ok {
				b = &builder{index: map[corner]uint32{}}
				byMat[f.Material] = b
				order = append(order, f.Material)
			}
			faceNormal := mgl32.Vec3{}
			p0, _ := at3(verts, f.Vertices[0])
			p1, _ := at3(verts, f.Vertices[1])
			p2, _ := at3(verts, f.Vertices[2])
			if n := p1.Sub(p0).Cross(p2.Sub(p0)); n.Len() > 0 {
				faceNormal = n.Normalize()
			}
			ids := make([]uint32, len(f.Vertices))
			for i := range f.Vertices {
				c := corner{f.Vertices[i], indexAt(f.Uvs, i), indexAt(f.Normals, i)}
				if id, ok := b.index[c]; ok {
					ids[i] = id
					continue
				}
				pos, ok := at3(verts, c.v)
				if !ok {
					return nil, fmt.Errorf("objfile: vertex index %d out of range", c.v)
				}
				n, ok := at3(norms, c.n)
				if !ok || n.Len() == 0 {
					n = faceNormal
				} else {
					n = n.Normalize()
				}
				id := uint32(len(b.data.Vertices))
				b.data.Vertices = append(b.data.Vertices, gpu.Vertex{
					Position:  pos.Mul(scale),
					Normal:    n,
					TexCoords: at2(uvs, c.uv),
				})
				b.index[c] = id
				ids[i] = id
			}
			// Fan triangulation; OBJ polygons are convex.
			for i := 1; i+1 < len(ids); i++ {
				b.data.Indices = append(b.data.Indices, ids[0], ids[i], ids[i+1])
			}
		}
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("objfile: no faces")
	}

	parts := make([]importer.Part, 0, len(order))
	for _, name := range order {
		b := byMat[name]
		p := importer.Part{Name: name, Data: b.data, Color: mgl32.Vec3{1, 1, 1}}
		if m, ok := dec.Materials[name]; ok && m != nil {
			p.Color = mgl32.Vec3{m.Diffuse.R, m.Diffuse.G, m.Diffuse.B}
			if m.MapKd != "" {
				p.Textures = append(p.Textures, importer.TextureRef{Path: m.MapKd, Role: mesh.RoleDiffuse})
			}
		}
		parts = append(parts, p)
	}
	return parts, nil
}
