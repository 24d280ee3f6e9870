package primitives

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/mesh"
)

// face appends one quad centered at c, spanning u and v (half extents), facing u×v.
// Tangent and bitangent follow the u and v axes so normal maps line up with texture space.
func face(d *mesh.Data, c, u, v mgl32.Vec3, uvScale float32) {
	n := u.Cross(v).Normalize()
	t := u.Normalize()
	b := v.Normalize()
	base := uint32(len(d.Vertices))
	corners := [4]struct {
		su, sv float32
		uv     mgl32.Vec2
	}{
		{-1, -1, mgl32.Vec2{0, 0}},
		{1, -1, mgl32.Vec2{uvScale, 0}},
		{1, 1, mgl32.Vec2{uvScale, uvScale}},
		{-1, 1, mgl32.Vec2{0, uvScale}},
	}
	for _, k := range corners {
		d.Vertices = append(d.Vertices, gpu.Vertex{
			Position:  c.Add(u.Mul(k.su)).Add(v.Mul(k.sv)),
			Normal:    n,
			TexCoords: k.uv,
			Tangent:   t,
			Bitangent: b,
		})
	}
	d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
}

// Cube returns an axis-aligned box centered at the origin with the given full extents.
// Each side has its own four vertices so normals stay flat.
func Cube(sx, sy, sz float32) mesh.Data {
	hx, hy, hz := sx/2, sy/2, sz/2
	var d mesh.Data
	face(&d, mgl32.Vec3{hx, 0, 0}, mgl32.Vec3{0, 0, -hz}, mgl32.Vec3{0, hy, 0}, 1)
	face(&d, mgl32.Vec3{-hx, 0, 0}, mgl32.Vec3{0, 0, hz}, mgl32.Vec3{0, hy, 0}, 1)
	face(&d, mgl32.Vec3{0, hy, 0}, mgl32.Vec3{hx, 0, 0}, mgl32.Vec3{0, 0, -hz}, 1)
	face(&d, mgl32.Vec3{0, -hy, 0}, mgl32.Vec3{hx, 0, 0}, mgl32.Vec3{0, 0, hz}, 1)
	face(&d, mgl32.Vec3{0, 0, hz}, mgl32.Vec3{hx, 0, 0}, mgl32.Vec3{0, hy, 0}, 1)
	face(&d, mgl32.Vec3{0, 0, -hz}, mgl32.Vec3{-hx, 0, 0}, mgl32.Vec3{0, hy, 0}, 1)
	return d
}

// Quad returns a 2×2 square in the XY plane facing +Z, with tangents for normal mapping.
func Quad() mesh.Data {
	var d mesh.Data
	face(&d, mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, 1)
	return d
}

// Plane returns a square in the XZ plane facing +Y with UVs repeated tiles times.
func Plane(size, tiles float32) mesh.Data {
	if tiles <= 0 {
		tiles = 1
	}
	h := size / 2
	var d mesh.Data
	face(&d, mgl32.Vec3{}, mgl32.Vec3{h, 0, 0}, mgl32.Vec3{0, 0, -h}, tiles)
	return d
}

// Sphere returns a UV sphere of the given radius.
func Sphere(radius float32, rings, slices int) mesh.Data {
	if rings < 2 {
		rings = 2
	}
	if slices < 3 {
		slices = 3
	}
	var d mesh.Data
	for r := 0; r <= rings; r++ {
		phi := math32.Pi * float32(r) / float32(rings)
		sp, cp := math32.Sincos(phi)
		for s := 0; s <= slices; s++ {
			theta := 2 * math32.Pi * float32(s) / float32(slices)
			st, ct := math32.Sincos(theta)
			n := mgl32.Vec3{sp * ct, cp, sp * st}
			d.Vertices = append(d.Vertices, gpu.Vertex{
				Position:  n.Mul(radius),
				Normal:    n,
				TexCoords: mgl32.Vec2{float32(s) / float32(slices), float32(r) / float32(rings)},
			})
		}
	}
	stride := uint32(slices + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < slices; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + stride
			d.Indices = append(d.Indices, a, a+1, b, a+1, b+1, b)
		}
	}
	ComputeTangents(&d)
	return d
}

// Cylinder returns a capped cylinder centered at the origin, axis along Y.
func Cylinder(radius, height float32, slices int) mesh.Data {
	if slices < 3 {
		slices = 3
	}
	h := height / 2
	var d mesh.Data
	for _, y := range [2]float32{h, -h} {
		for s := 0; s <= slices; s++ {
			theta := 2 * math32.Pi * float32(s) / float32(slices)
			st, ct := math32.Sincos(theta)
			v := float32(0)
			if y < 0 {
				v = 1
			}
			d.Vertices = append(d.Vertices, gpu.Vertex{
				Position:  mgl32.Vec3{ct * radius, y, st * radius},
				Normal:    mgl32.Vec3{ct, 0, st},
				TexCoords: mgl32.Vec2{float32(s) / float32(slices), v},
			})
		}
	}
	stride := uint32(slices + 1)
	for s := uint32(0); s < uint32(slices); s++ {
		d.Indices = append(d.Indices, s, s+1, s+stride, s+1, s+stride+1, s+stride)
	}
	addCap := func(y, ny float32, top bool) {
		center := uint32(len(d.Vertices))
		d.Vertices = append(d.Vertices, gpu.Vertex{
			Position:  mgl32.Vec3{0, y, 0},
			Normal:    mgl32.Vec3{0, ny, 0},
			TexCoords: mgl32.Vec2{0.5, 0.5},
		})
		for s := 0; s <= slices; s++ {
			theta := 2 * math32.Pi * float32(s) / float32(slices)
			st, ct := math32.Sincos(theta)
			d.Vertices = append(d.Vertices, gpu.Vertex{
				Position:  mgl32.Vec3{ct * radius, y, st * radius},
				Normal:    mgl32.Vec3{0, ny, 0},
				TexCoords: mgl32.Vec2{0.5 + ct/2, 0.5 + st/2},
			})
		}
		for s := uint32(0); s < uint32(slices); s++ {
			p0, p1 := center+1+s, center+2+s
			if top {
				d.Indices = append(d.Indices, center, p1, p0)
			} else {
				d.Indices = append(d.Indices, center, p0, p1)
			}
		}
	}
	addCap(h, 1, true)
	addCap(-h, -1, false)
	ComputeTangents(&d)
	return d
}

// ComputeTangents fills per-vertex tangents and bitangents from triangle UV gradients.
// Triangles with degenerate UVs contribute nothing.
func ComputeTangents(d *mesh.Data) {
	tan := make([]mgl32.Vec3, len(d.Vertices))
	bit := make([]mgl32.Vec3, len(d.Vertices))
	for i := 0; i+2 < len(d.Indices); i += 3 {
		i0, i1, i2 := d.Indices[i], d.Indices[i+1], d.Indices[i+2]
		v0, v1, v2 := d.Vertices[i0], d.Vertices[i1], d.Vertices[i2]
		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du1, dv1 := v1.TexCoords[0]-v0.TexCoords[0], v1.TexCoords[1]-v0.TexCoords[1]
		du2, dv2 := v2.TexCoords[0]-v0.TexCoords[0], v2.TexCoords[1]-v0.TexCoords[1]
		det := du1*dv2 - du2*dv1
		if math32.Abs(det) < 1e-8 {
			continue
		}
		f := 1 / det
		t := e1.Mul(dv2).Sub(e2.Mul(dv1)).Mul(f)
		b := e2.Mul(du1).Sub(e1.Mul(du2)).Mul(f)
		for _, idx := range [3]uint32{i0, i1, i2} {
			tan[idx] = tan[idx].Add(t)
			bit[idx] = bit[idx].Add(b)
		}
	}
	for i := range d.Vertices {
		if tan[i].Len() > 0 {
			d.Vertices[i].Tangent = tan[i].Normalize()
		}
		if bit[i].Len() > 0 {
			d.Vertices[i].Bitangent = bit[i].Normalize()
		}
	}
}
