// Package mesh holds GPU geometry, materials and the drawable meshes and models built from them.
package mesh

import (
	"errors"
	"fmt"

	"wildfox-engine/internal/gpu"
)

// Data is CPU-side geometry: interleaved vertices plus triangle indices.
type Data struct {
	Vertices []gpu.Vertex
	Indices  []uint32
}

// Validate checks that there is at least one triangle and every index points at a vertex.
func (d Data) Validate() error {
	if len(d.Vertices) == 0 {
		return errors.New("mesh: no vertices")
	}
	if len(d.Indices) == 0 || len(d.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index count %d is not a positive multiple of 3", len(d.Indices))
	}
	for i, idx := range d.Indices {
		if int(idx) >= len(d.Vertices) {
			return fmt.Errorf("mesh: index %d at %d out of range (%d vertices)", idx, i, len(d.Vertices))
		}
	}
	return nil
}

// Geometry owns a vertex layout, vertex buffer and index buffer. It is never
// shared between meshes; Release frees all three objects.
type Geometry struct {
	dev        gpu.Device
	layout     *gpu.Handle
	vertices   *gpu.Handle
	indices    *gpu.Handle
	indexCount int
	vertCount  int
}

// NewGeometry validates data and uploads it. On failure nothing stays allocated.
func NewGeometry(dev gpu.Device, data Data) (*Geometry, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	layout, vbo, ibo, err := dev.CreateGeometry(data.Vertices, data.Indices)
	if err != nil {
		return nil, fmt.Errorf("upload geometry: %w", err)
	}
	if layout == gpu.InvalidID {
		gpu.NewHandle(dev, gpu.KindVertexBuffer, vbo).Release()
		gpu.NewHandle(dev, gpu.KindIndexBuffer, ibo).Release()
		return nil, fmt.Errorf("upload geometry: %w", gpu.ErrInvalidHandle)
	}
	return &Geometry{
		dev:        dev,
		layout:     gpu.NewHandle(dev, gpu.KindVertexLayout, layout),
		vertices:   gpu.NewHandle(dev, gpu.KindVertexBuffer, vbo),
		indices:    gpu.NewHandle(dev, gpu.KindIndexBuffer, ibo),
		indexCount: len(data.Indices),
		vertCount:  len(data.Vertices),
	}, nil
}

// IndexCount is the number of indices drawn per call.
func (g *Geometry) IndexCount() int { return g.indexCount }

func (g *Geometry) VertexCount() int { return g.vertCount }

// Valid reports whether the layout object is still alive.
func (g *Geometry) Valid() bool { return g != nil && g.layout.Valid() }

// Draw issues a single indexed draw with whatever program is current.
func (g *Geometry) Draw() {
	if !g.Valid() {
		return
	}
	g.dev.DrawGeometry(g.layout.ID(), g.indexCount)
}

// Release frees the buffers and then the layout.
func (g *Geometry) Release() {
	if g == nil {
		return
	}
	g.indices.Release()
	g.vertices.Release()
	g.layout.Release()
}
