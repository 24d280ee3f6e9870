package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/mesh"
	"wildfox-engine/internal/primitives"
)

// Skybox is a unit cube sampled by direction from a cubemap. The cubemap belongs to
// the texture cache; the skybox owns only its cube geometry.
type Skybox struct {
	geometry *mesh.Geometry
	cubemap  gpu.ID
}

// NewSkybox uploads the cube used to draw cubemap.
func NewSkybox(dev gpu.Device, cubemap gpu.ID) (*Skybox, error) {
	if cubemap == gpu.InvalidID {
		return nil, gpu.ErrInvalidHandle
	}
	g, err := mesh.NewGeometry(dev, primitives.Cube(2, 2, 2))
	if err != nil {
		return nil, err
	}
	return &Skybox{geometry: g, cubemap: cubemap}, nil
}

func (s *Skybox) Cubemap() gpu.ID { return s.cubemap }

// draw renders with the translation stripped from view so the sky stays centered on the camera.
func (s *Skybox) draw(prog *gpu.Program, view, projection mgl32.Mat4) {
	prog.Use()
	prog.SetMat4("view", view.Mat3().Mat4())
	prog.SetMat4("projection", projection)
	prog.SetSampler("skybox", 0, gpu.KindCubemap, s.cubemap)
	s.geometry.Draw()
	prog.SetSampler("", 0, gpu.KindCubemap, gpu.InvalidID)
}

// Release frees the cube geometry.
func (s *Skybox) Release() {
	if s == nil {
		return
	}
	s.geometry.Release()
}
