package gpu_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildfox-engine/internal/gpu"
	"wildfox-engine/internal/gpu/gputest"
)

func TestHandleReleaseOnce(t *testing.T) {
	dev := gputest.New()
	id, err := dev.CreateTexture(gpu.Image{Pixels: []byte{1, 2, 3, 4}, Width: 1, Height: 1, Channels: 4}, gpu.TextureOptions{})
	require.NoError(t, err)

	h := gpu.NewHandle(dev, gpu.KindTexture2D, id)
	assert.True(t, h.Valid())
	h.Release()
	h.Release()

	assert.Equal(t, gpu.InvalidID, h.ID())
	assert.Equal(t, []gpu.ID{id}, dev.Released())
}

func TestHandleTakeMovesOwnership(t *testing.T) {
	dev := gputest.New()
	id, err := dev.CreateRenderTarget(4, 4)
	require.NoError(t, err)

	h := gpu.NewHandle(dev, gpu.KindRenderTarget, id)
	moved := h.Take()
	h.Release()
	assert.True(t, dev.IsLive(id))

	moved.Release()
	assert.False(t, dev.IsLive(id))
}

func TestNilAndInvalidHandles(t *testing.T) {
	var h *gpu.Handle
	assert.False(t, h.Valid())
	assert.Equal(t, gpu.InvalidID, h.ID())
	h.Release()

	dev := gputest.New()
	gpu.NewHandle(dev, gpu.KindProgram, gpu.InvalidID).Release()
	assert.Empty(t, dev.Released())
}

func TestInvalidProgramSettersAreNoops(t *testing.T) {
	dev := gputest.New()
	dev.FailCompile = true
	p := gpu.CompileProgram(dev, gpu.ProgramSource{Name: "broken", Vertex: "v", Fragment: "f"}, nil)

	require.NotNil(t, p)
	assert.False(t, p.Valid())
	p.Use()
	p.SetMat4("model", mgl32.Ident4())
	p.SetSampler("material.texture_diffuse1", 0, gpu.KindTexture2D, 7)
	assert.Empty(t, dev.Bindings)
	assert.Equal(t, gpu.InvalidID, dev.Current())
}

func TestProgramSetBoolWritesInt(t *testing.T) {
	dev := gputest.New()
	p := gpu.CompileProgram(dev, gpu.ProgramSource{Name: "lit", Vertex: "v", Fragment: "f"}, nil)
	require.True(t, p.Valid())

	p.SetBool("useColor", true)
	v, ok := dev.Uniform(p.ID(), "useColor")
	require.True(t, ok)
	assert.Equal(t, int32(1), v)

	p.Release()
	assert.False(t, p.Valid())
}
