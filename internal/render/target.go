package render

import (
	"fmt"

	"wildfox-engine/internal/gpu"
)

// Target is an offscreen color+depth surface the editor shows as the viewport image.
type Target struct {
	dev         gpu.Device
	handle      *gpu.Handle
	width       int
	height      int
	allocations int
}

// NewTarget allocates a width×height target.
func NewTarget(dev gpu.Device, width, height int) (*Target, error) {
	t := &Target{dev: dev}
	if err := t.alloc(width, height); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Target) alloc(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render target %dx%d: %w", width, height, ErrEmptyViewport)
	}
	id, err := t.dev.CreateRenderTarget(width, height)
	if err == nil && id == gpu.InvalidID {
		err = gpu.ErrInvalidHandle
	}
	if err != nil {
		return fmt.Errorf("render target %dx%d: %w", width, height, err)
	}
	t.handle.Release()
	t.handle = gpu.NewHandle(t.dev, gpu.KindRenderTarget, id)
	t.width, t.height = width, height
	t.allocations++
	return nil
}

// Resize reallocates the target only when the size actually changes and both sides are
// positive. It reports whether a new target was allocated. On failure the old target stays.
func (t *Target) Resize(width, height int) (bool, error) {
	if width <= 0 || height <= 0 || (width == t.width && height == t.height) {
		return false, nil
	}
	if err := t.alloc(width, height); err != nil {
		return false, err
	}
	return true, nil
}

// ID is the native target, or InvalidID for a nil target.
func (t *Target) ID() gpu.ID {
	if t == nil {
		return gpu.InvalidID
	}
	return t.handle.ID()
}

// TextureID is the current color attachment. Ask again after every Resize.
func (t *Target) TextureID() gpu.ID {
	if t == nil || !t.handle.Valid() {
		return gpu.InvalidID
	}
	return t.dev.RenderTargetTexture(t.handle.ID())
}

func (t *Target) Size() (int, int) { return t.width, t.height }

// Allocations counts how many native targets this Target has created.
func (t *Target) Allocations() int { return t.allocations }

// Release frees the native target.
func (t *Target) Release() {
	if t == nil {
		return
	}
	t.handle.Release()
}
