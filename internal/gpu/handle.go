package gpu

import (
	"errors"
	"fmt"
)

// ID is a native GPU object name. The zero value never names a live object.
type ID uint32

// InvalidID is the sentinel returned when a GPU object could not be created.
const InvalidID ID = 0

// ErrInvalidHandle is returned when an operation needs a live GPU object and gets the sentinel.
var ErrInvalidHandle = errors.New("gpu: invalid handle")

// Kind identifies which native object type a Handle owns, so the device knows how to release it.
type Kind uint8

const (
	KindVertexLayout Kind = iota + 1
	KindVertexBuffer
	KindIndexBuffer
	KindTexture2D
	KindCubemap
	KindRenderTarget
	KindProgram
)

func (k Kind) String() string {
	switch k {
	case KindVertexLayout:
		return "vertex-layout"
	case KindVertexBuffer:
		return "vertex-buffer"
	case KindIndexBuffer:
		return "index-buffer"
	case KindTexture2D:
		return "texture2d"
	case KindCubemap:
		return "cubemap"
	case KindRenderTarget:
		return "render-target"
	case KindProgram:
		return "program"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Handle is the single owner of one native GPU object. Release frees the object
// exactly once; afterwards ID reports InvalidID. Handles are not copied around:
// pass *Handle and let whoever created it release it.
type Handle struct {
	dev  Device
	kind Kind
	id   ID
}

// NewHandle wraps an already created object. A zero id yields an invalid handle
// whose Release does nothing.
func NewHandle(dev Device, kind Kind, id ID) *Handle {
	return &Handle{dev: dev, kind: kind, id: id}
}

// ID returns the native name, or InvalidID for a nil or released handle.
func (h *Handle) ID() ID {
	if h == nil {
		return InvalidID
	}
	return h.id
}

func (h *Handle) Kind() Kind {
	if h == nil {
		return 0
	}
	return h.kind
}

// Valid reports whether the handle still owns a live object.
func (h *Handle) Valid() bool {
	return h != nil && h.id != InvalidID && h.dev != nil
}

// Release frees the native object. Calling it again, or on a nil handle, is a no-op.
func (h *Handle) Release() {
	if !h.Valid() {
		return
	}
	h.dev.Release(h.kind, h.id)
	h.id = InvalidID
}

// Take moves ownership out of h into a new handle and leaves h invalid.
// Used when a replacement object is swapped into a long-lived holder.
func (h *Handle) Take() *Handle {
	if h == nil {
		return nil
	}
	out := &Handle{dev: h.dev, kind: h.kind, id: h.id}
	h.id = InvalidID
	return out
}
