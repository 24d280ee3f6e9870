package gpu

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Program is a compiled shader program. A failed compile yields a Program whose
// handle is invalid; every setter on it is a silent no-op so callers can keep
// drawing while the diagnostic sits in the log.
type Program struct {
	dev    Device
	name   string
	handle *Handle
}

// CompileProgram compiles src on dev. Compile and link errors are logged and
// produce an invalid Program, never a nil one.
func CompileProgram(dev Device, src ProgramSource, log *slog.Logger) *Program {
	p := &Program{dev: dev, name: src.Name}
	id, err := dev.CompileProgram(src)
	if err != nil || id == InvalidID {
		if log != nil {
			log.Error("shader program failed to build", "program", src.Name, "err", err)
		}
		p.handle = NewHandle(dev, KindProgram, InvalidID)
		return p
	}
	p.handle = NewHandle(dev, KindProgram, id)
	return p
}

func (p *Program) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

func (p *Program) ID() ID {
	if p == nil {
		return InvalidID
	}
	return p.handle.ID()
}

func (p *Program) Valid() bool {
	return p != nil && p.handle.Valid()
}

// Use makes p the current program for subsequent draws.
func (p *Program) Use() {
	if !p.Valid() {
		return
	}
	p.dev.UseProgram(p.handle.ID())
}

// SetBool writes a boolean uniform as an int, the way GLSL expects it.
func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(name, i)
}

func (p *Program) SetInt(name string, v int32) {
	if !p.Valid() {
		return
	}
	p.dev.SetUniformInt(p.handle.ID(), name, v)
}

func (p *Program) SetFloat(name string, v float32) {
	if !p.Valid() {
		return
	}
	p.dev.SetUniformFloat(p.handle.ID(), name, v)
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if !p.Valid() {
		return
	}
	p.dev.SetUniformVec3(p.handle.ID(), name, v)
}

func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if !p.Valid() {
		return
	}
	p.dev.SetUniformVec4(p.handle.ID(), name, v)
}

func (p *Program) SetMat4(name string, v mgl32.Mat4) {
	if !p.Valid() {
		return
	}
	p.dev.SetUniformMat4(p.handle.ID(), name, v)
}

// SetSampler binds tex to unit and points the named sampler at it.
func (p *Program) SetSampler(name string, unit int, kind Kind, tex ID) {
	if !p.Valid() {
		return
	}
	p.dev.BindTexture(p.handle.ID(), name, unit, kind, tex)
}

// Release frees the native program.
func (p *Program) Release() {
	if p == nil {
		return
	}
	p.handle.Release()
}
