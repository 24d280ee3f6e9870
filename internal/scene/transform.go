package scene

import "github.com/go-gl/mathgl/mgl32"

// Transform is position, Euler rotation in degrees and per-axis scale. The model
// matrix T·Rx·Ry·Rz·S is cached and rebuilt only after a setter has run.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3

	model    mgl32.Mat4
	valid    bool
	rebuilds int
}

// NewTransform returns the identity transform: origin, no rotation, unit scale.
func NewTransform() Transform {
	return Transform{scale: mgl32.Vec3{1, 1, 1}}
}

// NewTransformPRS returns a transform with the given position, rotation (degrees) and scale.
func NewTransformPRS(position, rotation, scale mgl32.Vec3) Transform {
	return Transform{position: position, rotation: rotation, scale: scale}
}

func (t *Transform) Position() mgl32.Vec3 { return t.position }
func (t *Transform) Rotation() mgl32.Vec3 { return t.rotation }
func (t *Transform) Scale() mgl32.Vec3    { return t.scale }

func (t *Transform) SetPosition(p mgl32.Vec3) {
	t.position = p
	t.valid = false
}

// Translate moves the position by delta.
func (t *Transform) Translate(delta mgl32.Vec3) {
	t.position = t.position.Add(delta)
	t.valid = false
}

// SetRotation sets Euler angles in degrees.
func (t *Transform) SetRotation(r mgl32.Vec3) {
	t.rotation = r
	t.valid = false
}

// Rotate adds delta degrees to the Euler angles.
func (t *Transform) Rotate(delta mgl32.Vec3) {
	t.rotation = t.rotation.Add(delta)
	t.valid = false
}

func (t *Transform) SetScale(s mgl32.Vec3) {
	t.scale = s
	t.valid = false
}

// SetUniformScale sets all three scale components to s.
func (t *Transform) SetUniformScale(s float32) {
	t.SetScale(mgl32.Vec3{s, s, s})
}

// ModelMatrix returns T·Rx·Ry·Rz·S, rebuilding it only if something changed since the last call.
func (t *Transform) ModelMatrix() mgl32.Mat4 {
	if !t.valid {
		t.model = mgl32.Translate3D(t.position[0], t.position[1], t.position[2]).
			Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(t.rotation[0]))).
			Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(t.rotation[1]))).
			Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(t.rotation[2]))).
			Mul4(mgl32.Scale3D(t.scale[0], t.scale[1], t.scale[2]))
		t.valid = true
		t.rebuilds++
	}
	return t.model
}

func (t *Transform) yawPitch() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(mgl32.DegToRad(t.rotation[1])).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(t.rotation[0])))
}

// Forward is -Z rotated by yaw then pitch. Roll is ignored.
func (t *Transform) Forward() mgl32.Vec3 {
	return t.yawPitch().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
}

// Right is +X rotated by yaw only, so it stays horizontal.
func (t *Transform) Right() mgl32.Vec3 {
	return mgl32.HomogRotate3DY(mgl32.DegToRad(t.rotation[1])).Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()
}

// Up is +Y rotated by yaw then pitch.
func (t *Transform) Up() mgl32.Vec3 {
	return t.yawPitch().Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
}
