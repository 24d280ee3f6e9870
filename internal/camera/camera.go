// Package camera implements a first-person walk camera: yaw/pitch mouse look, movement
// flattened onto the ground plane, and scroll zoom expressed as vertical field of view.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Direction is one movement input for ProcessKeyboard.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

// Defaults for a freshly built camera.
const (
	DefaultYaw         float32 = -90
	DefaultPitch       float32 = 0
	DefaultSpeed       float32 = 2.5
	DefaultSensitivity float32 = 0.1
	DefaultZoom        float32 = 45

	MaxPitch float32 = 89
	MinZoom  float32 = 1
	MaxZoom  float32 = 55
	// zoomFloorSnap is where zoom lands when a scroll would take it to MinZoom or below.
	zoomFloorSnap float32 = 1.1

	NearPlane float32 = 0.1
	FarPlane  float32 = 100
)

// Camera holds position and orientation. The basis vectors are recomputed whenever
// yaw or pitch change, so Front, Right and Up are always orthonormal.
type Camera struct {
	position mgl32.Vec3
	worldUp  mgl32.Vec3

	front mgl32.Vec3
	right mgl32.Vec3
	up    mgl32.Vec3

	yaw   float32
	pitch float32
	zoom  float32

	speed       float32
	sensitivity float32
}

// New returns a camera at position looking down -Z with the default tuning.
func New(position mgl32.Vec3) *Camera {
	c := &Camera{
		position:    position,
		worldUp:     mgl32.Vec3{0, 1, 0},
		yaw:         DefaultYaw,
		pitch:       DefaultPitch,
		zoom:        DefaultZoom,
		speed:       DefaultSpeed,
		sensitivity: DefaultSensitivity,
	}
	c.updateVectors()
	return c
}

func (c *Camera) Position() mgl32.Vec3 { return c.position }
func (c *Camera) Front() mgl32.Vec3    { return c.front }
func (c *Camera) Right() mgl32.Vec3    { return c.right }
func (c *Camera) Up() mgl32.Vec3       { return c.up }
func (c *Camera) WorldUp() mgl32.Vec3  { return c.worldUp }
func (c *Camera) Yaw() float32         { return c.yaw }
func (c *Camera) Pitch() float32       { return c.pitch }

// Zoom is the vertical field of view in degrees.
func (c *Camera) Zoom() float32 { return c.zoom }

func (c *Camera) MovementSpeed() float32    { return c.speed }
func (c *Camera) MouseSensitivity() float32 { return c.sensitivity }

func (c *Camera) SetPosition(p mgl32.Vec3) { c.position = p }

func (c *Camera) SetMovementSpeed(s float32) {
	if s > 0 {
		c.speed = s
	}
}

func (c *Camera) SetMouseSensitivity(s float32) {
	if s > 0 {
		c.sensitivity = s
	}
}

// SetOrientation sets yaw and pitch in degrees, clamping pitch.
func (c *Camera) SetOrientation(yaw, pitch float32) {
	c.yaw = wrapYaw(yaw)
	c.pitch = mgl32.Clamp(pitch, -MaxPitch, MaxPitch)
	c.updateVectors()
}

// SetZoom sets the field of view, clamped to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(z float32) {
	c.zoom = mgl32.Clamp(z, MinZoom, MaxZoom)
}

// Reset restores position, orientation, zoom and tuning to their defaults.
func (c *Camera) Reset(position mgl32.Vec3) {
	*c = *New(position)
}

// ViewMatrix looks from the position along Front.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

// ProjectionMatrix is a perspective projection with Zoom as vertical FOV.
// A non-positive aspect ratio falls back to 1.
func (c *Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 || math32.IsNaN(aspect) || math32.IsInf(aspect, 0) {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.zoom), aspect, NearPlane, FarPlane)
}

// ProcessKeyboard moves the camera for dt seconds. Forward and backward use Front
// flattened onto the XZ plane so walking never changes height; looking straight up or
// down leaves no horizontal component and the step is skipped. Up and Down move along
// the world up axis.
func (c *Camera) ProcessKeyboard(dir Direction, dt float32) {
	v := c.speed * dt
	switch dir {
	case Forward, Backward:
		flat := mgl32.Vec3{c.front[0], 0, c.front[2]}
		if flat.Len() <= 1e-6 {
			return
		}
		flat = flat.Normalize()
		if dir == Backward {
			v = -v
		}
		c.position = c.position.Add(flat.Mul(v))
	case Left:
		c.position = c.position.Sub(c.right.Mul(v))
	case Right:
		c.position = c.position.Add(c.right.Mul(v))
	case Up:
		c.position = c.position.Add(c.worldUp.Mul(v))
	case Down:
		c.position = c.position.Sub(c.worldUp.Mul(v))
	}
}

// ProcessMouseMovement turns by the cursor delta scaled by sensitivity. Pitch is
// clamped to ±89° so the view never flips over the pole.
func (c *Camera) ProcessMouseMovement(dx, dy float32) {
	c.yaw = wrapYaw(c.yaw + dx*c.sensitivity)
	c.pitch = mgl32.Clamp(c.pitch+dy*c.sensitivity, -MaxPitch, MaxPitch)
	c.updateVectors()
}

// ProcessScroll changes the field of view by the scroll offset. A negative offset
// narrows the view. Reaching MinZoom or below snaps to just above the floor, and the
// result never exceeds MaxZoom.
func (c *Camera) ProcessScroll(dy float32) {
	if math32.IsNaN(dy) {
		return
	}
	z := c.zoom + dy
	switch {
	case z <= MinZoom:
		z = zoomFloorSnap
	case z > MaxZoom:
		z = MaxZoom
	}
	c.zoom = z
}

// wrapYaw keeps yaw inside (-360, 360) so long sessions do not lose float precision.
func wrapYaw(y float32) float32 {
	return math32.Mod(y, 360)
}

func (c *Camera) updateVectors() {
	yaw := mgl32.DegToRad(c.yaw)
	pitch := mgl32.DegToRad(c.pitch)
	sy, cy := math32.Sincos(yaw)
	sp, cp := math32.Sincos(pitch)
	c.front = mgl32.Vec3{cy * cp, sp, sy * cp}.Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}
