// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera orbits around a center point with a perspective projection.
type OrbitCamera struct {
	// Center point to orbit around
	Center mgl32.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Vertical angle (radians)
	Yaw      float32 // Horizontal angle (radians)

	// Projection
	FOV    float32 // Vertical field of view (degrees)
	Aspect float32
	Near   float32
	Far    float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	home orbit
}

// orbit is the part of the camera state that Reset restores.
type orbit struct {
	center               mgl32.Vec3
	distance, pitch, yaw float32
}

// NewOrbitCamera creates an orbit camera looking down -Z at the origin from
// the given distance.
func NewOrbitCamera(fov, near, far, distance float32) *OrbitCamera {
	c := &OrbitCamera{
		Distance:        distance,
		FOV:             fov,
		Aspect:          1,
		Near:            near,
		Far:             far,
		MinDistance:     near * 2,
		MaxDistance:     far * 0.9,
		MinPitch:        -1.55,
		MaxPitch:        1.55,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	c.home = orbit{center: c.Center, distance: c.Distance, pitch: c.Pitch, yaw: c.Yaw}
	return c
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Sin(float64(c.Yaw)))
	y := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	z := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Cos(float64(c.Yaw)))
	return c.Center.Add(mgl32.Vec3{x, y, z})
}

// ViewMatrix returns the view matrix (the inverse of the camera's world matrix).
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// WorldMatrix returns the camera's world transform.
func (c *OrbitCamera) WorldMatrix() mgl32.Mat4 {
	return c.ViewMatrix().Inv()
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// SetViewport updates the aspect ratio for a viewport of the given size.
func (c *OrbitCamera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.clampDistance()
}

// HandlePan moves the center point in the camera's view plane.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	world := c.WorldMatrix()
	right := world.Col(0).Vec3()
	up := world.Col(1).Vec3()

	speed := c.Distance * c.DragSensitivity * 0.2
	c.Center = c.Center.Sub(right.Mul(deltaX * speed)).Add(up.Mul(deltaY * speed))
}

// FitToBounds centers the camera on a bounding box and backs off far enough
// to see all of it.
func (c *OrbitCamera) FitToBounds(lo, hi mgl32.Vec3) {
	c.Center = lo.Add(hi).Mul(0.5)

	radius := hi.Sub(lo).Len() / 2
	if radius <= 0 {
		return
	}
	halfFOV := float64(mgl32.DegToRad(c.FOV)) / 2
	c.Distance = radius / float32(gomath.Sin(halfFOV))
	c.clampDistance()
}

// Reset restores the position the camera was created with.
// Projection settings are kept.
func (c *OrbitCamera) Reset() {
	c.Center = c.home.center
	c.Distance = c.home.distance
	c.Pitch = c.home.pitch
	c.Yaw = c.home.yaw
}

func (c *OrbitCamera) clampDistance() {
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}
