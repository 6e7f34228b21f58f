package viewer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/lighting"
)

// LightPositions writes the shader-space position of every registered light
// into dst and returns it. With fixed set, world positions pass through
// unchanged; otherwise they are transformed by view (the camera's inverse
// world matrix). The registry is only read.
func LightPositions(dst []mgl32.Vec3, lights *lighting.Registry, view mgl32.Mat4, fixed bool) []mgl32.Vec3 {
	dst = dst[:0]
	for i := 0; i < lights.Len(); i++ {
		p := lights.Light(i).Position
		if !fixed {
			p = view.Mul4x1(p.Vec4(1)).Vec3()
		}
		dst = append(dst, p)
	}
	return dst
}

// Frame runs one iteration of the render loop: update the light uniforms
// for the current camera, then draw.
func (c *Context) Frame() {
	c.lightScratch = LightPositions(c.lightScratch, c.lights, c.camera.ViewMatrix(), c.toggles.FixLightsToCamera)
	c.bank.SetLightPositions(c.lightScratch)

	c.renderer.Draw(c.scene, c.camera)
	c.frames++
}

// Frames returns the number of frames drawn.
func (c *Context) Frames() uint64 {
	return c.frames
}
