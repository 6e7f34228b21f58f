// Package lighting provides the point light list that feeds shader uniforms.
package lighting

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPointLights is the maximum number of point lights supported in shaders.
const MaxPointLights = 32

// PointLight is a point light in world space.
type PointLight struct {
	Position mgl32.Vec3 // World position
	Color    mgl32.Vec3 // RGB color (0-1 range)
}

// Registry is an append-only ordered list of point lights.
// Index i in the list is uniform array slot i in every shaded material.
type Registry struct {
	lights    []PointLight
	listeners []func(count int)
}

// NewRegistry creates an empty light registry.
func NewRegistry() *Registry {
	return &Registry{
		lights: make([]PointLight, 0, 4),
	}
}

// Add appends a light and notifies listeners of the new count.
// Returns the light's index, or -1 if the registry is full.
func (r *Registry) Add(position, color mgl32.Vec3) int {
	if len(r.lights) >= MaxPointLights {
		return -1
	}
	r.lights = append(r.lights, PointLight{Position: position, Color: color})

	count := len(r.lights)
	for _, fn := range r.listeners {
		fn(count)
	}
	return count - 1
}

// OnChange registers fn to be called with the new light count after every Add.
func (r *Registry) OnChange(fn func(count int)) {
	r.listeners = append(r.listeners, fn)
}

// Len returns the number of lights.
func (r *Registry) Len() int {
	return len(r.lights)
}

// Light returns the light at index i.
func (r *Registry) Light(i int) PointLight {
	return r.lights[i]
}

// Positions returns a copy of all world-space positions in registry order.
func (r *Registry) Positions() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(r.lights))
	for i, l := range r.lights {
		out[i] = l.Position
	}
	return out
}

// Colors returns a copy of all colors in registry order.
func (r *Registry) Colors() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(r.lights))
	for i, l := range r.lights {
		out[i] = l.Color
	}
	return out
}

// Flatten packs vectors as a flat float32 slice for GPU upload.
// Format: [x0, y0, z0, x1, y1, z1, ...]
func Flatten(vs []mgl32.Vec3) []float32 {
	result := make([]float32, len(vs)*3)
	for i, v := range vs {
		result[i*3+0] = v[0]
		result[i*3+1] = v[1]
		result[i*3+2] = v[2]
	}
	return result
}
