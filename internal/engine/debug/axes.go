// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/pkg/mesh"
)

// Axis colors: X red, Y green, Z blue.
var (
	AxisColorX = mgl32.Vec3{1, 0, 0}
	AxisColorY = mgl32.Vec3{0, 1, 0}
	AxisColorZ = mgl32.Vec3{0, 0, 1}
)

// AxesVertexCount is the number of line vertices in an axes helper (3 axes × 2).
const AxesVertexCount = 6

// AxesGeometry creates line-list geometry for three axes of the given length
// starting at the origin, with per-vertex colors.
func AxesGeometry(size float32) *mesh.Geometry {
	return &mesh.Geometry{
		Positions: []mgl32.Vec3{
			{0, 0, 0}, {size, 0, 0},
			{0, 0, 0}, {0, size, 0},
			{0, 0, 0}, {0, 0, size},
		},
		Colors: []mgl32.Vec3{
			AxisColorX, AxisColorX,
			AxisColorY, AxisColorY,
			AxisColorZ, AxisColorZ,
		},
	}
}
