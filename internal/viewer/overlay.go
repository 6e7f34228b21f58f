package viewer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/pkg/mesh"
)

// NormalLines builds a line list with one segment per stored vertex, from
// position[i] to position[i] + scale*normal[i]. Index topology is ignored;
// expand indexed geometry with overlaySource first. Scale may be zero or
// negative.
func NormalLines(g *mesh.Geometry, scale float32) (*mesh.Geometry, error) {
	if len(g.Positions) != len(g.Normals) {
		return nil, fmt.Errorf("%w: %d positions, %d normals",
			mesh.ErrAttributeLengthMismatch, len(g.Positions), len(g.Normals))
	}

	out := &mesh.Geometry{Positions: make([]mgl32.Vec3, 0, 2*len(g.Positions))}
	for i, p := range g.Positions {
		out.Positions = append(out.Positions, p, p.Add(g.Normals[i].Mul(scale)))
	}
	return out, nil
}

// overlaySource returns g with one vertex per triangle corner. Indexed
// geometry is expanded on a copy and g is left as is.
func overlaySource(g *mesh.Geometry) (*mesh.Geometry, error) {
	if !g.Indexed() {
		return g, nil
	}
	flat := g.Clone()
	if err := mesh.Deindex(flat); err != nil {
		return nil, err
	}
	return flat, nil
}
