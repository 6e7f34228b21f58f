package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// vertexKey identifies a vertex by every attribute it carries.
type vertexKey struct {
	position mgl32.Vec3
	normal   mgl32.Vec3
	uv       mgl32.Vec2
	color    mgl32.Vec3
}

// UnifyVertices merges vertices whose attributes are all identical and
// rewrites the geometry as indexed. Tangents are dropped because they must
// be recomputed for the merged topology.
// The geometry is left untouched when it fails validation.
func UnifyVertices(g *Geometry) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("unify vertices: %w", err)
	}

	n := g.VertexCount()
	hasNormals := len(g.Normals) == n && n > 0
	hasUVs := len(g.UVs) == n && n > 0
	hasColors := len(g.Colors) == n && n > 0

	seen := make(map[vertexKey]uint32, n)
	remap := make([]uint32, n)
	out := &Geometry{}

	for i := 0; i < n; i++ {
		key := vertexKey{position: g.Positions[i]}
		if hasNormals {
			key.normal = g.Normals[i]
		}
		if hasUVs {
			key.uv = g.UVs[i]
		}
		if hasColors {
			key.color = g.Colors[i]
		}

		idx, ok := seen[key]
		if !ok {
			idx = uint32(len(out.Positions))
			seen[key] = idx
			out.Positions = append(out.Positions, g.Positions[i])
			if hasNormals {
				out.Normals = append(out.Normals, g.Normals[i])
			}
			if hasUVs {
				out.UVs = append(out.UVs, g.UVs[i])
			}
			if hasColors {
				out.Colors = append(out.Colors, g.Colors[i])
			}
		}
		remap[i] = idx
	}

	indices := make([]uint32, 0, g.ElementCount())
	if g.Indexed() {
		for _, idx := range g.Indices {
			indices = append(indices, remap[idx])
		}
	} else {
		indices = append(indices, remap...)
	}

	g.Positions = out.Positions
	g.Normals = out.Normals
	g.UVs = out.UVs
	g.Colors = out.Colors
	g.Tangents = nil
	g.Indices = indices
	return nil
}

// Deindex expands an indexed geometry so that every triangle owns its three
// vertices. Non-indexed geometry is left as is.
func Deindex(g *Geometry) error {
	if !g.Indexed() {
		return nil
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("deindex: %w", err)
	}

	n := g.VertexCount()
	out := &Geometry{Positions: make([]mgl32.Vec3, 0, len(g.Indices))}
	for _, idx := range g.Indices {
		out.Positions = append(out.Positions, g.Positions[idx])
		if len(g.Normals) == n {
			out.Normals = append(out.Normals, g.Normals[idx])
		}
		if len(g.UVs) == n {
			out.UVs = append(out.UVs, g.UVs[idx])
		}
		if len(g.Tangents) == n {
			out.Tangents = append(out.Tangents, g.Tangents[idx])
		}
		if len(g.Colors) == n {
			out.Colors = append(out.Colors, g.Colors[idx])
		}
	}
	*g = *out
	return nil
}

// ComputeVertexNormals sets each vertex normal to the normalized sum of the
// face normals of the triangles that use it. On non-indexed geometry this
// yields flat shading.
func ComputeVertexNormals(g *Geometry) {
	n := g.VertexCount()
	normals := make([]mgl32.Vec3, n)

	for t := 0; t < g.TriangleCount(); t++ {
		a, b, c := g.Triangle(t)
		if a >= n || b >= n || c >= n {
			continue
		}
		p0, p1, p2 := g.Positions[a], g.Positions[b], g.Positions[c]
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		normals[a] = normals[a].Add(face)
		normals[b] = normals[b].Add(face)
		normals[c] = normals[c].Add(face)
	}

	for i := range normals {
		normals[i] = safeNormalize(normals[i])
	}
	g.Normals = normals
}

// ComputeTangents derives per-vertex tangents from positions, normals and
// texture coordinates. The w component stores the bitangent handedness.
// Triangles with degenerate texture mapping do not contribute; vertices left
// without a tangent get an arbitrary vector perpendicular to their normal.
func ComputeTangents(g *Geometry) error {
	n := g.VertexCount()
	if len(g.Normals) != n {
		return fmt.Errorf("compute tangents: %w: normals has %d entries, positions has %d",
			ErrAttributeLengthMismatch, len(g.Normals), n)
	}
	if len(g.UVs) == 0 && n > 0 {
		return fmt.Errorf("compute tangents: %w: uv", ErrMissingAttribute)
	}
	if len(g.UVs) != n {
		return fmt.Errorf("compute tangents: %w: uv has %d entries, positions has %d",
			ErrAttributeLengthMismatch, len(g.UVs), n)
	}

	tan1 := make([]mgl32.Vec3, n)
	tan2 := make([]mgl32.Vec3, n)

	for t := 0; t < g.TriangleCount(); t++ {
		a, b, c := g.Triangle(t)
		if a >= n || b >= n || c >= n {
			return fmt.Errorf("compute tangents: %w: triangle %d", ErrInvalidIndex, t)
		}

		e1 := g.Positions[b].Sub(g.Positions[a])
		e2 := g.Positions[c].Sub(g.Positions[a])
		d1 := g.UVs[b].Sub(g.UVs[a])
		d2 := g.UVs[c].Sub(g.UVs[a])

		det := d1.X()*d2.Y() - d2.X()*d1.Y()
		if det == 0 {
			continue
		}
		r := 1 / det

		sdir := e1.Mul(d2.Y()).Sub(e2.Mul(d1.Y())).Mul(r)
		tdir := e2.Mul(d1.X()).Sub(e1.Mul(d2.X())).Mul(r)

		for _, v := range [3]int{a, b, c} {
			tan1[v] = tan1[v].Add(sdir)
			tan2[v] = tan2[v].Add(tdir)
		}
	}

	tangents := make([]mgl32.Vec4, n)
	for i := 0; i < n; i++ {
		nrm := g.Normals[i]
		t := tan1[i]

		// Gram-Schmidt orthogonalize
		ortho := t.Sub(nrm.Mul(nrm.Dot(t)))
		if ortho.Len() < 1e-12 {
			ortho = perpendicular(nrm)
		}
		ortho = ortho.Normalize()

		w := float32(1)
		if nrm.Cross(t).Dot(tan2[i]) < 0 {
			w = -1
		}
		tangents[i] = ortho.Vec4(w)
	}

	g.Tangents = tangents
	return nil
}

func perpendicular(v mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if abs32(v.X()) > 0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return v.Cross(axis)
}

func safeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
