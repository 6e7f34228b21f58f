// Package mesh provides the in-memory mesh model shared by the decoder,
// the viewer core and the renderer.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh data errors.
var (
	ErrAttributeLengthMismatch = errors.New("vertex attribute length mismatch")
	ErrMissingAttribute        = errors.New("missing vertex attribute")
	ErrInvalidIndex            = errors.New("index out of range")
)

// Geometry is a vertex buffer with optional index topology.
// Attribute slices run parallel to Positions; an empty slice means the
// attribute is absent. A nil Indices means non-indexed triangles (every three
// consecutive vertices form one triangle).
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Tangents  []mgl32.Vec4 // xyz tangent, w handedness
	Colors    []mgl32.Vec3
	Indices   []uint32
}

// Part is one sub-object of a mesh with its own vertex buffer.
type Part struct {
	Name     string
	Geometry *Geometry
}

// Mesh is an ordered list of parts loaded from one file.
type Mesh struct {
	Name  string
	Parts []*Part
}

// VertexCount returns the number of stored vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// Indexed reports whether the geometry uses an index buffer.
func (g *Geometry) Indexed() bool {
	return g.Indices != nil
}

// ElementCount returns the number of vertices drawn (indices when indexed).
func (g *Geometry) ElementCount() int {
	if g.Indexed() {
		return len(g.Indices)
	}
	return len(g.Positions)
}

// TriangleCount returns the number of triangles described by the topology.
func (g *Geometry) TriangleCount() int {
	return g.ElementCount() / 3
}

// Triangle returns the vertex indices of triangle i.
func (g *Geometry) Triangle(i int) (a, b, c int) {
	if g.Indexed() {
		return int(g.Indices[i*3]), int(g.Indices[i*3+1]), int(g.Indices[i*3+2])
	}
	return i * 3, i*3 + 1, i*3 + 2
}

// Validate checks that every present attribute matches the position count
// and that every index is in range.
func (g *Geometry) Validate() error {
	n := len(g.Positions)
	check := func(name string, count int) error {
		if count != 0 && count != n {
			return fmt.Errorf("%w: %s has %d entries, positions has %d", ErrAttributeLengthMismatch, name, count, n)
		}
		return nil
	}
	if err := check("normal", len(g.Normals)); err != nil {
		return err
	}
	if err := check("uv", len(g.UVs)); err != nil {
		return err
	}
	if err := check("tangent", len(g.Tangents)); err != nil {
		return err
	}
	if err := check("color", len(g.Colors)); err != nil {
		return err
	}
	for i, idx := range g.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d (vertex count %d)", ErrInvalidIndex, idx, i, n)
		}
	}
	return nil
}

// Clone returns a deep copy. No slice is shared with the original.
func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return nil
	}
	return &Geometry{
		Positions: cloneSlice(g.Positions),
		Normals:   cloneSlice(g.Normals),
		UVs:       cloneSlice(g.UVs),
		Tangents:  cloneSlice(g.Tangents),
		Colors:    cloneSlice(g.Colors),
		Indices:   cloneSlice(g.Indices),
	}
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Bounds returns the axis-aligned bounding box of all positions.
// An empty geometry returns two zero vectors.
func (g *Geometry) Bounds() (lo, hi mgl32.Vec3) {
	if len(g.Positions) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo, hi = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		lo, hi = expand(lo, hi, p, p)
	}
	return lo, hi
}

func expand(lo, hi, plo, phi mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if plo[i] < lo[i] {
			lo[i] = plo[i]
		}
		if phi[i] > hi[i] {
			hi[i] = phi[i]
		}
	}
	return lo, hi
}

// Clone returns a deep copy of the mesh and all of its parts.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{Name: m.Name, Parts: make([]*Part, len(m.Parts))}
	for i, p := range m.Parts {
		if p != nil {
			out.Parts[i] = &Part{Name: p.Name, Geometry: p.Geometry.Clone()}
		}
	}
	return out
}

// geometries returns the geometry of every part that has one.
func (m *Mesh) geometries() []*Geometry {
	out := make([]*Geometry, 0, len(m.Parts))
	for _, p := range m.Parts {
		if p != nil && p.Geometry != nil {
			out = append(out, p.Geometry)
		}
	}
	return out
}

// VertexCount returns the total stored vertex count over all parts.
// Parts without geometry count as empty.
func (m *Mesh) VertexCount() int {
	total := 0
	for _, g := range m.geometries() {
		total += g.VertexCount()
	}
	return total
}

// TriangleCount returns the total triangle count over all parts.
func (m *Mesh) TriangleCount() int {
	total := 0
	for _, g := range m.geometries() {
		total += g.TriangleCount()
	}
	return total
}

// Bounds returns the bounding box over all parts.
func (m *Mesh) Bounds() (lo, hi mgl32.Vec3) {
	first := true
	for _, g := range m.geometries() {
		if g.VertexCount() == 0 {
			continue
		}
		plo, phi := g.Bounds()
		if first {
			lo, hi = plo, phi
			first = false
			continue
		}
		lo, hi = expand(lo, hi, plo, phi)
	}
	return lo, hi
}
