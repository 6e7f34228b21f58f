// Package formats provides decoders for mesh file formats.
// OBJ (Wavefront) text format parser.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/pkg/mesh"
)

// OBJ format errors.
var (
	ErrMalformedMesh = errors.New("malformed mesh")
	ErrEmptyMesh     = errors.New("mesh has no faces")
)

// objCorner is one face corner as resolved 0-based indices (-1 when absent).
type objCorner struct {
	pos, uv, normal int
}

type objParser struct {
	positions []mgl32.Vec3
	colors    []mgl32.Vec3
	uvs       []mgl32.Vec2
	normals   []mgl32.Vec3

	parts   []*objPart
	current *objPart
}

type objPart struct {
	name  string
	faces [][]objCorner
}

// ParseOBJ decodes Wavefront OBJ text into a mesh.
// Faces are fan-triangulated and expanded so every triangle owns its three
// vertices. Each "o" or "g" statement starts a new part. Parts whose faces
// carry no normals get flat normals computed from their triangles.
func ParseOBJ(name string, data []byte) (*mesh.Mesh, error) {
	p := &objParser{}
	p.startPart("default")

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if err := p.parseLine(fields); err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrMalformedMesh, name, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMesh, name, err)
	}

	m := &mesh.Mesh{Name: name}
	for _, part := range p.parts {
		if len(part.faces) == 0 {
			continue
		}
		m.Parts = append(m.Parts, &mesh.Part{Name: part.name, Geometry: p.buildGeometry(part)})
	}
	if len(m.Parts) == 0 {
		return nil, fmt.Errorf("%w: %w: %s", ErrMalformedMesh, ErrEmptyMesh, name)
	}
	return m, nil
}

func (p *objParser) parseLine(fields []string) error {
	switch fields[0] {
	case "v":
		vals, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.positions = append(p.positions, mgl32.Vec3{vals[0], vals[1], vals[2]})
		// optional per-vertex color extension: v x y z r g b
		if len(vals) >= 6 {
			p.colors = append(p.colors, mgl32.Vec3{vals[3], vals[4], vals[5]})
		} else {
			p.colors = append(p.colors, mgl32.Vec3{1, 1, 1})
		}
	case "vt":
		vals, err := parseFloats(fields[1:], 1)
		if err != nil {
			return err
		}
		uv := mgl32.Vec2{vals[0], 0}
		if len(vals) > 1 {
			uv[1] = vals[1]
		}
		p.uvs = append(p.uvs, uv)
	case "vn":
		vals, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		p.normals = append(p.normals, mgl32.Vec3{vals[0], vals[1], vals[2]})
	case "f":
		return p.parseFace(fields[1:])
	case "o", "g":
		name := strings.Join(fields[1:], " ")
		if name == "" {
			name = fmt.Sprintf("part%d", len(p.parts))
		}
		p.startPart(name)
	default:
		// mtllib, usemtl, s, l, p and unknown statements are ignored
	}
	return nil
}

func (p *objParser) startPart(name string) {
	if p.current != nil && len(p.current.faces) == 0 {
		p.current.name = name
		return
	}
	p.current = &objPart{name: name}
	p.parts = append(p.parts, p.current)
}

func (p *objParser) parseFace(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(refs))
	}

	face := make([]objCorner, len(refs))
	for i, ref := range refs {
		parts := strings.Split(ref, "/")
		if len(parts) > 3 {
			return fmt.Errorf("bad face vertex %q", ref)
		}

		c := objCorner{pos: -1, uv: -1, normal: -1}
		var err error
		if c.pos, err = resolveIndex(parts[0], len(p.positions)); err != nil {
			return err
		}
		if c.pos < 0 {
			return fmt.Errorf("face vertex %q has no position", ref)
		}
		if len(parts) > 1 && parts[1] != "" {
			if c.uv, err = resolveIndex(parts[1], len(p.uvs)); err != nil {
				return err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if c.normal, err = resolveIndex(parts[2], len(p.normals)); err != nil {
				return err
			}
		}
		face[i] = c
	}

	p.current.faces = append(p.current.faces, face)
	return nil
}

// resolveIndex converts a 1-based or negative (relative) OBJ index into a
// 0-based index. An empty string resolves to -1.
func resolveIndex(s string, count int) (int, error) {
	if s == "" {
		return -1, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	switch {
	case v > 0:
		v--
	case v < 0:
		v += count
	default:
		return 0, errors.New("index 0 is not valid")
	}
	if v < 0 || v >= count {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, count)
	}
	return v, nil
}

func (p *objParser) buildGeometry(part *objPart) *mesh.Geometry {
	hasUV, hasNormals, hasColors := false, true, false
	for _, face := range part.faces {
		for _, c := range face {
			if c.uv >= 0 {
				hasUV = true
			}
			if c.normal < 0 {
				hasNormals = false
			}
			if p.colors[c.pos] != (mgl32.Vec3{1, 1, 1}) {
				hasColors = true
			}
		}
	}

	g := &mesh.Geometry{}
	emit := func(c objCorner) {
		g.Positions = append(g.Positions, p.positions[c.pos])
		if hasNormals {
			g.Normals = append(g.Normals, p.normals[c.normal])
		}
		if hasUV {
			var uv mgl32.Vec2
			if c.uv >= 0 {
				uv = p.uvs[c.uv]
			}
			g.UVs = append(g.UVs, uv)
		}
		if hasColors {
			g.Colors = append(g.Colors, p.colors[c.pos])
		}
	}

	for _, face := range part.faces {
		for i := 1; i+1 < len(face); i++ {
			emit(face[0])
			emit(face[i])
			emit(face[i+1])
		}
	}

	if !hasNormals {
		mesh.ComputeVertexNormals(g)
	}
	return g
}

func parseFloats(fields []string, want int) ([]float32, error) {
	if len(fields) < want {
		return nil, fmt.Errorf("expected at least %d values, got %d", want, len(fields))
	}
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", f)
		}
		out[i] = float32(v)
	}
	return out, nil
}
