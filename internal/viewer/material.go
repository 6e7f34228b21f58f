package viewer

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/shaders"
)

// ShadingMode selects which pair of materials draws the mesh.
type ShadingMode int

const (
	ShadingFlat ShadingMode = iota
	ShadingBump
)

// String returns the config name of the mode.
func (m ShadingMode) String() string {
	switch m {
	case ShadingFlat:
		return "flat"
	case ShadingBump:
		return "bump"
	default:
		return fmt.Sprintf("ShadingMode(%d)", int(m))
	}
}

// ParseShadingMode parses "flat" or "bump".
func ParseShadingMode(s string) (ShadingMode, error) {
	switch s {
	case "flat", "":
		return ShadingFlat, nil
	case "bump", "displacement":
		return ShadingBump, nil
	default:
		return ShadingFlat, fmt.Errorf("unknown shading mode %q", s)
	}
}

// MaterialKind identifies a material slot in the bank.
type MaterialKind int

const (
	FlatShaded MaterialKind = iota
	FlatWireframe
	BumpShaded
	BumpWireframe
	NormalLineMaterial
	AxesLines
)

var kindNames = [...]string{"flat-shaded", "flat-wireframe", "bump-shaded", "bump-wireframe", "normal-lines", "axes"}

func (k MaterialKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("MaterialKind(%d)", int(k))
}

// Shaded reports whether the material is lit and sized by the light count.
func (k MaterialKind) Shaded() bool {
	return k == FlatShaded || k == BumpShaded
}

// UniformType is the value type of a uniform.
type UniformType int

const (
	UniformFloat UniformType = iota
	UniformBool
	UniformVec3
	UniformVec3Array
	UniformTexture
	UniformCubeTexture
)

// Texture is a renderer-owned texture. A zero ID means no texture is bound.
type Texture struct {
	ID     uint32
	Cube   bool
	Width  int
	Height int
}

// Valid reports whether the texture refers to a live renderer texture.
func (t Texture) Valid() bool {
	return t.ID != 0
}

// Uniform is a typed uniform value. Only the field matching Type is used.
type Uniform struct {
	Type    UniformType
	Float   float32
	Bool    bool
	Vec3    mgl32.Vec3
	Vec3s   []mgl32.Vec3
	Texture Texture
}

// FloatUniform returns a scalar uniform.
func FloatUniform(v float32) Uniform { return Uniform{Type: UniformFloat, Float: v} }

// BoolUniform returns a boolean uniform.
func BoolUniform(v bool) Uniform { return Uniform{Type: UniformBool, Bool: v} }

// Vec3Uniform returns a vector uniform.
func Vec3Uniform(v mgl32.Vec3) Uniform { return Uniform{Type: UniformVec3, Vec3: v} }

// Vec3ArrayUniform returns a vector array uniform holding a copy of vs.
func Vec3ArrayUniform(vs []mgl32.Vec3) Uniform {
	cp := make([]mgl32.Vec3, len(vs))
	copy(cp, vs)
	return Uniform{Type: UniformVec3Array, Vec3s: cp}
}

// TextureUniform returns a sampler uniform; cube textures get the cube type.
func TextureUniform(t Texture) Uniform {
	if t.Cube {
		return Uniform{Type: UniformCubeTexture, Texture: t}
	}
	return Uniform{Type: UniformTexture, Texture: t}
}

// MaterialSpec is everything the renderer needs to build a program and
// configure its pipeline state.
type MaterialSpec struct {
	Name           string
	VertexSource   string
	FragmentSource string
	// Defines are injected into the fragment source after #version.
	Defines map[string]int

	Wireframe   bool // draw triangles as lines
	Transparent bool // alpha blend, no depth writes
	DoubleSided bool
	Lines       bool // geometry is a line list
}

// CompiledFragmentSource returns the fragment source with defines applied.
func (s MaterialSpec) CompiledFragmentSource() string {
	return shaders.WithDefines(s.FragmentSource, s.Defines)
}

// MaterialHandle identifies a renderer program.
type MaterialHandle uint32

// Material is a shader program reference plus its uniform values.
type Material struct {
	Kind   MaterialKind
	Spec   MaterialSpec
	Handle MaterialHandle

	uniforms map[string]Uniform

	// Dirty is set whenever a uniform changes and cleared by the renderer
	// after it re-uploads the values.
	Dirty bool
}

func newMaterial(kind MaterialKind, spec MaterialSpec) *Material {
	return &Material{
		Kind:     kind,
		Spec:     spec,
		uniforms: make(map[string]Uniform),
		Dirty:    true,
	}
}

// Uniform returns the named uniform value.
func (m *Material) Uniform(name string) (Uniform, bool) {
	u, ok := m.uniforms[name]
	return u, ok
}

// Declares reports whether the material has a uniform with this name.
func (m *Material) Declares(name string) bool {
	_, ok := m.uniforms[name]
	return ok
}

// UniformNames returns the declared uniform names in sorted order.
func (m *Material) UniformNames() []string {
	names := make([]string, 0, len(m.uniforms))
	for name := range m.uniforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LightCount returns the compile-time light count of the material.
func (m *Material) LightCount() int {
	return m.Spec.Defines[shaders.LightCountDefine]
}

func (m *Material) set(name string, u Uniform) {
	m.uniforms[name] = u
	m.Dirty = true
}
