package viewer

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/shaders"
)

// Uniform names shared between the bank and the shaders.
const (
	UniformLightPositions    = "lightPositions"
	UniformLightColors       = "lightColors"
	UniformDiffuseTexture    = "diffuseTexture"
	UniformBumpTexture       = "bumpTexture"
	UniformDisplacementTex   = "displacementTexture"
	UniformEnvironmentMap    = "environmentMap"
	UniformOpacity           = "opacity"
	UniformColor             = "color"
	UniformVertexColors      = "vertexColors"
	UniformExposure          = "exposure"
	UniformBumpScale         = "bumpScale"
	UniformDisplacementScale = "displacementScale"
)

// NumericUniforms are the log-scaled sliders declared on all four mesh materials.
var NumericUniforms = []string{UniformExposure, UniformBumpScale, UniformDisplacementScale}

// ErrBumpUnavailable is returned when bump shading is requested from a bank
// built without displacement support.
var ErrBumpUnavailable = errors.New("bump shading not available")

// normalLineColor is the color of the normal overlay (blue).
var normalLineColor = mgl32.Vec3{0, 0, 1}

type materialDef struct {
	kind MaterialKind
	spec MaterialSpec
}

// MaterialBank owns every material and is the single source of truth for
// uniform values. Setting a uniform fans out to every material declaring it.
// Bump materials are nil when displacement support is off; every operation
// skips them.
type MaterialBank struct {
	renderer  Renderer
	log       *zap.Logger
	materials [4]*Material
	lines     *Material
	axes      *Material

	byUniform  map[string][]*Material
	lightCount int
}

// NewMaterialBank creates and compiles the mesh, wireframe and line materials.
func NewMaterialBank(r Renderer, displacement bool, log *zap.Logger) (*MaterialBank, error) {
	b := &MaterialBank{
		renderer:  r,
		log:       log,
		byUniform: make(map[string][]*Material),
	}

	defs := []materialDef{
		{FlatShaded, MaterialSpec{
			Name:           "flat-shaded",
			VertexSource:   shaders.MeshVertexShader,
			FragmentSource: shaders.MeshFragmentShader,
			Defines:        map[string]int{shaders.LightCountDefine: 0},
			DoubleSided:    true,
		}},
		{FlatWireframe, MaterialSpec{
			Name:           "flat-wireframe",
			VertexSource:   shaders.MeshVertexShader,
			FragmentSource: shaders.WireframeFragmentShader,
			Wireframe:      true,
			Transparent:    true,
		}},
	}
	if displacement {
		defs = append(defs,
			materialDef{BumpShaded, MaterialSpec{
				Name:           "bump-shaded",
				VertexSource:   shaders.BumpVertexShader,
				FragmentSource: shaders.BumpFragmentShader,
				Defines:        map[string]int{shaders.LightCountDefine: 0},
				DoubleSided:    true,
			}},
			materialDef{BumpWireframe, MaterialSpec{
				Name:           "bump-wireframe",
				VertexSource:   shaders.BumpVertexShader,
				FragmentSource: shaders.WireframeFragmentShader,
				Wireframe:      true,
				Transparent:    true,
			}},
		)
	}

	for _, d := range defs {
		m, err := b.create(d.kind, d.spec)
		if err != nil {
			return nil, err
		}
		b.materials[d.kind] = m
	}

	var err error
	lineSpec := MaterialSpec{
		VertexSource:   shaders.LinesVertexShader,
		FragmentSource: shaders.LinesFragmentShader,
		Transparent:    true,
		Lines:          true,
	}
	lineSpec.Name = "normal-lines"
	if b.lines, err = b.create(NormalLineMaterial, lineSpec); err != nil {
		return nil, err
	}
	lineSpec.Name = "axes"
	lineSpec.Transparent = false
	if b.axes, err = b.create(AxesLines, lineSpec); err != nil {
		return nil, err
	}

	b.declareDefaults()
	return b, nil
}

func (b *MaterialBank) create(kind MaterialKind, spec MaterialSpec) (*Material, error) {
	m := newMaterial(kind, spec)
	h, err := b.renderer.CreateMaterial(spec)
	if err != nil {
		return nil, fmt.Errorf("create material %s: %w", spec.Name, err)
	}
	m.Handle = h
	return m, nil
}

// declareDefaults builds the uniform index. Every uniform a material can be
// asked to hold is declared here so fan-out reaches it.
func (b *MaterialBank) declareDefaults() {
	for _, m := range b.meshMaterials() {
		for _, name := range NumericUniforms {
			b.declare(m, name, FloatUniform(1))
		}
		switch m.Kind {
		case FlatShaded, BumpShaded:
			b.declare(m, UniformLightPositions, Vec3ArrayUniform(nil))
			b.declare(m, UniformLightColors, Vec3ArrayUniform(nil))
			b.declare(m, UniformDiffuseTexture, TextureUniform(Texture{}))
			b.declare(m, UniformEnvironmentMap, TextureUniform(Texture{Cube: true}))
		case FlatWireframe, BumpWireframe:
			b.declare(m, UniformOpacity, FloatUniform(1))
		}
		if m.Kind == BumpShaded {
			b.declare(m, UniformBumpTexture, TextureUniform(Texture{}))
		}
		if m.Kind == BumpShaded || m.Kind == BumpWireframe {
			b.declare(m, UniformDisplacementTex, TextureUniform(Texture{}))
		}
	}

	b.declare(b.lines, UniformColor, Vec3Uniform(normalLineColor))
	b.declare(b.lines, UniformOpacity, FloatUniform(1))
	b.declare(b.lines, UniformVertexColors, BoolUniform(false))

	b.declare(b.axes, UniformColor, Vec3Uniform(mgl32.Vec3{1, 1, 1}))
	b.declare(b.axes, UniformOpacity, FloatUniform(1))
	b.declare(b.axes, UniformVertexColors, BoolUniform(true))
}

func (b *MaterialBank) declare(m *Material, name string, u Uniform) {
	if !m.Declares(name) {
		b.byUniform[name] = append(b.byUniform[name], m)
	}
	m.set(name, u)
}

// meshMaterials returns the present flat/bump shaded and wireframe materials.
func (b *MaterialBank) meshMaterials() []*Material {
	out := make([]*Material, 0, len(b.materials))
	for _, m := range b.materials {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// shadedMaterials returns the present lit materials.
func (b *MaterialBank) shadedMaterials() []*Material {
	out := make([]*Material, 0, 2)
	for _, m := range b.materials {
		if m != nil && m.Kind.Shaded() {
			out = append(out, m)
		}
	}
	return out
}

// Material returns the material of the given kind, or nil when absent.
func (b *MaterialBank) Material(kind MaterialKind) *Material {
	switch kind {
	case NormalLineMaterial:
		return b.lines
	case AxesLines:
		return b.axes
	case FlatShaded, FlatWireframe, BumpShaded, BumpWireframe:
		return b.materials[kind]
	}
	return nil
}

// Materials returns every present material.
func (b *MaterialBank) Materials() []*Material {
	return append(b.meshMaterials(), b.lines, b.axes)
}

// HasBump reports whether the bump materials exist.
func (b *MaterialBank) HasBump() bool {
	return b.materials[BumpShaded] != nil
}

// LightCount returns the light count the shaded materials are compiled for.
func (b *MaterialBank) LightCount() int {
	return b.lightCount
}

// Pair returns the shaded and wireframe materials for a shading mode.
func (b *MaterialBank) Pair(mode ShadingMode) (shaded, wireframe *Material, err error) {
	switch mode {
	case ShadingFlat:
		return b.materials[FlatShaded], b.materials[FlatWireframe], nil
	case ShadingBump:
		if !b.HasBump() {
			return nil, nil, ErrBumpUnavailable
		}
		return b.materials[BumpShaded], b.materials[BumpWireframe], nil
	default:
		return nil, nil, fmt.Errorf("unknown shading mode %d", int(mode))
	}
}

// SetUniform writes u into every material declaring name and returns how
// many materials were updated.
func (b *MaterialBank) SetUniform(name string, u Uniform) int {
	targets := b.byUniform[name]
	for _, m := range targets {
		m.set(name, u)
	}
	return len(targets)
}

// SetNumericUniform stores 2^logValue under name. Sliders are log scaled.
// An undeclared name is declared on all present mesh materials.
func (b *MaterialBank) SetNumericUniform(name string, logValue float32) {
	value := float32(math.Pow(2, float64(logValue)))
	if len(b.byUniform[name]) == 0 {
		b.log.Warn("declaring new numeric uniform", zap.String("uniform", name))
		for _, m := range b.meshMaterials() {
			b.declare(m, name, FloatUniform(value))
		}
		return
	}
	b.SetUniform(name, FloatUniform(value))
}

// SetWireframeVisible sets the wireframe opacity to 1 or 0. Wireframe objects
// stay in the scene either way.
func (b *MaterialBank) SetWireframeVisible(visible bool) {
	u := FloatUniform(opacity(visible))
	for _, m := range b.meshMaterials() {
		if m.Kind == FlatWireframe || m.Kind == BumpWireframe {
			m.set(UniformOpacity, u)
		}
	}
}

// SetNormalsVisible sets the normal line material opacity to 1 or 0.
func (b *MaterialBank) SetNormalsVisible(visible bool) {
	b.lines.set(UniformOpacity, FloatUniform(opacity(visible)))
}

// SetTexture writes t to every material declaring the uniform, declaring
// it on the shaded materials first if nothing does.
func (b *MaterialBank) SetTexture(name string, t Texture) {
	u := TextureUniform(t)
	if len(b.byUniform[name]) == 0 {
		for _, m := range b.shadedMaterials() {
			b.declare(m, name, u)
		}
		return
	}
	b.SetUniform(name, u)
}

// SetEnvironmentMap writes a cube texture to the shaded materials.
func (b *MaterialBank) SetEnvironmentMap(t Texture) {
	t.Cube = true
	b.SetUniform(UniformEnvironmentMap, TextureUniform(t))
}

// SetLightPositions writes shader-space light positions to the shaded materials.
func (b *MaterialBank) SetLightPositions(positions []mgl32.Vec3) {
	b.SetUniform(UniformLightPositions, Vec3ArrayUniform(positions))
}

// SetLightColors writes light colors to the shaded materials.
func (b *MaterialBank) SetLightColors(colors []mgl32.Vec3) {
	b.SetUniform(UniformLightColors, Vec3ArrayUniform(colors))
}

// SetLightCount recompiles every shaded material with the new light count.
// Wireframe and line materials are not lit and keep their programs.
func (b *MaterialBank) SetLightCount(count int) error {
	b.lightCount = count
	var errs []error
	for _, m := range b.shadedMaterials() {
		defines := make(map[string]int, len(m.Spec.Defines)+1)
		for k, v := range m.Spec.Defines {
			defines[k] = v
		}
		defines[shaders.LightCountDefine] = count
		m.Spec.Defines = defines

		if err := b.renderer.RecompileMaterial(m.Handle, m.Spec); err != nil {
			errs = append(errs, fmt.Errorf("recompile %s: %w", m.Spec.Name, err))
			continue
		}
		m.Dirty = true
	}
	return errors.Join(errs...)
}

func opacity(visible bool) float32 {
	if visible {
		return 1
	}
	return 0
}
