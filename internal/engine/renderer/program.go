package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/lighting"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/engine/shaders"
	"github.com/Faultbox/meshview/internal/viewer"
)

// Uniforms set by the renderer itself on every program.
const (
	uniformModel      = "modelMatrix"
	uniformView       = "viewMatrix"
	uniformProjection = "projectionMatrix"
	uniformNormal     = "normalMatrix"
)

type frameUniforms struct {
	model, view, projection mgl32.Mat4
	normal                  mgl32.Mat3
}

// normalMatrix is the inverse transpose of the upper 3x3 of modelView.
func normalMatrix(modelView mgl32.Mat4) mgl32.Mat3 {
	return modelView.Mat3().Inv().Transpose()
}

type textureBinding struct {
	unit   uint32
	target uint32
	id     uint32
}

// program is a compiled material program and its texture unit layout.
type program struct {
	spec viewer.MaterialSpec
	prog *shader.Program

	// uploaded is false until the material's uniforms reach this program.
	uploaded bool
	textures []textureBinding
}

func compile(spec viewer.MaterialSpec) (*program, error) {
	p, err := shader.NewProgram(spec.VertexSource, spec.CompiledFragmentSource())
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", spec.Name, err)
	}
	return &program{spec: spec, prog: p}, nil
}

// CreateMaterial compiles a program for spec.
func (r *Renderer) CreateMaterial(spec viewer.MaterialSpec) (viewer.MaterialHandle, error) {
	p, err := compile(spec)
	if err != nil {
		return 0, err
	}
	r.nextHandle++
	r.programs[r.nextHandle] = p
	r.log.Debug("material compiled",
		zap.String("material", spec.Name),
		zap.Uint32("program", p.prog.ID),
		zap.Uint32("handle", uint32(r.nextHandle)))
	return r.nextHandle, nil
}

// RecompileMaterial builds a new program for h. On failure the previous
// program stays in use.
func (r *Renderer) RecompileMaterial(h viewer.MaterialHandle, spec viewer.MaterialSpec) error {
	old, ok := r.programs[h]
	if !ok {
		return fmt.Errorf("unknown material handle %d", h)
	}
	p, err := compile(spec)
	if err != nil {
		return err
	}
	old.prog.Delete()
	r.programs[h] = p
	r.log.Debug("material recompiled",
		zap.String("material", spec.Name),
		zap.Int("lights", spec.Defines[shaders.LightCountDefine]),
		zap.Uint32("program", p.prog.ID))
	return nil
}

func (p *program) uploadFrame(f frameUniforms) {
	if loc := p.prog.Uniform(uniformModel); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &f.model[0])
	}
	if loc := p.prog.Uniform(uniformView); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &f.view[0])
	}
	if loc := p.prog.Uniform(uniformProjection); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, &f.projection[0])
	}
	if loc := p.prog.Uniform(uniformNormal); loc >= 0 {
		gl.UniformMatrix3fv(loc, 1, false, &f.normal[0])
	}
}

// uploadMaterial writes every declared uniform and assigns texture units in
// name order. Uniforms the compiler optimized out are skipped.
func (p *program) uploadMaterial(m *viewer.Material) {
	p.textures = p.textures[:0]
	var unit uint32

	for _, name := range m.UniformNames() {
		u, _ := m.Uniform(name)
		loc := p.prog.Uniform(name)
		if loc < 0 {
			continue
		}

		switch u.Type {
		case viewer.UniformFloat:
			gl.Uniform1f(loc, u.Float)
		case viewer.UniformBool:
			v := int32(0)
			if u.Bool {
				v = 1
			}
			gl.Uniform1i(loc, v)
		case viewer.UniformVec3:
			gl.Uniform3f(loc, u.Vec3[0], u.Vec3[1], u.Vec3[2])
		case viewer.UniformVec3Array:
			if len(u.Vec3s) > 0 {
				flat := lighting.Flatten(u.Vec3s)
				gl.Uniform3fv(loc, int32(len(u.Vec3s)), &flat[0])
			}
		case viewer.UniformTexture, viewer.UniformCubeTexture:
			target := uint32(gl.TEXTURE_2D)
			if u.Type == viewer.UniformCubeTexture {
				target = gl.TEXTURE_CUBE_MAP
			}
			gl.Uniform1i(loc, int32(unit))
			p.textures = append(p.textures, textureBinding{unit: unit, target: target, id: u.Texture.ID})
			unit++
		}
	}
	p.uploaded = true
}

// bindTextures binds the material's textures to their units. A zero ID
// unbinds the unit, which samples as black.
func (p *program) bindTextures() {
	for _, t := range p.textures {
		gl.ActiveTexture(gl.TEXTURE0 + t.unit)
		gl.BindTexture(t.target, t.id)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}
