package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshview/internal/viewer"
)

// pipeline is the fixed-function state a material draws with.
type pipeline struct {
	primitive   uint32
	wireframe   bool
	cullBack    bool
	depthOffset bool
}

func pipelineFor(spec viewer.MaterialSpec) pipeline {
	p := pipeline{primitive: gl.TRIANGLES, cullBack: !spec.DoubleSided && !spec.Wireframe}
	switch {
	case spec.Lines:
		p.primitive = gl.LINES
		p.cullBack = false
	case spec.Wireframe:
		p.wireframe = true
		// pull lines in front of the coplanar shaded surface
		p.depthOffset = true
	}
	return p
}

func (p pipeline) apply() {
	if p.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	if p.depthOffset {
		gl.Enable(gl.POLYGON_OFFSET_LINE)
		gl.PolygonOffset(-1, -1)
	}
	if p.cullBack {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

func (p pipeline) reset() {
	if p.wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	if p.depthOffset {
		gl.Disable(gl.POLYGON_OFFSET_LINE)
	}
	if p.cullBack {
		gl.Disable(gl.CULL_FACE)
	}
}
