package controls

import (
	"fmt"
	"strings"

	"github.com/Faultbox/meshview/internal/viewer"
)

// Status is the window title summary of the viewer state.
type Status struct {
	App       string
	Mesh      string
	Triangles int
	FPS       int
}

// Line renders the status with the current toggles and sliders.
func (s Status) Line(ctx *viewer.Context) string {
	var b strings.Builder
	b.WriteString(s.App)
	if s.Mesh != "" {
		fmt.Fprintf(&b, " - %s (%d tris)", s.Mesh, s.Triangles)
	}

	t := ctx.Toggles()
	exposure, _ := ctx.NumericUniform(viewer.UniformExposure)
	fmt.Fprintf(&b, " | %s | lights %d | exposure %+.2f", ctx.Controller().Mode(), ctx.Lights().Len(), exposure)

	var flags []string
	if t.Axes {
		flags = append(flags, "axes")
	}
	if t.Wireframe {
		flags = append(flags, "wire")
	}
	if t.Normals {
		flags = append(flags, fmt.Sprintf("normals x%g", ctx.Controller().OverlayScale()))
	}
	if t.FixLightsToCamera {
		flags = append(flags, "head-light")
	}
	if len(flags) > 0 {
		fmt.Fprintf(&b, " | %s", strings.Join(flags, " "))
	}
	if s.FPS > 0 {
		fmt.Fprintf(&b, " | %d fps", s.FPS)
	}
	return b.String()
}
