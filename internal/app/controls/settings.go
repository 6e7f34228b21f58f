package controls

import (
	"github.com/Faultbox/meshview/internal/config"
	"github.com/Faultbox/meshview/internal/viewer"
)

// Settings returns vc updated with the live viewer state: shading, overlay
// scale, slider values and toggles. Fields the viewer does not change at
// runtime are kept.
func Settings(ctx *viewer.Context, vc config.ViewerConfig) config.ViewerConfig {
	vc.Shading = ctx.Controller().Mode().String()
	vc.OverlayScale = ctx.Controller().OverlayScale()

	if v, ok := ctx.NumericUniform(viewer.UniformExposure); ok {
		vc.ExposureLog = v
	}
	if v, ok := ctx.NumericUniform(viewer.UniformBumpScale); ok {
		vc.BumpScaleLog = v
	}
	if v, ok := ctx.NumericUniform(viewer.UniformDisplacementScale); ok {
		vc.DisplacementScaleLog = v
	}

	t := ctx.Toggles()
	vc.ShowAxes = t.Axes
	vc.ShowWireframe = t.Wireframe
	vc.ShowNormals = t.Normals
	vc.FixLightsToCamera = t.FixLightsToCamera
	return vc
}
