// Package controls maps keyboard input to viewer events.
package controls

import (
	"github.com/Faultbox/meshview/internal/viewer"
)

// Action is a user command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionToggleAxes
	ActionToggleWireframe
	ActionToggleNormals
	ActionToggleFixLights
	ActionToggleShading
	ActionOverlayScaleDown
	ActionOverlayScaleUp
	ActionExposureDown
	ActionExposureUp
	ActionBumpScaleDown
	ActionBumpScaleUp
	ActionOpenFile
	ActionResetCamera
	ActionScreenshot
	ActionSaveSettings
	ActionQuit
)

// Key codes. Printable keys use their ASCII value; the rest follow SDL
// keycode numbering.
const (
	KeyEscape = 27
	KeyF12    = 0x40000045 // SDLK_F12
)

// Step sizes for the slider keys.
const (
	LogStep          = 0.25
	OverlayScaleStep = 2
	// MinOverlayScale is the floor the overlay keys step from, so a zero
	// scale can grow again.
	MinOverlayScale = 1.0 / 64
)

// Binding is a key with the Ctrl modifier state.
type Binding struct {
	Key  int32
	Ctrl bool
}

// DefaultKeymap is the built-in key table.
var DefaultKeymap = map[Binding]Action{
	{Key: 'a'}:             ActionToggleAxes,
	{Key: 'w'}:             ActionToggleWireframe,
	{Key: 'n'}:             ActionToggleNormals,
	{Key: 'l'}:             ActionToggleFixLights,
	{Key: 'b'}:             ActionToggleShading,
	{Key: '['}:             ActionOverlayScaleDown,
	{Key: ']'}:             ActionOverlayScaleUp,
	{Key: '-'}:             ActionExposureDown,
	{Key: '='}:             ActionExposureUp,
	{Key: ','}:             ActionBumpScaleDown,
	{Key: '.'}:             ActionBumpScaleUp,
	{Key: 'o', Ctrl: true}: ActionOpenFile,
	{Key: 's', Ctrl: true}: ActionSaveSettings,
	{Key: 'r'}:             ActionResetCamera,
	{Key: KeyF12}:          ActionScreenshot,
	{Key: KeyEscape}:       ActionQuit,
}

// Lookup returns the action bound to key.
func Lookup(key int32, ctrl bool) Action {
	return DefaultKeymap[Binding{Key: key, Ctrl: ctrl}]
}

// Event converts a viewer action into the UI event it stands for, reading
// the current state from ctx. Actions handled by the application shell
// (open, reset, screenshot, save, quit) return false.
func Event(a Action, ctx *viewer.Context) (viewer.UIEvent, bool) {
	t := ctx.Toggles()
	switch a {
	case ActionToggleAxes:
		return viewer.UIEvent{Kind: viewer.EventToggleAxes, On: !t.Axes}, true
	case ActionToggleWireframe:
		return viewer.UIEvent{Kind: viewer.EventToggleWireframe, On: !t.Wireframe}, true
	case ActionToggleNormals:
		return viewer.UIEvent{Kind: viewer.EventToggleNormals, On: !t.Normals}, true
	case ActionToggleFixLights:
		return viewer.UIEvent{Kind: viewer.EventSetFixLightsToCamera, On: !t.FixLightsToCamera}, true
	case ActionToggleShading:
		mode := viewer.ShadingBump
		if ctx.Controller().Mode() == viewer.ShadingBump {
			mode = viewer.ShadingFlat
		}
		return viewer.UIEvent{Kind: viewer.EventSetShadingMode, Mode: mode}, true
	case ActionOverlayScaleDown:
		return viewer.UIEvent{Kind: viewer.EventSetOverlayScale, Value: overlayScale(ctx) / OverlayScaleStep}, true
	case ActionOverlayScaleUp:
		return viewer.UIEvent{Kind: viewer.EventSetOverlayScale, Value: overlayScale(ctx) * OverlayScaleStep}, true
	case ActionExposureDown:
		return numeric(ctx, viewer.UniformExposure, -LogStep), true
	case ActionExposureUp:
		return numeric(ctx, viewer.UniformExposure, LogStep), true
	case ActionBumpScaleDown:
		return numeric(ctx, viewer.UniformBumpScale, -LogStep), true
	case ActionBumpScaleUp:
		return numeric(ctx, viewer.UniformBumpScale, LogStep), true
	}
	return viewer.UIEvent{}, false
}

func overlayScale(ctx *viewer.Context) float32 {
	return max(ctx.Controller().OverlayScale(), MinOverlayScale)
}

func numeric(ctx *viewer.Context, name string, delta float32) viewer.UIEvent {
	v, _ := ctx.NumericUniform(name)
	return viewer.UIEvent{Kind: viewer.EventSetNumericUniform, Name: name, Value: v + delta}
}
