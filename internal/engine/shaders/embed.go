// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms mesh vertices for flat (non-bump) shading.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader is the lit fragment shader for flat shading.
// LightCountDefine must be set before compiling.
//
//go:embed mesh.frag
var MeshFragmentShader string

// BumpVertexShader displaces vertices along their normal and passes the
// tangent frame to the fragment stage.
//
//go:embed bump.vert
var BumpVertexShader string

// BumpFragmentShader is the lit fragment shader with bump mapping.
// LightCountDefine must be set before compiling.
//
//go:embed bump.frag
var BumpFragmentShader string

// WireframeFragmentShader draws solid white with an opacity uniform.
//
//go:embed wireframe.frag
var WireframeFragmentShader string

// LinesVertexShader is the vertex shader for line overlays.
//
//go:embed lines.vert
var LinesVertexShader string

// LinesFragmentShader is the fragment shader for line overlays.
//
//go:embed lines.frag
var LinesFragmentShader string
