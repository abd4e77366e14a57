// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// BackgroundVertexShader draws a fullscreen triangle and emits view rays.
//
//go:embed background.vert
var BackgroundVertexShader string

// BackgroundFragmentShader samples the equirectangular background.
//
//go:embed background.frag
var BackgroundFragmentShader string

// DepthVertexShader transforms geometry into light space for the shadow pass.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader writes depth only.
//
//go:embed depth.frag
var DepthFragmentShader string

// MeshVertexShader is the vertex shader for lit model geometry.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader shades metallic-roughness surfaces with shadows and
// environment reflections.
//
//go:embed mesh.frag
var MeshFragmentShader string
