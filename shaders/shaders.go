// Package shaders holds the light volume shaders for both backends.
//
// Vertex inputs follow the instancer attribute slots: location 0 is the
// proxy position, locations 1.. are the light record fields in order.
package shaders

import (
	_ "embed"
)

//go:embed point_light.vert
var PointLightVert string

//go:embed point_light.frag
var PointLightFrag string

//go:embed spot_light.vert
var SpotLightVert string

//go:embed spot_light.frag
var SpotLightFrag string

//go:embed point_light.wgsl
var PointLightWGSL string

//go:embed spot_light.wgsl
var SpotLightWGSL string

// Uniform names shared by every light material.
const (
	CameraView   = "cameraView"
	ViewRotation = "viewRotation"
	CameraWorld  = "cameraWorld"
	ProjectionA  = "projectionA"
	ProjectionB  = "projectionB"
)
