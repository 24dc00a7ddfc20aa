// Package light defines the per-instance records uploaded for light volumes.
//
// Each record is copied verbatim into an instance buffer, so field order is
// part of the contract with the light shaders. The `layout` tag names the
// vertex attribute a field feeds; adjacent fields sharing a name are packed
// into one attribute, and a mat4 field spans four consecutive attributes.
package light

import "github.com/go-gl/mathgl/mgl32"

const (
	PointSize = 48  // bytes per Point record
	SpotSize  = 108 // bytes per Spot record
)

// Point is a point light rasterized with the sphere proxy scaled by Radius.
type Point struct {
	Position    mgl32.Vec3 `layout:"position"`
	Radius      float32    `layout:"radius"`
	Attenuation mgl32.Vec4 `layout:"attenuation"`
	Color       mgl32.Vec4 `layout:"color"`
}

func NewPoint(position mgl32.Vec3, radius float32, attenuation, color mgl32.Vec4) Point {
	return Point{
		Position:    position,
		Radius:      radius,
		Attenuation: attenuation,
		Color:       color,
	}
}

// Spot is a spot light rasterized with the cone proxy.
//
// World positions and orients the cone only. Range and Angle are not baked
// into it: the spot light vertex shader scales the unit cone itself, since it
// needs both values for shading anyway.
type Spot struct {
	World       mgl32.Mat4 `layout:"world"`
	Attenuation mgl32.Vec4 `layout:"attenuation"`
	Color       mgl32.Vec4 `layout:"color"`
	Range       float32    `layout:"cone"`
	Angle       float32    `layout:"cone"`
	Exponent    float32    `layout:"cone"`
}

func NewSpot(world mgl32.Mat4, attenuation, color mgl32.Vec4, rangeLen, angle, exponent float32) Spot {
	return Spot{
		World:       world,
		Attenuation: attenuation,
		Color:       color,
		Range:       rangeLen,
		Angle:       angle,
		Exponent:    exponent,
	}
}

// Position returns the cone apex in world space.
func (s Spot) Position() mgl32.Vec3 {
	return s.World.Col(3).Vec3()
}

// Direction returns the normalized world-space cone axis (+Z of the proxy).
func (s Spot) Direction() mgl32.Vec3 {
	return s.World.Col(2).Vec3().Normalize()
}
