package app

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FieldOfView is the vertical field of view in radians.
const FieldOfView = 0.75

// Camera is a Y-up first person camera driven by WASD and mouse look.
type Camera struct {
	Position    mgl32.Vec3
	Yaw         float32 // radians, 0 looks down -Z
	Pitch       float32
	Speed       float32
	Sensitivity float32
}

func NewCamera() *Camera {
	return &Camera{
		Position:    mgl32.Vec3{0, 0, 15},
		Speed:       5.0,
		Sensitivity: 0.003,
	}
}

func (c *Camera) Forward() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Cos(float64(c.Pitch)) * math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		float32(-math.Cos(float64(c.Pitch)) * math.Cos(float64(c.Yaw))),
	}
}

func (c *Camera) Right() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(math.Cos(float64(c.Yaw))),
		0,
		float32(math.Sin(float64(c.Yaw))),
	}
}

func (c *Camera) View() mgl32.Mat4 {
	eye := c.Position
	return mgl32.LookAtV(eye, eye.Add(c.Forward()), mgl32.Vec3{0, 1, 0})
}

// Update applies one frame of input.
func (c *Camera) Update(in Input, dt float32) {
	c.Yaw += in.LookDX * c.Sensitivity
	c.Pitch -= in.LookDY * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -1.5, 1.5)

	var move mgl32.Vec3
	if in.Forward {
		move = move.Add(c.Forward())
	}
	if in.Back {
		move = move.Sub(c.Forward())
	}
	if in.Right {
		move = move.Add(c.Right())
	}
	if in.Left {
		move = move.Sub(c.Right())
	}
	if move.Len() > 0 {
		c.Position = c.Position.Add(move.Normalize().Mul(c.Speed * dt))
	}
}

// Projection is the OpenGL perspective projection, clip z in [-1, 1].
func Projection(width, height int, near, far float32) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(FieldOfView, aspect, near, far)
}

// ZeroToOneDepth remaps OpenGL clip z to the [0, 1] range WebGPU clips to.
var ZeroToOneDepth = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}
