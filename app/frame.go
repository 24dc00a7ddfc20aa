package app

import "github.com/go-gl/mathgl/mgl32"

// Input is the keyboard and mouse state sampled for one frame.
type Input struct {
	Forward, Back, Left, Right bool
	LookDX, LookDY             float32 // cursor motion in pixels while captured
}

// Frame is everything a frame needs to know about the window and camera.
// It is rebuilt by the loop every frame and passed down explicitly.
type Frame struct {
	Index  int
	Width  int
	Height int
	DT     float32 // seconds since the previous frame
	Time   float64
	Input  Input

	View       mgl32.Mat4
	Projection mgl32.Mat4
}

func (f *Frame) ViewProjection() mgl32.Mat4 {
	return f.Projection.Mul4(f.View)
}

// ViewRotation is the projection applied to the rotation part of the view
// only, the matrix a skybox or a view ray reconstruction uses.
func (f *Frame) ViewRotation() mgl32.Mat4 {
	return f.Projection.Mul4(f.View.Mat3().Mat4())
}

// CameraWorld is the camera's world transform, the inverse of View.
func (f *Frame) CameraWorld() mgl32.Mat4 {
	return f.View.Inv()
}
