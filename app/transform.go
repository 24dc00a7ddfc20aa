package app

import "github.com/go-gl/mathgl/mgl32"

// Transform places a light: translation and rotation only. A spot light's
// record matrix must not carry scale, the shader derives it from range and
// angle.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

func NewTransform(position mgl32.Vec3) Transform {
	return Transform{Position: position, Rotation: mgl32.QuatIdent()}
}

// RotateY turns the transform about its own Y axis.
func (t *Transform) RotateY(angle float32) {
	t.Rotation = t.Rotation.Mul(mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0})).Normalize()
}

// Matrix returns T * R.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).Mul4(t.Rotation.Mat4())
}

// Inverse returns inv(R) * inv(T).
func (t Transform) Inverse() mgl32.Mat4 {
	return t.Rotation.Conjugate().Mat4().Mul4(mgl32.Translate3D(-t.Position.X(), -t.Position.Y(), -t.Position.Z()))
}
