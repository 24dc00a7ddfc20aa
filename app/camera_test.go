package app

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCamera_Axes(t *testing.T) {
	c := NewCamera()
	assert.True(t, c.Forward().ApproxEqual(mgl32.Vec3{0, 0, -1}))
	assert.True(t, c.Right().ApproxEqual(mgl32.Vec3{1, 0, 0}))

	c.Yaw = math.Pi / 2
	assert.True(t, c.Forward().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-6))
	assert.True(t, c.Right().ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-6))
}

func TestCamera_Update(t *testing.T) {
	c := NewCamera()
	start := c.Position
	c.Update(Input{Forward: true}, 1)
	assert.True(t, c.Position.ApproxEqual(start.Add(mgl32.Vec3{0, 0, -c.Speed})))

	c.Update(Input{Forward: true, Back: true}, 1)
	assert.True(t, c.Position.ApproxEqual(start.Add(mgl32.Vec3{0, 0, -c.Speed})), "opposite keys cancel")

	c.Update(Input{LookDY: -1e6}, 0)
	assert.Equal(t, float32(1.5), c.Pitch, "pitch is clamped")
}

func TestCamera_ViewMovesWorldToEye(t *testing.T) {
	c := NewCamera()
	eye := c.View().Mul4x1(c.Position.Vec4(1))
	assert.True(t, eye.Vec3().ApproxEqualThreshold(mgl32.Vec3{}, 1e-5))
}

func TestFrame_Matrices(t *testing.T) {
	c := NewCamera()
	f := &Frame{View: c.View(), Projection: Projection(800, 600, 0.1, 100)}

	assert.True(t, f.CameraWorld().Col(3).Vec3().ApproxEqualThreshold(c.Position, 1e-4))
	assert.Equal(t, f.Projection.Mul4(f.View), f.ViewProjection())

	// The rotation-only matrix ignores where the camera stands.
	c.Position = mgl32.Vec3{3, -2, 7}
	g := &Frame{View: c.View(), Projection: f.Projection}
	assert.True(t, f.ViewRotation().ApproxEqualThreshold(g.ViewRotation(), 1e-5))
}

func TestZeroToOneDepth(t *testing.T) {
	p := ZeroToOneDepth.Mul4(Projection(800, 600, 0.1, 100))
	near := p.Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	far := p.Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), 1e-5)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-5)
}

func TestProjection_ZeroHeight(t *testing.T) {
	assert.NotPanics(t, func() { Projection(800, 0, 0.1, 100) })
}
