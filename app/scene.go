package app

import (
	"math"

	"github.com/gekko3d/lightvol/light"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene is the demo light setup: a column of spinning spot lights and an
// optional ring of point lights.
type Scene struct {
	Spots  []light.Spot
	Points []light.Point

	transforms []Transform
	spin       []float32 // radians per second about Y, per spot
}

func NewScene(spots, points int) *Scene {
	s := &Scene{
		Spots:  make([]light.Spot, spots),
		Points: make([]light.Point, points),

		transforms: make([]Transform, spots),
		spin:       make([]float32, spots),
	}
	for i := range s.Spots {
		f := float32(i)
		s.transforms[i] = NewTransform(mgl32.Vec3{0, f - 5, 0})
		s.spin[i] = f - 5
		s.Spots[i] = light.NewSpot(
			s.transforms[i].Matrix(),
			mgl32.Vec4{3, 1, 0, 0.25},
			mgl32.Vec4{f / 10, 1 - f/10, 0, 1},
			20, 0.4, 16,
		)
	}
	for i := range s.Points {
		f := float64(i)
		s.Points[i] = light.NewPoint(
			mgl32.Vec3{float32(5 * math.Sin(f)), float32(i - 5), float32(5 * math.Cos(f))},
			6,
			mgl32.Vec4{1, 1, 0, 0.5},
			mgl32.Vec4{float32(i) / 30, float32(i%10) / 10, float32(i%3) / 3, 1},
		)
	}
	return s
}

// Update spins every spot light about its own Y axis.
func (s *Scene) Update(dt float32) {
	for i := range s.transforms {
		s.transforms[i].RotateY(s.spin[i] * dt)
		s.Spots[i].World = s.transforms[i].Matrix()
	}
}
