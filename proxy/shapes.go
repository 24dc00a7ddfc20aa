package proxy

import (
	"math"

	"github.com/gekko3d/lightvol"
	"github.com/go-gl/mathgl/mgl32"
)

// Shape identifies the proxy geometry a light kind is rasterized with.
type Shape int

const (
	ShapeSphere Shape = iota
	ShapeCone
)

func (s Shape) String() string {
	switch s {
	case ShapeSphere:
		return "sphere"
	case ShapeCone:
		return "cone"
	default:
		return "unknown"
	}
}

const (
	DefaultSphereRings    = 8
	DefaultSphereSegments = 16
	DefaultConeSegments   = 16
)

// Procedural builds the default-resolution mesh for s.
func Procedural(s Shape) Mesh {
	switch s {
	case ShapeSphere:
		return Sphere(DefaultSphereRings, DefaultSphereSegments)
	case ShapeCone:
		return Cone(DefaultConeSegments)
	default:
		return Mesh{}
	}
}

// Resolve loads the mesh for s from path, or builds it procedurally when
// path is empty. A failed load yields an empty mesh (see Load).
func Resolve(s Shape, path string, log lightvol.Logger) Mesh {
	if path == "" {
		lightvol.OrNop(log).Debugf("proxy: using procedural %s", s)
		return Procedural(s)
	}
	return Load(path, log)
}

// Sphere builds a unit UV sphere around the origin with outward,
// counter-clockwise triangles. rings counts latitude bands (>= 2),
// segments counts longitude slices (>= 3).
func Sphere(rings, segments int) Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)

	var m Mesh
	m.Vertices = append(m.Vertices, mgl32.Vec3{0, 1, 0})
	for i := 1; i < rings; i++ {
		phi := math.Pi * float64(i) / float64(rings)
		sp, cp := math.Sincos(phi)
		for j := 0; j < segments; j++ {
			theta := 2 * math.Pi * float64(j) / float64(segments)
			st, ct := math.Sincos(theta)
			m.Vertices = append(m.Vertices, mgl32.Vec3{float32(sp * ct), float32(cp), float32(sp * st)})
		}
	}
	bottom := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, mgl32.Vec3{0, -1, 0})

	ring := func(i, j int) uint32 {
		return uint32(1 + (i-1)*segments + j%segments)
	}

	for j := 0; j < segments; j++ {
		m.Indices = append(m.Indices, 0, ring(1, j+1), ring(1, j))
	}
	for i := 1; i < rings-1; i++ {
		for j := 0; j < segments; j++ {
			a, b := ring(i, j), ring(i, j+1)
			c, d := ring(i+1, j), ring(i+1, j+1)
			m.Indices = append(m.Indices, a, b, d, a, d, c)
		}
	}
	for j := 0; j < segments; j++ {
		m.Indices = append(m.Indices, ring(rings-1, j), ring(rings-1, j+1), bottom)
	}
	return m
}

// Cone builds a closed unit cone with its apex at the origin, opening along
// +Z to a base of radius 1 at z = 1.
func Cone(segments int) Mesh {
	segments = max(segments, 3)

	var m Mesh
	m.Vertices = append(m.Vertices, mgl32.Vec3{0, 0, 0})
	for j := 0; j < segments; j++ {
		theta := 2 * math.Pi * float64(j) / float64(segments)
		st, ct := math.Sincos(theta)
		m.Vertices = append(m.Vertices, mgl32.Vec3{float32(ct), float32(st), 1})
	}
	center := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, mgl32.Vec3{0, 0, 1})

	rim := func(j int) uint32 {
		return uint32(1 + j%segments)
	}
	for j := 0; j < segments; j++ {
		m.Indices = append(m.Indices, 0, rim(j+1), rim(j))
	}
	for j := 0; j < segments; j++ {
		m.Indices = append(m.Indices, center, rim(j), rim(j+1))
	}
	return m
}
