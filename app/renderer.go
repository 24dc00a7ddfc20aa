package app

import (
	"errors"

	"github.com/gekko3d/lightvol"
	"github.com/gekko3d/lightvol/gpu"
	"github.com/gekko3d/lightvol/proxy"
	"github.com/gekko3d/lightvol/shaders"
)

// Renderer owns the two light instancers and feeds them the camera
// uniforms of each frame.
type Renderer struct {
	cfg      lightvol.Config
	log      lightvol.Logger
	points   *gpu.PointLightRenderer
	spots    *gpu.SpotLightRenderer
	pointMat gpu.Material
	spotMat  gpu.Material
}

func NewRenderer(dev gpu.Device, pointMat, spotMat gpu.Material, cfg lightvol.Config, log lightvol.Logger) (*Renderer, error) {
	log = lightvol.OrNop(log)
	sphere := proxy.Resolve(proxy.ShapeSphere, cfg.SphereMesh, log)
	cone := proxy.Resolve(proxy.ShapeCone, cfg.ConeMesh, log)

	points, err := gpu.NewPointLightRenderer(dev, sphere, gpu.WithLogger(log))
	if err != nil {
		return nil, err
	}
	spots, err := gpu.NewSpotLightRenderer(dev, cone, gpu.WithLogger(log))
	if err != nil {
		points.Close()
		return nil, err
	}
	log.Infof("light volumes: sphere %d triangles, cone %d triangles", sphere.TriangleCount(), cone.TriangleCount())
	return &Renderer{
		cfg:      cfg,
		log:      log,
		points:   points,
		spots:    spots,
		pointMat: pointMat,
		spotMat:  spotMat,
	}, nil
}

// Render draws every light of scene. A failing light kind does not stop
// the other from drawing; the errors are joined.
func (r *Renderer) Render(f *Frame, scene *Scene) error {
	for _, m := range []gpu.Material{r.pointMat, r.spotMat} {
		m.SetMatrix(shaders.CameraView, f.ViewProjection())
		m.SetMatrix(shaders.ViewRotation, f.ViewRotation())
		m.SetMatrix(shaders.CameraWorld, f.CameraWorld())
		m.SetFloat(shaders.ProjectionA, r.cfg.ProjectionA())
		m.SetFloat(shaders.ProjectionB, r.cfg.ProjectionB())
	}
	return errors.Join(
		r.points.RenderLights(scene.Points, r.pointMat),
		r.spots.RenderLights(scene.Spots, r.spotMat),
	)
}

func (r *Renderer) Close() {
	r.points.Close()
	r.spots.Close()
}
