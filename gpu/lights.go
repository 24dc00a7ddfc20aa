package gpu

import (
	"github.com/gekko3d/lightvol/light"
	"github.com/gekko3d/lightvol/proxy"
	"github.com/go-gl/mathgl/mgl32"
)

type (
	PointLightRenderer = Instancer[light.Point]
	SpotLightRenderer  = Instancer[light.Spot]
)

// Material is a ShadingResource whose camera uniforms can be set by name.
// Both backends' light materials implement it.
type Material interface {
	ShadingResource
	SetMatrix(name string, m mgl32.Mat4)
	SetFloat(name string, v float32)
}

// NewPointLightRenderer instances mesh, normally the sphere proxy, per light.Point.
func NewPointLightRenderer(dev Device, mesh proxy.Mesh, opts ...Option) (*PointLightRenderer, error) {
	return NewInstancer[light.Point](dev, mesh, append([]Option{WithLabel("point-lights")}, opts...)...)
}

// NewSpotLightRenderer instances mesh, normally the cone proxy, per light.Spot.
func NewSpotLightRenderer(dev Device, mesh proxy.Mesh, opts ...Option) (*SpotLightRenderer, error) {
	return NewInstancer[light.Spot](dev, mesh, append([]Option{WithLabel("spot-lights")}, opts...)...)
}
