package wgpubackend

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/lightvol/gpu"
	"github.com/gekko3d/lightvol/light"
	"github.com/gekko3d/lightvol/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spotAttributes is the table a spot instancer leaves at draw time.
func spotAttributes() []attribState {
	attribs := make([]attribState, gpu.MaxVertexAttributes)
	attribs[0] = attribState{set: true, enabled: true, buffer: 1, attr: gpu.Attribute{Components: 3, Stride: proxy.VertexStride}}
	for _, a := range gpu.MustRecordLayout[light.Spot]().Attributes() {
		attribs[a.Location] = attribState{
			set: true, enabled: true, divisor: 1, buffer: 3,
			attr: gpu.Attribute{Components: a.Components, Stride: light.SpotSize, Offset: a.Offset},
		}
	}
	return attribs
}

func TestVertexStreams_Spot(t *testing.T) {
	streams, err := vertexStreams(spotAttributes())
	require.NoError(t, err)
	require.Len(t, streams, 2)

	assert.Equal(t, gpu.BufferID(1), streams[0].buffer)
	assert.Equal(t, wgpu.VertexBufferLayout{
		ArrayStride: 12,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  []wgpu.VertexAttribute{{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}},
	}, streams[0].layout)

	inst := streams[1].layout
	assert.Equal(t, gpu.BufferID(3), streams[1].buffer)
	assert.Equal(t, uint64(light.SpotSize), inst.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, inst.StepMode)
	require.Len(t, inst.Attributes, 7)
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 4}, inst.Attributes[3])
	assert.Equal(t, wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x3, Offset: 96, ShaderLocation: 7}, inst.Attributes[6])
}

func TestVertexStreams_SkipsDisabled(t *testing.T) {
	attribs := spotAttributes()
	for i := 1; i < len(attribs); i++ {
		attribs[i].enabled = false
	}
	streams, err := vertexStreams(attribs)
	require.NoError(t, err)
	assert.Len(t, streams, 1)

	attribs[0].enabled = false
	streams, err = vertexStreams(attribs)
	require.NoError(t, err)
	assert.Empty(t, streams)
}

func TestVertexStreams_Rejects(t *testing.T) {
	attribs := spotAttributes()
	attribs[2].divisor = 2
	_, err := vertexStreams(attribs)
	assert.Error(t, err)

	attribs = spotAttributes()
	attribs[5].attr.Stride = 64
	_, err = vertexStreams(attribs)
	assert.Error(t, err, "one buffer, two strides")

	attribs = spotAttributes()
	attribs[9] = attribState{enabled: true}
	_, err = vertexStreams(attribs)
	assert.ErrorIs(t, err, gpu.ErrUnknownBuffer)

	attribs = spotAttributes()
	attribs[1].attr.Components = 5
	_, err = vertexStreams(attribs)
	assert.Error(t, err)
}

func TestStreamKey(t *testing.T) {
	a, err := vertexStreams(spotAttributes())
	require.NoError(t, err)
	b, err := vertexStreams(spotAttributes())
	require.NoError(t, err)
	assert.Equal(t, streamKey(a), streamKey(b))

	attribs := spotAttributes()
	attribs[7].enabled = false
	c, err := vertexStreams(attribs)
	require.NoError(t, err)
	assert.NotEqual(t, streamKey(a), streamKey(c))
}
