package wgpubackend

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/lightvol/gpu"
)

type attribState struct {
	set     bool
	enabled bool
	divisor uint32
	buffer  gpu.BufferID
	attr    gpu.Attribute
}

// vertexStream is one vertex buffer slot of a pipeline: every enabled
// attribute that reads the same buffer at the same rate.
type vertexStream struct {
	buffer gpu.BufferID
	layout wgpu.VertexBufferLayout
}

func vertexFormat(components int) (wgpu.VertexFormat, error) {
	switch components {
	case 1:
		return wgpu.VertexFormatFloat32, nil
	case 2:
		return wgpu.VertexFormatFloat32x2, nil
	case 3:
		return wgpu.VertexFormatFloat32x3, nil
	case 4:
		return wgpu.VertexFormatFloat32x4, nil
	}
	return 0, fmt.Errorf("wgpubackend: %d components", components)
}

// vertexStreams turns the GL style attribute table into WebGPU vertex
// buffer layouts, ordered by the lowest location reading each buffer.
func vertexStreams(attribs []attribState) ([]vertexStream, error) {
	var streams []vertexStream
	slot := make(map[gpu.BufferID]int)
	for loc, s := range attribs {
		if !s.enabled {
			continue
		}
		if !s.set || s.buffer == 0 {
			return nil, fmt.Errorf("%w: attribute %d enabled without a buffer", gpu.ErrUnknownBuffer, loc)
		}
		if s.divisor > 1 {
			return nil, fmt.Errorf("wgpubackend: attribute %d divisor %d unsupported", loc, s.divisor)
		}
		format, err := vertexFormat(s.attr.Components)
		if err != nil {
			return nil, err
		}
		stride := s.attr.Stride
		if stride == 0 {
			stride = s.attr.Components * 4
		}
		step := wgpu.VertexStepModeVertex
		if s.divisor == 1 {
			step = wgpu.VertexStepModeInstance
		}

		i, ok := slot[s.buffer]
		if !ok {
			i = len(streams)
			slot[s.buffer] = i
			streams = append(streams, vertexStream{
				buffer: s.buffer,
				layout: wgpu.VertexBufferLayout{ArrayStride: uint64(stride), StepMode: step},
			})
		}
		l := &streams[i].layout
		if l.ArrayStride != uint64(stride) || l.StepMode != step {
			return nil, fmt.Errorf("wgpubackend: attribute %d disagrees with the stride or rate of buffer %d", loc, s.buffer)
		}
		l.Attributes = append(l.Attributes, wgpu.VertexAttribute{
			Format:         format,
			Offset:         uint64(s.attr.Offset),
			ShaderLocation: uint32(loc),
		})
	}
	return streams, nil
}

// streamKey identifies a set of vertex layouts for the pipeline cache.
func streamKey(streams []vertexStream) string {
	var b strings.Builder
	for _, s := range streams {
		fmt.Fprintf(&b, "[%d/%d", s.layout.ArrayStride, s.layout.StepMode)
		for _, a := range s.layout.Attributes {
			fmt.Fprintf(&b, " %d:%d@%d", a.ShaderLocation, a.Format, a.Offset)
		}
		b.WriteByte(']')
	}
	return b.String()
}
