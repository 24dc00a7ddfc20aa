package wgpubackend

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/lightvol/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// Byte offsets into the Camera uniform struct of the light shaders.
var uniformOffsets = map[string]int{
	shaders.CameraView:   0,
	shaders.ViewRotation: 64,
	shaders.CameraWorld:  128,
	shaders.ProjectionA:  192,
	shaders.ProjectionB:  196,
}

const uniformSize = 208

// Material is a light shader module with its camera uniform buffer. Render
// pipelines are built lazily, one per vertex layout the instancers bind.
type Material struct {
	dev    *Device
	label  string
	format wgpu.TextureFormat

	module         *wgpu.ShaderModule
	pipelineLayout *wgpu.PipelineLayout
	uniformBuffer  *wgpu.Buffer
	bindGroup      *wgpu.BindGroup
	pipelines      map[string]*wgpu.RenderPipeline

	uniforms [uniformSize]byte
	dirty    bool
}

func (d *Device) NewMaterial(label, wgsl string, format wgpu.TextureFormat) (*Material, error) {
	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: wgsl},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: material %s: %w", label, err)
	}

	bgl, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label + "CameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uniformSize,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: material %s: %w", label, err)
	}
	pipelineLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: material %s: %w", label, err)
	}

	uniformBuffer, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + "Camera",
		Size:  uniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: material %s: %w", label, err)
	}
	bindGroup, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + "CameraBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniformBuffer, Size: uniformSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: material %s: %w", label, err)
	}

	return &Material{
		dev:            d,
		label:          label,
		format:         format,
		module:         module,
		pipelineLayout: pipelineLayout,
		uniformBuffer:  uniformBuffer,
		bindGroup:      bindGroup,
		pipelines:      make(map[string]*wgpu.RenderPipeline),
	}, nil
}

func (m *Material) SetMatrix(name string, v mgl32.Mat4) {
	off, ok := uniformOffsets[name]
	if !ok {
		m.dev.log.Debugf("wgpu: material %s has no uniform %q", m.label, name)
		return
	}
	for i, f := range v {
		binary.LittleEndian.PutUint32(m.uniforms[off+i*4:], math.Float32bits(f))
	}
	m.dirty = true
}

func (m *Material) SetFloat(name string, v float32) {
	off, ok := uniformOffsets[name]
	if !ok {
		m.dev.log.Debugf("wgpu: material %s has no uniform %q", m.label, name)
		return
	}
	binary.LittleEndian.PutUint32(m.uniforms[off:], math.Float32bits(v))
	m.dirty = true
}

// Bind uploads pending uniform changes and makes m the material of the
// next draws.
func (m *Material) Bind() {
	if m.dirty {
		if err := m.dev.queue.WriteBuffer(m.uniformBuffer, 0, m.uniforms[:]); err != nil {
			m.dev.log.Errorf("wgpu: material %s uniforms: %v", m.label, err)
		}
		m.dirty = false
	}
	m.dev.current = m
}

func (m *Material) Unbind() {
	if m.dev.current == m {
		m.dev.current = nil
	}
}

func (m *Material) pipeline(streams []vertexStream) (*wgpu.RenderPipeline, error) {
	key := streamKey(streams)
	if p, ok := m.pipelines[key]; ok {
		return p, nil
	}

	layouts := make([]wgpu.VertexBufferLayout, len(streams))
	for i, s := range streams {
		layouts[i] = s.layout
	}
	additive := wgpu.BlendComponent{
		Operation: wgpu.BlendOperationAdd,
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOne,
	}
	p, err := m.dev.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  m.label + "Pipeline",
		Layout: m.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     m.module,
			EntryPoint: "vs_main",
			Buffers:    layouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     m.module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    m.format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend:     &wgpu.BlendState{Color: additive, Alpha: additive},
				},
			},
		},
		// Back faces only: each pixel a volume covers is shaded once.
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeFront,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpubackend: material %s pipeline %s: %w", m.label, key, err)
	}
	m.dev.log.Debugf("wgpu: material %s built pipeline %s", m.label, key)
	m.pipelines[key] = p
	return p, nil
}

func (m *Material) Release() {
	for _, p := range m.pipelines {
		p.Release()
	}
	m.bindGroup.Release()
	m.uniformBuffer.Release()
	m.pipelineLayout.Release()
	m.module.Release()
}
