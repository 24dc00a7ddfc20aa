// Package wgpubackend implements gpu.Device on WebGPU.
//
// WebGPU has no global attribute state, so the device keeps the GL style
// table the instancers program and resolves it into vertex buffer layouts,
// and a cached pipeline of the bound Material, at draw time. Draws are
// recorded into the render pass set with SetPass.
package wgpubackend

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/lightvol"
	"github.com/gekko3d/lightvol/gpu"
)

var ErrNoRenderPass = errors.New("wgpubackend: draw outside a render pass")

type buffer struct {
	label string
	buf   *wgpu.Buffer
	size  uint64 // bytes of content, may be less than buf.GetSize()
}

type Device struct {
	device *wgpu.Device
	queue  *wgpu.Queue
	log    lightvol.Logger

	nextID  gpu.BufferID
	buffers map[gpu.BufferID]*buffer
	bound   map[gpu.Target]gpu.BufferID
	attribs [gpu.MaxVertexAttributes]attribState

	pass    *wgpu.RenderPassEncoder
	current *Material
}

func New(device *wgpu.Device, log lightvol.Logger) *Device {
	return &Device{
		device:  device,
		queue:   device.GetQueue(),
		log:     lightvol.OrNop(log),
		buffers: make(map[gpu.BufferID]*buffer),
		bound:   make(map[gpu.Target]gpu.BufferID),
	}
}

// SetPass directs subsequent draws into pass. Pass nil once it has ended.
func (d *Device) SetPass(pass *wgpu.RenderPassEncoder) {
	d.pass = pass
}

func (d *Device) CreateBuffer(label string) (gpu.BufferID, error) {
	d.nextID++
	d.buffers[d.nextID] = &buffer{label: label}
	return d.nextID, nil
}

func (d *Device) DeleteBuffer(id gpu.BufferID) {
	b, ok := d.buffers[id]
	if !ok {
		d.log.Warnf("wgpu: delete of unknown buffer %d", id)
		return
	}
	if b.buf != nil {
		b.buf.Release()
	}
	delete(d.buffers, id)
	for t, bound := range d.bound {
		if bound == id {
			d.bound[t] = 0
		}
	}
}

func (d *Device) BindBuffer(target gpu.Target, id gpu.BufferID) {
	d.bound[target] = id
}

// BufferData grows the GPU buffer when needed and writes data through the
// queue. Buffers are created with both vertex and index usage since the
// gpu.Device targets are bind points, not buffer kinds.
func (d *Device) BufferData(target gpu.Target, data []byte, _ gpu.Usage) error {
	id := d.bound[target]
	b, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("%w: nothing bound to %s", gpu.ErrUnknownBuffer, target)
	}

	needed := uint64(max(len(data), 4))
	if needed%4 != 0 {
		needed += 4 - needed%4
	}
	if b.buf == nil || b.buf.GetSize() < needed {
		if b.buf != nil {
			b.buf.Release()
		}
		buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: b.label,
			Size:  needed,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			b.buf = nil
			return fmt.Errorf("wgpubackend: create %s: %w", b.label, err)
		}
		b.buf = buf
		d.log.Debugf("wgpu: %s resized to %d bytes", b.label, needed)
	}
	b.size = uint64(len(data))
	if len(data) == 0 {
		return nil
	}
	if len(data)%4 != 0 {
		padded := make([]byte, needed)
		copy(padded, data)
		data = padded
	}
	if err := d.queue.WriteBuffer(b.buf, 0, data); err != nil {
		return fmt.Errorf("wgpubackend: write %s: %w", b.label, err)
	}
	return nil
}

func (d *Device) attrib(location uint32) *attribState {
	if location >= gpu.MaxVertexAttributes {
		d.log.Warnf("wgpu: attribute location %d out of range", location)
		return &attribState{}
	}
	return &d.attribs[location]
}

func (d *Device) VertexAttribPointer(location uint32, attr gpu.Attribute) {
	s := d.attrib(location)
	s.set = true
	s.buffer = d.bound[gpu.TargetArray]
	s.attr = attr
}

func (d *Device) VertexAttribDivisor(location, divisor uint32) {
	d.attrib(location).divisor = divisor
}

func (d *Device) EnableVertexAttribArray(location uint32) {
	d.attrib(location).enabled = true
}

func (d *Device) DisableVertexAttribArray(location uint32) {
	d.attrib(location).enabled = false
}

func (d *Device) DrawElementsInstanced(indexCount, instanceCount int) error {
	if d.current == nil {
		return gpu.ErrNoShadingBound
	}
	if d.pass == nil {
		return ErrNoRenderPass
	}
	elements, ok := d.buffers[d.bound[gpu.TargetElementArray]]
	if !ok || elements.buf == nil {
		return fmt.Errorf("%w: no element buffer bound", gpu.ErrUnknownBuffer)
	}

	streams, err := vertexStreams(d.attribs[:])
	if err != nil {
		return err
	}
	pipeline, err := d.current.pipeline(streams)
	if err != nil {
		return err
	}

	d.pass.SetPipeline(pipeline)
	d.pass.SetBindGroup(0, d.current.bindGroup, nil)
	for slot, s := range streams {
		b, ok := d.buffers[s.buffer]
		if !ok || b.buf == nil {
			return fmt.Errorf("%w: vertex stream %d reads buffer %d", gpu.ErrUnknownBuffer, slot, s.buffer)
		}
		d.pass.SetVertexBuffer(uint32(slot), b.buf, 0, b.buf.GetSize())
	}
	d.pass.SetIndexBuffer(elements.buf, wgpu.IndexFormatUint32, 0, elements.buf.GetSize())
	d.pass.DrawIndexed(uint32(indexCount), uint32(instanceCount), 0, 0, 0)
	return nil
}

func (d *Device) Release() {
	for id := range d.buffers {
		d.DeleteBuffer(id)
	}
}
