// Package glbackend implements gpu.Device on an OpenGL 4.1 core context.
//
// All calls must happen on the thread that owns the current context.
package glbackend

import (
	"fmt"
	"image"

	"github.com/gekko3d/lightvol"
	"github.com/gekko3d/lightvol/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

type Device struct {
	log     lightvol.Logger
	vao     uint32
	labels  map[gpu.BufferID]string
	bound   map[gpu.Target]gpu.BufferID
	current *Material
}

// New loads the GL entry points for the current context and binds the
// vertex array object every instancer records its attribute state into.
func New(log lightvol.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glbackend: init: %w", err)
	}
	log = lightvol.OrNop(log)
	log.Infof("OpenGL %s, GLSL %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))

	d := &Device{
		log:    log,
		labels: make(map[gpu.BufferID]string),
		bound:  make(map[gpu.Target]gpu.BufferID),
	}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	return d, nil
}

func glTarget(t gpu.Target) uint32 {
	if t == gpu.TargetElementArray {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func glUsage(u gpu.Usage) uint32 {
	switch u {
	case gpu.UsageDynamic:
		return gl.DYNAMIC_DRAW
	case gpu.UsageStream:
		return gl.STREAM_DRAW
	default:
		return gl.STATIC_DRAW
	}
}

func (d *Device) CreateBuffer(label string) (gpu.BufferID, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("glbackend: glGenBuffers returned no name for %q", label)
	}
	d.labels[gpu.BufferID(id)] = label
	d.log.Debugf("gl: buffer %d = %s", id, label)
	return gpu.BufferID(id), nil
}

func (d *Device) DeleteBuffer(id gpu.BufferID) {
	if _, ok := d.labels[id]; !ok {
		d.log.Warnf("gl: delete of unknown buffer %d", id)
		return
	}
	name := uint32(id)
	gl.DeleteBuffers(1, &name)
	delete(d.labels, id)
	for t, b := range d.bound {
		if b == id {
			d.bound[t] = 0
		}
	}
}

func (d *Device) BindBuffer(target gpu.Target, id gpu.BufferID) {
	gl.BindBuffer(glTarget(target), uint32(id))
	d.bound[target] = id
}

func (d *Device) BufferData(target gpu.Target, data []byte, usage gpu.Usage) error {
	id := d.bound[target]
	if _, ok := d.labels[id]; !ok {
		return fmt.Errorf("%w: nothing bound to %s", gpu.ErrUnknownBuffer, target)
	}
	if len(data) == 0 {
		gl.BufferData(glTarget(target), 0, nil, glUsage(usage))
	} else {
		gl.BufferData(glTarget(target), len(data), gl.Ptr(data), glUsage(usage))
	}
	return checkError("BufferData " + d.labels[id])
}

func (d *Device) VertexAttribPointer(location uint32, attr gpu.Attribute) {
	gl.VertexAttribPointerWithOffset(location, int32(attr.Components), gl.FLOAT, false, int32(attr.Stride), uintptr(attr.Offset))
}

func (d *Device) VertexAttribDivisor(location, divisor uint32) {
	gl.VertexAttribDivisor(location, divisor)
}

func (d *Device) EnableVertexAttribArray(location uint32) {
	gl.EnableVertexAttribArray(location)
}

func (d *Device) DisableVertexAttribArray(location uint32) {
	gl.DisableVertexAttribArray(location)
}

func (d *Device) DrawElementsInstanced(indexCount, instanceCount int) error {
	if d.current == nil {
		return gpu.ErrNoShadingBound
	}
	gl.DrawElementsInstanced(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, nil, int32(instanceCount))
	return checkError("DrawElementsInstanced")
}

// BeginLightPass sets the blend and cull state light volumes are drawn
// with: additive, no depth test, back faces only so every covered pixel is
// shaded once per light.
func (d *Device) BeginLightPass(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE)
	gl.CullFace(gl.FRONT)
	gl.Enable(gl.CULL_FACE)
}

func (d *Device) EndLightPass() {
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)
}

// Snapshot reads back the default framebuffer, top row first.
func (d *Device) Snapshot(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return img
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))

	row := make([]byte, img.Stride)
	for top, bottom := 0, height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pix[top*img.Stride : (top+1)*img.Stride]
		b := img.Pix[bottom*img.Stride : (bottom+1)*img.Stride]
		copy(row, a)
		copy(a, b)
		copy(b, row)
	}
	return img
}

// Release deletes every buffer still alive and the vertex array.
func (d *Device) Release() {
	for id := range d.labels {
		d.DeleteBuffer(id)
	}
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &d.vao)
}

func checkError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("glbackend: %s: GL error 0x%04x", op, code)
	}
	return nil
}
