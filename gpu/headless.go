package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/gekko3d/lightvol"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrDrawOutOfRange is returned by HeadlessDevice when a draw would read
// past the end of an index or attribute buffer.
var ErrDrawOutOfRange = errors.New("gpu: draw reads past buffer end")

// AttribState is the recorded state of one vertex attribute slot.
type AttribState struct {
	Set       bool // VertexAttribPointer was called for the slot
	Enabled   bool
	Divisor   uint32
	Buffer    BufferID
	Attribute Attribute
}

// DrawCall is a snapshot of the device state at DrawElementsInstanced time.
type DrawCall struct {
	IndexCount    int
	InstanceCount int
	Material      string
	Attributes    [MaxVertexAttributes]AttribState
	// InstanceData is a copy of the buffer feeding the per-instance slots.
	InstanceData []byte
}

type headlessBuffer struct {
	label string
	data  []byte
	usage Usage
}

// HeadlessDevice is a Device that keeps buffers in memory and records
// attribute state and draw calls instead of rasterizing. It validates draws
// the way a debug GL context would, so an instancer that leaks state or
// reads out of bounds fails here too.
type HeadlessDevice struct {
	log     lightvol.Logger
	nextID  BufferID
	buffers map[BufferID]*headlessBuffer
	bound   map[Target]BufferID
	attribs [MaxVertexAttributes]AttribState

	material *HeadlessMaterial
	draws    []DrawCall
	drawErr  error
}

func NewHeadlessDevice(log lightvol.Logger) *HeadlessDevice {
	return &HeadlessDevice{
		log:     lightvol.OrNop(log),
		buffers: make(map[BufferID]*headlessBuffer),
		bound:   make(map[Target]BufferID),
	}
}

func (d *HeadlessDevice) CreateBuffer(label string) (BufferID, error) {
	d.nextID++
	d.buffers[d.nextID] = &headlessBuffer{label: label}
	return d.nextID, nil
}

func (d *HeadlessDevice) DeleteBuffer(id BufferID) {
	if _, ok := d.buffers[id]; !ok {
		d.log.Warnf("headless: delete of unknown buffer %d", id)
		return
	}
	delete(d.buffers, id)
	for t, b := range d.bound {
		if b == id {
			d.bound[t] = 0
		}
	}
}

func (d *HeadlessDevice) BindBuffer(target Target, id BufferID) {
	if id != 0 {
		if _, ok := d.buffers[id]; !ok {
			d.log.Warnf("headless: bind of unknown buffer %d to %s", id, target)
		}
	}
	d.bound[target] = id
}

func (d *HeadlessDevice) BufferData(target Target, data []byte, usage Usage) error {
	b, ok := d.buffers[d.bound[target]]
	if !ok {
		return fmt.Errorf("%w: nothing bound to %s", ErrUnknownBuffer, target)
	}
	b.data = append(b.data[:0], data...)
	b.usage = usage
	return nil
}

func (d *HeadlessDevice) VertexAttribPointer(location uint32, attr Attribute) {
	if !d.checkLocation(location) {
		return
	}
	s := &d.attribs[location]
	s.Set = true
	s.Buffer = d.bound[TargetArray]
	s.Attribute = attr
}

func (d *HeadlessDevice) VertexAttribDivisor(location, divisor uint32) {
	if d.checkLocation(location) {
		d.attribs[location].Divisor = divisor
	}
}

func (d *HeadlessDevice) EnableVertexAttribArray(location uint32) {
	if d.checkLocation(location) {
		d.attribs[location].Enabled = true
	}
}

func (d *HeadlessDevice) DisableVertexAttribArray(location uint32) {
	if d.checkLocation(location) {
		d.attribs[location].Enabled = false
	}
}

func (d *HeadlessDevice) checkLocation(location uint32) bool {
	if location >= MaxVertexAttributes {
		d.log.Warnf("headless: attribute location %d out of range", location)
		return false
	}
	return true
}

func (d *HeadlessDevice) DrawElementsInstanced(indexCount, instanceCount int) error {
	if d.drawErr != nil {
		err := d.drawErr
		d.drawErr = nil
		return err
	}
	if d.material == nil {
		return ErrNoShadingBound
	}
	if indexCount < 0 || instanceCount < 0 {
		return fmt.Errorf("%w: negative count (%d indices, %d instances)", ErrDrawOutOfRange, indexCount, instanceCount)
	}
	elements, ok := d.buffers[d.bound[TargetElementArray]]
	if !ok {
		return fmt.Errorf("%w: no element buffer bound", ErrUnknownBuffer)
	}
	if indexCount*4 > len(elements.data) {
		return fmt.Errorf("%w: %d indices from a %d-byte element buffer", ErrDrawOutOfRange, indexCount, len(elements.data))
	}

	maxIndex := -1
	for i := 0; i < indexCount; i++ {
		idx := int(binary.LittleEndian.Uint32(elements.data[i*4:]))
		maxIndex = max(maxIndex, idx)
	}

	call := DrawCall{
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		Material:      d.material.label,
		Attributes:    d.attribs,
	}
	for loc, s := range d.attribs {
		if !s.Enabled {
			continue
		}
		if !s.Set {
			return fmt.Errorf("%w: attribute %d enabled without a pointer", ErrUnknownBuffer, loc)
		}
		b, ok := d.buffers[s.Buffer]
		if !ok {
			return fmt.Errorf("%w: attribute %d reads buffer %d", ErrUnknownBuffer, loc, s.Buffer)
		}
		last := maxIndex
		if s.Divisor > 0 {
			last = -1
			if instanceCount > 0 {
				last = (instanceCount - 1) / int(s.Divisor)
			}
			if call.InstanceData == nil {
				call.InstanceData = slices.Clone(b.data)
			}
		}
		if last < 0 {
			continue
		}
		stride := s.Attribute.Stride
		if stride == 0 {
			stride = s.Attribute.Components * 4
		}
		if end := s.Attribute.Offset + last*stride + s.Attribute.Components*4; end > len(b.data) {
			return fmt.Errorf("%w: attribute %d needs %d bytes of %q, has %d", ErrDrawOutOfRange, loc, end, b.label, len(b.data))
		}
	}

	d.draws = append(d.draws, call)
	d.log.Debugf("headless: draw %d indices x %d instances with %s", indexCount, instanceCount, call.Material)
	return nil
}

// FailNextDraw makes the next DrawElementsInstanced return err.
func (d *HeadlessDevice) FailNextDraw(err error) {
	d.drawErr = err
}

// Buffer returns a copy of a buffer's content.
func (d *HeadlessDevice) Buffer(id BufferID) ([]byte, bool) {
	b, ok := d.buffers[id]
	if !ok {
		return nil, false
	}
	return slices.Clone(b.data), true
}

func (d *HeadlessDevice) BufferLabel(id BufferID) string {
	if b, ok := d.buffers[id]; ok {
		return b.label
	}
	return ""
}

func (d *HeadlessDevice) LiveBuffers() int {
	return len(d.buffers)
}

func (d *HeadlessDevice) Bound(target Target) BufferID {
	return d.bound[target]
}

func (d *HeadlessDevice) Draws() []DrawCall {
	return slices.Clone(d.draws)
}

func (d *HeadlessDevice) ResetDraws() {
	d.draws = d.draws[:0]
}

// EnabledAttributes lists the enabled slots in ascending order.
func (d *HeadlessDevice) EnabledAttributes() []uint32 {
	var out []uint32
	for loc, s := range d.attribs {
		if s.Enabled {
			out = append(out, uint32(loc))
		}
	}
	return out
}

func (d *HeadlessDevice) Divisor(location uint32) uint32 {
	if location >= MaxVertexAttributes {
		return 0
	}
	return d.attribs[location].Divisor
}

func (d *HeadlessDevice) Attrib(location uint32) AttribState {
	if location >= MaxVertexAttributes {
		return AttribState{}
	}
	return d.attribs[location]
}

// HeadlessMaterial is the Material of a HeadlessDevice. It records the
// uniforms set on it and how often it was bound.
type HeadlessMaterial struct {
	dev      *HeadlessDevice
	label    string
	matrices map[string]mgl32.Mat4
	floats   map[string]float32

	Binds   int
	Unbinds int
}

func (d *HeadlessDevice) NewMaterial(label string) *HeadlessMaterial {
	return &HeadlessMaterial{
		dev:      d,
		label:    label,
		matrices: make(map[string]mgl32.Mat4),
		floats:   make(map[string]float32),
	}
}

func (m *HeadlessMaterial) Bind() {
	m.Binds++
	m.dev.material = m
}

func (m *HeadlessMaterial) Unbind() {
	m.Unbinds++
	if m.dev.material == m {
		m.dev.material = nil
	}
}

func (m *HeadlessMaterial) SetMatrix(name string, v mgl32.Mat4) { m.matrices[name] = v }
func (m *HeadlessMaterial) SetFloat(name string, v float32)     { m.floats[name] = v }

func (m *HeadlessMaterial) Matrix(name string) (mgl32.Mat4, bool) {
	v, ok := m.matrices[name]
	return v, ok
}

func (m *HeadlessMaterial) Float(name string) (float32, bool) {
	v, ok := m.floats[name]
	return v, ok
}

func (m *HeadlessMaterial) Label() string { return m.label }
