package gpu

import (
	"fmt"
	"reflect"

	"github.com/gekko3d/lightvol"
	"github.com/gekko3d/lightvol/proxy"
	"github.com/google/uuid"
)

type options struct {
	label string
	log   lightvol.Logger
}

type Option func(*options)

func WithLabel(label string) Option {
	return func(o *options) { o.label = label }
}

func WithLogger(log lightvol.Logger) Option {
	return func(o *options) { o.log = log }
}

// Instancer draws one proxy mesh once per record of type T in a single
// instanced call. It owns three buffers: the proxy vertices and indices,
// uploaded once, and the instance buffer, replaced on every RenderLights.
//
// An Instancer is not safe for concurrent use.
type Instancer[T any] struct {
	id     uuid.UUID
	label  string
	dev    Device
	log    lightvol.Logger
	layout *RecordLayout[T]
	mesh   proxy.Mesh

	vertexBuffer   BufferID
	indexBuffer    BufferID
	instanceBuffer BufferID

	scratch []byte
	closed  bool
}

func NewInstancer[T any](dev Device, mesh proxy.Mesh, opts ...Option) (*Instancer[T], error) {
	o := options{label: "lights"}
	for _, opt := range opts {
		opt(&o)
	}
	log := lightvol.OrNop(o.log)

	layout, err := NewRecordLayout[T]()
	if err != nil {
		return nil, err
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("gpu: %s proxy mesh: %w", o.label, err)
	}

	in := &Instancer[T]{
		id:     uuid.New(),
		label:  o.label,
		dev:    dev,
		log:    log,
		layout: layout,
		mesh:   mesh,
	}
	if err := in.createBuffers(); err != nil {
		in.releaseBuffers()
		return nil, err
	}
	log.Debugf("instancer %s (%s): %d triangles, layout %s", in.label, in.id, mesh.TriangleCount(), layout)
	return in, nil
}

func (in *Instancer[T]) createBuffers() error {
	var err error
	short := in.id.String()[:8]
	if in.instanceBuffer, err = in.dev.CreateBuffer(fmt.Sprintf("%s-instances-%s", in.label, short)); err != nil {
		return fmt.Errorf("gpu: create %s instance buffer: %w", in.label, err)
	}
	if in.vertexBuffer, err = in.dev.CreateBuffer(fmt.Sprintf("%s-vertices-%s", in.label, short)); err != nil {
		return fmt.Errorf("gpu: create %s vertex buffer: %w", in.label, err)
	}
	if in.indexBuffer, err = in.dev.CreateBuffer(fmt.Sprintf("%s-indices-%s", in.label, short)); err != nil {
		return fmt.Errorf("gpu: create %s index buffer: %w", in.label, err)
	}

	in.dev.BindBuffer(TargetArray, in.vertexBuffer)
	err = in.dev.BufferData(TargetArray, in.mesh.VertexBytes(), UsageStatic)
	in.dev.BindBuffer(TargetArray, 0)
	if err != nil {
		return fmt.Errorf("gpu: upload %s vertices: %w", in.label, err)
	}

	in.dev.BindBuffer(TargetElementArray, in.indexBuffer)
	err = in.dev.BufferData(TargetElementArray, in.mesh.IndexBytes(), UsageStatic)
	in.dev.BindBuffer(TargetElementArray, 0)
	if err != nil {
		return fmt.Errorf("gpu: upload %s indices: %w", in.label, err)
	}
	return nil
}

func (in *Instancer[T]) releaseBuffers() {
	for _, id := range []*BufferID{&in.vertexBuffer, &in.indexBuffer, &in.instanceBuffer} {
		if *id != 0 {
			in.dev.DeleteBuffer(*id)
			*id = 0
		}
	}
}

func (in *Instancer[T]) ID() uuid.UUID            { return in.id }
func (in *Instancer[T]) Label() string            { return in.label }
func (in *Instancer[T]) Layout() *RecordLayout[T] { return in.layout }
func (in *Instancer[T]) Mesh() proxy.Mesh         { return in.mesh }
func (in *Instancer[T]) IndexCount() int          { return len(in.mesh.Indices) }
func (in *Instancer[T]) InstanceBuffer() BufferID { return in.instanceBuffer }
func (in *Instancer[T]) Buffers() (vertex, index, instance BufferID) {
	return in.vertexBuffer, in.indexBuffer, in.instanceBuffer
}

// RenderLights uploads lights as the instance buffer and draws the proxy
// mesh once per light with res bound. res must already carry the uniforms
// and textures of the lighting pass.
//
// Every attribute slot touched here is disabled and returned to a
// per-vertex divisor before RenderLights returns, error or not.
func (in *Instancer[T]) RenderLights(lights []T, res ShadingResource) error {
	if isNil(res) {
		return ErrNilShadingResource
	}
	if in.closed {
		return ErrInstancerClosed
	}

	in.scratch = in.layout.Encode(in.scratch[:0], lights)
	last := in.layout.LastLocation()
	dev := in.dev
	defer in.restoreAttributes(last)

	dev.BindBuffer(TargetArray, in.vertexBuffer)
	dev.VertexAttribPointer(0, Attribute{Components: 3, Stride: proxy.VertexStride})

	dev.BindBuffer(TargetArray, in.instanceBuffer)
	if err := dev.BufferData(TargetArray, in.scratch, UsageStream); err != nil {
		return fmt.Errorf("gpu: upload %d %s records: %w", len(lights), in.label, err)
	}
	stride := in.layout.Stride()
	for _, a := range in.layout.attributes {
		dev.VertexAttribPointer(a.Location, Attribute{Components: a.Components, Stride: stride, Offset: a.Offset})
		dev.VertexAttribDivisor(a.Location, 1)
	}
	dev.BindBuffer(TargetArray, 0)

	for loc := uint32(0); loc <= last; loc++ {
		dev.EnableVertexAttribArray(loc)
	}
	dev.BindBuffer(TargetElementArray, in.indexBuffer)

	res.Bind()
	err := dev.DrawElementsInstanced(len(in.mesh.Indices), len(lights))
	res.Unbind()
	if err != nil {
		return fmt.Errorf("gpu: draw %d %s: %w", len(lights), in.label, err)
	}
	return nil
}

func (in *Instancer[T]) restoreAttributes(last uint32) {
	in.dev.BindBuffer(TargetElementArray, 0)
	in.dev.BindBuffer(TargetArray, 0)
	for loc := uint32(0); loc <= last; loc++ {
		in.dev.DisableVertexAttribArray(loc)
	}
	for loc := uint32(FirstInstanceLocation); loc <= last; loc++ {
		in.dev.VertexAttribDivisor(loc, 0)
	}
}

// Close releases the three buffers. Further RenderLights calls fail with
// ErrInstancerClosed. Close is idempotent.
func (in *Instancer[T]) Close() {
	if in.closed {
		return
	}
	in.releaseBuffers()
	in.closed = true
	in.log.Debugf("instancer %s (%s) released", in.label, in.id)
}

func isNil(res ShadingResource) bool {
	if res == nil {
		return true
	}
	v := reflect.ValueOf(res)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
