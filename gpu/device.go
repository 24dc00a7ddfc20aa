// Package gpu batches light volumes into instanced draws.
//
// The Device interface is the slice of a graphics API the instancers need:
// buffer objects, vertex attribute pointers with per-instance divisors and
// an indexed instanced draw. glbackend and wgpubackend implement it for
// real GPUs; HeadlessDevice records the same calls in memory.
package gpu

import "errors"

// BufferID is a device-scoped buffer handle. Zero means "no buffer".
type BufferID uint32

type Target uint32

const (
	TargetArray Target = iota
	TargetElementArray
)

func (t Target) String() string {
	if t == TargetElementArray {
		return "element-array"
	}
	return "array"
}

type Usage uint32

const (
	UsageStatic Usage = iota
	UsageDynamic
	UsageStream
)

// MaxVertexAttributes is the attribute slot count every backend guarantees.
const MaxVertexAttributes = 16

// Attribute describes a float vertex attribute read from the buffer bound
// to TargetArray when VertexAttribPointer is called.
type Attribute struct {
	Components int // 1..4 float32 components
	Stride     int // bytes between consecutive elements
	Offset     int // byte offset of the first element
}

type Device interface {
	CreateBuffer(label string) (BufferID, error)
	DeleteBuffer(id BufferID)
	BindBuffer(target Target, id BufferID)
	// BufferData replaces the whole content of the buffer bound to target.
	BufferData(target Target, data []byte, usage Usage) error

	VertexAttribPointer(location uint32, attr Attribute)
	VertexAttribDivisor(location uint32, divisor uint32)
	EnableVertexAttribArray(location uint32)
	DisableVertexAttribArray(location uint32)

	// DrawElementsInstanced draws indexCount uint32 indices from the bound
	// element buffer, instanceCount times, with the bound shading resource.
	DrawElementsInstanced(indexCount, instanceCount int) error
}

// ShadingResource is a scoped shader binding. Callers configure uniforms
// and textures before handing it to an instancer; the instancer only
// brackets its draw with Bind and Unbind.
type ShadingResource interface {
	Bind()
	Unbind()
}

var (
	ErrNilShadingResource = errors.New("gpu: nil shading resource")
	ErrNoShadingBound     = errors.New("gpu: draw without a bound shading resource")
	ErrInstancerClosed    = errors.New("gpu: instancer is closed")
	ErrTooManyAttributes  = errors.New("gpu: record layout exceeds vertex attribute slots")
	ErrInvalidLayout      = errors.New("gpu: invalid record layout")
	ErrUnknownBuffer      = errors.New("gpu: unknown buffer")
)
