// Package proxy loads and builds the low-poly meshes used as rasterization
// bounds for light volumes.
package proxy

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	VertexStride = 12 // one mgl32.Vec3 position
	IndexSize    = 4  // uint32 indices
)

// Mesh is an indexed triangle list. It is built once and never mutated by
// the instancers that own it.
type Mesh struct {
	Vertices []mgl32.Vec3
	Indices  []uint32
}

func (m Mesh) Empty() bool {
	return len(m.Indices) == 0
}

func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks the triangle-list invariants: whole triangles only and
// every index addressing an existing vertex.
func (m Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d at position %d out of range (%d vertices)", idx, i, len(m.Vertices))
		}
	}
	return nil
}

// VertexBytes packs the positions as tightly packed little-endian float32 triples.
func (m Mesh) VertexBytes() []byte {
	buf := make([]byte, len(m.Vertices)*VertexStride)
	for i, v := range m.Vertices {
		off := i * VertexStride
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v[1]))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(v[2]))
	}
	return buf
}

func (m Mesh) IndexBytes() []byte {
	buf := make([]byte, len(m.Indices)*IndexSize)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*IndexSize:], idx)
	}
	return buf
}
