package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// FirstInstanceLocation is the attribute slot of the first record field.
// Slot 0 carries the proxy mesh position.
const FirstInstanceLocation = 1

// AttributeDesc is one per-instance attribute of a record layout.
type AttributeDesc struct {
	Name       string
	Location   uint32
	Offset     int
	Components int
}

type packedField struct {
	index  int
	offset int
	floats int // 1 for a scalar, array length otherwise
}

// RecordLayout is the byte layout of record type T as the light shaders see
// it: tightly packed little-endian float32 fields in declaration order.
// It is derived from the `layout` struct tags of T and checked against the
// Go memory layout so that neither side carries hidden padding.
type RecordLayout[T any] struct {
	typeName   string
	stride     int
	attributes []AttributeDesc
	fields     []packedField
}

func NewRecordLayout[T any]() (*RecordLayout[T], error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidLayout, t)
	}

	l := &RecordLayout[T]{typeName: t.String()}
	offset, current := 0, -1
	location := uint32(FirstInstanceLocation)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("layout")
		if name == "" || name == "-" {
			return nil, fmt.Errorf("%w: %s.%s has no layout tag", ErrInvalidLayout, t, field.Name)
		}
		if !field.IsExported() {
			return nil, fmt.Errorf("%w: %s.%s is unexported", ErrInvalidLayout, t, field.Name)
		}
		if int(field.Offset) != offset {
			return nil, fmt.Errorf("%w: %s.%s at offset %d, expected %d", ErrInvalidLayout, t, field.Name, field.Offset, offset)
		}

		floats, err := fieldFloats(field.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidLayout, t, field.Name, err)
		}
		l.fields = append(l.fields, packedField{index: i, offset: offset, floats: floats})

		switch {
		case floats == 16:
			for col := 0; col < 4; col++ {
				l.attributes = append(l.attributes, AttributeDesc{
					Name:       fmt.Sprintf("%s.col%d", name, col),
					Location:   location,
					Offset:     offset + col*16,
					Components: 4,
				})
				location++
			}
			current = -1
		case current >= 0 && l.attributes[current].Name == name:
			if l.attributes[current].Components+floats > 4 {
				return nil, fmt.Errorf("%w: %s attribute %q packs more than 4 components", ErrInvalidLayout, t, name)
			}
			l.attributes[current].Components += floats
		default:
			l.attributes = append(l.attributes, AttributeDesc{
				Name:       name,
				Location:   location,
				Offset:     offset,
				Components: floats,
			})
			location++
			current = len(l.attributes) - 1
		}
		offset += floats * 4
	}

	if offset == 0 {
		return nil, fmt.Errorf("%w: %s has no fields", ErrInvalidLayout, t)
	}
	if int(t.Size()) != offset {
		return nil, fmt.Errorf("%w: %s is %d bytes but its fields pack into %d", ErrInvalidLayout, t, t.Size(), offset)
	}
	if int(location) > MaxVertexAttributes {
		return nil, fmt.Errorf("%w: %s needs %d slots", ErrTooManyAttributes, t, location)
	}
	l.stride = offset
	return l, nil
}

// MustRecordLayout is NewRecordLayout for statically known record types.
func MustRecordLayout[T any]() *RecordLayout[T] {
	l, err := NewRecordLayout[T]()
	if err != nil {
		panic(err)
	}
	return l
}

func fieldFloats(t reflect.Type) (int, error) {
	switch t.Kind() {
	case reflect.Float32:
		return 1, nil
	case reflect.Array:
		if t.Elem().Kind() != reflect.Float32 {
			return 0, fmt.Errorf("unsupported array element %s", t.Elem())
		}
		switch t.Len() {
		case 2, 3, 4, 16:
			return t.Len(), nil
		}
		return 0, fmt.Errorf("unsupported array length %d", t.Len())
	default:
		return 0, fmt.Errorf("unsupported field type %s", t)
	}
}

func (l *RecordLayout[T]) Stride() int {
	return l.stride
}

// Attributes returns the per-instance attributes in slot order.
func (l *RecordLayout[T]) Attributes() []AttributeDesc {
	return append([]AttributeDesc(nil), l.attributes...)
}

// LastLocation is the highest attribute slot the layout occupies.
func (l *RecordLayout[T]) LastLocation() uint32 {
	return uint32(FirstInstanceLocation + len(l.attributes) - 1)
}

func (l *RecordLayout[T]) String() string {
	parts := make([]string, 0, len(l.attributes))
	for _, a := range l.attributes {
		parts = append(parts, fmt.Sprintf("%d:%s@%d(%d)", a.Location, a.Name, a.Offset, a.Components))
	}
	return fmt.Sprintf("%s{stride=%d %s}", l.typeName, l.stride, strings.Join(parts, " "))
}

// Encode appends the packed records to dst.
func (l *RecordLayout[T]) Encode(dst []byte, records []T) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, len(records)*l.stride)...)
	for i := range records {
		v := reflect.ValueOf(&records[i]).Elem()
		base := start + i*l.stride
		for _, f := range l.fields {
			fv := v.Field(f.index)
			if f.floats == 1 {
				putFloat(dst[base+f.offset:], fv.Float())
				continue
			}
			for k := 0; k < f.floats; k++ {
				putFloat(dst[base+f.offset+k*4:], fv.Index(k).Float())
			}
		}
	}
	return dst
}

// Decode unpacks records previously produced by Encode.
func (l *RecordLayout[T]) Decode(data []byte) ([]T, error) {
	if len(data)%l.stride != 0 {
		return nil, fmt.Errorf("gpu: %d bytes is not a whole number of %d-byte %s records", len(data), l.stride, l.typeName)
	}
	out := make([]T, len(data)/l.stride)
	for i := range out {
		v := reflect.ValueOf(&out[i]).Elem()
		base := i * l.stride
		for _, f := range l.fields {
			fv := v.Field(f.index)
			if f.floats == 1 {
				fv.SetFloat(getFloat(data[base+f.offset:]))
				continue
			}
			for k := 0; k < f.floats; k++ {
				fv.Index(k).SetFloat(getFloat(data[base+f.offset+k*4:]))
			}
		}
	}
	return out, nil
}

func putFloat(b []byte, v float64) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
}

func getFloat(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}
