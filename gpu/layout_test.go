package gpu

import (
	"errors"
	"testing"

	"github.com/gekko3d/lightvol/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLayout_Point(t *testing.T) {
	l, err := NewRecordLayout[light.Point]()
	require.NoError(t, err)

	assert.Equal(t, light.PointSize, l.Stride())
	assert.Equal(t, []AttributeDesc{
		{Name: "position", Location: 1, Offset: 0, Components: 3},
		{Name: "radius", Location: 2, Offset: 12, Components: 1},
		{Name: "attenuation", Location: 3, Offset: 16, Components: 4},
		{Name: "color", Location: 4, Offset: 32, Components: 4},
	}, l.Attributes())
	assert.Equal(t, uint32(4), l.LastLocation())
}

func TestRecordLayout_Spot(t *testing.T) {
	l, err := NewRecordLayout[light.Spot]()
	require.NoError(t, err)

	assert.Equal(t, light.SpotSize, l.Stride())
	assert.Equal(t, []AttributeDesc{
		{Name: "world.col0", Location: 1, Offset: 0, Components: 4},
		{Name: "world.col1", Location: 2, Offset: 16, Components: 4},
		{Name: "world.col2", Location: 3, Offset: 32, Components: 4},
		{Name: "world.col3", Location: 4, Offset: 48, Components: 4},
		{Name: "attenuation", Location: 5, Offset: 64, Components: 4},
		{Name: "color", Location: 6, Offset: 80, Components: 4},
		{Name: "cone", Location: 7, Offset: 96, Components: 3},
	}, l.Attributes())
	assert.Equal(t, uint32(7), l.LastLocation())
	assert.Contains(t, l.String(), "7:cone@96(3)")
}

func TestRecordLayout_AttributesIsACopy(t *testing.T) {
	l := MustRecordLayout[light.Point]()
	attrs := l.Attributes()
	attrs[0].Offset = 99
	assert.Equal(t, 0, l.Attributes()[0].Offset)
}

type (
	untagged struct {
		A float32
	}
	wrongType struct {
		A int32 `layout:"a"`
	}
	wideMerge struct {
		A mgl32.Vec3 `layout:"a"`
		B mgl32.Vec2 `layout:"a"`
	}
	hidden struct {
		a float32 `layout:"a"`
	}
	tooMany struct {
		A mgl32.Mat4 `layout:"a"`
		B mgl32.Mat4 `layout:"b"`
		C mgl32.Mat4 `layout:"c"`
		D mgl32.Mat4 `layout:"d"`
	}
	empty struct{}
)

func TestRecordLayout_Rejects(t *testing.T) {
	_, err := NewRecordLayout[untagged]()
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = NewRecordLayout[wrongType]()
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = NewRecordLayout[wideMerge]()
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = NewRecordLayout[hidden]()
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = NewRecordLayout[empty]()
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = NewRecordLayout[float32]()
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = NewRecordLayout[tooMany]()
	assert.True(t, errors.Is(err, ErrTooManyAttributes), "got %v", err)

	assert.Panics(t, func() { MustRecordLayout[untagged]() })
}

func TestRecordLayout_EncodePoint(t *testing.T) {
	l := MustRecordLayout[light.Point]()
	p := light.NewPoint(mgl32.Vec3{1, 2, 3}, 5, mgl32.Vec4{1, 0, 0, 1}, mgl32.Vec4{0, 1, 0, 1})

	data := l.Encode(nil, []light.Point{p})
	require.Len(t, data, light.PointSize)

	want := []float32{1, 2, 3, 5, 1, 0, 0, 1, 0, 1, 0, 1}
	for i, f := range want {
		assert.Equal(t, f, getFloat32(data[i*4:]), "float %d", i)
	}

	back, err := l.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []light.Point{p}, back)
}

func TestRecordLayout_EncodeSpot(t *testing.T) {
	l := MustRecordLayout[light.Spot]()
	world := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DX(0.5))
	s := light.NewSpot(world, mgl32.Vec4{3, 1, 0, 0.25}, mgl32.Vec4{0.2, 0.8, 0, 1}, 20, 0.4, 16)

	data := l.Encode([]byte{0xAA}, []light.Spot{s, s})
	require.Len(t, data, 1+2*light.SpotSize)
	assert.Equal(t, byte(0xAA), data[0], "Encode appends")

	rec := data[1+light.SpotSize:]
	for i := 0; i < 16; i++ {
		assert.Equal(t, world[i], getFloat32(rec[i*4:]))
	}
	assert.Equal(t, float32(20), getFloat32(rec[96:]))
	assert.Equal(t, float32(0.4), getFloat32(rec[100:]))
	assert.Equal(t, float32(16), getFloat32(rec[104:]))

	back, err := l.Decode(data[1:])
	require.NoError(t, err)
	assert.Equal(t, []light.Spot{s, s}, back)
}

func TestRecordLayout_DecodeRejectsPartialRecord(t *testing.T) {
	l := MustRecordLayout[light.Point]()
	_, err := l.Decode(make([]byte, light.PointSize+1))
	assert.Error(t, err)

	out, err := l.Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func getFloat32(b []byte) float32 {
	return float32(getFloat(b))
}
