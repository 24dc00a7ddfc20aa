package shaders

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/gekko3d/lightvol/gpu"
	"github.com/gekko3d/lightvol/light"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	glslInput = regexp.MustCompile(`layout\(location = (\d+)\) in (\w+)`)
	wgslInput = regexp.MustCompile(`@location\((\d+)\) \w+: (vec[234]<f32>|f32)`)
)

// vertexInputs maps location to component count for the vertex stage
// inputs of a shader. WGSL inputs are read from the VertexInput struct only.
func vertexInputs(t *testing.T, src string, wgsl bool) map[uint32]int {
	t.Helper()
	re := glslInput
	if wgsl {
		start := regexp.MustCompile(`struct VertexInput \{`).FindStringIndex(src)
		require.NotNil(t, start)
		end := regexp.MustCompile(`\};`).FindStringIndex(src[start[1]:])
		require.NotNil(t, end)
		src = src[start[1] : start[1]+end[0]]
		re = wgslInput
	}
	out := make(map[uint32]int)
	for _, m := range re.FindAllStringSubmatch(src, -1) {
		loc, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		out[uint32(loc)] = components(m[2])
	}
	return out
}

func components(typ string) int {
	switch typ {
	case "float", "f32":
		return 1
	case "vec2", "vec2<f32>":
		return 2
	case "vec3", "vec3<f32>":
		return 3
	default:
		return 4
	}
}

func expectedInputs(attrs []gpu.AttributeDesc) map[uint32]int {
	want := map[uint32]int{0: 3}
	for _, a := range attrs {
		want[a.Location] = a.Components
	}
	return want
}

func TestShaderInputsMatchRecordLayouts(t *testing.T) {
	point := expectedInputs(gpu.MustRecordLayout[light.Point]().Attributes())
	spot := expectedInputs(gpu.MustRecordLayout[light.Spot]().Attributes())

	cases := []struct {
		name string
		src  string
		wgsl bool
		want map[uint32]int
	}{
		{"point glsl", PointLightVert, false, point},
		{"spot glsl", SpotLightVert, false, spot},
		{"point wgsl", PointLightWGSL, true, point},
		{"spot wgsl", SpotLightWGSL, true, spot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, vertexInputs(t, tc.src, tc.wgsl))
		})
	}
}

func TestShadersDeclareUniforms(t *testing.T) {
	for _, src := range []string{PointLightVert + PointLightFrag, SpotLightVert + SpotLightFrag, PointLightWGSL, SpotLightWGSL} {
		for _, name := range []string{CameraView, CameraWorld, ProjectionA, ProjectionB} {
			assert.Contains(t, src, name)
		}
	}
}
