package proxy

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Triangle(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	mesh, err := Parse(strings.NewReader(src), nil)
	require.NoError(t, err)

	assert.Equal(t, []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, mesh.Vertices)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	assert.NoError(t, mesh.Validate())
}

func TestParse_IgnoresOtherLines(t *testing.T) {
	src := strings.Join([]string{
		"# cone",
		"o Cone",
		"",
		"v 0 0 0\r",
		"vn 0 0 1",
		"vt 0.5 0.5",
		"v 1 0 1",
		"v 0 1 1",
		"s off",
		"f 1 2 3",
		"f 3 2 1",
	}, "\n")
	mesh, err := Parse(strings.NewReader(src), nil)
	require.NoError(t, err)
	assert.Len(t, mesh.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2, 2, 1, 0}, mesh.Indices)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"short vertex", "v 1 2\n", 1},
		{"long vertex", "v 1 2 3 4\n", 1},
		{"bad coordinate", "v 1 x 3\n", 1},
		{"nan coordinate", "v NaN 0 0\n", 1},
		{"infinite coordinate", "v 0 0 0\nv 0 -inf 0\n", 2},
		{"overflowing coordinate", "v 1e39 0 0\n", 1},
		{"quad face", "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nf 1 2 3 4\n", 5},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", 3},
		{"slashed index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/2 3/3\n", 4},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", 4},
		{"negative index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -1 1 2\n", 4},
		{"face before vertices", "f 1 2 3\nv 0 0 0\nv 1 0 0\nv 0 1 0\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := Parse(strings.NewReader(tt.src), nil)
			require.Error(t, err)
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Line)
			assert.Empty(t, mesh.Vertices)
			assert.Empty(t, mesh.Indices)
		})
	}
}

func TestParse_Deterministic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, Sphere(6, 10), "sphere"))

	a, err := Parse(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	b, err := Parse(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoad_MissingFile(t *testing.T) {
	mesh := Load(filepath.Join(t.TempDir(), "missing.obj"), nil)
	assert.Empty(t, mesh.Vertices)
	assert.Empty(t, mesh.Indices)
	assert.True(t, mesh.Empty())

	_, err := Open(filepath.Join(t.TempDir(), "missing.obj"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MalformedFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.obj")
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\nf 1 2 3\n"), 0o644))

	assert.True(t, Load(path, nil).Empty())

	_, err := Open(path, nil)
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_ShippedAssets(t *testing.T) {
	for _, tt := range []struct {
		path  string
		shape Shape
	}{
		{"../assets/sphere.obj", ShapeSphere},
		{"../assets/cone.obj", ShapeCone},
	} {
		t.Run(tt.shape.String(), func(t *testing.T) {
			loaded, err := Open(tt.path, nil)
			require.NoError(t, err)
			require.NoError(t, loaded.Validate())

			want := Procedural(tt.shape)
			require.Len(t, loaded.Vertices, len(want.Vertices))
			assert.Equal(t, want.Indices, loaded.Indices)
			for i := range want.Vertices {
				assert.True(t, want.Vertices[i].ApproxEqualThreshold(loaded.Vertices[i], 1e-5), "vertex %d", i)
			}
		})
	}
}
