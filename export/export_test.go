package export

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/skyforge/wingen/mesh"
)

func tetra() *mesh.WingMesh {
	return &mesh.WingMesh{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
		Faces: [][3]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {2, 0, 3}},
	}
}

func TestGLB(t *testing.T) {
	data, err := GLB(tetra())
	require.NoError(t, err)
	// Binary glTF container: magic "glTF", version 2, total length
	require.Greater(t, len(data), 12)
	assert.Equal(t, "glTF", string(data[0:4]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, uint32(len(data)), binary.LittleEndian.Uint32(data[8:12]))
}

func TestSTL(t *testing.T) {
	wm := tetra()
	data, err := STL(wm)
	require.NoError(t, err)
	// 80-byte header + uint32 count + 50 bytes per triangle
	require.Equal(t, 84+50*len(wm.Faces), len(data))
	assert.Equal(t, uint32(len(wm.Faces)), binary.LittleEndian.Uint32(data[80:84]))
}

func TestEncodeDeterminism(t *testing.T) {
	for _, f := range []Format{FormatGLB, FormatSTL} {
		a, err := Encode(f, tetra())
		require.NoError(t, err)
		b, err := Encode(f, tetra())
		require.NoError(t, err)
		assert.Equal(t, a, b, "format %s", f)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatGLB, f)
	f, err = ParseFormat("stl")
	require.NoError(t, err)
	assert.Equal(t, ".stl", f.Ext())
	_, err = ParseFormat("obj")
	assert.Error(t, err)
}
