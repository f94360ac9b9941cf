package scanforge

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadVertices() []MeshVertex {
	up := mgl32.Vec3{0, 0, 1}
	return []MeshVertex{
		NewMeshVertex(mgl32.Vec3{0, 0, 0}, up, 1),
		NewMeshVertex(mgl32.Vec3{1, 0, 0}, up, 1),
		NewMeshVertex(mgl32.Vec3{1, 1, 0}, up, 1),
		NewMeshVertex(mgl32.Vec3{0, 1, 0}, up, 1),
	}
}

func TestExportSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.stl")

	err := ExportSTL(path, quadVertices(), []uint32{0, 1, 2, 0, 2, 3})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Binary STL: 80-byte header, uint32 triangle count, 50 bytes each.
	require.GreaterOrEqual(t, len(data), 84)
	count := binary.LittleEndian.Uint32(data[80:84])
	assert.Equal(t, uint32(2), count)
	assert.Equal(t, 84+50*int(count), len(data))
}

func TestExportSTL_SkipsDegenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "degenerate.stl")

	err := ExportSTL(path, quadVertices(), []uint32{0, 1, 2, 3, 3, 3})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[80:84]))
}

func TestExportSTL_BadIndices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.stl")

	assert.Error(t, ExportSTL(path, quadVertices(), []uint32{0, 1}))
	assert.Error(t, ExportSTL(path, quadVertices(), []uint32{0, 1, 9}))
}
