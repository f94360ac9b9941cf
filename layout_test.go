package scanforge

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexLayout_MeshVertex(t *testing.T) {
	layout := VertexLayout(MeshVertex{})

	assert.Equal(t, uint64(MeshVertexSize), layout.ArrayStride)
	require.Len(t, layout.Attributes, 3)

	assert.Equal(t, uint64(0), layout.Attributes[0].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout.Attributes[0].Format)
	assert.Equal(t, uint32(0), layout.Attributes[0].ShaderLocation)

	assert.Equal(t, uint64(16), layout.Attributes[1].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layout.Attributes[1].Format)

	assert.Equal(t, uint64(32), layout.Attributes[2].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32, layout.Attributes[2].Format)
}

func TestEncodeBuffer_PaddingIsZero(t *testing.T) {
	v := NewMeshVertex(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 1, 0}, 0.5)
	data := EncodeBuffer(v)
	require.Len(t, data, MeshVertexSize)

	// Padding slots: bytes 12..16, 28..32, 36..48.
	for _, i := range []int{12, 13, 14, 15, 28, 29, 30, 31} {
		assert.Zero(t, data[i], "byte %d", i)
	}
	for i := 36; i < 48; i++ {
		assert.Zero(t, data[i], "byte %d", i)
	}

	// Scalars land little-endian at their GPU offsets.
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, math.Float32bits(3), binary.LittleEndian.Uint32(data[8:12]))
	assert.Equal(t, math.Float32bits(0.5), binary.LittleEndian.Uint32(data[32:36]))
}

func TestVerticesToBytes_RoundTrip(t *testing.T) {
	verts := []MeshVertex{
		NewMeshVertex(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 0, 1}, 1),
		NewMeshVertex(mgl32.Vec3{-4, 5, -6}, mgl32.Vec3{1, 0, 0}, 0.25),
	}

	data := VerticesToBytes(verts)
	require.Len(t, data, 2*MeshVertexSize)

	back := VerticesFromBytes(data)
	require.Len(t, back, 2)
	assert.Equal(t, verts, back)
}

func TestVerticesToBytes_MatchesEncoder(t *testing.T) {
	v := NewMeshVertex(mgl32.Vec3{7, 8, 9}, mgl32.Vec3{0, 1, 0}, 0.75)

	// Zero-copy view and the reflect encoder must agree on the layout.
	assert.Equal(t, EncodeBuffer(v), VerticesToBytes([]MeshVertex{v}))
}

func TestVerticesToBytes_Empty(t *testing.T) {
	if VerticesToBytes(nil) != nil {
		t.Error("expected nil bytes for empty slice")
	}
	if VerticesFromBytes(nil) != nil {
		t.Error("expected nil vertices for empty bytes")
	}
}
