package scanforge

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestComputeBounds(t *testing.T) {
	verts := []MeshVertex{
		NewMeshVertex(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, 1),
		NewMeshVertex(mgl32.Vec3{1, -2, 3}, mgl32.Vec3{0, 0, 1}, 1),
		NewMeshVertex(mgl32.Vec3{-1, 2, 1}, mgl32.Vec3{0, 0, 1}, 1),
	}

	b := ComputeBounds(verts)
	assert.True(t, b.Valid())
	assert.Equal(t, mgl32.Vec3{-1, -2, 0}, b.Min)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, b.Max)
}

func TestComputeBounds_Empty(t *testing.T) {
	b := ComputeBounds(nil)
	if b.Valid() {
		t.Error("empty bounds should be invalid")
	}
	assert.Zero(t, b.Volume())
}

func TestBoundingBox_Ops(t *testing.T) {
	b := NewBoundingBox(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 2, 2})

	assert.Equal(t, mgl32.Vec3{1, 1, 1}, b.Center())
	assert.Equal(t, float32(8), b.Volume())
	assert.True(t, b.Contains(mgl32.Vec3{1, 2, 0.5}))
	assert.False(t, b.Contains(mgl32.Vec3{3, 1, 1}))

	other := NewBoundingBox(mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{1, 1, 4})
	u := b.Union(other)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, u.Min)
	assert.Equal(t, mgl32.Vec3{2, 2, 4}, u.Max)

	e := b.Expand(0.5)
	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, -0.5}, e.Min)
	assert.Equal(t, mgl32.Vec3{2.5, 2.5, 2.5}, e.Max)
}

func TestBoundingBox_UnionWithEmpty(t *testing.T) {
	b := NewBoundingBox(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	u := EmptyBounds().Union(b)
	assert.Equal(t, b.Min, u.Min)
	assert.Equal(t, b.Max, u.Max)
}
