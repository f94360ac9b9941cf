package scanforge

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestVertexGrid_Neighbors(t *testing.T) {
	verts := []MeshVertex{
		NewMeshVertex(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, 1),
		NewMeshVertex(mgl32.Vec3{0.5, 0, 0}, mgl32.Vec3{0, 0, 1}, 1),
		NewMeshVertex(mgl32.Vec3{10, 10, 10}, mgl32.Vec3{0, 0, 1}, 1),
	}

	grid := NewVertexGrid(verts, 2.0)

	near := grid.Neighbors(verts[0].Position, 1.0, 0)
	if len(near) != 1 || near[0] != 1 {
		t.Errorf("expected only vertex 1 near the origin, got %v", near)
	}

	// Self is excluded when its index is passed.
	withSelf := grid.Neighbors(verts[0].Position, 1.0, -1)
	if len(withSelf) != 2 {
		t.Errorf("expected 2 hits including self, got %v", withSelf)
	}

	far := grid.Neighbors(verts[2].Position, 1.0, 2)
	if len(far) != 0 {
		t.Errorf("expected no neighbors at the far vertex, got %v", far)
	}
}

func TestVertexGrid_RadiusIsExact(t *testing.T) {
	// Both vertices hash near each other, but only one is inside the radius.
	verts := []MeshVertex{
		NewMeshVertex(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, 1),
		NewMeshVertex(mgl32.Vec3{0.4, 0, 0}, mgl32.Vec3{0, 0, 1}, 1),
		NewMeshVertex(mgl32.Vec3{0.9, 0, 0}, mgl32.Vec3{0, 0, 1}, 1),
	}
	grid := NewVertexGrid(verts, 1.0)

	hits := grid.Neighbors(verts[0].Position, 0.5, 0)
	if len(hits) != 1 || hits[0] != 1 {
		t.Errorf("expected exact radius filtering, got %v", hits)
	}
}
