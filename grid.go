package scanforge

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexGrid is a spatial hash over vertex positions, used for neighborhood
// queries during quality measurement. Cells map to vertex indices into the
// slice the grid was built from.
type VertexGrid struct {
	cellSize float32
	verts    []MeshVertex
	cells    map[uint64][]int
}

// NewVertexGrid buckets every vertex by position. cellSize should be on the
// order of the query radius; the grid keeps a reference to verts.
func NewVertexGrid(verts []MeshVertex, cellSize float32) *VertexGrid {
	grid := &VertexGrid{
		cellSize: cellSize,
		verts:    verts,
		cells:    make(map[uint64][]int),
	}
	for i := range verts {
		p := verts[i].Position
		key := grid.hashKey(grid.cellIndex(p.X()), grid.cellIndex(p.Y()), grid.cellIndex(p.Z()))
		grid.cells[key] = append(grid.cells[key], i)
	}
	return grid
}

// Neighbors returns the indices of vertices within radius of center,
// excluding self (pass self = -1 to keep everything).
func (grid *VertexGrid) Neighbors(center mgl32.Vec3, radius float32, self int) []int {
	minX, maxX := grid.cellIndex(center.X()-radius), grid.cellIndex(center.X()+radius)
	minY, maxY := grid.cellIndex(center.Y()-radius), grid.cellIndex(center.Y()+radius)
	minZ, maxZ := grid.cellIndex(center.Z()-radius), grid.cellIndex(center.Z()+radius)

	r2 := radius * radius
	var results []int

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				for _, idx := range grid.cells[grid.hashKey(x, y, z)] {
					if idx == self {
						continue
					}
					d := grid.verts[idx].Position.Sub(center)
					if d.Dot(d) <= r2 {
						results = append(results, idx)
					}
				}
			}
		}
	}
	return results
}

func (grid *VertexGrid) cellIndex(pos float32) int {
	return int(math.Floor(float64(pos / grid.cellSize)))
}

// Simple hash function for 3D cell coordinates
func (grid *VertexGrid) hashKey(x, y, z int) uint64 {
	const p1 = 73856093
	const p2 = 19349663
	const p3 = 83492791
	return uint64(x*p1 ^ y*p2 ^ z*p3)
}
