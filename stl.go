package scanforge

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ExportSTL writes an indexed triangle mesh to a binary STL file. indices is
// a flat list of vertex indices, three per triangle. Degenerate triangles
// (repeated indices) are skipped.
func ExportSTL(path string, verts []MeshVertex, indices []uint32) error {
	if len(indices)%3 != 0 {
		return fmt.Errorf("export stl: index count %d is not a multiple of 3", len(indices))
	}

	triangles := make([]*sdf.Triangle3, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a == b || b == c || a == c {
			continue
		}
		if int(a) >= len(verts) || int(b) >= len(verts) || int(c) >= len(verts) {
			return fmt.Errorf("export stl: index out of range at triangle %d", i/3)
		}
		triangles = append(triangles, &sdf.Triangle3{
			toV3(verts[a].Position),
			toV3(verts[b].Position),
			toV3(verts[c].Position),
		})
	}

	if err := render.SaveSTL(path, triangles); err != nil {
		return fmt.Errorf("export stl: %w", err)
	}
	return nil
}

func toV3(p [3]float32) v3.Vec {
	return v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}
