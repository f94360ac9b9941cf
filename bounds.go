package scanforge

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// EmptyBounds returns the identity element for Union: an invalid box that
// any point extends.
func EmptyBounds() BoundingBox {
	inf := float32(math.Inf(1))
	return BoundingBox{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// ComputeBounds returns the minimal axis-aligned box containing every vertex
// position. An empty slice yields an invalid box (see Valid).
func ComputeBounds(verts []MeshVertex) BoundingBox {
	b := EmptyBounds()
	for i := range verts {
		b = b.ExtendPoint(verts[i].Position)
	}
	return b
}

func (b BoundingBox) ExtendPoint(p mgl32.Vec3) BoundingBox {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Valid reports whether every component of Min is <= the corresponding
// component of Max.
func (b BoundingBox) Valid() bool {
	for i := 0; i < 3; i++ {
		if b.Min[i] > b.Max[i] {
			return false
		}
	}
	return true
}

func (b BoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b BoundingBox) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b BoundingBox) Volume() float32 {
	if !b.Valid() {
		return 0
	}
	s := b.Size()
	return s.X() * s.Y() * s.Z()
}

func (b BoundingBox) Contains(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return b.ExtendPoint(o.Min).ExtendPoint(o.Max)
}

// Expand grows the box by margin on every side.
func (b BoundingBox) Expand(margin float32) BoundingBox {
	m := mgl32.Vec3{margin, margin, margin}
	return BoundingBox{
		Min: b.Min.Sub(m),
		Max: b.Max.Add(m),
	}
}
