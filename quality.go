package scanforge

import (
	"math"
)

// Coverage grid resolution per axis for the completeness estimate.
const coverageCells = 16

// curvature (radians) above which a vertex counts as a surface feature
const featureAngle = 0.35

// MeasureQuality computes an aggregate quality descriptor for a vertex set.
// FeaturePreservation is 1 at measurement time; use ComparePreservation after
// a filtering pass to refine it.
func MeasureQuality(verts []MeshVertex, bounds BoundingBox) QualityMetrics {
	q := QualityMetrics{FeaturePreservation: 1}
	if len(verts) == 0 || !bounds.Valid() {
		return q
	}

	if vol := bounds.Volume(); vol > 0 {
		q.PointDensity = float32(len(verts)) / vol
	}
	q.SurfaceCompleteness = surfaceCompleteness(verts, bounds)

	grid := NewVertexGrid(verts, neighborRadius(verts, bounds))
	q.NoiseLevel = noiseLevel(verts, grid, bounds)
	return q
}

// neighborRadius estimates a query radius from the mean sample spacing.
func neighborRadius(verts []MeshVertex, bounds BoundingBox) float32 {
	vol := bounds.Volume()
	if vol <= 0 {
		// Degenerate (flat or linear) extent; fall back to the largest side.
		s := bounds.Size()
		side := math.Max(float64(s.X()), math.Max(float64(s.Y()), float64(s.Z())))
		if side <= 0 {
			return 1
		}
		return 2 * float32(side) / float32(math.Sqrt(float64(len(verts))))
	}
	spacing := math.Cbrt(float64(vol) / float64(len(verts)))
	return 2 * float32(spacing)
}

// surfaceCompleteness rasterizes positions into a coarse grid over the
// bounding box and compares occupied cells against the cell count a surface
// spanning the box would touch (one face worth of cells). Clamped to [0,1].
func surfaceCompleteness(verts []MeshVertex, bounds BoundingBox) float32 {
	size := bounds.Size()
	occupied := make(map[uint32]struct{})

	for i := range verts {
		rel := verts[i].Position.Sub(bounds.Min)
		var cx, cy, cz uint32
		if size.X() > 0 {
			cx = cellOf(rel.X() / size.X())
		}
		if size.Y() > 0 {
			cy = cellOf(rel.Y() / size.Y())
		}
		if size.Z() > 0 {
			cz = cellOf(rel.Z() / size.Z())
		}
		occupied[cx|cy<<8|cz<<16] = struct{}{}
	}

	expected := float32(coverageCells * coverageCells)
	c := float32(len(occupied)) / expected
	if c > 1 {
		c = 1
	}
	return c
}

func cellOf(t float32) uint32 {
	c := int(t * coverageCells)
	if c < 0 {
		c = 0
	}
	if c >= coverageCells {
		c = coverageCells - 1
	}
	return uint32(c)
}

// noiseLevel is the mean angular deviation (radians) of each vertex normal
// from the average normal of its spatial neighborhood. A perfectly smooth,
// consistently oriented patch measures 0.
func noiseLevel(verts []MeshVertex, grid *VertexGrid, bounds BoundingBox) float32 {
	radius := neighborRadius(verts, bounds)
	var sum float64
	var counted int

	for i := range verts {
		neighbors := grid.Neighbors(verts[i].Position, radius, i)
		if len(neighbors) == 0 {
			continue
		}
		sum += float64(normalDeviation(verts, i, neighbors))
		counted++
	}
	if counted == 0 {
		return 0
	}
	return float32(sum / float64(counted))
}

// normalDeviation returns the angle between vertex i's normal and the mean
// normal of its neighbors.
func normalDeviation(verts []MeshVertex, i int, neighbors []int) float32 {
	var mean [3]float32
	for _, n := range neighbors {
		nn := verts[n].Normal
		mean[0] += nn.X()
		mean[1] += nn.Y()
		mean[2] += nn.Z()
	}
	length := float32(math.Sqrt(float64(mean[0]*mean[0] + mean[1]*mean[1] + mean[2]*mean[2])))
	if length == 0 {
		return 0
	}

	n := verts[i].Normal
	dot := (n.X()*mean[0] + n.Y()*mean[1] + n.Z()*mean[2]) / length
	if dot > 1 {
		dot = 1
	}
	if dot < -1 {
		dot = -1
	}
	return float32(math.Acos(float64(dot)))
}

// ComparePreservation scores how well a filtering pass kept surface features:
// the confidence-weighted mean normal agreement at feature vertices of the
// input. Returns 1 when after is unchanged and there are no features to
// destroy; 0 when every feature normal was inverted.
func ComparePreservation(before, after []MeshVertex) float32 {
	if len(before) == 0 || len(before) != len(after) {
		return 0
	}

	bounds := ComputeBounds(before)
	grid := NewVertexGrid(before, neighborRadius(before, bounds))
	radius := neighborRadius(before, bounds)

	var weighted, weight float64
	for i := range before {
		neighbors := grid.Neighbors(before[i].Position, radius, i)
		if len(neighbors) == 0 {
			continue
		}
		if normalDeviation(before, i, neighbors) < featureAngle {
			continue
		}
		w := float64(before[i].Confidence)
		if w <= 0 {
			continue
		}
		agreement := float64(before[i].Normal.Dot(after[i].Normal))
		// Map [-1,1] agreement to [0,1].
		weighted += w * (agreement + 1) / 2
		weight += w
	}
	if weight == 0 {
		// Featureless surface: nothing to lose.
		return 1
	}
	return float32(weighted / weight)
}
