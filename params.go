package scanforge

import (
	"errors"
	"math"
)

var (
	ErrSpatialSigma        = errors.New("spatial sigma must be > 0")
	ErrRangeSigma          = errors.New("range sigma must be > 0")
	ErrConfidenceThreshold = errors.New("confidence threshold must be in [0,1]")
	ErrFeatureWeight       = errors.New("feature weight must be >= 0")
)

// DefaultParameters are the stock smoothing parameters, tuned for handheld
// scans at millimeter scale.
func DefaultParameters() ProcessingParameters {
	return ProcessingParameters{
		SpatialSigma:        2.0,
		RangeSigma:          0.1,
		ConfidenceThreshold: 0.5,
		FeatureWeight:       1.0,
	}
}

// Validate checks the documented ranges. Types carry no enforcement
// themselves; producers call this before handing parameters to the pipeline.
func (p ProcessingParameters) Validate() error {
	if !(p.SpatialSigma > 0) {
		return ErrSpatialSigma
	}
	if !(p.RangeSigma > 0) {
		return ErrRangeSigma
	}
	if p.ConfidenceThreshold < 0 || p.ConfidenceThreshold > 1 {
		return ErrConfidenceThreshold
	}
	if p.FeatureWeight < 0 {
		return ErrFeatureWeight
	}
	return nil
}

// AdaptiveParameters derives smoothing parameters from measured scan quality:
// the spatial kernel follows the mean sample spacing, the range kernel scales
// with measured noise, and denser/cleaner scans may demand higher confidence.
func AdaptiveParameters(q QualityMetrics) ProcessingParameters {
	p := DefaultParameters()

	if q.PointDensity > 0 {
		// Mean spacing for a uniform sampling of this density.
		spacing := float32(math.Cbrt(1 / float64(q.PointDensity)))
		p.SpatialSigma = 2 * spacing
	}

	if q.NoiseLevel > 0 {
		// More noise, wider range kernel; capped so features survive.
		p.RangeSigma = clamp(q.NoiseLevel*0.5, 0.05, 0.5)
	}

	// Complete scans can afford to drop marginal samples.
	p.ConfidenceThreshold = clamp(0.3+0.4*q.SurfaceCompleteness, 0, 1)

	// Lean harder on feature terms when past passes eroded them.
	p.FeatureWeight = clamp(2-q.FeaturePreservation, 1, 2)

	return p
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FilterByConfidence keeps the vertices whose confidence meets the threshold.
// The input slice is not modified.
func FilterByConfidence(verts []MeshVertex, threshold float32) []MeshVertex {
	kept := make([]MeshVertex, 0, len(verts))
	for i := range verts {
		if verts[i].Confidence >= threshold {
			kept = append(kept, verts[i])
		}
	}
	return kept
}
