package scanforge

import (
	"github.com/go-gl/mathgl/mgl32"
)

// The four types below are shared byte-for-byte with GPU kernel code:
// Go-side buffers are uploaded without any repacking, so field order and
// the blank padding fields are part of the contract. A 3-component float
// vector occupies a 16-byte slot, matching vec3<f32> in WGSL (and
// vector_float3 in Metal simd). Do not reorder fields.

// MeshVertex is a single sample on a reconstructed scan surface.
// Confidence expresses measurement certainty, expected in [0,1].
type MeshVertex struct {
	Position   mgl32.Vec3 `scanforge:"layout" format:"float3" location:"0"`
	_          float32
	Normal     mgl32.Vec3 `scanforge:"layout" format:"float3" location:"1"`
	_          float32
	Confidence float32 `scanforge:"layout" format:"float" location:"2"`
	_          [3]float32
}

// BoundingBox is an axis-aligned box. A well-formed box has
// Min[i] <= Max[i] for every component; see Valid.
type BoundingBox struct {
	Min mgl32.Vec3
	_   float32
	Max mgl32.Vec3
	_   float32
}

// QualityMetrics is an aggregate descriptor of scan quality.
// PointDensity and NoiseLevel are >= 0; SurfaceCompleteness and
// FeaturePreservation are expected in [0,1].
type QualityMetrics struct {
	PointDensity        float32
	SurfaceCompleteness float32
	NoiseLevel          float32
	FeaturePreservation float32
}

// ProcessingParameters tunes the feature-preserving smoothing stage.
type ProcessingParameters struct {
	SpatialSigma        float32
	RangeSigma          float32
	ConfidenceThreshold float32
	FeatureWeight       float32
}

// GPU-side sizes in bytes. Verified against unsafe.Sizeof in the tests.
const (
	MeshVertexSize           = 48
	BoundingBoxSize          = 32
	QualityMetricsSize       = 16
	ProcessingParametersSize = 16
)

func NewMeshVertex(position, normal mgl32.Vec3, confidence float32) MeshVertex {
	return MeshVertex{
		Position:   position,
		Normal:     normal,
		Confidence: confidence,
	}
}

func NewBoundingBox(min, max mgl32.Vec3) BoundingBox {
	return BoundingBox{Min: min, Max: max}
}
