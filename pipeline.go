package scanforge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Pipeline runs the CPU-side scan processing stages in order: confidence
// filtering, bounds, quality measurement, adaptive parameter selection and,
// when a GPU session and kernel are configured, the smoothing dispatch.
// Store and Gpu are optional; a nil Store skips persistence and a nil Gpu
// skips the kernel stage.
type Pipeline struct {
	Log    Logger
	Params ProcessingParameters
	Store  *ScanStore
	Gpu    *GpuSession
	Kernel *VertexKernel

	// Adaptive re-derives Params from the measured quality of each scan.
	Adaptive bool
}

// ScanResult is everything Process produced for one capture.
type ScanResult struct {
	Scan     ScanRecord
	Vertices []MeshVertex
	Bounds   BoundingBox
	Quality  QualityMetrics
	Params   ProcessingParameters
}

func NewPipeline(log Logger) *Pipeline {
	if log == nil {
		log = NewNopLogger()
	}
	return &Pipeline{
		Log:    log,
		Params: DefaultParameters(),
	}
}

// Process runs the configured stages over one captured vertex set.
func (p *Pipeline) Process(ctx context.Context, label string, verts []MeshVertex) (*ScanResult, error) {
	params := p.Params
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("process %q: %w", label, err)
	}

	kept := FilterByConfidence(verts, params.ConfidenceThreshold)
	p.Log.Debugf("scan %q: %d/%d vertices above confidence %.2f",
		label, len(kept), len(verts), params.ConfidenceThreshold)

	bounds := ComputeBounds(kept)
	quality := MeasureQuality(kept, bounds)
	p.Log.Infof("scan %q: density=%.3f completeness=%.2f noise=%.3f",
		label, quality.PointDensity, quality.SurfaceCompleteness, quality.NoiseLevel)

	if p.Adaptive {
		params = AdaptiveParameters(quality)
		p.Log.Debugf("scan %q: adaptive params spatial=%.3f range=%.3f",
			label, params.SpatialSigma, params.RangeSigma)
	}

	processed := kept
	if p.Gpu != nil && p.Kernel != nil && len(kept) > 0 {
		out, err := p.Gpu.RunVertexKernel(*p.Kernel, kept, params)
		if err != nil {
			return nil, fmt.Errorf("process %q: %w", label, err)
		}
		processed = out
		quality.FeaturePreservation = ComparePreservation(kept, processed)
		p.Log.Infof("scan %q: kernel %s done, feature preservation %.2f",
			label, p.Kernel.Name, quality.FeaturePreservation)
	}

	result := &ScanResult{
		Scan: ScanRecord{
			ID:          uuid.New(),
			Label:       label,
			CapturedAt:  time.Now(),
			VertexCount: len(processed),
			Bounds:      bounds,
		},
		Vertices: processed,
		Bounds:   bounds,
		Quality:  quality,
		Params:   params,
	}

	if p.Store != nil {
		if err := p.Store.SaveScan(ctx, result.Scan); err != nil {
			return nil, fmt.Errorf("process %q: %w", label, err)
		}
		if err := p.Store.RecordQuality(ctx, result.Scan.ID, quality); err != nil {
			return nil, fmt.Errorf("process %q: %w", label, err)
		}
	}
	return result, nil
}
