package scanforge

import (
	"math"
	"reflect"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The GPU kernels read these structs byte-for-byte, so sizes and field
// offsets are contract, not implementation detail.
func TestGpuLayout_Sizes(t *testing.T) {
	assert.Equal(t, uintptr(MeshVertexSize), unsafe.Sizeof(MeshVertex{}))
	assert.Equal(t, uintptr(BoundingBoxSize), unsafe.Sizeof(BoundingBox{}))
	assert.Equal(t, uintptr(QualityMetricsSize), unsafe.Sizeof(QualityMetrics{}))
	assert.Equal(t, uintptr(ProcessingParametersSize), unsafe.Sizeof(ProcessingParameters{}))
}

func TestGpuLayout_Offsets(t *testing.T) {
	var v MeshVertex
	assert.Equal(t, uintptr(0), unsafe.Offsetof(v.Position))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(v.Normal))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(v.Confidence))

	var b BoundingBox
	assert.Equal(t, uintptr(0), unsafe.Offsetof(b.Min))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(b.Max))
}

func TestGpuLayout_FieldOrder(t *testing.T) {
	cases := []struct {
		value  any
		fields []string
	}{
		{MeshVertex{}, []string{"Position", "Normal", "Confidence"}},
		{BoundingBox{}, []string{"Min", "Max"}},
		{QualityMetrics{}, []string{"PointDensity", "SurfaceCompleteness", "NoiseLevel", "FeaturePreservation"}},
		{ProcessingParameters{}, []string{"SpatialSigma", "RangeSigma", "ConfidenceThreshold", "FeatureWeight"}},
	}

	for _, c := range cases {
		st := reflect.TypeOf(c.value)
		var named []string
		for i := 0; i < st.NumField(); i++ {
			if st.Field(i).Name != "_" {
				named = append(named, st.Field(i).Name)
			}
		}
		if !reflect.DeepEqual(named, c.fields) {
			t.Errorf("%s: field order %v, want %v", st.Name(), named, c.fields)
		}
	}
}

func TestBoundingBox_ComponentAccess(t *testing.T) {
	b := NewBoundingBox(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	if b.Min.X() != 0 {
		t.Errorf("Min.X = %v, want 0", b.Min.X())
	}
	if b.Max.X() != 1 {
		t.Errorf("Max.X = %v, want 1", b.Max.X())
	}
	assert.True(t, b.Valid())
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	in := NewMeshVertex(
		mgl32.Vec3{1.5, -2.25, 3.75},
		mgl32.Vec3{0, 0.70710678, -0.70710678},
		0.875,
	)

	data := EncodeBuffer(in)
	require.Len(t, data, MeshVertexSize)

	var out MeshVertex
	require.NoError(t, DecodeBuffer(data, &out))

	for i := 0; i < 3; i++ {
		assert.Equal(t, math.Float32bits(in.Position[i]), math.Float32bits(out.Position[i]))
		assert.Equal(t, math.Float32bits(in.Normal[i]), math.Float32bits(out.Normal[i]))
	}
	assert.Equal(t, math.Float32bits(in.Confidence), math.Float32bits(out.Confidence))
}

func TestEncodeDecode_Params(t *testing.T) {
	in := ProcessingParameters{
		SpatialSigma:        2.5,
		RangeSigma:          0.125,
		ConfidenceThreshold: 0.5,
		FeatureWeight:       1.75,
	}
	data := EncodeBuffer(in)
	require.Len(t, data, ProcessingParametersSize)

	var out ProcessingParameters
	require.NoError(t, DecodeBuffer(data, &out))
	assert.Equal(t, in, out)
}
