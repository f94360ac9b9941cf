package scanforge

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// threads per workgroup; kernels must use the same @workgroup_size
const kernelWorkgroupSize = 64

// VertexKernel is a caller-supplied WGSL compute shader operating on mesh
// vertices. The kernel sees three bindings in group 0:
//
//	@binding(0) var<storage, read> input: array<MeshVertex>;
//	@binding(1) var<storage, read_write> output: array<MeshVertex>;
//	@binding(2) var<uniform> params: ProcessingParameters;
//
// with the WGSL structs laid out as documented on the Go types.
type VertexKernel struct {
	Name       string
	WGSL       string
	EntryPoint string
}

// RunVertexKernel uploads verts and params, dispatches the kernel over every
// vertex and reads back the processed buffer. Blocks until the GPU finishes.
func (s *GpuSession) RunVertexKernel(kernel VertexKernel, verts []MeshVertex, params ProcessingParameters) ([]MeshVertex, error) {
	if len(verts) == 0 {
		return nil, nil
	}

	entry := kernel.EntryPoint
	if entry == "" {
		entry = "main"
	}
	pipeline := createComputePipeline(kernel.Name, kernel.WGSL, entry, s.device)
	defer pipeline.Release()

	vertexBytes := VerticesToBytes(verts)
	size := uint64(len(vertexBytes))

	inputBuf := createStorageBuffer(kernel.Name+" Input", vertexBytes, s.device, wgpu.BufferUsageCopyDst)
	defer inputBuf.Release()
	outputBuf := createStorageBuffer(kernel.Name+" Output", make([]byte, size), s.device, wgpu.BufferUsageCopySrc)
	defer outputBuf.Release()
	paramsBuf := createUniformBuffer(kernel.Name+" Params", params, s.device)
	defer paramsBuf.Release()
	readback := createReadbackBuffer(kernel.Name+" Readback", size, s.device)
	defer readback.Release()

	layout := pipeline.GetBindGroupLayout(0)
	defer layout.Release()

	bindGroup, err := s.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: inputBuf, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: outputBuf, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: paramsBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("bind group for %s: %w", kernel.Name, err)
	}
	defer bindGroup.Release()

	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("command encoder for %s: %w", kernel.Name, err)
	}
	defer encoder.Release()

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	workgroups := (uint32(len(verts)) + kernelWorkgroupSize - 1) / kernelWorkgroupSize
	pass.DispatchWorkgroups(workgroups, 1, 1)
	pass.End()

	encoder.CopyBufferToBuffer(outputBuf, 0, readback, 0, size)

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish encoder for %s: %w", kernel.Name, err)
	}
	s.queue.Submit(cmdBuf)
	cmdBuf.Release()

	var mapped bool
	var mapStatus wgpu.BufferMapAsyncStatus
	readback.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		mapStatus = status
		mapped = true
	})
	for !mapped {
		s.device.Poll(true, nil)
	}
	if mapStatus != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("readback map failed for %s: status %d", kernel.Name, mapStatus)
	}
	defer readback.Unmap()

	return VerticesFromBytes(readback.GetMappedRange(0, uint(size))), nil
}
