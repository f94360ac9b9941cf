package scanforge

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// GpuSession owns the headless device and queue the processing kernels run
// on. No surface or swapchain is configured; the session is compute-only.
type GpuSession struct {
	adapter *wgpu.Adapter
	device  *wgpu.Device
	queue   *wgpu.Queue
}

func NewGpuSession() *GpuSession {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	// finds a suitable GPU (discrete GPU preferred)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	// allocates the device and command queue
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Scan Processing Device",
		RequiredFeatures: nil,
		RequiredLimits:   nil,
	})
	if err != nil {
		panic(err)
	}

	return &GpuSession{
		adapter: adapter,
		device:  device,
		queue:   device.GetQueue(),
	}
}

func (s *GpuSession) Release() {
	if s.device != nil {
		s.device.Release()
		s.device = nil
	}
	if s.adapter != nil {
		s.adapter.Release()
		s.adapter = nil
	}
}

func createComputePipeline(name string, shaderCode string, entryPoint string, device *wgpu.Device) *wgpu.ComputePipeline {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaderCode},
	})
	if err != nil {
		panic(err)
	}
	defer shader.Release()

	pipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: name,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shader,
			EntryPoint: entryPoint,
		},
	})
	if err != nil {
		panic(err)
	}
	return pipeline
}

func createStorageBuffer(name string, contents []byte, device *wgpu.Device, extraUsage wgpu.BufferUsage) *wgpu.Buffer {
	buffer, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    name,
		Contents: contents,
		Usage:    wgpu.BufferUsageStorage | extraUsage,
	})
	if err != nil {
		panic(err)
	}
	return buffer
}

func createUniformBuffer(name string, data any, device *wgpu.Device) *wgpu.Buffer {
	buffer, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    name,
		Contents: EncodeBuffer(data),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	return buffer
}

func createReadbackBuffer(name string, size uint64, device *wgpu.Device) *wgpu.Buffer {
	buffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: name,
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	return buffer
}
