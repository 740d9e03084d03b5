package gpu

import (
	"fmt"

	"github.com/openfluke/webgpu/wgpu"
	"go.uber.org/zap"
)

// ElementwiseSpec describes a shader that updates one storage buffer in
// place, one invocation per element.
type ElementwiseSpec struct {
	Code       string // WGSL source
	EntryPoint string
	Group      uint32
	Binding    uint32
	WorkgroupX uint32 // must match the shader's @workgroup_size
}

// ElementwiseKernel binds a single read_write storage buffer of T to an
// ElementwiseSpec shader.
type ElementwiseKernel[T any] struct {
	Spec   ElementwiseSpec
	Buffer *StorageBuffer[T]

	module    *wgpu.ShaderModule
	pipeline  *wgpu.ComputePipeline
	bindGroup *wgpu.BindGroup
}

func (k *ElementwiseKernel[T]) Compile(ctx *Context, labelPrefix string) error {
	if k.Spec.WorkgroupX == 0 {
		return fmt.Errorf("failed to create shader module: workgroup size is zero")
	}
	entry := k.Spec.EntryPoint
	if entry == "" {
		entry = "main"
	}

	var err error
	k.module, err = ctx.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          labelPrefix + "_Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: k.Spec.Code},
	})
	if err != nil {
		return fmt.Errorf("failed to create shader module: %w", err)
	}

	k.pipeline, err = ctx.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:   labelPrefix + "_Pipe",
		Compute: wgpu.ProgrammableStageDescriptor{Module: k.module, EntryPoint: entry},
	})
	if err != nil {
		return fmt.Errorf("failed to create compute pipeline: %w", err)
	}
	ctx.log.Debug("compiled kernel", zap.String("label", labelPrefix), zap.String("entry", entry))
	return nil
}

func (k *ElementwiseKernel[T]) CreateBindGroup(ctx *Context, labelPrefix string) error {
	if k.pipeline == nil {
		return fmt.Errorf("failed to create bind group: kernel %s is not compiled", labelPrefix)
	}
	if k.Buffer == nil {
		return fmt.Errorf("failed to create bind group: kernel %s has no buffer", labelPrefix)
	}

	var err error
	k.bindGroup, err = ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  labelPrefix + "_Bind",
		Layout: k.pipeline.GetBindGroupLayout(k.Spec.Group),
		Entries: []wgpu.BindGroupEntry{
			{Binding: k.Spec.Binding, Buffer: k.Buffer.Buffer, Size: k.Buffer.Size()},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group: %w", err)
	}
	return nil
}

func (k *ElementwiseKernel[T]) Dispatch(pass *wgpu.ComputePassEncoder) {
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(k.Spec.Group, k.bindGroup, nil)
	pass.DispatchWorkgroups(Workgroups(k.Buffer.Len(), k.Spec.WorkgroupX), 1, 1)
}

func (k *ElementwiseKernel[T]) Submitted(f *Fence) { k.Buffer.hand(f) }

// Cleanup releases the pipeline objects. The buffer belongs to the caller.
func (k *ElementwiseKernel[T]) Cleanup() {
	if k.bindGroup != nil {
		k.bindGroup.Release()
		k.bindGroup = nil
	}
	if k.pipeline != nil {
		k.pipeline.Release()
		k.pipeline = nil
	}
	if k.module != nil {
		k.module.Release()
		k.module = nil
	}
}
