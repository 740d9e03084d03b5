package gpu

import (
	"fmt"

	"github.com/openfluke/webgpu/wgpu"
	"go.uber.org/zap"
)

// Kernel is a compiled compute shader with its buffers bound, ready to be
// recorded into a compute pass.
type Kernel interface {
	Compile(ctx *Context, labelPrefix string) error
	CreateBindGroup(ctx *Context, labelPrefix string) error

	// Dispatch records the kernel into an open compute pass.
	Dispatch(pass *wgpu.ComputePassEncoder)

	// Submitted hands the kernel's buffers to the device until f is waited on.
	Submitted(f *Fence)

	Cleanup()
}

// Workgroups is the number of workgroups needed to cover n invocations, one
// per element, with workgroupX invocations each.
func Workgroups(n int, workgroupX uint32) uint32 {
	if n <= 0 || workgroupX == 0 {
		return 0
	}
	return uint32((n + int(workgroupX) - 1) / int(workgroupX))
}

// Run records every kernel into a single compute pass, submits it once and
// returns the fence guarding the kernels' buffers.
func Run(c *Context, label string, kernels ...Kernel) (*Fence, error) {
	enc, err := c.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label + "_Enc"})
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer enc.Release()

	pass := enc.BeginComputePass(&wgpu.ComputePassDescriptor{Label: label + "_Pass"})
	for _, k := range kernels {
		k.Dispatch(pass)
	}
	pass.End()

	cmd, err := enc.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build command buffer: %w", err)
	}
	defer cmd.Release()

	fence := c.Submit(cmd)
	for _, k := range kernels {
		k.Submitted(fence)
	}
	c.log.Debug("submitted compute pass", zap.String("label", label), zap.Int("kernels", len(kernels)))
	return fence, nil
}
