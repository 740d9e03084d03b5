package compute

import (
	"fmt"

	"github.com/openfluke/computeguide/detector"
	"github.com/openfluke/computeguide/gpu"
	"github.com/openfluke/computeguide/shader"
	"go.uber.org/zap"
)

// RunNumbers uploads 0..BufferLen, multiplies it by Multiplier on the GPU
// and returns the buffer contents after the dispatch.
func RunNumbers(c *gpu.Context) ([]uint32, error) {
	return run(c, shader.Multiply, "Numbers", Sequence(BufferLen))
}

// RunRects uploads BufferLen derived records, doubles their pos_x on the
// GPU and returns the records after the dispatch.
func RunRects(c *gpu.Context) ([]Rect, error) {
	return run(c, shader.Rects, "Rects", Rects(BufferLen))
}

// run is the whole program: every step runs once, in order, and the first
// failure is returned unchanged to the caller.
func run[T any](c *gpu.Context, src shader.Source, label string, data []T) ([]T, error) {
	log := c.Logger().With(zap.String("program", src.Name))

	iface, err := shader.Reflect(src)
	if err != nil {
		return nil, fmt.Errorf("failed to load shader: %w", err)
	}
	if err := shader.CheckLayoutOf[T](iface); err != nil {
		return nil, fmt.Errorf("failed to load shader: %w", err)
	}
	wgx := iface.Workgroup[0]

	rep, err := detector.Detect(c)
	if err != nil {
		return nil, fmt.Errorf("failed to probe device: %w", err)
	}
	if err := rep.Check(wgx, len(data), gpu.ElemSize[T]()*uint64(len(data))); err != nil {
		return nil, err
	}

	buf, err := gpu.NewStorageBuffer(c, label, data)
	if err != nil {
		return nil, err
	}
	defer buf.Destroy()

	k := &gpu.ElementwiseKernel[T]{
		Spec: gpu.ElementwiseSpec{
			Code:       src.Code,
			EntryPoint: src.EntryPoint,
			Group:      src.Group,
			Binding:    src.Binding,
			WorkgroupX: wgx,
		},
		Buffer: buf,
	}
	defer k.Cleanup()

	if err := k.Compile(c, label); err != nil {
		return nil, err
	}
	if err := k.CreateBindGroup(c, label); err != nil {
		return nil, err
	}

	fence, err := gpu.Run(c, label, k)
	if err != nil {
		return nil, err
	}
	log.Info("dispatched",
		zap.Int("elements", buf.Len()),
		zap.Uint32("workgroup_size", wgx),
		zap.Uint32("workgroups", gpu.Workgroups(buf.Len(), wgx)),
	)
	fence.Wait()

	out, err := buf.Read()
	if err != nil {
		return nil, err
	}
	return out, nil
}
