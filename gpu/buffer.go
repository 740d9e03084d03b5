package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/openfluke/webgpu/wgpu"
	"go.uber.org/zap"
)

// ErrBufferInFlight is returned by Read while a submission using the buffer
// has not been waited on.
var ErrBufferInFlight = errors.New("buffer is owned by the device until its fence is waited on")

// StorageBuffer is a fixed-length storage buffer seeded from host memory.
// T must be a plain fixed-size value type whose layout matches the shader's.
type StorageBuffer[T any] struct {
	Label  string
	Buffer *wgpu.Buffer

	ctx   *Context
	len   int
	fence *Fence
}

// ElemSize is the byte size of one T as laid out on the host.
func ElemSize[T any]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

// NewStorageBuffer uploads data into a new storage buffer.
func NewStorageBuffer[T any](c *Context, label string, data []T) (*StorageBuffer[T], error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to create buffer %q: no elements", label)
	}

	buf, err := c.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: wgpu.ToBytes(data),
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer: %w", err)
	}

	c.log.Debug("allocated storage buffer",
		zap.String("label", label),
		zap.Int("elements", len(data)),
		zap.Uint64("bytes", ElemSize[T]()*uint64(len(data))),
	)
	return &StorageBuffer[T]{Label: label, Buffer: buf, ctx: c, len: len(data)}, nil
}

// Len is the element count fixed at creation.
func (b *StorageBuffer[T]) Len() int { return b.len }

// Size is the buffer size in bytes.
func (b *StorageBuffer[T]) Size() uint64 { return ElemSize[T]() * uint64(b.len) }

// hand marks the buffer as owned by the device until f is waited on.
func (b *StorageBuffer[T]) hand(f *Fence) { b.fence = f }

// Read copies the buffer back to the host. It refuses to run while a
// submission using the buffer is still outstanding.
func (b *StorageBuffer[T]) Read() ([]T, error) {
	if !b.fence.Signaled() {
		return nil, ErrBufferInFlight
	}
	c := b.ctx
	size := b.Size()

	staging, err := c.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: b.Label + "_Staging",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create staging buffer: %w", err)
	}
	defer staging.Destroy()

	encoder, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder: %w", err)
	}
	encoder.CopyBufferToBuffer(b.Buffer, 0, staging, 0, size)
	cmd, err := encoder.Finish(nil)
	encoder.Release()
	if err != nil {
		return nil, fmt.Errorf("failed to finish command: %w", err)
	}
	c.Submit(cmd).Wait()
	cmd.Release()

	done := make(chan struct{})
	var mapErr error
	err = staging.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("map failed: %v", status)
		}
		close(done)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to map buffer: %w", err)
	}

	// The map callback fires from inside Poll, so keep polling until it has.
Loop:
	for {
		select {
		case <-done:
			break Loop
		default:
			c.Device.Poll(true, nil)
		}
	}
	if mapErr != nil {
		return nil, fmt.Errorf("failed to read buffer: %w", mapErr)
	}

	data := staging.GetMappedRange(0, uint(size))
	if data == nil {
		return nil, fmt.Errorf("failed to read buffer: no mapped range")
	}
	out := make([]T, b.len)
	copy(out, wgpu.FromBytes[T](data))
	staging.Unmap()

	return out, nil
}

// Destroy frees the device memory.
func (b *StorageBuffer[T]) Destroy() {
	if b.Buffer != nil {
		b.Buffer.Destroy()
		b.Buffer = nil
	}
}
