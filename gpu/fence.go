package gpu

import (
	"sync/atomic"
	"time"

	"github.com/openfluke/webgpu/wgpu"
	"go.uber.org/zap"
)

// Fence marks the end of one queue submission. Buffers used by the
// submission belong to the device until Wait returns.
type Fence struct {
	device   *wgpu.Device
	log      *zap.Logger
	signaled atomic.Bool
	issued   time.Time
}

func newFence(device *wgpu.Device, log *zap.Logger) *Fence {
	return &Fence{device: device, log: log, issued: time.Now()}
}

// Wait blocks until the device has finished all submitted work. There is no
// timeout; a hung device hangs the caller. Waiting twice is a no-op.
func (f *Fence) Wait() {
	if f.signaled.Load() {
		return
	}
	// Poll(true) is MaintainWait: it returns once the queue is drained.
	f.device.Poll(true, nil)
	f.signaled.Store(true)
	f.log.Debug("fence signaled", zap.Duration("elapsed", time.Since(f.issued)))
}

// Signaled reports whether Wait has observed completion.
func (f *Fence) Signaled() bool {
	return f == nil || f.signaled.Load()
}
