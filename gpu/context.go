package gpu

import (
	"errors"
	"fmt"

	"github.com/openfluke/webgpu/wgpu"
	"go.uber.org/zap"
)

// ErrNoAdapter is returned when the instance enumerates no adapters at all.
var ErrNoAdapter = errors.New("failed to create physical device")

// Context holds the WebGPU handles for one run: the instance, the first
// enumerated adapter, the device opened on it and its queue.
type Context struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue

	log *zap.Logger
}

// NewContext creates an instance, picks the first adapter it enumerates and
// opens a device on it. There is no scoring and no fallback: if the first
// adapter cannot give us a device the whole run fails.
func NewContext(log *zap.Logger) (*Context, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Context{log: log}

	c.Instance = wgpu.CreateInstance(nil)
	if c.Instance == nil {
		return nil, fmt.Errorf("failed to create instance")
	}

	adapters := c.Instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		c.Release()
		return nil, ErrNoAdapter
	}
	c.Adapter = adapters[0]
	for _, a := range adapters[1:] {
		a.Release()
	}

	info := c.Adapter.GetInfo()
	log.Info("selected adapter",
		zap.String("name", info.Name),
		zap.String("vendor", info.VendorName),
		zap.String("backend", info.BackendType.String()),
		zap.Int("enumerated", len(adapters)),
	)

	// Every WebGPU queue accepts compute work, so the device's single queue
	// is the compute-capable queue.
	var err error
	c.Device, err = c.Adapter.RequestDevice(nil)
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	c.Queue = c.Device.GetQueue()
	if c.Queue == nil {
		c.Release()
		return nil, fmt.Errorf("couldn't find a compute queue")
	}

	return c, nil
}

// Logger returns the logger the context was created with.
func (c *Context) Logger() *zap.Logger { return c.log }

// AdapterDescription is the subset of adapter info the programs log and report.
type AdapterDescription struct {
	Name     string
	Vendor   string
	Backend  string
	Type     string
	VendorID uint32
	DeviceID uint32
	Driver   string
}

// Describe returns the selected adapter's description.
func (c *Context) Describe() AdapterDescription {
	info := c.Adapter.GetInfo()
	return AdapterDescription{
		Name:     info.Name,
		Vendor:   info.VendorName,
		Backend:  info.BackendType.String(),
		Type:     info.AdapterType.String(),
		VendorID: uint32(info.VendorId),
		DeviceID: uint32(info.DeviceId),
		Driver:   info.DriverDescription,
	}
}

// Submit hands finished command buffers to the queue and returns the fence
// the host must wait on before touching any buffer they use.
func (c *Context) Submit(cmds ...*wgpu.CommandBuffer) *Fence {
	c.Queue.Submit(cmds...)
	return newFence(c.Device, c.log)
}

// Release frees the device, adapter and instance in reverse creation order.
func (c *Context) Release() {
	c.Queue = nil
	if c.Device != nil {
		c.Device.Release()
		c.Device = nil
	}
	if c.Adapter != nil {
		c.Adapter.Release()
		c.Adapter = nil
	}
	if c.Instance != nil {
		c.Instance.Release()
		c.Instance = nil
	}
}
