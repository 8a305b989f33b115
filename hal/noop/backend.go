// Package noop implements a headless software backend for the Lumen HAL.
// It honors the full object model and synchronization semantics without
// touching a native driver: submissions execute synchronously and signal
// their fences and semaphores on completion. It backs the test suite and
// CI runs, and the sandbox uses it when no GPU is available.
package noop

import (
	"sync"

	"github.com/spaghettifunk/lumen/hal"
)

// AdapterDesc configures one synthetic adapter.
type AdapterDesc struct {
	Name      string
	VendorID  uint32
	AdapterID uint32
	Type      hal.AdapterType
	NodeCount uint8

	QueueCounts map[hal.QueueType]uint8
	Features    hal.AdapterFeatures
	Extensions  []hal.AdapterExtensionType
}

// DefaultAdapter returns the adapter a plain New() backend exposes: a
// discrete unit with one graphics, two compute and one transfer queue.
func DefaultAdapter() AdapterDesc {
	return AdapterDesc{
		Name:      "Lumen Noop Adapter",
		VendorID:  0x10DE,
		AdapterID: 0x0001,
		Type:      hal.AdapterTypeDiscrete,
		NodeCount: 1,
		QueueCounts: map[hal.QueueType]uint8{
			hal.QueueTypeGraphics: 1,
			hal.QueueTypeCompute:  2,
			hal.QueueTypeTransfer: 1,
		},
		Features: hal.AdapterFeatures{SamplerAnisotropy: true},
	}
}

// Backend is the noop entry point. Its synthetic adapter set can be
// mutated between enumerations to exercise adapter-loss handling.
type Backend struct {
	mu         sync.Mutex
	adapters   []*adapter
	nextHandle uint64
}

func New() *Backend {
	b := &Backend{}
	b.AddAdapter(DefaultAdapter())
	return b
}

func NewWithAdapters(descs ...AdapterDesc) *Backend {
	b := &Backend{}
	for _, desc := range descs {
		b.AddAdapter(desc)
	}
	return b
}

func (b *Backend) Name() string { return "noop" }

// AddAdapter plugs a new synthetic adapter in; it shows up on the next
// enumeration.
func (b *Backend) AddAdapter(desc AdapterDesc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextHandle++
	b.adapters = append(b.adapters, &adapter{desc: desc, handle: b.nextHandle})
}

// RemoveAdapter unplugs the named adapter, simulating device loss. It
// reports whether an adapter with that name existed.
func (b *Backend) RemoveAdapter(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, a := range b.adapters {
		if a.desc.Name == name {
			b.adapters = append(b.adapters[:i], b.adapters[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Backend) QueryInstanceExtensionSupport(ext hal.InstanceExtensionType) bool {
	switch ext {
	case hal.InstanceExtensionDriverValidation, hal.InstanceExtensionAdapterNodes:
		return true
	}
	// GPU-assisted validation needs a real driver.
	return false
}

func (b *Backend) CreateInstance(desc *hal.InstanceDesc, messenger *hal.Messenger) (hal.InstanceBackend, hal.Result) {
	inst := &instanceBackend{backend: b, messenger: messenger}
	for _, ext := range desc.Extensions {
		if ext.Type() == hal.InstanceExtensionDriverValidation && ext.DriverValidation().Enable {
			inst.validation = true
		}
	}
	if inst.validation {
		messenger.Emit(hal.MessageSeverityVerbose, hal.MessageSourceImplementation,
			"noop: driver validation enabled for %q", desc.ApplicationName)
	}
	return inst, hal.Success
}

type instanceBackend struct {
	backend    *Backend
	messenger  *hal.Messenger
	validation bool
}

func (i *instanceBackend) EnumerateAdapters() ([]hal.AdapterBackend, hal.Result) {
	i.backend.mu.Lock()
	defer i.backend.mu.Unlock()

	out := make([]hal.AdapterBackend, len(i.backend.adapters))
	for n, a := range i.backend.adapters {
		out[n] = a
	}
	return out, hal.Success
}

func (i *instanceBackend) CreateDevice(ab hal.AdapterBackend, desc *hal.DeviceDesc) (hal.DeviceBackend, hal.Result) {
	a := ab.(*adapter)

	dev := &deviceBackend{
		messenger:  i.messenger,
		validation: i.validation,
		queues:     make(map[hal.QueueType][]*queueBackend),
	}
	for _, qd := range desc.Queues {
		dev.queues[qd.Type] = append(dev.queues[qd.Type], &queueBackend{device: dev, queueType: qd.Type})
	}
	i.messenger.Emit(hal.MessageSeverityVerbose, hal.MessageSourceImplementation,
		"noop: device created on adapter %q with %d queue declarations", a.desc.Name, len(desc.Queues))
	return dev, hal.Success
}

func (i *instanceBackend) Destroy() {}

type adapter struct {
	desc   AdapterDesc
	handle uint64
}

func (a *adapter) Handle() uint64 { return a.handle }

func (a *adapter) QueryInfo() (hal.AdapterInfo, hal.Result) {
	return hal.AdapterInfo{
		VendorID:    a.desc.VendorID,
		AdapterID:   a.desc.AdapterID,
		AdapterName: a.desc.Name,
		AdapterType: a.desc.Type,
	}, hal.Success
}

func (a *adapter) QueryFeatures() (hal.AdapterFeatures, hal.Result) {
	return a.desc.Features, hal.Success
}

func (a *adapter) QueryNodeCount() uint8 {
	if a.desc.NodeCount == 0 {
		return 1
	}
	return a.desc.NodeCount
}

func (a *adapter) QueryQueueCount(queueType hal.QueueType) uint8 {
	return a.desc.QueueCounts[queueType]
}

func (a *adapter) QueryExtensionSupport(ext hal.AdapterExtensionType) bool {
	for _, supported := range a.desc.Extensions {
		if supported == ext {
			return true
		}
	}
	return false
}
