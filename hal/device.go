package hal

import (
	"math"

	"github.com/google/uuid"
)

// TimeoutInfinite disables the deadline of Device.WaitFence.
const TimeoutInfinite uint64 = math.MaxUint64

// DeviceDesc declares a logical device. Adapter must be a non-lost adapter
// enumerated from the creating Instance. An empty Queues slice requests
// the default queue set (one Normal-priority graphics queue).
type DeviceDesc struct {
	Adapter    *Adapter
	Features   AdapterFeatures
	Extensions []AdapterExtension
	Queues     []QueueDesc
}

// Device is the logical connection to one Adapter. It vends queues,
// command groups, synchronization objects and resources, and it is the
// unit of feature/extension activation. The caller owns teardown ordering:
// every object created from a Device must be destroyed before the Device,
// in reverse creation order.
type Device struct {
	id       uuid.UUID
	instance *Instance
	backend  DeviceBackend

	features          AdapterFeatures
	enabledExtensions map[AdapterExtensionType]bool

	// Fixed queue table, built up front from the DeviceDesc.
	queues map[QueueType][]*Queue

	// Live child counts, kept only to diagnose teardown-order violations.
	liveGroups     int
	liveFences     int
	liveSemaphores int
	liveResources  int
}

func newDevice(inst *Instance, backend DeviceBackend, desc *DeviceDesc) (*Device, Result) {
	device := &Device{
		id:                uuid.New(),
		instance:          inst,
		backend:           backend,
		features:          desc.Features,
		enabledExtensions: make(map[AdapterExtensionType]bool, len(desc.Extensions)),
		queues:            make(map[QueueType][]*Queue),
	}
	for _, ext := range desc.Extensions {
		device.enabledExtensions[ext.Type()] = true
	}

	// Queues are created by the backend during device creation; here the
	// table is populated in declaration order.
	for _, qd := range desc.Queues {
		index := uint8(len(device.queues[qd.Type]))
		qb, res := backend.GetQueue(qd.Type, index)
		if res != Success {
			return nil, res
		}
		device.queues[qd.Type] = append(device.queues[qd.Type], &Queue{
			device:    device,
			backend:   qb,
			queueType: qd.Type,
			index:     index,
			priority:  qd.Priority,
		})
	}

	return device, Success
}

func (d *Device) messenger() *Messenger { return d.instance.messenger }

// ID returns the debug identity of this device, surfaced in diagnostics.
func (d *Device) ID() uuid.UUID { return d.id }

// Features returns the feature set activated at creation.
func (d *Device) Features() AdapterFeatures { return d.features }

// ExtensionEnabled reports whether the given adapter extension was
// activated at creation time.
func (d *Device) ExtensionEnabled(ext AdapterExtensionType) bool {
	return d.enabledExtensions[ext]
}

// GetQueue returns a handle into the fixed queue table built at creation.
// Out-of-range lookups fail with ErrorInvalidUsage.
func (d *Device) GetQueue(queueType QueueType, index uint8) (*Queue, Result) {
	table := d.queues[queueType]
	if int(index) >= len(table) {
		d.messenger().Emit(MessageSeverityError, MessageSourceAPI,
			"GetQueue: no %s queue at index %d (device declares %d)", queueType, index, len(table))
		return nil, ErrorInvalidUsage
	}
	return table[index], Success
}

// CreateCommandGroup creates a command list pool scoped to one queue type.
// Groups are not safe for concurrent Allocate/Reset; serialize access per
// group.
func (d *Device) CreateCommandGroup(queueType QueueType) (*CommandGroup, Result) {
	if len(d.queues[queueType]) == 0 {
		d.messenger().Emit(MessageSeverityError, MessageSourceAPI,
			"CreateCommandGroup: device declares no %s queues", queueType)
		return nil, ErrorInvalidUsage
	}

	backend, res := d.backend.CreateCommandGroup(queueType)
	if res != Success {
		return nil, res
	}
	d.liveGroups++
	return &CommandGroup{device: d, backend: backend, queueType: queueType}, Success
}

// DestroyCommandGroup destroys a group and invalidates every list it
// allocated. No-op on nil.
func (d *Device) DestroyCommandGroup(group *CommandGroup) {
	if group == nil || group.backend == nil {
		return
	}
	for _, list := range group.lists {
		list.backend = nil
	}
	group.lists = nil
	d.backend.DestroyCommandGroup(group.backend)
	group.backend = nil
	d.liveGroups--
}

type FenceFlags uint8

const (
	FenceFlagNone FenceFlags = 0
	// FenceFlagSignaled creates the fence already signaled; a wait on it
	// returns immediately.
	FenceFlagSignaled FenceFlags = 1 << iota
)

// CreateFence creates a binary host-visible fence.
func (d *Device) CreateFence(flags FenceFlags) (*Fence, Result) {
	backend, res := d.backend.CreateFence(flags&FenceFlagSignaled != 0)
	if res != Success {
		return nil, res
	}
	d.liveFences++
	return &Fence{device: d, backend: backend}, Success
}

// DestroyFence is a no-op on nil.
func (d *Device) DestroyFence(fence *Fence) {
	if fence == nil || fence.backend == nil {
		return
	}
	d.backend.DestroyFence(fence.backend)
	fence.backend = nil
	d.liveFences--
}

// CreateSemaphore creates a binary device-visible semaphore.
func (d *Device) CreateSemaphore() (*Semaphore, Result) {
	backend, res := d.backend.CreateSemaphore()
	if res != Success {
		return nil, res
	}
	d.liveSemaphores++
	return &Semaphore{device: d, backend: backend}, Success
}

// DestroySemaphore is a no-op on nil.
func (d *Device) DestroySemaphore(semaphore *Semaphore) {
	if semaphore == nil || semaphore.backend == nil {
		return
	}
	d.backend.DestroySemaphore(semaphore.backend)
	semaphore.backend = nil
	d.liveSemaphores--
}

// WaitFence blocks the calling goroutine until the fence is signaled or
// timeoutNs elapses. TimeoutInfinite disables the deadline. An elapsed
// deadline returns Timeout, which is distinct from Success; a device that
// disappeared while waiting returns ErrorDeviceLost.
func (d *Device) WaitFence(fence *Fence, timeoutNs uint64) Result {
	if fence == nil || fence.backend == nil {
		d.messenger().Emit(MessageSeverityError, MessageSourceAPI,
			"WaitFence: fence is nil or destroyed")
		return ErrorInvalidUsage
	}
	return d.backend.WaitFence(fence.backend, timeoutNs)
}

// CreateResource creates a memory-backed buffer or texture in
// desc.InitialState. The descriptor is validated against the combination
// rules described on ResourceDesc before any native allocation happens.
func (d *Device) CreateResource(desc ResourceDesc) (*Resource, Result) {
	if res := desc.validate(d.messenger()); res != Success {
		return nil, res
	}

	backend, res := d.backend.CreateResource(&desc)
	if res != Success {
		return nil, res
	}
	d.liveResources++
	return &Resource{device: d, backend: backend, desc: desc, state: desc.InitialState}, Success
}

// DestroyResource is a no-op on nil.
func (d *Device) DestroyResource(resource *Resource) {
	if resource == nil || resource.backend == nil {
		return
	}
	d.backend.DestroyResource(resource.backend)
	resource.backend = nil
	d.liveResources--
}

func (d *Device) destroy() {
	if d.backend == nil {
		return
	}
	if d.liveGroups != 0 || d.liveFences != 0 || d.liveSemaphores != 0 || d.liveResources != 0 {
		// Destroying a device with live children is undefined; the HAL does
		// not release objects it did not create. Flag it and proceed.
		d.messenger().Emit(MessageSeverityWarning, MessageSourceAPI,
			"DestroyDevice %s: %d command groups, %d fences, %d semaphores, %d resources still alive",
			d.id, d.liveGroups, d.liveFences, d.liveSemaphores, d.liveResources)
	}
	d.queues = nil
	d.backend.Destroy()
	d.backend = nil
}
