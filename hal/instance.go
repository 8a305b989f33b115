package hal

import (
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
)

// InstanceDesc describes the single process-wide Instance.
type InstanceDesc struct {
	ApplicationName string
	Extensions      []InstanceExtension

	// MessageCallback is the diagnostic sink for this instance and every
	// object created through it. Optional; diagnostics are still recorded
	// in the instance history when nil.
	MessageCallback MessageCallback
}

// Instance is the root object of the HAL. It owns adapter discovery and
// the adapter cache, and it creates and destroys devices.
type Instance struct {
	id        uuid.UUID
	backend   InstanceBackend
	messenger *Messenger

	enabledExtensions map[InstanceExtensionType]bool

	// Cache of native adapter handle to wrapping object. Entries are never
	// removed before teardown so that caller-held Adapter pointers cannot
	// dangle; entries whose native device disappears are tagged lost
	// instead.
	adapters map[uint64]*Adapter
}

// CreateInstance validates desc, resolves the requested extensions against
// the backend and constructs the native instance. Extension activation is
// all-or-nothing: one unsupported extension fails the whole call with
// ErrorExtensionNotSupported and activates nothing.
func CreateInstance(backend Backend, desc InstanceDesc) (*Instance, Result) {
	if backend == nil {
		return nil, ErrorInvalidUsage
	}

	messenger := newMessenger(desc.MessageCallback)

	enabled := make(map[InstanceExtensionType]bool, len(desc.Extensions))
	for _, ext := range desc.Extensions {
		if !backend.QueryInstanceExtensionSupport(ext.Type()) {
			messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"CreateInstance: instance extension %s is not supported by backend %s", ext.Type(), backend.Name())
			return nil, ErrorExtensionNotSupported
		}
		if enabled[ext.Type()] {
			messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"CreateInstance: instance extension %s requested twice", ext.Type())
			return nil, ErrorInvalidUsage
		}
		enabled[ext.Type()] = true
	}

	instanceBackend, res := backend.CreateInstance(&desc, messenger)
	if res != Success {
		// The backend contract requires partially created native state to
		// be unwound before returning, so there is nothing to release here.
		return nil, res
	}

	inst := &Instance{
		id:                uuid.New(),
		backend:           instanceBackend,
		messenger:         messenger,
		enabledExtensions: enabled,
		adapters:          make(map[uint64]*Adapter),
	}
	messenger.Emit(MessageSeverityVerbose, MessageSourceAPI,
		"CreateInstance %s: %q on backend %s, %d extensions enabled", inst.id, desc.ApplicationName, backend.Name(), len(enabled))
	return inst, Success
}

// DestroyInstance destroys every cached adapter and then the native
// instance. It is a no-op on a nil instance.
func DestroyInstance(instance *Instance) {
	if instance == nil {
		return
	}

	instance.messenger.Emit(MessageSeverityVerbose, MessageSourceAPI,
		"DestroyInstance %s: releasing %d cached adapters", instance.id, len(instance.adapters))
	for _, adapter := range maps.Values(instance.adapters) {
		adapter.backend = nil
		adapter.instance = nil
	}
	instance.adapters = nil

	instance.backend.Destroy()
	instance.backend = nil
}

// ID returns the debug identity of this instance, surfaced in diagnostics.
func (inst *Instance) ID() uuid.UUID { return inst.id }

// Messenger returns the diagnostic sink attached at creation.
func (inst *Instance) Messenger() *Messenger { return inst.messenger }

// ExtensionEnabled reports whether the given extension was activated at
// creation time.
func (inst *Instance) ExtensionEnabled(ext InstanceExtensionType) bool {
	return inst.enabledExtensions[ext]
}

// EnumerateAdapters queries the backend for physical devices and returns
// one Adapter per native handle. Calling it twice without a topology
// change returns the same Adapter objects (identity is preserved through
// the cache). Adapters that disappear between calls are tagged lost and
// kept cached until DestroyInstance. Must not run concurrently with
// DestroyInstance.
func (inst *Instance) EnumerateAdapters() ([]*Adapter, Result) {
	if inst.backend == nil {
		return nil, ErrorInvalidUsage
	}

	// Lost adapters keep their cache entry with a cleared backend.
	for _, adapter := range inst.adapters {
		adapter.backend = nil
	}

	backends, res := inst.backend.EnumerateAdapters()
	if res != Success {
		return nil, res
	}

	adapters := make([]*Adapter, 0, len(backends))
	for _, ab := range backends {
		if cached, ok := inst.adapters[ab.Handle()]; ok {
			cached.backend = ab
			adapters = append(adapters, cached)
			continue
		}

		adapter := &Adapter{
			instance: inst,
			backend:  ab,
			handle:   ab.Handle(),
		}
		inst.adapters[ab.Handle()] = adapter
		adapters = append(adapters, adapter)
	}

	return adapters, Success
}

// CreateDevice creates a logical device on desc.Adapter. The requested
// features, extensions and queue set are validated against the adapter
// before any native object is created; an unsupported request fails the
// whole call without side effects.
func (inst *Instance) CreateDevice(desc DeviceDesc) (*Device, Result) {
	if inst.backend == nil || desc.Adapter == nil {
		inst.messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateDevice: desc.Adapter must not be nil")
		return nil, ErrorInvalidUsage
	}
	if desc.Adapter.Lost() {
		inst.messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateDevice: adapter is lost")
		return nil, ErrorDeviceLost
	}

	supported, res := desc.Adapter.QueryFeatures()
	if res != Success {
		return nil, res
	}
	if (desc.Features.SamplerAnisotropy && !supported.SamplerAnisotropy) ||
		(desc.Features.ShaderFloat64 && !supported.ShaderFloat64) {
		inst.messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateDevice: requested features %+v exceed adapter support %+v", desc.Features, supported)
		return nil, ErrorFeatureNotSupported
	}

	seen := make(map[AdapterExtensionType]bool, len(desc.Extensions))
	for _, ext := range desc.Extensions {
		if !desc.Adapter.QueryExtensionSupport(ext.Type()) {
			inst.messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"CreateDevice: adapter extension %s is not supported", ext.Type())
			return nil, ErrorExtensionNotSupported
		}
		if seen[ext.Type()] {
			inst.messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"CreateDevice: adapter extension %s requested twice", ext.Type())
			return nil, ErrorInvalidUsage
		}
		seen[ext.Type()] = true
	}

	// A sane default queue set when the caller declares none.
	if len(desc.Queues) == 0 {
		desc.Queues = []QueueDesc{{Type: QueueTypeGraphics, Priority: QueuePriorityNormal}}
	}

	perType := map[QueueType]uint8{}
	for _, qd := range desc.Queues {
		if qd.Type > QueueTypeTransfer {
			inst.messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"CreateDevice: unknown queue type %d", qd.Type)
			return nil, ErrorInvalidUsage
		}
		perType[qd.Type]++
		max, _ := desc.Adapter.QueryQueueCount(qd.Type)
		if perType[qd.Type] > max {
			inst.messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"CreateDevice: %d %s queues requested, adapter supports %d", perType[qd.Type], qd.Type, max)
			return nil, ErrorInvalidUsage
		}
	}

	deviceBackend, res := inst.backend.CreateDevice(desc.Adapter.backend, &desc)
	if res != Success {
		return nil, res
	}

	device, res := newDevice(inst, deviceBackend, &desc)
	if res != Success {
		deviceBackend.Destroy()
		return nil, res
	}
	return device, Success
}

// DestroyDevice destroys a device created by this instance. The caller
// must have destroyed every device-owned object first; the HAL does not
// release them on the device's behalf. No-op on nil.
func (inst *Instance) DestroyDevice(device *Device) {
	if device == nil {
		return
	}
	device.destroy()
}
