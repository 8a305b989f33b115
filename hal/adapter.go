package hal

type AdapterType uint8

const (
	AdapterTypeOther AdapterType = iota
	AdapterTypeIntegrated
	AdapterTypeDiscrete
	AdapterTypeVirtual
)

func (t AdapterType) String() string {
	switch t {
	case AdapterTypeOther:
		return "Other"
	case AdapterTypeIntegrated:
		return "Integrated"
	case AdapterTypeDiscrete:
		return "Discrete"
	case AdapterTypeVirtual:
		return "Virtual"
	}
	return "Unknown"
}

type AdapterInfo struct {
	VendorID    uint32
	AdapterID   uint32
	AdapterName string
	AdapterType AdapterType
}

// AdapterFeatures describes optional capabilities of a physical device.
// Requesting a feature the adapter does not report fails device creation
// with ErrorFeatureNotSupported.
type AdapterFeatures struct {
	SamplerAnisotropy bool
	ShaderFloat64     bool
}

// Adapter represents one physical compute/graphics unit. Adapters are
// owned by the Instance's cache: the same Adapter object is handed back
// for the same native device across repeated enumerations. An Adapter
// whose native device disappears between enumerations becomes lost; it
// stays valid as a Go object but every query on it fails with
// ErrorDeviceRemoved until Instance teardown frees it.
type Adapter struct {
	instance *Instance
	backend  AdapterBackend

	handle uint64
}

// Lost reports whether the adapter's native device disappeared during a
// later enumeration. A lost adapter cannot back a new Device.
func (a *Adapter) Lost() bool {
	return a.backend == nil
}

func (a *Adapter) QueryInfo() (AdapterInfo, Result) {
	if a.Lost() {
		a.instance.messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"QueryInfo called on a lost adapter")
		return AdapterInfo{}, ErrorDeviceRemoved
	}
	return a.backend.QueryInfo()
}

func (a *Adapter) QueryFeatures() (AdapterFeatures, Result) {
	if a.Lost() {
		a.instance.messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"QueryFeatures called on a lost adapter")
		return AdapterFeatures{}, ErrorDeviceRemoved
	}
	return a.backend.QueryFeatures()
}

// QueryNodeCount returns the number of linked adapter nodes. Without the
// AdapterNodes instance extension this is always 1.
func (a *Adapter) QueryNodeCount() (uint8, Result) {
	if a.Lost() {
		return 0, ErrorDeviceRemoved
	}
	if !a.instance.ExtensionEnabled(InstanceExtensionAdapterNodes) {
		return 1, Success
	}
	return a.backend.QueryNodeCount(), Success
}

// QueryQueueCount returns the maximum number of queues of the given type
// that a Device created on this adapter may declare.
func (a *Adapter) QueryQueueCount(queueType QueueType) (uint8, Result) {
	if a.Lost() {
		return 0, ErrorDeviceRemoved
	}
	return a.backend.QueryQueueCount(queueType), Success
}

// QueryExtensionSupport reports support for a device-level extension. It
// never allocates backend resources and is safe to call on lost adapters,
// which support nothing.
func (a *Adapter) QueryExtensionSupport(ext AdapterExtensionType) bool {
	if a.Lost() {
		return false
	}
	return a.backend.QueryExtensionSupport(ext)
}
