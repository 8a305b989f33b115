package hal

// The backend contract. The HAL core owns the object model, the state
// machines and all usage validation; a backend only translates validated
// requests into its native driver API. Backends are selected by
// constructor (noop.New, vulkan.New), never by pointer reinterpretation.

// Backend is the entry point of one native translation layer.
type Backend interface {
	Name() string

	// QueryInstanceExtensionSupport must be callable before any creation
	// call and must not allocate native resources.
	QueryInstanceExtensionSupport(ext InstanceExtensionType) bool

	// CreateInstance constructs the native instance with the already
	// validated extension set. On failure the backend must release every
	// partially created native object before returning.
	CreateInstance(desc *InstanceDesc, messenger *Messenger) (InstanceBackend, Result)
}

type InstanceBackend interface {
	// EnumerateAdapters queries the native physical devices. The returned
	// slice may grow between calls; adapter identity across calls is
	// established by AdapterBackend.Handle, not by slice position.
	EnumerateAdapters() ([]AdapterBackend, Result)

	// CreateDevice constructs the native device on the given adapter with
	// the already validated feature/extension/queue set.
	CreateDevice(adapter AdapterBackend, desc *DeviceDesc) (DeviceBackend, Result)

	Destroy()
}

type AdapterBackend interface {
	// Handle returns a key that is stable for the underlying physical
	// device across repeated enumerations. The Instance adapter cache is
	// keyed by it.
	Handle() uint64

	QueryInfo() (AdapterInfo, Result)
	QueryFeatures() (AdapterFeatures, Result)
	QueryNodeCount() uint8
	QueryQueueCount(queueType QueueType) uint8
	QueryExtensionSupport(ext AdapterExtensionType) bool
}

type DeviceBackend interface {
	// GetQueue returns the native queue created for the given slot of the
	// DeviceDesc queue table. The slot is guaranteed valid by the core.
	GetQueue(queueType QueueType, index uint8) (QueueBackend, Result)

	CreateCommandGroup(queueType QueueType) (CommandGroupBackend, Result)
	DestroyCommandGroup(group CommandGroupBackend)

	CreateFence(signaled bool) (FenceBackend, Result)
	DestroyFence(fence FenceBackend)
	WaitFence(fence FenceBackend, timeoutNs uint64) Result
	ResetFence(fence FenceBackend) Result

	CreateSemaphore() (SemaphoreBackend, Result)
	DestroySemaphore(semaphore SemaphoreBackend)

	CreateResource(desc *ResourceDesc) (ResourceBackend, Result)
	DestroyResource(resource ResourceBackend)

	Destroy()
}

type QueueBackend interface {
	Submit(lists []CommandListBackend, waits []SemaphoreBackend, signals []SemaphoreBackend, fence FenceBackend) Result
}

type CommandGroupBackend interface {
	Allocate(usage CommandListUsage) (CommandListBackend, Result)
	// Reset returns the native pool and every command list allocated from
	// it to their initial state.
	Reset() Result
}

type CommandListBackend interface {
	Begin(desc *CommandListBeginDesc) Result
	End() Result
}

type FenceBackend interface {
	// Signaled is a non-blocking status probe.
	Signaled() bool
}

// SemaphoreBackend and ResourceBackend are opaque to the core; it only
// threads them back into the backend that created them.
type SemaphoreBackend interface{}

type ResourceBackend interface{}
