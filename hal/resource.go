package hal

type ResourceType uint8

const (
	ResourceTypeBuffer ResourceType = iota
	ResourceTypeTexture1D
	ResourceTypeTexture2D
	ResourceTypeTexture3D
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeBuffer:
		return "Buffer"
	case ResourceTypeTexture1D:
		return "Texture1D"
	case ResourceTypeTexture2D:
		return "Texture2D"
	case ResourceTypeTexture3D:
		return "Texture3D"
	}
	return "Unknown"
}

type ResourceUsageFlags uint32

const (
	ResourceUsageTransferSrc ResourceUsageFlags = 1 << iota
	ResourceUsageTransferDst
	ResourceUsageSampled
	ResourceUsageShaderWrite
	ResourceUsageColorAttachment
	ResourceUsageDepthStencil
)

// textureOnlyUsage are usage bits that have no meaning on buffers.
const textureOnlyUsage = ResourceUsageSampled | ResourceUsageColorAttachment | ResourceUsageDepthStencil

type MemoryType uint8

const (
	// MemoryTypeLocal is device-local memory, fastest for GPU access.
	MemoryTypeLocal MemoryType = iota
	// MemoryTypeUpload is host-visible write-through memory for CPU → GPU
	// transfers.
	MemoryTypeUpload
	// MemoryTypeRead is host-visible cached memory for GPU → CPU readback.
	MemoryTypeRead
)

func (t MemoryType) String() string {
	switch t {
	case MemoryTypeLocal:
		return "Local"
	case MemoryTypeUpload:
		return "Upload"
	case MemoryTypeRead:
		return "Read"
	}
	return "Unknown"
}

type ResourceState uint8

const (
	ResourceStateGeneral ResourceState = iota
	ResourceStateUpload
	ResourceStateColorAttachment
	ResourceStateDepthStencilAttachment
	ResourceStateShaderReadOnly
	ResourceStateShaderReadWrite
	ResourceStateTransferSrc
	ResourceStateTransferDst
)

func (s ResourceState) String() string {
	switch s {
	case ResourceStateGeneral:
		return "General"
	case ResourceStateUpload:
		return "Upload"
	case ResourceStateColorAttachment:
		return "ColorAttachment"
	case ResourceStateDepthStencilAttachment:
		return "DepthStencilAttachment"
	case ResourceStateShaderReadOnly:
		return "ShaderReadOnly"
	case ResourceStateShaderReadWrite:
		return "ShaderReadWrite"
	case ResourceStateTransferSrc:
		return "TransferSrc"
	case ResourceStateTransferDst:
		return "TransferDst"
	}
	return "Unknown"
}

// requiredUsage maps a resource state to the usage bit that must be set
// for a resource to ever be in that state. Zero means no requirement.
func (s ResourceState) requiredUsage() ResourceUsageFlags {
	switch s {
	case ResourceStateColorAttachment:
		return ResourceUsageColorAttachment
	case ResourceStateDepthStencilAttachment:
		return ResourceUsageDepthStencil
	case ResourceStateShaderReadOnly:
		return ResourceUsageSampled
	case ResourceStateShaderReadWrite:
		return ResourceUsageShaderWrite
	case ResourceStateTransferSrc:
		return ResourceUsageTransferSrc
	case ResourceStateTransferDst:
		return ResourceUsageTransferDst
	}
	return 0
}

type Format uint8

const (
	FormatUndefined Format = iota
	FormatRGBA8Unorm
	FormatRGBA8sRGB
	FormatBGRA8Unorm
	FormatRGBA16Float
	FormatRGBA32Float
	FormatD24UnormS8UInt
	FormatD32Float
)

func (f Format) String() string {
	switch f {
	case FormatUndefined:
		return "Undefined"
	case FormatRGBA8Unorm:
		return "RGBA8Unorm"
	case FormatRGBA8sRGB:
		return "RGBA8sRGB"
	case FormatBGRA8Unorm:
		return "BGRA8Unorm"
	case FormatRGBA16Float:
		return "RGBA16Float"
	case FormatRGBA32Float:
		return "RGBA32Float"
	case FormatD24UnormS8UInt:
		return "D24UnormS8UInt"
	case FormatD32Float:
		return "D32Float"
	}
	return "Unknown"
}

// IsDepthStencil reports whether the format carries depth/stencil data.
func (f Format) IsDepthStencil() bool {
	return f == FormatD24UnormS8UInt || f == FormatD32Float
}

type SampleCount uint8

const (
	SampleCount1  SampleCount = 1
	SampleCount2  SampleCount = 2
	SampleCount4  SampleCount = 4
	SampleCount8  SampleCount = 8
	SampleCount16 SampleCount = 16
)

// ResourceDesc describes a buffer or texture. For buffers, Width is the
// size in bytes and the texture fields are ignored. The resource is
// created already in InitialState; the HAL performs no state transitions
// afterwards.
type ResourceDesc struct {
	Type         ResourceType
	Usage        ResourceUsageFlags
	MemoryType   MemoryType
	InitialState ResourceState

	CreateNodeMask  uint32
	VisibleNodeMask uint32

	Width              uint64
	Height             uint32
	DepthOrArrayLayers uint32
	MipLevels          uint32
	SampleCount        SampleCount
	Format             Format
}

// BufferDesc is a shorthand for a buffer descriptor of the given size.
func BufferDesc(usage ResourceUsageFlags, memoryType MemoryType, initialState ResourceState, size uint64) ResourceDesc {
	return ResourceDesc{
		Type:         ResourceTypeBuffer,
		Usage:        usage,
		MemoryType:   memoryType,
		InitialState: initialState,
		Width:        size,
	}
}

func (desc *ResourceDesc) validate(messenger *Messenger) Result {
	if desc.Usage == 0 {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateResource: usage flags must not be empty")
		return ErrorInvalidUsage
	}
	if desc.MemoryType > MemoryTypeRead {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateResource: unknown memory type %d", desc.MemoryType)
		return ErrorInvalidUsage
	}
	if desc.MemoryType == MemoryTypeUpload && desc.InitialState != ResourceStateUpload {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateResource: Upload memory requires the Upload initial state, got %s", desc.InitialState)
		return ErrorInvalidUsage
	}
	if required := desc.InitialState.requiredUsage(); required != 0 && desc.Usage&required == 0 {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateResource: initial state %s requires usage %b", desc.InitialState, required)
		return ErrorInvalidUsage
	}

	switch desc.Type {
	case ResourceTypeBuffer:
		if desc.Width == 0 {
			messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"CreateResource: buffer size must be non-zero")
			return ErrorInvalidUsage
		}
		if desc.Usage&textureOnlyUsage != 0 && desc.Usage&textureOnlyUsage != ResourceUsageSampled {
			messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"CreateResource: attachment usage flags are invalid on buffers")
			return ErrorInvalidUsage
		}
	case ResourceTypeTexture1D, ResourceTypeTexture2D, ResourceTypeTexture3D:
		return desc.validateTexture(messenger)
	default:
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateResource: unknown resource type %d", desc.Type)
		return ErrorInvalidUsage
	}
	return Success
}

func (desc *ResourceDesc) validateTexture(messenger *Messenger) Result {
	if desc.Width == 0 || desc.Height == 0 || desc.DepthOrArrayLayers == 0 {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateResource: texture dimensions %dx%dx%d must be non-zero",
			desc.Width, desc.Height, desc.DepthOrArrayLayers)
		return ErrorInvalidUsage
	}
	if desc.MipLevels == 0 {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateResource: texture mip levels must be non-zero")
		return ErrorInvalidUsage
	}
	switch desc.SampleCount {
	case SampleCount1, SampleCount2, SampleCount4, SampleCount8, SampleCount16:
	default:
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateResource: invalid sample count %d", desc.SampleCount)
		return ErrorInvalidUsage
	}
	if desc.SampleCount != SampleCount1 && desc.MipLevels != 1 {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateResource: multisampled textures must have exactly one mip level")
		return ErrorInvalidUsage
	}
	if desc.Format == FormatUndefined {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateResource: texture format must not be Undefined")
		return ErrorInvalidUsage
	}
	if desc.Usage&ResourceUsageDepthStencil != 0 && !desc.Format.IsDepthStencil() {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateResource: depth/stencil usage requires a depth format, got %s", desc.Format)
		return ErrorInvalidUsage
	}
	if desc.Usage&ResourceUsageColorAttachment != 0 && desc.Format.IsDepthStencil() {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"CreateResource: color attachment usage is invalid on depth format %s", desc.Format)
		return ErrorInvalidUsage
	}
	return Success
}

// Resource is a memory-backed buffer or texture. The HAL records the
// state the resource was created in; every transition after that is the
// caller's responsibility and must be synchronized through queue
// submissions.
type Resource struct {
	device  *Device
	backend ResourceBackend

	desc  ResourceDesc
	state ResourceState
}

func (r *Resource) Desc() ResourceDesc { return r.desc }
func (r *Resource) Type() ResourceType { return r.desc.Type }

// State returns the declared current state. The HAL never changes it; use
// SetState to mirror transitions the caller recorded itself.
func (r *Resource) State() ResourceState { return r.state }

// SetState records a caller-managed state transition. The HAL does not
// insert any barrier; this is bookkeeping only.
func (r *Resource) SetState(state ResourceState) {
	r.state = state
}
