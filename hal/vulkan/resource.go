package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/hal"
)

type resourceBackend struct {
	buffer vk.Buffer
	image  vk.Image
	memory vk.DeviceMemory
}

func mapFormat(f hal.Format) vk.Format {
	switch f {
	case hal.FormatRGBA8Unorm:
		return vk.FormatR8g8b8a8Unorm
	case hal.FormatRGBA8sRGB:
		return vk.FormatR8g8b8a8Srgb
	case hal.FormatBGRA8Unorm:
		return vk.FormatB8g8r8a8Unorm
	case hal.FormatRGBA16Float:
		return vk.FormatR16g16b16a16Sfloat
	case hal.FormatRGBA32Float:
		return vk.FormatR32g32b32a32Sfloat
	case hal.FormatD24UnormS8UInt:
		return vk.FormatD24UnormS8Uint
	case hal.FormatD32Float:
		return vk.FormatD32Sfloat
	default:
		return vk.FormatUndefined
	}
}

func mapSampleCount(c hal.SampleCount) vk.SampleCountFlagBits {
	switch c {
	case hal.SampleCount2:
		return vk.SampleCount2Bit
	case hal.SampleCount4:
		return vk.SampleCount4Bit
	case hal.SampleCount8:
		return vk.SampleCount8Bit
	case hal.SampleCount16:
		return vk.SampleCount16Bit
	default:
		return vk.SampleCount1Bit
	}
}

func mapImageType(t hal.ResourceType) vk.ImageType {
	switch t {
	case hal.ResourceTypeTexture1D:
		return vk.ImageType1d
	case hal.ResourceTypeTexture3D:
		return vk.ImageType3d
	default:
		return vk.ImageType2d
	}
}

func mapBufferUsage(usage hal.ResourceUsageFlags) vk.BufferUsageFlags {
	var flags vk.BufferUsageFlagBits
	if usage&hal.ResourceUsageTransferSrc != 0 {
		flags |= vk.BufferUsageTransferSrcBit
	}
	if usage&hal.ResourceUsageTransferDst != 0 {
		flags |= vk.BufferUsageTransferDstBit
	}
	if usage&hal.ResourceUsageSampled != 0 {
		flags |= vk.BufferUsageUniformTexelBufferBit
	}
	if usage&hal.ResourceUsageShaderWrite != 0 {
		flags |= vk.BufferUsageStorageBufferBit
	}
	return vk.BufferUsageFlags(flags)
}

func mapImageUsage(usage hal.ResourceUsageFlags) vk.ImageUsageFlags {
	var flags vk.ImageUsageFlagBits
	if usage&hal.ResourceUsageTransferSrc != 0 {
		flags |= vk.ImageUsageTransferSrcBit
	}
	if usage&hal.ResourceUsageTransferDst != 0 {
		flags |= vk.ImageUsageTransferDstBit
	}
	if usage&hal.ResourceUsageSampled != 0 {
		flags |= vk.ImageUsageSampledBit
	}
	if usage&hal.ResourceUsageShaderWrite != 0 {
		flags |= vk.ImageUsageStorageBit
	}
	if usage&hal.ResourceUsageColorAttachment != 0 {
		flags |= vk.ImageUsageColorAttachmentBit
	}
	if usage&hal.ResourceUsageDepthStencil != 0 {
		flags |= vk.ImageUsageDepthStencilAttachmentBit
	}
	return vk.ImageUsageFlags(flags)
}

func (d *deviceBackend) CreateResource(desc *hal.ResourceDesc) (hal.ResourceBackend, hal.Result) {
	if desc.Type == hal.ResourceTypeBuffer {
		return d.createBuffer(desc)
	}
	return d.createImage(desc)
}

func (d *deviceBackend) createBuffer(desc *hal.ResourceDesc) (hal.ResourceBackend, hal.Result) {
	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(desc.Width),
		Usage:       mapBufferUsage(desc.Usage),
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	if res := vk.CreateBuffer(d.device, &bufferCreateInfo, nil, &buffer); res != vk.Success {
		return nil, mapResult(res)
	}

	var memoryRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.device, buffer, &memoryRequirements)
	memoryRequirements.Deref()

	memory, result := d.allocate(memoryRequirements, desc.MemoryType)
	if result != hal.Success {
		vk.DestroyBuffer(d.device, buffer, nil)
		return nil, result
	}

	if res := vk.BindBufferMemory(d.device, buffer, memory, 0); res != vk.Success {
		vk.FreeMemory(d.device, memory, nil)
		vk.DestroyBuffer(d.device, buffer, nil)
		return nil, mapResult(res)
	}
	return &resourceBackend{buffer: buffer, memory: memory}, hal.Success
}

func (d *deviceBackend) createImage(desc *hal.ResourceDesc) (hal.ResourceBackend, hal.Result) {
	depth := uint32(1)
	arrayLayers := desc.DepthOrArrayLayers
	if desc.Type == hal.ResourceTypeTexture3D {
		depth = desc.DepthOrArrayLayers
		arrayLayers = 1
	}

	imageCreateInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: mapImageType(desc.Type),
		Format:    mapFormat(desc.Format),
		Extent: vk.Extent3D{
			Width:  uint32(desc.Width),
			Height: desc.Height,
			Depth:  depth,
		},
		MipLevels:   desc.MipLevels,
		ArrayLayers: arrayLayers,
		Samples:     mapSampleCount(desc.SampleCount),
		Tiling:      vk.ImageTilingOptimal,
		Usage:       mapImageUsage(desc.Usage),
		SharingMode: vk.SharingModeExclusive,
		// The wrapping layer records the declared initial state; native
		// images still start undefined until the first transition.
		InitialLayout: vk.ImageLayoutUndefined,
	}

	var image vk.Image
	if res := vk.CreateImage(d.device, &imageCreateInfo, nil, &image); res != vk.Success {
		return nil, mapResult(res)
	}

	var memoryRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.device, image, &memoryRequirements)
	memoryRequirements.Deref()

	memory, result := d.allocate(memoryRequirements, desc.MemoryType)
	if result != hal.Success {
		vk.DestroyImage(d.device, image, nil)
		return nil, result
	}

	if res := vk.BindImageMemory(d.device, image, memory, 0); res != vk.Success {
		vk.FreeMemory(d.device, memory, nil)
		vk.DestroyImage(d.device, image, nil)
		return nil, mapResult(res)
	}
	return &resourceBackend{image: image, memory: memory}, hal.Success
}

func (d *deviceBackend) allocate(requirements vk.MemoryRequirements, memoryType hal.MemoryType) (vk.DeviceMemory, hal.Result) {
	memoryIndex := d.findMemoryIndex(requirements.MemoryTypeBits, memoryPropertyFlags(memoryType))
	if memoryIndex < 0 {
		d.messenger.Emit(hal.MessageSeverityError, hal.MessageSourceImplementation,
			"no native memory type satisfies %s placement", memoryType)
		return nil, hal.ErrorOutOfDeviceMemory
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: uint32(memoryIndex),
	}

	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(d.device, &allocateInfo, nil, &memory); res != vk.Success {
		return nil, mapResult(res)
	}
	return memory, hal.Success
}

func (d *deviceBackend) DestroyResource(resource hal.ResourceBackend) {
	r := resource.(*resourceBackend)
	if r.buffer != vk.NullBuffer {
		vk.DestroyBuffer(d.device, r.buffer, nil)
		r.buffer = vk.NullBuffer
	}
	if r.image != vk.NullImage {
		vk.DestroyImage(d.device, r.image, nil)
		r.image = vk.NullImage
	}
	if r.memory != vk.NullDeviceMemory {
		vk.FreeMemory(d.device, r.memory, nil)
		r.memory = vk.NullDeviceMemory
	}
}
