package vulkan

import (
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/hal"
)

type adapterBackend struct {
	physicalDevice vk.PhysicalDevice
}

// Handle keys the core's adapter cache; VkPhysicalDevice handles are
// stable for the lifetime of the native instance.
func (a *adapterBackend) Handle() uint64 {
	return uint64(uintptr(unsafe.Pointer(a.physicalDevice)))
}

func mapPhysicalDeviceType(deviceType vk.PhysicalDeviceType) hal.AdapterType {
	switch deviceType {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return hal.AdapterTypeIntegrated
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return hal.AdapterTypeDiscrete
	case vk.PhysicalDeviceTypeVirtualGpu:
		return hal.AdapterTypeVirtual
	default:
		return hal.AdapterTypeOther
	}
}

func (a *adapterBackend) QueryInfo() (hal.AdapterInfo, hal.Result) {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(a.physicalDevice, &properties)
	properties.Deref()

	name := properties.DeviceName[:]
	return hal.AdapterInfo{
		VendorID:    properties.VendorID,
		AdapterID:   properties.DeviceID,
		AdapterName: vk.ToString(name[:firstZero(name)+1]),
		AdapterType: mapPhysicalDeviceType(properties.DeviceType),
	}, hal.Success
}

func (a *adapterBackend) QueryFeatures() (hal.AdapterFeatures, hal.Result) {
	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(a.physicalDevice, &features)
	features.Deref()

	return hal.AdapterFeatures{
		SamplerAnisotropy: features.SamplerAnisotropy == vk.True,
		ShaderFloat64:     features.ShaderFloat64 == vk.True,
	}, hal.Success
}

func (a *adapterBackend) QueryNodeCount() uint8 {
	// Device groups are not exposed through this translation.
	return 1
}

// queueFamilies resolves one queue family index per HAL queue type.
// Transfer prefers the family with the fewest other capabilities, which
// increases the likelihood of a dedicated transfer engine.
func (a *adapterBackend) queueFamilies() (map[hal.QueueType]uint32, []vk.QueueFamilyProperties) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(a.physicalDevice, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(a.physicalDevice, &count, families)

	out := make(map[hal.QueueType]uint32)
	minTransferScore := 255
	for i := uint32(0); i < count; i++ {
		families[i].Deref()
		currentTransferScore := 0

		if vk.QueueFlagBits(families[i].QueueFlags)&vk.QueueGraphicsBit > 0 {
			if _, ok := out[hal.QueueTypeGraphics]; !ok {
				out[hal.QueueTypeGraphics] = i
			}
			currentTransferScore++
		}
		if vk.QueueFlagBits(families[i].QueueFlags)&vk.QueueComputeBit > 0 {
			out[hal.QueueTypeCompute] = i
			currentTransferScore++
		}
		if vk.QueueFlagBits(families[i].QueueFlags)&vk.QueueTransferBit > 0 {
			if currentTransferScore <= minTransferScore {
				minTransferScore = currentTransferScore
				out[hal.QueueTypeTransfer] = i
			}
		}
	}
	return out, families
}

func (a *adapterBackend) QueryQueueCount(queueType hal.QueueType) uint8 {
	families, properties := a.queueFamilies()
	family, ok := families[queueType]
	if !ok {
		return 0
	}
	queueCount := properties[family].QueueCount
	if queueCount > 255 {
		queueCount = 255
	}
	return uint8(queueCount)
}

func (a *adapterBackend) QueryExtensionSupport(ext hal.AdapterExtensionType) bool {
	switch ext {
	case hal.AdapterExtensionPortabilitySubset:
		return a.hasDeviceExtension(portabilitySubsetExtName)
	}
	return false
}

func (a *adapterBackend) hasDeviceExtension(name string) bool {
	var count uint32
	if res := vk.EnumerateDeviceExtensionProperties(a.physicalDevice, "", &count, nil); res != vk.Success {
		return false
	}
	extensions := make([]vk.ExtensionProperties, count)
	if res := vk.EnumerateDeviceExtensionProperties(a.physicalDevice, "", &count, extensions); res != vk.Success {
		return false
	}
	for i := range extensions {
		extensions[i].Deref()
		if name == vk.ToString(extensions[i].ExtensionName[:firstZero(extensions[i].ExtensionName[:])+1]) {
			return true
		}
	}
	return false
}
