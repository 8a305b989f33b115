package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/hal"
)

type queueSlot struct {
	family uint32
	index  uint32
}

type deviceBackend struct {
	physicalDevice vk.PhysicalDevice
	device         vk.Device
	messenger      *hal.Messenger

	families map[hal.QueueType]uint32
	queues   map[hal.QueueType][]*queueBackend
}

func queuePriority(p hal.QueuePriority) float32 {
	if p == hal.QueuePriorityHigh {
		return 1.0
	}
	return 0.5
}

// CreateDevice translates the validated DeviceDesc into one logical
// device. Queue declarations that map to the same native family share it;
// no additional queues are created for shared indices.
func (i *instanceBackend) CreateDevice(ab hal.AdapterBackend, desc *hal.DeviceDesc) (hal.DeviceBackend, hal.Result) {
	adapter := ab.(*adapterBackend)
	families, _ := adapter.queueFamilies()

	// Assign a (family, slot) pair to every declared queue, in order.
	slots := make([]queueSlot, len(desc.Queues))
	perFamilyPriorities := make(map[uint32][]float32)
	for n, qd := range desc.Queues {
		family, ok := families[qd.Type]
		if !ok {
			return nil, hal.ErrorInvalidUsage
		}
		slots[n] = queueSlot{family: family, index: uint32(len(perFamilyPriorities[family]))}
		perFamilyPriorities[family] = append(perFamilyPriorities[family], queuePriority(qd.Priority))
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, 0, len(perFamilyPriorities))
	for family, priorities := range perFamilyPriorities {
		queueCreateInfos = append(queueCreateInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       uint32(len(priorities)),
			PQueuePriorities: priorities,
		})
	}

	deviceFeatures := vk.PhysicalDeviceFeatures{}
	if desc.Features.SamplerAnisotropy {
		deviceFeatures.SamplerAnisotropy = vk.True
	}
	if desc.Features.ShaderFloat64 {
		deviceFeatures.ShaderFloat64 = vk.True
	}

	extensionNames := []string{}
	for _, ext := range desc.Extensions {
		if ext.Type() == hal.AdapterExtensionPortabilitySubset && ext.PortabilitySubset().Enable {
			extensionNames = append(extensionNames, portabilitySubsetExtName)
		}
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures},
		EnabledExtensionCount:   uint32(len(extensionNames)),
		PpEnabledExtensionNames: safeStrings(extensionNames),
		// Device layers are deprecated and ignored.
		EnabledLayerCount:   0,
		PpEnabledLayerNames: nil,
	}

	var device vk.Device
	if res := vk.CreateDevice(adapter.physicalDevice, &deviceCreateInfo, nil, &device); res != vk.Success {
		return nil, mapResult(res)
	}

	dev := &deviceBackend{
		physicalDevice: adapter.physicalDevice,
		device:         device,
		messenger:      i.messenger,
		families:       families,
		queues:         make(map[hal.QueueType][]*queueBackend),
	}

	for n, qd := range desc.Queues {
		var handle vk.Queue
		vk.GetDeviceQueue(device, slots[n].family, slots[n].index, &handle)
		dev.queues[qd.Type] = append(dev.queues[qd.Type], &queueBackend{device: dev, handle: handle})
	}

	return dev, hal.Success
}

func (d *deviceBackend) GetQueue(queueType hal.QueueType, index uint8) (hal.QueueBackend, hal.Result) {
	table := d.queues[queueType]
	if int(index) >= len(table) {
		return nil, hal.ErrorInvalidUsage
	}
	return table[index], hal.Success
}

// findMemoryIndex picks a native memory type matching the filter and the
// requested property flags. Returns -1 when no type qualifies.
func (d *deviceBackend) findMemoryIndex(typeFilter, propertyFlags uint32) int32 {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.physicalDevice, &memoryProperties)
	memoryProperties.Deref()

	for i := uint32(0); i < memoryProperties.MemoryTypeCount; i++ {
		memoryProperties.MemoryTypes[i].Deref()
		if (typeFilter&(1<<i)) != 0 && (uint32(memoryProperties.MemoryTypes[i].PropertyFlags)&propertyFlags) == propertyFlags {
			return int32(i)
		}
	}
	return -1
}

func memoryPropertyFlags(memoryType hal.MemoryType) uint32 {
	switch memoryType {
	case hal.MemoryTypeUpload:
		return uint32(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	case hal.MemoryTypeRead:
		return uint32(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCachedBit)
	default:
		return uint32(vk.MemoryPropertyDeviceLocalBit)
	}
}

func (d *deviceBackend) Destroy() {
	if d.device != nil {
		vk.DeviceWaitIdle(d.device)
		vk.DestroyDevice(d.device, nil)
		d.device = nil
	}
	d.queues = nil
}
