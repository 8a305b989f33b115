package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/hal"
)

type commandGroupBackend struct {
	device *deviceBackend
	pool   vk.CommandPool
}

func (d *deviceBackend) CreateCommandGroup(queueType hal.QueueType) (hal.CommandGroupBackend, hal.Result) {
	family, ok := d.families[queueType]
	if !ok {
		return nil, hal.ErrorInvalidUsage
	}

	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: family,
	}

	var pool vk.CommandPool
	if res := vk.CreateCommandPool(d.device, &poolCreateInfo, nil, &pool); res != vk.Success {
		return nil, mapResult(res)
	}
	return &commandGroupBackend{device: d, pool: pool}, hal.Success
}

func (d *deviceBackend) DestroyCommandGroup(group hal.CommandGroupBackend) {
	g := group.(*commandGroupBackend)
	if g.pool != vk.NullCommandPool {
		vk.DestroyCommandPool(d.device, g.pool, nil)
		g.pool = vk.NullCommandPool
	}
}

func (g *commandGroupBackend) Allocate(usage hal.CommandListUsage) (hal.CommandListBackend, hal.Result) {
	level := vk.CommandBufferLevelPrimary
	if usage == hal.CommandListUsageIndirect {
		level = vk.CommandBufferLevelSecondary
	}

	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        g.pool,
		CommandBufferCount: 1,
		Level:              level,
	}

	handles := make([]vk.CommandBuffer, 1)
	if res := vk.AllocateCommandBuffers(g.device.device, &allocateInfo, handles); res != vk.Success {
		return nil, mapResult(res)
	}
	return &commandListBackend{handle: handles[0]}, hal.Success
}

// Reset recycles the whole pool; every command buffer allocated from it
// returns to its initial state in one native call.
func (g *commandGroupBackend) Reset() hal.Result {
	if res := vk.ResetCommandPool(g.device.device, g.pool, 0); res != vk.Success {
		return mapResult(res)
	}
	return hal.Success
}

type commandListBackend struct {
	handle vk.CommandBuffer
}

func (l *commandListBackend) Begin(desc *hal.CommandListBeginDesc) hal.Result {
	beginInfo := &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: 0,
	}
	if res := vk.BeginCommandBuffer(l.handle, beginInfo); res != vk.Success {
		return mapResult(res)
	}
	return hal.Success
}

func (l *commandListBackend) End() hal.Result {
	if res := vk.EndCommandBuffer(l.handle); res != vk.Success {
		return mapResult(res)
	}
	return hal.Success
}

type queueBackend struct {
	device *deviceBackend
	handle vk.Queue
}

func (q *queueBackend) Submit(lists []hal.CommandListBackend, waits []hal.SemaphoreBackend, signals []hal.SemaphoreBackend, fence hal.FenceBackend) hal.Result {
	commandBuffers := make([]vk.CommandBuffer, len(lists))
	for i, l := range lists {
		commandBuffers[i] = l.(*commandListBackend).handle
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(commandBuffers)),
		PCommandBuffers:    commandBuffers,
	}

	if len(waits) > 0 {
		waitSemaphores := make([]vk.Semaphore, len(waits))
		// Each wait gates every stage of the submission; finer-grained
		// stage masks are not part of the HAL contract.
		waitStages := make([]vk.PipelineStageFlags, len(waits))
		for i, w := range waits {
			waitSemaphores[i] = w.(*semaphoreBackend).handle
			waitStages[i] = vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit)
		}
		submitInfo.WaitSemaphoreCount = uint32(len(waits))
		submitInfo.PWaitSemaphores = waitSemaphores
		submitInfo.PWaitDstStageMask = waitStages
	}

	if len(signals) > 0 {
		signalSemaphores := make([]vk.Semaphore, len(signals))
		for i, s := range signals {
			signalSemaphores[i] = s.(*semaphoreBackend).handle
		}
		submitInfo.SignalSemaphoreCount = uint32(len(signals))
		submitInfo.PSignalSemaphores = signalSemaphores
	}

	var nativeFence vk.Fence
	if fence != nil {
		nativeFence = fence.(*fenceBackend).handle
	}

	if res := vk.QueueSubmit(q.handle, 1, []vk.SubmitInfo{submitInfo}, nativeFence); res != vk.Success {
		return mapResult(res)
	}
	return hal.Success
}
