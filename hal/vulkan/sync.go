package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/hal"
)

type fenceBackend struct {
	device vk.Device
	handle vk.Fence
}

func (d *deviceBackend) CreateFence(signaled bool) (hal.FenceBackend, hal.Result) {
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var handle vk.Fence
	if res := vk.CreateFence(d.device, &fenceCreateInfo, nil, &handle); res != vk.Success {
		return nil, mapResult(res)
	}
	return &fenceBackend{device: d.device, handle: handle}, hal.Success
}

func (d *deviceBackend) DestroyFence(fence hal.FenceBackend) {
	f := fence.(*fenceBackend)
	if f.handle != nil {
		vk.DestroyFence(d.device, f.handle, nil)
		f.handle = nil
	}
}

func (d *deviceBackend) WaitFence(fence hal.FenceBackend, timeoutNs uint64) hal.Result {
	f := fence.(*fenceBackend)
	result := vk.WaitForFences(d.device, 1, []vk.Fence{f.handle}, vk.True, timeoutNs)
	switch result {
	case vk.Success:
		return hal.Success
	case vk.Timeout:
		return hal.Timeout
	case vk.ErrorDeviceLost:
		d.messenger.Emit(hal.MessageSeverityError, hal.MessageSourceImplementation, "vkWaitForFences reported a lost device")
		return hal.ErrorDeviceLost
	default:
		return mapResult(result)
	}
}

func (d *deviceBackend) ResetFence(fence hal.FenceBackend) hal.Result {
	f := fence.(*fenceBackend)
	if res := vk.ResetFences(d.device, 1, []vk.Fence{f.handle}); res != vk.Success {
		return mapResult(res)
	}
	return hal.Success
}

func (f *fenceBackend) Signaled() bool {
	return vk.GetFenceStatus(f.device, f.handle) == vk.Success
}

type semaphoreBackend struct {
	handle vk.Semaphore
}

func (d *deviceBackend) CreateSemaphore() (hal.SemaphoreBackend, hal.Result) {
	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	var handle vk.Semaphore
	if res := vk.CreateSemaphore(d.device, &semaphoreCreateInfo, nil, &handle); res != vk.Success {
		return nil, mapResult(res)
	}
	return &semaphoreBackend{handle: handle}, hal.Success
}

func (d *deviceBackend) DestroySemaphore(semaphore hal.SemaphoreBackend) {
	s := semaphore.(*semaphoreBackend)
	if s.handle != vk.NullSemaphore {
		vk.DestroySemaphore(d.device, s.handle, nil)
		s.handle = vk.NullSemaphore
	}
}
