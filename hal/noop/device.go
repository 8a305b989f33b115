package noop

import (
	"github.com/spaghettifunk/lumen/hal"
)

type deviceBackend struct {
	messenger  *hal.Messenger
	validation bool

	queues map[hal.QueueType][]*queueBackend
}

func (d *deviceBackend) GetQueue(queueType hal.QueueType, index uint8) (hal.QueueBackend, hal.Result) {
	table := d.queues[queueType]
	if int(index) >= len(table) {
		return nil, hal.ErrorInvalidUsage
	}
	return table[index], hal.Success
}

func (d *deviceBackend) CreateCommandGroup(queueType hal.QueueType) (hal.CommandGroupBackend, hal.Result) {
	return &commandGroup{}, hal.Success
}

func (d *deviceBackend) DestroyCommandGroup(group hal.CommandGroupBackend) {}

func (d *deviceBackend) CreateFence(signaled bool) (hal.FenceBackend, hal.Result) {
	return newFence(signaled), hal.Success
}

func (d *deviceBackend) DestroyFence(fence hal.FenceBackend) {}

func (d *deviceBackend) WaitFence(fb hal.FenceBackend, timeoutNs uint64) hal.Result {
	return fb.(*fence).wait(timeoutNs)
}

func (d *deviceBackend) ResetFence(fb hal.FenceBackend) hal.Result {
	fb.(*fence).reset()
	return hal.Success
}

func (d *deviceBackend) CreateSemaphore() (hal.SemaphoreBackend, hal.Result) {
	return &semaphore{}, hal.Success
}

func (d *deviceBackend) DestroySemaphore(semaphore hal.SemaphoreBackend) {}

func (d *deviceBackend) CreateResource(desc *hal.ResourceDesc) (hal.ResourceBackend, hal.Result) {
	size := desc.Width
	if desc.Type != hal.ResourceTypeBuffer {
		// Rough footprint; the noop backend never reads it back.
		size = desc.Width * uint64(desc.Height) * uint64(desc.DepthOrArrayLayers) * 4
	}
	return &resource{size: size}, hal.Success
}

func (d *deviceBackend) DestroyResource(resource hal.ResourceBackend) {}

func (d *deviceBackend) Destroy() {
	d.queues = nil
}

type queueBackend struct {
	device    *deviceBackend
	queueType hal.QueueType
}

// Submit executes the submission synchronously: waits consume their
// semaphores, then every signal semaphore and the fence are marked
// signaled. Command list contents are discarded.
func (q *queueBackend) Submit(lists []hal.CommandListBackend, waits []hal.SemaphoreBackend, signals []hal.SemaphoreBackend, fb hal.FenceBackend) hal.Result {
	for _, w := range waits {
		if !w.(*semaphore).consume() && q.device.validation {
			q.device.messenger.Emit(hal.MessageSeverityWarning, hal.MessageSourceImplementation,
				"noop: submission waits on an unsignaled semaphore; on a real device this would stall the %s queue", q.queueType)
		}
	}
	for _, s := range signals {
		s.(*semaphore).signal()
	}
	if fb != nil {
		fb.(*fence).signal()
	}
	return hal.Success
}

type commandGroup struct{}

func (g *commandGroup) Allocate(usage hal.CommandListUsage) (hal.CommandListBackend, hal.Result) {
	return &commandList{}, hal.Success
}

func (g *commandGroup) Reset() hal.Result { return hal.Success }

type commandList struct{}

func (l *commandList) Begin(desc *hal.CommandListBeginDesc) hal.Result { return hal.Success }
func (l *commandList) End() hal.Result                                 { return hal.Success }

type resource struct {
	size uint64
}
