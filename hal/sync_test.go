package hal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/hal"
)

func TestFenceCreatedSignaled(t *testing.T) {
	_, device := newTestDevice(t)

	fence, res := device.CreateFence(hal.FenceFlagSignaled)
	require.Equal(t, hal.Success, res)
	defer device.DestroyFence(fence)

	assert.True(t, fence.Signaled())
	assert.Equal(t, hal.Success, device.WaitFence(fence, hal.TimeoutInfinite))
}

func TestFenceZeroTimeoutIsNonBlockingProbe(t *testing.T) {
	_, device := newTestDevice(t)

	fence, res := device.CreateFence(hal.FenceFlagNone)
	require.Equal(t, hal.Success, res)
	defer device.DestroyFence(fence)

	assert.False(t, fence.Signaled())
	assert.Equal(t, hal.Timeout, device.WaitFence(fence, 0))
}

func TestFenceFiniteTimeoutElapses(t *testing.T) {
	_, device := newTestDevice(t)

	fence, res := device.CreateFence(hal.FenceFlagNone)
	require.Equal(t, hal.Success, res)
	defer device.DestroyFence(fence)

	start := time.Now()
	assert.Equal(t, hal.Timeout, device.WaitFence(fence, uint64(5*time.Millisecond)))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestFenceSignaledBySubmission(t *testing.T) {
	_, device := newTestDevice(t)

	fence, res := device.CreateFence(hal.FenceFlagNone)
	require.Equal(t, hal.Success, res)
	defer device.DestroyFence(fence)

	group, res := device.CreateCommandGroup(hal.QueueTypeGraphics)
	require.Equal(t, hal.Success, res)
	defer device.DestroyCommandGroup(group)

	list := newRecordedList(t, group)
	queue, res := device.GetQueue(hal.QueueTypeGraphics, 0)
	require.Equal(t, hal.Success, res)

	require.Equal(t, hal.Success, queue.Submit(hal.SubmitDesc{
		CommandLists: []*hal.CommandList{list},
		Fence:        fence,
	}))

	assert.Equal(t, hal.Success, device.WaitFence(fence, hal.TimeoutInfinite))
	assert.True(t, fence.Signaled())
}

func TestFenceResetAndReuse(t *testing.T) {
	_, device := newTestDevice(t)

	fence, res := device.CreateFence(hal.FenceFlagSignaled)
	require.Equal(t, hal.Success, res)
	defer device.DestroyFence(fence)

	require.Equal(t, hal.Success, device.WaitFence(fence, hal.TimeoutInfinite))
	require.Equal(t, hal.Success, fence.Reset())
	assert.False(t, fence.Signaled())

	// An unsignaled fence stays unsignaled after a wait that times out,
	// and resetting it again is a no-op.
	assert.Equal(t, hal.Timeout, device.WaitFence(fence, 0))
	assert.Equal(t, hal.Success, fence.Reset())
}

func TestWaitFenceDestroyed(t *testing.T) {
	_, device := newTestDevice(t)

	fence, res := device.CreateFence(hal.FenceFlagSignaled)
	require.Equal(t, hal.Success, res)
	device.DestroyFence(fence)

	assert.Equal(t, hal.ErrorInvalidUsage, device.WaitFence(fence, 0))
	assert.Equal(t, hal.ErrorInvalidUsage, device.WaitFence(nil, 0))
	assert.False(t, fence.Signaled())
}

func TestSemaphoreOrdersCrossQueueWork(t *testing.T) {
	_, device := newTestDevice(t,
		hal.QueueDesc{Type: hal.QueueTypeGraphics},
		hal.QueueDesc{Type: hal.QueueTypeCompute},
	)

	semaphore, res := device.CreateSemaphore()
	require.Equal(t, hal.Success, res)
	defer device.DestroySemaphore(semaphore)

	graphicsGroup, res := device.CreateCommandGroup(hal.QueueTypeGraphics)
	require.Equal(t, hal.Success, res)
	defer device.DestroyCommandGroup(graphicsGroup)

	computeGroup, res := device.CreateCommandGroup(hal.QueueTypeCompute)
	require.Equal(t, hal.Success, res)
	defer device.DestroyCommandGroup(computeGroup)

	graphicsList := newRecordedList(t, graphicsGroup)
	computeList := newRecordedList(t, computeGroup)

	graphics, res := device.GetQueue(hal.QueueTypeGraphics, 0)
	require.Equal(t, hal.Success, res)
	compute, res := device.GetQueue(hal.QueueTypeCompute, 0)
	require.Equal(t, hal.Success, res)

	require.Equal(t, hal.Success, graphics.Submit(hal.SubmitDesc{
		CommandLists:     []*hal.CommandList{graphicsList},
		SignalSemaphores: []*hal.Semaphore{semaphore},
	}))
	assert.Equal(t, hal.Success, compute.Submit(hal.SubmitDesc{
		WaitSemaphores: []*hal.Semaphore{semaphore},
		CommandLists:   []*hal.CommandList{computeList},
	}))
}

func TestSubmitRejectsDestroyedSyncObjects(t *testing.T) {
	_, device := newTestDevice(t)

	group, res := device.CreateCommandGroup(hal.QueueTypeGraphics)
	require.Equal(t, hal.Success, res)
	defer device.DestroyCommandGroup(group)

	list := newRecordedList(t, group)
	queue, res := device.GetQueue(hal.QueueTypeGraphics, 0)
	require.Equal(t, hal.Success, res)

	semaphore, res := device.CreateSemaphore()
	require.Equal(t, hal.Success, res)
	device.DestroySemaphore(semaphore)

	res = queue.Submit(hal.SubmitDesc{
		CommandLists:     []*hal.CommandList{list},
		SignalSemaphores: []*hal.Semaphore{semaphore},
	})
	assert.Equal(t, hal.ErrorInvalidUsage, res)

	fence, res := device.CreateFence(hal.FenceFlagNone)
	require.Equal(t, hal.Success, res)
	device.DestroyFence(fence)

	res = queue.Submit(hal.SubmitDesc{
		CommandLists: []*hal.CommandList{list},
		Fence:        fence,
	})
	assert.Equal(t, hal.ErrorInvalidUsage, res)
}
