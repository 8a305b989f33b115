package hal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/hal"
	"github.com/spaghettifunk/lumen/hal/noop"
)

func newTestDevice(t *testing.T, queues ...hal.QueueDesc) (*hal.Instance, *hal.Device) {
	t.Helper()
	instance := newTestInstance(t, noop.New())

	adapters, res := instance.EnumerateAdapters()
	require.Equal(t, hal.Success, res)
	require.Len(t, adapters, 1)

	device, res := instance.CreateDevice(hal.DeviceDesc{
		Adapter: adapters[0],
		Queues:  queues,
	})
	require.Equal(t, hal.Success, res)
	require.NotNil(t, device)
	t.Cleanup(func() { instance.DestroyDevice(device) })
	return instance, device
}

func TestCreateDeviceDefaultQueueSet(t *testing.T) {
	_, device := newTestDevice(t)

	queue, res := device.GetQueue(hal.QueueTypeGraphics, 0)
	require.Equal(t, hal.Success, res)
	assert.Equal(t, hal.QueueTypeGraphics, queue.Type())
	assert.Equal(t, hal.QueuePriorityNormal, queue.Priority())
	assert.Equal(t, uint8(0), queue.Index())
}

func TestGetQueueOutOfRange(t *testing.T) {
	_, device := newTestDevice(t)

	_, res := device.GetQueue(hal.QueueTypeGraphics, 1)
	assert.Equal(t, hal.ErrorInvalidUsage, res)

	// No compute queues were declared even though the adapter has them.
	_, res = device.GetQueue(hal.QueueTypeCompute, 0)
	assert.Equal(t, hal.ErrorInvalidUsage, res)
}

func TestGetQueueStableHandles(t *testing.T) {
	_, device := newTestDevice(t,
		hal.QueueDesc{Type: hal.QueueTypeCompute, Priority: hal.QueuePriorityNormal},
		hal.QueueDesc{Type: hal.QueueTypeCompute, Priority: hal.QueuePriorityHigh},
	)

	first, res := device.GetQueue(hal.QueueTypeCompute, 1)
	require.Equal(t, hal.Success, res)
	second, res := device.GetQueue(hal.QueueTypeCompute, 1)
	require.Equal(t, hal.Success, res)

	assert.Same(t, first, second)
	assert.Equal(t, hal.QueuePriorityHigh, first.Priority())
}

func TestCreateDeviceTooManyQueues(t *testing.T) {
	instance := newTestInstance(t, noop.New())
	adapters, _ := instance.EnumerateAdapters()
	require.Len(t, adapters, 1)

	// The default noop adapter exposes a single graphics queue.
	device, res := instance.CreateDevice(hal.DeviceDesc{
		Adapter: adapters[0],
		Queues: []hal.QueueDesc{
			{Type: hal.QueueTypeGraphics},
			{Type: hal.QueueTypeGraphics},
		},
	})
	assert.Equal(t, hal.ErrorInvalidUsage, res)
	assert.Nil(t, device)
}

func TestCreateDeviceUnsupportedFeature(t *testing.T) {
	instance := newTestInstance(t, noop.New())
	adapters, _ := instance.EnumerateAdapters()
	require.Len(t, adapters, 1)

	device, res := instance.CreateDevice(hal.DeviceDesc{
		Adapter:  adapters[0],
		Features: hal.AdapterFeatures{ShaderFloat64: true},
	})
	assert.Equal(t, hal.ErrorFeatureNotSupported, res)
	assert.Nil(t, device)
}

func TestCreateDeviceUnsupportedExtension(t *testing.T) {
	instance := newTestInstance(t, noop.New())
	adapters, _ := instance.EnumerateAdapters()
	require.Len(t, adapters, 1)

	device, res := instance.CreateDevice(hal.DeviceDesc{
		Adapter: adapters[0],
		Extensions: []hal.AdapterExtension{
			hal.WithPortabilitySubset(hal.PortabilitySubsetExt{Enable: true}),
		},
	})
	assert.Equal(t, hal.ErrorExtensionNotSupported, res)
	assert.Nil(t, device)
}

func TestCreateCommandGroupUndeclaredQueueType(t *testing.T) {
	_, device := newTestDevice(t) // graphics only

	group, res := device.CreateCommandGroup(hal.QueueTypeTransfer)
	assert.Equal(t, hal.ErrorInvalidUsage, res)
	assert.Nil(t, group)
}

func TestDestroyDeviceNil(t *testing.T) {
	instance := newTestInstance(t, noop.New())
	assert.NotPanics(t, func() { instance.DestroyDevice(nil) })
}
