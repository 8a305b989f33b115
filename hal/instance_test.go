package hal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/hal"
	"github.com/spaghettifunk/lumen/hal/noop"
)

func newTestInstance(t *testing.T, backend *noop.Backend) *hal.Instance {
	t.Helper()
	instance, res := hal.CreateInstance(backend, hal.InstanceDesc{
		ApplicationName: "hal test",
		Extensions: []hal.InstanceExtension{
			hal.WithDriverValidation(hal.DriverValidationExt{Enable: true}),
		},
	})
	require.Equal(t, hal.Success, res)
	require.NotNil(t, instance)
	t.Cleanup(func() { hal.DestroyInstance(instance) })
	return instance
}

func TestCreateInstanceNilBackend(t *testing.T) {
	instance, res := hal.CreateInstance(nil, hal.InstanceDesc{})
	assert.Equal(t, hal.ErrorInvalidUsage, res)
	assert.Nil(t, instance)
}

func TestCreateInstanceUnsupportedExtension(t *testing.T) {
	// The noop backend has no driver to run GPU-assisted validation on.
	instance, res := hal.CreateInstance(noop.New(), hal.InstanceDesc{
		Extensions: []hal.InstanceExtension{
			hal.WithGPUValidation(hal.GPUValidationExt{Enable: true}),
		},
	})
	assert.Equal(t, hal.ErrorExtensionNotSupported, res)
	assert.Nil(t, instance)
}

func TestCreateInstanceDuplicateExtension(t *testing.T) {
	instance, res := hal.CreateInstance(noop.New(), hal.InstanceDesc{
		Extensions: []hal.InstanceExtension{
			hal.WithDriverValidation(hal.DriverValidationExt{Enable: true}),
			hal.WithDriverValidation(hal.DriverValidationExt{Enable: true}),
		},
	})
	assert.Equal(t, hal.ErrorInvalidUsage, res)
	assert.Nil(t, instance)
}

func TestExtensionActivationIsAllOrNothing(t *testing.T) {
	// One unsupported extension fails the call; the supported one must not
	// linger as activated on a later instance.
	backend := noop.New()
	instance, res := hal.CreateInstance(backend, hal.InstanceDesc{
		Extensions: []hal.InstanceExtension{
			hal.WithDriverValidation(hal.DriverValidationExt{Enable: true}),
			hal.WithGPUValidation(hal.GPUValidationExt{Enable: true}),
		},
	})
	require.Equal(t, hal.ErrorExtensionNotSupported, res)
	require.Nil(t, instance)

	instance, res = hal.CreateInstance(backend, hal.InstanceDesc{})
	require.Equal(t, hal.Success, res)
	defer hal.DestroyInstance(instance)
	assert.False(t, instance.ExtensionEnabled(hal.InstanceExtensionDriverValidation))
}

func TestDestroyInstanceNil(t *testing.T) {
	assert.NotPanics(t, func() { hal.DestroyInstance(nil) })
}

func TestAdapterIdentityAcrossEnumerations(t *testing.T) {
	instance := newTestInstance(t, noop.New())

	first, res := instance.EnumerateAdapters()
	require.Equal(t, hal.Success, res)
	require.Len(t, first, 1)

	second, res := instance.EnumerateAdapters()
	require.Equal(t, hal.Success, res)
	require.Len(t, second, 1)

	assert.Same(t, first[0], second[0])
}

func TestAdapterLossIsTaggedNotDropped(t *testing.T) {
	backend := noop.New()
	instance := newTestInstance(t, backend)

	adapters, res := instance.EnumerateAdapters()
	require.Equal(t, hal.Success, res)
	require.Len(t, adapters, 1)
	adapter := adapters[0]
	assert.False(t, adapter.Lost())

	require.True(t, backend.RemoveAdapter("Lumen Noop Adapter"))

	adapters, res = instance.EnumerateAdapters()
	require.Equal(t, hal.Success, res)
	assert.Empty(t, adapters)

	// The old object survives, tagged lost, and every query fails.
	assert.True(t, adapter.Lost())
	_, res = adapter.QueryInfo()
	assert.Equal(t, hal.ErrorDeviceRemoved, res)
	_, res = adapter.QueryFeatures()
	assert.Equal(t, hal.ErrorDeviceRemoved, res)
	assert.False(t, adapter.QueryExtensionSupport(hal.AdapterExtensionPortabilitySubset))
}

func TestLostAdapterReturnsOnReplug(t *testing.T) {
	backend := noop.New()
	instance := newTestInstance(t, backend)

	adapters, _ := instance.EnumerateAdapters()
	require.Len(t, adapters, 1)
	original := adapters[0]

	require.True(t, backend.RemoveAdapter("Lumen Noop Adapter"))
	adapters, _ = instance.EnumerateAdapters()
	require.Empty(t, adapters)
	require.True(t, original.Lost())

	// A new native handle is a new adapter, not the old object revived.
	backend.AddAdapter(noop.DefaultAdapter())
	adapters, _ = instance.EnumerateAdapters()
	require.Len(t, adapters, 1)
	assert.NotSame(t, original, adapters[0])
	assert.True(t, original.Lost())
}

func TestCreateDeviceOnLostAdapter(t *testing.T) {
	backend := noop.New()
	instance := newTestInstance(t, backend)

	adapters, _ := instance.EnumerateAdapters()
	require.Len(t, adapters, 1)
	adapter := adapters[0]

	require.True(t, backend.RemoveAdapter("Lumen Noop Adapter"))
	_, _ = instance.EnumerateAdapters()
	require.True(t, adapter.Lost())

	device, res := instance.CreateDevice(hal.DeviceDesc{Adapter: adapter})
	assert.Equal(t, hal.ErrorDeviceLost, res)
	assert.Nil(t, device)
}

func TestQueryNodeCountGatedByExtension(t *testing.T) {
	desc := noop.DefaultAdapter()
	desc.NodeCount = 4

	// Without the AdapterNodes extension, topology stays hidden.
	instance, res := hal.CreateInstance(noop.NewWithAdapters(desc), hal.InstanceDesc{})
	require.Equal(t, hal.Success, res)
	defer hal.DestroyInstance(instance)

	adapters, _ := instance.EnumerateAdapters()
	require.Len(t, adapters, 1)
	count, res := adapters[0].QueryNodeCount()
	require.Equal(t, hal.Success, res)
	assert.Equal(t, uint8(1), count)

	instance2, res := hal.CreateInstance(noop.NewWithAdapters(desc), hal.InstanceDesc{
		Extensions: []hal.InstanceExtension{
			hal.WithAdapterNodes(hal.AdapterNodesExt{Enable: true}),
		},
	})
	require.Equal(t, hal.Success, res)
	defer hal.DestroyInstance(instance2)

	adapters, _ = instance2.EnumerateAdapters()
	require.Len(t, adapters, 1)
	count, res = adapters[0].QueryNodeCount()
	require.Equal(t, hal.Success, res)
	assert.Equal(t, uint8(4), count)
}

func TestInstanceLifecycleDiagnosticsCarryID(t *testing.T) {
	var captured []string
	instance, res := hal.CreateInstance(noop.New(), hal.InstanceDesc{
		ApplicationName: "hal test",
		MessageCallback: func(severity hal.MessageSeverity, source hal.MessageSource, message string) {
			captured = append(captured, message)
		},
	})
	require.Equal(t, hal.Success, res)

	id := instance.ID().String()
	require.NotEmpty(t, captured)
	assert.Contains(t, captured[len(captured)-1], id)

	hal.DestroyInstance(instance)
	assert.Contains(t, captured[len(captured)-1], id)
}

func TestMessengerRecordsValidationFailures(t *testing.T) {
	var captured []string
	instance, res := hal.CreateInstance(noop.New(), hal.InstanceDesc{
		MessageCallback: func(severity hal.MessageSeverity, source hal.MessageSource, message string) {
			if severity >= hal.MessageSeverityError {
				captured = append(captured, message)
			}
		},
	})
	require.Equal(t, hal.Success, res)
	defer hal.DestroyInstance(instance)

	_, res = instance.CreateDevice(hal.DeviceDesc{Adapter: nil})
	require.Equal(t, hal.ErrorInvalidUsage, res)
	assert.NotEmpty(t, captured)

	history := instance.Messenger().RecentMessages()
	require.NotEmpty(t, history)
	assert.Equal(t, hal.MessageSeverityError, history[len(history)-1].Severity)
	assert.Equal(t, hal.MessageSourceAPI, history[len(history)-1].Source)

	// RecentMessages drains the history.
	assert.Empty(t, instance.Messenger().RecentMessages())
}
