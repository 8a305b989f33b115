package vulkan

import (
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/lumen/hal"
)

func TestMapResult(t *testing.T) {
	cases := []struct {
		native vk.Result
		want   hal.Result
	}{
		{vk.Success, hal.Success},
		{vk.Timeout, hal.Timeout},
		{vk.NotReady, hal.NotReady},
		{vk.ErrorOutOfHostMemory, hal.ErrorOutOfHostMemory},
		{vk.ErrorOutOfDeviceMemory, hal.ErrorOutOfDeviceMemory},
		{vk.ErrorOutOfPoolMemory, hal.ErrorOutOfDeviceMemory},
		{vk.ErrorDeviceLost, hal.ErrorDeviceLost},
		{vk.ErrorLayerNotPresent, hal.ErrorExtensionNotSupported},
		{vk.ErrorExtensionNotPresent, hal.ErrorExtensionNotSupported},
		{vk.ErrorFeatureNotPresent, hal.ErrorFeatureNotSupported},
		{vk.ErrorIncompatibleDriver, hal.ErrorIncompatibleDriver},
		{vk.ErrorInitializationFailed, hal.ErrorInitializationFailed},
		{vk.ErrorFragmentedPool, hal.ErrorUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, mapResult(c.native), "vk result %d", c.native)
	}
}

func TestSafeString(t *testing.T) {
	assert.Equal(t, "\x00", safeString(""))
	assert.Equal(t, "abc\x00", safeString("abc"))
	assert.Equal(t, "abc\x00", safeString("abc\x00"))

	terminated := safeStrings([]string{"a", "b\x00"})
	assert.Equal(t, []string{"a\x00", "b\x00"}, terminated)
}
