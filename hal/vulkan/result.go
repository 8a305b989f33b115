package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/hal"
)

// mapResult translates a native vk.Result into the HAL taxonomy. Every
// native failure must pass through here before it reaches a caller.
func mapResult(result vk.Result) hal.Result {
	switch result {
	case vk.Success:
		return hal.Success
	case vk.Timeout:
		return hal.Timeout
	case vk.NotReady:
		return hal.NotReady
	case vk.ErrorOutOfHostMemory:
		return hal.ErrorOutOfHostMemory
	case vk.ErrorOutOfDeviceMemory, vk.ErrorOutOfPoolMemory:
		return hal.ErrorOutOfDeviceMemory
	case vk.ErrorDeviceLost:
		return hal.ErrorDeviceLost
	case vk.ErrorLayerNotPresent, vk.ErrorExtensionNotPresent:
		return hal.ErrorExtensionNotSupported
	case vk.ErrorFeatureNotPresent:
		return hal.ErrorFeatureNotSupported
	case vk.ErrorIncompatibleDriver:
		return hal.ErrorIncompatibleDriver
	case vk.ErrorInitializationFailed:
		return hal.ErrorInitializationFailed
	}
	return hal.ErrorUnknown
}

var end = "\x00"
var endChar byte = '\x00'

// safeString null-terminates a string for the C side of the binding.
func safeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = safeString(list[i])
	}
	return out
}

func firstZero(arr []byte) int {
	for i, b := range arr {
		if b == 0 {
			return i
		}
	}
	return 0
}
