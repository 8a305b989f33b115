package hal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/lumen/hal"
)

func TestResultClassification(t *testing.T) {
	assert.False(t, hal.Success.IsError())
	assert.False(t, hal.Timeout.IsError())
	assert.False(t, hal.NotReady.IsError())

	assert.True(t, hal.ErrorInvalidUsage.IsError())
	assert.True(t, hal.ErrorDeviceLost.IsError())
	assert.True(t, hal.ErrorUnknown.IsError())
}

func TestResultErrBridge(t *testing.T) {
	assert.NoError(t, hal.Success.Err())

	// Informational outcomes still produce an error through the bridge;
	// only Success maps to nil.
	assert.Error(t, hal.Timeout.Err())
	assert.ErrorContains(t, hal.ErrorDeviceRemoved.Err(), "ErrorDeviceRemoved")
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "Success", hal.Success.String())
	assert.Equal(t, "ErrorOutOfDeviceMemory", hal.ErrorOutOfDeviceMemory.String())
	assert.Equal(t, "Result(99)", hal.Result(99).String())
}
