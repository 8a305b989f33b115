package hal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/lumen/hal"
)

func validTextureDesc() hal.ResourceDesc {
	return hal.ResourceDesc{
		Type:               hal.ResourceTypeTexture2D,
		Usage:              hal.ResourceUsageTransferDst | hal.ResourceUsageSampled,
		MemoryType:         hal.MemoryTypeLocal,
		InitialState:       hal.ResourceStateTransferDst,
		Width:              1028,
		Height:             1028,
		DepthOrArrayLayers: 1,
		MipLevels:          1,
		SampleCount:        hal.SampleCount1,
		Format:             hal.FormatRGBA8sRGB,
	}
}

func TestCreateBuffer(t *testing.T) {
	_, device := newTestDevice(t)

	buffer, res := device.CreateResource(hal.BufferDesc(
		hal.ResourceUsageShaderWrite,
		hal.MemoryTypeLocal,
		hal.ResourceStateShaderReadWrite,
		64,
	))
	require.Equal(t, hal.Success, res)
	defer device.DestroyResource(buffer)

	assert.Equal(t, hal.ResourceTypeBuffer, buffer.Type())
	assert.Equal(t, hal.ResourceStateShaderReadWrite, buffer.State())
	assert.Equal(t, uint64(64), buffer.Desc().Width)
}

func TestCreateTexture(t *testing.T) {
	_, device := newTestDevice(t)

	texture, res := device.CreateResource(validTextureDesc())
	require.Equal(t, hal.Success, res)
	defer device.DestroyResource(texture)

	assert.Equal(t, hal.ResourceTypeTexture2D, texture.Type())
	assert.Equal(t, hal.ResourceStateTransferDst, texture.State())
}

func TestCreateResourceRejectsZeroDimensions(t *testing.T) {
	_, device := newTestDevice(t)

	desc := validTextureDesc()
	desc.Height = 0
	_, res := device.CreateResource(desc)
	assert.Equal(t, hal.ErrorInvalidUsage, res)

	_, res = device.CreateResource(hal.BufferDesc(
		hal.ResourceUsageTransferDst, hal.MemoryTypeLocal, hal.ResourceStateTransferDst, 0,
	))
	assert.Equal(t, hal.ErrorInvalidUsage, res)
}

func TestCreateResourceRejectsZeroMips(t *testing.T) {
	_, device := newTestDevice(t)

	desc := validTextureDesc()
	desc.MipLevels = 0
	_, res := device.CreateResource(desc)
	assert.Equal(t, hal.ErrorInvalidUsage, res)
}

func TestCreateResourceRejectsEmptyUsage(t *testing.T) {
	_, device := newTestDevice(t)

	desc := validTextureDesc()
	desc.Usage = 0
	_, res := device.CreateResource(desc)
	assert.Equal(t, hal.ErrorInvalidUsage, res)
}

func TestUploadMemoryRequiresUploadState(t *testing.T) {
	_, device := newTestDevice(t)

	_, res := device.CreateResource(hal.BufferDesc(
		hal.ResourceUsageTransferSrc,
		hal.MemoryTypeUpload,
		hal.ResourceStateTransferSrc,
		256,
	))
	assert.Equal(t, hal.ErrorInvalidUsage, res)

	buffer, res := device.CreateResource(hal.BufferDesc(
		hal.ResourceUsageTransferSrc,
		hal.MemoryTypeUpload,
		hal.ResourceStateUpload,
		256,
	))
	require.Equal(t, hal.Success, res)
	device.DestroyResource(buffer)
}

func TestInitialStateRequiresMatchingUsage(t *testing.T) {
	_, device := newTestDevice(t)

	// TransferSrc state without TransferSrc usage.
	desc := validTextureDesc()
	desc.InitialState = hal.ResourceStateTransferSrc
	_, res := device.CreateResource(desc)
	assert.Equal(t, hal.ErrorInvalidUsage, res)
}

func TestDepthStencilFormatRules(t *testing.T) {
	_, device := newTestDevice(t)

	// Depth usage on a color format.
	desc := validTextureDesc()
	desc.Usage = hal.ResourceUsageDepthStencil
	desc.InitialState = hal.ResourceStateDepthStencilAttachment
	_, res := device.CreateResource(desc)
	assert.Equal(t, hal.ErrorInvalidUsage, res)

	// Color attachment usage on a depth format.
	desc = validTextureDesc()
	desc.Usage = hal.ResourceUsageColorAttachment
	desc.InitialState = hal.ResourceStateColorAttachment
	desc.Format = hal.FormatD32Float
	_, res = device.CreateResource(desc)
	assert.Equal(t, hal.ErrorInvalidUsage, res)

	// Matching pairs work.
	desc = validTextureDesc()
	desc.Usage = hal.ResourceUsageDepthStencil
	desc.InitialState = hal.ResourceStateDepthStencilAttachment
	desc.Format = hal.FormatD24UnormS8UInt
	depth, res := device.CreateResource(desc)
	require.Equal(t, hal.Success, res)
	device.DestroyResource(depth)
}

func TestMultisampledTexturesAreSingleMip(t *testing.T) {
	_, device := newTestDevice(t)

	desc := validTextureDesc()
	desc.SampleCount = hal.SampleCount4
	desc.MipLevels = 2
	_, res := device.CreateResource(desc)
	assert.Equal(t, hal.ErrorInvalidUsage, res)
}

func TestBufferRejectsAttachmentUsage(t *testing.T) {
	_, device := newTestDevice(t)

	_, res := device.CreateResource(hal.BufferDesc(
		hal.ResourceUsageColorAttachment,
		hal.MemoryTypeLocal,
		hal.ResourceStateColorAttachment,
		64,
	))
	assert.Equal(t, hal.ErrorInvalidUsage, res)
}

func TestResourceStateIsBookkeepingOnly(t *testing.T) {
	_, device := newTestDevice(t)

	texture, res := device.CreateResource(validTextureDesc())
	require.Equal(t, hal.Success, res)
	defer device.DestroyResource(texture)

	require.Equal(t, hal.ResourceStateTransferDst, texture.State())
	texture.SetState(hal.ResourceStateShaderReadOnly)
	assert.Equal(t, hal.ResourceStateShaderReadOnly, texture.State())
}
