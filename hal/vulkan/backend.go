// Package vulkan implements the Lumen HAL backend over the Vulkan API
// through the goki/vulkan binding. One translation concern per file; the
// HAL core performs all usage validation before anything lands here.
package vulkan

import (
	"sync"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/lumen/hal"
)

const (
	validationLayerName      = "VK_LAYER_KHRONOS_validation"
	validationFeaturesExt    = "VK_EXT_validation_features"
	portabilitySubsetExtName = "VK_KHR_portability_subset"
)

// The debug report callback has to be a plain function, not a closure, so
// the active messenger is held package-wide. The HAL instance is
// process-scoped, which keeps this unambiguous.
var (
	messengerMu     sync.Mutex
	activeMessenger *hal.Messenger
)

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	messengerMu.Lock()
	messenger := activeMessenger
	messengerMu.Unlock()
	if messenger == nil {
		return vk.Bool32(vk.False)
	}

	severity := hal.MessageSeverityInfo
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		severity = hal.MessageSeverityError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0,
		flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		severity = hal.MessageSeverityWarning
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		severity = hal.MessageSeverityVerbose
	}

	messenger.Emit(severity, hal.MessageSourceImplementation,
		"[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	return vk.Bool32(vk.False)
}

// Backend is the Vulkan entry point. New loads the loader entry points
// once; creation calls happen later through the HAL.
type Backend struct {
	initErr error
}

// New prepares the Vulkan loader. GLFW provides the instance proc address
// the binding needs, exactly as the engine renderer does; no window or
// surface is created.
func New() *Backend {
	b := &Backend{}

	if err := glfw.Init(); err != nil {
		b.initErr = err
		return b
	}
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		glfw.Terminate()
		b.initErr = vk.Error(vk.ErrorInitializationFailed)
		return b
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		glfw.Terminate()
		b.initErr = err
	}
	return b
}

func (b *Backend) Name() string { return "vulkan" }

func (b *Backend) QueryInstanceExtensionSupport(ext hal.InstanceExtensionType) bool {
	if b.initErr != nil {
		return false
	}
	switch ext {
	case hal.InstanceExtensionDriverValidation:
		return hasLayer(validationLayerName)
	case hal.InstanceExtensionGPUValidation:
		return hasLayer(validationLayerName) && hasInstanceExtension(validationFeaturesExt)
	case hal.InstanceExtensionAdapterNodes:
		// Device groups are not exposed through this translation yet.
		return false
	}
	return false
}

func hasLayer(name string) bool {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return false
	}
	layers := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, layers); res != vk.Success {
		return false
	}
	for i := range layers {
		layers[i].Deref()
		if name == vk.ToString(layers[i].LayerName[:firstZero(layers[i].LayerName[:])+1]) {
			return true
		}
	}
	return false
}

func hasInstanceExtension(name string) bool {
	var count uint32
	if res := vk.EnumerateInstanceExtensionProperties("", &count, nil); res != vk.Success {
		return false
	}
	extensions := make([]vk.ExtensionProperties, count)
	if res := vk.EnumerateInstanceExtensionProperties("", &count, extensions); res != vk.Success {
		return false
	}
	for i := range extensions {
		extensions[i].Deref()
		if name == vk.ToString(extensions[i].ExtensionName[:firstZero(extensions[i].ExtensionName[:])+1]) {
			return true
		}
	}
	return false
}

// CreateInstance resolves the validated extension set into Vulkan layers
// and instance extensions and constructs the native instance. Partial
// native state is released before any failure returns.
func (b *Backend) CreateInstance(desc *hal.InstanceDesc, messenger *hal.Messenger) (hal.InstanceBackend, hal.Result) {
	if b.initErr != nil {
		messenger.Emit(hal.MessageSeverityError, hal.MessageSourceImplementation,
			"vulkan: loader initialization failed: %v", b.initErr)
		return nil, hal.ErrorIncompatibleDriver
	}

	layers := []string{}
	extensions := []string{}
	debug := false

	for _, ext := range desc.Extensions {
		switch ext.Type() {
		case hal.InstanceExtensionDriverValidation:
			if ext.DriverValidation().Enable {
				layers = append(layers, validationLayerName)
				extensions = append(extensions, vk.ExtDebugReportExtensionName)
				debug = true
			}
		case hal.InstanceExtensionGPUValidation:
			if ext.GPUValidation().Enable {
				if !contains(layers, validationLayerName) {
					layers = append(layers, validationLayerName)
				}
				extensions = append(extensions, validationFeaturesExt)
			}
		case hal.InstanceExtensionAdapterNodes:
			// Unsupported; the core rejects it before reaching here.
			return nil, hal.ErrorExtensionNotSupported
		}
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   safeString(desc.ApplicationName),
		PEngineName:        safeString("Lumen"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
	}

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, nil, &instance); res != vk.Success {
		return nil, mapResult(res)
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, hal.ErrorInitializationFailed
	}

	ib := &instanceBackend{instance: instance, messenger: messenger}

	if debug {
		messengerMu.Lock()
		activeMessenger = messenger
		messengerMu.Unlock()

		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}
		var dbg vk.DebugReportCallback
		if res := vk.CreateDebugReportCallback(instance, &debugCreateInfo, nil, &dbg); res != vk.Success {
			vk.DestroyInstance(instance, nil)
			return nil, mapResult(res)
		}
		ib.debugMessenger = dbg
	}

	return ib, hal.Success
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type instanceBackend struct {
	instance       vk.Instance
	messenger      *hal.Messenger
	debugMessenger vk.DebugReportCallback
}

// EnumerateAdapters queries the native physical devices, count first and
// contents second. A larger second answer is legitimate and tolerated.
func (i *instanceBackend) EnumerateAdapters() ([]hal.AdapterBackend, hal.Result) {
	var count uint32
	if res := vk.EnumeratePhysicalDevices(i.instance, &count, nil); res != vk.Success {
		return nil, mapResult(res)
	}

	physicalDevices := make([]vk.PhysicalDevice, count)
	if res := vk.EnumeratePhysicalDevices(i.instance, &count, physicalDevices); res != vk.Success {
		return nil, mapResult(res)
	}

	out := make([]hal.AdapterBackend, 0, count)
	for _, pd := range physicalDevices[:count] {
		out = append(out, &adapterBackend{physicalDevice: pd})
	}
	return out, hal.Success
}

func (i *instanceBackend) Destroy() {
	messengerMu.Lock()
	if activeMessenger == i.messenger {
		activeMessenger = nil
	}
	messengerMu.Unlock()

	if i.debugMessenger != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(i.instance, i.debugMessenger, nil)
		i.debugMessenger = vk.NullDebugReportCallback
	}
	vk.DestroyInstance(i.instance, nil)
	i.instance = nil
}
