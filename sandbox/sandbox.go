package sandbox

import (
	"fmt"

	"github.com/spaghettifunk/lumen/core"
	"github.com/spaghettifunk/lumen/hal"
	"github.com/spaghettifunk/lumen/hal/noop"
	"github.com/spaghettifunk/lumen/hal/vulkan"
)

// Sandbox drives one full tour of the HAL: instance, adapter selection,
// device, a graphics queue, a recycled command list and a pair of
// resources, pumped through a fenced frame loop.
type Sandbox struct {
	config *Config

	instance *hal.Instance
	device   *hal.Device
	graphics *hal.Queue
	compute  *hal.Queue

	graphicsGroup *hal.CommandGroup
	graphicsList  *hal.CommandList
	computeGroup  *hal.CommandGroup
	computeList   *hal.CommandList

	fence     *hal.Fence
	semaphore *hal.Semaphore

	buffer  *hal.Resource
	texture *hal.Resource

	clock *core.Clock
	done  chan struct{}
}

func New(config *Config) *Sandbox {
	return &Sandbox{
		config: config,
		clock:  core.NewClock(),
		done:   make(chan struct{}),
	}
}

func selectBackend(name string) (hal.Backend, error) {
	switch name {
	case "noop":
		return noop.New(), nil
	case "vulkan":
		return vulkan.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func onMessage(severity hal.MessageSeverity, source hal.MessageSource, message string) {
	switch severity {
	case hal.MessageSeverityVerbose:
		core.LogDebug("[%s] %s", source, message)
	case hal.MessageSeverityInfo:
		core.LogInfo("[%s] %s", source, message)
	case hal.MessageSeverityWarning:
		core.LogWarn("[%s] %s", source, message)
	default:
		core.LogError("[%s] %s", source, message)
	}
}

func (s *Sandbox) Initialize() error {
	backend, err := selectBackend(s.config.Backend)
	if err != nil {
		return err
	}
	core.LogInfo("using %s backend", backend.Name())

	var extensions []hal.InstanceExtension
	if s.config.Validation.Driver {
		if backend.QueryInstanceExtensionSupport(hal.InstanceExtensionDriverValidation) {
			extensions = append(extensions, hal.WithDriverValidation(hal.DriverValidationExt{Enable: true}))
		} else {
			core.LogWarn("driver validation requested but not supported, continuing without")
		}
	}
	if s.config.Validation.GPU {
		if backend.QueryInstanceExtensionSupport(hal.InstanceExtensionGPUValidation) {
			extensions = append(extensions, hal.WithGPUValidation(hal.GPUValidationExt{Enable: true}))
		} else {
			core.LogWarn("GPU validation requested but not supported, continuing without")
		}
	}

	instance, res := hal.CreateInstance(backend, hal.InstanceDesc{
		ApplicationName: s.config.ApplicationName,
		Extensions:      extensions,
		MessageCallback: onMessage,
	})
	if res != hal.Success {
		return fmt.Errorf("create instance: %w", res.Err())
	}
	s.instance = instance

	adapter, err := s.selectAdapter()
	if err != nil {
		return err
	}

	queues := []hal.QueueDesc{
		{Type: hal.QueueTypeGraphics, Priority: hal.QueuePriorityHigh},
	}
	if count, _ := adapter.QueryQueueCount(hal.QueueTypeCompute); count > 0 {
		queues = append(queues, hal.QueueDesc{Type: hal.QueueTypeCompute, Priority: hal.QueuePriorityNormal})
	}

	device, res := instance.CreateDevice(hal.DeviceDesc{
		Adapter: adapter,
		Queues:  queues,
	})
	if res != hal.Success {
		return fmt.Errorf("create device: %w", res.Err())
	}
	s.device = device

	graphics, res := device.GetQueue(hal.QueueTypeGraphics, 0)
	if res != hal.Success {
		return fmt.Errorf("get graphics queue: %w", res.Err())
	}
	s.graphics = graphics

	if len(queues) > 1 {
		compute, res := device.GetQueue(hal.QueueTypeCompute, 0)
		if res != hal.Success {
			return fmt.Errorf("get compute queue: %w", res.Err())
		}
		s.compute = compute
	}

	if err := s.createCommandObjects(); err != nil {
		return err
	}
	return s.createResources()
}

// selectAdapter picks the highest scoring adapter, heavily favoring
// discrete GPUs.
func (s *Sandbox) selectAdapter() (*hal.Adapter, error) {
	adapters, res := s.instance.EnumerateAdapters()
	if res != hal.Success {
		return nil, fmt.Errorf("enumerate adapters: %w", res.Err())
	}
	if len(adapters) == 0 {
		return nil, fmt.Errorf("no adapters found")
	}

	var best *hal.Adapter
	bestScore := -1
	for _, adapter := range adapters {
		info, res := adapter.QueryInfo()
		if res != hal.Success {
			continue
		}

		score := 0
		if info.AdapterType == hal.AdapterTypeDiscrete {
			score += 1000
		}
		core.LogDebug("adapter %s (vendor 0x%04X) scored %d", info.AdapterName, info.VendorID, score)
		if score > bestScore {
			best, bestScore = adapter, score
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no usable adapter found")
	}

	info, _ := best.QueryInfo()
	core.LogInfo("selected adapter %s (%s)", info.AdapterName, info.AdapterType)
	return best, nil
}

func (s *Sandbox) createCommandObjects() error {
	group, res := s.device.CreateCommandGroup(hal.QueueTypeGraphics)
	if res != hal.Success {
		return fmt.Errorf("create graphics command group: %w", res.Err())
	}
	s.graphicsGroup = group

	list, res := group.Allocate(hal.CommandListAllocDesc{Usage: hal.CommandListUsageDirect})
	if res != hal.Success {
		return fmt.Errorf("allocate graphics command list: %w", res.Err())
	}
	s.graphicsList = list

	if s.compute != nil {
		group, res = s.device.CreateCommandGroup(hal.QueueTypeCompute)
		if res != hal.Success {
			return fmt.Errorf("create compute command group: %w", res.Err())
		}
		s.computeGroup = group

		list, res = group.Allocate(hal.CommandListAllocDesc{Usage: hal.CommandListUsageDirect})
		if res != hal.Success {
			return fmt.Errorf("allocate compute command list: %w", res.Err())
		}
		s.computeList = list
	}

	// Signaled so that the first frame's wait falls straight through.
	fence, res := s.device.CreateFence(hal.FenceFlagSignaled)
	if res != hal.Success {
		return fmt.Errorf("create fence: %w", res.Err())
	}
	s.fence = fence

	semaphore, res := s.device.CreateSemaphore()
	if res != hal.Success {
		return fmt.Errorf("create semaphore: %w", res.Err())
	}
	s.semaphore = semaphore
	return nil
}

func (s *Sandbox) createResources() error {
	buffer, res := s.device.CreateResource(hal.BufferDesc(
		hal.ResourceUsageShaderWrite,
		hal.MemoryTypeLocal,
		hal.ResourceStateShaderReadWrite,
		64,
	))
	if res != hal.Success {
		return fmt.Errorf("create buffer: %w", res.Err())
	}
	s.buffer = buffer

	texture, res := s.device.CreateResource(hal.ResourceDesc{
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
	})
	if res != hal.Success {
		return fmt.Errorf("create texture: %w", res.Err())
	}
	s.texture = texture
	return nil
}

func (s *Sandbox) Run() error {
	core.MetricsInitialize()
	s.clock.Start()

	for frame := 0; s.config.FrameCount <= 0 || frame < s.config.FrameCount; frame++ {
		select {
		case <-s.done:
			core.LogInfo("shutdown requested, stopping after %d frames", frame)
			return nil
		default:
		}

		s.clock.Update()
		frameStart := s.clock.Elapsed()

		if err := s.frame(); err != nil {
			return err
		}

		s.clock.Update()
		core.MetricsUpdate((s.clock.Elapsed() - frameStart) / 1e9)
	}

	fps, frameTime := core.MetricsFrame()
	core.LogInfo("finished %d frames, %.1f fps, %.3f ms avg", s.config.FrameCount, fps, frameTime)
	return nil
}

// frame runs one fenced iteration. The graphics queue signals the frame
// semaphore and, when a compute queue exists, compute waits on it before
// signaling the frame fence, chaining the two queues.
func (s *Sandbox) frame() error {
	if res := s.device.WaitFence(s.fence, hal.TimeoutInfinite); res != hal.Success {
		return fmt.Errorf("wait frame fence: %w", res.Err())
	}
	if res := s.fence.Reset(); res != hal.Success {
		return fmt.Errorf("reset frame fence: %w", res.Err())
	}
	if res := s.graphicsGroup.Reset(); res != hal.Success {
		return fmt.Errorf("reset graphics command group: %w", res.Err())
	}

	record := func(list *hal.CommandList) {
		// Nothing to record yet; the loop exercises the
		// allocate/record/submit cycle itself.
	}
	if res := s.graphicsList.Record(hal.CommandListBeginDesc{}, record); res != hal.Success {
		return fmt.Errorf("record graphics command list: %w", res.Err())
	}

	if s.compute == nil {
		if res := s.graphics.Submit(hal.SubmitDesc{
			CommandLists: []*hal.CommandList{s.graphicsList},
			Fence:        s.fence,
		}); res != hal.Success {
			return fmt.Errorf("submit graphics: %w", res.Err())
		}
		return nil
	}

	if res := s.computeGroup.Reset(); res != hal.Success {
		return fmt.Errorf("reset compute command group: %w", res.Err())
	}
	if res := s.computeList.Record(hal.CommandListBeginDesc{}, record); res != hal.Success {
		return fmt.Errorf("record compute command list: %w", res.Err())
	}

	if res := s.graphics.Submit(hal.SubmitDesc{
		CommandLists:     []*hal.CommandList{s.graphicsList},
		SignalSemaphores: []*hal.Semaphore{s.semaphore},
	}); res != hal.Success {
		return fmt.Errorf("submit graphics: %w", res.Err())
	}
	if res := s.compute.Submit(hal.SubmitDesc{
		WaitSemaphores: []*hal.Semaphore{s.semaphore},
		CommandLists:   []*hal.CommandList{s.computeList},
		Fence:          s.fence,
	}); res != hal.Success {
		return fmt.Errorf("submit compute: %w", res.Err())
	}
	return nil
}

// Shutdown tears everything down in the reverse order of creation. Safe to
// call on a partially initialized sandbox.
func (s *Sandbox) Shutdown() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}

	if s.device != nil {
		// The frame fence guards the last submission.
		if s.fence != nil {
			s.device.WaitFence(s.fence, hal.TimeoutInfinite)
		}

		s.device.DestroyResource(s.texture)
		s.device.DestroyResource(s.buffer)
		s.device.DestroySemaphore(s.semaphore)
		s.device.DestroyFence(s.fence)
		s.device.DestroyCommandGroup(s.computeGroup)
		s.device.DestroyCommandGroup(s.graphicsGroup)
	}
	if s.instance != nil {
		s.instance.DestroyDevice(s.device)
	}
	hal.DestroyInstance(s.instance)

	s.texture, s.buffer = nil, nil
	s.semaphore, s.fence = nil, nil
	s.graphicsGroup, s.graphicsList = nil, nil
	s.computeGroup, s.computeList = nil, nil
	s.graphics, s.compute, s.device, s.instance = nil, nil, nil, nil
}
