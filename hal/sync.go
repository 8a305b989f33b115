package hal

// Fence is a binary host-visible completion signal. It is signaled by a
// queue submission and waited on with Device.WaitFence; it must be Reset
// between reuses.
type Fence struct {
	device  *Device
	backend FenceBackend
}

// Signaled is a non-blocking status probe.
func (f *Fence) Signaled() bool {
	if f.backend == nil {
		return false
	}
	return f.backend.Signaled()
}

// Reset returns a signaled fence to the unsignaled state so it can be
// reused. Resetting an unsignaled fence is allowed and does nothing.
func (f *Fence) Reset() Result {
	if f.backend == nil {
		f.device.messenger().Emit(MessageSeverityError, MessageSourceAPI,
			"Reset: fence is destroyed")
		return ErrorInvalidUsage
	}
	return f.device.backend.ResetFence(f.backend)
}

// Semaphore is a binary device-visible signal ordering work between queue
// submissions. It carries no host-observable state; there is no way to
// wait for or query a semaphore from the host.
type Semaphore struct {
	device  *Device
	backend SemaphoreBackend
}
