package hal

import "fmt"

// Result is the outcome code returned by every fallible HAL operation.
// The HAL never panics on invalid usage and never returns backend-specific
// codes; every native failure is mapped to the closest member of this
// taxonomy before it reaches the caller.
type Result int32

const (
	Success Result = iota
	// Timeout is returned by wait operations whose deadline elapsed before
	// the awaited object signaled. It is not an error.
	Timeout
	// NotReady is returned by non-blocking queries on objects that have not
	// signaled yet. It is not an error.
	NotReady
	ErrorUnknown
	ErrorInvalidUsage
	ErrorExtensionNotSupported
	ErrorFeatureNotSupported
	ErrorDeviceLost
	ErrorDeviceRemoved
	ErrorOutOfHostMemory
	ErrorOutOfDeviceMemory
	ErrorIncompatibleDriver
	ErrorInitializationFailed
)

func (r Result) String() string {
	switch r {
	case Success:
		return "Success"
	case Timeout:
		return "Timeout"
	case NotReady:
		return "NotReady"
	case ErrorUnknown:
		return "ErrorUnknown"
	case ErrorInvalidUsage:
		return "ErrorInvalidUsage"
	case ErrorExtensionNotSupported:
		return "ErrorExtensionNotSupported"
	case ErrorFeatureNotSupported:
		return "ErrorFeatureNotSupported"
	case ErrorDeviceLost:
		return "ErrorDeviceLost"
	case ErrorDeviceRemoved:
		return "ErrorDeviceRemoved"
	case ErrorOutOfHostMemory:
		return "ErrorOutOfHostMemory"
	case ErrorOutOfDeviceMemory:
		return "ErrorOutOfDeviceMemory"
	case ErrorIncompatibleDriver:
		return "ErrorIncompatibleDriver"
	case ErrorInitializationFailed:
		return "ErrorInitializationFailed"
	}
	return fmt.Sprintf("Result(%d)", int32(r))
}

// IsError reports whether the result denotes a failure. Timeout and
// NotReady are informational outcomes, not failures.
func (r Result) IsError() bool {
	switch r {
	case Success, Timeout, NotReady:
		return false
	}
	return true
}

// Err bridges a Result into the Go error domain for callers that prefer
// error plumbing over outcome codes. Only Success maps to nil.
func (r Result) Err() error {
	if r == Success {
		return nil
	}
	return fmt.Errorf("lumen: operation returned %s", r)
}
