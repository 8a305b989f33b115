package hal

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/lumen/containers"
)

type MessageSeverity uint8

const (
	MessageSeverityVerbose MessageSeverity = iota
	MessageSeverityInfo
	MessageSeverityWarning
	MessageSeverityError
	MessageSeverityCorruption
)

func (s MessageSeverity) String() string {
	switch s {
	case MessageSeverityVerbose:
		return "Verbose"
	case MessageSeverityInfo:
		return "Info"
	case MessageSeverityWarning:
		return "Warning"
	case MessageSeverityError:
		return "Error"
	case MessageSeverityCorruption:
		return "Corruption"
	}
	return "Unknown"
}

type MessageSource uint8

const (
	// MessageSourceAPI marks diagnostics produced by the HAL's own
	// parameter and state validation.
	MessageSourceAPI MessageSource = iota
	// MessageSourceImplementation marks diagnostics forwarded from the
	// native backend (driver validation layers and the like).
	MessageSourceImplementation
)

func (s MessageSource) String() string {
	switch s {
	case MessageSourceAPI:
		return "API"
	case MessageSourceImplementation:
		return "Implementation"
	}
	return "Unknown"
}

// MessageCallback receives diagnostics synchronously from whichever HAL
// call triggered them. It must not call back into the HAL.
type MessageCallback func(severity MessageSeverity, source MessageSource, message string)

// Message is one recorded diagnostic.
type Message struct {
	Severity MessageSeverity
	Source   MessageSource
	Text     string
}

const messageHistorySize = 64

// Messenger is the diagnostic sink for one Instance and everything the
// Instance creates. There is no process-global callback; the sink is
// handed to CreateInstance and propagated by reference from there.
type Messenger struct {
	mu       sync.Mutex
	callback MessageCallback
	history  *containers.RingQueue
}

func newMessenger(callback MessageCallback) *Messenger {
	return &Messenger{
		callback: callback,
		history:  containers.NewRingQueue(messageHistorySize),
	}
}

// Emit records a diagnostic and invokes the callback, if any, on the
// calling goroutine.
func (m *Messenger) Emit(severity MessageSeverity, source MessageSource, format string, args ...interface{}) {
	if m == nil {
		return
	}
	text := fmt.Sprintf(format, args...)

	m.mu.Lock()
	if m.history.IsFull() {
		m.history.Dequeue()
	}
	m.history.Enqueue(Message{Severity: severity, Source: source, Text: text})
	cb := m.callback
	m.mu.Unlock()

	if cb != nil {
		cb(severity, source, text)
	}
}

// RecentMessages drains and returns the recorded diagnostic history,
// oldest first. Useful for post-mortem inspection after a failed call.
func (m *Messenger) RecentMessages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Message, 0, m.history.Len())
	for !m.history.IsEmpty() {
		v, _ := m.history.Dequeue()
		out = append(out, v.(Message))
	}
	return out
}
