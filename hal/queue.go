package hal

type QueueType uint8

const (
	QueueTypeGraphics QueueType = iota
	QueueTypeCompute
	QueueTypeTransfer
)

func (t QueueType) String() string {
	switch t {
	case QueueTypeGraphics:
		return "Graphics"
	case QueueTypeCompute:
		return "Compute"
	case QueueTypeTransfer:
		return "Transfer"
	}
	return "Unknown"
}

type QueuePriority uint8

const (
	QueuePriorityNormal QueuePriority = iota
	QueuePriorityHigh
)

func (p QueuePriority) String() string {
	switch p {
	case QueuePriorityNormal:
		return "Normal"
	case QueuePriorityHigh:
		return "High"
	}
	return "Unknown"
}

// QueueDesc declares one queue slot in a DeviceDesc. Queues are created up
// front, in declaration order, and looked up later with Device.GetQueue.
type QueueDesc struct {
	Type     QueueType
	Priority QueuePriority
}

// SubmitDesc describes one submission: the command lists to execute in
// array order, semaphores to wait on before execution, semaphores to
// signal on completion, and an optional fence signaled when every listed
// command list has finished.
type SubmitDesc struct {
	WaitSemaphores   []*Semaphore
	CommandLists     []*CommandList
	SignalSemaphores []*Semaphore
	Fence            *Fence
}

// Queue is an ordered submission channel. Its lifetime is bound to the
// owning Device; queues are never destroyed individually. A Queue must be
// driven by at most one goroutine at a time; concurrent Submit calls on
// the same Queue without external locking are undefined.
type Queue struct {
	device  *Device
	backend QueueBackend

	queueType QueueType
	index     uint8
	priority  QueuePriority
}

func (q *Queue) Type() QueueType         { return q.queueType }
func (q *Queue) Index() uint8            { return q.index }
func (q *Queue) Priority() QueuePriority { return q.priority }

// Submit hands the described work to the native queue. Submission order
// across lists in one call is array order; ordering across Submit calls on
// the same queue is FIFO; ordering across queues exists only through the
// wait/signal semaphore pairs. Every list must be Executable and must have
// been allocated from a group of this queue's type.
func (q *Queue) Submit(desc SubmitDesc) Result {
	messenger := q.device.messenger()

	if len(desc.CommandLists) == 0 {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"Submit: no command lists")
		return ErrorInvalidUsage
	}

	lists := make([]CommandListBackend, len(desc.CommandLists))
	for i, list := range desc.CommandLists {
		if list == nil {
			messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"Submit: command list %d is nil", i)
			return ErrorInvalidUsage
		}
		if list.backend == nil {
			messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"Submit: command list %d belongs to a destroyed group", i)
			return ErrorInvalidUsage
		}
		if list.State() != CommandListStateExecutable {
			messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"Submit: command list %d is %s, must be Executable", i, list.State())
			return ErrorInvalidUsage
		}
		if list.group.queueType != q.queueType {
			messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"Submit: command list %d belongs to a %s group, queue is %s", i, list.group.queueType, q.queueType)
			return ErrorInvalidUsage
		}
		lists[i] = list.backend
	}

	waits := make([]SemaphoreBackend, len(desc.WaitSemaphores))
	for i, s := range desc.WaitSemaphores {
		if s == nil || s.backend == nil {
			messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"Submit: wait semaphore %d is nil or destroyed", i)
			return ErrorInvalidUsage
		}
		waits[i] = s.backend
	}

	signals := make([]SemaphoreBackend, len(desc.SignalSemaphores))
	for i, s := range desc.SignalSemaphores {
		if s == nil || s.backend == nil {
			messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"Submit: signal semaphore %d is nil or destroyed", i)
			return ErrorInvalidUsage
		}
		signals[i] = s.backend
	}

	var fence FenceBackend
	if desc.Fence != nil {
		if desc.Fence.backend == nil {
			messenger.Emit(MessageSeverityError, MessageSourceAPI,
				"Submit: fence is destroyed")
			return ErrorInvalidUsage
		}
		fence = desc.Fence.backend
	}

	return q.backend.Submit(lists, waits, signals, fence)
}
