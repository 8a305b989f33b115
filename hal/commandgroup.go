package hal

type CommandListUsage uint8

const (
	// CommandListUsageDirect lists are submitted directly to a queue.
	CommandListUsageDirect CommandListUsage = iota
	// CommandListUsageIndirect lists are executed from within other lists.
	CommandListUsageIndirect
)

func (u CommandListUsage) String() string {
	switch u {
	case CommandListUsageDirect:
		return "Direct"
	case CommandListUsageIndirect:
		return "Indirect"
	}
	return "Unknown"
}

// CommandListAllocDesc parameterizes one allocation from a CommandGroup.
type CommandListAllocDesc struct {
	NodeMask uint32
	Usage    CommandListUsage
}

// CommandGroup pools command list allocations for one queue type. The
// group owns its lists: resetting the group returns every list it
// allocated to the Initial state, and destroying the group invalidates
// them. A group is not safe for concurrent Allocate/Reset calls.
type CommandGroup struct {
	device  *Device
	backend CommandGroupBackend

	queueType QueueType
	lists     []*CommandList
}

func (g *CommandGroup) QueueType() QueueType { return g.queueType }

// Allocate produces a command list in the Initial state, sized for this
// group's queue type and the requested usage class.
func (g *CommandGroup) Allocate(desc CommandListAllocDesc) (*CommandList, Result) {
	if g.backend == nil {
		g.device.messenger().Emit(MessageSeverityError, MessageSourceAPI,
			"Allocate: command group is destroyed")
		return nil, ErrorInvalidUsage
	}
	if desc.Usage > CommandListUsageIndirect {
		g.device.messenger().Emit(MessageSeverityError, MessageSourceAPI,
			"Allocate: unknown command list usage %d", desc.Usage)
		return nil, ErrorInvalidUsage
	}

	backend, res := g.backend.Allocate(desc.Usage)
	if res != Success {
		return nil, res
	}

	list := &CommandList{
		group:   g,
		backend: backend,
		usage:   desc.Usage,
		state:   CommandListStateInitial,
	}
	g.lists = append(g.lists, list)
	return list, Success
}

// Reset returns every list allocated from this group to the Initial
// state, including lists still in Recording. Resetting while any of the
// group's lists is queued on a Queue that has not signaled completion is
// undefined; fencing that is the caller's responsibility.
func (g *CommandGroup) Reset() Result {
	if g.backend == nil {
		g.device.messenger().Emit(MessageSeverityError, MessageSourceAPI,
			"Reset: command group is destroyed")
		return ErrorInvalidUsage
	}

	if res := g.backend.Reset(); res != Success {
		return res
	}
	for _, list := range g.lists {
		list.state = CommandListStateInitial
	}
	return Success
}
