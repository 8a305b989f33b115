package hal

type CommandListState uint8

const (
	CommandListStateInitial CommandListState = iota
	CommandListStateRecording
	CommandListStateExecutable
)

func (s CommandListState) String() string {
	switch s {
	case CommandListStateInitial:
		return "Initial"
	case CommandListStateRecording:
		return "Recording"
	case CommandListStateExecutable:
		return "Executable"
	}
	return "Unknown"
}

// CommandListBeginDesc scopes one recording pass. Recording bounds are
// validated at record time, not deferred to submission.
type CommandListBeginDesc struct {
	NodeMask uint32
}

// CommandList is a recorded, replayable sequence of GPU commands. It moves
// through Initial → Recording → Executable via Record, and back to Initial
// only through its owning group's Reset.
type CommandList struct {
	group   *CommandGroup
	backend CommandListBackend

	usage CommandListUsage
	state CommandListState
}

func (l *CommandList) State() CommandListState { return l.state }
func (l *CommandList) Usage() CommandListUsage { return l.usage }

// Record transitions the list Initial → Recording, invokes body exactly
// once with exclusive access to the list, then transitions Recording →
// Executable. A list not in Initial cannot be recorded again until its
// group is reset; that and a nil body are ErrorInvalidUsage.
func (l *CommandList) Record(desc CommandListBeginDesc, body func(list *CommandList)) Result {
	messenger := l.group.device.messenger()

	if l.backend == nil {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"Record: command list is invalidated (group destroyed)")
		return ErrorInvalidUsage
	}
	if body == nil {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"Record: recording body must not be nil")
		return ErrorInvalidUsage
	}
	if l.state != CommandListStateInitial {
		messenger.Emit(MessageSeverityError, MessageSourceAPI,
			"Record: command list is %s, must be Initial", l.state)
		return ErrorInvalidUsage
	}

	if res := l.backend.Begin(&desc); res != Success {
		return res
	}
	l.state = CommandListStateRecording

	body(l)

	if res := l.backend.End(); res != Success {
		// A failed End leaves the native list unusable until the group is
		// reset; mirror that in the wrapper state.
		return res
	}
	l.state = CommandListStateExecutable
	return Success
}
