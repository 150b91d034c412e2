package model

// Status is the lifecycle state of a download item.
type Status string

const (
	// StatusQueued means the item waits for a free slot.
	StatusQueued Status = "queued"

	// StatusRunning means an external process is working on the item.
	StatusRunning Status = "running"

	// StatusCompleted means the process exited successfully.
	StatusCompleted Status = "completed"

	// StatusFailed means the process could not start or reported a failure.
	StatusFailed Status = "failed"

	// StatusCancelled means the user cancelled the item.
	StatusCancelled Status = "cancelled"
)

// String returns the string representation of Status.
func (s Status) String() string {
	return string(s)
}

// IsActive reports whether the item is waiting or running.
func (s Status) IsActive() bool {
	return s == StatusQueued || s == StatusRunning
}

// IsTerminal reports whether the item reached a final state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// CanTransitionTo reports whether moving from s to next keeps the
// lifecycle monotone.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusQueued:
		return next == StatusRunning || next == StatusCancelled
	case StatusRunning:
		return next.IsTerminal()
	default:
		return false
	}
}
