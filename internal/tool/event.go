package tool

// EventType distinguishes progress from terminal events.
type EventType int

const (
	EventProgress EventType = iota
	EventCompleted
	EventFailed
	EventCancelled
)

// String returns a short name for the event type.
func (t EventType) String() string {
	switch t {
	case EventProgress:
		return "progress"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	case EventCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Event is a structured update produced while a job runs.
//
// Percent, Rate and ETA are set for EventProgress. OutputPath is set for
// EventCompleted when the tool reported it. Message and Err are set for
// EventFailed; Err wraps ErrLaunch or ErrRuntime.
type Event struct {
	Type       EventType
	Percent    int
	Rate       string
	ETA        string
	OutputPath string
	Message    string
	Err        error
}

// Terminal reports whether the event ends the job.
func (e Event) Terminal() bool {
	return e.Type != EventProgress
}
