package walker

// EventKind identifies a visitation event.
type EventKind int

const (
	EventEnterDir EventKind = iota
	EventVisitFile
	EventLeaveDir
)

func (kind EventKind) String() string {
	switch kind {
	case EventEnterDir:
		return "enter"
	case EventVisitFile:
		return "file"
	case EventLeaveDir:
		return "leave"
	default:
		return "unknown"
	}
}

// Event is produced once per visited file and twice per visited directory,
// before (EventEnterDir) and after (EventLeaveDir) its children.
type Event struct {
	Kind EventKind
	// Path is the absolute path of the entry.
	Path string
	// RelativePath is relative to the walk root with forward slashes; "." for the root.
	RelativePath string
	Name         string
	// Depth is zero for the root and grows by one per level.
	Depth int
	// Last marks the final visible sibling within its parent directory.
	Last bool
	// Content holds file text in report mode.
	Content string
	// ReadErr is set when the file content could not be read.
	ReadErr error
}

// IsRoot reports whether the event refers to the walk root.
func (event Event) IsRoot() bool {
	return event.Depth == 0
}
