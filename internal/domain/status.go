package domain

import "strings"

// Status is the closed set of ticket workflow states. The backend stores
// status as free text; every label entering the program goes through
// ParseStatus so the rest of the code only ever sees one of these four.
type Status string

const (
	StatusToDo       Status = "todo"
	StatusInProgress Status = "inProgress"
	StatusDone       Status = "done"
	StatusClosed     Status = "close"
)

// statusWireLabels maps each status to its backend wire label.
var statusWireLabels = map[Status]string{
	StatusToDo:       "To Do",
	StatusInProgress: "In Progress",
	StatusDone:       "Done",
	StatusClosed:     "Closed",
}

var statusOrder = []Status{StatusToDo, StatusInProgress, StatusDone, StatusClosed}

// AllStatuses returns the four statuses in board order.
func AllStatuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// ParseStatus normalizes a backend status label, case-insensitively. Unknown
// or malformed labels map to StatusToDo; bad backend data must never take
// the board down.
func ParseStatus(label string) Status {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "to do":
		return StatusToDo
	case "in progress":
		return StatusInProgress
	case "done":
		return StatusDone
	case "closed":
		return StatusClosed
	default:
		return StatusToDo
	}
}

// StatusForColumn is the exact inverse of ColumnKey for the four canonical
// column keys.
func StatusForColumn(key string) (Status, error) {
	switch Status(key) {
	case StatusToDo, StatusInProgress, StatusDone, StatusClosed:
		return Status(key), nil
	default:
		return "", ErrInvalidColumn
	}
}

// ColumnKey returns the board column identifier for the status.
func (s Status) ColumnKey() string {
	return string(s)
}

// WireLabel returns the backend label for the status.
func (s Status) WireLabel() string {
	if label, ok := statusWireLabels[s]; ok {
		return label
	}
	return statusWireLabels[StatusToDo]
}

// DisplayLabel returns the label rendered in column headers and pickers.
func (s Status) DisplayLabel() string {
	return s.WireLabel()
}

// IsTerminal reports whether a ticket in this status is finished and carries
// a completion timestamp.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusClosed
}
