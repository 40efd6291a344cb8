package app

import (
	"strings"
	"time"

	"github.com/misops/tickboard/internal/domain"
)

// TicketUpdate is a full-record ticket update as sent to the backend.
type TicketUpdate struct {
	TicketID     string
	Issue        string
	Status       domain.Status
	StaffID      string
	DateFinished *time.Time
}

// BuildTicketUpdate validates edit-form fields locally and assembles the
// update payload. Issue and status are required before any call is issued;
// a missing field is a local validation failure, never sent to the backend.
// Selecting a terminal status stamps DateFinished at submit time.
func BuildTicketUpdate(ticket domain.Ticket, issue string, status domain.Status, staffID string, now time.Time) (TicketUpdate, error) {
	issue = strings.TrimSpace(issue)
	if issue == "" {
		return TicketUpdate{}, ErrIssueRequired
	}
	if status == "" {
		return TicketUpdate{}, ErrStatusRequired
	}

	update := TicketUpdate{
		TicketID: ticket.ID,
		Issue:    issue,
		Status:   status,
		StaffID:  strings.TrimSpace(staffID),
	}
	if status.IsTerminal() {
		ts := now.UTC()
		update.DateFinished = &ts
	}
	return update, nil
}
