package domain

import (
	"strings"
	"time"
)

// Ticket is the normalized in-memory form of one support ticket.
type Ticket struct {
	ID           string
	Issue        string
	Status       Status
	Assignee     *StaffMember
	DateCreated  time.Time
	DateFinished *time.Time
	Reporter     string
}

// TicketInput carries raw ticket fields through construction.
type TicketInput struct {
	ID           string
	Issue        string
	Status       string
	Assignee     *StaffMember
	DateCreated  time.Time
	DateFinished *time.Time
	Reporter     string
}

// NewTicket validates required fields and normalizes the backend status
// label. DateFinished is kept consistent with the status: a terminal status
// keeps the backend timestamp (or the creation time when the backend omitted
// it), a non-terminal status clears it.
func NewTicket(in TicketInput) (Ticket, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Issue = strings.TrimSpace(in.Issue)
	if in.ID == "" {
		return Ticket{}, ErrInvalidID
	}
	if in.Issue == "" {
		return Ticket{}, ErrInvalidIssue
	}

	status := ParseStatus(in.Status)
	finished := normalizeFinished(in.DateFinished)
	if !status.IsTerminal() {
		finished = nil
	} else if finished == nil {
		created := in.DateCreated.UTC()
		finished = &created
	}

	return Ticket{
		ID:           in.ID,
		Issue:        in.Issue,
		Status:       status,
		Assignee:     in.Assignee,
		DateCreated:  in.DateCreated.UTC(),
		DateFinished: finished,
		Reporter:     strings.TrimSpace(in.Reporter),
	}, nil
}

// ApplyStatus moves the ticket to a new status and keeps the terminal-status
// invariant: entering Done/Closed stamps DateFinished, leaving clears it.
func (t *Ticket) ApplyStatus(status Status, now time.Time) {
	t.Status = status
	if status.IsTerminal() {
		ts := now.UTC()
		t.DateFinished = &ts
		return
	}
	t.DateFinished = nil
}

// AssigneeName returns the assignee display name or "Unassigned".
func (t Ticket) AssigneeName() string {
	if t.Assignee == nil {
		return "Unassigned"
	}
	return t.Assignee.DisplayName()
}

func normalizeFinished(ts *time.Time) *time.Time {
	if ts == nil {
		return nil
	}
	v := ts.UTC()
	return &v
}
