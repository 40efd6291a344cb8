package board

import (
	"testing"
	"time"

	"github.com/misops/tickboard/internal/domain"
)

func mustTicket(t *testing.T, id, issue, status string, created time.Time) domain.Ticket {
	t.Helper()
	ticket, err := domain.NewTicket(domain.TicketInput{ID: id, Issue: issue, Status: status, DateCreated: created})
	if err != nil {
		t.Fatalf("NewTicket(%s) error = %v", id, err)
	}
	return ticket
}

func TestFromTicketsPartitionTotality(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tickets := []domain.Ticket{
		mustTicket(t, "t1", "a", "To Do", created),
		mustTicket(t, "t2", "b", "In Progress", created),
		mustTicket(t, "t3", "c", "Done", created),
		mustTicket(t, "t4", "d", "Closed", created),
		mustTicket(t, "t5", "e", "bogus", created),
	}

	b := FromTickets(tickets)
	if b.Len() != len(tickets) {
		t.Fatalf("board holds %d tickets, want %d", b.Len(), len(tickets))
	}

	seen := map[string]int{}
	for _, status := range domain.AllStatuses() {
		for _, ticket := range b.Column(status) {
			seen[ticket.ID]++
			if ticket.Status != status {
				t.Fatalf("ticket %s in column %q with status %q", ticket.ID, status, ticket.Status)
			}
		}
	}
	for _, ticket := range tickets {
		if seen[ticket.ID] != 1 {
			t.Fatalf("ticket %s appears %d times, want exactly once", ticket.ID, seen[ticket.ID])
		}
	}
}

func TestUnknownStatusLandsInToDo(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := FromTickets([]domain.Ticket{mustTicket(t, "t1", "weird", "bogus", created)})

	todo := b.Column(domain.StatusToDo)
	if len(todo) != 1 || todo[0].ID != "t1" {
		t.Fatalf("expected bogus-status ticket in todo, got %#v", todo)
	}
}

func TestEmptyColumnsAreValid(t *testing.T) {
	b := FromTickets(nil)
	for _, status := range domain.AllStatuses() {
		if got := b.Column(status); len(got) != 0 {
			t.Fatalf("expected empty column %q, got %d tickets", status, len(got))
		}
	}
	if len(b.All()) != 0 {
		t.Fatal("expected empty board")
	}
}

func TestApplyMoveStampsTerminalStatus(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := FromTickets([]domain.Ticket{mustTicket(t, "t1", "a", "To Do", created)})

	now := created.Add(time.Hour)
	_, moved, err := b.ApplyMove("t1", domain.StatusDone, now)
	if err != nil {
		t.Fatalf("ApplyMove() error = %v", err)
	}
	if moved.Status != domain.StatusDone {
		t.Fatalf("unexpected status %q", moved.Status)
	}
	if moved.DateFinished == nil || !moved.DateFinished.Equal(now) {
		t.Fatalf("expected DateFinished %v, got %v", now, moved.DateFinished)
	}
	if len(b.Column(domain.StatusToDo)) != 0 || len(b.Column(domain.StatusDone)) != 1 {
		t.Fatal("ticket not relocated to done column")
	}

	// Moving back out of a terminal status clears the timestamp.
	_, moved, err = b.ApplyMove("t1", domain.StatusToDo, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("ApplyMove() error = %v", err)
	}
	if moved.DateFinished != nil {
		t.Fatal("expected DateFinished cleared")
	}
}

func TestApplyMoveUnknownTicket(t *testing.T) {
	b := FromTickets(nil)
	if _, _, err := b.ApplyMove("ghost", domain.StatusDone, time.Now()); err != ErrTicketNotFound {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestRevertRestoresPreMoveShape(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := FromTickets([]domain.Ticket{
		mustTicket(t, "t0", "first", "To Do", created),
		mustTicket(t, "t1", "second", "To Do", created),
		mustTicket(t, "t2", "third", "To Do", created),
	})

	record, _, err := b.ApplyMove("t1", domain.StatusDone, created.Add(time.Hour))
	if err != nil {
		t.Fatalf("ApplyMove() error = %v", err)
	}
	b.Revert(record)

	todo := b.Column(domain.StatusToDo)
	if len(todo) != 3 {
		t.Fatalf("expected 3 tickets back in todo, got %d", len(todo))
	}
	if todo[1].ID != "t1" {
		t.Fatalf("expected t1 restored at index 1, got %q", todo[1].ID)
	}
	if todo[1].Status != domain.StatusToDo {
		t.Fatalf("expected restored status todo, got %q", todo[1].Status)
	}
	if todo[1].DateFinished != nil {
		t.Fatal("expected restored DateFinished nil")
	}
	if len(b.Column(domain.StatusDone)) != 0 {
		t.Fatal("done column should be empty after revert")
	}
}
