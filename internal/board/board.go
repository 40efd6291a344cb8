// Package board holds the client-side source of truth for which tickets
// exist and which workflow column each one occupies. The rendered view is
// always derived from a Board plus the current filter criteria; nothing else
// mutates ticket placement.
package board

import (
	"errors"
	"time"

	"github.com/misops/tickboard/internal/domain"
)

// ErrTicketNotFound reports a move against a ticket that is no longer on the
// board. This is a client-state desync, not a validation failure: it is
// surfaced to the user and no backend call is made.
var ErrTicketNotFound = errors.New("ticket not found on board")

// Board partitions tickets into one ordered bucket per workflow status.
type Board struct {
	columns map[domain.Status][]domain.Ticket
}

// Move records everything needed to revert one ticket move.
type Move struct {
	Ticket    domain.Ticket
	From      domain.Status
	FromIndex int
	To        domain.Status
}

// FromTickets partitions a flat ticket collection by status. Ticket statuses
// are already normalized by the domain layer, so unknown backend labels have
// landed in StatusToDo before they reach here.
func FromTickets(tickets []domain.Ticket) *Board {
	b := &Board{columns: map[domain.Status][]domain.Ticket{}}
	for _, status := range domain.AllStatuses() {
		b.columns[status] = []domain.Ticket{}
	}
	for _, ticket := range tickets {
		b.columns[ticket.Status] = append(b.columns[ticket.Status], ticket)
	}
	return b
}

// Column returns the tickets in one column, in board order.
func (b *Board) Column(status domain.Status) []domain.Ticket {
	out := make([]domain.Ticket, len(b.columns[status]))
	copy(out, b.columns[status])
	return out
}

// All flattens the board in canonical column order, preserving the order
// within each column.
func (b *Board) All() []domain.Ticket {
	out := make([]domain.Ticket, 0, b.Len())
	for _, status := range domain.AllStatuses() {
		out = append(out, b.columns[status]...)
	}
	return out
}

// Len returns the total number of tickets on the board.
func (b *Board) Len() int {
	n := 0
	for _, tickets := range b.columns {
		n += len(tickets)
	}
	return n
}

// Find locates a ticket anywhere on the board.
func (b *Board) Find(ticketID string) (domain.Ticket, bool) {
	_, _, ticket, ok := b.locate(ticketID)
	return ticket, ok
}

// ApplyMove removes the ticket from its current column, applies the new
// status (stamping or clearing DateFinished per the terminal-status
// invariant), and appends it to the target column. The returned Move holds
// the pre-move state for Revert.
func (b *Board) ApplyMove(ticketID string, to domain.Status, now time.Time) (Move, domain.Ticket, error) {
	from, idx, ticket, ok := b.locate(ticketID)
	if !ok {
		return Move{}, domain.Ticket{}, ErrTicketNotFound
	}

	record := Move{Ticket: ticket, From: from, FromIndex: idx, To: to}
	b.columns[from] = append(b.columns[from][:idx], b.columns[from][idx+1:]...)
	ticket.ApplyStatus(to, now)
	b.columns[to] = append(b.columns[to], ticket)
	return record, ticket, nil
}

// Revert restores a ticket to its pre-move column, position, status, and
// completion timestamp. A ticket that has since left the board (a wholesale
// refetch replaced it) is left alone.
func (b *Board) Revert(m Move) {
	status, idx, _, ok := b.locate(m.Ticket.ID)
	if !ok {
		return
	}
	b.columns[status] = append(b.columns[status][:idx], b.columns[status][idx+1:]...)

	col := b.columns[m.From]
	at := m.FromIndex
	if at > len(col) {
		at = len(col)
	}
	col = append(col, domain.Ticket{})
	copy(col[at+1:], col[at:])
	col[at] = m.Ticket
	b.columns[m.From] = col
}

func (b *Board) locate(ticketID string) (domain.Status, int, domain.Ticket, bool) {
	for _, status := range domain.AllStatuses() {
		for idx, ticket := range b.columns[status] {
			if ticket.ID == ticketID {
				return status, idx, ticket, true
			}
		}
	}
	return "", 0, domain.Ticket{}, false
}
